package diff

// myersDiffer is the O(ND) kernel used once inputs grow past
// dpMyersSizeThreshold (spec.md §4.8.5). It is the classic forward greedy
// Myers search, generalised here to operate over [iSequence] instead of a
// comparable slice; it keeps the frontier of every edit distance for the
// backtrack, so its memory grows with D², and it has no middle-snake
// recursion.
type myersDiffer struct{}

func (myersDiffer) Compute(seq1, seq2 iSequence, timeout *Timeout, _ equalityScoreFunc) ([]SequenceDiff, bool) {
	n, m := seq1.Length(), seq2.Length()
	eq := func(i, j int) bool { return seq1.GetElement(i) == seq2.GetElement(j) }

	trace, d, hitTimeout := myersTrace(n, m, eq, timeout)
	if hitTimeout {
		return []SequenceDiff{{Seq1Range: OffsetRange{0, n}, Seq2Range: OffsetRange{0, m}}}, true
	}
	matches := myersBacktrack(trace, d, n, m)
	return pairsToSequenceDiffs(matches, n, m), false
}

// myersTrace runs the forward greedy search, recording the frontier (v) at
// the start of each depth d, so the backtrack pass can reconstruct the path.
func myersTrace(n, m int, eq func(i, j int) bool, timeout *Timeout) (trace []map[int]int, d int, hitTimeout bool) {
	maxD := n + m
	v := map[int]int{1: 0}

	for d = 0; d <= maxD; d++ {
		if d%16 == 0 && !timeout.IsValid() {
			return nil, 0, true
		}
		snapshot := make(map[int]int, len(v))
		for k, x := range v {
			snapshot[k] = x
		}
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[k-1] < v[k+1]) {
				x = v[k+1]
			} else {
				x = v[k-1] + 1
			}
			y := x - k
			for x < n && y < m && eq(x, y) {
				x++
				y++
			}
			v[k] = x
			if x >= n && y >= m {
				return trace, d, false
			}
		}
	}
	return trace, maxD, false
}

// myersBacktrack walks the recorded frontiers from the end back to the
// start, collecting the matched (diagonal) index pairs in ascending order.
func myersBacktrack(trace []map[int]int, d, n, m int) []indexPair {
	var rev []indexPair
	x, y := n, m
	for dd := d; dd >= 0; dd-- {
		v := trace[dd]
		k := x - y
		var prevK int
		if k == -dd || (k != dd && v[k-1] < v[k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			rev = append(rev, indexPair{x, y})
		}
		x, y = prevX, prevY
	}
	for l, r := 0, len(rev)-1; l < r; l, r = l+1, r-1 {
		rev[l], rev[r] = rev[r], rev[l]
	}
	return rev
}
