package diff

// dpDiffer is the cost-minimizing dynamic-programming kernel used for
// smaller inputs (spec.md §4.8.5). It aligns only positions where the two
// sequences' elements compare equal (same perfect-hash / character), and
// among the possible alignments picks the one maximising the sum of the
// optional equalityScoreFunc weights — which is how the orchestrator biases
// the line-level diff away from matching arbitrary blank lines (spec.md
// §4.8.5, §9).
type dpDiffer struct{}

func (dpDiffer) Compute(seq1, seq2 iSequence, timeout *Timeout, score equalityScoreFunc) ([]SequenceDiff, bool) {
	n, m := seq1.Length(), seq2.Length()
	if n == 0 || m == 0 {
		return pairsToSequenceDiffs(nil, n, m), false
	}
	if !timeout.IsValid() {
		return []SequenceDiff{{Seq1Range: OffsetRange{0, n}, Seq2Range: OffsetRange{0, m}}}, true
	}

	dp := make([][]float64, n+1)
	for i := range dp {
		dp[i] = make([]float64, m+1)
	}

	hitTimeout := false
	for i := 1; i <= n; i++ {
		if i%64 == 0 && !timeout.IsValid() {
			hitTimeout = true
			break
		}
		row, prevRow := dp[i], dp[i-1]
		for j := 1; j <= m; j++ {
			best := prevRow[j]
			if row[j-1] > best {
				best = row[j-1]
			}
			if seq1.GetElement(i-1) == seq2.GetElement(j-1) {
				w := 1.0
				if score != nil {
					w = score(i-1, j-1)
				}
				if v := prevRow[j-1] + w; v > best {
					best = v
				}
			}
			row[j] = best
		}
	}
	if hitTimeout {
		return []SequenceDiff{{Seq1Range: OffsetRange{0, n}, Seq2Range: OffsetRange{0, m}}}, true
	}

	matches := dpBacktrack(dp, seq1, seq2, score, n, m)
	return pairsToSequenceDiffs(matches, n, m), false
}

func dpBacktrack(dp [][]float64, seq1, seq2 iSequence, score equalityScoreFunc, n, m int) []indexPair {
	var rev []indexPair
	i, j := n, m
	for i > 0 && j > 0 {
		if seq1.GetElement(i-1) == seq2.GetElement(j-1) {
			w := 1.0
			if score != nil {
				w = score(i-1, j-1)
			}
			if dp[i][j] == dp[i-1][j-1]+w {
				rev = append(rev, indexPair{i - 1, j - 1})
				i--
				j--
				continue
			}
		}
		if dp[i-1][j] >= dp[i][j-1] {
			i--
		} else {
			j--
		}
	}
	for l, r := 0, len(rev)-1; l < r; l, r = l+1, r-1 {
		rev[l], rev[r] = rev[r], rev[l]
	}
	return rev
}

// indexPair is a pair of matched 0-based indexes, one into each sequence.
type indexPair struct{ i, j int }

// pairsToSequenceDiffs converts a sorted list of matched index pairs into
// the gaps between them (and before/after), as [SequenceDiff]s.
func pairsToSequenceDiffs(matches []indexPair, n, m int) []SequenceDiff {
	var diffs []SequenceDiff
	doneI, doneJ := 0, 0
	for _, p := range matches {
		if p.i > doneI || p.j > doneJ {
			diffs = append(diffs, SequenceDiff{
				Seq1Range: OffsetRange{Start: doneI, EndExclusive: p.i},
				Seq2Range: OffsetRange{Start: doneJ, EndExclusive: p.j},
			})
		}
		doneI, doneJ = p.i+1, p.j+1
	}
	if doneI < n || doneJ < m {
		diffs = append(diffs, SequenceDiff{
			Seq1Range: OffsetRange{Start: doneI, EndExclusive: n},
			Seq2Range: OffsetRange{Start: doneJ, EndExclusive: m},
		})
	}
	return diffs
}
