package diff

import (
	"sort"
	"strings"
)

// MovedText is a block of lines that was deleted from one place in the
// original and reappeared, possibly edited, somewhere else in the modified
// document (spec.md §4.7). Changes carries the character-level mappings
// between the two occurrences; it is empty when the moved block is
// byte-for-byte identical and sits either before the last line in both
// documents or at the end of both. A block that ends only one of the two
// documents gets a mapping for the differing line break.
type MovedText struct {
	LineRangeMapping
	Changes []RangeMapping
}

const (
	// movesMinLineCount is the shortest block a deletion or insertion must
	// span to be considered for move detection (spec.md §4.7.a/§4.7.b).
	movesMinLineCount = 3
	// movesMinSimilarity is the histogram-similarity cutoff for pairing a
	// deletion with an insertion in the 4.7.a heuristic.
	movesMinSimilarity = 0.90
	// movesJoinMaxGap is the largest combined (original-side plus
	// modified-side) line gap between two adjacent move candidates that
	// still get joined into one move in the 4.7.c pass.
	movesJoinMaxGap = 2
	// movesMinTrimmedChars drops any surviving move candidate whose
	// trimmed original text is shorter than this many characters — too
	// short to be worth calling out as a move (spec.md §4.7.c).
	movesMinTrimmedChars = 11
)

// detectMoves finds block moves among the raw line-level diffs, following
// spec.md §4.7's two complementary heuristics in order: delete/insert
// histogram similarity (4.7.a), then unchanged-trigram reconciliation over
// whatever wasn't already claimed (4.7.b), joined and filtered (4.7.c).
func detectMoves(originalLines, modifiedLines []string, lineDiffs []SequenceDiff, lineHashes1, lineHashes2 []int32, considerWhitespaceChanges bool, timeout *Timeout) []MovedText {
	excluded := make(map[int]bool)
	histogramMoves := detectHistogramMoves(originalLines, modifiedLines, lineDiffs, excluded, timeout)
	trigramMoves := detectTrigramMoves(lineDiffs, lineHashes1, lineHashes2, excluded, timeout)

	all := append(histogramMoves, trigramMoves...)
	all = joinAdjacentMoves(all)

	var moves []MovedText
	for _, m := range all {
		if trimmedRangeCharCount(originalLines, m.Original) < movesMinTrimmedChars {
			continue
		}
		if impliedByPrecedingChange(lineDiffs, m) {
			continue
		}
		hunk := SequenceDiff{Seq1Range: m.Original.ToOffsetRange(), Seq2Range: m.Modified.ToOffsetRange()}
		inner := refineLineHunk(originalLines, modifiedLines, hunk, considerWhitespaceChanges, timeout)
		moves = append(moves, MovedText{LineRangeMapping: m, Changes: inner})
	}

	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Original.StartLineNumber < moves[j].Original.StartLineNumber
	})
	return moves
}

// detectHistogramMoves implements spec.md §4.7.a: pure deletions and pure
// insertions of at least movesMinLineCount lines are paired by per-character
// histogram similarity, greedily, each deletion taking the best remaining
// insertion above movesMinSimilarity. Paired indexes are marked in excluded
// so 4.7.b doesn't search them again.
func detectHistogramMoves(originalLines, modifiedLines []string, lineDiffs []SequenceDiff, excluded map[int]bool, timeout *Timeout) []LineRangeMapping {
	hasher := newCharHasher()

	var delIdx, insIdx []int
	for i, d := range lineDiffs {
		switch {
		case d.Seq2Range.IsEmpty() && d.Seq1Range.Length() >= movesMinLineCount:
			delIdx = append(delIdx, i)
		case d.Seq1Range.IsEmpty() && d.Seq2Range.Length() >= movesMinLineCount:
			insIdx = append(insIdx, i)
		}
	}
	if len(delIdx) == 0 || len(insIdx) == 0 {
		return nil
	}

	delFragments := make(map[int]*lineRangeFragment, len(delIdx))
	for _, i := range delIdx {
		delFragments[i] = buildFragment(hasher, originalLines, lineDiffs[i].Seq1Range)
	}
	insFragments := make(map[int]*lineRangeFragment, len(insIdx))
	for _, i := range insIdx {
		insFragments[i] = buildFragment(hasher, modifiedLines, lineDiffs[i].Seq2Range)
	}

	insTaken := make(map[int]bool)
	var moves []LineRangeMapping
	for _, di := range delIdx {
		if !timeout.IsValid() {
			break
		}
		best, bestScore := -1, 0.0
		for _, ii := range insIdx {
			if insTaken[ii] {
				continue
			}
			s := fragmentSimilarity(delFragments[di], insFragments[ii])
			if s > bestScore {
				best, bestScore = ii, s
			}
		}
		if best == -1 || bestScore <= movesMinSimilarity {
			continue
		}
		insTaken[best] = true
		excluded[di] = true
		excluded[best] = true
		moves = append(moves, LineRangeMapping{
			Original: offsetRangeToLineRange(lineDiffs[di].Seq1Range),
			Modified: offsetRangeToLineRange(lineDiffs[best].Seq2Range),
		})
	}
	return moves
}

// charHasher assigns a stable integer ID to each distinct rune seen,
// in order of first appearance — the "process-wide perfect hash from
// character to integer" spec.md §4.7.a calls for, scoped to one
// detectMoves call (spec.md §9's per-call/global latitude).
type charHasher struct {
	ids map[rune]int32
}

func newCharHasher() *charHasher {
	return &charHasher{ids: make(map[rune]int32)}
}

func (h *charHasher) id(r rune) int32 {
	if id, ok := h.ids[r]; ok {
		return id
	}
	id := int32(len(h.ids))
	h.ids[r] = id
	return id
}

// lineRangeFragment is a per-character histogram over a line range, plus
// its total character count, used for the 4.7.a similarity test.
type lineRangeFragment struct {
	histogram map[int32]int
	total     int
}

// buildFragment hashes every character of lines[r.Start:r.EndExclusive],
// including a newline between (but not after) each line.
func buildFragment(hasher *charHasher, lines []string, r OffsetRange) *lineRangeFragment {
	f := &lineRangeFragment{histogram: make(map[int32]int)}
	for i := r.Start; i < r.EndExclusive; i++ {
		if i > r.Start {
			f.histogram[hasher.id('\n')]++
			f.total++
		}
		for _, c := range lines[i] {
			f.histogram[hasher.id(c)]++
			f.total++
		}
	}
	return f
}

// fragmentSimilarity is spec.md §4.7.a's
// 1 − (Σ|h1[i] − h2[i]|) / (total1 + total2).
func fragmentSimilarity(a, b *lineRangeFragment) float64 {
	if a.total+b.total == 0 {
		return 1
	}
	diff := 0
	for id, ca := range a.histogram {
		cb := b.histogram[id]
		if d := ca - cb; d >= 0 {
			diff += d
		} else {
			diff += -d
		}
	}
	for id, cb := range b.histogram {
		if _, ok := a.histogram[id]; ok {
			continue
		}
		diff += cb
	}
	return 1 - float64(diff)/float64(a.total+b.total)
}

// trigramKey is three consecutive trimmed-line hashes, the unit spec.md
// §4.7.b slides across the original and modified sides.
type trigramKey [3]int32

// detectTrigramMoves implements spec.md §4.7.b: a multi-map from original
// trigrams to the 3-line windows they occur in, matched against a sliding
// trigram window over every non-excluded change's modified range, with
// contiguous matches (same diagonal, directly adjacent windows) extended
// into longer candidates. Overlapping candidates are then reconciled with
// [LineRangeSet] bookkeeping so no line is claimed by more than one move.
func detectTrigramMoves(lineDiffs []SequenceDiff, hashes1, hashes2 []int32, excluded map[int]bool, timeout *Timeout) []LineRangeMapping {
	index := make(map[trigramKey][]OffsetRange)
	for i, d := range lineDiffs {
		if excluded[i] {
			continue
		}
		for start := d.Seq1Range.Start; start+3 <= d.Seq1Range.EndExclusive; start++ {
			k := trigramKey{hashes1[start], hashes1[start+1], hashes1[start+2]}
			index[k] = append(index[k], OffsetRange{Start: start, EndExclusive: start + 3})
		}
	}
	if len(index) == 0 {
		return nil
	}

	order := make([]int, 0, len(lineDiffs))
	for i := range lineDiffs {
		if !excluded[i] {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return lineDiffs[order[i]].Seq2Range.Start < lineDiffs[order[j]].Seq2Range.Start
	})

	type candidate struct {
		orig, mod OffsetRange
	}
	var possible []*candidate

	for _, i := range order {
		if !timeout.IsValid() {
			break
		}
		d := lineDiffs[i]
		// active holds, for each diagonal (delta = original start - modified
		// start), the candidate extended by the trigram match found exactly
		// one step ago — so a lookup hit here is precisely "ends one line
		// before the current window" without comparing window bounds.
		active := make(map[int]*candidate)
		for start := d.Seq2Range.Start; start+3 <= d.Seq2Range.EndExclusive; start++ {
			k := trigramKey{hashes2[start], hashes2[start+1], hashes2[start+2]}
			next := make(map[int]*candidate)
			for _, origWin := range index[k] {
				delta := origWin.Start - start
				if c, ok := active[delta]; ok {
					c.orig.EndExclusive = origWin.EndExclusive
					c.mod.EndExclusive = start + 3
					next[delta] = c
					continue
				}
				c := &candidate{orig: origWin, mod: OffsetRange{Start: start, EndExclusive: start + 3}}
				possible = append(possible, c)
				next[delta] = c
			}
			active = next
		}
	}

	sort.SliceStable(possible, func(i, j int) bool {
		return possible[i].mod.Length() > possible[j].mod.Length()
	})

	modifiedTaken := NewLineRangeSet()
	originalTaken := NewLineRangeSet()
	var moves []LineRangeMapping
	for _, c := range possible {
		origLR := offsetRangeToLineRange(c.orig)
		modLR := offsetRangeToLineRange(c.mod)
		delta := modLR.StartLineNumber - origLR.StartLineNumber

		remModified := NewLineRangeSet()
		for _, r := range modifiedTaken.SubtractFrom(modLR) {
			remModified.AddRange(r)
		}
		remOriginal := NewLineRangeSet()
		for _, r := range originalTaken.SubtractFrom(origLR) {
			remOriginal.AddRange(r)
		}
		shiftedOriginal := remOriginal.GetWithDelta(delta)

		for _, sub := range remModified.GetIntersection(shiftedOriginal) {
			if sub.Length() < movesMinLineCount {
				continue
			}
			origSub := sub.Delta(-delta)
			moves = append(moves, LineRangeMapping{Original: origSub, Modified: sub})
			originalTaken.AddRange(origSub)
			modifiedTaken.AddRange(sub)
		}
	}
	return moves
}

// joinAdjacentMoves implements the first bullet of spec.md §4.7.c: moves
// sorted by original start are merged when the next one begins after the
// previous on both sides and the combined gap is small.
func joinAdjacentMoves(moves []LineRangeMapping) []LineRangeMapping {
	if len(moves) == 0 {
		return nil
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Original.StartLineNumber < moves[j].Original.StartLineNumber
	})
	out := []LineRangeMapping{moves[0]}
	for _, m := range moves[1:] {
		last := &out[len(out)-1]
		origGap := m.Original.StartLineNumber - last.Original.EndLineNumberExclusive
		modGap := m.Modified.StartLineNumber - last.Modified.EndLineNumberExclusive
		if origGap >= 0 && modGap >= 0 && origGap+modGap <= movesJoinMaxGap {
			last.Original = last.Original.Join(m.Original)
			last.Modified = last.Modified.Join(m.Modified)
			continue
		}
		out = append(out, m)
	}
	return out
}

// trimmedRangeCharCount sums the trimmed length of every line in r, for the
// "shorter than 11 characters" filter in spec.md §4.7.c.
func trimmedRangeCharCount(lines []string, r LineRange) int {
	total := 0
	for i := r.StartLineNumber - 1; i < r.EndLineNumberExclusive-1; i++ {
		if i < 0 || i >= len(lines) {
			continue
		}
		total += len(strings.TrimSpace(lines[i]))
	}
	return total
}

// impliedByPrecedingChange implements the last bullet of spec.md §4.7.c:
// a move is dropped when its own line delta (modified start minus original
// start) already matches the delta carried forward by the nearest line
// diff preceding it — meaning it isn't a real localized move, just content
// riding the same shift an earlier change already introduced.
func impliedByPrecedingChange(lineDiffs []SequenceDiff, m LineRangeMapping) bool {
	origStart0 := m.Original.StartLineNumber - 1

	var prev *SequenceDiff
	for i := range lineDiffs {
		d := &lineDiffs[i]
		if d.Seq1Range.EndExclusive <= origStart0 {
			if prev == nil || d.Seq1Range.EndExclusive > prev.Seq1Range.EndExclusive {
				prev = d
			}
		}
	}
	if prev == nil {
		return false
	}
	prevDelta := prev.Seq2Range.EndExclusive - prev.Seq1Range.EndExclusive
	moveDelta := (m.Modified.StartLineNumber - 1) - origStart0
	return moveDelta == prevDelta
}

func offsetRangeToLineRange(r OffsetRange) LineRange {
	return LineRange{StartLineNumber: r.Start + 1, EndLineNumberExclusive: r.EndExclusive + 1}
}
