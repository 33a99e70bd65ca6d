package diff

// This file holds the post-processors from spec.md §4.4.3: optimize,
// smoothen, removeRandomMatches and removeRandomLineMatches. Each takes a
// list of [SequenceDiff] over a pair of [iSequence]s and returns another
// such list; none of them look at anything but the two sequences and the
// diffs themselves.

// optimizeSequenceDiffs locally shifts each diff's boundaries within the
// slack left by its neighbours, to maximise the sum of boundary scores at
// its edges. A shift by one step is only legal when the element leaving
// scope on one edge is identical to the element entering scope on the
// other — otherwise the shift would change what the diff represents.
func optimizeSequenceDiffs(seq1, seq2 iSequence, diffs []SequenceDiff) []SequenceDiff {
	out := append([]SequenceDiff(nil), diffs...)
	for i := range out {
		lo1, lo2 := 0, 0
		if i > 0 {
			lo1 = out[i-1].Seq1Range.EndExclusive
			lo2 = out[i-1].Seq2Range.EndExclusive
		}
		hi1, hi2 := seq1.Length(), seq2.Length()
		if i+1 < len(out) {
			hi1 = out[i+1].Seq1Range.Start
			hi2 = out[i+1].Seq2Range.Start
		}
		out[i] = bestBoundaryShift(seq1, seq2, out[i], lo1, hi1, lo2, hi2)
	}
	return out
}

func bestBoundaryShift(seq1, seq2 iSequence, d SequenceDiff, lo1, hi1, lo2, hi2 int) SequenceDiff {
	maxLeft := maxValidShift(seq1, seq2, d, -1, lo1, hi1, lo2, hi2)
	maxRight := maxValidShift(seq1, seq2, d, 1, lo1, hi1, lo2, hi2)

	bestDelta := 0
	bestScore := boundaryScoreSum(seq1, seq2, d)
	for delta := -maxLeft; delta <= maxRight; delta++ {
		if delta == 0 {
			continue
		}
		sc := boundaryScoreSum(seq1, seq2, shiftDiff(d, delta))
		if sc > bestScore {
			bestScore = sc
			bestDelta = delta
		}
	}
	if bestDelta == 0 {
		return d
	}
	return shiftDiff(d, bestDelta)
}

func shiftDiff(d SequenceDiff, delta int) SequenceDiff {
	return SequenceDiff{Seq1Range: d.Seq1Range.Delta(delta), Seq2Range: d.Seq2Range.Delta(delta)}
}

func boundaryScoreSum(seq1, seq2 iSequence, d SequenceDiff) int {
	return seq1.GetBoundaryScore(d.Seq1Range.Start) + seq1.GetBoundaryScore(d.Seq1Range.EndExclusive) +
		seq2.GetBoundaryScore(d.Seq2Range.Start) + seq2.GetBoundaryScore(d.Seq2Range.EndExclusive)
}

// maxValidShift returns the greatest k >= 0 such that shifting d by
// direction*1, direction*2, ..., direction*k is valid at every intermediate
// step and stays within [lo, hi) on both sequences.
func maxValidShift(seq1, seq2 iSequence, d SequenceDiff, direction, lo1, hi1, lo2, hi2 int) int {
	k := 0
	for {
		next := k + 1
		delta := direction * next
		s1 := d.Seq1Range.Delta(delta)
		s2 := d.Seq2Range.Delta(delta)
		if s1.Start < lo1 || s1.EndExclusive > hi1 || s2.Start < lo2 || s2.EndExclusive > hi2 {
			break
		}
		if !shiftStepValid(seq1, d.Seq1Range, direction, next) || !shiftStepValid(seq2, d.Seq2Range, direction, next) {
			break
		}
		k = next
	}
	return k
}

// shiftStepValid reports whether shifting an empty-or-not range r by
// direction*step keeps the diff semantically equivalent: for a non-empty
// range, the element leaving scope at one edge must equal the element
// entering scope at the other.
func shiftStepValid(seq iSequence, r OffsetRange, direction, step int) bool {
	if r.IsEmpty() {
		return true
	}
	delta := direction * step
	if direction < 0 {
		return seq.GetElement(r.Start+delta) == seq.GetElement(r.EndExclusive+delta)
	}
	return seq.GetElement(r.Start+delta-1) == seq.GetElement(r.EndExclusive+delta-1)
}

// smoothenMaxGap is the largest unchanged run (in elements) that smoothen
// will still fold into its neighbouring diffs.
const smoothenMaxGap = 3

// smoothenSequenceDiffs joins diffs that are separated by a very small
// unchanged run, on the theory that such a short run is more likely noise
// than a meaningful boundary (spec.md §4.4.3).
func smoothenSequenceDiffs(diffs []SequenceDiff) []SequenceDiff {
	return foldAdjacent(diffs, func(prev, cur SequenceDiff) bool {
		gap1 := cur.Seq1Range.Start - prev.Seq1Range.EndExclusive
		gap2 := cur.Seq2Range.Start - prev.Seq2Range.EndExclusive
		return gap1 == gap2 && gap1 >= 0 && gap1 <= smoothenMaxGap
	})
}

// removeRandomMatchesMinSurroundRatio is how much larger the combined
// length of the two diffs must be than their connecting gap before the gap
// is considered "coincidental" rather than a real unchanged boundary.
const removeRandomMatchesMinSurroundRatio = 4

// removeRandomMatches deletes accidental tiny matches that sit inside an
// otherwise heavily modified region: when a short unchanged run is dwarfed
// by the diffs on both sides of it, folding it in reads better to a human
// than preserving a one- or two-character "match" in the middle of a
// rewritten phrase.
func removeRandomMatches(diffs []SequenceDiff) []SequenceDiff {
	return foldAdjacent(diffs, func(prev, cur SequenceDiff) bool {
		gap1 := cur.Seq1Range.Start - prev.Seq1Range.EndExclusive
		gap2 := cur.Seq2Range.Start - prev.Seq2Range.EndExclusive
		if gap1 != gap2 || gap1 < 0 {
			return false
		}
		surround := prev.Seq1Range.Length() + prev.Seq2Range.Length() + cur.Seq1Range.Length() + cur.Seq2Range.Length()
		return gap1 > 0 && surround >= gap1*removeRandomMatchesMinSurroundRatio
	})
}

// removeRandomLineMatches is removeRandomMatches' line-level counterpart,
// applied to the raw line diffs before refinement (spec.md §4.8.6). Only
// an unchanged run of at most removeRandomLineMatchesMaxGap lines is folded
// into the surrounding hunks, since a single matching blank or brace line
// between two large hunks is rarely meaningful.
const removeRandomLineMatchesMaxGap = 1

func removeRandomLineMatches(diffs []SequenceDiff) []SequenceDiff {
	return foldAdjacent(diffs, func(prev, cur SequenceDiff) bool {
		gap1 := cur.Seq1Range.Start - prev.Seq1Range.EndExclusive
		gap2 := cur.Seq2Range.Start - prev.Seq2Range.EndExclusive
		if gap1 != gap2 || gap1 < 0 || gap1 > removeRandomLineMatchesMaxGap {
			return false
		}
		surround := prev.Seq1Range.Length() + prev.Seq2Range.Length() + cur.Seq1Range.Length() + cur.Seq2Range.Length()
		return gap1 == 0 || surround >= gap1*removeRandomMatchesMinSurroundRatio
	})
}

// foldAdjacent repeatedly merges consecutive diffs for which shouldJoin
// returns true, until no adjacent pair qualifies.
func foldAdjacent(diffs []SequenceDiff, shouldJoin func(prev, cur SequenceDiff) bool) []SequenceDiff {
	if len(diffs) == 0 {
		return diffs
	}
	out := make([]SequenceDiff, 0, len(diffs))
	cur := diffs[0]
	for _, next := range diffs[1:] {
		if shouldJoin(cur, next) {
			cur = SequenceDiff{
				Seq1Range: OffsetRange{Start: cur.Seq1Range.Start, EndExclusive: next.Seq1Range.EndExclusive},
				Seq2Range: OffsetRange{Start: cur.Seq2Range.Start, EndExclusive: next.Seq2Range.EndExclusive},
			}
			continue
		}
		out = append(out, cur)
		cur = next
	}
	out = append(out, cur)
	return out
}
