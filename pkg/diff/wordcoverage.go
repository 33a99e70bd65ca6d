package diff

// coverFullWords widens each diff so that it never splits a word in half
// (spec.md §4.5): whenever a diff's boundary lands inside or directly next
// to a word, the diff is grown to cover the whole word. That alone already folds multiple diffs
// landing in the same word together, since they widen to the identical
// range and the final merge pass below joins anything overlapping.
//
// On top of that, a rolling accumulator, lastModifiedWord, tracks how much
// of the widened region has actually been edited (deleted/added character
// counts, and how many diffs have folded into it) as it walks from diff to
// diff. When it flushes — either because the next diff's word is clearly
// separate, or at the end of the run — it emits an extra diff spanning the
// whole accumulated region, but only when the edit density justifies
// treating the span as a single word-level edit rather than leaving the
// individual diffs as they are.
func coverFullWords(seq1, seq2 *CharSliceSequence, diffs []SequenceDiff) []SequenceDiff {
	widenedOriginals := make([]SequenceDiff, len(diffs))
	var extra []SequenceDiff
	var acc *lastModifiedWord

	flush := func() {
		if acc == nil {
			return
		}
		wordLen1 := acc.word1.Length()
		if max(acc.deleted, acc.added)+(acc.count-1) > wordLen1 {
			extra = append(extra, SequenceDiff{Seq1Range: acc.word1, Seq2Range: acc.word2})
		}
		acc = nil
	}

	for i, d := range diffs {
		widened := widenToWords(seq1, seq2, d)
		widenedOriginals[i] = widened

		switch {
		case acc == nil:
			acc = &lastModifiedWord{word1: widened.Seq1Range, word2: widened.Seq2Range}
		case acc.word1.ContainsRange(widened.Seq1Range):
			// already inside the accumulated span; nothing to extend.
		case widened.Seq1Range.Start >= acc.word1.EndExclusive:
			flush()
			acc = &lastModifiedWord{word1: widened.Seq1Range, word2: widened.Seq2Range}
		default:
			if gap1 := widened.Seq1Range.Start - acc.word1.EndExclusive; gap1 > 0 {
				acc.deleted += gap1
			}
			if gap2 := widened.Seq2Range.Start - acc.word2.EndExclusive; gap2 > 0 {
				acc.added += gap2
			}
			acc.word1 = acc.word1.Join(widened.Seq1Range)
			acc.word2 = acc.word2.Join(widened.Seq2Range)
		}

		acc.deleted += acc.word1.Intersect(d.Seq1Range).Length()
		acc.added += acc.word2.Intersect(d.Seq2Range).Length()
		acc.count++
	}
	flush()

	return mergeWordDiffs(widenedOriginals, extra)
}

// lastModifiedWord is spec.md §4.5's rolling accumulator: the union of word
// ranges touched so far on each side, how many of their characters were
// actually deleted/added, and how many diffs folded in.
type lastModifiedWord struct {
	word1, word2   OffsetRange
	deleted, added int
	count          int
}

// mergeWordDiffs implements the final step of spec.md §4.5: walk the
// per-diff widened ranges and the accumulator's extra whole-word spans
// together, sorted by Seq1Range.start, joining whichever touch or overlap
// the diff already collected.
func mergeWordDiffs(originals, extra []SequenceDiff) []SequenceDiff {
	var out []SequenceDiff
	i, j := 0, 0
	for i < len(originals) || j < len(extra) {
		var next SequenceDiff
		switch {
		case j >= len(extra) || (i < len(originals) && originals[i].Seq1Range.Start <= extra[j].Seq1Range.Start):
			next = originals[i]
			i++
		default:
			next = extra[j]
			j++
		}
		if len(out) > 0 {
			last := &out[len(out)-1]
			if offsetRangesTouchOrOverlap(last.Seq1Range, next.Seq1Range) || offsetRangesTouchOrOverlap(last.Seq2Range, next.Seq2Range) {
				last.Seq1Range = last.Seq1Range.Join(next.Seq1Range)
				last.Seq2Range = last.Seq2Range.Join(next.Seq2Range)
				continue
			}
		}
		out = append(out, next)
	}
	return out
}

func offsetRangesTouchOrOverlap(a, b OffsetRange) bool {
	return a.Start <= b.EndExclusive && b.Start <= a.EndExclusive
}

// widenToWords grows d's boundaries outward to the edges of any word they
// split or touch, independently on each sequence.
func widenToWords(seq1, seq2 *CharSliceSequence, d SequenceDiff) SequenceDiff {
	return SequenceDiff{
		Seq1Range: widenRangeToWords(seq1, d.Seq1Range),
		Seq2Range: widenRangeToWords(seq2, d.Seq2Range),
	}
}

func widenRangeToWords(seq *CharSliceSequence, r OffsetRange) OffsetRange {
	start := r.Start
	if w, ok := seq.FindWordContaining(r.Start); ok {
		start = min(start, w.Start)
	}
	if w, ok := seq.FindWordContaining(r.Start - 1); ok {
		start = min(start, w.Start)
	}
	end := r.EndExclusive
	if w, ok := seq.FindWordContaining(r.EndExclusive); ok {
		end = max(end, w.EndExclusive)
	}
	if w, ok := seq.FindWordContaining(r.EndExclusive - 1); ok {
		end = max(end, w.EndExclusive)
	}
	return OffsetRange{Start: start, EndExclusive: end}
}
