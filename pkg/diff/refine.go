package diff

// refineLineHunk turns a single line-level [SequenceDiff] (a "hunk") into
// the character-level [RangeMapping]s nested inside it (spec.md §4.4). The
// hunk's line ranges are converted to [CharSliceSequence]s, diffed with
// whichever kernel fits refineSizeThreshold, post-processed in the fixed
// order the spec requires, and translated back into line/column positions.
func refineLineHunk(originalLines, modifiedLines []string, hunk SequenceDiff, considerWhitespaceChanges bool, timeout *Timeout) []RangeMapping {
	slice1 := NewCharSliceSequence(originalLines, hunk.Seq1Range.Start, hunk.Seq1Range.EndExclusive, considerWhitespaceChanges)
	slice2 := NewCharSliceSequence(modifiedLines, hunk.Seq2Range.Start, hunk.Seq2Range.EndExclusive, considerWhitespaceChanges)

	differ := selectDiffer(slice1.Length(), slice2.Length(), refineSizeThreshold)
	diffs, _ := differ.Compute(slice1, slice2, timeout, nil)

	diffs = optimizeSequenceDiffs(slice1, slice2, diffs)
	diffs = coverFullWords(slice1, slice2, diffs)
	diffs = smoothenSequenceDiffs(diffs)
	diffs = removeRandomMatches(diffs)

	mappings := make([]RangeMapping, 0, len(diffs))
	for _, d := range diffs {
		mappings = append(mappings, RangeMapping{
			Original: slice1.TranslateRange(d.Seq1Range),
			Modified: slice2.TranslateRange(d.Seq2Range),
		})
	}
	return mappings
}
