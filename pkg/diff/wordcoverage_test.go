package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidenRangeToWordsExpandsToWordEdges(t *testing.T) {
	seq := NewCharSliceSequence([]string{"hello world"}, 0, 1, true)
	// "wor|ld" -> diff lands inside "world" at offset 9 ('r'..'l' boundary)
	r := OffsetRange{Start: 9, EndExclusive: 9}
	widened := widenRangeToWords(seq, r)
	assert.Equal(t, "world", string([]rune("hello world")[widened.Start:widened.EndExclusive]))
}

func TestWidenRangeToWordsLeavesNonWordBoundary(t *testing.T) {
	seq := NewCharSliceSequence([]string{"a  b"}, 0, 1, true)
	r := OffsetRange{Start: 2, EndExclusive: 2} // between the two spaces, touching no word
	widened := widenRangeToWords(seq, r)
	assert.Equal(t, r, widened)
}

func TestCoverFullWordsNeverSplitsAWord(t *testing.T) {
	line := "foobar baz"
	seq1 := NewCharSliceSequence([]string{line}, 0, 1, true)
	seq2 := NewCharSliceSequence([]string{"foo baz"}, 0, 1, true)

	// a raw diff that lands in the middle of "foobar" (replacing "bar" with "").
	diffs := []SequenceDiff{{Seq1Range: OffsetRange{3, 6}, Seq2Range: OffsetRange{3, 3}}}
	out := coverFullWords(seq1, seq2, diffs)
	require.Len(t, out, 1)
	assert.Equal(t, OffsetRange{0, 6}, out[0].Seq1Range)
}

func TestCoverFullWordsMergesNearbyDiffs(t *testing.T) {
	seq1 := NewCharSliceSequence([]string{"one two three"}, 0, 1, true)
	seq2 := NewCharSliceSequence([]string{"one TWO three"}, 0, 1, true)

	diffs := []SequenceDiff{
		{Seq1Range: OffsetRange{4, 5}, Seq2Range: OffsetRange{4, 5}},
		{Seq1Range: OffsetRange{6, 7}, Seq2Range: OffsetRange{6, 7}},
	}
	out := coverFullWords(seq1, seq2, diffs)
	require.Len(t, out, 1)
	assert.Equal(t, "two", string([]rune("one two three")[out[0].Seq1Range.Start:out[0].Seq1Range.EndExclusive]))
}

func TestCoverFullWordsDenseAccumulatorCoalescesWholeWord(t *testing.T) {
	// both characters of a 2-character word are edited by two separate
	// diffs; the accumulated deleted/added count (2) plus count-1 (1)
	// exceeds the word's own length (2), so the accumulator folds the word
	// into a single span even though the per-diff widened ranges are
	// already identical (spec.md §4.5's density rule).
	seq1 := NewCharSliceSequence([]string{"ab"}, 0, 1, true)
	seq2 := NewCharSliceSequence([]string{"AB"}, 0, 1, true)

	diffs := []SequenceDiff{
		{Seq1Range: OffsetRange{0, 1}, Seq2Range: OffsetRange{0, 1}},
		{Seq1Range: OffsetRange{1, 2}, Seq2Range: OffsetRange{1, 2}},
	}
	out := coverFullWords(seq1, seq2, diffs)
	require.Len(t, out, 1)
	assert.Equal(t, OffsetRange{0, 2}, out[0].Seq1Range)
	assert.Equal(t, OffsetRange{0, 2}, out[0].Seq2Range)
}

func TestCoverFullWordsSeparateWordsStaySeparate(t *testing.T) {
	seq1 := NewCharSliceSequence([]string{"ab cd"}, 0, 1, true)
	seq2 := NewCharSliceSequence([]string{"AB CD"}, 0, 1, true)

	diffs := []SequenceDiff{
		{Seq1Range: OffsetRange{0, 2}, Seq2Range: OffsetRange{0, 2}},
		{Seq1Range: OffsetRange{3, 5}, Seq2Range: OffsetRange{3, 5}},
	}
	out := coverFullWords(seq1, seq2, diffs)
	require.Len(t, out, 2)
	assert.Equal(t, OffsetRange{0, 2}, out[0].Seq1Range)
	assert.Equal(t, OffsetRange{3, 5}, out[1].Seq1Range)
}
