package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharHasherAssignsStableIDs(t *testing.T) {
	h := newCharHasher()
	assert.Equal(t, int32(0), h.id('a'))
	assert.Equal(t, int32(1), h.id('b'))
	assert.Equal(t, int32(0), h.id('a'))
}

func TestFragmentSimilarityIdenticalIsOne(t *testing.T) {
	h := newCharHasher()
	lines := []string{"abc", "def"}
	a := buildFragment(h, lines, OffsetRange{0, 2})
	b := buildFragment(h, lines, OffsetRange{0, 2})
	assert.Equal(t, 1.0, fragmentSimilarity(a, b))
}

func TestFragmentSimilarityDisjointContentIsZero(t *testing.T) {
	h := newCharHasher()
	a := buildFragment(h, []string{"aaa"}, OffsetRange{0, 1})
	b := buildFragment(h, []string{"bbb"}, OffsetRange{0, 1})
	assert.Equal(t, 0.0, fragmentSimilarity(a, b))
}

func TestFragmentSimilarityBothEmptyIsOne(t *testing.T) {
	h := newCharHasher()
	a := buildFragment(h, []string{"", ""}, OffsetRange{0, 2})
	b := buildFragment(h, []string{"", ""}, OffsetRange{0, 2})
	assert.Equal(t, 1.0, fragmentSimilarity(a, b))
}

func TestDetectHistogramMovesPairsSimilarBlocks(t *testing.T) {
	original := []string{"x", "function foo() {", "    return 1;", "}", "y"}
	modified := []string{"function foo() {", "    return 1;", "}", "z"}

	lineDiffs := []SequenceDiff{
		{Seq1Range: OffsetRange{1, 4}, Seq2Range: OffsetRange{0, 0}},
		{Seq1Range: OffsetRange{5, 5}, Seq2Range: OffsetRange{0, 3}},
	}
	excluded := make(map[int]bool)
	moves := detectHistogramMoves(original, modified, lineDiffs, excluded, InfiniteTimeout())
	require.Len(t, moves, 1)
	assert.Equal(t, NewLineRange(2, 5), moves[0].Original)
	assert.Equal(t, NewLineRange(1, 4), moves[0].Modified)
	assert.True(t, excluded[0])
	assert.True(t, excluded[1])
}

func TestDetectHistogramMovesRejectsDissimilarBlocks(t *testing.T) {
	original := []string{"aaa", "aaa", "aaa"}
	modified := []string{"zzz", "zzz", "zzz"}
	lineDiffs := []SequenceDiff{
		{Seq1Range: OffsetRange{0, 3}, Seq2Range: OffsetRange{0, 0}},
		{Seq1Range: OffsetRange{3, 3}, Seq2Range: OffsetRange{0, 3}},
	}
	excluded := make(map[int]bool)
	moves := detectHistogramMoves(original, modified, lineDiffs, excluded, InfiniteTimeout())
	assert.Empty(t, moves)
	assert.Empty(t, excluded)
}

func TestDetectTrigramMovesFindsRelocatedBlock(t *testing.T) {
	// hashes1 models an original document with 9 lines; the 4-line block at
	// index 5..8 (trimmed hashes 10,11,12,13) reappears verbatim elsewhere.
	hashes1 := []int32{0, 1, 2, 3, 4, 10, 11, 12, 13}
	// hashes2 models a modified document whose first 4 lines are that block.
	hashes2 := []int32{10, 11, 12, 13}

	lineDiffs := []SequenceDiff{
		{Seq1Range: OffsetRange{5, 9}, Seq2Range: OffsetRange{0, 0}},
		{Seq1Range: OffsetRange{9, 9}, Seq2Range: OffsetRange{0, 4}},
	}
	excluded := make(map[int]bool)
	moves := detectTrigramMoves(lineDiffs, hashes1, hashes2, excluded, InfiniteTimeout())
	require.Len(t, moves, 1)
	assert.Equal(t, NewLineRange(6, 10), moves[0].Original)
	assert.Equal(t, NewLineRange(1, 5), moves[0].Modified)
}

func TestDetectTrigramMovesSkipsExcludedChanges(t *testing.T) {
	hashes1 := []int32{10, 11, 12, 13}
	hashes2 := []int32{10, 11, 12, 13}
	lineDiffs := []SequenceDiff{
		{Seq1Range: OffsetRange{0, 4}, Seq2Range: OffsetRange{0, 0}},
		{Seq1Range: OffsetRange{4, 4}, Seq2Range: OffsetRange{0, 4}},
	}
	excluded := map[int]bool{0: true}
	moves := detectTrigramMoves(lineDiffs, hashes1, hashes2, excluded, InfiniteTimeout())
	assert.Nil(t, moves)
}

func TestJoinAdjacentMovesMergesSmallGap(t *testing.T) {
	moves := []LineRangeMapping{
		{Original: NewLineRange(1, 4), Modified: NewLineRange(10, 13)},
		{Original: NewLineRange(5, 8), Modified: NewLineRange(14, 17)},
	}
	out := joinAdjacentMoves(moves)
	require.Len(t, out, 1)
	assert.Equal(t, NewLineRange(1, 8), out[0].Original)
	assert.Equal(t, NewLineRange(10, 17), out[0].Modified)
}

func TestJoinAdjacentMovesLeavesLargeGap(t *testing.T) {
	moves := []LineRangeMapping{
		{Original: NewLineRange(1, 4), Modified: NewLineRange(10, 13)},
		{Original: NewLineRange(20, 23), Modified: NewLineRange(30, 33)},
	}
	out := joinAdjacentMoves(moves)
	assert.Len(t, out, 2)
}

func TestTrimmedRangeCharCountSumsTrimmedLines(t *testing.T) {
	lines := []string{"  abc  ", "de", "f"}
	total := trimmedRangeCharCount(lines, NewLineRange(1, 4))
	assert.Equal(t, 6, total) // "abc"(3) + "de"(2) + "f"(1)
}

func TestImpliedByPrecedingChangeDropsSameDeltaMove(t *testing.T) {
	lineDiffs := []SequenceDiff{
		{Seq1Range: OffsetRange{0, 2}, Seq2Range: OffsetRange{0, 5}},
	}
	// preceding change added 3 lines (delta=3); a move whose own delta is
	// also 3 is just riding that shift, not a real relocation.
	m := LineRangeMapping{Original: NewLineRange(10, 13), Modified: NewLineRange(13, 16)}
	assert.True(t, impliedByPrecedingChange(lineDiffs, m))
}

func TestImpliedByPrecedingChangeKeepsDifferentDeltaMove(t *testing.T) {
	lineDiffs := []SequenceDiff{
		{Seq1Range: OffsetRange{0, 2}, Seq2Range: OffsetRange{0, 5}},
	}
	m := LineRangeMapping{Original: NewLineRange(10, 13), Modified: NewLineRange(20, 23)}
	assert.False(t, impliedByPrecedingChange(lineDiffs, m))
}

func TestDetectMovesFindsRelocatedBlock(t *testing.T) {
	original := []string{
		"package main",
		"",
		"function foo() {",
		"    return 1;",
		"}",
		"",
		"// end",
	}
	modified := []string{
		"function foo() {",
		"    return 1;",
		"}",
		"package main",
		"",
		"",
		"// end",
	}
	hashes1 := []int32{0, 1, 2, 3, 4, 1, 5}
	hashes2 := []int32{2, 3, 4, 0, 1, 1, 5}

	lineDiffs := []SequenceDiff{
		{Seq1Range: OffsetRange{2, 5}, Seq2Range: OffsetRange{3, 3}},
		{Seq1Range: OffsetRange{5, 5}, Seq2Range: OffsetRange{0, 3}},
	}

	moves := detectMoves(original, modified, lineDiffs, hashes1, hashes2, true, InfiniteTimeout())
	require.Len(t, moves, 1)
	assert.Equal(t, NewLineRange(3, 6), moves[0].Original)
	assert.Equal(t, NewLineRange(1, 4), moves[0].Modified)
}

func TestDetectMovesNoneWhenBlocksTooShort(t *testing.T) {
	lineDiffs := []SequenceDiff{
		{Seq1Range: OffsetRange{0, 2}, Seq2Range: OffsetRange{0, 0}},
		{Seq1Range: OffsetRange{5, 5}, Seq2Range: OffsetRange{3, 5}},
	}
	moves := detectMoves(nil, nil, lineDiffs, nil, nil, true, InfiniteTimeout())
	assert.Nil(t, moves)
}

func TestDetectMovesDropsShortTrimmedCandidate(t *testing.T) {
	// a 3-line block that moves, but whose trimmed text totals under 11
	// characters, must be filtered out by the 4.7.c length rule.
	original := []string{"a", "b", "c", "d"}
	modified := []string{"b", "c", "d", "a"}
	hashes1 := []int32{0, 1, 2, 3}
	hashes2 := []int32{1, 2, 3, 0}

	lineDiffs := []SequenceDiff{
		{Seq1Range: OffsetRange{1, 4}, Seq2Range: OffsetRange{0, 0}},
		{Seq1Range: OffsetRange{4, 4}, Seq2Range: OffsetRange{0, 3}},
	}
	moves := detectMoves(original, modified, lineDiffs, hashes1, hashes2, true, InfiniteTimeout())
	assert.Empty(t, moves)
}
