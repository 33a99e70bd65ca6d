package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineSequenceBasics(t *testing.T) {
	lines := []string{"foo", "  bar", "foo"}
	hashes := []int32{0, 1, 0}
	seq := NewLineSequence(hashes, lines)

	require.Equal(t, 3, seq.Length())
	assert.Equal(t, int32(0), seq.GetElement(0))
	assert.Equal(t, int32(0), seq.GetElement(2))
	assert.True(t, seq.IsStronglyEqual(0, 2))
	assert.False(t, seq.IsStronglyEqual(0, 1))
}

func TestLineSequenceBoundaryScorePrefersLowIndent(t *testing.T) {
	lines := []string{"func main() {", "    doStuff()", "    more()", "}"}
	seq := NewLineSequence([]int32{0, 1, 2, 3}, lines)

	// a boundary strictly between two indented lines (inside the block)
	// should score lower than one at the block's edge, where indentation
	// drops on one side.
	insideBlock := seq.GetBoundaryScore(2)
	atBlockEdge := seq.GetBoundaryScore(1)
	assert.Less(t, insideBlock, atBlockEdge)
}

func TestCharSliceSequenceWhitespaceHandling(t *testing.T) {
	lines := []string{"  hello world  "}

	withWhitespace := NewCharSliceSequence(lines, 0, 1, true)
	assert.Equal(t, len([]rune("  hello world  ")), withWhitespace.Length())

	trimmed := NewCharSliceSequence(lines, 0, 1, false)
	assert.Equal(t, len([]rune("hello world")), trimmed.Length())
}

func TestCharSliceSequenceEmptyRange(t *testing.T) {
	seq := NewCharSliceSequence([]string{"a", "b", "c"}, 1, 1, true)
	require.Equal(t, 0, seq.Length())
	assert.Equal(t, Position{LineNumber: 2, Column: 1}, seq.TranslateOffset(0))
}

func TestCharSliceSequenceTranslateOffset(t *testing.T) {
	lines := []string{"abc", "def", "ghi"}
	seq := NewCharSliceSequence(lines, 0, 3, true)

	// "abc\ndef\nghi" -> indices: a0 b1 c2 \n3 d4 e5 f6 \n7 g8 h9 i10;
	// offset 5 sits right before 'e', the second character of line 2.
	pos := seq.TranslateOffset(5)
	assert.Equal(t, 2, pos.LineNumber)
	assert.Equal(t, 2, pos.Column)
}

func TestCharSliceSequenceFindWordContaining(t *testing.T) {
	lines := []string{"foo bar_baz 123"}
	seq := NewCharSliceSequence(lines, 0, 1, true)

	r, ok := seq.FindWordContaining(1)
	require.True(t, ok)
	assert.Equal(t, "foo", string([]rune("foo bar_baz 123")[r.Start:r.EndExclusive]))

	_, ok = seq.FindWordContaining(3) // the space after "foo"
	assert.False(t, ok)
}

func TestCharSliceSequenceExtendToFullLines(t *testing.T) {
	lines := []string{"abc", "def", "ghi"}
	seq := NewCharSliceSequence(lines, 0, 3, true)

	// pick an offset range entirely inside the middle line ("def")
	r := OffsetRange{Start: 5, EndExclusive: 6}
	widened := seq.ExtendToFullLines(r)
	start := seq.TranslateOffset(widened.Start)
	assert.Equal(t, 1, start.Column)
}
