package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetRange(t *testing.T) {
	r := NewOffsetRange(2, 5)
	assert.False(t, r.IsEmpty())
	assert.Equal(t, 3, r.Length())
	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(4))
	assert.False(t, r.Contains(5))

	assert.Equal(t, OffsetRange{3, 6}, r.Delta(1))
	assert.Equal(t, OffsetRange{2, 7}, r.Join(OffsetRange{4, 7}))
	assert.Equal(t, OffsetRange{3, 5}, r.Intersect(OffsetRange{3, 8}))
	assert.True(t, r.OverlapOrTouch(OffsetRange{5, 8}))
	assert.False(t, r.OverlapOrTouch(OffsetRange{6, 8}))
}

func TestOffsetRangePanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { NewOffsetRange(5, 2) })
}

func TestLineRange(t *testing.T) {
	r := NewLineRange(2, 5)
	assert.Equal(t, 3, r.Length())
	assert.Equal(t, OffsetRange{1, 4}, r.ToOffsetRange())
	assert.True(t, r.ContainsRange(NewLineRange(3, 4)))
	assert.False(t, r.ContainsRange(NewLineRange(4, 6)))
}

func TestLineRangePanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { NewLineRange(0, 2) })
	assert.Panics(t, func() { NewLineRange(5, 2) })
}

func TestPositionOrdering(t *testing.T) {
	a := Position{LineNumber: 1, Column: 5}
	b := Position{LineNumber: 1, Column: 8}
	c := Position{LineNumber: 2, Column: 1}

	assert.True(t, a.Before(b))
	assert.True(t, b.Before(c))
	assert.False(t, b.Before(a))
	assert.True(t, a.BeforeOrEqual(a))
}

func TestRangeConstruction(t *testing.T) {
	start := Position{LineNumber: 1, Column: 1}
	end := Position{LineNumber: 1, Column: 1}
	r := NewRange(start, end)
	require.True(t, r.IsEmpty())

	assert.Panics(t, func() {
		NewRange(Position{LineNumber: 2, Column: 1}, Position{LineNumber: 1, Column: 1})
	})
}
