package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineRangeSetCoalescesOverlapsAndTouches(t *testing.T) {
	s := NewLineRangeSet()
	s.AddRange(NewLineRange(1, 3))
	s.AddRange(NewLineRange(3, 5)) // touches the first
	s.AddRange(NewLineRange(10, 12))
	s.AddRange(NewLineRange(11, 15)) // overlaps the third

	ranges := s.Ranges()
	require.Len(t, ranges, 2)
	assert.Equal(t, NewLineRange(1, 5), ranges[0])
	assert.Equal(t, NewLineRange(10, 15), ranges[1])
}

func TestLineRangeSetAddRangeIgnoresEmpty(t *testing.T) {
	s := NewLineRangeSet()
	s.AddRange(LineRange{StartLineNumber: 5, EndLineNumberExclusive: 5})
	assert.Empty(t, s.Ranges())
}

func TestLineRangeSetSubtractFrom(t *testing.T) {
	s := NewLineRangeSet()
	s.AddRange(NewLineRange(3, 5))

	result := s.SubtractFrom(NewLineRange(1, 8))
	require.Len(t, result, 2)
	assert.Equal(t, NewLineRange(1, 3), result[0])
	assert.Equal(t, NewLineRange(5, 8), result[1])
}

func TestLineRangeSetGetWithDelta(t *testing.T) {
	s := NewLineRangeSet()
	s.AddRange(NewLineRange(1, 3))
	shifted := s.GetWithDelta(10)
	assert.Equal(t, []LineRange{NewLineRange(11, 13)}, shifted.Ranges())
}

func TestLineRangeSetGetIntersection(t *testing.T) {
	a := NewLineRangeSet()
	a.AddRange(NewLineRange(1, 10))
	b := NewLineRangeSet()
	b.AddRange(NewLineRange(5, 8))
	b.AddRange(NewLineRange(20, 25))

	inter := a.GetIntersection(b)
	require.Len(t, inter, 1)
	assert.Equal(t, NewLineRange(5, 8), inter[0])
}
