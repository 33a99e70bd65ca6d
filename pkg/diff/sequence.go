package diff

import (
	"sort"
	"strings"
)

// iSequence is the capability both [LineSequence] and [CharSliceSequence]
// satisfy: the polymorphism axis spec.md §9 asks for over sequences fed to
// a [sequenceDiffer].
type iSequence interface {
	Length() int
	GetElement(i int) int32
	GetBoundaryScore(i int) int
	IsStronglyEqual(i, j int) bool
}

// LineSequence is a view of a document as a sequence of perfect-hash
// integers, one per line (spec.md §4.2).
type LineSequence struct {
	hashes []int32
	lines  []string
}

// NewLineSequence builds a [LineSequence] from per-line perfect-hash IDs
// (equal iff the hashed line texts are equal: trimmed when whitespace
// changes are ignored, raw otherwise) and the original line texts.
func NewLineSequence(hashes []int32, lines []string) *LineSequence {
	return &LineSequence{hashes: hashes, lines: lines}
}

func (s *LineSequence) Length() int { return len(s.hashes) }

func (s *LineSequence) GetElement(i int) int32 { return s.hashes[i] }

// IsStronglyEqual reports exact (untrimmed) line equality.
func (s *LineSequence) IsStronglyEqual(i, j int) bool { return s.lines[i] == s.lines[j] }

// GetBoundaryScore favours splitting at lines with low indentation, where
// blocks typically begin or end.
func (s *LineSequence) GetBoundaryScore(i int) int {
	before, after := 0, 0
	if i-1 >= 0 && i-1 < len(s.lines) {
		before = lineIndent(s.lines[i-1])
	}
	if i >= 0 && i < len(s.lines) {
		after = lineIndent(s.lines[i])
	}
	return 1000 - before - after
}

func lineIndent(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\t' {
			break
		}
		n++
	}
	return n
}

// charCategory classifies a single character for boundary scoring
// (spec.md §4.3).
type charCategory int

const (
	catWordLower charCategory = iota
	catWordUpper
	catWordNumber
	catSpace
	catOther
	catLineBreakCR
	catLineBreakLF
	catEnd
)

func categorize(r rune, valid bool) charCategory {
	if !valid {
		return catEnd
	}
	switch {
	case r == '\r':
		return catLineBreakCR
	case r == '\n':
		return catLineBreakLF
	case r >= '0' && r <= '9':
		return catWordNumber
	case r >= 'a' && r <= 'z':
		return catWordLower
	case r >= 'A' && r <= 'Z':
		return catWordUpper
	case r == ' ' || r == '\t':
		return catSpace
	default:
		return catOther
	}
}

func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// CharSliceSequence is a view of a chosen line range as a flat sequence of
// character codes separated by '\n', carrying per-line offset tables so
// that any flat offset can be translated back to a (line, column) position
// (spec.md §4.3).
type CharSliceSequence struct {
	elements []rune
	// firstCharOffsetByLine[k] is the element offset at which line k of the
	// effective range begins.
	firstCharOffsetByLine []int
	// additionalOffsetByLine[k] is the count of leading whitespace trimmed
	// from line k (zero when considerWhitespaceChanges is true).
	additionalOffsetByLine []int
	// ls is the effective (post edge-rule) start line offset of the slice.
	ls int
	// isEmptyRange is true when the caller-supplied line range was empty.
	isEmptyRange bool
}

// NewCharSliceSequence builds a [CharSliceSequence] over lines[ls:le],
// applying the edge rule and per-line whitespace normalisation from
// spec.md §4.3.
func NewCharSliceSequence(lines []string, ls, le int, considerWhitespaceChanges bool) *CharSliceSequence {
	if ls == le {
		return &CharSliceSequence{ls: ls, isEmptyRange: true}
	}

	effLs := ls
	prependTrimmed := false
	if ls > 0 && le == len(lines) {
		effLs = ls - 1
		prependTrimmed = true
	}

	seq := &CharSliceSequence{ls: effLs}
	var b []rune
	for i := effLs; i < le; i++ {
		if i > effLs {
			b = append(b, '\n')
		}
		seq.firstCharOffsetByLine = append(seq.firstCharOffsetByLine, len(b))

		line := lines[i]
		switch {
		case prependTrimmed && i == effLs:
			seq.additionalOffsetByLine = append(seq.additionalOffsetByLine, 0)
			// contributes nothing: fully trimmed away.
		case !considerWhitespaceChanges:
			trimmed := strings.TrimSpace(line)
			lead := leadingWhitespaceRunes(line, trimmed)
			seq.additionalOffsetByLine = append(seq.additionalOffsetByLine, lead)
			b = append(b, []rune(trimmed)...)
		default:
			seq.additionalOffsetByLine = append(seq.additionalOffsetByLine, 0)
			b = append(b, []rune(line)...)
		}
	}
	seq.elements = b
	return seq
}

func leadingWhitespaceRunes(full, trimmed string) int {
	return len([]rune(full)) - len([]rune(strings.TrimLeft(full, " \t\r\n\v\f")))
}

func (s *CharSliceSequence) Length() int { return len(s.elements) }

func (s *CharSliceSequence) GetElement(i int) int32 { return int32(s.elements[i]) }

func (s *CharSliceSequence) IsStronglyEqual(i, j int) bool { return s.elements[i] == s.elements[j] }

// GetBoundaryScore categorises the characters surrounding offset o and
// returns a heuristic "how natural is this split point" score.
func (s *CharSliceSequence) GetBoundaryScore(o int) int {
	var before, after rune
	beforeValid, afterValid := false, false
	if o-1 >= 0 && o-1 < len(s.elements) {
		before = s.elements[o-1]
		beforeValid = true
	}
	if o >= 0 && o < len(s.elements) {
		after = s.elements[o]
		afterValid = true
	}
	cBefore := categorize(before, beforeValid)
	cAfter := categorize(after, afterValid)

	if cBefore == catLineBreakCR && cAfter == catLineBreakLF {
		return 0
	}

	fixedScore := func(c charCategory) int {
		switch c {
		case catEnd:
			return 10
		case catOther:
			return 2
		case catSpace:
			return 3
		case catLineBreakCR, catLineBreakLF:
			return 10
		default: // word categories
			return 0
		}
	}

	score := fixedScore(cBefore) + fixedScore(cAfter)
	if cBefore != cAfter {
		score += 10
	}
	if cAfter == catWordUpper {
		score++
	}
	return score
}

// TranslateOffset converts a flat element offset back into a (line, column)
// position.
func (s *CharSliceSequence) TranslateOffset(o int) Position {
	if s.isEmptyRange {
		return Position{LineNumber: s.ls + 1, Column: 1}
	}
	k := sort.Search(len(s.firstCharOffsetByLine), func(i int) bool {
		return s.firstCharOffsetByLine[i] > o
	}) - 1
	if k < 0 {
		k = 0
	}
	return Position{
		LineNumber: s.ls + k + 1,
		Column:     o - s.firstCharOffsetByLine[k] + s.additionalOffsetByLine[k] + 1,
	}
}

// TranslateRange converts a flat offset range into a (Position, Position)
// [Range].
func (s *CharSliceSequence) TranslateRange(r OffsetRange) Range {
	return Range{Start: s.TranslateOffset(r.Start), End: s.TranslateOffset(r.EndExclusive)}
}

// FindWordContaining returns the maximal contiguous offset range containing
// o where every character is a word character. The second result is false
// if o is out of bounds or not itself a word character.
func (s *CharSliceSequence) FindWordContaining(o int) (OffsetRange, bool) {
	if o < 0 || o >= len(s.elements) || !isWordChar(s.elements[o]) {
		return OffsetRange{}, false
	}
	start, end := o, o+1
	for start > 0 && isWordChar(s.elements[start-1]) {
		start--
	}
	for end < len(s.elements) && isWordChar(s.elements[end]) {
		end++
	}
	return OffsetRange{Start: start, EndExclusive: end}, true
}

// ExtendToFullLines widens r to the smallest range whose endpoints sit on
// line boundaries.
func (s *CharSliceSequence) ExtendToFullLines(r OffsetRange) OffsetRange {
	start := 0
	for _, off := range s.firstCharOffsetByLine {
		if off <= r.Start {
			start = off
		} else {
			break
		}
	}
	end := len(s.elements)
	for i := len(s.firstCharOffsetByLine) - 1; i >= 0; i-- {
		off := s.firstCharOffsetByLine[i]
		if off >= r.EndExclusive {
			end = off
		}
	}
	return OffsetRange{Start: start, EndExclusive: end}
}
