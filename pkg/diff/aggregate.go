package diff

// RangeMapping is a character-level correspondence between a region of the
// original text and a region of the modified text (spec.md §4.6).
type RangeMapping struct {
	Original Range
	Modified Range
}

// LineRangeMapping is a line-level correspondence between the original and
// modified documents.
type LineRangeMapping struct {
	Original LineRange
	Modified LineRange
}

// DetailedLineRangeMapping is a [LineRangeMapping] together with the
// character-level [RangeMapping]s nested inside it. InnerChanges is nil for
// a pure insertion or deletion, where there is no original-vs-modified text
// to align within the line range.
type DetailedLineRangeMapping struct {
	LineRangeMapping
	InnerChanges []RangeMapping
}

// lineRangeMappingFromRangeMappings groups a flat list of character-level
// mappings (already sorted by position) into line-range mappings, widening
// each mapping to the lines it touches and merging mappings whose widened
// line ranges overlap or are adjacent (spec.md §4.6).
func lineRangeMappingFromRangeMappings(mappings []RangeMapping) []DetailedLineRangeMapping {
	if len(mappings) == 0 {
		return nil
	}

	result := make([]DetailedLineRangeMapping, 0, len(mappings))
	cur := rangeMappingToLineRangeMapping(mappings[0])
	curInner := []RangeMapping{mappings[0]}

	flush := func() {
		result = append(result, DetailedLineRangeMapping{LineRangeMapping: cur, InnerChanges: curInner})
	}

	for _, m := range mappings[1:] {
		next := rangeMappingToLineRangeMapping(m)
		if cur.Original.OverlapOrTouch(next.Original) || cur.Modified.OverlapOrTouch(next.Modified) {
			cur = LineRangeMapping{
				Original: cur.Original.Join(next.Original),
				Modified: cur.Modified.Join(next.Modified),
			}
			curInner = append(curInner, m)
			continue
		}
		flush()
		cur = next
		curInner = []RangeMapping{m}
	}
	flush()

	for i := 1; i < len(result); i++ {
		assertf(result[i-1].Original.EndLineNumberExclusive <= result[i].Original.StartLineNumber,
			"overlapping original line ranges in aggregated diff: %v and %v", result[i-1].Original, result[i].Original)
		assertf(result[i-1].Modified.EndLineNumberExclusive <= result[i].Modified.StartLineNumber,
			"overlapping modified line ranges in aggregated diff: %v and %v", result[i-1].Modified, result[i].Modified)
	}
	return result
}

func rangeMappingToLineRangeMapping(m RangeMapping) LineRangeMapping {
	return LineRangeMapping{
		Original: rangeToLineRange(m.Original),
		Modified: rangeToLineRange(m.Modified),
	}
}

// rangeToLineRange widens a character range to the lines it touches. An
// empty range (a pure insertion or deletion point) widens to an empty line
// range at that point rather than claiming a whole line. A range whose end
// sits exactly at column 1 of a line does not claim that line, since no
// character on it is actually part of the range.
func rangeToLineRange(r Range) LineRange {
	if r.IsEmpty() {
		return LineRange{StartLineNumber: r.Start.LineNumber, EndLineNumberExclusive: r.Start.LineNumber}
	}
	start := r.Start.LineNumber
	end := r.End.LineNumber + 1
	if r.End.Column == 1 {
		end = r.End.LineNumber
		if end <= start {
			end = start + 1
		}
	}
	return LineRange{StartLineNumber: start, EndLineNumberExclusive: end}
}
