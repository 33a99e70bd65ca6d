package diff

import (
	"math"
	"strings"
)

// Options controls [ComputeDiff] (spec.md §6).
type Options struct {
	// IgnoreTrimWhitespace treats two lines as equal when they differ only
	// in leading/trailing whitespace, and drops that whitespace from the
	// character-level sequences used for refinement.
	IgnoreTrimWhitespace bool
	// ComputeMoves enables the move-detection pass (spec.md §4.7). It costs
	// an extra O(n*m) similarity scan over deleted/inserted blocks, so
	// callers that only need the plain diff can skip it.
	ComputeMoves bool
	// MaxComputationTimeMs bounds the whole computation; zero or a negative
	// value means no limit. When the budget runs out during the line-level
	// diff, ComputeDiff returns a single whole-document change; when it runs
	// out later, character refinement and move detection are cut short.
	// HitTimeout is set in both cases.
	MaxComputationTimeMs int
}

// LinesDiff is the result of [ComputeDiff].
type LinesDiff struct {
	Changes    []DetailedLineRangeMapping
	Moves      []MovedText
	HitTimeout bool
}

// emptyLineEqualityScore is the weight the DP kernel's equality-score
// function gives to two blank trimmed lines matching each other. Blank
// lines are common and otherwise tempt the DP kernel into aligning
// unrelated blank lines across a large gap instead of leaving them as
// part of a bigger, more informative hunk (spec.md §9 open question,
// resolved in DESIGN.md).
const emptyLineEqualityScore = 0.1

// mismatchedTrimEqualityScore is the weight given to a matched pair whose
// trimmed text actually differs (spec.md §4.8.5). The DP kernel only ever
// invokes the score function at positions the perfect hash already says
// are equal, so this branch is unreachable under the hashing scheme used
// here; it is kept to match the scoring function spec.md specifies.
const mismatchedTrimEqualityScore = 0.99

// ComputeDiff is the engine's entry point (spec.md §4.8): it diffs two
// documents line by line, refines every non-trivial hunk down to character
// ranges, and optionally detects block moves.
func ComputeDiff(originalLines, modifiedLines []string, opts Options) LinesDiff {
	if equalLineSlices(originalLines, modifiedLines) {
		return LinesDiff{}
	}

	timeout := NewTimeout(opts.MaxComputationTimeMs)
	considerWhitespaceChanges := !opts.IgnoreTrimWhitespace

	lineIDs := make(map[string]int32, len(originalLines)+len(modifiedLines))
	seq1, hashes1 := buildLineSequence(originalLines, considerWhitespaceChanges, lineIDs)
	seq2, hashes2 := buildLineSequence(modifiedLines, considerWhitespaceChanges, lineIDs)

	// score implements spec.md §4.8.5's equality weighting: two empty
	// trimmed lines score lowest (so the kernel doesn't greedily align
	// unrelated blanks), lines whose trimmed text actually differs score
	// just under 1,
	// and otherwise longer modified lines are weighted higher, biasing
	// alignment toward matching substantial lines over trivial ones.
	score := func(i, j int) float64 {
		ti := strings.TrimSpace(originalLines[i])
		tj := strings.TrimSpace(modifiedLines[j])
		switch {
		case ti != tj:
			return mismatchedTrimEqualityScore
		case ti == "":
			return emptyLineEqualityScore
		default:
			return 1 + math.Log(1+float64(len(modifiedLines[j])))
		}
	}

	differ := selectDiffer(seq1.Length(), seq2.Length(), dpMyersSizeThreshold)
	lineDiffs, hitTimeout := differ.Compute(seq1, seq2, timeout, score)
	if hitTimeout {
		return LinesDiff{
			Changes: []DetailedLineRangeMapping{{
				LineRangeMapping: LineRangeMapping{
					Original: LineRange{StartLineNumber: 1, EndLineNumberExclusive: len(originalLines) + 1},
					Modified: LineRange{StartLineNumber: 1, EndLineNumberExclusive: len(modifiedLines) + 1},
				},
			}},
			HitTimeout: true,
		}
	}

	lineDiffs = optimizeSequenceDiffs(seq1, seq2, lineDiffs)
	lineDiffs = removeRandomLineMatches(lineDiffs)

	var mappings []RangeMapping
	var pureHunks []DetailedLineRangeMapping
	for _, hunk := range lineDiffs {
		if hunk.Seq1Range.IsEmpty() || hunk.Seq2Range.IsEmpty() {
			pureHunks = append(pureHunks, DetailedLineRangeMapping{
				LineRangeMapping: LineRangeMapping{
					Original: offsetRangeToLineRange(hunk.Seq1Range),
					Modified: offsetRangeToLineRange(hunk.Seq2Range),
				},
			})
			continue
		}
		mappings = append(mappings, refineLineHunk(originalLines, modifiedLines, hunk, considerWhitespaceChanges, timeout)...)
	}
	refined := lineRangeMappingFromRangeMappings(mappings)
	changes := mergeDetailedMappings(pureHunks, refined)

	var moves []MovedText
	if opts.ComputeMoves {
		moves = detectMoves(originalLines, modifiedLines, lineDiffs, hashes1, hashes2, considerWhitespaceChanges, timeout)
	}

	return LinesDiff{Changes: changes, Moves: moves, HitTimeout: !timeout.IsValid()}
}

func equalLineSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// buildLineSequence assigns each distinct (optionally trimmed) line text an
// integer ID, in order of first appearance, and wraps the result in a
// [LineSequence]. ids is shared across the original and modified documents
// of a single [ComputeDiff] call (so the same line text gets the same ID on
// both sides, which is the entire point of hashing them), but lives only for
// that call: repeated calls to ComputeDiff do not share IDs, trading a small
// amount of repeated hashing for never leaking memory between unrelated
// diffs (spec.md §9 open question).
func buildLineSequence(lines []string, considerWhitespaceChanges bool, ids map[string]int32) (*LineSequence, []int32) {
	hashes := make([]int32, len(lines))
	for i, line := range lines {
		key := line
		if !considerWhitespaceChanges {
			key = strings.TrimSpace(line)
		}
		h, ok := ids[key]
		if !ok {
			h = int32(len(ids))
			ids[key] = h
		}
		hashes[i] = h
	}
	return NewLineSequence(hashes, lines), hashes
}

// mergeDetailedMappings merges two lists of [DetailedLineRangeMapping],
// each already sorted by original start line, into one sorted list.
func mergeDetailedMappings(a, b []DetailedLineRangeMapping) []DetailedLineRangeMapping {
	out := make([]DetailedLineRangeMapping, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].Original.StartLineNumber <= b[j].Original.StartLineNumber {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
