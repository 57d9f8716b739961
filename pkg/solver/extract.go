package solver

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/randalmurphal/mathflow/pkg/calc"
)

// Best-effort heuristics over model output. These are documented as lossy:
// they pick out numbers and flat arithmetic expressions from free text and
// make no attempt at real parsing.
var (
	numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

	// finalAnswerPattern matches the "Final Answer: <value>" marker agents
	// are instructed to emit.
	finalAnswerPattern = regexp.MustCompile(`(?im)Final Answer:\s*(.+)$`)

	// exprPattern matches a flat left-to-right chain of binary operators
	// over numeric literals, e.g. "12 * 4" or "8*1.5 - 5*0.8".
	exprPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?(?:\s*(?:\*\*|[+\-*/%^])\s*-?\d+(?:\.\d+)?)+`)
)

// ExtractLastNumber returns the last integer or decimal literal anywhere in
// text. Simple, but fits typical math Q&A output.
func ExtractLastNumber(text string) (string, bool) {
	matches := numberPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[len(matches)-1], true
}

// FinalAnswerLine returns the content after the first "Final Answer:"
// marker, trimmed.
func FinalAnswerLine(text string) (string, bool) {
	m := finalAnswerPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ExtractFinalNumber returns the answer number from text, preferring the
// number on the marked final-answer line and falling back to the last
// number anywhere in the text. The fallback can be wrong when prose trails
// the real answer with other digits; callers treat the result as a hint.
func ExtractFinalNumber(text string) (string, bool) {
	if line, ok := FinalAnswerLine(text); ok {
		if n, ok := ExtractLastNumber(line); ok {
			return n, true
		}
	}
	return ExtractLastNumber(text)
}

// numericTolerance absorbs float noise from the tool's division and power
// paths when comparing extracted answers.
const numericTolerance = 1e-6

// numbersEqual compares two numeric literals with tolerance. The second
// return is false when either side does not parse, in which case no
// correctness claim can be made.
func numbersEqual(a, b string) (equal, comparable bool) {
	x, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	y, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA != nil || errB != nil {
		return false, false
	}
	return math.Abs(x-y) <= numericTolerance, true
}

// toolCandidate locates an evaluable candidate in model output and runs it
// through the arithmetic tool. Preference order: the final-answer line when
// it contains a digit, then the first flat arithmetic expression in the
// reasoning. Returns calc.NoResult when neither is found.
func toolCandidate(text string) string {
	if line, ok := FinalAnswerLine(text); ok {
		if strings.ContainsAny(line, "0123456789") {
			return calc.Evaluate(line)
		}
	}
	if expr := exprPattern.FindString(text); expr != "" {
		return calc.Evaluate(expr)
	}
	return calc.NoResult
}
