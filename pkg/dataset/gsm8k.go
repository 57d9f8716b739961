// Package dataset loads GSM8K-style JSONL evaluation sets and provides
// the answer normalization used for grading.
package dataset

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Example is one problem with its ground-truth answer. Gold is the final
// numeric answer; Solution keeps the full worked solution when the source
// provides one.
type Example struct {
	Question string
	Solution string
	Gold     string
}

// questionFields and answerFields are tried in order; exported datasets
// are inconsistent about casing and naming.
var (
	questionFields = []string{"question", "Question", "problem", "Problem"}
	answerFields   = []string{"answer", "Answer", "solution", "Solution"}
)

// Load reads a JSONL file of examples. maxExamples caps the count when
// positive. Lines that are blank or missing a question field are skipped
// with no error; a malformed file path is an error.
func Load(path string, maxExamples int) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var examples []Example
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !gjson.Valid(line) {
			continue
		}

		ex := parseLine(line)
		if ex.Question == "" {
			continue
		}
		examples = append(examples, ex)
		if maxExamples > 0 && len(examples) >= maxExamples {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return examples, nil
}

func parseLine(line string) Example {
	var ex Example
	for _, field := range questionFields {
		if v := gjson.Get(line, field); v.Exists() {
			ex.Question = strings.TrimSpace(v.String())
			break
		}
	}
	for _, field := range answerFields {
		if v := gjson.Get(line, field); v.Exists() {
			ex.Solution = strings.TrimSpace(v.String())
			break
		}
	}
	ex.Gold = GoldAnswer(ex.Solution)
	return ex
}

// GoldAnswer extracts the final answer from a GSM8K worked solution. The
// canonical format puts it after a "####" marker; without the marker the
// whole solution text is returned for downstream extraction.
func GoldAnswer(solution string) string {
	if idx := strings.LastIndex(solution, "####"); idx >= 0 {
		return strings.TrimSpace(solution[idx+len("####"):])
	}
	return strings.TrimSpace(solution)
}

// NormalizeNumber strips formatting noise from a numeric answer string:
// thousands separators, currency signs, surrounding whitespace, and a
// trailing period.
func NormalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, ".")
	return strings.TrimSpace(s)
}

// NumericEq reports whether two answer strings are numerically equal after
// normalization, within a small tolerance. Non-numeric strings fall back
// to exact comparison of the normalized text.
func NumericEq(a, b string) bool {
	na, nb := NormalizeNumber(a), NormalizeNumber(b)
	x, errA := strconv.ParseFloat(na, 64)
	y, errB := strconv.ParseFloat(nb, 64)
	if errA != nil || errB != nil {
		return na != "" && na == nb
	}
	return math.Abs(x-y) <= 1e-6
}
