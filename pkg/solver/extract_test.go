package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/mathflow/pkg/calc"
)

func TestExtractLastNumber(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"single integer", "the answer is 42", "42", true},
		{"last of several", "first 3, then 7, finally 19", "19", true},
		{"decimal", "total cost: 12.50 dollars", "12.50", true},
		{"negative", "the temperature dropped to -4", "-4", true},
		{"no numbers", "no digits here at all", "", false},
		{"empty", "", "", false},
		{"number in prose after answer", "answer is 8 apples", "8", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractLastNumber(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFinalAnswerLine(t *testing.T) {
	text := "Step 1: compute.\nFinal Answer: 4 apples\ntrailing commentary"
	line, ok := FinalAnswerLine(text)
	require.True(t, ok)
	assert.Equal(t, "4 apples", line)

	_, ok = FinalAnswerLine("no marker anywhere")
	assert.False(t, ok)
}

func TestFinalAnswerLineCaseInsensitive(t *testing.T) {
	line, ok := FinalAnswerLine("final answer:   7")
	require.True(t, ok)
	assert.Equal(t, "7", line)
}

func TestExtractFinalNumber(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{
			name:  "prefers marked line over later digits",
			text:  "Final Answer: 12\nSee exercise 3 for details.",
			want:  "12",
			found: true,
		},
		{
			name:  "falls back to last number",
			text:  "we get 5 then 9",
			want:  "9",
			found: true,
		},
		{
			name:  "marked line without digits falls back",
			text:  "so it is 7\nFinal Answer: unknown",
			want:  "7",
			found: true,
		},
		{
			name:  "nothing numeric",
			text:  "Final Answer: none",
			found: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractFinalNumber(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToolCandidate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "evaluates final answer line",
			text: "reasoning...\nFinal Answer: 6 * 7",
			want: "42",
		},
		{
			name: "plain number on final line passes through",
			text: "Final Answer: 4",
			want: "4",
		},
		{
			name: "falls back to first expression in reasoning",
			text: "We need 8*1.5 - 5*0.8 which is then adjusted.",
			want: "8",
		},
		{
			name: "no candidate",
			text: "purely verbal reasoning",
			want: calc.NoResult,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toolCandidate(tt.text))
		})
	}

	t.Run("units on final line yield tool error", func(t *testing.T) {
		got := toolCandidate("Final Answer: 48 square centimeters")
		assert.True(t, calc.IsError(got))
	})
}

func TestNumbersEqual(t *testing.T) {
	eq, comparable := numbersEqual("4", "4.0")
	assert.True(t, comparable)
	assert.True(t, eq)

	eq, comparable = numbersEqual("4", "5")
	assert.True(t, comparable)
	assert.False(t, eq)

	eq, comparable = numbersEqual("4.0000001", "4")
	assert.True(t, comparable)
	assert.True(t, eq, "within tolerance")

	_, comparable = numbersEqual("four", "4")
	assert.False(t, comparable)

	_, comparable = numbersEqual("", "4")
	assert.False(t, comparable)
}
