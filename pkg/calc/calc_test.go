package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Basics(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"4", "4"},
		{"2+2", "4"},
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"10 - 4 - 3", "3"},
		{"-5", "-5"},
		{"--5", "5"},
		{"-(2 + 3)", "-5"},
		{"3.5", "3.5"},
		{"1.5 + 2.5", "4"},
		{"8*1.5 - 5*0.8", "8"},
		{"2 * -3", "-6"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.expr))
		})
	}
}

func TestEvaluate_Division(t *testing.T) {
	// True division always yields a float result but prints integral
	// quotients without a decimal point.
	assert.Equal(t, "2.5", Evaluate("5 / 2"))
	assert.Equal(t, "2", Evaluate("4 / 2"))

	// Floor division floors toward negative infinity.
	assert.Equal(t, "2", Evaluate("5 // 2"))
	assert.Equal(t, "-3", Evaluate("-5 // 2"))
	assert.Equal(t, "-3", Evaluate("5 // -2"))
	assert.Equal(t, "2", Evaluate("-5 // -2"))
	assert.Equal(t, "2", Evaluate("5.0 // 2"))
}

func TestEvaluate_Modulo(t *testing.T) {
	// The remainder takes the sign of the divisor.
	assert.Equal(t, "1", Evaluate("7 % 3"))
	assert.Equal(t, "2", Evaluate("-7 % 3"))
	assert.Equal(t, "-2", Evaluate("7 % -3"))
	assert.Equal(t, "-1", Evaluate("-7 % -3"))
}

func TestEvaluate_Power(t *testing.T) {
	assert.Equal(t, "8", Evaluate("2 ^ 3"))
	assert.Equal(t, "8", Evaluate("2 ** 3"))
	assert.Equal(t, "512", Evaluate("2 ** 3 ** 2"), "power is right-associative")
	assert.Equal(t, "0.25", Evaluate("2 ^ -2"))
	assert.Equal(t, "6.25", Evaluate("2.5 ^ 2"))

	// Huge integer exponentiation degrades to float instead of wrapping.
	result := Evaluate("10 ^ 30")
	assert.False(t, IsError(result))
	assert.Contains(t, result, "e+")
}

func TestEvaluate_IntegerPrecision(t *testing.T) {
	// Large but representable integer arithmetic stays exact.
	assert.Equal(t, "9007199254740995", Evaluate("9007199254740993 + 2"))
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"identifier", "x + 1"},
		{"trailing garbage", "4 apples"},
		{"function call", "sqrt(4)"},
		{"unbalanced paren", "(2 + 3"},
		{"dangling operator", "2 +"},
		{"lone dot", "."},
		{"division by zero", "1 / 0"},
		{"floor division by zero", "1 // 0"},
		{"modulo by zero", "1 % 0"},
		{"double operator", "2 * * 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(tt.expr)
			assert.True(t, IsError(result), "expected error sentinel, got %q", result)
		})
	}
}

func TestEvaluate_NeverPanics(t *testing.T) {
	hostile := []string{
		"((((((((((",
		"))))))))))",
		"1e309",
		"--------1",
		"%%%%",
		"2**",
		"....",
		"9999999999999999999999999999 * 2",
	}
	for _, expr := range hostile {
		require.NotPanics(t, func() { Evaluate(expr) }, expr)
	}
}

func TestIsError(t *testing.T) {
	assert.True(t, IsError("[tool-error] division by zero"))
	assert.True(t, IsError("  [tool-error] x"))
	assert.False(t, IsError("42"))
	assert.False(t, IsError(NoResult), "no-result is not an evaluation error")
}
