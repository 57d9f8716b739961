package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/mathflow/pkg/mathflow/llm"
)

func TestMockClient_FixedResponse(t *testing.T) {
	mock := llm.NewMockClient("always this")

	assert.Equal(t, "always this", mock.Generate(context.Background(), "a", 0))
	assert.Equal(t, "always this", mock.Generate(context.Background(), "b", 0))
	assert.Equal(t, 2, mock.CallCount())
	assert.Equal(t, "b", mock.LastCall())
}

func TestMockClient_ResponsesCycle(t *testing.T) {
	mock := llm.NewMockClient("").WithResponses("one", "two")

	ctx := context.Background()
	assert.Equal(t, "one", mock.Generate(ctx, "p", 0))
	assert.Equal(t, "two", mock.Generate(ctx, "p", 0))
	assert.Equal(t, "one", mock.Generate(ctx, "p", 0), "responses cycle when exhausted")
}

func TestMockClient_GenerateFunc(t *testing.T) {
	mock := llm.NewMockClient("ignored").WithGenerateFunc(
		func(ctx context.Context, prompt string, temperature float64) string {
			return "dynamic:" + prompt
		})

	assert.Equal(t, "dynamic:hello", mock.Generate(context.Background(), "hello", 0))
	assert.Equal(t, []string{"hello"}, mock.Calls)
}

func TestMockClient_Reset(t *testing.T) {
	mock := llm.NewMockClient("").WithResponses("one", "two")

	ctx := context.Background()
	mock.Generate(ctx, "p", 0)
	mock.Reset()

	assert.Equal(t, 0, mock.CallCount())
	assert.Equal(t, "", mock.LastCall())
	assert.Equal(t, "one", mock.Generate(ctx, "p", 0), "script restarts after reset")
}
