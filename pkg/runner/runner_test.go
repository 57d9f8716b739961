package runner

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/mathflow/pkg/mathflow"
	"github.com/randalmurphal/mathflow/pkg/mathflow/checkpoint"
	"github.com/randalmurphal/mathflow/pkg/mathflow/llm"
	"github.com/randalmurphal/mathflow/pkg/solver"
)

func writeDataset(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "split.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

const twoExamples = `{"question": "What is 2+2?", "answer": "#### 4"}
{"question": "What is 3*3?", "answer": "#### 9"}
`

func readResults(t *testing.T, runDir string) []Result {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(runDir, ResultsFile))
	require.NoError(t, err)

	var results []Result
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var r Result
		require.NoError(t, json.Unmarshal([]byte(line), &r))
		results = append(results, r)
	}
	return results
}

func TestRunGradesSplit(t *testing.T) {
	mock := llm.NewMockClient("Final Answer: 4")
	cfg := Config{
		DatasetPath: writeDataset(t, twoExamples),
		Split:       "test",
		OutputRoot:  t.TempDir(),
		Client:      mock,
	}

	summary, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Correct, "mock always answers 4")
	assert.InDelta(t, 0.5, summary.Accuracy, 1e-9)

	results := readResults(t, summary.RunDir)
	require.Len(t, results, 2)
	assert.True(t, results[0].Correct)
	assert.Equal(t, "4", results[0].Pred)
	assert.False(t, results[1].Correct)
	assert.Equal(t, "9", results[1].GoldNorm)

	// Transcripts carry the full pipeline state per example.
	transcripts, err := os.ReadFile(filepath.Join(summary.RunDir, TranscriptsFile))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(transcripts), "\n"))
	assert.Contains(t, string(transcripts), `"dialogue"`)

	csvData, err := os.ReadFile(filepath.Join(summary.RunDir, SummaryFile))
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "split,total,correct,accuracy")
	assert.Contains(t, string(csvData), "test,2,1,0.5000")
}

func TestRunBaseline(t *testing.T) {
	mock := llm.NewMockClient("Final Answer: 4")
	cfg := Config{
		DatasetPath: writeDataset(t, twoExamples),
		Split:       "test",
		OutputRoot:  t.TempDir(),
		Client:      mock,
		Baseline:    true,
	}

	summary, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Correct)
	// One direct call per example, no pipeline.
	assert.Equal(t, 2, mock.CallCount())

	results := readResults(t, summary.RunDir)
	for _, r := range results {
		assert.True(t, r.Baseline)
	}
}

func TestRunResumeSkipsGraded(t *testing.T) {
	mock := llm.NewMockClient("Final Answer: 4")
	datasetPath := writeDataset(t, twoExamples)

	first := Config{
		DatasetPath: datasetPath,
		Split:       "test",
		OutputRoot:  t.TempDir(),
		Client:      mock,
		MaxExamples: 1,
	}
	s1, err := Run(context.Background(), first)
	require.NoError(t, err)
	require.Equal(t, 1, s1.Total)

	mock.Reset()
	second := Config{
		DatasetPath: datasetPath,
		Split:       "test",
		RunDir:      s1.RunDir,
		Client:      mock,
		Resume:      true,
	}
	s2, err := Run(context.Background(), second)
	require.NoError(t, err)

	// Only the second example was graded on resume, but the summary covers
	// the whole run: example 0 (correct) carries over, example 1 is wrong.
	assert.Equal(t, 2, s2.Total)
	assert.Equal(t, 1, s2.Correct)
	assert.InDelta(t, 0.5, s2.Accuracy, 1e-9)
	assert.Equal(t, 7, mock.CallCount())

	results := readResults(t, s1.RunDir)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 1, results[1].Index)

	csvData, err := os.ReadFile(filepath.Join(s1.RunDir, SummaryFile))
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "test,2,1,0.5000")
}

func TestRunResumeContinuesCheckpointedExample(t *testing.T) {
	datasetPath := writeDataset(t, twoExamples)

	first := Config{
		DatasetPath: datasetPath,
		Split:       "test",
		OutputRoot:  t.TempDir(),
		Client:      llm.NewMockClient("Final Answer: 4"),
		MaxExamples: 1,
		Checkpoint:  true,
	}
	s1, err := Run(context.Background(), first)
	require.NoError(t, err)
	require.Equal(t, 1, s1.Correct)

	// Simulate a batch killed mid-example: run example 1's pipeline against
	// the run directory's store and cancel it after the generator finishes,
	// leaving its checkpoints behind with no result line.
	store, err := checkpoint.NewSQLiteStore(filepath.Join(s1.RunDir, CheckpointsFile))
	require.NoError(t, err)

	graph, err := solver.BuildGraph()
	require.NoError(t, err)

	killCtx, kill := context.WithCancel(context.Background())
	calls := 0
	dying := llm.NewMockClient("").WithGenerateFunc(func(_ context.Context, _ string, _ float64) string {
		calls++
		if calls == 2 {
			kill()
		}
		return "Final Answer: 4"
	})

	runID := exampleRunID("test", 1)
	execCtx := mathflow.NewContext(killCtx,
		mathflow.WithLLM(dying),
		mathflow.WithContextRunID(runID),
	)
	_, err = graph.Run(execCtx, solver.NewState("What is 3*3?", "9"),
		mathflow.WithCheckpointing(store),
		mathflow.WithRunID(runID),
	)
	require.Error(t, err, "run dies after the generator node")

	infos, err := store.List(runID)
	require.NoError(t, err)
	require.NotEmpty(t, infos, "checkpoints survive the kill")
	require.NoError(t, store.Close())

	// Resume picks example 1 up from its latest checkpoint: the generator
	// is not rerun, so the model only serves the remaining five calls.
	mock := llm.NewMockClient("Final Answer: 9")
	second := Config{
		DatasetPath: datasetPath,
		Split:       "test",
		RunDir:      s1.RunDir,
		Client:      mock,
		Resume:      true,
		Checkpoint:  true,
	}
	s2, err := Run(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, 2, s2.Total)
	assert.Equal(t, 2, s2.Correct, "refined answer 9 matches the gold")
	assert.Equal(t, 5, mock.CallCount(), "validator, critic, refiner x2, evaluator")

	results := readResults(t, s1.RunDir)
	require.Len(t, results, 2)
	assert.True(t, results[1].Correct)
}

func TestRunWritesJSONSummary(t *testing.T) {
	mock := llm.NewMockClient("Final Answer: 4")
	cfg := Config{
		DatasetPath: writeDataset(t, twoExamples),
		Split:       "test",
		OutputRoot:  t.TempDir(),
		Client:      mock,
	}

	summary, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(summary.RunDir, "summary-*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)

	var full fullSummary
	require.NoError(t, json.Unmarshal(data, &full))
	assert.NotEmpty(t, full.Timestamp)
	assert.Equal(t, "test", full.Split)
	assert.Equal(t, 2, full.Total)
	assert.Equal(t, 1, full.Correct)
	require.Len(t, full.Entries, 2, "dump embeds every graded record")
	assert.Equal(t, "What is 2+2?", full.Entries[0].Question)
	assert.True(t, full.Entries[0].Correct)
}

func TestRunWithCheckpointing(t *testing.T) {
	mock := llm.NewMockClient("Final Answer: 4")
	cfg := Config{
		DatasetPath: writeDataset(t, twoExamples),
		Split:       "test",
		OutputRoot:  t.TempDir(),
		Client:      mock,
		MaxExamples: 1,
		Checkpoint:  true,
	}

	summary, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Total)

	_, err = os.Stat(filepath.Join(summary.RunDir, CheckpointsFile))
	assert.NoError(t, err, "checkpoint database exists")
}

func TestRunMissingDataset(t *testing.T) {
	cfg := Config{
		DatasetPath: filepath.Join(t.TempDir(), "missing.jsonl"),
		OutputRoot:  t.TempDir(),
		Client:      llm.NewMockClient("x"),
	}
	_, err := Run(context.Background(), cfg)
	assert.Error(t, err)
}

func TestExampleRunID(t *testing.T) {
	assert.Equal(t, "test-000003", exampleRunID("test", 3))
	assert.Equal(t, "eval-000000", exampleRunID("", 0))
}
