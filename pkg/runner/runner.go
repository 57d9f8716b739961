// Package runner evaluates the solver pipeline over a dataset split and
// writes graded results, full transcripts, and a summary to a run
// directory.
package runner

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/randalmurphal/mathflow/pkg/dataset"
	"github.com/randalmurphal/mathflow/pkg/mathflow"
	"github.com/randalmurphal/mathflow/pkg/mathflow/checkpoint"
	"github.com/randalmurphal/mathflow/pkg/mathflow/llm"
	"github.com/randalmurphal/mathflow/pkg/solver"
)

// Output files written under the run directory.
const (
	ResultsFile     = "results.jsonl"
	TranscriptsFile = "transcripts.jsonl"
	SummaryFile     = "summary.csv"
	CheckpointsFile = "checkpoints.db"
)

// Config describes one evaluation run.
type Config struct {
	DatasetPath string
	Split       string
	MaxExamples int

	// OutputRoot holds timestamped run directories. RunDir overrides the
	// timestamped default, which is how a previous run is resumed.
	OutputRoot string
	RunDir     string

	// Resume skips examples already graded in RunDir's results file.
	Resume bool

	// Baseline grades a single direct model call per example instead of
	// the full pipeline.
	Baseline bool

	// Checkpoint persists per-example pipeline checkpoints to a SQLite
	// file in the run directory.
	Checkpoint bool

	Client llm.Client
	Logger *slog.Logger

	Temperatures *solver.Temperatures
}

// Result is one graded example, one JSON line in the results file.
type Result struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Gold     string `json:"gold"`
	GoldNorm string `json:"gold_norm"`
	Pred     string `json:"pred"`
	Correct  bool   `json:"correct"`
	Baseline bool   `json:"baseline,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Summary aggregates one run.
type Summary struct {
	Split    string  `json:"split"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
	RunDir   string  `json:"run_dir"`
}

// Run evaluates the configured split. It returns the summary along with
// any error; partial results stay on disk either way, so an interrupted
// run can be resumed.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	runDir, err := ensureRunDir(cfg)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Split: cfg.Split, RunDir: runDir}

	examples, err := dataset.Load(cfg.DatasetPath, cfg.MaxExamples)
	if err != nil {
		return summary, err
	}

	// Resume seeds the summary from the existing results so the final
	// accuracy covers the whole run, not just the newly graded tail.
	skip := 0
	if cfg.Resume {
		prior, err := loadResults(filepath.Join(runDir, ResultsFile))
		if err != nil {
			return summary, err
		}
		skip = len(prior)
		summary.Total = len(prior)
		for _, r := range prior {
			if r.Correct {
				summary.Correct++
			}
		}
		logger.Info("resuming evaluation",
			"run_dir", runDir,
			"already_graded", skip,
			"already_correct", summary.Correct,
		)
	}

	results, err := os.OpenFile(filepath.Join(runDir, ResultsFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return summary, fmt.Errorf("open results: %w", err)
	}
	defer results.Close()

	transcripts, err := os.OpenFile(filepath.Join(runDir, TranscriptsFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return summary, fmt.Errorf("open transcripts: %w", err)
	}
	defer transcripts.Close()

	var store checkpoint.Store
	var runOpts []mathflow.RunOption
	if cfg.Checkpoint && !cfg.Baseline {
		store, err = checkpoint.NewSQLiteStore(filepath.Join(runDir, CheckpointsFile))
		if err != nil {
			return summary, fmt.Errorf("open checkpoint store: %w", err)
		}
		defer store.Close()
		runOpts = append(runOpts, mathflow.WithCheckpointing(store))
	}

	graph, err := solverGraph(cfg)
	if err != nil {
		return summary, err
	}

	resultEnc := json.NewEncoder(results)
	transcriptEnc := json.NewEncoder(transcripts)

	for i, ex := range examples {
		if i < skip {
			continue
		}
		if err := ctx.Err(); err != nil {
			logger.Warn("evaluation interrupted", "graded", summary.Total)
			break
		}

		// The first ungraded example may have checkpoints from a killed
		// run; pick up mid-pipeline instead of restarting it.
		tryResume := cfg.Resume && store != nil && i == skip
		res := gradeExample(ctx, cfg, graph, i, ex, runOpts, store, tryResume, transcriptEnc, logger)
		if err := resultEnc.Encode(res); err != nil {
			return summary, fmt.Errorf("write result: %w", err)
		}

		summary.Total++
		if res.Correct {
			summary.Correct++
		}
		logger.Info("graded example",
			"index", i,
			"correct", res.Correct,
			"pred", res.Pred,
			"gold", res.GoldNorm,
		)
	}

	if summary.Total > 0 {
		summary.Accuracy = float64(summary.Correct) / float64(summary.Total)
	}
	if err := writeSummary(filepath.Join(runDir, SummaryFile), summary); err != nil {
		return summary, err
	}
	if err := writeJSONSummary(runDir, summary); err != nil {
		return summary, err
	}
	logger.Info("evaluation complete",
		"split", summary.Split,
		"total", summary.Total,
		"correct", summary.Correct,
		"accuracy", summary.Accuracy,
	)
	return summary, nil
}

func solverGraph(cfg Config) (*mathflow.CompiledGraph[solver.MathState], error) {
	var opts []solver.Option
	if cfg.Temperatures != nil {
		opts = append(opts, solver.WithTemperatures(*cfg.Temperatures))
	}
	return solver.BuildGraph(opts...)
}

// gradeExample runs one example through the pipeline (or the baseline
// prompt) and grades the extracted answer against the gold answer. A
// pipeline failure degrades to the baseline prediction rather than
// aborting the run.
func gradeExample(
	ctx context.Context,
	cfg Config,
	graph *mathflow.CompiledGraph[solver.MathState],
	index int,
	ex dataset.Example,
	runOpts []mathflow.RunOption,
	store checkpoint.Store,
	tryResume bool,
	transcripts *json.Encoder,
	logger *slog.Logger,
) Result {
	res := Result{
		Index:    index,
		Question: ex.Question,
		Gold:     ex.Gold,
		GoldNorm: dataset.NormalizeNumber(ex.Gold),
		Baseline: cfg.Baseline,
	}

	if cfg.Baseline {
		res.Pred = baselineAnswer(ctx, cfg.Client, ex.Question)
		res.Correct = dataset.NumericEq(res.Pred, ex.Gold)
		return res
	}

	runID := exampleRunID(cfg.Split, index)
	execCtx := mathflow.NewContext(ctx,
		mathflow.WithLLM(cfg.Client),
		mathflow.WithLogger(logger),
		mathflow.WithContextRunID(runID),
	)

	state, err := resumeOrRun(execCtx, graph, ex, runID, runOpts, store, tryResume, logger)
	if err != nil {
		logger.Error("pipeline failed, falling back to baseline", "index", index, "error", err)
		res.Error = err.Error()
		res.Baseline = true
		res.Pred = baselineAnswer(ctx, cfg.Client, ex.Question)
		res.Correct = dataset.NumericEq(res.Pred, ex.Gold)
		return res
	}

	if transcripts != nil {
		if err := transcripts.Encode(state); err != nil {
			logger.Error("write transcript", "index", index, "error", err)
		}
	}

	if n, ok := solver.ExtractFinalNumber(state.FinalAnswer); ok {
		res.Pred = n
	}
	res.Correct = dataset.NumericEq(res.Pred, ex.Gold)
	return res
}

// resumeOrRun continues the example from its checkpoints when a killed run
// left some behind, and otherwise runs the pipeline from scratch. A failed
// resume falls back to a fresh run.
func resumeOrRun(
	execCtx mathflow.Context,
	graph *mathflow.CompiledGraph[solver.MathState],
	ex dataset.Example,
	runID string,
	runOpts []mathflow.RunOption,
	store checkpoint.Store,
	tryResume bool,
	logger *slog.Logger,
) (solver.MathState, error) {
	if tryResume && store != nil {
		if infos, err := store.List(runID); err == nil && len(infos) > 0 {
			state, err := graph.Resume(execCtx, store, runID)
			if err == nil {
				logger.Info("resumed example from checkpoint",
					"run_id", runID,
					"checkpoints", len(infos),
				)
				return state, nil
			}
			logger.Warn("checkpoint resume failed, rerunning example",
				"run_id", runID, "error", err)
		}
	}

	opts := append([]mathflow.RunOption{mathflow.WithRunID(runID)}, runOpts...)
	return graph.Run(execCtx, solver.NewState(ex.Question, ex.Gold), opts...)
}

// baselineAnswer is a single direct ask with no validation loop, used both
// for --baseline runs and as the fallback when the pipeline errors.
func baselineAnswer(ctx context.Context, client llm.Client, question string) string {
	if client == nil {
		return ""
	}
	prompt := fmt.Sprintf("Solve the following math problem. End with a line \"Final Answer: <answer>\".\n\n%s", question)
	response := client.Generate(ctx, prompt, 0.0)
	if n, ok := solver.ExtractFinalNumber(response); ok {
		return n
	}
	return ""
}

func exampleRunID(split string, index int) string {
	if split == "" {
		split = "eval"
	}
	return fmt.Sprintf("%s-%06d", split, index)
}

// ensureRunDir resolves and creates the run directory. New runs get a
// timestamped directory under OutputRoot.
func ensureRunDir(cfg Config) (string, error) {
	dir := cfg.RunDir
	if dir == "" {
		root := cfg.OutputRoot
		if root == "" {
			root = "output"
		}
		dir = filepath.Join(root, time.Now().UTC().Format("20060102-150405"))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}
	return dir, nil
}

// loadResults reads graded records from an existing results file. A missing
// file means nothing was graded yet. A malformed trailing line (a write cut
// short by a crash) ends the read; that example is graded again.
func loadResults(path string) ([]Result, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	var results []Result
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var r Result
		if err := dec.Decode(&r); err != nil {
			break
		}
		results = append(results, r)
	}
	return results, nil
}

func writeSummary(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	records := [][]string{
		{"split", "total", "correct", "accuracy"},
		{s.Split, fmt.Sprint(s.Total), fmt.Sprint(s.Correct), fmt.Sprintf("%.4f", s.Accuracy)},
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// fullSummary is the timestamped JSON dump: the aggregate plus every graded
// record read back from the results file, so a resumed run's dump still
// covers all examples.
type fullSummary struct {
	Timestamp string `json:"timestamp"`
	Summary
	Entries []Result `json:"entries"`
}

func writeJSONSummary(runDir string, s Summary) error {
	entries, err := loadResults(filepath.Join(runDir, ResultsFile))
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []Result{}
	}

	ts := time.Now().UTC().Format("20060102T150405Z")
	path := filepath.Join(runDir, fmt.Sprintf("summary-%s.json", ts))

	data, err := json.MarshalIndent(fullSummary{
		Timestamp: ts,
		Summary:   s,
		Entries:   entries,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("write json summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json summary: %w", err)
	}
	return nil
}
