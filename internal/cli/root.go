package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/mathflow/pkg/mathflow/config"
	"github.com/randalmurphal/mathflow/pkg/mathflow/llm"
	"github.com/randalmurphal/mathflow/pkg/solver"
)

var version = "dev"

// SetVersion is called from main with the build-time version.
func SetVersion(v string) {
	version = v
}

var (
	flagConfig  string
	flagModel   string
	flagVerbose bool

	// cfg is loaded in the persistent pre-run; commands read it for
	// defaults the flags don't override.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mathflow",
	Short: "mathflow — a multi-agent math solving pipeline",
	Long: `mathflow solves math word problems with a five-agent pipeline:
a generator drafts a solution, a validator and critic review it, a refiner
rewrites it, and an evaluator scores the improvement. Drafts are checked
against a deterministic arithmetic tool between passes.

Models run locally through the ollama CLI. A missing binary degrades to
sentinel answers instead of failing, so transcripts are always complete.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Best effort; a missing .env is not an error.
		_ = godotenv.Load()

		if flagConfig != "" {
			loaded, err := config.FromFile(flagConfig)
			if err != nil {
				return err
			}
			cfg = loaded
		} else {
			cfg = config.New(nil)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML or JSON config file")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "ollama model name (overrides config and MATHFLOW_MODEL)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(evalCmd)
}

// newLogger builds the CLI's slog logger. Debug level with --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newClient resolves the model name (flag, config, environment, default)
// and builds the ollama client.
func newClient() llm.Client {
	sub := cfg.Sub("model")

	model := flagModel
	if model == "" {
		model = sub.String("name", "")
	}
	if model == "" {
		model = os.Getenv("MATHFLOW_MODEL")
	}

	opts := []llm.OllamaOption{}
	if model != "" {
		opts = append(opts, llm.WithModel(model))
	}
	if path := sub.String("path", ""); path != "" {
		opts = append(opts, llm.WithPath(path))
	}
	if timeout := sub.Duration("timeout", 0); timeout > 0 {
		opts = append(opts, llm.WithTimeout(timeout))
	}
	return llm.NewOllama(opts...)
}

// temperaturesFromConfig overlays config values on the stock per-role
// temperatures.
func temperaturesFromConfig() solver.Temperatures {
	t := solver.DefaultTemperatures()
	sub := cfg.Sub("temperatures")
	t.Generator = sub.Float("generator", t.Generator)
	t.Validator = sub.Float("validator", t.Validator)
	t.Critic = sub.Float("critic", t.Critic)
	t.Refiner = sub.Float("refiner", t.Refiner)
	t.Evaluator = sub.Float("evaluator", t.Evaluator)
	return t
}
