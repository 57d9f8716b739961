package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/mathflow/pkg/runner"
)

var evalCmd = &cobra.Command{
	Use:   "eval <dataset.jsonl>",
	Short: "Evaluate the pipeline over a GSM8K-style JSONL split",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		split, _ := cmd.Flags().GetString("split")
		maxExamples, _ := cmd.Flags().GetInt("max-examples")
		outputRoot, _ := cmd.Flags().GetString("output")
		runDir, _ := cmd.Flags().GetString("run-dir")
		resume, _ := cmd.Flags().GetBool("resume")
		baseline, _ := cmd.Flags().GetBool("baseline")
		checkpointing, _ := cmd.Flags().GetBool("checkpoint")

		if resume && runDir == "" {
			return fmt.Errorf("--resume requires --run-dir")
		}

		temps := temperaturesFromConfig()
		summary, err := runner.Run(cmd.Context(), runner.Config{
			DatasetPath:  args[0],
			Split:        split,
			MaxExamples:  maxExamples,
			OutputRoot:   outputRoot,
			RunDir:       runDir,
			Resume:       resume,
			Baseline:     baseline,
			Checkpoint:   checkpointing,
			Client:       newClient(),
			Logger:       newLogger(),
			Temperatures: &temps,
		})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "split:    %s\n", summary.Split)
		fmt.Fprintf(w, "total:    %d\n", summary.Total)
		fmt.Fprintf(w, "correct:  %d\n", summary.Correct)
		fmt.Fprintf(w, "accuracy: %.4f\n", summary.Accuracy)
		fmt.Fprintf(w, "run dir:  %s\n", summary.RunDir)
		return nil
	},
}

func init() {
	evalCmd.Flags().String("split", "test", "split name recorded in results")
	evalCmd.Flags().Int("max-examples", 0, "cap on examples (0 = all)")
	evalCmd.Flags().String("output", "output", "root directory for timestamped run dirs")
	evalCmd.Flags().String("run-dir", "", "exact run directory (for resume)")
	evalCmd.Flags().Bool("resume", false, "skip examples already graded in --run-dir")
	evalCmd.Flags().Bool("baseline", false, "grade single direct model calls instead of the pipeline")
	evalCmd.Flags().Bool("checkpoint", false, "persist per-example checkpoints to SQLite in the run dir")
}
