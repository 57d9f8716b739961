package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/mathflow/pkg/mathflow"
	"github.com/randalmurphal/mathflow/pkg/solver"
)

var solveCmd = &cobra.Command{
	Use:   "solve \"<question>\"",
	Short: "Run the full pipeline on one problem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gold, _ := cmd.Flags().GetString("gold")
		asJSON, _ := cmd.Flags().GetBool("json")
		transcript, _ := cmd.Flags().GetBool("transcript")

		logger := newLogger()
		ctx := mathflow.NewContext(cmd.Context(),
			mathflow.WithLLM(newClient()),
			mathflow.WithLogger(logger),
		)

		graph, err := solver.BuildGraph(solver.WithTemperatures(temperaturesFromConfig()))
		if err != nil {
			return err
		}
		state, err := graph.Run(ctx, solver.NewState(args[0], gold))
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if asJSON {
			data, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(data))
			return nil
		}

		if transcript {
			for _, turn := range state.Dialogue {
				fmt.Fprintf(w, "=== %s ===\n%s\n\n", turn.Speaker, turn.Content)
			}
			fmt.Fprintln(w, strings.Repeat("-", 40))
		}
		fmt.Fprintln(w, state.FinalAnswer)

		if state.AutomaticMetrics != nil && state.AutomaticMetrics.RefinedCorrect != nil {
			fmt.Fprintf(w, "\ncorrect: %v\n", *state.AutomaticMetrics.RefinedCorrect)
		}
		return nil
	},
}

func init() {
	solveCmd.Flags().String("gold", "", "ground-truth answer for automatic grading")
	solveCmd.Flags().Bool("json", false, "print the full pipeline state as JSON")
	solveCmd.Flags().Bool("transcript", false, "print the agent transcript before the answer")
}
