package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pulsehq/pulse/internal/orchestrator"
	"github.com/pulsehq/pulse/internal/types"
)

var processTenant string

var processCmd = &cobra.Command{
	Use:   "process [metrics.json]",
	Short: "Run the agent pipeline once over a metrics payload",
	Long: `Run all six agents over one metrics payload and print the summary.

The payload is read from the given JSON file, or from stdin when no file
is given:

  pulse process --tenant demo metrics.json
  echo '{"recovery_score": 45}' | pulse process --tenant demo`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			raw []byte
			err error
		)
		if len(args) == 1 {
			raw, err = os.ReadFile(args[0])
		} else {
			raw, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("reading metrics payload: %w", err)
		}

		var metrics types.MetricsPayload
		if err := json.Unmarshal(raw, &metrics); err != nil {
			return fmt.Errorf("parsing metrics payload: %w", err)
		}

		o := orchestrator.New(processTenant, cfg.LLM.Generator())
		result := o.ProcessHealthData(cmd.Context(), metrics)
		printSummary(result)
		return nil
	},
}

// printSummary renders one orchestration result for the terminal.
func printSummary(result *types.ProcessResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	s := result.Summary
	fmt.Printf("\n%s Processed %d agents for tenant %s (%d succeeded)\n\n",
		cyan("▶"), s.AgentsProcessed, s.TenantID, s.SuccessfulAgents)

	for _, oc := range s.AgentResults {
		if oc.Status == types.StatusSuccess {
			fmt.Printf("  %s %-18s confidence %.2f\n", green("✓"), oc.Agent, *oc.Confidence)
		} else {
			fmt.Printf("  %s %-18s %s\n", red("✗"), oc.Agent, oc.Error)
		}
	}
	fmt.Printf("\n  Overall confidence: %.3f\n", s.OverallConfidence)
}

func init() {
	processCmd.Flags().StringVar(&processTenant, "tenant", "", "tenant id (required)")
	_ = processCmd.MarkFlagRequired("tenant")
	rootCmd.AddCommand(processCmd)
}
