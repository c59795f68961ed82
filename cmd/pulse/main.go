// Command pulse runs the multi-tenant health agent pipeline: an HTTP server
// for webhook ingest and dashboards, plus one-shot and interactive modes for
// local use.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulsehq/pulse/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Multi-tenant health agent pipeline",
	Long: `Pulse processes health-tracker data through a pipeline of six agents
(data collection, pattern detection, workout planning, nutrition planning,
coaching, safety) and keeps each tenant's recent results in an in-memory
context store.

Configuration comes from an optional YAML file (--config) and PULSE_*
environment variables. LLM augmentation is enabled by configuring an
OpenAI or Anthropic API key; without one, agents run rule-based only.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
