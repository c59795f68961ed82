package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pulsehq/pulse/internal/orchestrator"
)

var statusTenant string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the agent roster for a tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		o := orchestrator.New(statusTenant, nil)
		st := o.AgentStatus()

		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s Tenant %s: %d agents, %s\n", cyan("⚕"), st.TenantID, st.TotalAgents, st.Status)
		for _, name := range st.AvailableAgents {
			fmt.Printf("  - %s\n", name)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusTenant, "tenant", "", "tenant id (required)")
	_ = statusCmd.MarkFlagRequired("tenant")
	rootCmd.AddCommand(statusCmd)
}
