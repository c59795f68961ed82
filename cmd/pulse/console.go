package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pulsehq/pulse/internal/orchestrator"
	"github.com/pulsehq/pulse/internal/types"
	"github.com/pulsehq/pulse/internal/vfs"
)

var consoleTenant string

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive console for one tenant's pipeline",
	Long: `Start an interactive console bound to one tenant.

Commands:
  status            show the agent roster
  process <file>    run the pipeline over a metrics JSON file
  insights [n]      show the n most recent insights (default 10)
  recs [n]          show the n most recent recommendations (default 10)
  history [agent]   show agent run history, optionally filtered
  stats             show context storage statistics
  help              show this list
  exit              leave the console`,
}

type console struct {
	orch *orchestrator.Orchestrator
	ctx  context.Context
}

func (c *console) run() error {
	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cyan("pulse> "),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	fmt.Printf("Pulse console for tenant %s. Type 'help' for commands.\n", consoleTenant)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println("Goodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Println("Goodbye!")
			return nil
		}

		if err := c.dispatch(line); err != nil {
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}
}

func (c *console) dispatch(line string) error {
	parts := strings.Fields(line)
	command, args := parts[0], parts[1:]

	switch command {
	case "help":
		fmt.Println(consoleCmd.Long)
		return nil
	case "status":
		st := c.orch.AgentStatus()
		fmt.Printf("%d agents, %s: %s\n", st.TotalAgents, st.Status,
			strings.Join(st.AvailableAgents, ", "))
		return nil
	case "process":
		if len(args) != 1 {
			return fmt.Errorf("usage: process <metrics.json>")
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading metrics payload: %w", err)
		}
		var metrics types.MetricsPayload
		if err := json.Unmarshal(raw, &metrics); err != nil {
			return fmt.Errorf("parsing metrics payload: %w", err)
		}
		printSummary(c.orch.ProcessHealthData(c.ctx, metrics))
		return nil
	case "insights":
		return c.printFiles(c.orch.Context().GetRecentInsights(limitArg(args, 10)))
	case "recs":
		return c.printFiles(c.orch.Context().GetRecentRecommendations(limitArg(args, 10)))
	case "history":
		agent := ""
		if len(args) > 0 {
			agent = args[0]
		}
		return c.printFiles(c.orch.Context().GetAgentHistory(agent))
	case "stats":
		stats := c.orch.Context().FileSystem().StorageStats()
		fmt.Printf("%d files, %d bytes (%.2f MB)\n",
			stats.TotalFiles, stats.TotalSizeBytes, stats.TotalSizeMB)
		for cat, cs := range stats.Categories {
			fmt.Printf("  %-16s %d files, %d bytes\n", cat, cs.Count, cs.Size)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q (try 'help')", command)
	}
}

func (c *console) printFiles(files []vfs.FileInfo) error {
	if len(files) == 0 {
		fmt.Println("(none)")
		return nil
	}
	for _, f := range files {
		fmt.Printf("  %s  %s (%d bytes)\n",
			f.CreatedAt.Format("2006-01-02 15:04:05"), f.Filename, f.Size)
	}
	return nil
}

func limitArg(args []string, def int) int {
	if len(args) == 0 {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n < 0 {
		return def
	}
	return n
}

func init() {
	consoleCmd.RunE = func(cmd *cobra.Command, args []string) error {
		o := orchestrator.New(consoleTenant, cfg.LLM.Generator())
		c := &console{orch: o, ctx: cmd.Context()}
		return c.run()
	}
	consoleCmd.Flags().StringVar(&consoleTenant, "tenant", "", "tenant id (required)")
	_ = consoleCmd.MarkFlagRequired("tenant")
	rootCmd.AddCommand(consoleCmd)
}
