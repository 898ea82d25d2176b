package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set by goreleaser via ldflags
	Version = "dev"
	cfgFile string
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "converge",
	Short: "Round-based convergence engine for LLM planning",
	Long: `converge runs a round-based planning loop over an injected model
backend: an Architect round proposes a plan and locks its goals and core
decisions, Refiner rounds revise the plan under that lock, a Blind Judge
evaluates each round's plan without assigning any score, and a Stability
Tracker and Decision Engine decide when the plan has converged.

Core Commands:
  run <goal>      Run the convergence loop for a goal to completion
  config          Show the resolved configuration`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (not read: configuration always comes from .converge/config.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.SetVersionTemplate(fmt.Sprintf("converge version %s\n", Version))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}
