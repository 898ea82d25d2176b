package cli

import (
	"fmt"
	"os"

	"github.com/convergelab/converge/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		cfg, err := config.Load(cwd)
		if err != nil {
			return fmt.Errorf("cannot load config: %w", err)
		}

		fmt.Printf("engine:\n")
		fmt.Printf("  max_rounds: %d\n", cfg.Engine.MaxRounds)
		fmt.Printf("  stability_threshold: %.2f\n", cfg.Engine.StabilityThreshold)
		fmt.Printf("  goal_divergence_limit: %d\n", cfg.Engine.GoalDivergenceLimit)
		fmt.Printf("backend:\n")
		fmt.Printf("  name: %s\n", cfg.Backend.Name)
		fmt.Printf("  model: %s\n", cfg.Backend.Model)

		return nil
	},
}
