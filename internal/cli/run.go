package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/convergelab/converge/internal/config"
	"github.com/convergelab/converge/internal/display"
	"github.com/convergelab/converge/internal/llmhost/claude"
	"github.com/convergelab/converge/internal/llmhost/kilocode"
	"github.com/convergelab/converge/internal/llmhost/openai"
	"github.com/convergelab/converge/internal/model"
	"github.com/convergelab/converge/internal/orchestrator"
	"github.com/spf13/cobra"
)

var runContext string

var runCmd = &cobra.Command{
	Use:   "run <goal>",
	Short: "Run the convergence loop for a goal to completion",
	Long: `Run the convergence loop: an Architect round proposes and locks a
plan, Refiner rounds revise it under that lock, a Blind Judge evaluates
each round, and the Stability Tracker / Decision Engine decide when to
stop.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		goal := strings.Join(args, " ")

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		cfg, err := config.Load(cwd)
		if err != nil {
			return fmt.Errorf("cannot load config: %w", err)
		}

		callModel, err := buildCallModel(cfg)
		if err != nil {
			return err
		}

		disp := display.NewWithOptions(noColor)

		o := orchestrator.New(callModel, orchestrator.Config{
			MaxRounds:           cfg.Engine.MaxRounds,
			StabilityThreshold:  cfg.Engine.StabilityThreshold,
			GoalDivergenceLimit: cfg.Engine.GoalDivergenceLimit,
		}, orchestrator.Hooks{
			OnRoundStart: func(round *model.RoundState) {
				disp.RoundHeader(round.Number, string(round.Phase))
			},
			OnLog: func(event orchestrator.LogEvent) {
				disp.Log(event.Type, event.Message)
			},
		})

		result, err := o.Execute(context.Background(), goal, runContext)
		if err != nil {
			disp.Error(err.Error())
			return err
		}

		disp.Terminate(result.Success, result.Round, string(result.TerminationReason), result.Stability)

		if !result.Success {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runContext, "context", "", "additional context to carry alongside the goal")
}

func buildCallModel(cfg *config.Config) (orchestrator.CallModel, error) {
	switch cfg.Backend.Name {
	case "openai":
		host, err := openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		if err != nil {
			return nil, err
		}
		return host.CallModel, nil
	case "kilocode":
		host := kilocode.New(cfg.KiloCode.Binary, cfg.KiloCode.APIKey, cfg.Backend.Model)
		return host.CallModel, nil
	case "claude", "":
		host := claude.New(cfg.Claude.Binary, cfg.Backend.Model, cfg.Claude.AllowedTools)
		return host.CallModel, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want claude, openai, or kilocode)", cfg.Backend.Name)
	}
}
