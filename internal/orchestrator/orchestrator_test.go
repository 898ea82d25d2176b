package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/convergelab/converge/internal/model"
	"github.com/convergelab/converge/internal/parser"
)

const validPlanJSON = `{"goals":["Ship X"],"tasks":[{"description":"do X","priority":"high"}],"constraints":["budget under $500"]}`

func planOrEvalResponder(evalJSON func(round int) string) CallModel {
	round := 0
	return func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "blind judge") {
			return evalJSON(round), nil
		}
		round++
		return validPlanJSON, nil
	}
}

func TestExecuteTerminatesOnTaskComplete(t *testing.T) {
	callModel := planOrEvalResponder(func(round int) string {
		return `{"vs_previous":"same","vs_goal":"same","contradictions":[],"missing":[],"risks":[]}`
	})

	o := New(callModel, DefaultConfig(), Hooks{})
	result, err := o.Execute(context.Background(), "Ship X", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.TerminationReason != model.ReasonTaskComplete {
		t.Fatalf("expected successful taskComplete termination, got %+v", result)
	}
	if result.Round != 1 {
		t.Errorf("Round = %d, want 1 (round 1 already satisfies taskComplete)", result.Round)
	}
}

func TestExecuteTerminatesOnMaxRoundsReached(t *testing.T) {
	callModel := planOrEvalResponder(func(round int) string {
		return `{"vs_previous":"worse","vs_goal":"same","contradictions":["c1","c2"],"missing":["m1"],"risks":[]}`
	})

	cfg := Config{MaxRounds: 2, StabilityThreshold: 0.99, GoalDivergenceLimit: 10}
	o := New(callModel, cfg, Hooks{})
	result, err := o.Execute(context.Background(), "Ship X", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TerminationReason != model.ReasonMaxRoundsReached {
		t.Fatalf("expected maxRoundsReached, got %+v", result)
	}
	if result.Round != 2 {
		t.Errorf("Round = %d, want 2", result.Round)
	}
}

func TestExecutePropagatesModelCallError(t *testing.T) {
	wantErr := errors.New("backend unavailable")
	callModel := func(ctx context.Context, prompt string) (string, error) {
		return "", wantErr
	}

	o := New(callModel, DefaultConfig(), Hooks{})
	result, err := o.Execute(context.Background(), "Ship X", "")

	var modelErr *ModelCallError
	if !errors.As(err, &modelErr) {
		t.Fatalf("expected a *ModelCallError, got %v", err)
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped error to unwrap to %v", wantErr)
	}
	if result.Success || result.TerminationReason != model.ReasonMaxRoundsReached {
		t.Errorf("expected failed run with maxRoundsReached sentinel, got %+v", result)
	}
}

func TestExecutePropagatesPlanParseError(t *testing.T) {
	callModel := func(ctx context.Context, prompt string) (string, error) {
		return "I couldn't come up with a plan this time.", nil
	}

	o := New(callModel, DefaultConfig(), Hooks{})
	result, err := o.Execute(context.Background(), "Ship X", "")

	var parseErr *parser.PlanParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected a *parser.PlanParseError, got %v", err)
	}
	if result.Success {
		t.Errorf("expected a failed run, got %+v", result)
	}
}

func TestExecuteInvokesLifecycleHooks(t *testing.T) {
	callModel := planOrEvalResponder(func(round int) string {
		return `{"vs_previous":"same","vs_goal":"same","contradictions":[],"missing":[],"risks":[]}`
	})

	var starts, completes, terminates int
	hooks := Hooks{
		OnRoundStart:    func(r *model.RoundState) { starts++ },
		OnRoundComplete: func(r *model.RoundState) { completes++ },
		OnTerminate:     func(r *model.ExecutionResult) { terminates++ },
	}

	o := New(callModel, DefaultConfig(), hooks)
	if _, err := o.Execute(context.Background(), "Ship X", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if starts != 1 || completes != 1 || terminates != 1 {
		t.Errorf("expected each hook exactly once for a one-round run, got starts=%d completes=%d terminates=%d", starts, completes, terminates)
	}
}

func TestExecuteResetsStateBetweenRuns(t *testing.T) {
	callModel := planOrEvalResponder(func(round int) string {
		return `{"vs_previous":"same","vs_goal":"same","contradictions":[],"missing":[],"risks":[]}`
	})

	o := New(callModel, DefaultConfig(), Hooks{})
	if _, err := o.Execute(context.Background(), "Ship X", ""); err != nil {
		t.Fatalf("unexpected error on first run: %v", err)
	}
	if _, err := o.Execute(context.Background(), "Ship Y", ""); err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}

	state := o.GetState()
	if state.Goal != "Ship Y" {
		t.Errorf("Goal = %q, want %q (state should reset between runs)", state.Goal, "Ship Y")
	}
	if len(state.RoundHistory) != 0 {
		t.Errorf("expected empty RoundHistory on a fresh one-round run, got %d entries", len(state.RoundHistory))
	}
}
