// Package orchestrator drives the sequential, single-run convergence loop:
// generate a plan, lock it on round 1, blindly evaluate it, measure
// stability, and decide whether to stop.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/convergelab/converge/internal/decision"
	"github.com/convergelab/converge/internal/judge"
	"github.com/convergelab/converge/internal/model"
	"github.com/convergelab/converge/internal/parser"
	"github.com/convergelab/converge/internal/planner"
	"github.com/convergelab/converge/internal/stability"
)

// CallModel is the orchestrator's sole external dependency: a pure
// request/response boundary to whichever model backend the host wires in.
// Retries, backoff, rate limiting, and provider fallback are the host's
// concern, not the core's.
type CallModel func(ctx context.Context, prompt string) (string, error)

// Config carries the Orchestrator's tunables, mirroring spec §6.
type Config struct {
	MaxRounds           int
	StabilityThreshold  float64
	GoalDivergenceLimit int
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxRounds:           3,
		StabilityThreshold:  0.85,
		GoalDivergenceLimit: 2,
	}
}

// LogEvent is the payload passed to the onLog hook.
type LogEvent struct {
	Type    string
	Message string
	Data    interface{}
}

// Hooks are observer callbacks the host may supply. Every hook is optional;
// a nil hook is simply not invoked. Hooks must not throw and must not
// mutate the objects they are handed — the Orchestrator does not defend
// against either, per spec §5.
type Hooks struct {
	OnRoundStart    func(round *model.RoundState)
	OnRoundComplete func(round *model.RoundState)
	OnTerminate     func(result *model.ExecutionResult)
	OnLog           func(event LogEvent)
}

// ModelCallError wraps a failure returned by the injected CallModel. It is
// unrecoverable: it ends the run, per spec §4.H.
type ModelCallError struct {
	Phase string
	Cause error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call failed during %s: %v", e.Phase, e.Cause)
}

func (e *ModelCallError) Unwrap() error {
	return e.Cause
}

// Orchestrator runs one convergence loop at a time over the injected
// CallModel. It is not safe for concurrent use: spec §5 guarantees at most
// one round executes at a time and forbids concurrent calls to the model
// function.
type Orchestrator struct {
	callModel CallModel
	config    Config
	hooks     Hooks
	state     model.OrchestratorState
}

// New builds an Orchestrator. callModel must be non-nil; a zero Config is
// replaced with DefaultConfig.
func New(callModel CallModel, config Config, hooks Hooks) *Orchestrator {
	if config.MaxRounds == 0 && config.StabilityThreshold == 0 && config.GoalDivergenceLimit == 0 {
		config = DefaultConfig()
	}
	return &Orchestrator{callModel: callModel, config: config, hooks: hooks}
}

// GetState returns a read-only snapshot of the current OrchestratorState.
func (o *Orchestrator) GetState() model.OrchestratorState {
	return o.state
}

func (o *Orchestrator) log(eventType, message string, data interface{}) {
	if o.hooks.OnLog != nil {
		o.hooks.OnLog(LogEvent{Type: eventType, Message: message, Data: data})
	}
}

// Execute resets state and runs the convergence loop to completion. It
// returns the first ModelCallError or PlanParseError encountered; on either,
// the run is marked failed and the sentinel termination reason
// maxRoundsReached is recorded per spec §4.H.
func (o *Orchestrator) Execute(ctx context.Context, goal, goalContext string) (*model.ExecutionResult, error) {
	o.state = model.OrchestratorState{
		Goal:      goal,
		Context:   goalContext,
		IsRunning: true,
	}

	for {
		round := o.startRound()

		if err := o.generateAndLockPlan(ctx, round, goal, goalContext); err != nil {
			return o.fail(err)
		}

		if err := o.evaluate(ctx, round, goal); err != nil {
			return o.fail(err)
		}

		o.measureStability(round)

		decision := o.decide(round)

		if o.hooks.OnRoundComplete != nil {
			o.hooks.OnRoundComplete(round.Clone())
		}

		if decision.ShouldTerminate {
			return o.terminate(round, decision), nil
		}
	}
}

// startRound archives the previous round (if any), increments the round
// number, sets the phase, and carries the locked structure forward.
func (o *Orchestrator) startRound() *model.RoundState {
	var number int
	var locked *model.LockedStructure

	if o.state.CurrentRound != nil {
		o.state.RoundHistory = append(o.state.RoundHistory, o.state.CurrentRound.Clone())
		number = o.state.CurrentRound.Number + 1
		locked = o.state.CurrentRound.LockedStructure
	} else {
		number = 1
	}

	phase := model.PhaseRefiner
	if number == 1 {
		phase = model.PhaseArchitect
	}

	round := model.NewRoundState(number, phase)
	round.LockedStructure = locked
	o.state.CurrentRound = round

	o.log("round_start", fmt.Sprintf("starting round %d (%s)", number, phase), nil)
	if o.hooks.OnRoundStart != nil {
		o.hooks.OnRoundStart(round.Clone())
	}

	return round
}

// generateAndLockPlan builds the appropriate prompt, calls the model, parses
// the plan, validates locking on Refiner rounds, and locks the structure on
// round 1.
func (o *Orchestrator) generateAndLockPlan(ctx context.Context, round *model.RoundState, goal, goalContext string) error {
	var prompt string
	if round.Phase == model.PhaseArchitect {
		prompt = planner.BuildArchitectPrompt(goal, goalContext)
	} else {
		previous := o.previousPlan()
		prompt = planner.BuildRefinerPrompt(goal, goalContext, previous, round.LockedStructure)
	}

	response, err := o.callModel(ctx, prompt)
	if err != nil {
		return &ModelCallError{Phase: "plan generation", Cause: err}
	}

	plan, err := parser.ParsePlan(response)
	if err != nil {
		return err
	}
	round.Plan = plan

	if round.Phase == model.PhaseRefiner {
		violations := planner.ValidateRefinedPlan(plan, round.LockedStructure)
		if violations.HasViolations() {
			o.log("locking_violation", violations.ToPrompt(), violations)
		}
	}

	if round.Phase == model.PhaseArchitect {
		round.LockedStructure = model.DeriveLockedStructure(plan)
	}

	return nil
}

// evaluate builds the blind-evaluation prompt, calls the model, and parses
// the evaluation. Evaluation parsing never raises; only the model call can
// fail this step.
func (o *Orchestrator) evaluate(ctx context.Context, round *model.RoundState, goal string) error {
	previous := o.previousPlan()
	prompt := judge.BuildEvaluationPrompt(goal, round.Plan, previous, round.LockedStructure)

	response, err := o.callModel(ctx, prompt)
	if err != nil {
		return &ModelCallError{Phase: "evaluation", Cause: err}
	}

	eval := parser.ParseEvaluation(response)
	round.Evaluation = &eval

	if previousRound := o.lastArchivedRound(); previousRound != nil && previousRound.Evaluation != nil {
		concerns := judge.DetectConcerns([]model.BlindEvaluation{*previousRound.Evaluation}, eval)
		for _, c := range concerns {
			o.log("concern", c.Message, c.Severity)
		}
	}

	return nil
}

func (o *Orchestrator) measureStability(round *model.RoundState) {
	previous := o.previousPlan()
	metrics := stability.Compute(round.Plan, previous, *round.Evaluation)
	round.Stability = &metrics
}

func (o *Orchestrator) decide(round *model.RoundState) model.TerminationDecision {
	cfg := decision.Config{
		MaxRounds:           o.config.MaxRounds,
		StabilityThreshold:  o.config.StabilityThreshold,
		GoalDivergenceLimit: o.config.GoalDivergenceLimit,
	}
	d := decision.Decide(round, o.state.RoundHistory, *round.Evaluation, *round.Stability, cfg)

	for _, w := range decision.ValidateTerminationDecision(d, *round.Evaluation) {
		o.log("decision_warning", w.Message, nil)
	}

	return d
}

func (o *Orchestrator) terminate(round *model.RoundState, d model.TerminationDecision) *model.ExecutionResult {
	result := &model.ExecutionResult{
		Success:           d.Reason.IsSuccess(),
		Output:            summarize(round, d.Reason),
		Round:             round.Number,
		Stability:         round.Stability.OverallStability,
		Terminated:        true,
		TerminationReason: d.Reason,
	}

	o.state.IsRunning = false
	o.state.LastResult = result

	o.log("terminate", fmt.Sprintf("terminating at round %d: %s", round.Number, d.Reason), result)
	if o.hooks.OnTerminate != nil {
		o.hooks.OnTerminate(result)
	}

	return result
}

// fail marks the run failed with the maxRoundsReached sentinel reason, per
// spec §4.H, and returns the originating error unchanged so the caller can
// inspect it (e.g. via errors.As for *ModelCallError or *parser.PlanParseError).
// The result's Stability is the last computed overall stability, or 0 when
// no round got that far.
func (o *Orchestrator) fail(err error) (*model.ExecutionResult, error) {
	lastStability := 0.0
	if prev := o.lastArchivedRound(); prev != nil && prev.Stability != nil {
		lastStability = prev.Stability.OverallStability
	}
	result := &model.ExecutionResult{
		Success:           false,
		Output:            err.Error(),
		Stability:         lastStability,
		Terminated:        true,
		TerminationReason: model.ReasonMaxRoundsReached,
	}
	o.state.IsRunning = false
	o.state.LastResult = result

	o.log("error", err.Error(), nil)
	if o.hooks.OnTerminate != nil {
		o.hooks.OnTerminate(result)
	}

	return result, err
}

// summarize renders the human-readable ExecutionResult.Output required by
// spec §3/§6: round reached, termination reason, plan shape, and the
// stability score that drove the decision.
func summarize(round *model.RoundState, reason model.TerminationReason) string {
	return fmt.Sprintf(
		"converged after round %d (%s): %d goal(s), %d task(s), stability %.2f",
		round.Number, reason, len(round.Plan.Goals), len(round.Plan.Tasks), round.Stability.OverallStability,
	)
}

func (o *Orchestrator) previousPlan() *model.Plan {
	round := o.lastArchivedRound()
	if round == nil {
		return nil
	}
	return round.Plan
}

func (o *Orchestrator) lastArchivedRound() *model.RoundState {
	if len(o.state.RoundHistory) == 0 {
		return nil
	}
	return o.state.RoundHistory[len(o.state.RoundHistory)-1]
}
