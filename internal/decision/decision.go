// Package decision applies the six prioritized termination rules that
// decide, round by round, whether a convergence run should stop.
package decision

import (
	"fmt"

	"github.com/convergelab/converge/internal/model"
)

// Config carries the Decision Engine's tunables. Zero values are not valid
// defaults — callers must fill this in, as the orchestrator does from its
// own Config (see orchestrator.DefaultConfig).
type Config struct {
	MaxRounds           int
	StabilityThreshold  float64
	GoalDivergenceLimit int
}

const (
	confidenceTaskComplete = 0.95
	confidenceMaxRounds    = 1.0
	confidenceGoalDiverge  = 0.85
	confidenceContraTrend  = 0.75
)

// Decide applies the six termination rules in strict priority order and
// returns the first match. currentRound must already carry the evaluation
// and stability for this round; history holds only archived (prior) rounds.
func Decide(currentRound *model.RoundState, history []*model.RoundState, eval model.BlindEvaluation, stability model.StabilityMetrics, cfg Config) model.TerminationDecision {
	if len(eval.Missing) == 0 && len(eval.Contradictions) == 0 {
		return model.TerminationDecision{ShouldTerminate: true, Reason: model.ReasonTaskComplete, Confidence: confidenceTaskComplete}
	}

	if stability.OverallStability >= cfg.StabilityThreshold {
		return model.TerminationDecision{ShouldTerminate: true, Reason: model.ReasonStabilityAchieved, Confidence: stability.OverallStability}
	}

	if currentRound.Number >= cfg.MaxRounds {
		return model.TerminationDecision{ShouldTerminate: true, Reason: model.ReasonMaxRoundsReached, Confidence: confidenceMaxRounds}
	}

	if goalDivergingTailLength(history, eval) >= cfg.GoalDivergenceLimit {
		return model.TerminationDecision{ShouldTerminate: true, Reason: model.ReasonGoalDiverging, Confidence: confidenceGoalDiverge}
	}

	if contradictionTrendUp(history, eval) {
		return model.TerminationDecision{ShouldTerminate: true, Reason: model.ReasonContradictionTrendUp, Confidence: confidenceContraTrend}
	}

	return model.TerminationDecision{ShouldTerminate: false, Reason: model.ReasonContinue, Confidence: 1 - stability.OverallStability}
}

// goalDivergingTailLength counts the trailing run of vsGoal = farther across
// the archived history plus the current evaluation.
func goalDivergingTailLength(history []*model.RoundState, eval model.BlindEvaluation) int {
	vsGoals := make([]model.VsGoal, 0, len(history)+1)
	for _, r := range history {
		if r.Evaluation != nil {
			vsGoals = append(vsGoals, r.Evaluation.VsGoal)
		}
	}
	vsGoals = append(vsGoals, eval.VsGoal)

	tail := 0
	for i := len(vsGoals) - 1; i >= 0; i-- {
		if vsGoals[i] != model.VsGoalFarther {
			break
		}
		tail++
	}
	return tail
}

// contradictionTrendUp looks at the two most recent archived rounds plus the
// current round: true iff contradiction counts are monotonically
// non-decreasing across the archived rounds and the current count is
// strictly greater than the last archived count.
func contradictionTrendUp(history []*model.RoundState, eval model.BlindEvaluation) bool {
	n := len(history)
	if n < 2 {
		return false
	}

	last := history[n-1]
	secondLast := history[n-2]
	if last.Evaluation == nil || secondLast.Evaluation == nil {
		return false
	}

	prevCount := len(secondLast.Evaluation.Contradictions)
	lastCount := len(last.Evaluation.Contradictions)
	currentCount := len(eval.Contradictions)

	return lastCount >= prevCount && currentCount > lastCount
}

// ValidateTerminationDecision emits post-hoc, non-fatal warnings about a
// termination decision. Warnings never change the decision.
func ValidateTerminationDecision(decision model.TerminationDecision, eval model.BlindEvaluation) []model.DecisionWarning {
	if !decision.ShouldTerminate {
		return nil
	}

	var warnings []model.DecisionWarning

	if len(eval.Missing) > 0 && decision.Reason != model.ReasonMaxRoundsReached {
		warnings = append(warnings, model.DecisionWarning{
			Message: fmt.Sprintf("terminating via %s with %d missing item(s) remaining", decision.Reason, len(eval.Missing)),
		})
	}
	if decision.Confidence < 0.7 {
		warnings = append(warnings, model.DecisionWarning{
			Message: fmt.Sprintf("terminating with low confidence %.2f", decision.Confidence),
		})
	}
	if len(eval.Risks) > 0 {
		warnings = append(warnings, model.DecisionWarning{
			Message: fmt.Sprintf("terminating with %d risk(s) still noted", len(eval.Risks)),
		})
	}

	return warnings
}
