package decision

import (
	"strings"
	"testing"

	"github.com/convergelab/converge/internal/model"
)

func defaultConfig() Config {
	return Config{MaxRounds: 3, StabilityThreshold: 0.85, GoalDivergenceLimit: 2}
}

func round(number int, contradictions []string, vsGoal model.VsGoal) *model.RoundState {
	eval := model.BlindEvaluation{Contradictions: contradictions, VsGoal: vsGoal}
	return &model.RoundState{Number: number, Evaluation: &eval}
}

func TestDecideTaskComplete(t *testing.T) {
	current := &model.RoundState{Number: 1}
	eval := model.BlindEvaluation{}

	decision := Decide(current, nil, eval, model.StabilityMetrics{}, defaultConfig())

	if !decision.ShouldTerminate || decision.Reason != model.ReasonTaskComplete {
		t.Fatalf("expected taskComplete, got %+v", decision)
	}
	if decision.Confidence != 0.95 {
		t.Errorf("Confidence = %v, want 0.95", decision.Confidence)
	}
}

func TestDecideStabilityAchievedTakesPriorityOverMaxRounds(t *testing.T) {
	current := &model.RoundState{Number: 3}
	eval := model.BlindEvaluation{Missing: []string{"x"}}
	stability := model.StabilityMetrics{OverallStability: 0.9}

	decision := Decide(current, nil, eval, stability, defaultConfig())

	if decision.Reason != model.ReasonStabilityAchieved {
		t.Fatalf("expected stabilityAchieved to win over maxRoundsReached, got %+v", decision)
	}
	if decision.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want overallStability 0.9", decision.Confidence)
	}
}

func TestDecideMaxRoundsReached(t *testing.T) {
	current := &model.RoundState{Number: 3}
	eval := model.BlindEvaluation{Missing: []string{"x"}}
	stability := model.StabilityMetrics{OverallStability: 0.5}

	decision := Decide(current, nil, eval, stability, defaultConfig())

	if decision.Reason != model.ReasonMaxRoundsReached || decision.Confidence != 1.0 {
		t.Fatalf("expected maxRoundsReached with confidence 1.0, got %+v", decision)
	}
}

func TestDecideGoalDiverging(t *testing.T) {
	current := &model.RoundState{Number: 2}
	history := []*model.RoundState{round(1, []string{"x"}, model.VsGoalFarther)}
	eval := model.BlindEvaluation{Missing: []string{"x"}, VsGoal: model.VsGoalFarther}
	stability := model.StabilityMetrics{OverallStability: 0.5}

	decision := Decide(current, history, eval, stability, defaultConfig())

	if decision.Reason != model.ReasonGoalDiverging {
		t.Fatalf("expected goalDiverging, got %+v", decision)
	}
	if decision.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", decision.Confidence)
	}
}

func TestDecideGoalDivergingRequiresContiguousTail(t *testing.T) {
	current := &model.RoundState{Number: 3}
	history := []*model.RoundState{
		round(1, []string{"x"}, model.VsGoalFarther),
		round(2, []string{"x"}, model.VsGoalCloser),
	}
	eval := model.BlindEvaluation{Missing: []string{"x"}, VsGoal: model.VsGoalFarther}
	stability := model.StabilityMetrics{OverallStability: 0.5}
	cfg := defaultConfig()
	cfg.MaxRounds = 5 // keep maxRoundsReached from deciding round 3 first

	decision := Decide(current, history, eval, stability, cfg)

	if decision.Reason == model.ReasonGoalDiverging {
		t.Fatalf("tail broken by an intervening non-farther evaluation should not trigger goalDiverging, got %+v", decision)
	}
}

func TestDecideContradictionTrendUp(t *testing.T) {
	current := &model.RoundState{Number: 3}
	history := []*model.RoundState{
		round(1, []string{"a"}, model.VsGoalSame),
		round(2, []string{"a", "b"}, model.VsGoalSame),
	}
	eval := model.BlindEvaluation{Missing: []string{"x"}, Contradictions: []string{"a", "b", "c"}, VsGoal: model.VsGoalSame}
	stability := model.StabilityMetrics{OverallStability: 0.5}
	cfg := defaultConfig()
	cfg.MaxRounds = 5 // keep maxRoundsReached from deciding round 3 first

	decision := Decide(current, history, eval, stability, cfg)

	if decision.Reason != model.ReasonContradictionTrendUp {
		t.Fatalf("expected contradictionTrendUp, got %+v", decision)
	}
	if decision.Confidence != 0.75 {
		t.Errorf("Confidence = %v, want 0.75", decision.Confidence)
	}
}

func TestDecideContinue(t *testing.T) {
	current := &model.RoundState{Number: 1}
	eval := model.BlindEvaluation{Missing: []string{"x"}, VsGoal: model.VsGoalSame}
	stability := model.StabilityMetrics{OverallStability: 0.4}

	decision := Decide(current, nil, eval, stability, defaultConfig())

	if decision.ShouldTerminate || decision.Reason != model.ReasonContinue {
		t.Fatalf("expected continue, got %+v", decision)
	}
	if decision.Confidence != 0.6 {
		t.Errorf("Confidence = %v, want 1 - overallStability = 0.6", decision.Confidence)
	}
}

func TestValidateTerminationDecisionNoWarningsWhenNotTerminating(t *testing.T) {
	warnings := ValidateTerminationDecision(model.TerminationDecision{ShouldTerminate: false}, model.BlindEvaluation{Missing: []string{"x"}})
	if warnings != nil {
		t.Errorf("expected no warnings for a non-terminating decision, got %+v", warnings)
	}
}

func TestValidateTerminationDecisionWarnsOnMissingItems(t *testing.T) {
	decision := model.TerminationDecision{ShouldTerminate: true, Reason: model.ReasonStabilityAchieved, Confidence: 0.9}
	eval := model.BlindEvaluation{Missing: []string{"x"}}

	warnings := ValidateTerminationDecision(decision, eval)
	if len(warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %+v", warnings)
	}
}

func TestValidateTerminationDecisionNoMissingWarningForMaxRoundsReached(t *testing.T) {
	decision := model.TerminationDecision{ShouldTerminate: true, Reason: model.ReasonMaxRoundsReached, Confidence: 1.0}
	eval := model.BlindEvaluation{Missing: []string{"x"}}

	warnings := ValidateTerminationDecision(decision, eval)
	for _, w := range warnings {
		if strings.Contains(w.Message, "missing") {
			t.Errorf("did not expect a missing-items warning for maxRoundsReached, got %+v", warnings)
		}
	}
}

func TestValidateTerminationDecisionWarnsOnLowConfidence(t *testing.T) {
	decision := model.TerminationDecision{ShouldTerminate: true, Reason: model.ReasonContinue, Confidence: 0.5}
	warnings := ValidateTerminationDecision(decision, model.BlindEvaluation{})
	if len(warnings) == 0 {
		t.Fatalf("expected a low-confidence warning")
	}
}

func TestValidateTerminationDecisionWarnsOnRemainingRisks(t *testing.T) {
	decision := model.TerminationDecision{ShouldTerminate: true, Reason: model.ReasonStabilityAchieved, Confidence: 0.9}
	eval := model.BlindEvaluation{Risks: []string{"r1"}}

	warnings := ValidateTerminationDecision(decision, eval)
	if len(warnings) != 1 {
		t.Fatalf("expected exactly one risk warning, got %+v", warnings)
	}
}
