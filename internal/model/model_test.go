package model

import "testing"

func TestPlanHasGoal(t *testing.T) {
	tests := []struct {
		name  string
		goals []string
		check string
		want  bool
	}{
		{"exact match", []string{"Ship X"}, "Ship X", true},
		{"case insensitive", []string{"Ship X"}, "ship x", true},
		{"surrounding whitespace", []string{"  Ship X  "}, "Ship X", true},
		{"not present", []string{"Ship X"}, "Ship Y", false},
		{"empty goals", nil, "Ship X", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Plan{Goals: tt.goals}
			if got := p.HasGoal(tt.check); got != tt.want {
				t.Errorf("HasGoal(%q) = %v, want %v", tt.check, got, tt.want)
			}
		})
	}
}

func TestDeriveLockedStructure(t *testing.T) {
	plan := &Plan{
		Goals:       []string{"Ship X", "Keep tests green"},
		Constraints: []string{"budget under $500", "no new dependencies"},
	}

	locked := DeriveLockedStructure(plan)

	if locked.LockedAtRound != 1 {
		t.Errorf("LockedAtRound = %d, want 1", locked.LockedAtRound)
	}
	if len(locked.Goals) != len(plan.Goals) {
		t.Fatalf("Goals length = %d, want %d", len(locked.Goals), len(plan.Goals))
	}
	if len(locked.CoreDecisions) != len(plan.Constraints) {
		t.Fatalf("CoreDecisions length = %d, want %d", len(locked.CoreDecisions), len(plan.Constraints))
	}

	// Mutating the source plan afterward must not affect the locked copy.
	plan.Goals[0] = "mutated"
	if locked.Goals[0] != "Ship X" {
		t.Errorf("locked structure shared backing array with source plan: got %q", locked.Goals[0])
	}
}

func TestTerminationReasonIsSuccess(t *testing.T) {
	tests := []struct {
		reason TerminationReason
		want   bool
	}{
		{ReasonStabilityAchieved, true},
		{ReasonTaskComplete, true},
		{ReasonMaxRoundsReached, false},
		{ReasonGoalDiverging, false},
		{ReasonContradictionTrendUp, false},
		{ReasonContinue, false},
	}

	for _, tt := range tests {
		if got := tt.reason.IsSuccess(); got != tt.want {
			t.Errorf("%s.IsSuccess() = %v, want %v", tt.reason, got, tt.want)
		}
	}
}

func TestStabilityMetricsStatus(t *testing.T) {
	tests := []struct {
		name      string
		overall   float64
		threshold float64
		want      StabilityStatus
	}{
		{"stable at threshold", 0.85, 0.85, StabilityStable},
		{"stable above threshold", 0.90, 0.85, StabilityStable},
		{"converging", 0.75, 0.85, StabilityConverging},
		{"unstable", 0.50, 0.85, StabilityUnstable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := StabilityMetrics{OverallStability: tt.overall}
			if got := m.Status(tt.threshold); got != tt.want {
				t.Errorf("Status(%v) = %v, want %v", tt.threshold, got, tt.want)
			}
		})
	}
}

func TestLockingViolationsToPrompt(t *testing.T) {
	var v LockingViolations
	if v.ToPrompt() != "" {
		t.Errorf("expected empty prompt for no violations")
	}

	v.Add(`Locked goal removed: "Ship X"`)
	prompt := v.ToPrompt()
	if prompt == "" {
		t.Errorf("expected non-empty prompt once violations are present")
	}
}
