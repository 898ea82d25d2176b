package model

// StabilityMetrics is the Stability Tracker's output: four normalized
// signals in [0,1] and the overallStability scalar they combine into.
type StabilityMetrics struct {
	ContradictionRatio  float64
	DecisionReuseRate   float64
	PlanSimilarity      float64
	GoalConvergence     float64
	OverallStability    float64
}

// Status bands for the overall stability scalar (spec §4.F).
type StabilityStatus string

const (
	StabilityStable     StabilityStatus = "stable"
	StabilityConverging StabilityStatus = "converging"
	StabilityUnstable   StabilityStatus = "unstable"
)

// Status classifies m.OverallStability against the given auto-terminate
// threshold (default 0.85). Converging band is fixed at >= 0.70.
func (m StabilityMetrics) Status(autoTerminateThreshold float64) StabilityStatus {
	switch {
	case m.OverallStability >= autoTerminateThreshold:
		return StabilityStable
	case m.OverallStability >= 0.70:
		return StabilityConverging
	default:
		return StabilityUnstable
	}
}
