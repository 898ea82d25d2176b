// Package stability computes the four normalized convergence signals and
// combines them into the overall stability scalar the Decision Engine reads.
package stability

import (
	"math"
	"strings"

	"github.com/convergelab/converge/internal/model"
	"github.com/convergelab/converge/internal/similarity"
)

const (
	weightContradictionRatio = 0.30
	weightDecisionReuseRate  = 0.25
	weightPlanSimilarity     = 0.25
	weightGoalConvergence    = 0.20

	// neutralRate is returned for decisionReuseRate and planSimilarity when
	// there is no previous plan to compare against (first round).
	neutralRate = 0.5

	// maxContradictionsForRatio caps the contradiction ratio's denominator.
	maxContradictionsForRatio = 5.0
)

// Compute measures stability for the current plan against the previous
// archived plan (nil on round 1) and the current round's evaluation.
func Compute(current, previous *model.Plan, eval model.BlindEvaluation) model.StabilityMetrics {
	contradictionRatio := contradictionRatio(eval)
	decisionReuseRate := decisionReuseRate(current, previous)
	planSimilarity := planSimilarity(current, previous)
	goalConvergence := goalConvergence(eval)

	overall := weightContradictionRatio*(1-contradictionRatio) +
		weightDecisionReuseRate*decisionReuseRate +
		weightPlanSimilarity*planSimilarity +
		weightGoalConvergence*goalConvergence

	return model.StabilityMetrics{
		ContradictionRatio: contradictionRatio,
		DecisionReuseRate:  decisionReuseRate,
		PlanSimilarity:     planSimilarity,
		GoalConvergence:    goalConvergence,
		OverallStability:   round2(overall),
	}
}

func contradictionRatio(eval model.BlindEvaluation) float64 {
	return math.Min(float64(len(eval.Contradictions))/maxContradictionsForRatio, 1.0)
}

// decisionReuseRate flattens each plan's goals, constraints, and lowercase
// task descriptions into one list, then measures how much of curr's list
// reappears (by bigram similarity) somewhere in prev's list.
func decisionReuseRate(current, previous *model.Plan) float64 {
	if current == nil || previous == nil {
		return neutralRate
	}

	prev := flattenPlan(previous)
	curr := flattenPlan(current)
	if len(curr) == 0 {
		return neutralRate
	}

	reused := 0
	for _, item := range curr {
		for _, p := range prev {
			if similarity.Bigram(item, p) > similarity.FuzzyEqualThreshold {
				reused++
				break
			}
		}
	}
	return float64(reused) / float64(len(curr))
}

func flattenPlan(plan *model.Plan) []string {
	out := make([]string, 0, len(plan.Goals)+len(plan.Constraints)+len(plan.Tasks))
	out = append(out, plan.Goals...)
	out = append(out, plan.Constraints...)
	for _, t := range plan.Tasks {
		out = append(out, strings.ToLower(t.Description))
	}
	return out
}

// planSimilarity is the mean of three subsignals: Jaccard of goal sets,
// Jaccard of constraint sets, and a size-closeness measure over task counts.
func planSimilarity(current, previous *model.Plan) float64 {
	if current == nil || previous == nil {
		return neutralRate
	}

	goalSim := similarity.Jaccard(current.Goals, previous.Goals)
	constraintSim := similarity.Jaccard(current.Constraints, previous.Constraints)

	a, b := len(current.Tasks), len(previous.Tasks)
	denom := math.Max(float64(a), math.Max(float64(b), 1))
	taskSim := 1 - math.Abs(float64(a-b))/denom

	return (goalSim + constraintSim + taskSim) / 3
}

// goalConvergence weights the latest evaluation's directional judgments:
// vsGoal counts more heavily than vsPrevious.
func goalConvergence(eval model.BlindEvaluation) float64 {
	return 0.7*vsGoalScore(eval.VsGoal) + 0.3*vsPreviousScore(eval.VsPrevious)
}

func vsGoalScore(v model.VsGoal) float64 {
	switch v {
	case model.VsGoalCloser:
		return 1.0
	case model.VsGoalFarther:
		return 0.0
	default:
		return 0.5
	}
}

func vsPreviousScore(v model.VsPrevious) float64 {
	switch v {
	case model.VsPreviousBetter:
		return 1.0
	case model.VsPreviousWorse:
		return 0.0
	default:
		return 0.5
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
