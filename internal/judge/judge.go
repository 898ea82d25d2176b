// Package judge builds the blind-evaluation prompt and scans evaluation
// history for concerning patterns. The judge never sees or assigns a
// numeric score — it is "blind" to the model's own sense of how well it
// did, which is the whole point: a model cannot game a score it is never
// asked to produce.
package judge

import (
	"fmt"
	"strings"

	"github.com/convergelab/converge/internal/model"
)

// BuildEvaluationPrompt builds the prompt sent to the model for blind
// evaluation. The prompt is an explicit contract: qualitative assessment
// only, no numeric scores, and the exact wire keys from spec §6.
func BuildEvaluationPrompt(goal string, current, previous *model.Plan, locked *model.LockedStructure) string {
	var sb strings.Builder

	sb.WriteString("You are a blind judge evaluating a plan. ")
	sb.WriteString("Provide qualitative assessments only; do not provide numeric scores of any kind.\n\n")

	sb.WriteString(fmt.Sprintf("## Goal\n%s\n\n", goal))

	if locked != nil {
		sb.WriteString("## Locked Structure\n")
		for _, g := range locked.Goals {
			sb.WriteString(fmt.Sprintf("- %s\n", g))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Current Plan\n")
	sb.WriteString(renderPlan(current))
	sb.WriteString("\n")

	if previous != nil {
		sb.WriteString("## Previous Plan\n")
		sb.WriteString(renderPlan(previous))
		sb.WriteString("\n")
	}

	sb.WriteString("## Task\n")
	sb.WriteString("Return a single JSON object with exactly these keys:\n\n")
	sb.WriteString("```json\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"vs_previous\": \"better|same|worse\",\n")
	sb.WriteString("  \"vs_goal\": \"closer|same|farther\",\n")
	sb.WriteString("  \"contradictions\": [\"...\"],\n")
	sb.WriteString("  \"missing\": [\"...\"],\n")
	sb.WriteString("  \"risks\": [\"...\"]\n")
	sb.WriteString("}\n")
	sb.WriteString("```\n\n")
	sb.WriteString("Do not include a score, rating, or percentage anywhere in your response.\n")

	return sb.String()
}

func renderPlan(plan *model.Plan) string {
	var sb strings.Builder
	sb.WriteString("Goals:\n")
	for _, g := range plan.Goals {
		sb.WriteString(fmt.Sprintf("- %s\n", g))
	}
	sb.WriteString("Tasks:\n")
	for _, t := range plan.Tasks {
		sb.WriteString(fmt.Sprintf("- [%s] %s\n", t.Priority, t.Description))
	}
	sb.WriteString("Constraints:\n")
	for _, c := range plan.Constraints {
		sb.WriteString(fmt.Sprintf("- %s\n", c))
	}
	return sb.String()
}

// Severity is the level of a Concern.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Concern is one structured, advisory observation about an evaluation
// history. Concerns never drive termination directly — the Decision Engine
// computes its own conditions from raw state (spec §4.E).
type Concern struct {
	Message  string
	Severity Severity
}

// DetectConcerns scans the latest evaluation against the window of prior
// evaluations in the round history and emits structured concerns, per the
// table in spec §4.E.
func DetectConcerns(history []model.BlindEvaluation, latest model.BlindEvaluation) []Concern {
	var concerns []Concern

	if latest.VsPrevious == model.VsPreviousWorse {
		concerns = append(concerns, Concern{Message: "plan degrading", Severity: SeverityMedium})
	}
	if latest.VsGoal == model.VsGoalFarther {
		concerns = append(concerns, Concern{Message: "plan diverging", Severity: SeverityHigh})
	}
	if len(history) > 0 && len(latest.Contradictions) > len(history[len(history)-1].Contradictions) {
		concerns = append(concerns, Concern{Message: "contradictions increasing", Severity: SeverityMedium})
	}
	if len(latest.Contradictions) >= 5 {
		concerns = append(concerns, Concern{Message: "too many contradictions", Severity: SeverityHigh})
	}
	if len(latest.Missing) >= 10 {
		concerns = append(concerns, Concern{Message: "many elements missing", Severity: SeverityMedium})
	}
	if len(latest.Risks) >= 5 {
		concerns = append(concerns, Concern{Message: "multiple risks", Severity: SeverityMedium})
	}

	return concerns
}
