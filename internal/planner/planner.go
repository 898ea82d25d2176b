// Package planner builds the Architect and Refiner prompts sent to the
// model, and validates a Refiner round's plan against the structure locked
// in round 1.
package planner

import (
	"fmt"
	"strings"

	"github.com/convergelab/converge/internal/model"
)

// BuildArchitectPrompt builds the round-1 prompt. It asks for a JSON object
// with exactly the keys goals, tasks, constraints and tells the model the
// structure it returns will be locked for the rest of the run.
func BuildArchitectPrompt(goal, context string) string {
	var sb strings.Builder

	sb.WriteString("You are the architect for a multi-round planning session.\n\n")
	sb.WriteString(fmt.Sprintf("## Goal\n%s\n\n", goal))
	if context != "" {
		sb.WriteString(fmt.Sprintf("## Context\n%s\n\n", context))
	}

	sb.WriteString("## Task\n")
	sb.WriteString("Produce a plan for this goal as a single JSON object with exactly these keys:\n\n")
	sb.WriteString("```json\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"goals\": [\"...\"],\n")
	sb.WriteString("  \"tasks\": [{\"description\": \"...\", \"priority\": \"high|medium|low\", \"dependencies\": [\"...\"]}],\n")
	sb.WriteString("  \"constraints\": [\"...\"]\n")
	sb.WriteString("}\n")
	sb.WriteString("```\n\n")

	sb.WriteString("Important: the goals and constraints you return here will be LOCKED. ")
	sb.WriteString("Every later round must keep these goals and respect these constraints. ")
	sb.WriteString("Prioritize correctness over completeness — a smaller plan that is right ")
	sb.WriteString("beats a larger plan with structural mistakes baked into it.\n")

	return sb.String()
}

// BuildRefinerPrompt builds a round-2+ prompt. It must not be called
// without both a previous plan and a locked structure: that is a
// programming error, not a recoverable condition, since a Refiner round
// cannot exist before round 1 has locked anything.
func BuildRefinerPrompt(goal, context string, previous *model.Plan, locked *model.LockedStructure) string {
	if previous == nil || locked == nil {
		panic("planner: BuildRefinerPrompt requires both a previous plan and a locked structure")
	}

	var sb strings.Builder

	sb.WriteString("You are refining a plan across multiple rounds.\n\n")
	sb.WriteString(fmt.Sprintf("## Goal\n%s\n\n", goal))
	if context != "" {
		sb.WriteString(fmt.Sprintf("## Context\n%s\n\n", context))
	}

	sb.WriteString("## LOCKED STRUCTURE (DO NOT CHANGE)\n")
	sb.WriteString("These goals and core decisions were fixed in round 1 and cannot be removed:\n\n")
	sb.WriteString("Goals:\n")
	for _, g := range locked.Goals {
		sb.WriteString(fmt.Sprintf("- %s\n", g))
	}
	sb.WriteString("\nCore decisions:\n")
	for _, d := range locked.CoreDecisions {
		sb.WriteString(fmt.Sprintf("- %s\n", d))
	}
	sb.WriteString("\n")

	sb.WriteString("## Previous Plan\n")
	sb.WriteString(formatPlanForPrompt(previous))
	sb.WriteString("\n")

	sb.WriteString("## Task\n")
	sb.WriteString("Return a refined plan as the same JSON object shape (goals, tasks, constraints). ")
	sb.WriteString("You may add tasks, change task wording or priority, and add clarifying constraints. ")
	sb.WriteString("You must NOT remove any locked goal or locked core decision listed above.\n")

	return sb.String()
}

func formatPlanForPrompt(plan *model.Plan) string {
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

// minKeywordTokenLength is the length a whitespace-split token of a core
// decision must exceed to count toward the keyword-coverage heuristic
// (spec §4.D).
const minKeywordTokenLength = 4

// ValidateRefinedPlan checks plan against locked and returns the list of
// violations. Validation never aborts the round — the Orchestrator logs
// whatever is returned here and keeps going.
func ValidateRefinedPlan(plan *model.Plan, locked *model.LockedStructure) model.LockingViolations {
	var violations model.LockingViolations

	for _, goal := range locked.Goals {
		if !plan.HasGoal(goal) {
			violations.Add(fmt.Sprintf("Locked goal removed: %q", goal))
		}
	}

	serialized := strings.ToLower(formatPlanForPrompt(plan))
	for _, decision := range locked.CoreDecisions {
		tokens := keywordTokens(decision)
		if len(tokens) == 0 {
			continue
		}
		present := 0
		for _, tok := range tokens {
			if strings.Contains(serialized, tok) {
				present++
			}
		}
		if present*2 < len(tokens) {
			violations.Add(fmt.Sprintf("Core decision may be violated: %q", decision))
		}
	}

	return violations
}

// keywordTokens splits a core decision on whitespace and keeps tokens
// longer than minKeywordTokenLength, lowercased for comparison.
func keywordTokens(decision string) []string {
	fields := strings.Fields(decision)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > minKeywordTokenLength {
			tokens = append(tokens, strings.ToLower(f))
		}
	}
	return tokens
}
