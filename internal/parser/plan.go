package parser

import (
	"encoding/json"
	"fmt"

	"github.com/convergelab/converge/internal/model"
)

// PlanParseError wraps a failure to extract a Plan from model text. It is
// unrecoverable: the Orchestrator propagates it and ends the run (spec §7).
type PlanParseError struct {
	cause error
}

func (e *PlanParseError) Error() string {
	return fmt.Sprintf("plan parse error: %v", e.cause)
}

func (e *PlanParseError) Unwrap() error {
	return e.cause
}

// rawTask mirrors the loosely-typed shape a model emits for one task.
type rawTask struct {
	Description  interface{} `json:"description"`
	Priority     interface{} `json:"priority"`
	Dependencies interface{} `json:"dependencies"`
}

// rawPlan mirrors the loosely-typed JSON object the Architect/Refiner
// prompts ask the model to return.
type rawPlan struct {
	Goals       []interface{} `json:"goals"`
	Tasks       []rawTask     `json:"tasks"`
	Constraints []interface{} `json:"constraints"`
}

// ParsePlan locates the first balanced brace block in text and interprets
// it as a Plan, per spec §4.A. Goals and constraints are filtered to string
// entries only; each task gets a defaulted description, a validated
// priority, and a dependency list with non-string entries dropped.
func ParsePlan(text string) (*model.Plan, error) {
	block, err := findBalancedBraceBlock(text)
	if err != nil {
		return nil, &PlanParseError{cause: err}
	}

	var raw rawPlan
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		return nil, &PlanParseError{cause: err}
	}

	goals := stringsOnly(raw.Goals)
	constraints := stringsOnly(raw.Constraints)

	tasks := make([]model.PlanTask, 0, len(raw.Tasks))
	for _, rt := range raw.Tasks {
		tasks = append(tasks, parseTask(rt))
	}

	return model.NewPlan(goals, tasks, constraints), nil
}

func parseTask(rt rawTask) model.PlanTask {
	description, ok := rt.Description.(string)
	if !ok || description == "" {
		description = "Unknown task"
	}

	priority := model.Priority(fmt.Sprint(rt.Priority))
	if !priority.IsValid() {
		priority = model.PriorityMedium
	}

	var deps []string
	if list, ok := rt.Dependencies.([]interface{}); ok {
		deps = stringsOnly(list)
	}

	return model.NewPlanTask(description, priority, deps)
}

// stringsOnly filters a loosely-typed JSON array down to its string
// entries, preserving order.
func stringsOnly(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
