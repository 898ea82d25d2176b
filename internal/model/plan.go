package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlanTask is a single unit of work inside a Plan.
type PlanTask struct {
	ID           string
	Description  string
	Priority     Priority
	Status       TaskStatus
	Dependencies []string
}

// NewPlanTask builds a PlanTask with a freshly assigned ID and
// Status = TaskStatusPending, per the data model (status is present for
// extensibility; the core never advances it).
func NewPlanTask(description string, priority Priority, dependencies []string) PlanTask {
	return PlanTask{
		ID:           uuid.NewString(),
		Description:  description,
		Priority:     priority,
		Status:       TaskStatusPending,
		Dependencies: dependencies,
	}
}

// Plan is produced once per round and never mutated afterward.
type Plan struct {
	ID          string
	Goals       []string
	Tasks       []PlanTask
	Constraints []string
	CreatedAt   time.Time
}

// NewPlan builds a Plan with a freshly assigned ID and CreatedAt.
func NewPlan(goals []string, tasks []PlanTask, constraints []string) *Plan {
	return &Plan{
		ID:          uuid.NewString(),
		Goals:       goals,
		Tasks:       tasks,
		Constraints: constraints,
		CreatedAt:   time.Now(),
	}
}

// HasGoal reports whether goal appears in p.Goals under case-insensitive
// string equality after trimming surrounding whitespace, per the identity
// rule for invariant checks (spec §3).
func (p *Plan) HasGoal(goal string) bool {
	if p == nil {
		return false
	}
	for _, g := range p.Goals {
		if strings.EqualFold(strings.TrimSpace(g), strings.TrimSpace(goal)) {
			return true
		}
	}
	return false
}

// TaskDescriptions returns the descriptions of every task, in order.
func (p *Plan) TaskDescriptions() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.Tasks))
	for i, t := range p.Tasks {
		out[i] = t.Description
	}
	return out
}

// LockedStructure is derived once from the round-1 Plan and is immutable
// for the rest of the run. Every subsequent plan must satisfy the locking
// invariants.
type LockedStructure struct {
	Goals          []string
	CoreDecisions  []string
	LockedAtRound  int
}

// DeriveLockedStructure captures the locked structure from the round-1 plan.
// coreDecisions := plan.Constraints, per spec §3.
func DeriveLockedStructure(round1Plan *Plan) *LockedStructure {
	return &LockedStructure{
		Goals:         append([]string(nil), round1Plan.Goals...),
		CoreDecisions: append([]string(nil), round1Plan.Constraints...),
		LockedAtRound: 1,
	}
}
