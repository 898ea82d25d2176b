package model

import "fmt"

// LockingViolation is a single way a refined plan deviated from the locked
// structure (spec §4.D). Violations never abort a round — the Orchestrator
// logs them and execution continues.
type LockingViolation struct {
	Message string
}

// LockingViolations is a collection of LockingViolation, mirroring the
// teacher's ValidationErrors collection-over-single-error shape.
type LockingViolations struct {
	Violations []LockingViolation
}

// Add appends a violation with the given message.
func (v *LockingViolations) Add(message string) {
	v.Violations = append(v.Violations, LockingViolation{Message: message})
}

// HasViolations reports whether any violation was recorded.
func (v *LockingViolations) HasViolations() bool {
	return v != nil && len(v.Violations) > 0
}

// ToPrompt formats the violations for inclusion in a follow-up prompt or a
// log line, mirroring the teacher's ValidationErrors.ToPrompt convention.
func (v *LockingViolations) ToPrompt() string {
	if !v.HasViolations() {
		return ""
	}
	msg := fmt.Sprintf("Locking validation found %d issue(s):\n", len(v.Violations))
	for i, viol := range v.Violations {
		msg += fmt.Sprintf("%d. %s\n", i+1, viol.Message)
	}
	return msg
}
