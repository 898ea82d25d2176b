package model

// BlindEvaluation is the Blind Judge's qualitative assessment of a plan. No
// numeric field is permitted anywhere on this type: the model is never
// asked for a score and none is parsed even if present in its output.
type BlindEvaluation struct {
	VsPrevious    VsPrevious
	VsGoal        VsGoal
	Contradictions []string
	Missing        []string
	Risks          []string
}

// ConservativeDefault is the evaluation substituted whenever the Evaluation
// Parser cannot make sense of a model response. It never raises to the
// caller; this is an explicitly normal outcome.
func ConservativeDefault() BlindEvaluation {
	return BlindEvaluation{
		VsPrevious:     VsPreviousSame,
		VsGoal:         VsGoalSame,
		Contradictions: []string{"Evaluation parsing failed"},
		Missing:        nil,
		Risks:          []string{"Unable to properly evaluate plan"},
	}
}
