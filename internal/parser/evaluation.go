package parser

import (
	"encoding/json"

	"github.com/convergelab/converge/internal/model"
)

// rawEvaluation mirrors the loosely-typed JSON object the blind-judge
// prompt asks the model to return, using the wire keys from spec §6.
type rawEvaluation struct {
	VsPrevious     interface{}   `json:"vs_previous"`
	VsGoal         interface{}   `json:"vs_goal"`
	Contradictions []interface{} `json:"contradictions"`
	Missing        []interface{} `json:"missing"`
	Risks          []interface{} `json:"risks"`
}

// ParseEvaluation locates the first balanced brace block in text and reads
// it as a BlindEvaluation, per spec §4.B. It never raises to the caller:
// any failure to locate or decode the block yields the conservative
// default evaluation instead of an error.
func ParseEvaluation(text string) model.BlindEvaluation {
	block, err := findBalancedBraceBlock(text)
	if err != nil {
		return model.ConservativeDefault()
	}

	var raw rawEvaluation
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		return model.ConservativeDefault()
	}

	vsPrevious := model.VsPrevious(stringOrEmpty(raw.VsPrevious))
	if !vsPrevious.IsValid() {
		vsPrevious = model.VsPreviousSame
	}

	vsGoal := model.VsGoal(stringOrEmpty(raw.VsGoal))
	if !vsGoal.IsValid() {
		vsGoal = model.VsGoalSame
	}

	return model.BlindEvaluation{
		VsPrevious:     vsPrevious,
		VsGoal:         vsGoal,
		Contradictions: capList(stringsOnly(raw.Contradictions)),
		Missing:        capList(stringsOnly(raw.Missing)),
		Risks:          capList(stringsOnly(raw.Risks)),
	}
}

func stringOrEmpty(v interface{}) string {
	s, _ := v.(string)
	return s
}

// capList truncates a string slice to the BlindEvaluation cap of 10
// entries, per spec §3.
func capList(items []string) []string {
	const max = 10
	if len(items) > max {
		return items[:max]
	}
	return items
}
