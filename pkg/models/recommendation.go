package models

// Action is the kind of change a recommendation proposes.
type Action string

const (
	ActionNoAction               Action = "no_action"
	ActionReplaceFactoryStrategy Action = "replace_factory_strategy"
)

var knownActions = map[Action]bool{
	ActionNoAction:               true,
	ActionReplaceFactoryStrategy: true,
}

// Recommendation is the single optimization suggestion (or explicit
// no-action) produced for one test example. AgentResults carries the full
// ordered audit trail of verdicts that led to it.
type Recommendation struct {
	SpecLocation string     `json:"spec_location"`
	Action       Action     `json:"action"`
	FromValue    string     `json:"from_value,omitempty"`
	ToValue      string     `json:"to_value,omitempty"`
	Confidence   Confidence `json:"confidence"`
	Explanation  []string   `json:"explanation"`
	AgentResults []Verdict  `json:"agent_results"`
}

// Actionable reports whether the recommendation proposes a concrete change.
func (r *Recommendation) Actionable() bool {
	return r.Action != ActionNoAction
}

// Valid reports whether the action is recognized and every verdict in the
// audit trail is well-formed.
func (r *Recommendation) Valid() bool {
	if !knownActions[r.Action] {
		return false
	}
	for _, v := range r.AgentResults {
		if !v.WellFormed() {
			return false
		}
	}
	return true
}
