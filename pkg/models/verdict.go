package models

// Confidence represents how certain an agent or recommendation is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank returns an ordinal for comparing confidence levels. Unknown values
// rank below low.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	}
	return 0
}

// Verdict codes emitted by the agents.
const (
	VerdictDBUnnecessary       = "db_unnecessary"
	VerdictDBRequired          = "db_required"
	VerdictPreferBuildStubbed  = "prefer_build_stubbed"
	VerdictUnitTestBehavior    = "unit_test_behavior"
	VerdictIntegrationBehavior = "integration_test_behavior"
	VerdictRiskDetected        = "risk_detected"
	VerdictSafeToOptimize      = "safe_to_optimize"
	VerdictNoAction            = "no_action"
)

// Verdict is the classified outcome of one agent for one profile record.
// Immutable once created.
type Verdict struct {
	AgentName  string            `json:"agent_name"`
	Verdict    string            `json:"verdict"`
	Confidence Confidence        `json:"confidence"`
	Reasoning  string            `json:"reasoning,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Actionable reports whether the verdict expresses an opinion rather than
// abstaining.
func (v Verdict) Actionable() bool {
	return v.Verdict != VerdictNoAction && v.Verdict != ""
}

// WellFormed reports whether the verdict carries the fields every consumer
// relies on: an agent name, a verdict code, and a recognized confidence.
func (v Verdict) WellFormed() bool {
	if v.AgentName == "" || v.Verdict == "" {
		return false
	}
	if v.Confidence.Rank() == 0 {
		return false
	}
	if v.Actionable() && v.Reasoning == "" {
		return false
	}
	return true
}
