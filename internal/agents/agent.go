// Package agents implements the independent analyzers that score one
// concern each against a profile record.
package agents

import (
	"context"
	"strconv"
	"strings"

	"github.com/kamilpajak/specprof/pkg/models"
)

// Canonical agent names, in the order their verdicts are fed to consensus.
const (
	DatabaseAgentName = "database"
	FactoryAgentName  = "factory"
	IntentAgentName   = "intent"
	RiskAgentName     = "risk"
)

// RuleBasedAgents lists the built-in agent names in canonical order.
var RuleBasedAgents = []string{DatabaseAgentName, FactoryAgentName, IntentAgentName, RiskAgentName}

// Agent analyzes one profile record for one concern. Implementations must be
// pure functions of their input: no shared mutable state across calls, so
// any subset can run in any order or in parallel. An agent never returns an
// error; internal failures degrade to a low-confidence no_action verdict.
type Agent interface {
	Name() string
	Analyze(ctx context.Context, profile *models.ProfileRecord) models.Verdict
}

// Thresholds holds the tunable decision-table values shared by the
// rule-based agents. Zero values are replaced by the defaults.
type Thresholds struct {
	// MinCreateCount is the smallest create-strategy usage count the
	// factory agent considers worth optimizing.
	MinCreateCount int
	// CallbackChainDepth is the metadata-reported callback chain depth at
	// which the risk agent flags multi-step callback chains.
	CallbackChainDepth int
}

// DefaultThresholds returns the policy defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinCreateCount:     1,
		CallbackChainDepth: 2,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.MinCreateCount <= 0 {
		t.MinCreateCount = d.MinCreateCount
	}
	if t.CallbackChainDepth <= 0 {
		t.CallbackChainDepth = d.CallbackChainDepth
	}
	return t
}

// hasReloadEvent reports whether any instrumented event indicates a
// commit-dependent read: the example re-selects a record it just persisted.
func hasReloadEvent(p *models.ProfileRecord) bool {
	for name, ev := range p.Events {
		if strings.Contains(name, "reload") {
			return true
		}
		for _, ex := range ev.Examples {
			if strings.Contains(ex.Location, "reload") || strings.Contains(ex.Backtrace, "reload") {
				return true
			}
		}
	}
	return false
}

// crossBoundarySignatures are event-name fragments that indicate the example
// crossed a request/controller/view boundary.
var crossBoundarySignatures = []string{
	"process_action.action_controller",
	"start_processing.action_controller",
	"render_template.action_view",
	"render_partial.action_view",
	"request.",
	"http.",
}

// hasCrossBoundaryEvents reports whether the example exercised a
// request/controller-style code path.
func hasCrossBoundaryEvents(p *models.ProfileRecord) bool {
	for name := range p.Events {
		for _, sig := range crossBoundarySignatures {
			if strings.Contains(name, sig) {
				return true
			}
		}
	}
	return false
}

// commitCallbackSignatures are event-name fragments that indicate
// commit-dependent callbacks fired during the example.
var commitCallbackSignatures = []string{
	"after_commit",
	"after_create_commit",
	"after_update_commit",
	"transaction.commit",
}

// commitCallbackEvent returns the name of the first event that indicates a
// commit-dependent callback, or "" when none is present.
func commitCallbackEvent(p *models.ProfileRecord) string {
	for name := range p.Events {
		for _, sig := range commitCallbackSignatures {
			if strings.Contains(name, sig) {
				return name
			}
		}
	}
	for key, value := range p.Metadata {
		if key != "callbacks" {
			continue
		}
		for _, sig := range commitCallbackSignatures {
			if strings.Contains(value, sig) {
				return "metadata:" + key
			}
		}
	}
	return ""
}

// callbackChainDepth reads the normalizer's reported callback chain depth
// from metadata. Zero when absent or unparseable.
func callbackChainDepth(p *models.ProfileRecord) int {
	raw, ok := p.Metadata["callback_chain_depth"]
	if !ok {
		return 0
	}
	depth, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || depth < 0 {
		return 0
	}
	return depth
}

// insertsExplainedByFactories reports whether every recorded insert is
// attributable to factory create calls, i.e. persistence happened only as a
// side effect of fixture construction.
func insertsExplainedByFactories(p *models.ProfileRecord) bool {
	return p.DB.Inserts <= p.CreateCount()
}
