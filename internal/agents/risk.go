package agents

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kamilpajak/specprof/pkg/models"
)

// RiskAgent looks for evidence that changing the fixture strategy could
// change behavior: commit-dependent callbacks, deep callback chains, or
// incomplete profiling data. Its risk_detected verdict is a hard veto in
// consensus.
type RiskAgent struct {
	thresholds Thresholds
}

// NewRiskAgent creates a risk agent with the given thresholds.
func NewRiskAgent(t Thresholds) *RiskAgent {
	return &RiskAgent{thresholds: t.withDefaults()}
}

// Name returns the agent identifier.
func (a *RiskAgent) Name() string { return RiskAgentName }

// Analyze scans events and metadata for behavioral-change indicators.
func (a *RiskAgent) Analyze(_ context.Context, p *models.ProfileRecord) models.Verdict {
	if name := commitCallbackEvent(p); name != "" {
		return models.Verdict{
			AgentName:  a.Name(),
			Verdict:    models.VerdictRiskDetected,
			Confidence: models.ConfidenceHigh,
			Reasoning:  fmt.Sprintf("commit-dependent callback detected (%s); skipping persistence would skip the callback", name),
			Metadata:   map[string]string{"indicator": name},
		}
	}

	if depth := callbackChainDepth(p); depth >= a.thresholds.CallbackChainDepth {
		return models.Verdict{
			AgentName:  a.Name(),
			Verdict:    models.VerdictRiskDetected,
			Confidence: models.ConfidenceHigh,
			Reasoning:  fmt.Sprintf("callback chain of depth %d recorded; multi-step callbacks may depend on persistence", depth),
			Metadata:   map[string]string{"callback_chain_depth": p.Metadata["callback_chain_depth"]},
		}
	}

	if keys := errorAnnotations(p); len(keys) > 0 {
		return models.Verdict{
			AgentName:  a.Name(),
			Verdict:    models.VerdictRiskDetected,
			Confidence: models.ConfidenceMedium,
			Reasoning:  fmt.Sprintf("profiling subsystems reported errors (%s); the profile may be incomplete", strings.Join(keys, ", ")),
			Metadata:   map[string]string{"error_annotations": strings.Join(keys, ",")},
		}
	}

	return models.Verdict{
		AgentName:  a.Name(),
		Verdict:    models.VerdictSafeToOptimize,
		Confidence: models.ConfidenceHigh,
		Reasoning:  "no commit-dependent callbacks or callback chains recorded",
	}
}

// errorAnnotations returns the sorted metadata keys carrying per-subsystem
// error annotations.
func errorAnnotations(p *models.ProfileRecord) []string {
	var keys []string
	for key := range p.Metadata {
		if strings.HasSuffix(key, "_error") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
