// Package consensus reconciles the agents' verdicts into one explainable
// recommendation.
package consensus

import (
	"fmt"
	"strings"

	"github.com/kamilpajak/specprof/pkg/models"
)

// supportVerdicts push toward reducing fixture persistence.
var supportVerdicts = map[string]bool{
	models.VerdictDBUnnecessary:      true,
	models.VerdictPreferBuildStubbed: true,
	models.VerdictUnitTestBehavior:   true,
	models.VerdictSafeToOptimize:     true,
}

// opposeVerdicts push against it. no_action verdicts are abstentions and
// belong to neither set: a degraded or opinion-less agent must not block a
// quorum of the others.
var opposeVerdicts = map[string]bool{
	models.VerdictDBRequired:          true,
	models.VerdictIntegrationBehavior: true,
}

// Engine reduces an ordered verdict list into exactly one recommendation.
// It is stateless and deterministic: the same verdict list always produces
// a byte-identical recommendation.
type Engine struct{}

// New creates a consensus engine.
func New() *Engine { return &Engine{} }

// Decide combines the verdicts for one example. The verdict list must
// already be in canonical agent order; the explanation is assembled in that
// order.
func (e *Engine) Decide(location string, verdicts []models.Verdict) models.Recommendation {
	rec := models.Recommendation{
		SpecLocation: location,
		Action:       models.ActionNoAction,
		Confidence:   models.ConfidenceLow,
		AgentResults: verdicts,
	}

	// Veto: a risk_detected verdict at any confidence ends the analysis.
	for _, v := range verdicts {
		if v.Verdict == models.VerdictRiskDetected {
			rec.Explanation = []string{
				v.Reasoning,
				fmt.Sprintf("agent %s vetoed optimization; no change is recommended", v.AgentName),
			}
			return rec
		}
	}

	var supporters, opposers []models.Verdict
	for _, v := range verdicts {
		switch {
		case supportVerdicts[v.Verdict]:
			supporters = append(supporters, v)
		case opposeVerdicts[v.Verdict]:
			opposers = append(opposers, v)
		}
	}

	// Mixed signals are surfaced, never resolved by majority or averaging.
	if len(supporters) > 0 && len(opposers) > 0 {
		rec.Explanation = []string{
			fmt.Sprintf("conflicting signals: %s support optimization but %s oppose it",
				agentNames(supporters), agentNames(opposers)),
			"mixed signals require manual judgment; no change is recommended",
		}
		return rec
	}

	// Quorum: at least two independent supporters, zero opposition.
	if len(supporters) < 2 {
		rec.Explanation = []string{
			fmt.Sprintf("only %d agent(s) support optimization; at least two independent agents must agree", len(supporters)),
		}
		return rec
	}

	confidence := deriveConfidence(supporters)

	explanation := make([]string, 0, len(supporters)+1)
	for _, v := range supporters {
		explanation = append(explanation, fmt.Sprintf("%s: %s", v.AgentName, v.Reasoning))
	}

	from, to, ok := materializeChange(supporters)
	if !ok {
		explanation = append(explanation,
			fmt.Sprintf("%d agents support reducing fixture persistence, but no concrete strategy change could be named", len(supporters)))
		rec.Confidence = confidence
		rec.Explanation = explanation
		return rec
	}

	explanation = append(explanation,
		fmt.Sprintf("%d of %d agents agree: replace %s with %s", len(supporters), len(verdicts), from, to))

	rec.Action = models.ActionReplaceFactoryStrategy
	rec.FromValue = from
	rec.ToValue = to
	rec.Confidence = confidence
	rec.Explanation = explanation
	return rec
}

// deriveConfidence is high only when every supporter reported high, medium
// when the unanimous direction includes a medium member, low otherwise.
func deriveConfidence(supporters []models.Verdict) models.Confidence {
	confidence := models.ConfidenceHigh
	for _, v := range supporters {
		switch v.Confidence {
		case models.ConfidenceHigh:
		case models.ConfidenceMedium:
			if confidence == models.ConfidenceHigh {
				confidence = models.ConfidenceMedium
			}
		default:
			confidence = models.ConfidenceLow
		}
	}
	return confidence
}

// materializeChange extracts the concrete from/to pair from the factory
// agent's verdict metadata. Without it there is nothing concrete to name and
// the recommendation stays at no_action.
func materializeChange(supporters []models.Verdict) (from, to string, ok bool) {
	for _, v := range supporters {
		if v.Verdict != models.VerdictPreferBuildStubbed {
			continue
		}
		name := v.Metadata["factory"]
		fromStrategy := v.Metadata["from_strategy"]
		toStrategy := v.Metadata["to_strategy"]
		if name == "" || fromStrategy == "" {
			continue
		}
		if toStrategy == "" {
			toStrategy = string(models.StrategyBuildStubbed)
		}
		return fmt.Sprintf("%s(:%s)", fromStrategy, name), fmt.Sprintf("%s(:%s)", toStrategy, name), true
	}
	return "", "", false
}

func agentNames(verdicts []models.Verdict) string {
	names := make([]string, 0, len(verdicts))
	for _, v := range verdicts {
		names = append(names, v.AgentName)
	}
	return strings.Join(names, ", ")
}
