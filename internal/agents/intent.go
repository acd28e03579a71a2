package agents

import (
	"context"
	"fmt"

	"github.com/kamilpajak/specprof/pkg/models"
)

// IntentAgent classifies what the example is really testing: isolated unit
// behavior, which tolerates aggressive fixture optimization, or integration
// behavior across boundaries, which does not.
type IntentAgent struct{}

// NewIntentAgent creates an intent agent.
func NewIntentAgent(Thresholds) *IntentAgent { return &IntentAgent{} }

// Name returns the agent identifier.
func (a *IntentAgent) Name() string { return IntentAgentName }

// Analyze classifies via spec type plus the presence of request/controller
// style events. Cross-boundary events always win over the spec type.
func (a *IntentAgent) Analyze(_ context.Context, p *models.ProfileRecord) models.Verdict {
	crossBoundary := hasCrossBoundaryEvents(p)

	if crossBoundary {
		return a.verdict(models.VerdictIntegrationBehavior, models.ConfidenceHigh,
			fmt.Sprintf("%s spec triggers request/controller events, so it exercises multiple layers", p.SpecType))
	}

	switch p.SpecType {
	case models.SpecTypeRequest, models.SpecTypeFeature, models.SpecTypeSystem, models.SpecTypeIntegration:
		return a.verdict(models.VerdictIntegrationBehavior, models.ConfidenceHigh,
			fmt.Sprintf("%s specs exercise the full stack by design", p.SpecType))
	case models.SpecTypeModel, models.SpecTypeLib:
		return a.verdict(models.VerdictUnitTestBehavior, models.ConfidenceHigh,
			fmt.Sprintf("%s spec with no cross-boundary events tests isolated behavior", p.SpecType))
	case models.SpecTypeHelper, models.SpecTypeView:
		return a.verdict(models.VerdictUnitTestBehavior, models.ConfidenceMedium,
			fmt.Sprintf("%s specs usually test isolated behavior", p.SpecType))
	case models.SpecTypeController:
		return a.verdict(models.VerdictIntegrationBehavior, models.ConfidenceMedium,
			"controller specs cross the dispatch boundary even without recorded request events")
	}

	return models.Verdict{
		AgentName:  a.Name(),
		Verdict:    models.VerdictNoAction,
		Confidence: models.ConfidenceLow,
		Reasoning:  "spec type is unknown and no boundary signals were recorded",
	}
}

func (a *IntentAgent) verdict(code string, confidence models.Confidence, reasoning string) models.Verdict {
	return models.Verdict{
		AgentName:  a.Name(),
		Verdict:    code,
		Confidence: confidence,
		Reasoning:  reasoning,
	}
}
