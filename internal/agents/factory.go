package agents

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kamilpajak/specprof/pkg/models"
)

// FactoryAgent proposes cheaper fixture-construction strategies for
// factories that persist records the example never relies on.
type FactoryAgent struct {
	thresholds Thresholds
}

// NewFactoryAgent creates a factory agent with the given thresholds.
func NewFactoryAgent(t Thresholds) *FactoryAgent {
	return &FactoryAgent{thresholds: t.withDefaults()}
}

// Name returns the agent identifier.
func (a *FactoryAgent) Name() string { return FactoryAgentName }

// Analyze proposes prefer_build_stubbed for create-strategy factories unless
// the database evidence (reload-style re-selects) shows persistence is
// required. Confidence is high when every insert is explained by factory
// creates and nothing reads the rows back; medium when the attribution is
// partial. The dominant factory supplies the from/to material surfaced in
// verdict metadata.
func (a *FactoryAgent) Analyze(_ context.Context, p *models.ProfileRecord) models.Verdict {
	var candidates []string
	for name, f := range p.Factories {
		if f.Strategy == models.StrategyCreate && f.Count >= a.thresholds.MinCreateCount {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return models.Verdict{
			AgentName:  a.Name(),
			Verdict:    models.VerdictNoAction,
			Confidence: models.ConfidenceLow,
			Reasoning:  "no create-strategy factory usage to optimize",
		}
	}
	sort.Strings(candidates)

	if hasReloadEvent(p) {
		return models.Verdict{
			AgentName:  a.Name(),
			Verdict:    models.VerdictNoAction,
			Confidence: models.ConfidenceLow,
			Reasoning:  "create-strategy factories are present but the example reads the persisted records back",
		}
	}

	dominant, stats, _ := p.DominantFactory(models.StrategyCreate)

	confidence := models.ConfidenceMedium
	if insertsExplainedByFactories(p) {
		confidence = models.ConfidenceHigh
	}

	reasons := make([]string, 0, len(candidates))
	for _, name := range candidates {
		f := p.Factories[name]
		reasons = append(reasons, fmt.Sprintf("factory %q persisted %d records via create", name, f.Count))
	}
	reasoning := strings.Join(reasons, "; ") + "; build_stubbed would construct them in memory"

	return models.Verdict{
		AgentName:  a.Name(),
		Verdict:    models.VerdictPreferBuildStubbed,
		Confidence: confidence,
		Reasoning:  reasoning,
		Metadata: map[string]string{
			"factory":       dominant,
			"from_strategy": string(stats.Strategy),
			"to_strategy":   string(models.StrategyBuildStubbed),
		},
	}
}
