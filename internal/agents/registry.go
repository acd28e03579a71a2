package agents

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kamilpajak/specprof/pkg/models"
)

// Registry holds the enabled agents in canonical order and runs them over
// one profile record, isolating per-agent failures.
type Registry struct {
	agents     []Agent
	concurrent bool
}

// NewRegistry creates a registry over the given agents. Callers build the
// slice in the desired order; ForNames produces the canonical one.
func NewRegistry(agents []Agent, concurrent bool) *Registry {
	return &Registry{agents: agents, concurrent: concurrent}
}

// Agents returns the registered agents in order.
func (r *Registry) Agents() []Agent { return r.agents }

// ParseAgentNames splits a comma-separated agent list, trimming whitespace.
// Empty input selects all rule-based agents.
func ParseAgentNames(input string) []string {
	if input == "" {
		return slices.Clone(RuleBasedAgents)
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			result = append(result, name)
		}
	}
	if len(result) == 0 {
		return slices.Clone(RuleBasedAgents)
	}
	return result
}

// ForNames builds the rule-based agents for the given identifiers, in
// canonical order regardless of the order the names arrive in. Unknown
// names are rejected up front.
func ForNames(names []string, t Thresholds) ([]Agent, error) {
	var invalid []string
	for _, name := range names {
		if !slices.Contains(RuleBasedAgents, name) {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("unsupported agent(s): %s (supported: %s)",
			strings.Join(invalid, ", "), strings.Join(RuleBasedAgents, ", "))
	}

	var result []Agent
	for _, name := range RuleBasedAgents {
		if !slices.Contains(names, name) {
			continue
		}
		switch name {
		case DatabaseAgentName:
			result = append(result, NewDatabaseAgent(t))
		case FactoryAgentName:
			result = append(result, NewFactoryAgent(t))
		case IntentAgentName:
			result = append(result, NewIntentAgent(t))
		case RiskAgentName:
			result = append(result, NewRiskAgent(t))
		}
	}
	return result, nil
}

// Run analyzes one profile with every registered agent and returns the
// verdicts in registration order, regardless of completion order. A panic
// inside an agent is converted to a low-confidence no_action verdict so one
// failing agent never aborts the analysis.
func (r *Registry) Run(ctx context.Context, profile *models.ProfileRecord) []models.Verdict {
	verdicts := make([]models.Verdict, len(r.agents))

	if !r.concurrent {
		for i, agent := range r.agents {
			verdicts[i] = runOne(ctx, agent, profile)
		}
		return verdicts
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, agent := range r.agents {
		g.Go(func() error {
			verdicts[i] = runOne(gctx, agent, profile)
			return nil
		})
	}
	// Agents never return errors; Wait only synchronizes completion.
	_ = g.Wait()
	return verdicts
}

// runOne invokes a single agent with panic isolation.
func runOne(ctx context.Context, agent Agent, profile *models.ProfileRecord) (verdict models.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			verdict = models.Verdict{
				AgentName:  agent.Name(),
				Verdict:    models.VerdictNoAction,
				Confidence: models.ConfidenceLow,
				Reasoning:  fmt.Sprintf("agent failed internally: %v", r),
			}
		}
	}()
	return agent.Analyze(ctx, profile)
}
