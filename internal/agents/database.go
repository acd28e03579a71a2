package agents

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kamilpajak/specprof/pkg/models"
)

// DatabaseAgent decides whether the example actually needs its database
// writes to be committed.
type DatabaseAgent struct {
	thresholds Thresholds
}

// NewDatabaseAgent creates a database agent with the given thresholds.
func NewDatabaseAgent(t Thresholds) *DatabaseAgent {
	return &DatabaseAgent{thresholds: t.withDefaults()}
}

// Name returns the agent identifier.
func (a *DatabaseAgent) Name() string { return DatabaseAgentName }

// Analyze inspects the DB counters and instrumented events.
//
// db_unnecessary (high): no commit-dependent read is present and the inserts
// are either zero or fully explained by factory create calls — nothing in
// the example depends on committed data.
// db_required (high): a create-strategy factory is paired with a reload-style
// re-select keyed to the persisted record.
// Otherwise no_action (low).
func (a *DatabaseAgent) Analyze(_ context.Context, p *models.ProfileRecord) models.Verdict {
	reload := hasReloadEvent(p)
	creates := p.CreateCount()

	meta := map[string]string{
		"inserts":       strconv.Itoa(p.DB.Inserts),
		"create_count":  strconv.Itoa(creates),
		"total_queries": strconv.Itoa(p.DB.TotalQueries),
	}

	if reload && creates > 0 {
		return models.Verdict{
			AgentName:  a.Name(),
			Verdict:    models.VerdictDBRequired,
			Confidence: models.ConfidenceHigh,
			Reasoning:  "persisted records are re-selected after creation (reload), so the example depends on committed data",
			Metadata:   meta,
		}
	}

	if !reload && insertsExplainedByFactories(p) {
		reason := "no inserts and no commit-dependent reads; the database is not exercised by this example"
		if p.DB.Inserts > 0 {
			reason = fmt.Sprintf("all %d inserts come from factory create calls and nothing reads the committed rows back", p.DB.Inserts)
		}
		return models.Verdict{
			AgentName:  a.Name(),
			Verdict:    models.VerdictDBUnnecessary,
			Confidence: models.ConfidenceHigh,
			Reasoning:  reason,
			Metadata:   meta,
		}
	}

	return models.Verdict{
		AgentName:  a.Name(),
		Verdict:    models.VerdictNoAction,
		Confidence: models.ConfidenceLow,
		Reasoning:  "database activity is not clearly attributable to fixture construction",
		Metadata:   meta,
	}
}
