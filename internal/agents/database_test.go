package agents

import (
	"context"
	"testing"

	"github.com/kamilpajak/specprof/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestDatabaseAgent_NoInsertsNoReload(t *testing.T) {
	agent := NewDatabaseAgent(Thresholds{})
	p := &models.ProfileRecord{
		DB: models.DBStats{Selects: 4, TotalQueries: 4},
	}

	v := agent.Analyze(context.Background(), p)
	assert.Equal(t, models.VerdictDBUnnecessary, v.Verdict)
	assert.Equal(t, models.ConfidenceHigh, v.Confidence)
	assert.NotEmpty(t, v.Reasoning)
}

func TestDatabaseAgent_InsertsExplainedByCreates(t *testing.T) {
	agent := NewDatabaseAgent(Thresholds{})
	p := &models.ProfileRecord{
		Factories: map[string]models.FactoryStats{
			"user": {Strategy: models.StrategyCreate, Count: 3},
		},
		DB: models.DBStats{Inserts: 3, Selects: 5, TotalQueries: 8},
	}

	v := agent.Analyze(context.Background(), p)
	assert.Equal(t, models.VerdictDBUnnecessary, v.Verdict)
	assert.Equal(t, models.ConfidenceHigh, v.Confidence)
}

func TestDatabaseAgent_ReloadMeansRequired(t *testing.T) {
	agent := NewDatabaseAgent(Thresholds{})
	p := &models.ProfileRecord{
		Factories: map[string]models.FactoryStats{
			"user": {Strategy: models.StrategyCreate, Count: 1},
		},
		DB: models.DBStats{Inserts: 1, Selects: 2},
		Events: map[string]models.EventStats{
			"sql.active_record": {Count: 2, Examples: []models.EventExample{
				{SQL: "SELECT * FROM users WHERE id = 1", Location: "user.reload"},
			}},
		},
	}

	v := agent.Analyze(context.Background(), p)
	assert.Equal(t, models.VerdictDBRequired, v.Verdict)
	assert.Equal(t, models.ConfidenceHigh, v.Confidence)
}

func TestDatabaseAgent_UnattributedInserts(t *testing.T) {
	agent := NewDatabaseAgent(Thresholds{})
	p := &models.ProfileRecord{
		DB: models.DBStats{Inserts: 4},
	}

	v := agent.Analyze(context.Background(), p)
	assert.Equal(t, models.VerdictNoAction, v.Verdict)
	assert.Equal(t, models.ConfidenceLow, v.Confidence)
}

func TestDatabaseAgent_ReloadWithoutCreatesIsNotRequired(t *testing.T) {
	agent := NewDatabaseAgent(Thresholds{})
	p := &models.ProfileRecord{
		DB: models.DBStats{Inserts: 2},
		Events: map[string]models.EventStats{
			"record.reload": {Count: 1},
		},
	}

	v := agent.Analyze(context.Background(), p)
	assert.Equal(t, models.VerdictNoAction, v.Verdict)
}
