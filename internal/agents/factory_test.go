package agents

import (
	"context"
	"testing"

	"github.com/kamilpajak/specprof/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestFactoryAgent_PrefersBuildStubbed(t *testing.T) {
	agent := NewFactoryAgent(Thresholds{})
	p := &models.ProfileRecord{
		Factories: map[string]models.FactoryStats{
			"user": {Strategy: models.StrategyCreate, Count: 3},
		},
		DB: models.DBStats{Inserts: 3},
	}

	v := agent.Analyze(context.Background(), p)
	assert.Equal(t, models.VerdictPreferBuildStubbed, v.Verdict)
	assert.Equal(t, models.ConfidenceHigh, v.Confidence)
	assert.Equal(t, "user", v.Metadata["factory"])
	assert.Equal(t, "create", v.Metadata["from_strategy"])
	assert.Equal(t, "build_stubbed", v.Metadata["to_strategy"])
}

func TestFactoryAgent_MediumWhenInsertsUnexplained(t *testing.T) {
	agent := NewFactoryAgent(Thresholds{})
	p := &models.ProfileRecord{
		Factories: map[string]models.FactoryStats{
			"user": {Strategy: models.StrategyCreate, Count: 2},
		},
		DB: models.DBStats{Inserts: 6},
	}

	v := agent.Analyze(context.Background(), p)
	assert.Equal(t, models.VerdictPreferBuildStubbed, v.Verdict)
	assert.Equal(t, models.ConfidenceMedium, v.Confidence)
}

func TestFactoryAgent_SuppressedByReload(t *testing.T) {
	agent := NewFactoryAgent(Thresholds{})
	p := &models.ProfileRecord{
		Factories: map[string]models.FactoryStats{
			"user": {Strategy: models.StrategyCreate, Count: 2},
		},
		DB: models.DBStats{Inserts: 2},
		Events: map[string]models.EventStats{
			"record.reload": {Count: 1},
		},
	}

	v := agent.Analyze(context.Background(), p)
	assert.Equal(t, models.VerdictNoAction, v.Verdict)
	assert.Equal(t, models.ConfidenceLow, v.Confidence)
}

func TestFactoryAgent_NoCreateFactories(t *testing.T) {
	agent := NewFactoryAgent(Thresholds{})
	p := &models.ProfileRecord{
		Factories: map[string]models.FactoryStats{
			"user": {Strategy: models.StrategyBuild, Count: 5},
		},
	}

	v := agent.Analyze(context.Background(), p)
	assert.Equal(t, models.VerdictNoAction, v.Verdict)
}

func TestFactoryAgent_DominantFactorySurfaced(t *testing.T) {
	agent := NewFactoryAgent(Thresholds{})
	p := &models.ProfileRecord{
		Factories: map[string]models.FactoryStats{
			"user": {Strategy: models.StrategyCreate, Count: 2},
			"post": {Strategy: models.StrategyCreate, Count: 9},
		},
		DB: models.DBStats{Inserts: 11},
	}

	v := agent.Analyze(context.Background(), p)
	assert.Equal(t, models.VerdictPreferBuildStubbed, v.Verdict)
	assert.Equal(t, "post", v.Metadata["factory"])
	assert.Contains(t, v.Reasoning, `"user"`)
	assert.Contains(t, v.Reasoning, `"post"`)
}

func TestFactoryAgent_MinCreateCountThreshold(t *testing.T) {
	agent := NewFactoryAgent(Thresholds{MinCreateCount: 5})
	p := &models.ProfileRecord{
		Factories: map[string]models.FactoryStats{
			"user": {Strategy: models.StrategyCreate, Count: 3},
		},
	}

	v := agent.Analyze(context.Background(), p)
	assert.Equal(t, models.VerdictNoAction, v.Verdict)
}
