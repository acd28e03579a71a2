package consensus

import (
	"encoding/json"
	"testing"

	"github.com/kamilpajak/specprof/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verdict(agent, code string, confidence models.Confidence) models.Verdict {
	return models.Verdict{AgentName: agent, Verdict: code, Confidence: confidence, Reasoning: agent + " reasoning"}
}

func factoryVerdict(confidence models.Confidence) models.Verdict {
	return models.Verdict{
		AgentName:  "factory",
		Verdict:    models.VerdictPreferBuildStubbed,
		Confidence: confidence,
		Reasoning:  "factory reasoning",
		Metadata: map[string]string{
			"factory":       "user",
			"from_strategy": "create",
			"to_strategy":   "build_stubbed",
		},
	}
}

func TestDecide_FullAgreement(t *testing.T) {
	verdicts := []models.Verdict{
		verdict("database", models.VerdictDBUnnecessary, models.ConfidenceHigh),
		factoryVerdict(models.ConfidenceHigh),
		verdict("intent", models.VerdictUnitTestBehavior, models.ConfidenceHigh),
		verdict("risk", models.VerdictSafeToOptimize, models.ConfidenceHigh),
	}

	rec := New().Decide("spec/models/user_spec.rb:12", verdicts)
	assert.Equal(t, models.ActionReplaceFactoryStrategy, rec.Action)
	assert.Equal(t, "create(:user)", rec.FromValue)
	assert.Equal(t, "build_stubbed(:user)", rec.ToValue)
	assert.Equal(t, models.ConfidenceHigh, rec.Confidence)
	assert.True(t, rec.Valid())
	require.NotEmpty(t, rec.Explanation)
	assert.Contains(t, rec.Explanation[len(rec.Explanation)-1], "4 of 4 agents agree")
}

func TestDecide_RiskVetoIsAbsolute(t *testing.T) {
	for _, confidence := range []models.Confidence{models.ConfidenceHigh, models.ConfidenceMedium, models.ConfidenceLow} {
		verdicts := []models.Verdict{
			verdict("database", models.VerdictDBUnnecessary, models.ConfidenceHigh),
			factoryVerdict(models.ConfidenceHigh),
			verdict("intent", models.VerdictUnitTestBehavior, models.ConfidenceHigh),
			verdict("risk", models.VerdictRiskDetected, confidence),
		}

		rec := New().Decide("spec/models/user_spec.rb:12", verdicts)
		assert.Equal(t, models.ActionNoAction, rec.Action)
		assert.Equal(t, models.ConfidenceLow, rec.Confidence)
		// Risk reasoning is carried verbatim.
		assert.Equal(t, "risk reasoning", rec.Explanation[0])
	}
}

func TestDecide_MixedSignals(t *testing.T) {
	verdicts := []models.Verdict{
		verdict("database", models.VerdictDBUnnecessary, models.ConfidenceHigh),
		verdict("intent", models.VerdictIntegrationBehavior, models.ConfidenceHigh),
		verdict("risk", models.VerdictSafeToOptimize, models.ConfidenceHigh),
	}

	rec := New().Decide("spec/system/checkout_spec.rb:7", verdicts)
	assert.Equal(t, models.ActionNoAction, rec.Action)
	assert.Equal(t, models.ConfidenceLow, rec.Confidence)
	assert.Contains(t, rec.Explanation[0], "database")
	assert.Contains(t, rec.Explanation[0], "intent")
}

func TestDecide_TwoWayTieFavorsSafety(t *testing.T) {
	verdicts := []models.Verdict{
		verdict("database", models.VerdictDBUnnecessary, models.ConfidenceHigh),
		verdict("intent", models.VerdictIntegrationBehavior, models.ConfidenceLow),
	}

	rec := New().Decide("spec/a_spec.rb:1", verdicts)
	assert.Equal(t, models.ActionNoAction, rec.Action)
	assert.Equal(t, models.ConfidenceLow, rec.Confidence)
}

func TestDecide_SingleSupporterIsNotEnough(t *testing.T) {
	verdicts := []models.Verdict{
		verdict("database", models.VerdictDBUnnecessary, models.ConfidenceHigh),
		verdict("factory", models.VerdictNoAction, models.ConfidenceLow),
		verdict("intent", models.VerdictNoAction, models.ConfidenceLow),
	}

	rec := New().Decide("spec/a_spec.rb:1", verdicts)
	assert.Equal(t, models.ActionNoAction, rec.Action)
	assert.Contains(t, rec.Explanation[0], "at least two")
}

func TestDecide_AbstentionsDoNotOppose(t *testing.T) {
	// A degraded agent's no_action must not block the remaining quorum.
	verdicts := []models.Verdict{
		verdict("database", models.VerdictDBUnnecessary, models.ConfidenceHigh),
		factoryVerdict(models.ConfidenceHigh),
		verdict("intent", models.VerdictNoAction, models.ConfidenceLow),
		verdict("risk", models.VerdictSafeToOptimize, models.ConfidenceHigh),
	}

	rec := New().Decide("spec/a_spec.rb:1", verdicts)
	assert.Equal(t, models.ActionReplaceFactoryStrategy, rec.Action)
	assert.Equal(t, models.ConfidenceHigh, rec.Confidence)
}

func TestDecide_ConfidenceDerivation(t *testing.T) {
	tests := []struct {
		name     string
		factory  models.Confidence
		database models.Confidence
		want     models.Confidence
	}{
		{"all high", models.ConfidenceHigh, models.ConfidenceHigh, models.ConfidenceHigh},
		{"one medium", models.ConfidenceMedium, models.ConfidenceHigh, models.ConfidenceMedium},
		{"one low", models.ConfidenceLow, models.ConfidenceHigh, models.ConfidenceLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdicts := []models.Verdict{
				verdict("database", models.VerdictDBUnnecessary, tt.database),
				factoryVerdict(tt.factory),
			}
			rec := New().Decide("spec/a_spec.rb:1", verdicts)
			assert.Equal(t, tt.want, rec.Confidence)
		})
	}
}

func TestDecide_NoMaterialMeansNoAction(t *testing.T) {
	// Directional support without factory from/to material cannot name a
	// concrete change.
	verdicts := []models.Verdict{
		verdict("database", models.VerdictDBUnnecessary, models.ConfidenceHigh),
		verdict("intent", models.VerdictUnitTestBehavior, models.ConfidenceHigh),
		verdict("risk", models.VerdictSafeToOptimize, models.ConfidenceHigh),
	}

	rec := New().Decide("spec/a_spec.rb:1", verdicts)
	assert.Equal(t, models.ActionNoAction, rec.Action)
	assert.Empty(t, rec.FromValue)
	assert.Empty(t, rec.ToValue)
	assert.Contains(t, rec.Explanation[len(rec.Explanation)-1], "no concrete strategy change")
}

func TestDecide_Deterministic(t *testing.T) {
	verdicts := []models.Verdict{
		verdict("database", models.VerdictDBUnnecessary, models.ConfidenceHigh),
		factoryVerdict(models.ConfidenceHigh),
		verdict("intent", models.VerdictUnitTestBehavior, models.ConfidenceHigh),
		verdict("risk", models.VerdictSafeToOptimize, models.ConfidenceHigh),
	}

	engine := New()
	first, err := json.Marshal(engine.Decide("spec/a_spec.rb:1", verdicts))
	require.NoError(t, err)
	for range 50 {
		again, err := json.Marshal(engine.Decide("spec/a_spec.rb:1", verdicts))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestDecide_EmptyVerdictList(t *testing.T) {
	rec := New().Decide("spec/a_spec.rb:1", nil)
	assert.Equal(t, models.ActionNoAction, rec.Action)
	assert.Equal(t, models.ConfidenceLow, rec.Confidence)
	assert.True(t, rec.Valid())
}
