package agents

import (
	"context"
	"testing"

	"github.com/kamilpajak/specprof/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestIntentAgent_Classification(t *testing.T) {
	tests := []struct {
		name           string
		specType       models.SpecType
		events         map[string]models.EventStats
		wantVerdict    string
		wantConfidence models.Confidence
	}{
		{"model spec", models.SpecTypeModel, nil, models.VerdictUnitTestBehavior, models.ConfidenceHigh},
		{"lib spec", models.SpecTypeLib, nil, models.VerdictUnitTestBehavior, models.ConfidenceHigh},
		{"request spec", models.SpecTypeRequest, nil, models.VerdictIntegrationBehavior, models.ConfidenceHigh},
		{"feature spec", models.SpecTypeFeature, nil, models.VerdictIntegrationBehavior, models.ConfidenceHigh},
		{"system spec", models.SpecTypeSystem, nil, models.VerdictIntegrationBehavior, models.ConfidenceHigh},
		{"integration spec", models.SpecTypeIntegration, nil, models.VerdictIntegrationBehavior, models.ConfidenceHigh},
		{"helper spec", models.SpecTypeHelper, nil, models.VerdictUnitTestBehavior, models.ConfidenceMedium},
		{"view spec", models.SpecTypeView, nil, models.VerdictUnitTestBehavior, models.ConfidenceMedium},
		{"controller spec", models.SpecTypeController, nil, models.VerdictIntegrationBehavior, models.ConfidenceMedium},
		{"unknown spec", models.SpecTypeUnknown, nil, models.VerdictNoAction, models.ConfidenceLow},
		{
			"model spec with controller events",
			models.SpecTypeModel,
			map[string]models.EventStats{"process_action.action_controller": {Count: 1}},
			models.VerdictIntegrationBehavior,
			models.ConfidenceHigh,
		},
		{
			"unknown spec with request events",
			models.SpecTypeUnknown,
			map[string]models.EventStats{"request.net_http": {Count: 2}},
			models.VerdictIntegrationBehavior,
			models.ConfidenceHigh,
		},
	}

	agent := NewIntentAgent(Thresholds{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &models.ProfileRecord{SpecType: tt.specType, Events: tt.events}
			v := agent.Analyze(context.Background(), p)
			assert.Equal(t, tt.wantVerdict, v.Verdict)
			assert.Equal(t, tt.wantConfidence, v.Confidence)
			assert.NotEmpty(t, v.Reasoning)
		})
	}
}
