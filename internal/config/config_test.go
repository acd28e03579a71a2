package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kamilpajak/specprof/internal/agents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, agents.RuleBasedAgents, cfg.EnabledAgents)
	assert.False(t, cfg.EnforcementMode)
	assert.False(t, cfg.FailOnHighConfidence)
	assert.False(t, cfg.AutoApplyEnabled)
	assert.False(t, cfg.BlockingModeEnabled)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, agents.RuleBasedAgents, cfg.EnabledAgents)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `
enabled_agents: [database, risk]
enforcement_mode: true
concurrency: 8
thresholds:
  min_create_count: 2
  callback_chain_depth: 3
llm:
  enabled: true
  provider: anthropic
  model: claude-sonnet-4-5
  timeout: 10s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"database", "risk"}, cfg.EnabledAgents)
	assert.True(t, cfg.EnforcementMode)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 2, cfg.AgentThresholds().MinCreateCount)
	assert.Equal(t, 3, cfg.AgentThresholds().CallbackChainDepth)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 10*time.Second, cfg.LLM.Timeout)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("enabled_agents: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_AutoApplyWithEnforcement(t *testing.T) {
	// The guard holds regardless of every other field.
	variants := []*Config{
		{AutoApplyEnabled: true, EnforcementMode: true},
		{AutoApplyEnabled: true, EnforcementMode: true, BlockingModeEnabled: true, Concurrency: 16},
		{AutoApplyEnabled: true, EnforcementMode: true, EnabledAgents: []string{"risk"}},
	}
	for _, cfg := range variants {
		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsafeConfig)
	}
}

func TestValidate_AutoApplyWithFailOnHigh(t *testing.T) {
	cfg := &Config{AutoApplyEnabled: true, FailOnHighConfidence: true}
	assert.ErrorIs(t, cfg.Validate(), ErrUnsafeConfig)
}

func TestValidate_SafeCombinations(t *testing.T) {
	safe := []*Config{
		{},
		{EnforcementMode: true},
		{FailOnHighConfidence: true},
		{AutoApplyEnabled: true},
		{EnforcementMode: true, FailOnHighConfidence: true, BlockingModeEnabled: true},
	}
	for _, cfg := range safe {
		assert.NoError(t, cfg.Validate())
	}
}
