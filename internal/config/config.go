// Package config loads and validates the analysis configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kamilpajak/specprof/internal/agents"
)

// FileName is the config file looked up in the working directory.
const FileName = ".specprof.yaml"

// ErrUnsafeConfig marks configurations that would let the tool auto-apply
// changes while also failing the build: an unreviewable silent change.
var ErrUnsafeConfig = errors.New("unsafe configuration")

// LLM configures the optional generative agent.
type LLM struct {
	Enabled           bool          `yaml:"enabled"`
	Provider          string        `yaml:"provider"`
	Model             string        `yaml:"model"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

// Thresholds overrides the rule-based agents' decision tables.
type Thresholds struct {
	MinCreateCount     int `yaml:"min_create_count"`
	CallbackChainDepth int `yaml:"callback_chain_depth"`
}

// Config is the full configuration surface consumed by the core. All
// enforcement flags default to false; the tool never blocks a build unless
// asked to.
type Config struct {
	EnabledAgents        []string   `yaml:"enabled_agents"`
	EnforcementMode      bool       `yaml:"enforcement_mode"`
	FailOnHighConfidence bool       `yaml:"fail_on_high_confidence"`
	AutoApplyEnabled     bool       `yaml:"auto_apply_enabled"`
	BlockingModeEnabled  bool       `yaml:"blocking_mode_enabled"`
	Concurrency          int        `yaml:"concurrency"`
	Thresholds           Thresholds `yaml:"thresholds"`
	LLM                  LLM        `yaml:"llm"`
}

// Default returns the baseline configuration: all four rule-based agents,
// no enforcement, no auto-apply.
func Default() *Config {
	return &Config{
		EnabledAgents: append([]string(nil), agents.RuleBasedAgents...),
		Concurrency:   4,
		LLM: LLM{
			Provider:          "google",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 1,
		},
	}
}

// Load reads the config file at path, merged over Default. A missing file
// is not an error; invalid YAML is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if len(cfg.EnabledAgents) == 0 {
		cfg.EnabledAgents = append([]string(nil), agents.RuleBasedAgents...)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = Default().Concurrency
	}
	return cfg, nil
}

// Validate is called once, before any profile record is processed. The
// auto-apply guard is the only fatal condition in the core: auto-applying
// source changes must never be combined with a flag that fails the build on
// high-confidence findings.
func (c *Config) Validate() error {
	if c.AutoApplyEnabled && c.EnforcementMode {
		return fmt.Errorf("%w: auto_apply_enabled cannot be combined with enforcement_mode", ErrUnsafeConfig)
	}
	if c.AutoApplyEnabled && c.FailOnHighConfidence {
		return fmt.Errorf("%w: auto_apply_enabled cannot be combined with fail_on_high_confidence", ErrUnsafeConfig)
	}
	return nil
}

// AgentThresholds converts the YAML overrides into the agents package's
// threshold table. Zero values fall back to the agent defaults.
func (c *Config) AgentThresholds() agents.Thresholds {
	return agents.Thresholds{
		MinCreateCount:     c.Thresholds.MinCreateCount,
		CallbackChainDepth: c.Thresholds.CallbackChainDepth,
	}
}
