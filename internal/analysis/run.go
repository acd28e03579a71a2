// Package analysis orchestrates one run: load profile records, run the
// agents over each, and reconcile their verdicts into recommendations.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kamilpajak/specprof/internal/agents"
	"github.com/kamilpajak/specprof/internal/config"
	"github.com/kamilpajak/specprof/internal/consensus"
	"github.com/kamilpajak/specprof/internal/llm"
	"github.com/kamilpajak/specprof/internal/profile"
	"github.com/kamilpajak/specprof/pkg/models"
)

// Params configures an analysis run.
type Params struct {
	ProfilePath string
	Config      *config.Config
	Emitter     ProgressEmitter
}

// Run executes the full pipeline: validate configuration, load the profile
// records, analyze each with the enabled agents, and assemble the run
// report. Records are independent, so they are analyzed concurrently;
// recommendations come back in input order.
func Run(ctx context.Context, p Params) (*models.RunReport, error) {
	cfg := p.Config
	if cfg == nil {
		cfg = config.Default()
	}

	// The unsafe-configuration check is the one fatal condition in the
	// core; it runs before any record is touched.
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	records, err := profile.Load(p.ProfilePath)
	if err != nil {
		return nil, err
	}
	emitInfo(p.Emitter, fmt.Sprintf("Loaded %d profile record(s) from %s", len(records), p.ProfilePath))

	engine := consensus.New()
	recommendations := make([]models.Recommendation, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i := range records {
		g.Go(func() error {
			rec := &records[i]
			verdicts := registry.Run(gctx, rec)
			recommendations[i] = engine.Decide(rec.Location, verdicts)
			emitRecord(p.Emitter, i+1, len(records), describe(&recommendations[i]))
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis aborted: %w", err)
	}

	report := &models.RunReport{
		RunID:           uuid.NewString(),
		GeneratedAt:     time.Now().UTC(),
		Recommendations: recommendations,
	}
	report.Summarize()
	return report, nil
}

// buildRegistry assembles the enabled rule-based agents plus the optional
// generative agent, in canonical order.
func buildRegistry(cfg *config.Config) (*agents.Registry, error) {
	enabled, err := agents.ForNames(cfg.EnabledAgents, cfg.AgentThresholds())
	if err != nil {
		return nil, err
	}

	if cfg.LLM.Enabled {
		client, err := llm.NewClient(llm.Provider(cfg.LLM.Provider), cfg.LLM.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to configure generative agent: %w", err)
		}
		enabled = append(enabled, llm.NewAgent(client, cfg.LLM.Timeout, cfg.LLM.RequestsPerSecond))
	}

	return agents.NewRegistry(enabled, true), nil
}

func describe(rec *models.Recommendation) string {
	if !rec.Actionable() {
		return fmt.Sprintf("%s: no action", rec.SpecLocation)
	}
	return fmt.Sprintf("%s: %s -> %s (%s)", rec.SpecLocation, rec.FromValue, rec.ToValue, rec.Confidence)
}
