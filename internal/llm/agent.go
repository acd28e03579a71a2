package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kamilpajak/specprof/pkg/models"
)

const systemPrompt = `You are a test-performance analyst. You receive one normalized profile of a test example: runtime, database query counters, factory usage, and instrumented events.

Judge whether the example's fixture persistence could be reduced (e.g. create replaced with build_stubbed) without changing test behavior.

Respond with ONLY a JSON object:
{"verdict": "<one of: db_unnecessary, db_required, prefer_build_stubbed, unit_test_behavior, integration_test_behavior, risk_detected, safe_to_optimize, no_action>",
 "confidence": "<high|medium|low>",
 "reasoning": "<one or two sentences of evidence>"}

Prefer no_action with low confidence whenever the evidence is thin.`

// allowedVerdicts are the codes a generative agent may emit; anything else
// degrades to no_action.
var allowedVerdicts = map[string]bool{
	models.VerdictDBUnnecessary:       true,
	models.VerdictDBRequired:          true,
	models.VerdictPreferBuildStubbed:  true,
	models.VerdictUnitTestBehavior:    true,
	models.VerdictIntegrationBehavior: true,
	models.VerdictRiskDetected:        true,
	models.VerdictSafeToOptimize:      true,
	models.VerdictNoAction:            true,
}

// Agent adapts a completion Client to the analysis agent contract. It is
// the only component in the core that performs network I/O, so it owns the
// single timeout boundary: provider failures and timeouts degrade to a
// low-confidence no_action verdict, never an error.
type Agent struct {
	client  Client
	timeout time.Duration
	limiter *rate.Limiter
}

// NewAgent wraps the client with a per-call timeout and a request rate
// limit.
func NewAgent(client Client, timeout time.Duration, requestsPerSecond float64) *Agent {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &Agent{
		client:  client,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Name returns the agent identifier, e.g. "llm:google".
func (a *Agent) Name() string {
	return "llm:" + string(a.client.Provider())
}

// Analyze sends the profile to the provider and parses the returned verdict.
func (a *Agent) Analyze(ctx context.Context, profile *models.ProfileRecord) models.Verdict {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.limiter.Wait(ctx); err != nil {
		return a.degraded(fmt.Sprintf("rate limit wait aborted: %v", err))
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return a.degraded(fmt.Sprintf("failed to encode profile: %v", err))
	}

	resp, err := a.client.Complete(ctx, []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: "Profile record:\n" + string(profileJSON)},
	})
	if err != nil {
		return a.degraded(fmt.Sprintf("provider %s failed: %v", a.client.Provider(), err))
	}

	var parsed struct {
		Verdict    string `json:"verdict"`
		Confidence string `json:"confidence"`
		Reasoning  string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(ExtractJSON(resp.Content)), &parsed); err != nil {
		return a.degraded(fmt.Sprintf("unparseable response from %s: %v", a.client.Provider(), err))
	}

	if !allowedVerdicts[parsed.Verdict] {
		return a.degraded(fmt.Sprintf("provider returned unrecognized verdict %q", parsed.Verdict))
	}

	confidence := models.Confidence(strings.ToLower(parsed.Confidence))
	if confidence.Rank() == 0 {
		confidence = models.ConfidenceLow
	}
	reasoning := strings.TrimSpace(parsed.Reasoning)
	if reasoning == "" {
		reasoning = "model gave no reasoning"
	}

	return models.Verdict{
		AgentName:  a.Name(),
		Verdict:    parsed.Verdict,
		Confidence: confidence,
		Reasoning:  reasoning,
		Metadata: map[string]string{
			"provider": string(a.client.Provider()),
			"model":    a.client.Model(),
		},
	}
}

func (a *Agent) degraded(reason string) models.Verdict {
	return models.Verdict{
		AgentName:  a.Name(),
		Verdict:    models.VerdictNoAction,
		Confidence: models.ConfidenceLow,
		Reasoning:  reason,
	}
}

// ExtractJSON pulls the first JSON object out of a model response, handling
// markdown code fences and surrounding prose.
func ExtractJSON(s string) string {
	if idx := strings.Index(s, "```json"); idx >= 0 {
		rest := s[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			candidate := strings.TrimSpace(rest[:end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}

	start := strings.Index(s, "{")
	if start < 0 {
		return strings.TrimSpace(s)
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return strings.TrimSpace(s[start:])
}
