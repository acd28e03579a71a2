package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kamilpajak/specprof/internal/agents"
	"github.com/kamilpajak/specprof/internal/analysis"
	"github.com/kamilpajak/specprof/internal/config"
	"github.com/kamilpajak/specprof/internal/policy"
	"github.com/kamilpajak/specprof/internal/render"
)

var (
	verbose     bool
	jsonOutput  bool
	configPath  string
	agentNames  string
	enforce     bool
	failOnHigh  bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
	concurrency int
)

var rootCmd = &cobra.Command{
	Use:   "specprof <profile.json>",
	Short: "Fixture-strategy recommendations from test profiles",
	Long: `Analyzes normalized test-profile records (timings, query counters,
factory usage, instrumented events) and recommends fixture-construction
changes, such as replacing create with build_stubbed, that will not alter
test behavior.`,
	Args:          cobra.ExactArgs(1),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show per-agent verdicts and progress detail")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run report as JSON")
	rootCmd.Flags().StringVar(&configPath, "config", config.FileName, "Path to the configuration file")
	rootCmd.Flags().StringVar(&agentNames, "agents", "", "Comma-separated agents to enable (default: all rule-based)")
	rootCmd.Flags().BoolVar(&enforce, "enforce", false, "Exit non-zero on high-confidence actionable recommendations")
	rootCmd.Flags().BoolVar(&failOnHigh, "fail-on-high-confidence", false, "Alias for CI enforcement on high-confidence findings")
	rootCmd.Flags().BoolVar(&llmEnabled, "llm", false, "Add the generative agent to the analysis")
	rootCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (google, openai, anthropic)")
	rootCmd.Flags().StringVar(&llmModel, "llm-model", "", "Specific model name")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Records analyzed in parallel (default from config)")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	var emitter analysis.ProgressEmitter
	var spin *spinner.Spinner

	interactive := isatty.IsTerminal(os.Stderr.Fd())
	switch {
	case verbose:
		emitter = &analysis.TextEmitter{W: os.Stderr}
	case interactive && !jsonOutput:
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		spin.Suffix = " analyzing profiles..."
		spin.Start()
	}

	report, err := analysis.Run(context.Background(), analysis.Params{
		ProfilePath: args[0],
		Config:      cfg,
		Emitter:     emitter,
	})
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := render.JSON(os.Stdout, report); err != nil {
			return err
		}
	} else {
		render.Text(os.Stdout, report, verbose)
	}

	enforcement := cfg.EnforcementMode || cfg.FailOnHighConfidence
	if code := policy.ExitCode(report.Recommendations, enforcement); code != policy.ExitOK {
		fmt.Fprintf(os.Stderr, "enforcement: %d high-confidence actionable recommendation(s) found\n", report.HighConfidence)
		os.Exit(code)
	}
	return nil
}

// buildConfig loads the config file and layers the explicitly set flags on
// top of it.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("agents") {
		cfg.EnabledAgents = agents.ParseAgentNames(agentNames)
	}
	if enforce {
		cfg.EnforcementMode = true
	}
	if failOnHigh {
		cfg.FailOnHighConfidence = true
	}
	if llmEnabled {
		cfg.LLM.Enabled = true
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if concurrency > 0 {
		cfg.Concurrency = concurrency
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
