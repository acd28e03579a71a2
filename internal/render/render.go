// Package render formats run reports for the console and for machine
// consumption.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/kamilpajak/specprof/pkg/models"
)

// JSON writes the report as indented JSON.
func JSON(w io.Writer, report *models.RunReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// Text writes a human-readable report. Verbose adds the per-agent audit
// trail under each recommendation.
func Text(w io.Writer, report *models.RunReport, verbose bool) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	for i := range report.Recommendations {
		rec := &report.Recommendations[i]
		if !rec.Actionable() {
			if verbose {
				_, _ = dim.Fprintf(w, "%s  no action\n", rec.SpecLocation)
				printExplanation(w, rec)
				printAuditTrail(w, rec)
			}
			continue
		}

		_, _ = bold.Fprintln(w, rec.SpecLocation)
		fmt.Fprintf(w, "  replace %s with %s  %s\n", rec.FromValue, rec.ToValue, confidenceBadge(rec.Confidence))
		printExplanation(w, rec)
		if verbose {
			printAuditTrail(w, rec)
		}
		fmt.Fprintln(w)
	}

	_, _ = dim.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "%d example(s) analyzed, %d actionable, %d high confidence\n",
		report.Examples, report.Actionable, report.HighConfidence)
}

func printExplanation(w io.Writer, rec *models.Recommendation) {
	for _, reason := range rec.Explanation {
		fmt.Fprintf(w, "    - %s\n", reason)
	}
}

func printAuditTrail(w io.Writer, rec *models.Recommendation) {
	dim := color.New(color.FgHiBlack)
	for _, v := range rec.AgentResults {
		_, _ = dim.Fprintf(w, "      %-10s %-26s %-6s %s\n", v.AgentName, v.Verdict, v.Confidence, v.Reasoning)
	}
}

func confidenceBadge(c models.Confidence) string {
	label := "[" + strings.ToUpper(string(c)) + "]"
	switch c {
	case models.ConfidenceHigh:
		return color.New(color.FgGreen).Sprint(label)
	case models.ConfidenceMedium:
		return color.New(color.FgYellow).Sprint(label)
	default:
		return color.New(color.FgHiBlack).Sprint(label)
	}
}
