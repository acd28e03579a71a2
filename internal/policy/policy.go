// Package policy computes process-level enforcement status from a run's
// recommendations. It never alters recommendation content.
package policy

import "github.com/kamilpajak/specprof/pkg/models"

// Exit codes reported to the caller.
const (
	ExitOK       = 0
	ExitEnforced = 1
)

// ExitCode derives the process exit status from the recommendation list.
// Non-zero iff enforcement is enabled and at least one recommendation is
// both actionable and high-confidence. Stateless: re-derivable from the
// list alone.
func ExitCode(recommendations []models.Recommendation, enforcement bool) int {
	if !enforcement {
		return ExitOK
	}
	for i := range recommendations {
		rec := &recommendations[i]
		if rec.Actionable() && rec.Confidence == models.ConfidenceHigh {
			return ExitEnforced
		}
	}
	return ExitOK
}
