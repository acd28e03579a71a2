package models

import "time"

// RunReport aggregates the recommendations produced by one analysis run.
// RunID and GeneratedAt are audit metadata only; no decision logic reads
// them.
type RunReport struct {
	RunID           string           `json:"run_id"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Examples        int              `json:"examples"`
	Actionable      int              `json:"actionable"`
	HighConfidence  int              `json:"high_confidence"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Summarize recounts the aggregate counters from the recommendation list.
func (r *RunReport) Summarize() {
	r.Examples = len(r.Recommendations)
	r.Actionable = 0
	r.HighConfidence = 0
	for i := range r.Recommendations {
		rec := &r.Recommendations[i]
		if rec.Actionable() {
			r.Actionable++
			if rec.Confidence == ConfidenceHigh {
				r.HighConfidence++
			}
		}
	}
}
