// Package scoring combines skill overlap and CV quality into one ranking
// value and selects a bounded shortlist of candidates.
package scoring

// CandidateSnapshot is a transient projection of a consultant used for the
// duration of one matching computation. It is built fresh from the
// consultant read-model per run and discarded after scoring.
type CandidateSnapshot struct {
	ID     int64
	Name   string
	Skills []string

	// Quality is the externally supplied CV-quality score (0-100).
	// nil means unscored.
	Quality *int

	// CVID identifies the consultant's current CV version.
	CVID string

	// CVText is the rendered CV content used for AI ranking.
	CVText string
}
