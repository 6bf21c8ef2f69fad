package applicant

import (
	"time"

	"github.com/Abraxas-365/shortlist/pkg/kernel"
)

// ============================================================================
// Evaluation
// ============================================================================

// Evaluation is the evaluator's review of one document
type Evaluation struct {
	Summary   string  `json:"summary"`
	Score     float64 `json:"score"`
	Issues    string  `json:"issues"`
	FollowUps string  `json:"follow_ups"`
}

// ProcessingResult is everything one successful aggregation writes back
type ProcessingResult struct {
	CompressedJSON  string
	Hash            kernel.ContentHash
	ShortlistStatus kernel.ShortlistStatus
	Evaluation      *Evaluation
}

// ============================================================================
// Reports
// ============================================================================

// RunReport summarizes one processor run
type RunReport struct {
	RunID        kernel.RunID      `json:"run_id"`
	StartedAt    time.Time         `json:"started_at"`
	FinishedAt   time.Time         `json:"finished_at"`
	Total        int               `json:"total"`
	Completed    int               `json:"completed"`
	Failed       int               `json:"failed"`
	Shortlisted  int               `json:"shortlisted"`
	LeadsCreated int               `json:"leads_created"`
	Evaluated    int               `json:"evaluated"`
	Unchanged    int               `json:"unchanged"`
	Failures     map[string]string `json:"failures,omitempty"`
}

func (r *RunReport) Fail(label string, err error) {
	r.Failed++
	if r.Failures == nil {
		r.Failures = make(map[string]string)
	}
	r.Failures[label] = err.Error()
}

// DecompressReport counts the writes of one decompression
type DecompressReport struct {
	ApplicantID       kernel.ApplicantID `json:"applicant_id"`
	DisplayID         string             `json:"display_id"`
	PersonalCreated   bool               `json:"personal_created"`
	PersonalUpdated   bool               `json:"personal_updated"`
	SalaryCreated     bool               `json:"salary_created"`
	SalaryUpdated     bool               `json:"salary_updated"`
	ExperienceDeleted int                `json:"experience_deleted"`
	ExperienceCreated int                `json:"experience_created"`
}

// ============================================================================
// Requests
// ============================================================================

// DecompressRequest is the queued unit of decompression work
type DecompressRequest struct {
	ApplicantID kernel.ApplicantID `json:"applicant_id"`
	RequestedAt time.Time          `json:"requested_at"`
}

// PreviewRequest asks for a shortlist decision without touching the store
type PreviewRequest struct {
	Document Document `json:"document"`
}
