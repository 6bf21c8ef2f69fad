package applicant

import (
	"context"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/kernel"
)

type Repository interface {
	// GetByID retrieves an applicant; a missing row is ErrApplicantNotFound
	GetByID(ctx context.Context, id kernel.ApplicantID) (*Applicant, error)

	// ListByStatus retrieves every applicant with the given processing status
	ListByStatus(ctx context.Context, status Status) ([]*Applicant, error)

	// UpdateStatus sets only the processing status
	UpdateStatus(ctx context.Context, id kernel.ApplicantID, status Status) error

	// SaveResult writes the aggregation outcome and marks the applicant Completed
	SaveResult(ctx context.Context, id kernel.ApplicantID, result ProcessingResult) error

	// SetLinks replaces the ids held in one of the link columns
	SetLinks(ctx context.Context, id kernel.ApplicantID, column string, ids []kernel.RecordID) error
}

// LinkedRepository is a child collection carrying an "Applicant Link" back-reference
type LinkedRepository[T any] interface {
	GetByID(ctx context.Context, id kernel.RecordID) (*T, error)
	FindByApplicant(ctx context.Context, ref ApplicantRef) ([]Linked[T], error)
	Create(ctx context.Context, ref ApplicantRef, item T) (kernel.RecordID, error)
	Update(ctx context.Context, id kernel.RecordID, ref ApplicantRef, item T) error
	BatchCreate(ctx context.Context, ref ApplicantRef, items []T) ([]kernel.RecordID, error)
	BatchDelete(ctx context.Context, ids []kernel.RecordID) error
}

type PersonalDetailsRepository = LinkedRepository[PersonalDetails]
type WorkExperienceRepository = LinkedRepository[WorkExperience]
type SalaryPreferencesRepository = LinkedRepository[SalaryPreferences]

type LeadRepository interface {
	// FindByApplicant returns nil when the applicant has no lead yet
	FindByApplicant(ctx context.Context, ref ApplicantRef) (*ShortlistedLead, error)
	Create(ctx context.Context, lead *ShortlistedLead) error
}

//go:generate mockgen -source=./port.go -destination=./mocks/port.mock.go -package=applicantmocks Evaluator,SnapshotArchive

// Evaluator produces a qualitative review of a serialized document.
// A nil evaluation with a nil error contributes nothing.
type Evaluator interface {
	Evaluate(ctx context.Context, document string) (*Evaluation, error)
}

// SnapshotArchive keeps every distinct serialized document
type SnapshotArchive interface {
	Store(ctx context.Context, ref ApplicantRef, hash kernel.ContentHash, document string) error
}

// DecompressQueue defines the interface for decompression requests
type DecompressQueue interface {
	// Enqueue adds a request to the queue
	Enqueue(ctx context.Context, req DecompressRequest) error

	// Dequeue blocks up to timeout; (nil, nil) means nothing arrived
	Dequeue(ctx context.Context, timeout time.Duration) (*DecompressRequest, error)

	// Size returns the number of waiting requests
	Size(ctx context.Context) (int64, error)
}
