package applicantinfra

import (
	"context"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/pkg/recordstore"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
)

// Applicant columns written back by the processor
const (
	fieldCompressedJSON  = "Compressed JSON"
	fieldJSONHash        = "JSON Hash"
	fieldShortlistStatus = "Shortlist Status"
	fieldLLMSummary      = "LLM Summary"
	fieldLLMScore        = "LLM Score"
	fieldLLMIssues       = "LLM Issues"
	fieldLLMFollowUps    = "LLM Follow Ups"
)

type RecordApplicantRepository struct {
	table recordstore.Table
}

func NewRecordApplicantRepository(store recordstore.Store) applicant.Repository {
	return &RecordApplicantRepository{table: store.Table(applicant.TableApplicants)}
}

// GetByID retrieves an applicant row
func (r *RecordApplicantRepository) GetByID(ctx context.Context, id kernel.ApplicantID) (*applicant.Applicant, error) {
	rec, err := r.table.Get(ctx, id.RecordID())
	if err != nil {
		if errx.IsCode(err, recordstore.CodeRecordNotFound) {
			return nil, applicant.ErrApplicantNotFound().
				WithDetail("applicant_id", id.String()).
				WithCause(err)
		}
		return nil, err
	}
	return toApplicant(*rec)
}

// ListByStatus retrieves applicants in the given processing status
func (r *RecordApplicantRepository) ListByStatus(ctx context.Context, status applicant.Status) ([]*applicant.Applicant, error) {
	records, err := r.table.All(ctx, recordstore.Eq(applicant.FieldProcessingStatus, string(status)))
	if err != nil {
		return nil, err
	}

	applicants := make([]*applicant.Applicant, 0, len(records))
	for _, rec := range records {
		a, err := toApplicant(rec)
		if err != nil {
			return nil, err
		}
		applicants = append(applicants, a)
	}
	return applicants, nil
}

// UpdateStatus patches the processing status only
func (r *RecordApplicantRepository) UpdateStatus(ctx context.Context, id kernel.ApplicantID, status applicant.Status) error {
	if !status.IsValid() {
		return applicant.ErrInvalidStatus().WithDetail("status", string(status))
	}
	_, err := r.table.Update(ctx, id.RecordID(), recordstore.Fields{
		applicant.FieldProcessingStatus: string(status),
	})
	return err
}

// SaveResult writes the aggregation outcome in a single patch
func (r *RecordApplicantRepository) SaveResult(ctx context.Context, id kernel.ApplicantID, result applicant.ProcessingResult) error {
	fields := recordstore.Fields{
		fieldCompressedJSON:             result.CompressedJSON,
		fieldJSONHash:                   result.Hash.String(),
		fieldShortlistStatus:            string(result.ShortlistStatus),
		applicant.FieldProcessingStatus: string(applicant.StatusCompleted),
	}

	if eval := result.Evaluation; eval != nil {
		fields[fieldLLMSummary] = eval.Summary
		fields[fieldLLMScore] = eval.Score
		fields[fieldLLMIssues] = eval.Issues
		fields[fieldLLMFollowUps] = eval.FollowUps
	}

	_, err := r.table.Update(ctx, id.RecordID(), fields)
	return err
}

// SetLinks patches a link column with the given record ids
func (r *RecordApplicantRepository) SetLinks(ctx context.Context, id kernel.ApplicantID, column string, ids []kernel.RecordID) error {
	switch column {
	case applicant.FieldPersonalDetailsLink, applicant.FieldSalaryPreferencesLink, applicant.FieldWorkExperienceLink:
	default:
		return applicant.ErrInvalidRequest().WithDetail("column", column)
	}

	links := make([]string, 0, len(ids))
	for _, rid := range ids {
		links = append(links, rid.String())
	}
	_, err := r.table.Update(ctx, id.RecordID(), recordstore.Fields{column: links})
	return err
}

func toApplicant(rec recordstore.Record) (*applicant.Applicant, error) {
	var a applicant.Applicant
	if err := recordstore.Decode(rec.Fields, &a); err != nil {
		return nil, errx.Wrap(err, "decode applicant", errx.TypeValidation).
			WithDetail("applicant_id", rec.ID.String())
	}
	a.ID = kernel.ApplicantID(rec.ID)
	return &a, nil
}
