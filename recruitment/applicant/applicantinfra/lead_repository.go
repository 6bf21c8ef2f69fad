package applicantinfra

import (
	"context"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/Abraxas-365/shortlist/pkg/recordstore"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
)

type RecordLeadRepository struct {
	table recordstore.Table
}

func NewRecordLeadRepository(store recordstore.Store) applicant.LeadRepository {
	return &RecordLeadRepository{table: store.Table(applicant.TableShortlistedLeads)}
}

// FindByApplicant returns the applicant's lead, or nil when there is none
func (r *RecordLeadRepository) FindByApplicant(ctx context.Context, ref applicant.ApplicantRef) (*applicant.ShortlistedLead, error) {
	rec, err := r.table.First(ctx, recordstore.Linked(applicant.FieldLeadApplicant, ref.ID.RecordID(), ref.DisplayID))
	if err != nil || rec == nil {
		return nil, err
	}

	var lead applicant.ShortlistedLead
	if err := recordstore.Decode(rec.Fields, &lead); err != nil {
		return nil, errx.Wrap(err, "decode lead", errx.TypeValidation).
			WithDetail("record_id", rec.ID.String())
	}
	lead.ID = rec.ID
	lead.Applicant = ref
	lead.CreatedAt = rec.CreatedTime
	return &lead, nil
}

// Create inserts the lead and fills in its id and creation time
func (r *RecordLeadRepository) Create(ctx context.Context, lead *applicant.ShortlistedLead) error {
	fields, err := recordstore.Encode(lead)
	if err != nil {
		return err
	}
	fields[applicant.FieldLeadApplicant] = []string{lead.Applicant.ID.String()}

	rec, err := r.table.Create(ctx, fields)
	if err != nil {
		return err
	}
	lead.ID = rec.ID
	lead.CreatedAt = rec.CreatedTime
	return nil
}
