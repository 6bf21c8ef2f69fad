package applicantinfra

import (
	"context"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/pkg/recordstore"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
)

// RecordLinkedRepository stores one child collection of the applicant.
// Rows are typed by T and carry the back-reference in "Applicant Link".
type RecordLinkedRepository[T any] struct {
	table recordstore.Table
}

func NewPersonalDetailsRepository(store recordstore.Store) applicant.PersonalDetailsRepository {
	return &RecordLinkedRepository[applicant.PersonalDetails]{table: store.Table(applicant.TablePersonalDetails)}
}

func NewWorkExperienceRepository(store recordstore.Store) applicant.WorkExperienceRepository {
	return &RecordLinkedRepository[applicant.WorkExperience]{table: store.Table(applicant.TableWorkExperience)}
}

func NewSalaryPreferencesRepository(store recordstore.Store) applicant.SalaryPreferencesRepository {
	return &RecordLinkedRepository[applicant.SalaryPreferences]{table: store.Table(applicant.TableSalaryPreferences)}
}

func (r *RecordLinkedRepository[T]) GetByID(ctx context.Context, id kernel.RecordID) (*T, error) {
	rec, err := r.table.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := r.decode(*rec)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *RecordLinkedRepository[T]) FindByApplicant(ctx context.Context, ref applicant.ApplicantRef) ([]applicant.Linked[T], error) {
	records, err := r.table.All(ctx, recordstore.Linked(applicant.FieldApplicantLink, ref.ID.RecordID(), ref.DisplayID))
	if err != nil {
		return nil, err
	}

	out := make([]applicant.Linked[T], 0, len(records))
	for _, rec := range records {
		item, err := r.decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, applicant.Linked[T]{ID: rec.ID, Item: item})
	}
	return out, nil
}

func (r *RecordLinkedRepository[T]) Create(ctx context.Context, ref applicant.ApplicantRef, item T) (kernel.RecordID, error) {
	fields, err := r.encode(ref, item)
	if err != nil {
		return "", err
	}
	rec, err := r.table.Create(ctx, fields)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (r *RecordLinkedRepository[T]) Update(ctx context.Context, id kernel.RecordID, ref applicant.ApplicantRef, item T) error {
	fields, err := r.encode(ref, item)
	if err != nil {
		return err
	}
	_, err = r.table.Update(ctx, id, fields)
	return err
}

func (r *RecordLinkedRepository[T]) BatchCreate(ctx context.Context, ref applicant.ApplicantRef, items []T) ([]kernel.RecordID, error) {
	if len(items) == 0 {
		return []kernel.RecordID{}, nil
	}

	batch := make([]recordstore.Fields, 0, len(items))
	for _, item := range items {
		fields, err := r.encode(ref, item)
		if err != nil {
			return nil, err
		}
		batch = append(batch, fields)
	}

	records, err := r.table.BatchCreate(ctx, batch)
	ids := make([]kernel.RecordID, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	return ids, err
}

func (r *RecordLinkedRepository[T]) BatchDelete(ctx context.Context, ids []kernel.RecordID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.table.BatchDelete(ctx, ids)
}

func (r *RecordLinkedRepository[T]) decode(rec recordstore.Record) (T, error) {
	var item T
	if err := recordstore.Decode(rec.Fields, &item); err != nil {
		return item, errx.Wrap(err, "decode linked record", errx.TypeValidation).
			WithDetail("table", r.table.Name()).
			WithDetail("record_id", rec.ID.String())
	}
	return item, nil
}

func (r *RecordLinkedRepository[T]) encode(ref applicant.ApplicantRef, item T) (recordstore.Fields, error) {
	fields, err := recordstore.Encode(item)
	if err != nil {
		return nil, err
	}
	fields[applicant.FieldApplicantLink] = []string{ref.ID.String()}
	return fields, nil
}
