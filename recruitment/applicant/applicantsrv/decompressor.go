package applicantsrv

import (
	"context"
	"errors"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/pkg/logx"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
)

// Decompressor writes an applicant's stored document back out to the
// linked collections
type Decompressor struct {
	repos Collections
	queue applicant.DecompressQueue
}

func NewDecompressor(repos Collections) *Decompressor {
	return &Decompressor{repos: repos}
}

// WithQueue makes Submit enqueue instead of running inline
func (d *Decompressor) WithQueue(queue applicant.DecompressQueue) *Decompressor {
	d.queue = queue
	return d
}

// Decompress upserts personal and salary rows and replaces the experience
// rows, pointing the applicant's link columns at the rows it created.
// Writes already made are kept when a later one fails.
func (d *Decompressor) Decompress(ctx context.Context, id kernel.ApplicantID) (*applicant.DecompressReport, error) {
	a, err := d.repos.Applicants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	doc, err := applicant.ParseDocument(a.CompressedJSON)
	if err != nil {
		var e *errx.Error
		if errors.As(err, &e) {
			e.WithDetail("applicant_id", a.ID.String())
		}
		return nil, err
	}

	ref := a.Ref()
	report := &applicant.DecompressReport{ApplicantID: a.ID, DisplayID: ref.DisplayID}
	logx.Infof("Decompressing applicant %s", ref.DisplayID)

	if !doc.Personal.IsZero() {
		rid, created, err := upsertOne(ctx, d.repos.Personal, ref, *doc.Personal)
		if err != nil {
			return report, stepError(err, "upsert_personal")
		}
		report.PersonalCreated, report.PersonalUpdated = created, !created
		if created {
			if err := d.repos.Applicants.SetLinks(ctx, a.ID, applicant.FieldPersonalDetailsLink, []kernel.RecordID{rid}); err != nil {
				return report, stepError(err, "link_personal")
			}
		}
	}

	if !doc.Salary.IsZero() {
		rid, created, err := upsertOne(ctx, d.repos.Salary, ref, *doc.Salary)
		if err != nil {
			return report, stepError(err, "upsert_salary")
		}
		report.SalaryCreated, report.SalaryUpdated = created, !created
		if created {
			if err := d.repos.Applicants.SetLinks(ctx, a.ID, applicant.FieldSalaryPreferencesLink, []kernel.RecordID{rid}); err != nil {
				return report, stepError(err, "link_salary")
			}
		}
	}

	// An absent experience key leaves the rows alone; an empty one clears them
	if doc.Experience != nil {
		existing, err := d.repos.Experience.FindByApplicant(ctx, ref)
		if err != nil {
			return report, stepError(err, "find_experience")
		}

		ids := make([]kernel.RecordID, 0, len(existing))
		for _, e := range existing {
			ids = append(ids, e.ID)
		}
		if err := d.repos.Experience.BatchDelete(ctx, ids); err != nil {
			return report, stepError(err, "delete_experience")
		}
		report.ExperienceDeleted = len(ids)

		created, err := d.repos.Experience.BatchCreate(ctx, ref, doc.Experience)
		report.ExperienceCreated = len(created)

		// Deleted ids must not stay in the applicant's link column
		if lerr := d.repos.Applicants.SetLinks(ctx, a.ID, applicant.FieldWorkExperienceLink, created); lerr != nil && err == nil {
			err = lerr
		}
		if err != nil {
			return report, stepError(err, "create_experience")
		}
	}

	logx.Infof("Applicant %s decompressed: personal created=%t updated=%t, salary created=%t updated=%t, experience -%d +%d",
		ref.DisplayID, report.PersonalCreated, report.PersonalUpdated,
		report.SalaryCreated, report.SalaryUpdated,
		report.ExperienceDeleted, report.ExperienceCreated)

	return report, nil
}

// Submit runs the decompression inline, or queues it when a queue is set.
// A nil report with a nil error means the request was queued.
func (d *Decompressor) Submit(ctx context.Context, id kernel.ApplicantID) (*applicant.DecompressReport, error) {
	if d.queue == nil {
		return d.Decompress(ctx, id)
	}

	// Reject unknown ids before they reach the worker
	if _, err := d.repos.Applicants.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := d.queue.Enqueue(ctx, applicant.DecompressRequest{ApplicantID: id, RequestedAt: time.Now().UTC()}); err != nil {
		return nil, err
	}
	logx.Infof("Decompression of %s queued", id)
	return nil, nil
}

// upsertOne updates the first row linked to the applicant or creates one.
// It returns the id of the row written and whether it was created.
func upsertOne[T any](ctx context.Context, repo applicant.LinkedRepository[T], ref applicant.ApplicantRef, item T) (kernel.RecordID, bool, error) {
	existing, err := repo.FindByApplicant(ctx, ref)
	if err != nil {
		return "", false, err
	}
	if len(existing) > 0 {
		return existing[0].ID, false, repo.Update(ctx, existing[0].ID, ref, item)
	}
	id, err := repo.Create(ctx, ref, item)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}
