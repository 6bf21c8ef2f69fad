package applicantsrv

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/pkg/logx"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
	"github.com/google/uuid"
)

// Processor compresses every pending applicant into a single JSON document,
// decides the shortlist and asks the evaluator about changed documents.
type Processor struct {
	repos     Collections
	evaluator applicant.Evaluator
	archive   applicant.SnapshotArchive

	running sync.Mutex
}

// NewProcessor creates a processor. archive may be nil.
func NewProcessor(repos Collections, evaluator applicant.Evaluator, archive applicant.SnapshotArchive) *Processor {
	return &Processor{
		repos:     repos,
		evaluator: evaluator,
		archive:   archive,
	}
}

type outcome struct {
	shortlisted bool
	leadCreated bool
	evaluated   bool
}

// Run processes all applicants whose status is Pending, one at a time.
// Only a failure to list them aborts the run; a failing applicant is marked
// Error and the run moves on. A second Run while one is active fails with
// ErrRunInProgress.
func (p *Processor) Run(ctx context.Context) (*applicant.RunReport, error) {
	if !p.running.TryLock() {
		return nil, applicant.ErrRunInProgress()
	}
	defer p.running.Unlock()

	report := &applicant.RunReport{
		RunID:     kernel.NewRunID(uuid.NewString()),
		StartedAt: time.Now().UTC(),
	}

	pending, err := p.repos.Applicants.ListByStatus(ctx, applicant.StatusPending)
	if err != nil {
		return nil, stepError(err, "list_pending")
	}
	report.Total = len(pending)
	logx.Infof("Run %s: %d pending applicants", report.RunID, report.Total)

	for _, a := range pending {
		if err := ctx.Err(); err != nil {
			logx.Warnf("Run %s interrupted after %d applicants: %v", report.RunID, report.Completed+report.Failed, err)
			report.FinishedAt = time.Now().UTC()
			return report, err
		}

		result, err := p.processOne(ctx, a)
		if err != nil {
			logx.Errorf("Applicant %s failed: %v", a.Label(), err)
			report.Fail(a.Label(), err)
			if uerr := p.repos.Applicants.UpdateStatus(ctx, a.ID, applicant.StatusError); uerr != nil {
				logx.Errorf("Applicant %s: could not set status %s: %v", a.Label(), applicant.StatusError, uerr)
			}
			continue
		}

		report.Completed++
		if result.shortlisted {
			report.Shortlisted++
		}
		if result.leadCreated {
			report.LeadsCreated++
		}
		if result.evaluated {
			report.Evaluated++
		} else {
			report.Unchanged++
		}
	}

	report.FinishedAt = time.Now().UTC()
	logx.Infof("Run %s finished: total=%d completed=%d failed=%d shortlisted=%d leads=%d evaluated=%d unchanged=%d",
		report.RunID, report.Total, report.Completed, report.Failed,
		report.Shortlisted, report.LeadsCreated, report.Evaluated, report.Unchanged)

	return report, nil
}

func (p *Processor) processOne(ctx context.Context, a *applicant.Applicant) (outcome, error) {
	var out outcome
	ref := a.Ref()
	logx.Infof("Processing applicant %s", ref.DisplayID)

	if err := p.repos.Applicants.UpdateStatus(ctx, a.ID, applicant.StatusInProgress); err != nil {
		return out, stepError(err, "mark_in_progress")
	}

	if missing := missingLinks(a); len(missing) > 0 {
		return out, applicant.ErrMissingLink().
			WithDetail("applicant_id", a.ID.String()).
			WithDetail("link", missing)
	}

	doc, err := p.buildDocument(ctx, a)
	if err != nil {
		return out, err
	}

	serialized, err := doc.Serialize()
	if err != nil {
		return out, err
	}
	hash := applicant.HashDocument(serialized)

	decision := applicant.EvaluateShortlist(*doc)
	out.shortlisted = decision.Shortlisted
	if decision.Shortlisted {
		out.leadCreated, err = p.ensureLead(ctx, ref, serialized, decision.Reason)
		if err != nil {
			return out, err
		}
	}

	result := applicant.ProcessingResult{
		CompressedJSON:  serialized,
		Hash:            hash,
		ShortlistStatus: decision.Status(),
	}

	if hash != a.JSONHash {
		eval, err := p.evaluator.Evaluate(ctx, serialized)
		if err != nil {
			return out, applicant.ErrRegistry.NewWithCause(applicant.CodeEvaluationFailed, err).
				WithDetail("applicant_id", a.ID.String())
		}
		result.Evaluation = eval
		out.evaluated = true
		p.archiveSnapshot(ctx, ref, hash, serialized)
	} else {
		logx.Infof("Applicant %s unchanged (hash %s), skipping evaluation", ref.DisplayID, hash)
	}

	if err := p.repos.Applicants.SaveResult(ctx, a.ID, result); err != nil {
		return out, stepError(err, "save_result")
	}

	logx.Infof("Applicant %s completed: shortlisted=%t evaluated=%t", ref.DisplayID, out.shortlisted, out.evaluated)
	return out, nil
}

func missingLinks(a *applicant.Applicant) []string {
	missing := make([]string, 0, 3)
	if len(a.PersonalDetailsLink) == 0 {
		missing = append(missing, applicant.TablePersonalDetails)
	}
	if len(a.SalaryPreferencesLink) == 0 {
		missing = append(missing, applicant.TableSalaryPreferences)
	}
	if len(a.WorkExperienceLink) == 0 {
		missing = append(missing, applicant.TableWorkExperience)
	}
	return missing
}

// buildDocument reads the first linked personal and salary rows and every
// linked experience row, in link order
func (p *Processor) buildDocument(ctx context.Context, a *applicant.Applicant) (*applicant.Document, error) {
	personal, err := p.repos.Personal.GetByID(ctx, kernel.RecordID(a.PersonalDetailsLink[0]))
	if err != nil {
		return nil, stepError(err, "fetch_personal")
	}

	salary, err := p.repos.Salary.GetByID(ctx, kernel.RecordID(a.SalaryPreferencesLink[0]))
	if err != nil {
		return nil, stepError(err, "fetch_salary")
	}

	experience := make([]applicant.WorkExperience, 0, len(a.WorkExperienceLink))
	for _, id := range kernel.RecordIDs(a.WorkExperienceLink) {
		exp, err := p.repos.Experience.GetByID(ctx, id)
		if err != nil {
			return nil, stepError(err, "fetch_experience")
		}
		experience = append(experience, *exp)
	}

	return &applicant.Document{
		Personal:   personal,
		Experience: experience,
		Salary:     salary,
	}, nil
}

// ensureLead creates the applicant's lead unless one already exists
func (p *Processor) ensureLead(ctx context.Context, ref applicant.ApplicantRef, serialized, reason string) (bool, error) {
	existing, err := p.repos.Leads.FindByApplicant(ctx, ref)
	if err != nil {
		return false, stepError(err, "find_lead")
	}
	if existing != nil {
		logx.Debugf("Applicant %s already has lead %s", ref.DisplayID, existing.ID)
		return false, nil
	}

	lead := &applicant.ShortlistedLead{
		Applicant:      ref,
		CompressedJSON: serialized,
		ScoreReason:    reason,
	}
	if err := p.repos.Leads.Create(ctx, lead); err != nil {
		return false, stepError(err, "create_lead")
	}

	logx.Infof("Applicant %s shortlisted, lead %s created", ref.DisplayID, lead.ID)
	return true, nil
}

func (p *Processor) archiveSnapshot(ctx context.Context, ref applicant.ApplicantRef, hash kernel.ContentHash, serialized string) {
	if p.archive == nil {
		return
	}
	if err := p.archive.Store(ctx, ref, hash, serialized); err != nil {
		logx.Warnf("Applicant %s: snapshot %s not archived: %v", ref.DisplayID, hash, err)
	}
}
