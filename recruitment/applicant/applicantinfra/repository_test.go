package applicantinfra

import (
	"context"
	"testing"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/pkg/recordstore"
	"github.com/Abraxas-365/shortlist/pkg/recordstore/memstore"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordApplicantRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.Seed(applicant.TableApplicants, "recA", recordstore.Fields{
		"Applicant ID":            12,
		"Processing Status":       "Pending",
		"JSON Hash":               "abc",
		"Personal Details Link":   []any{"recP"},
		"Work Experience Link":    []any{"recW1", "recW2"},
		"Salary Preferences Link": []any{"recS"},
	})
	repo := NewRecordApplicantRepository(store)

	a, err := repo.GetByID(ctx, "recA")

	require.NoError(t, err)
	assert.Equal(t, kernel.ApplicantID("recA"), a.ID)
	assert.Equal(t, kernel.DisplayID("12"), a.DisplayID)
	assert.Equal(t, applicant.StatusPending, a.Status)
	assert.Equal(t, kernel.ContentHash("abc"), a.JSONHash)
	assert.Equal(t, []string{"recW1", "recW2"}, a.WorkExperienceLink)
}

func TestRecordApplicantRepository_GetByIDMissing(t *testing.T) {
	repo := NewRecordApplicantRepository(memstore.New())

	_, err := repo.GetByID(context.Background(), "recNope")

	assert.True(t, errx.IsCode(err, applicant.CodeApplicantNotFound))
	assert.True(t, errx.IsCode(err, recordstore.CodeRecordNotFound))
}

func TestRecordApplicantRepository_ListByStatus(t *testing.T) {
	store := memstore.New()
	store.Seed(applicant.TableApplicants, "rec1", recordstore.Fields{"Processing Status": "Pending"})
	store.Seed(applicant.TableApplicants, "rec2", recordstore.Fields{"Processing Status": "Completed"})
	store.Seed(applicant.TableApplicants, "rec3", recordstore.Fields{"Processing Status": "Pending"})
	repo := NewRecordApplicantRepository(store)

	pending, err := repo.ListByStatus(context.Background(), applicant.StatusPending)

	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, kernel.ApplicantID("rec1"), pending[0].ID)
	assert.Equal(t, kernel.ApplicantID("rec3"), pending[1].ID)
}

func TestRecordApplicantRepository_SaveResult(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.Seed(applicant.TableApplicants, "recA", recordstore.Fields{"Processing Status": "In Progress"})
	repo := NewRecordApplicantRepository(store)

	err := repo.SaveResult(ctx, "recA", applicant.ProcessingResult{
		CompressedJSON:  `{"experience": []}`,
		Hash:            "h1",
		ShortlistStatus: kernel.ShortlistNo,
		Evaluation:      &applicant.Evaluation{Summary: "ok", Score: 7, Issues: "None", FollowUps: "- why?"},
	})
	require.NoError(t, err)

	a, err := repo.GetByID(ctx, "recA")
	require.NoError(t, err)
	assert.Equal(t, applicant.StatusCompleted, a.Status)
	assert.Equal(t, kernel.ContentHash("h1"), a.JSONHash)
	assert.Equal(t, kernel.ShortlistNo, a.ShortlistStatus)
	assert.Equal(t, "ok", a.LLMSummary)
	require.NotNil(t, a.LLMScore)
	assert.Equal(t, 7.0, *a.LLMScore)
}

func TestRecordApplicantRepository_SaveResultWithoutEvaluation(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.Seed(applicant.TableApplicants, "recA", recordstore.Fields{"LLM Summary": "previous"})
	repo := NewRecordApplicantRepository(store)

	require.NoError(t, repo.SaveResult(ctx, "recA", applicant.ProcessingResult{Hash: "h1", ShortlistStatus: kernel.ShortlistYes}))

	a, err := repo.GetByID(ctx, "recA")
	require.NoError(t, err)
	assert.Equal(t, "previous", a.LLMSummary)
}

func TestRecordApplicantRepository_UpdateStatusInvalid(t *testing.T) {
	repo := NewRecordApplicantRepository(memstore.New())

	err := repo.UpdateStatus(context.Background(), "recA", applicant.Status("Archived"))

	assert.True(t, errx.IsCode(err, applicant.CodeInvalidStatus))
}

func TestRecordLinkedRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	repo := NewPersonalDetailsRepository(store)
	ref := applicant.ApplicantRef{ID: "recA", DisplayID: "12"}

	id, err := repo.Create(ctx, ref, applicant.PersonalDetails{FullName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, applicant.ApplicantRef{ID: "recB", DisplayID: "13"}, applicant.PersonalDetails{FullName: "Bob"})
	require.NoError(t, err)

	found, err := repo.FindByApplicant(ctx, ref)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0].ID)
	assert.Equal(t, "Ada", found[0].Item.FullName)

	rec, err := store.Table(applicant.TablePersonalDetails).Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"recA"}, recordstore.LinkIDs(rec.Fields[applicant.FieldApplicantLink]))
}

func TestRecordLinkedRepository_Update(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	repo := NewSalaryPreferencesRepository(store)
	ref := applicant.ApplicantRef{ID: "recA", DisplayID: "recA"}
	rate := 90.0

	id, err := repo.Create(ctx, ref, applicant.SalaryPreferences{Currency: "USD"})
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, id, ref, applicant.SalaryPreferences{PreferredRate: &rate}))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Currency)
	require.NotNil(t, got.PreferredRate)
	assert.Equal(t, 90.0, *got.PreferredRate)
}

func TestRecordLinkedRepository_BatchCreateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	repo := NewWorkExperienceRepository(store)
	ref := applicant.ApplicantRef{ID: "recA", DisplayID: "recA"}

	ids, err := repo.BatchCreate(ctx, ref, []applicant.WorkExperience{{Company: "Acme"}, {Company: "Initech"}})
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	empty, err := repo.BatchCreate(ctx, ref, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, repo.BatchDelete(ctx, ids))
	require.NoError(t, repo.BatchDelete(ctx, nil))
	assert.Equal(t, 0, store.Count(applicant.TableWorkExperience))
}

func TestRecordLinkedRepository_GetByIDMissing(t *testing.T) {
	repo := NewWorkExperienceRepository(memstore.New())

	_, err := repo.GetByID(context.Background(), "recGone")

	assert.True(t, errx.IsCode(err, recordstore.CodeRecordNotFound))
}

func TestRecordLeadRepository(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	repo := NewRecordLeadRepository(store)
	ref := applicant.ApplicantRef{ID: "recA", DisplayID: "12"}

	none, err := repo.FindByApplicant(ctx, ref)
	require.NoError(t, err)
	assert.Nil(t, none)

	lead := &applicant.ShortlistedLead{Applicant: ref, CompressedJSON: "{}", ScoreReason: "because"}
	require.NoError(t, repo.Create(ctx, lead))
	assert.False(t, lead.ID.IsEmpty())
	assert.False(t, lead.CreatedAt.IsZero())

	found, err := repo.FindByApplicant(ctx, ref)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, lead.ID, found.ID)
	assert.Equal(t, "because", found.ScoreReason)
}

func TestRecordApplicantRepository_SetLinks(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.Seed(applicant.TableApplicants, "recA", recordstore.Fields{
		"Processing Status":    "Completed",
		"Work Experience Link": []any{"recW1", "recW2"},
	})
	repo := NewRecordApplicantRepository(store)

	err := repo.SetLinks(ctx, "recA", applicant.FieldWorkExperienceLink, []kernel.RecordID{"recW3"})
	require.NoError(t, err)

	a, err := repo.GetByID(ctx, "recA")
	require.NoError(t, err)
	assert.Equal(t, []string{"recW3"}, a.WorkExperienceLink)
	assert.Equal(t, applicant.StatusCompleted, a.Status)

	err = repo.SetLinks(ctx, "recA", "Processing Status", nil)
	assert.True(t, errx.IsCode(err, applicant.CodeInvalidRequest))

	err = repo.SetLinks(ctx, "recNope", applicant.FieldWorkExperienceLink, nil)
	assert.True(t, errx.IsCode(err, recordstore.CodeRecordNotFound))
}
