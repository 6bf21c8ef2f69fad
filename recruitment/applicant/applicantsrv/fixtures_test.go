package applicantsrv

import (
	"context"
	"testing"

	"github.com/Abraxas-365/shortlist/internal/ai/evaluator"
	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/Abraxas-365/shortlist/pkg/logx"
	"github.com/Abraxas-365/shortlist/pkg/recordstore"
	"github.com/Abraxas-365/shortlist/pkg/recordstore/memstore"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
	"github.com/Abraxas-365/shortlist/recruitment/applicant/applicantinfra"
	"github.com/stretchr/testify/require"
)

func init() {
	logx.SetLevel(logx.LevelError)
}

type fixture struct {
	store *memstore.Store
	repos Collections
	stub  *evaluator.Stub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	return &fixture{
		store: store,
		repos: Collections{
			Applicants: applicantinfra.NewRecordApplicantRepository(store),
			Personal:   applicantinfra.NewPersonalDetailsRepository(store),
			Experience: applicantinfra.NewWorkExperienceRepository(store),
			Salary:     applicantinfra.NewSalaryPreferencesRepository(store),
			Leads:      applicantinfra.NewRecordLeadRepository(store),
		},
		stub: evaluator.NewStub(0),
	}
}

// seedApplicant creates a Pending applicant with one personal row, one
// salary row and the given experience rows, all linked both ways
func (f *fixture) seedApplicant(id, display string, personal, salary recordstore.Fields, experience ...recordstore.Fields) {
	back := []any{id}

	personalID := kernel.RecordID(id + "P")
	personal = personal.Clone()
	personal[applicant.FieldApplicantLink] = back
	f.store.Seed(applicant.TablePersonalDetails, personalID, personal)

	salaryID := kernel.RecordID(id + "S")
	salary = salary.Clone()
	salary[applicant.FieldApplicantLink] = back
	f.store.Seed(applicant.TableSalaryPreferences, salaryID, salary)

	expLinks := make([]any, 0, len(experience))
	for i, exp := range experience {
		expID := kernel.RecordID(id + "W" + string(rune('0'+i)))
		exp = exp.Clone()
		exp[applicant.FieldApplicantLink] = back
		f.store.Seed(applicant.TableWorkExperience, expID, exp)
		expLinks = append(expLinks, expID.String())
	}

	f.store.Seed(applicant.TableApplicants, kernel.RecordID(id), recordstore.Fields{
		"Applicant ID":            display,
		"Processing Status":       string(applicant.StatusPending),
		"Personal Details Link":   []any{personalID.String()},
		"Salary Preferences Link": []any{salaryID.String()},
		"Work Experience Link":    expLinks,
	})
}

func (f *fixture) seedQualified(id, display string) {
	f.seedApplicant(id, display,
		recordstore.Fields{"Full Name": "Ada Lovelace", "Email": "ada@example.com", "Location": "Remote, US"},
		recordstore.Fields{"Preferred Rate": 80, "Currency": "USD", "Availability (hrs/wk)": 25},
		recordstore.Fields{"Company": "Google", "Title": "SWE", "Years Experience": 5},
	)
}

func (f *fixture) update(t *testing.T, table, id string, fields recordstore.Fields) {
	t.Helper()
	_, err := f.store.Table(table).Update(context.Background(), kernel.RecordID(id), fields)
	require.NoError(t, err)
}

func (f *fixture) get(t *testing.T, table, id string) recordstore.Fields {
	t.Helper()
	rec, err := f.store.Table(table).Get(context.Background(), kernel.RecordID(id))
	require.NoError(t, err)
	return rec.Fields
}
