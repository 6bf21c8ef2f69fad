package applicant

import (
	"testing"

	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"github.com/stretchr/testify/assert"
)

func TestApplicant_Ref(t *testing.T) {
	withDisplay := &Applicant{ID: "recA", DisplayID: "17"}
	assert.Equal(t, ApplicantRef{ID: "recA", DisplayID: "17"}, withDisplay.Ref())

	withoutDisplay := &Applicant{ID: kernel.ApplicantID("recB")}
	assert.Equal(t, ApplicantRef{ID: "recB", DisplayID: "recB"}, withoutDisplay.Ref())
	assert.Equal(t, "recB", withoutDisplay.Label())
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusError.IsValid())
	assert.False(t, Status("Archived").IsValid())
}

func TestSubRecords_IsZero(t *testing.T) {
	var personal *PersonalDetails
	assert.True(t, personal.IsZero())
	assert.True(t, (&PersonalDetails{}).IsZero())
	assert.False(t, (&PersonalDetails{Email: "a@b.c"}).IsZero())

	var salary *SalaryPreferences
	assert.True(t, salary.IsZero())
	assert.False(t, (&SalaryPreferences{Availability: ptr(0)}).IsZero())
}
