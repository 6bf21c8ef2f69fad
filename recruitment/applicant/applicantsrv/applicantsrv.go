package applicantsrv

import (
	"errors"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
)

// Collections groups the repositories of the applicant base
type Collections struct {
	Applicants applicant.Repository
	Personal   applicant.PersonalDetailsRepository
	Experience applicant.WorkExperienceRepository
	Salary     applicant.SalaryPreferencesRepository
	Leads      applicant.LeadRepository
}

// stepError keeps structured errors as they are and wraps anything else
// as a processing failure of the named step
func stepError(err error, step string) error {
	var e *errx.Error
	if errors.As(err, &e) {
		return e
	}
	return applicant.ErrRegistry.NewWithCause(applicant.CodeProcessingFailed, err).
		WithDetail("step", step)
}
