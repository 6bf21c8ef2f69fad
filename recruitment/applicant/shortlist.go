package applicant

import (
	"fmt"
	"strings"

	"github.com/Abraxas-365/shortlist/pkg/kernel"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// TierOneCompanies qualify on their own for the experience criterion
	TierOneCompanies = []string{"google", "meta", "openai", "apple", "amazon", "netflix", "microsoft", "aws"}

	// AllowedLocations are matched as substrings of the declared location
	AllowedLocations = []string{"us", "canada", "uk", "germany", "india"}
)

const (
	MinTotalYears    = 4.0
	MaxPreferredRate = 100.0
	RequiredCurrency = "USD"
	MinAvailability  = 20.0
)

type ShortlistCriteria struct {
	Experience   bool `json:"experience"`
	Compensation bool `json:"compensation"`
	Location     bool `json:"location"`
}

func (c ShortlistCriteria) All() bool {
	return c.Experience && c.Compensation && c.Location
}

// ShortlistDecision is the outcome of EvaluateShortlist. Reason holds one
// line per satisfied criterion, even when the applicant is not shortlisted.
type ShortlistDecision struct {
	Shortlisted bool              `json:"shortlisted"`
	Reason      string            `json:"reason"`
	Criteria    ShortlistCriteria `json:"criteria"`
	TotalYears  float64           `json:"total_years"`
	TierOne     bool              `json:"tier_one"`
}

func (d ShortlistDecision) Status() kernel.ShortlistStatus {
	if d.Shortlisted {
		return kernel.ShortlistYes
	}
	return kernel.ShortlistNo
}

// EvaluateShortlist applies the experience, compensation and location rules
func EvaluateShortlist(doc Document) ShortlistDecision {
	var decision ShortlistDecision
	reasons := make([]string, 0, 3)

	for _, exp := range doc.Experience {
		decision.TotalYears += exp.Years()
		if isTierOne(exp.Company) {
			decision.TierOne = true
		}
	}
	if decision.TotalYears >= MinTotalYears || decision.TierOne {
		decision.Criteria.Experience = true
		reasons = append(reasons, fmt.Sprintf("Experience criterion met (Total: %.1f years, Tier-1: %t).",
			decision.TotalYears, decision.TierOne))
	}

	if salary := doc.Salary; salary != nil &&
		salary.PreferredRate != nil && *salary.PreferredRate <= MaxPreferredRate &&
		strings.EqualFold(strings.TrimSpace(salary.Currency), RequiredCurrency) &&
		salary.Availability != nil && *salary.Availability >= MinAvailability {
		decision.Criteria.Compensation = true
		reasons = append(reasons, fmt.Sprintf("Compensation criterion met (Rate: $%g, Availability: %g hrs/wk).",
			*salary.PreferredRate, *salary.Availability))
	}

	if doc.Personal != nil {
		location := strings.ToLower(doc.Personal.Location)
		for _, allowed := range AllowedLocations {
			if strings.Contains(location, allowed) {
				decision.Criteria.Location = true
				reasons = append(reasons, fmt.Sprintf("Location criterion met (Location: %s).",
					cases.Title(language.Und).String(location)))
				break
			}
		}
	}

	decision.Shortlisted = decision.Criteria.All()
	decision.Reason = strings.Join(reasons, "\n")
	return decision
}

func isTierOne(company string) bool {
	company = strings.ToLower(strings.TrimSpace(company))
	for _, c := range TierOneCompanies {
		if company == c {
			return true
		}
	}
	return false
}
