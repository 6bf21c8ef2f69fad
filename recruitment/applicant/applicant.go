package applicant

import (
	"time"

	"github.com/Abraxas-365/shortlist/pkg/kernel"
)

// Collection names in the record store
const (
	TableApplicants        = "Applicants"
	TablePersonalDetails   = "Personal Details"
	TableWorkExperience    = "Work Experience"
	TableSalaryPreferences = "Salary Preferences"
	TableShortlistedLeads  = "Shortlisted Leads"
)

// Column names shared by more than one collection
const (
	FieldApplicantLink    = "Applicant Link"
	FieldProcessingStatus = "Processing Status"
	FieldLeadApplicant    = "Applicant"
)

// Link columns of the Applicants collection
const (
	FieldPersonalDetailsLink   = "Personal Details Link"
	FieldSalaryPreferencesLink = "Salary Preferences Link"
	FieldWorkExperienceLink    = "Work Experience Link"
)

// Status is the "Processing Status" of an applicant
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusError      Status = "Error"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusError:
		return true
	}
	return false
}

// Applicant is one row of the Applicants collection
type Applicant struct {
	ID kernel.ApplicantID `json:"-"`

	DisplayID       kernel.DisplayID       `json:"Applicant ID,omitempty"`
	Status          Status                 `json:"Processing Status,omitempty"`
	CompressedJSON  string                 `json:"Compressed JSON,omitempty"`
	JSONHash        kernel.ContentHash     `json:"JSON Hash,omitempty"`
	ShortlistStatus kernel.ShortlistStatus `json:"Shortlist Status,omitempty"`

	LLMSummary   string   `json:"LLM Summary,omitempty"`
	LLMScore     *float64 `json:"LLM Score,omitempty"`
	LLMIssues    string   `json:"LLM Issues,omitempty"`
	LLMFollowUps string   `json:"LLM Follow Ups,omitempty"`

	PersonalDetailsLink   []string `json:"Personal Details Link,omitempty"`
	SalaryPreferencesLink []string `json:"Salary Preferences Link,omitempty"`
	WorkExperienceLink    []string `json:"Work Experience Link,omitempty"`
}

// Ref returns the identity used to address the applicant's linked records
func (a *Applicant) Ref() ApplicantRef {
	display := a.DisplayID.String()
	if display == "" {
		display = a.ID.String()
	}
	return ApplicantRef{ID: a.ID, DisplayID: display}
}

// Label is what logs show for the applicant
func (a *Applicant) Label() string {
	return a.Ref().DisplayID
}

// ApplicantRef is the back-reference stored on linked records
type ApplicantRef struct {
	ID        kernel.ApplicantID `json:"id"`
	DisplayID string             `json:"display_id"`
}

// PersonalDetails is one row of Personal Details; at most one per applicant
type PersonalDetails struct {
	FullName string `json:"Full Name,omitempty"`
	Email    string `json:"Email,omitempty"`
	Location string `json:"Location,omitempty"`
	LinkedIn string `json:"LinkedIn,omitempty"`
}

func (p *PersonalDetails) IsZero() bool {
	return p == nil || *p == PersonalDetails{}
}

// WorkExperience is one row of Work Experience; any number per applicant
type WorkExperience struct {
	Company         string   `json:"Company,omitempty"`
	Title           string   `json:"Title,omitempty"`
	Start           string   `json:"Start,omitempty"`
	End             string   `json:"End,omitempty"`
	Technologies    string   `json:"Technologies,omitempty"`
	YearsExperience *float64 `json:"Years Experience,omitempty"`
}

func (w WorkExperience) Years() float64 {
	if w.YearsExperience == nil {
		return 0
	}
	return *w.YearsExperience
}

// SalaryPreferences is one row of Salary Preferences; at most one per applicant
type SalaryPreferences struct {
	PreferredRate *float64 `json:"Preferred Rate,omitempty"`
	MinimumRate   *float64 `json:"Minimum Rate,omitempty"`
	Currency      string   `json:"Currency,omitempty"`
	Availability  *float64 `json:"Availability (hrs/wk),omitempty"`
}

func (s *SalaryPreferences) IsZero() bool {
	return s == nil || (s.PreferredRate == nil && s.MinimumRate == nil && s.Currency == "" && s.Availability == nil)
}

// Linked pairs a sub-record with its record id
type Linked[T any] struct {
	ID   kernel.RecordID
	Item T
}

// ShortlistedLead is created once per applicant and never touched again
type ShortlistedLead struct {
	ID             kernel.RecordID `json:"-"`
	Applicant      ApplicantRef    `json:"-"`
	CompressedJSON string          `json:"Compressed JSON,omitempty"`
	ScoreReason    string          `json:"Score Reason,omitempty"`
	CreatedAt      time.Time       `json:"-"`
}
