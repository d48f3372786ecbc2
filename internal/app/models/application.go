package models

import "time"

// Application represents one applicant's submitted record.
// It is immutable after creation except for the Status field, which admins
// move through the pending/reviewed/accepted/rejected workflow.
type Application struct {
	ID            int64  `json:"id"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Mobile        string `json:"mobile"`
	FacebookLink  string `json:"facebookLink"`
	PersonalPhoto string `json:"personalPhoto"` // stored file reference under applications/photos/

	University   string       `json:"university"`
	Faculty      string       `json:"faculty"`
	Department   string       `json:"department"`
	AcademicYear AcademicYear `json:"academicYear"`

	PreviousExperience        string  `json:"previousExperience"`
	WhyApplying               string  `json:"whyApplying"`
	HowBenefit                string  `json:"howBenefit"`
	WhyCommittee              string  `json:"whyCommittee"`
	CommitteeResponsibilities string  `json:"committeeResponsibilities"`
	OpenSpace                 *string `json:"openSpace,omitempty"`

	// CommitteeChoices holds the chosen committee names in selection order.
	// Persisted through the application_committees join table rather than a
	// serialized array; names are resolved by join.
	CommitteeChoices []string `json:"committeeChoices"`

	Status      ApplicationStatus `json:"status"`
	SubmittedAt time.Time         `json:"submittedAt"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}
