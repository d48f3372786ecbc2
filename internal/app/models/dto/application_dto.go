package dto

import (
	"time"

	"github.com/spesuez/recruitment/internal/app/models"
)

// SubmitApplicationRequest carries the multipart form fields of a public
// submission. The personal photo file is read from the request separately.
type SubmitApplicationRequest struct {
	FullName                  string   `form:"full_name"`
	Email                     string   `form:"email"`
	Mobile                    string   `form:"mobile"`
	FacebookLink              string   `form:"facebook_link"`
	University                string   `form:"university"`
	Faculty                   string   `form:"faculty"`
	Department                string   `form:"department"`
	AcademicYear              string   `form:"academic_year"`
	PreviousExperience        string   `form:"previous_experience"`
	WhyApplying               string   `form:"why_applying"`
	HowBenefit                string   `form:"how_benefit"`
	CommitteeChoices          []string `form:"committee_choices[]"`
	WhyCommittee              string   `form:"why_committee"`
	CommitteeResponsibilities string   `form:"committee_responsibilities"`
	OpenSpace                 string   `form:"open_space"`
}

// ListApplicationsQuery holds the admin listing query parameters.
type ListApplicationsQuery struct {
	Status    string `form:"status"`
	Committee int64  `form:"committee"`
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// ApplicationResponse is the full application representation returned to
// the admin back-office.
type ApplicationResponse struct {
	ID                        int64     `json:"id"`
	FullName                  string    `json:"fullName"`
	Email                     string    `json:"email"`
	Mobile                    string    `json:"mobile"`
	FacebookLink              string    `json:"facebookLink"`
	PersonalPhoto             string    `json:"personalPhoto"`
	University                string    `json:"university"`
	Faculty                   string    `json:"faculty"`
	Department                string    `json:"department"`
	AcademicYear              string    `json:"academicYear"`
	PreviousExperience        string    `json:"previousExperience"`
	WhyApplying               string    `json:"whyApplying"`
	HowBenefit                string    `json:"howBenefit"`
	CommitteeChoices          []string  `json:"committeeChoices"`
	WhyCommittee              string    `json:"whyCommittee"`
	CommitteeResponsibilities string    `json:"committeeResponsibilities"`
	OpenSpace                 *string   `json:"openSpace,omitempty"`
	Status                    string    `json:"status"`
	SubmittedAt               time.Time `json:"submittedAt"`
}

// FromApplication converts a model.Application to an ApplicationResponse.
func FromApplication(app *models.Application) ApplicationResponse {
	if app == nil {
		return ApplicationResponse{}
	}
	return ApplicationResponse{
		ID:                        app.ID,
		FullName:                  app.FullName,
		Email:                     app.Email,
		Mobile:                    app.Mobile,
		FacebookLink:              app.FacebookLink,
		PersonalPhoto:             app.PersonalPhoto,
		University:                app.University,
		Faculty:                   app.Faculty,
		Department:                app.Department,
		AcademicYear:              string(app.AcademicYear),
		PreviousExperience:        app.PreviousExperience,
		WhyApplying:               app.WhyApplying,
		HowBenefit:                app.HowBenefit,
		CommitteeChoices:          app.CommitteeChoices,
		WhyCommittee:              app.WhyCommittee,
		CommitteeResponsibilities: app.CommitteeResponsibilities,
		OpenSpace:                 app.OpenSpace,
		Status:                    string(app.Status),
		SubmittedAt:               app.SubmittedAt,
	}
}

// ApplicationSummary is the short confirmation payload returned to the
// applicant after a successful submission.
type ApplicationSummary struct {
	ID               int64     `json:"id"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	CommitteeChoices []string  `json:"committeeChoices"`
	Status           string    `json:"status"`
	SubmittedAt      time.Time `json:"submittedAt"`
	Message          string    `json:"message"`
	NextSteps        []string  `json:"nextSteps"`
	ContactEmail     string    `json:"contactEmail"`
}

// ApplicationListResponse is the paginated admin listing payload.
type ApplicationListResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	Pagination   PaginationInfo        `json:"pagination"`
	Filters      AppliedFilters        `json:"filters"`
}

// AppliedFilters echoes the filter parameters the listing was built with,
// so the back-office UI can keep its controls in sync.
type AppliedFilters struct {
	Status    string `json:"status"`
	Committee string `json:"committee"`
	Search    string `json:"search"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

// UpdateStatusRequest moves an application through the review workflow.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending reviewed accepted rejected"`
}

// FormPayload is the wizard bootstrap payload: open committees, academic
// year labels and the static first-section instructions.
type FormPayload struct {
	Committees       []CommitteeResponse `json:"committees"`
	AcademicYears    map[string]string   `json:"academicYears"`
	ChoiceLimits     ChoiceLimitsInfo    `json:"choiceLimits"`
	FormInstructions FormInstructions    `json:"formInstructions"`
}

// ChoiceLimitsInfo exposes the configured committee-choice bounds.
type ChoiceLimitsInfo struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FormInstructions carries the static introduction copy of the wizard.
type FormInstructions struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Tips     []string `json:"tips"`
	Note     string   `json:"note"`
	Contact  string   `json:"contact"`
}

// ClosedPayload is returned when recruitment is closed or no committee is
// accepting applications.
type ClosedPayload struct {
	Closed       bool   `json:"closed"`
	Message      string `json:"message"`
	ContactEmail string `json:"contactEmail"`
}
