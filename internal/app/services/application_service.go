package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/spesuez/recruitment/internal/app/models"
	"github.com/spesuez/recruitment/internal/app/models/dto"
	"github.com/spesuez/recruitment/internal/app/notify"
	"github.com/spesuez/recruitment/internal/app/repositories"
	"github.com/spesuez/recruitment/internal/pkg/apperrors"
	"github.com/spesuez/recruitment/internal/pkg/email"
	"github.com/spesuez/recruitment/internal/pkg/filestorage"
	"github.com/spesuez/recruitment/internal/pkg/helpers"
	"github.com/spesuez/recruitment/internal/pkg/logger"
	"github.com/spesuez/recruitment/internal/pkg/validation"
)

// photoSubdir is where applicant photos land under the storage root.
const photoSubdir = "applications/photos"

// applicationStore is the application persistence surface the service needs.
type applicationStore interface {
	Create(ctx context.Context, app *models.Application, committeeIDs []int64) (int64, error)
	GetAll(ctx context.Context, page, pageSize int, filter repositories.ApplicationFilter) ([]models.Application, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error
	PurgeAll(ctx context.Context) (int64, error)
}

// committeeReader is the committee lookup surface the submission flow needs.
type committeeReader interface {
	GetAll(ctx context.Context, openOnly bool) ([]models.Committee, error)
	GetOpenByNames(ctx context.Context, names []string) ([]models.Committee, error)
}

// ApplicationService defines the interface for application operations
type ApplicationService interface {
	GetForm(ctx context.Context) (*dto.FormPayload, *dto.ClosedPayload, error)
	Submit(ctx context.Context, req *dto.SubmitApplicationRequest, photo *multipart.FileHeader) (*dto.ApplicationSummary, error)
	List(ctx context.Context, query *dto.ListApplicationsQuery) (*dto.ApplicationListResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.ApplicationResponse, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	PurgeAll(ctx context.Context) (int64, error)
}

// applicationServiceImpl implements ApplicationService
type applicationServiceImpl struct {
	applicationRepo applicationStore
	committeeRepo   committeeReader
	storage         filestorage.FileStorage
	dispatcher      notify.Dispatcher
	settings        RecruitmentSettings
	now             func() time.Time
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	applicationRepo applicationStore,
	committeeRepo committeeReader,
	storage filestorage.FileStorage,
	dispatcher notify.Dispatcher,
	settings RecruitmentSettings,
) ApplicationService {
	return &applicationServiceImpl{
		applicationRepo: applicationRepo,
		committeeRepo:   committeeRepo,
		storage:         storage,
		dispatcher:      dispatcher,
		settings:        settings,
		now:             time.Now,
	}
}

// GetForm returns the wizard bootstrap payload. When recruitment is
// closed or no committee accepts applications, a closed payload with the
// user-facing message is returned instead.
func (s *applicationServiceImpl) GetForm(ctx context.Context) (*dto.FormPayload, *dto.ClosedPayload, error) {
	if !s.settings.IsOpenAt(s.now()) {
		return nil, s.closedPayload("Recruitment is currently closed. Follow our page for the next recruitment announcement."), nil
	}

	committees, err := s.committeeRepo.GetAll(ctx, true)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting open committees: %w", err)
	}
	if len(committees) == 0 {
		return nil, s.closedPayload("No committees are currently accepting applications. Please check back later."), nil
	}

	committeeResponses := make([]dto.CommitteeResponse, 0, len(committees))
	for i := range committees {
		committeeResponses = append(committeeResponses, dto.FromCommittee(&committees[i]))
	}

	return &dto.FormPayload{
		Committees:    committeeResponses,
		AcademicYears: academicYearLabels(),
		ChoiceLimits: dto.ChoiceLimitsInfo{
			Min: s.settings.ChoiceLimits.Min,
			Max: s.settings.ChoiceLimits.Max,
		},
		FormInstructions: dto.FormInstructions{
			Title:    "SPE Suez Student Chapter Recruitment",
			Subtitle: "Join one of our committees and build the future of energy professionals",
			Tips: []string{
				"Fill in every section carefully; you cannot edit the application after submission.",
				"Have a recent personal photo ready (JPEG or PNG, up to 2MB).",
				"Read each committee's responsibilities before choosing.",
			},
			Note:    "Applications are reviewed by our HR team; the process typically takes 1-2 weeks.",
			Contact: s.settings.ContactEmail,
		},
	}, nil, nil
}

func (s *applicationServiceImpl) closedPayload(message string) *dto.ClosedPayload {
	return &dto.ClosedPayload{
		Closed:       true,
		Message:      message,
		ContactEmail: s.settings.ContactEmail,
	}
}

// Submit validates and persists a public application, stores the photo
// and hands the confirmation email to the dispatcher. Email failures
// never fail the submission.
func (s *applicationServiceImpl) Submit(ctx context.Context, req *dto.SubmitApplicationRequest, photo *multipart.FileHeader) (*dto.ApplicationSummary, error) {
	if !s.settings.IsOpenAt(s.now()) {
		return nil, apperrors.NewCustomError(apperrors.ErrRecruitmentClosed,
			"Recruitment is currently closed.")
	}

	fieldErrors, committees, err := s.validateSubmission(ctx, req, photo)
	if err != nil {
		return nil, err
	}
	if len(fieldErrors) > 0 {
		return nil, apperrors.NewValidationError(fieldErrors)
	}

	photoPath, err := s.storage.SaveFileWithPath(photo, photoSubdir)
	if err != nil {
		return nil, fmt.Errorf("error storing personal photo: %w", err)
	}

	submittedAt := s.now()
	app := &models.Application{
		FullName:                  strings.TrimSpace(req.FullName),
		Email:                     strings.ToLower(strings.TrimSpace(req.Email)),
		Mobile:                    strings.TrimSpace(req.Mobile),
		FacebookLink:              strings.TrimSpace(req.FacebookLink),
		PersonalPhoto:             photoPath,
		University:                strings.TrimSpace(req.University),
		Faculty:                   strings.TrimSpace(req.Faculty),
		Department:                strings.TrimSpace(req.Department),
		AcademicYear:              models.AcademicYear(req.AcademicYear),
		PreviousExperience:        strings.TrimSpace(req.PreviousExperience),
		WhyApplying:               strings.TrimSpace(req.WhyApplying),
		HowBenefit:                strings.TrimSpace(req.HowBenefit),
		WhyCommittee:              strings.TrimSpace(req.WhyCommittee),
		CommitteeResponsibilities: strings.TrimSpace(req.CommitteeResponsibilities),
		Status:                    models.StatusPending,
		SubmittedAt:               submittedAt,
	}
	if open := strings.TrimSpace(req.OpenSpace); open != "" {
		app.OpenSpace = &open
	}
	app.CommitteeChoices = make([]string, 0, len(committees))
	committeeIDs := make([]int64, 0, len(committees))
	for _, c := range committees {
		app.CommitteeChoices = append(app.CommitteeChoices, c.Name)
		committeeIDs = append(committeeIDs, c.ID)
	}

	id, err := s.applicationRepo.Create(ctx, app, committeeIDs)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			// Lost the race with a concurrent submission of the same email.
			if removeErr := s.storage.DeleteFile(photoPath); removeErr != nil {
				logger.Warn().Err(removeErr).Str("path", photoPath).Msg("Failed to remove orphaned photo")
			}
			return nil, apperrors.NewValidationError(map[string]string{
				"email": "This email has already been used for an application.",
			})
		}
		return nil, fmt.Errorf("error creating application: %w", err)
	}
	app.ID = id

	s.dispatchConfirmation(ctx, app)

	return &dto.ApplicationSummary{
		ID:               id,
		FullName:         app.FullName,
		Email:            app.Email,
		CommitteeChoices: app.CommitteeChoices,
		Status:           string(app.Status),
		SubmittedAt:      submittedAt,
		Message:          "Your application to SPE Suez Student Chapter has been received.",
		NextSteps: []string{
			"Our HR team will carefully review your application",
			"You will receive an email notification about your application status",
			"The review process typically takes 1-2 weeks",
			"If selected, you'll be contacted for the next steps",
		},
		ContactEmail: s.settings.ContactEmail,
	}, nil
}

// dispatchConfirmation hands the confirmation email over, best effort.
func (s *applicationServiceImpl) dispatchConfirmation(ctx context.Context, app *models.Application) {
	msg := notify.ConfirmationMessage{
		ApplicationID: app.ID,
		Summary: email.ApplicationSummary{
			FullName:         app.FullName,
			Email:            app.Email,
			Mobile:           app.Mobile,
			University:       app.University,
			Faculty:          app.Faculty,
			Department:       app.Department,
			AcademicYear:     string(app.AcademicYear),
			CommitteeChoices: app.CommitteeChoices,
			SubmittedAt:      app.SubmittedAt,
		},
	}
	if err := s.dispatcher.DispatchConfirmation(ctx, msg); err != nil {
		logger.Error().Err(err).Int64("applicationID", app.ID).Msg("Confirmation email dispatch failed")
	}
}

// validateSubmission applies the submission rule table and resolves the
// committee choices. The resolved committees are returned so Submit does
// not look them up twice.
func (s *applicationServiceImpl) validateSubmission(ctx context.Context, req *dto.SubmitApplicationRequest, photo *multipart.FileHeader) (map[string]string, []models.Committee, error) {
	fieldErrors := make(map[string]string)

	checkRequired := func(field, value, message string) string {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			fieldErrors[field] = message
		}
		return trimmed
	}

	fullName := checkRequired("full_name", req.FullName, "Full name is required.")
	if fullName != "" && !validation.NewStringValidation(fullName).WithMaxLength(255).Validate() {
		fieldErrors["full_name"] = "Full name must not exceed 255 characters."
	}

	emailAddr := checkRequired("email", req.Email, "Email address is required.")
	if emailAddr != "" {
		if !validation.IsValidEmail(emailAddr) {
			fieldErrors["email"] = "Please enter a valid email address."
		} else {
			exists, err := s.applicationRepo.ExistsByEmail(ctx, strings.ToLower(emailAddr))
			if err != nil {
				return nil, nil, fmt.Errorf("error checking email uniqueness: %w", err)
			}
			if exists {
				fieldErrors["email"] = "This email has already been used for an application."
			}
		}
	}

	mobile := checkRequired("mobile", req.Mobile, "Mobile number is required.")
	if mobile != "" && !validation.NewStringValidation(mobile).WithMaxLength(20).Validate() {
		fieldErrors["mobile"] = "Mobile number must not exceed 20 characters."
	}

	facebook := checkRequired("facebook_link", req.FacebookLink, "Facebook account link is required.")
	if facebook != "" && !validation.IsValidURL(facebook) {
		fieldErrors["facebook_link"] = "Please enter a valid Facebook URL."
	}

	switch validation.CheckPhoto(photo) {
	case validation.PhotoOK:
	case validation.PhotoMissing:
		fieldErrors["personal_photo"] = "Personal photo is required."
	case validation.PhotoBadType:
		fieldErrors["personal_photo"] = "The photo must be a JPEG, JPG, or PNG file."
	case validation.PhotoTooLarge:
		fieldErrors["personal_photo"] = "The photo size must not exceed 2MB."
	}

	university := checkRequired("university", req.University, "University is required.")
	if university != "" && !validation.NewStringValidation(university).WithMaxLength(255).Validate() {
		fieldErrors["university"] = "University must not exceed 255 characters."
	}
	faculty := checkRequired("faculty", req.Faculty, "Faculty is required.")
	if faculty != "" && !validation.NewStringValidation(faculty).WithMaxLength(255).Validate() {
		fieldErrors["faculty"] = "Faculty must not exceed 255 characters."
	}
	department := checkRequired("department", req.Department, "Department is required.")
	if department != "" && !validation.NewStringValidation(department).WithMaxLength(255).Validate() {
		fieldErrors["department"] = "Department must not exceed 255 characters."
	}

	year := checkRequired("academic_year", req.AcademicYear, "Academic year is required.")
	if year != "" && !models.IsValidAcademicYear(year) {
		fieldErrors["academic_year"] = "Please select a valid academic year."
	}

	experience := checkRequired("previous_experience", req.PreviousExperience, "Please describe your previous experience.")
	if experience != "" && !validation.NewStringValidation(experience).WithMinLength(10).Validate() {
		fieldErrors["previous_experience"] = "Previous experience description must be at least 10 characters."
	}

	whyCommittee := checkRequired("why_committee", req.WhyCommittee, "Please explain why you chose this committee.")
	if whyCommittee != "" && !validation.NewStringValidation(whyCommittee).WithMinLength(10).Validate() {
		fieldErrors["why_committee"] = "Your answer must be at least 10 characters."
	}

	responsibilities := checkRequired("committee_responsibilities", req.CommitteeResponsibilities, "Please describe your knowledge about the committee responsibilities.")
	if responsibilities != "" && !validation.NewStringValidation(responsibilities).WithMinLength(10).Validate() {
		fieldErrors["committee_responsibilities"] = "Your answer must be at least 10 characters."
	}

	committees, err := s.validateCommitteeChoices(ctx, req.CommitteeChoices, fieldErrors)
	if err != nil {
		return nil, nil, err
	}

	return fieldErrors, committees, nil
}

func (s *applicationServiceImpl) validateCommitteeChoices(ctx context.Context, choices []string, fieldErrors map[string]string) ([]models.Committee, error) {
	trimmed := make([]string, 0, len(choices))
	for _, name := range choices {
		if name = strings.TrimSpace(name); name != "" {
			trimmed = append(trimmed, name)
		}
	}

	limits := s.settings.ChoiceLimits
	if len(trimmed) < limits.Min {
		fieldErrors["committee_choices"] = "Select at least one committee."
		return nil, nil
	}
	if len(trimmed) > limits.Max {
		if limits.Max == 1 {
			fieldErrors["committee_choices"] = "You may select only one committee."
		} else {
			fieldErrors["committee_choices"] = fmt.Sprintf("You may select at most %d committees.", limits.Max)
		}
		return nil, nil
	}

	seen := make(map[string]bool, len(trimmed))
	for _, name := range trimmed {
		if seen[name] {
			fieldErrors["committee_choices"] = "Committee selections must be unique."
			return nil, nil
		}
		seen[name] = true
		if len(name) > 255 {
			fieldErrors["committee_choices"] = "One or more selected committees are either invalid or currently closed."
			return nil, nil
		}
	}

	committees, err := s.committeeRepo.GetOpenByNames(ctx, trimmed)
	if err != nil {
		if errors.Is(err, apperrors.ErrCommitteeNotFound) || errors.Is(err, apperrors.ErrCommitteeClosed) {
			fieldErrors["committee_choices"] = "One or more selected committees are either invalid or currently closed."
			return nil, nil
		}
		return nil, fmt.Errorf("error resolving committee choices: %w", err)
	}
	return committees, nil
}

// List retrieves applications matching the admin's filter, paginated.
func (s *applicationServiceImpl) List(ctx context.Context, query *dto.ListApplicationsQuery) (*dto.ApplicationListResponse, error) {
	page, pageSize := helpers.NormalizePagination(query.Page, query.PageSize)

	filter := repositories.ApplicationFilter{
		Status:      query.Status,
		CommitteeID: query.Committee,
		Search:      query.Search,
		SortBy:      query.SortBy,
		SortOrder:   query.SortOrder,
	}

	apps, total, err := s.applicationRepo.GetAll(ctx, page, pageSize, filter)
	if err != nil {
		return nil, fmt.Errorf("error getting applications: %w", err)
	}

	responses := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		responses = append(responses, dto.FromApplication(&apps[i]))
	}

	return &dto.ApplicationListResponse{
		Applications: responses,
		Pagination:   helpers.NewPaginationInfo(total, page, pageSize),
		Filters: dto.AppliedFilters{
			Status:    query.Status,
			Committee: fmt.Sprintf("%d", query.Committee),
			Search:    query.Search,
			SortBy:    query.SortBy,
			SortOrder: query.SortOrder,
		},
	}, nil
}

// GetByID retrieves one application for the admin detail view.
func (s *applicationServiceImpl) GetByID(ctx context.Context, id int64) (*dto.ApplicationResponse, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromApplication(app)
	return &resp, nil
}

// UpdateStatus moves an application through the review workflow.
func (s *applicationServiceImpl) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !models.IsValidStatus(status) {
		return apperrors.NewBadRequestError("invalid application status: " + status)
	}
	return s.applicationRepo.UpdateStatus(ctx, id, models.ApplicationStatus(status))
}

// PurgeAll removes every application. Used to reset between recruitment
// seasons.
func (s *applicationServiceImpl) PurgeAll(ctx context.Context) (int64, error) {
	removed, err := s.applicationRepo.PurgeAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("error purging applications: %w", err)
	}
	return removed, nil
}

// academicYearLabels maps enum values to their display labels.
func academicYearLabels() map[string]string {
	labels := make(map[string]string, len(models.AcademicYears))
	for _, year := range models.AcademicYears {
		labels[string(year)] = models.AcademicYearLabels[year]
	}
	return labels
}
