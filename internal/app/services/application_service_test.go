package services

import (
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/spesuez/recruitment/internal/app/models"
	"github.com/spesuez/recruitment/internal/app/models/dto"
	"github.com/spesuez/recruitment/internal/app/notify"
	"github.com/spesuez/recruitment/internal/app/repositories"
	"github.com/spesuez/recruitment/internal/pkg/apperrors"
	"github.com/spesuez/recruitment/internal/pkg/wizard"
)

type fakeApplicationRepo struct {
	nextID        int64
	created       []*models.Application
	createdIDs    [][]int64
	createErr     error
	existingEmail string
	existsErr     error
	apps          []models.Application
	total         int64
	updatedStatus map[int64]models.ApplicationStatus
	purged        int64
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{nextID: 1, updatedStatus: make(map[int64]models.ApplicationStatus)}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app *models.Application, committeeIDs []int64) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	id := r.nextID
	r.nextID++
	r.created = append(r.created, app)
	r.createdIDs = append(r.createdIDs, committeeIDs)
	return id, nil
}

func (r *fakeApplicationRepo) GetAll(ctx context.Context, page, pageSize int, filter repositories.ApplicationFilter) ([]models.Application, int64, error) {
	return r.apps, r.total, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	for i := range r.apps {
		if r.apps[i].ID == id {
			return &r.apps[i], nil
		}
	}
	return nil, apperrors.ErrApplicationNotFound
}

func (r *fakeApplicationRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	return email == r.existingEmail, nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	r.updatedStatus[id] = status
	return nil
}

func (r *fakeApplicationRepo) PurgeAll(ctx context.Context) (int64, error) {
	return r.purged, nil
}

type fakeCommitteeReader struct {
	open        []models.Committee
	byNames     []models.Committee
	byNamesErr  error
	namesAsked  []string
	getAllError error
}

func (r *fakeCommitteeReader) GetAll(ctx context.Context, openOnly bool) ([]models.Committee, error) {
	return r.open, r.getAllError
}

func (r *fakeCommitteeReader) GetOpenByNames(ctx context.Context, names []string) ([]models.Committee, error) {
	r.namesAsked = names
	if r.byNamesErr != nil {
		return nil, r.byNamesErr
	}
	return r.byNames, nil
}

type fakeStorage struct {
	saved   []string
	deleted []string
	saveErr error
}

func (s *fakeStorage) SaveFile(fh *multipart.FileHeader) (string, error) {
	return s.SaveFileWithPath(fh, "")
}

func (s *fakeStorage) SaveFileWithPath(fh *multipart.FileHeader, path string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	stored := path + "/" + fh.Filename
	s.saved = append(s.saved, stored)
	return stored, nil
}

func (s *fakeStorage) DeleteFile(filePath string) error {
	s.deleted = append(s.deleted, filePath)
	return nil
}

func (s *fakeStorage) GetFullPath(fileURL string) string { return fileURL }

type fakeDispatcher struct {
	messages []notify.ConfirmationMessage
	err      error
}

func (d *fakeDispatcher) DispatchConfirmation(ctx context.Context, msg notify.ConfirmationMessage) error {
	d.messages = append(d.messages, msg)
	if d.err != nil {
		return d.err
	}
	return nil
}

func openSettings() RecruitmentSettings {
	return RecruitmentSettings{
		Open:         true,
		ContactEmail: "spesusc.hrm2026@gmail.com",
		ChoiceLimits: wizard.ChoiceLimits{Min: 1, Max: 2},
	}
}

func validRequest() *dto.SubmitApplicationRequest {
	return &dto.SubmitApplicationRequest{
		FullName:                  "Jane Doe",
		Email:                     "Jane@Example.com",
		Mobile:                    "01234567890",
		FacebookLink:              "https://facebook.com/jane",
		University:                "Suez University",
		Faculty:                   "Petroleum Engineering",
		Department:                "Petroleum",
		AcademicYear:              "third",
		PreviousExperience:        "Volunteered for two years at local events",
		WhyApplying:               "I want to grow",
		HowBenefit:                "Experience",
		CommitteeChoices:          []string{"Magazine Editing", "Social Media"},
		WhyCommittee:              "I enjoy editing and reviewing articles",
		CommitteeResponsibilities: "Reviewing and curating magazine content",
	}
}

func validPhoto() *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "me.jpg",
		Size:     512 * 1024,
		Header:   textproto.MIMEHeader{"Content-Type": []string{"image/jpeg"}},
	}
}

func openCommittees() []models.Committee {
	return []models.Committee{
		{ID: 6, Name: "Magazine Editing", IsOpen: true},
		{ID: 3, Name: "Social Media", IsOpen: true},
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	return ve.Fields
}

func TestSubmitSuccess(t *testing.T) {
	repo := newFakeApplicationRepo()
	committees := &fakeCommitteeReader{byNames: openCommittees()}
	storage := &fakeStorage{}
	dispatcher := &fakeDispatcher{}
	svc := NewApplicationService(repo, committees, storage, dispatcher, openSettings())

	summary, err := svc.Submit(context.Background(), validRequest(), validPhoto())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if summary.ID != 1 {
		t.Errorf("summary ID = %d, want 1", summary.ID)
	}
	if summary.Email != "jane@example.com" {
		t.Errorf("email = %q, want lowercased", summary.Email)
	}
	if summary.Status != "pending" {
		t.Errorf("status = %q, want pending", summary.Status)
	}
	if len(summary.CommitteeChoices) != 2 ||
		summary.CommitteeChoices[0] != "Magazine Editing" ||
		summary.CommitteeChoices[1] != "Social Media" {
		t.Errorf("choices = %v, want selection order preserved", summary.CommitteeChoices)
	}
	if summary.ContactEmail != "spesusc.hrm2026@gmail.com" {
		t.Errorf("contact email = %q", summary.ContactEmail)
	}

	if len(repo.created) != 1 {
		t.Fatalf("created %d applications, want 1", len(repo.created))
	}
	if ids := repo.createdIDs[0]; len(ids) != 2 || ids[0] != 6 || ids[1] != 3 {
		t.Errorf("committee IDs = %v, want [6 3]", ids)
	}
	if len(storage.saved) != 1 {
		t.Errorf("saved %d photos, want 1", len(storage.saved))
	}
	if len(dispatcher.messages) != 1 {
		t.Fatalf("dispatched %d confirmations, want 1", len(dispatcher.messages))
	}
	if dispatcher.messages[0].Summary.Email != "jane@example.com" {
		t.Errorf("confirmation email = %q", dispatcher.messages[0].Summary.Email)
	}
}

func TestSubmitDispatcherFailureDoesNotFail(t *testing.T) {
	repo := newFakeApplicationRepo()
	committees := &fakeCommitteeReader{byNames: openCommittees()}
	dispatcher := &fakeDispatcher{err: errors.New("queue unreachable")}
	svc := NewApplicationService(repo, committees, &fakeStorage{}, dispatcher, openSettings())

	if _, err := svc.Submit(context.Background(), validRequest(), validPhoto()); err != nil {
		t.Fatalf("Submit should ignore dispatcher failure, got %v", err)
	}
	if len(repo.created) != 1 {
		t.Errorf("application row was not persisted")
	}
}

func TestSubmitRecruitmentClosed(t *testing.T) {
	settings := openSettings()
	settings.Open = false
	svc := NewApplicationService(newFakeApplicationRepo(), &fakeCommitteeReader{}, &fakeStorage{}, &fakeDispatcher{}, settings)

	_, err := svc.Submit(context.Background(), validRequest(), validPhoto())
	if !errors.Is(err, apperrors.ErrRecruitmentClosed) {
		t.Fatalf("err = %v, want ErrRecruitmentClosed", err)
	}
}

func TestSubmitValidationFailures(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(req *dto.SubmitApplicationRequest)
		photo     *multipart.FileHeader
		committee func(r *fakeCommitteeReader)
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing full name",
			mutate:    func(req *dto.SubmitApplicationRequest) { req.FullName = "  " },
			photo:     validPhoto(),
			wantField: "full_name",
			wantMsg:   "Full name is required.",
		},
		{
			name:      "malformed email",
			mutate:    func(req *dto.SubmitApplicationRequest) { req.Email = "not-an-email" },
			photo:     validPhoto(),
			wantField: "email",
			wantMsg:   "Please enter a valid email address.",
		},
		{
			name:      "facebook link not a URL",
			mutate:    func(req *dto.SubmitApplicationRequest) { req.FacebookLink = "jane on facebook" },
			photo:     validPhoto(),
			wantField: "facebook_link",
			wantMsg:   "Please enter a valid Facebook URL.",
		},
		{
			name:      "missing photo",
			mutate:    func(req *dto.SubmitApplicationRequest) {},
			photo:     nil,
			wantField: "personal_photo",
			wantMsg:   "Personal photo is required.",
		},
		{
			name:   "photo wrong type",
			mutate: func(req *dto.SubmitApplicationRequest) {},
			photo: &multipart.FileHeader{
				Filename: "me.gif",
				Size:     1024,
				Header:   textproto.MIMEHeader{"Content-Type": []string{"image/gif"}},
			},
			wantField: "personal_photo",
			wantMsg:   "The photo must be a JPEG, JPG, or PNG file.",
		},
		{
			name:   "photo too large",
			mutate: func(req *dto.SubmitApplicationRequest) {},
			photo: &multipart.FileHeader{
				Filename: "me.jpg",
				Size:     3 << 20,
				Header:   textproto.MIMEHeader{"Content-Type": []string{"image/jpeg"}},
			},
			wantField: "personal_photo",
			wantMsg:   "The photo size must not exceed 2MB.",
		},
		{
			name:      "unknown academic year",
			mutate:    func(req *dto.SubmitApplicationRequest) { req.AcademicYear = "sixth" },
			photo:     validPhoto(),
			wantField: "academic_year",
			wantMsg:   "Please select a valid academic year.",
		},
		{
			name:      "no committee selected",
			mutate:    func(req *dto.SubmitApplicationRequest) { req.CommitteeChoices = nil },
			photo:     validPhoto(),
			wantField: "committee_choices",
			wantMsg:   "Select at least one committee.",
		},
		{
			name: "too many committees",
			mutate: func(req *dto.SubmitApplicationRequest) {
				req.CommitteeChoices = []string{"A", "B", "C"}
			},
			photo:     validPhoto(),
			wantField: "committee_choices",
			wantMsg:   "You may select at most 2 committees.",
		},
		{
			name: "duplicate committees",
			mutate: func(req *dto.SubmitApplicationRequest) {
				req.CommitteeChoices = []string{"Social Media", "Social Media"}
			},
			photo:     validPhoto(),
			wantField: "committee_choices",
			wantMsg:   "Committee selections must be unique.",
		},
		{
			name:   "closed committee",
			mutate: func(req *dto.SubmitApplicationRequest) {},
			photo:  validPhoto(),
			committee: func(r *fakeCommitteeReader) {
				r.byNamesErr = apperrors.ErrCommitteeClosed
			},
			wantField: "committee_choices",
			wantMsg:   "One or more selected committees are either invalid or currently closed.",
		},
		{
			name:   "unknown committee",
			mutate: func(req *dto.SubmitApplicationRequest) {},
			photo:  validPhoto(),
			committee: func(r *fakeCommitteeReader) {
				r.byNamesErr = apperrors.ErrCommitteeNotFound
			},
			wantField: "committee_choices",
			wantMsg:   "One or more selected committees are either invalid or currently closed.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeApplicationRepo()
			committees := &fakeCommitteeReader{byNames: openCommittees()}
			if tt.committee != nil {
				tt.committee(committees)
			}
			storage := &fakeStorage{}
			svc := NewApplicationService(repo, committees, storage, &fakeDispatcher{}, openSettings())

			req := validRequest()
			tt.mutate(req)
			_, err := svc.Submit(context.Background(), req, tt.photo)

			fields := fieldErrors(t, err)
			if got := fields[tt.wantField]; got != tt.wantMsg {
				t.Errorf("fields[%q] = %q, want %q", tt.wantField, got, tt.wantMsg)
			}
			if len(repo.created) != 0 {
				t.Error("no application row should be created on validation failure")
			}
			if len(storage.saved) != 0 {
				t.Error("no photo should be stored on validation failure")
			}
		})
	}
}

func TestSubmitDuplicateEmail(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.existingEmail = "jane@example.com"
	svc := NewApplicationService(repo, &fakeCommitteeReader{byNames: openCommittees()}, &fakeStorage{}, &fakeDispatcher{}, openSettings())

	_, err := svc.Submit(context.Background(), validRequest(), validPhoto())
	fields := fieldErrors(t, err)
	if fields["email"] != "This email has already been used for an application." {
		t.Errorf("fields = %v", fields)
	}
}

func TestSubmitDuplicateEmailRace(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.createErr = apperrors.ErrEmailAlreadyExists
	storage := &fakeStorage{}
	svc := NewApplicationService(repo, &fakeCommitteeReader{byNames: openCommittees()}, storage, &fakeDispatcher{}, openSettings())

	_, err := svc.Submit(context.Background(), validRequest(), validPhoto())
	fields := fieldErrors(t, err)
	if fields["email"] != "This email has already been used for an application." {
		t.Errorf("fields = %v", fields)
	}
	if len(storage.deleted) != 1 {
		t.Errorf("orphaned photo should be removed, deleted = %v", storage.deleted)
	}
}

func TestGetFormClosedStates(t *testing.T) {
	t.Run("switched off", func(t *testing.T) {
		settings := openSettings()
		settings.Open = false
		svc := NewApplicationService(newFakeApplicationRepo(), &fakeCommitteeReader{}, &fakeStorage{}, &fakeDispatcher{}, settings)
		payload, closed, err := svc.GetForm(context.Background())
		if err != nil {
			t.Fatalf("GetForm: %v", err)
		}
		if payload != nil {
			t.Error("form payload should be nil while closed")
		}
		if closed == nil || !closed.Closed {
			t.Fatalf("closed = %+v, want closed payload", closed)
		}
		if closed.Message != "Recruitment is currently closed. Follow our page for the next recruitment announcement." {
			t.Errorf("message = %q", closed.Message)
		}
		if closed.ContactEmail != settings.ContactEmail {
			t.Errorf("contact = %q, want %q", closed.ContactEmail, settings.ContactEmail)
		}
	})

	t.Run("no open committees", func(t *testing.T) {
		svc := NewApplicationService(newFakeApplicationRepo(), &fakeCommitteeReader{}, &fakeStorage{}, &fakeDispatcher{}, openSettings())
		_, closed, err := svc.GetForm(context.Background())
		if err != nil {
			t.Fatalf("GetForm: %v", err)
		}
		if closed == nil || !closed.Closed {
			t.Fatalf("closed = %+v, want closed payload", closed)
		}
		if closed.Message != "No committees are currently accepting applications. Please check back later." {
			t.Errorf("message = %q", closed.Message)
		}
	})
}

func TestGetFormPayload(t *testing.T) {
	committees := &fakeCommitteeReader{open: openCommittees()}
	svc := NewApplicationService(newFakeApplicationRepo(), committees, &fakeStorage{}, &fakeDispatcher{}, openSettings())

	payload, closed, err := svc.GetForm(context.Background())
	if err != nil {
		t.Fatalf("GetForm: %v", err)
	}
	if closed != nil {
		t.Fatalf("closed = %+v, want nil while recruitment is open", closed)
	}
	if len(payload.Committees) != 2 {
		t.Errorf("committees = %d, want 2", len(payload.Committees))
	}
	if payload.ChoiceLimits.Min != 1 || payload.ChoiceLimits.Max != 2 {
		t.Errorf("choice limits = %+v", payload.ChoiceLimits)
	}
	if len(payload.AcademicYears) != len(models.AcademicYears) {
		t.Errorf("academic years = %d, want %d", len(payload.AcademicYears), len(models.AcademicYears))
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeApplicationRepo()
	svc := NewApplicationService(repo, &fakeCommitteeReader{}, &fakeStorage{}, &fakeDispatcher{}, openSettings())

	if err := svc.UpdateStatus(context.Background(), 4, "accepted"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if repo.updatedStatus[4] != models.StatusAccepted {
		t.Errorf("status = %q", repo.updatedStatus[4])
	}

	err := svc.UpdateStatus(context.Background(), 4, "archived")
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestListEchoesFiltersAndPaginates(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.apps = []models.Application{{ID: 1, FullName: "Jane Doe", Status: models.StatusPending}}
	repo.total = 41
	svc := NewApplicationService(repo, &fakeCommitteeReader{}, &fakeStorage{}, &fakeDispatcher{}, openSettings())

	resp, err := svc.List(context.Background(), &dto.ListApplicationsQuery{
		Status:   "pending",
		Search:   "jane",
		Page:     2,
		PageSize: 20,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(resp.Applications) != 1 {
		t.Errorf("applications = %d, want 1", len(resp.Applications))
	}
	if resp.Pagination.TotalItems != 41 || resp.Pagination.TotalPages != 3 || resp.Pagination.CurrentPage != 2 {
		t.Errorf("pagination = %+v", resp.Pagination)
	}
	if resp.Filters.Status != "pending" || resp.Filters.Search != "jane" {
		t.Errorf("filters = %+v", resp.Filters)
	}
}
