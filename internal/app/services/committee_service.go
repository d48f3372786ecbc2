package services

import (
	"context"
	"fmt"

	"github.com/spesuez/recruitment/internal/app/models"
	"github.com/spesuez/recruitment/internal/app/models/dto"
	"github.com/spesuez/recruitment/internal/app/repositories"
	"github.com/spesuez/recruitment/internal/pkg/apperrors"
	"github.com/spesuez/recruitment/internal/pkg/logger"
)

// committeeStore is the committee persistence surface the service needs.
type committeeStore interface {
	GetAll(ctx context.Context, openOnly bool) ([]models.Committee, error)
	GetByID(ctx context.Context, id int64) (*models.Committee, error)
	Create(ctx context.Context, committee *models.Committee) (int64, error)
	Update(ctx context.Context, committee *models.Committee) error
	Delete(ctx context.Context, id int64) error
	CountApplications(ctx context.Context, id int64) (int64, error)
}

// committeeApplicationReader fetches the applications referencing a
// committee for the admin detail view.
type committeeApplicationReader interface {
	GetAllForExport(ctx context.Context, filter repositories.ApplicationFilter) ([]models.Application, error)
}

// CommitteeService defines the interface for committee operations
type CommitteeService interface {
	ListPublic(ctx context.Context) ([]dto.CommitteeResponse, error)
	ListAdmin(ctx context.Context) (*dto.CommitteeListResponse, error)
	Get(ctx context.Context, id int64) (*dto.CommitteeDetailResponse, error)
	Create(ctx context.Context, req *dto.CreateCommitteeRequest) (*dto.CommitteeResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateCommitteeRequest) (*dto.CommitteeResponse, error)
	Toggle(ctx context.Context, id int64) (*dto.CommitteeResponse, error)
	Delete(ctx context.Context, id int64) error
}

// committeeServiceImpl implements CommitteeService
type committeeServiceImpl struct {
	committeeRepo   committeeStore
	applicationRepo committeeApplicationReader
}

// NewCommitteeService creates a new CommitteeService
func NewCommitteeService(committeeRepo committeeStore, applicationRepo committeeApplicationReader) CommitteeService {
	return &committeeServiceImpl{
		committeeRepo:   committeeRepo,
		applicationRepo: applicationRepo,
	}
}

// ListPublic returns all committees for the public listing page.
func (s *committeeServiceImpl) ListPublic(ctx context.Context) ([]dto.CommitteeResponse, error) {
	committees, err := s.committeeRepo.GetAll(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("error getting committees: %w", err)
	}

	responses := make([]dto.CommitteeResponse, 0, len(committees))
	for i := range committees {
		responses = append(responses, dto.FromCommittee(&committees[i]))
	}
	return responses, nil
}

// ListAdmin returns all committees with their application counts.
func (s *committeeServiceImpl) ListAdmin(ctx context.Context) (*dto.CommitteeListResponse, error) {
	committees, err := s.committeeRepo.GetAll(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("error getting committees: %w", err)
	}

	withCounts := make([]dto.CommitteeWithCounts, 0, len(committees))
	for i := range committees {
		count, err := s.committeeRepo.CountApplications(ctx, committees[i].ID)
		if err != nil {
			return nil, fmt.Errorf("error counting committee applications: %w", err)
		}
		withCounts = append(withCounts, dto.CommitteeWithCounts{
			CommitteeResponse: dto.FromCommittee(&committees[i]),
			ApplicationCount:  count,
			CreatedAt:         committees[i].CreatedAt,
			UpdatedAt:         committees[i].UpdatedAt,
		})
	}
	return &dto.CommitteeListResponse{Committees: withCounts}, nil
}

// Get returns one committee with the applications that picked it, newest
// first, and their status breakdown.
func (s *committeeServiceImpl) Get(ctx context.Context, id int64) (*dto.CommitteeDetailResponse, error) {
	committee, err := s.committeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	apps, err := s.applicationRepo.GetAllForExport(ctx, repositories.ApplicationFilter{CommitteeID: id})
	if err != nil {
		return nil, fmt.Errorf("error getting committee applications: %w", err)
	}

	var stats dto.CommitteeApplicationStats
	responses := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		responses = append(responses, dto.FromApplication(&apps[i]))
		stats.Total++
		switch apps[i].Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusReviewed:
			stats.Reviewed++
		case models.StatusAccepted:
			stats.Accepted++
		case models.StatusRejected:
			stats.Rejected++
		}
	}

	return &dto.CommitteeDetailResponse{
		Committee:    dto.FromCommittee(committee),
		Applications: responses,
		Stats:        stats,
	}, nil
}

// Create adds a new committee. New committees default to open unless the
// request says otherwise.
func (s *committeeServiceImpl) Create(ctx context.Context, req *dto.CreateCommitteeRequest) (*dto.CommitteeResponse, error) {
	committee := &models.Committee{
		Name:             req.Name,
		Description:      req.Description,
		Responsibilities: req.Responsibilities,
		IsOpen:           true,
	}
	if req.IsOpen != nil {
		committee.IsOpen = *req.IsOpen
	}

	id, err := s.committeeRepo.Create(ctx, committee)
	if err != nil {
		return nil, err
	}
	committee.ID = id

	resp := dto.FromCommittee(committee)
	return &resp, nil
}

// Update changes an existing committee; nil request fields keep their
// current value.
func (s *committeeServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateCommitteeRequest) (*dto.CommitteeResponse, error) {
	committee, err := s.committeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		committee.Name = *req.Name
	}
	if req.Description != nil {
		committee.Description = *req.Description
	}
	if req.Responsibilities != nil {
		committee.Responsibilities = *req.Responsibilities
	}
	if req.IsOpen != nil {
		committee.IsOpen = *req.IsOpen
	}

	if err := s.committeeRepo.Update(ctx, committee); err != nil {
		return nil, err
	}

	resp := dto.FromCommittee(committee)
	return &resp, nil
}

// Toggle flips the committee's acceptance gate. Toggling twice restores
// the original state.
func (s *committeeServiceImpl) Toggle(ctx context.Context, id int64) (*dto.CommitteeResponse, error) {
	committee, err := s.committeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	committee.IsOpen = !committee.IsOpen
	if err := s.committeeRepo.Update(ctx, committee); err != nil {
		return nil, err
	}

	logger.Info().Int64("committeeID", id).Bool("isOpen", committee.IsOpen).Msg("Committee acceptance gate toggled")
	resp := dto.FromCommittee(committee)
	return &resp, nil
}

// Delete removes a committee, refusing while applications reference it.
func (s *committeeServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := s.committeeRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.committeeRepo.CountApplications(ctx, id)
	if err != nil {
		return fmt.Errorf("error counting committee applications: %w", err)
	}
	if count > 0 {
		return apperrors.NewCustomError(apperrors.ErrCommitteeHasApplications,
			fmt.Sprintf("Cannot delete committee: %d application(s) reference it.", count))
	}

	return s.committeeRepo.Delete(ctx, id)
}
