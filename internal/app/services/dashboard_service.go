package services

import (
	"context"
	"fmt"

	"github.com/spesuez/recruitment/internal/app/models"
	"github.com/spesuez/recruitment/internal/app/models/dto"
	"github.com/spesuez/recruitment/internal/app/repositories"
)

// dashboardDays is how far back the per-day submission chart reaches.
const dashboardDays = 30

// recentApplications is how many latest submissions the dashboard shows.
const recentApplications = 10

// dashboardApplicationStore is the statistics surface over applications.
type dashboardApplicationStore interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByCommittee(ctx context.Context) ([]repositories.CommitteeCount, error)
	CountByDay(ctx context.Context, days int) ([]repositories.DailyCount, error)
	GetRecent(ctx context.Context, limit int) ([]models.Application, error)
}

// dashboardCommitteeStore is the statistics surface over committees.
type dashboardCommitteeStore interface {
	CountAll(ctx context.Context) (total int64, open int64, err error)
}

// DashboardService defines the interface for dashboard statistics
type DashboardService interface {
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

// dashboardServiceImpl implements DashboardService
type dashboardServiceImpl struct {
	applicationRepo dashboardApplicationStore
	committeeRepo   dashboardCommitteeStore
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(applicationRepo dashboardApplicationStore, committeeRepo dashboardCommitteeStore) DashboardService {
	return &dashboardServiceImpl{
		applicationRepo: applicationRepo,
		committeeRepo:   committeeRepo,
	}
}

// GetDashboard aggregates the back-office landing page statistics.
func (s *dashboardServiceImpl) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	byStatus, err := s.applicationRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting applications by status: %w", err)
	}

	var totalApplications int64
	for _, count := range byStatus {
		totalApplications += count
	}

	committeeCounts, err := s.applicationRepo.CountByCommittee(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting applications by committee: %w", err)
	}
	byCommittee := make([]dto.CommitteeStat, 0, len(committeeCounts))
	for _, cc := range committeeCounts {
		byCommittee = append(byCommittee, dto.CommitteeStat{
			CommitteeID:   cc.CommitteeID,
			CommitteeName: cc.CommitteeName,
			Count:         cc.Count,
		})
	}

	dailyCounts, err := s.applicationRepo.CountByDay(ctx, dashboardDays)
	if err != nil {
		return nil, fmt.Errorf("error counting applications by day: %w", err)
	}
	byDay := make([]dto.DailyStat, 0, len(dailyCounts))
	for _, dc := range dailyCounts {
		byDay = append(byDay, dto.DailyStat{
			Date:  dc.Day.Format("2006-01-02"),
			Count: dc.Count,
		})
	}

	recent, err := s.applicationRepo.GetRecent(ctx, recentApplications)
	if err != nil {
		return nil, fmt.Errorf("error getting recent applications: %w", err)
	}
	recentResponses := make([]dto.ApplicationResponse, 0, len(recent))
	for i := range recent {
		recentResponses = append(recentResponses, dto.FromApplication(&recent[i]))
	}

	totalCommittees, openCommittees, err := s.committeeRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting committees: %w", err)
	}

	return &dto.DashboardResponse{
		Totals: dto.DashboardTotals{
			Applications:   totalApplications,
			Pending:        byStatus[string(models.StatusPending)],
			Committees:     totalCommittees,
			OpenCommittees: openCommittees,
		},
		ByStatus:    byStatus,
		ByCommittee: byCommittee,
		ByDay:       byDay,
		Recent:      recentResponses,
	}, nil
}
