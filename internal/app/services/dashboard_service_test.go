package services

import (
	"context"
	"testing"
	"time"

	"github.com/spesuez/recruitment/internal/app/models"
	"github.com/spesuez/recruitment/internal/app/repositories"
)

type fakeDashboardAppStore struct {
	byStatus    map[string]int64
	byCommittee []repositories.CommitteeCount
	byDay       []repositories.DailyCount
	recent      []models.Application
	daysAsked   int
	limitAsked  int
}

func (s *fakeDashboardAppStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.byStatus, nil
}

func (s *fakeDashboardAppStore) CountByCommittee(ctx context.Context) ([]repositories.CommitteeCount, error) {
	return s.byCommittee, nil
}

func (s *fakeDashboardAppStore) CountByDay(ctx context.Context, days int) ([]repositories.DailyCount, error) {
	s.daysAsked = days
	return s.byDay, nil
}

func (s *fakeDashboardAppStore) GetRecent(ctx context.Context, limit int) ([]models.Application, error) {
	s.limitAsked = limit
	return s.recent, nil
}

type fakeDashboardCommitteeStore struct {
	total int64
	open  int64
}

func (s *fakeDashboardCommitteeStore) CountAll(ctx context.Context) (int64, int64, error) {
	return s.total, s.open, nil
}

func TestGetDashboard(t *testing.T) {
	appStore := &fakeDashboardAppStore{
		byStatus: map[string]int64{
			"pending":  12,
			"reviewed": 4,
			"accepted": 3,
			"rejected": 1,
		},
		byCommittee: []repositories.CommitteeCount{
			{CommitteeID: 1, CommitteeName: "Academy", Count: 7},
			{CommitteeID: 2, CommitteeName: "Logistics", Count: 0},
		},
		byDay: []repositories.DailyCount{
			{Day: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), Count: 2},
			{Day: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), Count: 5},
		},
		recent: []models.Application{{ID: 20, FullName: "Jane Doe", Status: models.StatusPending}},
	}
	committeeStore := &fakeDashboardCommitteeStore{total: 17, open: 15}
	svc := NewDashboardService(appStore, committeeStore)

	resp, err := svc.GetDashboard(context.Background())
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}

	if resp.Totals.Applications != 20 {
		t.Errorf("total applications = %d, want 20", resp.Totals.Applications)
	}
	if resp.Totals.Pending != 12 {
		t.Errorf("pending = %d, want 12", resp.Totals.Pending)
	}
	if resp.Totals.Committees != 17 || resp.Totals.OpenCommittees != 15 {
		t.Errorf("committee totals = %+v", resp.Totals)
	}
	if len(resp.ByCommittee) != 2 || resp.ByCommittee[1].Count != 0 {
		t.Errorf("byCommittee = %+v, zero-count committees should be kept", resp.ByCommittee)
	}
	if len(resp.ByDay) != 2 || resp.ByDay[0].Date != "2026-03-13" {
		t.Errorf("byDay = %+v", resp.ByDay)
	}
	if len(resp.Recent) != 1 || resp.Recent[0].ID != 20 {
		t.Errorf("recent = %+v", resp.Recent)
	}
	if appStore.daysAsked != dashboardDays {
		t.Errorf("daysAsked = %d, want %d", appStore.daysAsked, dashboardDays)
	}
	if appStore.limitAsked != recentApplications {
		t.Errorf("limitAsked = %d, want %d", appStore.limitAsked, recentApplications)
	}
}
