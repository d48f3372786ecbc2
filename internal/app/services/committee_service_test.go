package services

import (
	"context"
	"errors"
	"testing"

	"github.com/spesuez/recruitment/internal/app/models"
	"github.com/spesuez/recruitment/internal/app/models/dto"
	"github.com/spesuez/recruitment/internal/app/repositories"
	"github.com/spesuez/recruitment/internal/pkg/apperrors"
)

type fakeCommitteeStore struct {
	committees map[int64]*models.Committee
	counts     map[int64]int64
	nextID     int64
	deleted    []int64
}

func newFakeCommitteeStore(committees ...models.Committee) *fakeCommitteeStore {
	s := &fakeCommitteeStore{
		committees: make(map[int64]*models.Committee),
		counts:     make(map[int64]int64),
		nextID:     1,
	}
	for i := range committees {
		c := committees[i]
		s.committees[c.ID] = &c
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
	}
	return s
}

func (s *fakeCommitteeStore) GetAll(ctx context.Context, openOnly bool) ([]models.Committee, error) {
	out := make([]models.Committee, 0, len(s.committees))
	for _, c := range s.committees {
		if openOnly && !c.IsOpen {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (s *fakeCommitteeStore) GetByID(ctx context.Context, id int64) (*models.Committee, error) {
	c, ok := s.committees[id]
	if !ok {
		return nil, apperrors.ErrCommitteeNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *fakeCommitteeStore) Create(ctx context.Context, committee *models.Committee) (int64, error) {
	for _, c := range s.committees {
		if c.Name == committee.Name {
			return 0, apperrors.ErrCommitteeAlreadyExists
		}
	}
	id := s.nextID
	s.nextID++
	copied := *committee
	copied.ID = id
	s.committees[id] = &copied
	return id, nil
}

func (s *fakeCommitteeStore) Update(ctx context.Context, committee *models.Committee) error {
	if _, ok := s.committees[committee.ID]; !ok {
		return apperrors.ErrCommitteeNotFound
	}
	copied := *committee
	s.committees[committee.ID] = &copied
	return nil
}

func (s *fakeCommitteeStore) Delete(ctx context.Context, id int64) error {
	delete(s.committees, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeCommitteeStore) CountApplications(ctx context.Context, id int64) (int64, error) {
	return s.counts[id], nil
}

type fakeCommitteeAppReader struct {
	apps       []models.Application
	lastFilter repositories.ApplicationFilter
}

func (r *fakeCommitteeAppReader) GetAllForExport(ctx context.Context, filter repositories.ApplicationFilter) ([]models.Application, error) {
	r.lastFilter = filter
	return r.apps, nil
}

func TestCommitteeCreateDefaultsToOpen(t *testing.T) {
	store := newFakeCommitteeStore()
	svc := NewCommitteeService(store, &fakeCommitteeAppReader{})

	resp, err := svc.Create(context.Background(), &dto.CreateCommitteeRequest{
		Name:             "Academy",
		Description:      "Training programs",
		Responsibilities: "Curricula",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !resp.IsOpen {
		t.Error("new committee should default to open")
	}

	closed := false
	resp, err = svc.Create(context.Background(), &dto.CreateCommitteeRequest{
		Name:   "Logistics",
		IsOpen: &closed,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.IsOpen {
		t.Error("explicit is_open=false should be honored")
	}
}

func TestCommitteeCreateDuplicateName(t *testing.T) {
	store := newFakeCommitteeStore(models.Committee{ID: 1, Name: "Academy", IsOpen: true})
	svc := NewCommitteeService(store, &fakeCommitteeAppReader{})

	_, err := svc.Create(context.Background(), &dto.CreateCommitteeRequest{Name: "Academy"})
	if !errors.Is(err, apperrors.ErrCommitteeAlreadyExists) {
		t.Fatalf("err = %v, want ErrCommitteeAlreadyExists", err)
	}
}

func TestCommitteeUpdatePartialFields(t *testing.T) {
	store := newFakeCommitteeStore(models.Committee{
		ID: 1, Name: "Academy", Description: "Old", Responsibilities: "Old resp", IsOpen: true,
	})
	svc := NewCommitteeService(store, &fakeCommitteeAppReader{})

	newDesc := "Training and education"
	resp, err := svc.Update(context.Background(), 1, &dto.UpdateCommitteeRequest{Description: &newDesc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Name != "Academy" || resp.Description != "Training and education" || resp.Responsibilities != "Old resp" {
		t.Errorf("response = %+v, nil fields should be untouched", resp)
	}
}

func TestCommitteeToggleIsIdempotentPair(t *testing.T) {
	store := newFakeCommitteeStore(models.Committee{ID: 1, Name: "Academy", IsOpen: true})
	svc := NewCommitteeService(store, &fakeCommitteeAppReader{})

	resp, err := svc.Toggle(context.Background(), 1)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if resp.IsOpen {
		t.Error("first toggle should close the committee")
	}

	resp, err = svc.Toggle(context.Background(), 1)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !resp.IsOpen {
		t.Error("second toggle should restore the open state")
	}
}

func TestCommitteeDelete(t *testing.T) {
	t.Run("refuses while applications reference it", func(t *testing.T) {
		store := newFakeCommitteeStore(models.Committee{ID: 1, Name: "Academy", IsOpen: true})
		store.counts[1] = 3
		svc := NewCommitteeService(store, &fakeCommitteeAppReader{})

		err := svc.Delete(context.Background(), 1)
		if !errors.Is(err, apperrors.ErrCommitteeHasApplications) {
			t.Fatalf("err = %v, want ErrCommitteeHasApplications", err)
		}
		if len(store.deleted) != 0 {
			t.Error("committee must not be deleted")
		}
	})

	t.Run("deletes unreferenced committee", func(t *testing.T) {
		store := newFakeCommitteeStore(models.Committee{ID: 1, Name: "Academy", IsOpen: true})
		svc := NewCommitteeService(store, &fakeCommitteeAppReader{})

		if err := svc.Delete(context.Background(), 1); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if len(store.deleted) != 1 || store.deleted[0] != 1 {
			t.Errorf("deleted = %v", store.deleted)
		}
	})

	t.Run("unknown committee", func(t *testing.T) {
		svc := NewCommitteeService(newFakeCommitteeStore(), &fakeCommitteeAppReader{})
		err := svc.Delete(context.Background(), 99)
		if !errors.Is(err, apperrors.ErrCommitteeNotFound) {
			t.Fatalf("err = %v, want ErrCommitteeNotFound", err)
		}
	})
}

func TestCommitteeGet(t *testing.T) {
	store := newFakeCommitteeStore(models.Committee{ID: 3, Name: "Academy", IsOpen: true})
	reader := &fakeCommitteeAppReader{apps: []models.Application{
		{ID: 1, FullName: "Sara Adel", Email: "sara@example.com", Status: models.StatusPending},
		{ID: 2, FullName: "Omar Nabil", Email: "omar@example.com", Status: models.StatusPending},
		{ID: 3, FullName: "Nour Hany", Email: "nour@example.com", Status: models.StatusAccepted},
		{ID: 4, FullName: "Ali Tarek", Email: "ali@example.com", Status: models.StatusRejected},
	}}
	svc := NewCommitteeService(store, reader)

	detail, err := svc.Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Committee.Name != "Academy" {
		t.Errorf("committee = %q, want Academy", detail.Committee.Name)
	}
	if reader.lastFilter.CommitteeID != 3 {
		t.Errorf("filter committee id = %d, want 3", reader.lastFilter.CommitteeID)
	}
	if len(detail.Applications) != 4 {
		t.Fatalf("applications = %d, want 4", len(detail.Applications))
	}
	want := dto.CommitteeApplicationStats{Total: 4, Pending: 2, Accepted: 1, Rejected: 1}
	if detail.Stats != want {
		t.Errorf("stats = %+v, want %+v", detail.Stats, want)
	}

	if _, err := svc.Get(context.Background(), 99); !errors.Is(err, apperrors.ErrCommitteeNotFound) {
		t.Fatalf("err = %v, want ErrCommitteeNotFound", err)
	}
}

func TestCommitteeListAdminIncludesCounts(t *testing.T) {
	store := newFakeCommitteeStore(
		models.Committee{ID: 1, Name: "Academy", IsOpen: true},
		models.Committee{ID: 2, Name: "Logistics", IsOpen: false},
	)
	store.counts[1] = 5
	svc := NewCommitteeService(store, &fakeCommitteeAppReader{})

	resp, err := svc.ListAdmin(context.Background())
	if err != nil {
		t.Fatalf("ListAdmin: %v", err)
	}
	if len(resp.Committees) != 2 {
		t.Fatalf("committees = %d, want 2", len(resp.Committees))
	}
	counts := make(map[string]int64)
	for _, c := range resp.Committees {
		counts[c.Name] = c.ApplicationCount
	}
	if counts["Academy"] != 5 || counts["Logistics"] != 0 {
		t.Errorf("counts = %v", counts)
	}
}
