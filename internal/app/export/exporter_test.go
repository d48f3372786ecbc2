package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spesuez/recruitment/internal/app/models"
)

var testClock = func() time.Time {
	return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
}

func sampleApplications() []models.Application {
	openSpace := "Looking forward to it"
	return []models.Application{
		{
			ID:                        1,
			FullName:                  "Jane Doe",
			Email:                     "jane@example.com",
			Mobile:                    "01234567890",
			FacebookLink:              "https://facebook.com/jane",
			University:                "Suez University",
			Faculty:                   "Petroleum Engineering",
			Department:                "Petroleum",
			AcademicYear:              models.YearThird,
			PreviousExperience:        "None",
			WhyApplying:               "To learn",
			HowBenefit:                "Experience",
			WhyCommittee:              "I like writing",
			CommitteeResponsibilities: "Editing articles",
			OpenSpace:                 &openSpace,
			CommitteeChoices:          []string{"Magazine Editing", "Social Media"},
			Status:                    models.StatusPending,
			SubmittedAt:               time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:               2,
			FullName:         "John Smith",
			Email:            "john@example.com",
			AcademicYear:     models.YearFirst,
			CommitteeChoices: []string{"Logistics"},
			Status:           models.StatusAccepted,
			SubmittedAt:      time.Date(2026, 3, 11, 18, 0, 0, 0, time.UTC),
		},
	}
}

func staticSource(apps []models.Application) RowSource {
	return func(ctx context.Context) ([]models.Application, error) {
		return apps, nil
	}
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	if !bytes.HasPrefix(data, utf8BOM) {
		t.Fatal("CSV payload missing UTF-8 BOM")
	}
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
	if err != nil {
		t.Fatalf("parsing CSV: %v", err)
	}
	return records
}

func TestExportPrimary(t *testing.T) {
	e := New(WithClock(testClock))
	outcome := e.Export(context.Background(), staticSource(sampleApplications()))

	if outcome.State != StatePrimary {
		t.Fatalf("state = %q, want %q", outcome.State, StatePrimary)
	}
	if outcome.Filename != "spe_applications_2026-03-14_15-09-26.xlsx" {
		t.Errorf("filename = %q", outcome.Filename)
	}
	if outcome.ContentType != xlsxContentType {
		t.Errorf("content type = %q", outcome.ContentType)
	}

	f, err := excelize.OpenReader(bytes.NewReader(outcome.Data))
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want header + 2", len(rows))
	}
	if len(rows[0]) != len(columnHeaders) {
		t.Fatalf("header has %d columns, want %d", len(rows[0]), len(columnHeaders))
	}
	for i, want := range columnHeaders {
		if rows[0][i] != want {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], want)
		}
	}
	if got := rows[1][9]; got != "Magazine Editing; Social Media" {
		t.Errorf("choices cell = %q", got)
	}
	if got := rows[1][10]; got != "Pending" {
		t.Errorf("status cell = %q, want capitalized", got)
	}
	if got := rows[1][17]; got != "2026-03-10 09:30:00" {
		t.Errorf("submitted cell = %q", got)
	}
}

func TestExportFallbackCSV(t *testing.T) {
	calls := 0
	source := func(ctx context.Context) ([]models.Application, error) {
		calls++
		return sampleApplications(), nil
	}

	e := New(
		WithClock(testClock),
		WithWorkbookWriter(func(apps []models.Application) ([]byte, error) {
			return nil, errors.New("workbook exploded")
		}),
	)
	outcome := e.Export(context.Background(), source)

	if outcome.State != StateFallback {
		t.Fatalf("state = %q, want %q", outcome.State, StateFallback)
	}
	if outcome.Filename != "spe_applications_2026-03-14_15-09-26.csv" {
		t.Errorf("filename = %q", outcome.Filename)
	}
	if outcome.ContentType != csvContentType {
		t.Errorf("content type = %q", outcome.ContentType)
	}
	if calls != 2 {
		t.Errorf("source calls = %d, want a re-fetch for the fallback", calls)
	}

	records := parseCSV(t, outcome.Data)
	if len(records) != 3 {
		t.Fatalf("record count = %d, want header + 2", len(records))
	}
	if len(records[0]) != len(columnHeaders) {
		t.Fatalf("header has %d columns, want %d", len(records[0]), len(columnHeaders))
	}
	if got := records[2][10]; got != "Accepted" {
		t.Errorf("status cell = %q", got)
	}
	if got := records[2][16]; got != "" {
		t.Errorf("open space for nil value = %q, want empty", got)
	}
}

func TestExportSentinelOnSourceError(t *testing.T) {
	e := New(WithClock(testClock))
	outcome := e.Export(context.Background(), func(ctx context.Context) ([]models.Application, error) {
		return nil, errors.New("database is gone")
	})

	if outcome.State != StateErrorSentinel {
		t.Fatalf("state = %q, want %q", outcome.State, StateErrorSentinel)
	}
	records := parseCSV(t, outcome.Data)
	if len(records) != 2 || records[0][0] != "error" {
		t.Fatalf("sentinel records = %v", records)
	}
}

func TestExportSentinelWhenFallbackRefetchFails(t *testing.T) {
	calls := 0
	source := func(ctx context.Context) ([]models.Application, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("connection lost")
		}
		return sampleApplications(), nil
	}

	e := New(
		WithClock(testClock),
		WithWorkbookWriter(func(apps []models.Application) ([]byte, error) {
			return nil, errors.New("workbook exploded")
		}),
	)
	outcome := e.Export(context.Background(), source)

	if outcome.State != StateErrorSentinel {
		t.Fatalf("state = %q, want %q", outcome.State, StateErrorSentinel)
	}
}

func TestExportEmptyResultStillPrimary(t *testing.T) {
	e := New(WithClock(testClock))
	outcome := e.Export(context.Background(), staticSource(nil))

	if outcome.State != StatePrimary {
		t.Fatalf("state = %q, want %q", outcome.State, StatePrimary)
	}

	f, err := excelize.OpenReader(bytes.NewReader(outcome.Data))
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("row count = %d, want header only", len(rows))
	}
}
