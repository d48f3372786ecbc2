// Package export renders filtered application sets into downloadable
// files. Generation degrades through three tiers: an xlsx workbook,
// then a plain CSV with the same rows, then a one-row CSV error
// sentinel. A caller always gets a file back.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spesuez/recruitment/internal/app/models"
	"github.com/spesuez/recruitment/internal/pkg/logger"
)

// State identifies which tier of the pipeline produced the outcome.
type State string

const (
	// StatePrimary is the xlsx workbook path.
	StatePrimary State = "primary"
	// StateFallback is the full-data CSV path, taken when workbook
	// generation fails.
	StateFallback State = "fallback"
	// StateErrorSentinel is the terminal path: a minimal CSV carrying
	// an error marker instead of data.
	StateErrorSentinel State = "error_sentinel"
)

const (
	filenamePrefix     = "spe_applications_"
	filenameTimeLayout = "2006-01-02_15-04-05"
	cellTimeLayout     = "2006-01-02 15:04:05"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=utf-8"

	sheetName = "Applications"
)

// utf8BOM is prepended to CSV payloads so spreadsheet tools detect the
// encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// columnHeaders is the fixed 18-column export layout.
var columnHeaders = []string{
	"ID", "Full Name", "Email", "Mobile", "Facebook Link",
	"University", "Faculty", "Department", "Academic Year",
	"Committee Choices", "Status", "Why Applying", "How Benefit",
	"Why Committee", "Committee Responsibilities", "Previous Experience",
	"Open Space", "Submitted At",
}

// columnWidths sizes the workbook columns, index-aligned with
// columnHeaders.
var columnWidths = []float64{
	5, 20, 25, 15, 25, 20, 20, 20, 15, 25, 12, 30, 30, 30, 30, 30, 30, 18,
}

// RowSource fetches the applications to export. The fallback tier calls
// it a second time so a partially consumed primary attempt cannot
// corrupt the CSV.
type RowSource func(ctx context.Context) ([]models.Application, error)

// Outcome is the result of a pipeline run. Data is always non-empty.
type Outcome struct {
	State       State
	Filename    string
	ContentType string
	Data        []byte
}

// WorkbookWriter produces the primary-tier payload.
type WorkbookWriter func(apps []models.Application) ([]byte, error)

// Exporter drives the Primary -> Fallback -> ErrorSentinel pipeline.
type Exporter struct {
	writeWorkbook WorkbookWriter
	now           func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithWorkbookWriter replaces the workbook tier implementation.
func WithWorkbookWriter(w WorkbookWriter) Option {
	return func(e *Exporter) { e.writeWorkbook = w }
}

// WithClock replaces the filename timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// New creates an Exporter with the xlsx workbook as primary tier.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		writeWorkbook: writeWorkbook,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export runs the pipeline over the source's rows. It never returns an
// error: every failure degrades to the next tier and the terminal tier
// cannot fail.
func (e *Exporter) Export(ctx context.Context, source RowSource) Outcome {
	stamp := e.now().Format(filenameTimeLayout)

	apps, err := source(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Export query failed, emitting error sentinel")
		return e.sentinelOutcome(stamp)
	}

	data, err := e.writeWorkbook(apps)
	if err == nil {
		logger.Info().Int("rows", len(apps)).Str("state", string(StatePrimary)).Msg("Export generated")
		return Outcome{
			State:       StatePrimary,
			Filename:    filenamePrefix + stamp + ".xlsx",
			ContentType: xlsxContentType,
			Data:        data,
		}
	}
	logger.Error().Err(err).Msg("Workbook generation failed, falling back to CSV")

	// Re-fetch so the fallback never depends on state the failed
	// workbook attempt may have consumed.
	apps, err = source(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Fallback re-query failed, emitting error sentinel")
		return e.sentinelOutcome(stamp)
	}

	data, err = writeCSV(apps)
	if err != nil {
		logger.Error().Err(err).Msg("CSV fallback failed, emitting error sentinel")
		return e.sentinelOutcome(stamp)
	}

	logger.Info().Int("rows", len(apps)).Str("state", string(StateFallback)).Msg("Export generated")
	return Outcome{
		State:       StateFallback,
		Filename:    filenamePrefix + stamp + ".csv",
		ContentType: csvContentType,
		Data:        data,
	}
}

func (e *Exporter) sentinelOutcome(stamp string) Outcome {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	w.Write([]string{"error"})
	w.Write([]string{"export generation failed; contact the administrator"})
	w.Flush()

	return Outcome{
		State:       StateErrorSentinel,
		Filename:    filenamePrefix + stamp + ".csv",
		ContentType: csvContentType,
		Data:        buf.Bytes(),
	}
}

// row maps an application to the 18-column layout.
func row(app models.Application) []string {
	openSpace := ""
	if app.OpenSpace != nil {
		openSpace = *app.OpenSpace
	}
	return []string{
		fmt.Sprintf("%d", app.ID),
		app.FullName,
		app.Email,
		app.Mobile,
		app.FacebookLink,
		app.University,
		app.Faculty,
		app.Department,
		string(app.AcademicYear),
		strings.Join(app.CommitteeChoices, "; "),
		capitalize(string(app.Status)),
		app.WhyApplying,
		app.HowBenefit,
		app.WhyCommittee,
		app.CommitteeResponsibilities,
		app.PreviousExperience,
		openSpace,
		app.SubmittedAt.Format(cellTimeLayout),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeWorkbook(apps []models.Application) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name worksheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range columnHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}

		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve column name: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, columnWidths[i]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	lastHeaderCell, _ := excelize.CoordinatesToCellName(len(columnHeaders), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeaderCell, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header row: %w", err)
	}

	for i, app := range apps {
		cells := row(app)
		for j, value := range cells {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to address data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write data cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeCSV(apps []models.Application) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(columnHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, app := range apps {
		if err := w.Write(row(app)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
