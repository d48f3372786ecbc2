package services

import (
	"context"

	"github.com/spesuez/recruitment/internal/app/export"
	"github.com/spesuez/recruitment/internal/app/models"
	"github.com/spesuez/recruitment/internal/app/models/dto"
	"github.com/spesuez/recruitment/internal/app/repositories"
)

// exportRowStore is the persistence surface the export pipeline needs.
type exportRowStore interface {
	GetAllForExport(ctx context.Context, filter repositories.ApplicationFilter) ([]models.Application, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	Export(ctx context.Context, query *dto.ListApplicationsQuery) export.Outcome
}

// exportServiceImpl implements ExportService
type exportServiceImpl struct {
	applicationRepo exportRowStore
	exporter        *export.Exporter
}

// NewExportService creates a new ExportService
func NewExportService(applicationRepo exportRowStore, exporter *export.Exporter) ExportService {
	return &exportServiceImpl{
		applicationRepo: applicationRepo,
		exporter:        exporter,
	}
}

// Export renders the filtered application set as a downloadable file.
// The listing and the export share the same filter so both always see
// the same logical result set.
func (s *exportServiceImpl) Export(ctx context.Context, query *dto.ListApplicationsQuery) export.Outcome {
	filter := repositories.ApplicationFilter{
		Status:      query.Status,
		CommitteeID: query.Committee,
		Search:      query.Search,
		SortBy:      query.SortBy,
		SortOrder:   query.SortOrder,
	}

	return s.exporter.Export(ctx, func(ctx context.Context) ([]models.Application, error) {
		return s.applicationRepo.GetAllForExport(ctx, filter)
	})
}
