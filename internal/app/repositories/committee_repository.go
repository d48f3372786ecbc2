package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spesuez/recruitment/internal/app/models"
	"github.com/spesuez/recruitment/internal/pkg/apperrors"
	"github.com/spesuez/recruitment/internal/pkg/dberrors"
	"github.com/spesuez/recruitment/internal/pkg/logger"
)

var committeeColumns = []string{
	"id", "name", "description", "responsibilities", "is_open", "created_at", "updated_at",
}

// CommitteeRepository handles committee database operations
type CommitteeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommitteeRepository creates a new CommitteeRepository
func NewCommitteeRepository(db *pgxpool.Pool) *CommitteeRepository {
	return &CommitteeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAll retrieves all committees ordered by name. When openOnly is set,
// closed committees are excluded.
func (r *CommitteeRepository) GetAll(ctx context.Context, openOnly bool) ([]models.Committee, error) {
	selectBuilder := r.sb.Select(committeeColumns...).
		From("committees").
		OrderBy("name ASC")
	if openOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_open": true})
	}

	querySQL, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get committees query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get committees query")
		return nil, fmt.Errorf("failed to query committees: %w", err)
	}
	defer rows.Close()

	var committees []models.Committee
	for rows.Next() {
		var c models.Committee
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Responsibilities, &c.IsOpen, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan committee row: %w", err)
		}
		committees = append(committees, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating committee rows: %w", err)
	}
	if committees == nil {
		committees = []models.Committee{}
	}
	return committees, nil
}

// GetByID retrieves a committee by its ID.
func (r *CommitteeRepository) GetByID(ctx context.Context, id int64) (*models.Committee, error) {
	querySQL, args, err := r.sb.Select(committeeColumns...).
		From("committees").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get committee query: %w", err)
	}

	var c models.Committee
	err = r.db.QueryRow(ctx, querySQL, args...).Scan(
		&c.ID, &c.Name, &c.Description, &c.Responsibilities, &c.IsOpen, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn().Int64("committeeID", id).Msg("Committee not found by ID")
			return nil, apperrors.ErrCommitteeNotFound
		}
		return nil, fmt.Errorf("error querying committee ID=%d: %w", id, err)
	}
	return &c, nil
}

// GetOpenByNames resolves committee names to open committees, preserving
// the input order. A name that is missing or closed yields
// ErrCommitteeNotFound / ErrCommitteeClosed.
func (r *CommitteeRepository) GetOpenByNames(ctx context.Context, names []string) ([]models.Committee, error) {
	if len(names) == 0 {
		return []models.Committee{}, nil
	}

	querySQL, args, err := r.sb.Select(committeeColumns...).
		From("committees").
		Where(squirrel.Eq{"name": names}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build committees by name query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query committees by name: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]models.Committee, len(names))
	for rows.Next() {
		var c models.Committee
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Responsibilities, &c.IsOpen, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan committee row: %w", err)
		}
		byName[c.Name] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating committee rows: %w", err)
	}

	ordered := make([]models.Committee, 0, len(names))
	for _, name := range names {
		c, ok := byName[name]
		if !ok {
			logger.Warn().Str("committee", name).Msg("Unknown committee in application choices")
			return nil, apperrors.ErrCommitteeNotFound
		}
		if !c.IsOpen {
			logger.Warn().Str("committee", name).Msg("Closed committee in application choices")
			return nil, apperrors.ErrCommitteeClosed
		}
		ordered = append(ordered, c)
	}
	return ordered, nil
}

// Create inserts a new committee.
func (r *CommitteeRepository) Create(ctx context.Context, committee *models.Committee) (int64, error) {
	insertSQL, args, err := r.sb.Insert("committees").
		Columns("name", "description", "responsibilities", "is_open").
		Values(committee.Name, committee.Description, committee.Responsibilities, committee.IsOpen).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create committee query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, insertSQL, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "committees_name_key") {
			logger.Warn().Str("name", committee.Name).Msg("Duplicate committee name")
			return 0, apperrors.ErrCommitteeAlreadyExists
		}
		logger.Error().Err(err).Msg("Error inserting committee")
		return 0, fmt.Errorf("error inserting committee: %w", err)
	}

	logger.Info().Int64("committeeID", id).Str("name", committee.Name).Msg("Committee created successfully")
	return id, nil
}

// Update updates an existing committee.
func (r *CommitteeRepository) Update(ctx context.Context, committee *models.Committee) error {
	updateSQL, args, err := r.sb.Update("committees").
		SetMap(map[string]interface{}{
			"name":             committee.Name,
			"description":      committee.Description,
			"responsibilities": committee.Responsibilities,
			"is_open":          committee.IsOpen,
			"updated_at":       time.Now(),
		}).
		Where(squirrel.Eq{"id": committee.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update committee query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, updateSQL, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "committees_name_key") {
			return apperrors.ErrCommitteeAlreadyExists
		}
		logger.Error().Err(err).Int64("committeeID", committee.ID).Msg("Error executing update committee query")
		return fmt.Errorf("error updating committee ID=%d: %w", committee.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		logger.Warn().Int64("committeeID", committee.ID).Msg("Attempted to update non-existent committee")
		return apperrors.ErrCommitteeNotFound
	}

	logger.Info().Int64("committeeID", committee.ID).Msg("Committee updated successfully")
	return nil
}

// CountApplications returns the number of applications that picked the
// committee in any choice position.
func (r *CommitteeRepository) CountApplications(ctx context.Context, id int64) (int64, error) {
	querySQL, args, err := r.sb.Select("COUNT(*)").
		From("application_committees").
		Where(squirrel.Eq{"committee_id": id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build committee applications count query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, querySQL, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting committee applications: %w", err)
	}
	return count, nil
}

// Delete removes a committee. Callers must first check it has no
// applications attached.
func (r *CommitteeRepository) Delete(ctx context.Context, id int64) error {
	deleteSQL, args, err := r.sb.Delete("committees").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete committee query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, deleteSQL, args...)
	if err != nil {
		logger.Error().Err(err).Int64("committeeID", id).Msg("Error executing delete committee query")
		return fmt.Errorf("error deleting committee ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		logger.Warn().Int64("committeeID", id).Msg("Attempted to delete non-existent committee")
		return apperrors.ErrCommitteeNotFound
	}

	logger.Info().Int64("committeeID", id).Msg("Committee deleted successfully")
	return nil
}

// CountAll returns total and open committee counts.
func (r *CommitteeRepository) CountAll(ctx context.Context) (total int64, open int64, err error) {
	err = r.db.QueryRow(ctx,
		"SELECT COUNT(*), COUNT(*) FILTER (WHERE is_open) FROM committees",
	).Scan(&total, &open)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count committees: %w", err)
	}
	return total, open, nil
}
