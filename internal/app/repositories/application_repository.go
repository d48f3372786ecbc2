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

// choicesSubquery aggregates the committee names an application picked,
// preserving the applicant's selection order.
const choicesSubquery = `COALESCE((SELECT array_agg(c.name ORDER BY ac.position)
	FROM application_committees ac
	JOIN committees c ON c.id = ac.committee_id
	WHERE ac.application_id = a.id), '{}') AS committee_choices`

// applicationColumns are the base columns selected for every application read.
var applicationColumns = []string{
	"a.id", "a.full_name", "a.email", "a.mobile", "a.facebook_link",
	"a.personal_photo", "a.university", "a.faculty", "a.department",
	"a.academic_year", "a.previous_experience", "a.why_applying",
	"a.how_benefit", "a.why_committee", "a.committee_responsibilities",
	"a.open_space", "a.status", "a.submitted_at", "a.created_at", "a.updated_at",
}

// CommitteeCount pairs a committee with its application count.
type CommitteeCount struct {
	CommitteeID   int64
	CommitteeName string
	Count         int64
}

// DailyCount counts the applications submitted on one calendar day.
type DailyCount struct {
	Day   time.Time
	Count int64
}

// ApplicationRepository handles application database operations
type ApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the application and its committee choices in one
// transaction. committeeIDs must be in the applicant's selection order.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application, committeeIDs []int64) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertSQL, args, err := r.sb.Insert("applications").
		Columns(
			"full_name", "email", "mobile", "facebook_link", "personal_photo",
			"university", "faculty", "department", "academic_year",
			"previous_experience", "why_applying", "how_benefit",
			"why_committee", "committee_responsibilities", "open_space",
			"status", "submitted_at",
		).
		Values(
			app.FullName, app.Email, app.Mobile, app.FacebookLink, app.PersonalPhoto,
			app.University, app.Faculty, app.Department, app.AcademicYear,
			app.PreviousExperience, app.WhyApplying, app.HowBenefit,
			app.WhyCommittee, app.CommitteeResponsibilities, app.OpenSpace,
			app.Status, app.SubmittedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create application query: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, insertSQL, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "applications_email_key") {
			logger.Warn().Str("email", app.Email).Msg("Duplicate application email")
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Msg("Error inserting application")
		return 0, fmt.Errorf("error inserting application: %w", err)
	}

	choiceInsert := r.sb.Insert("application_committees").
		Columns("application_id", "committee_id", "position")
	for i, committeeID := range committeeIDs {
		choiceInsert = choiceInsert.Values(id, committeeID, i+1)
	}
	choiceSQL, choiceArgs, err := choiceInsert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build committee choices query: %w", err)
	}
	if _, err := tx.Exec(ctx, choiceSQL, choiceArgs...); err != nil {
		logger.Error().Err(err).Int64("applicationID", id).Msg("Error inserting committee choices")
		return 0, fmt.Errorf("error inserting committee choices: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info().Int64("applicationID", id).Msg("Application created successfully")
	return id, nil
}

// GetAll retrieves applications matching the filter, paginated.
func (r *ApplicationRepository) GetAll(ctx context.Context, page, pageSize int, filter ApplicationFilter) ([]models.Application, int64, error) {
	where := filter.conditions()

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("applications a").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count applications query: %w", err)
	}

	var totalItems int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing count applications query")
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}
	if totalItems == 0 {
		return []models.Application{}, 0, nil
	}

	offset := uint64((page - 1) * pageSize)
	querySQL, queryArgs, err := r.sb.Select(append(applicationColumns, choicesSubquery)...).
		From("applications a").
		Where(where).
		OrderBy(filter.orderClause()).
		Limit(uint64(pageSize)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build get applications query: %w", err)
	}

	apps, err := r.queryApplications(ctx, querySQL, queryArgs)
	if err != nil {
		return nil, 0, err
	}

	logger.Info().Int("page", page).Int("pageSize", pageSize).Int64("totalItems", totalItems).Int("returnedItems", len(apps)).Msg("Successfully fetched applications")
	return apps, totalItems, nil
}

// GetAllForExport retrieves every application matching the filter,
// unpaginated, in the filter's sort order.
func (r *ApplicationRepository) GetAllForExport(ctx context.Context, filter ApplicationFilter) ([]models.Application, error) {
	querySQL, queryArgs, err := r.sb.Select(append(applicationColumns, choicesSubquery)...).
		From("applications a").
		Where(filter.conditions()).
		OrderBy(filter.orderClause()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build export applications query: %w", err)
	}

	return r.queryApplications(ctx, querySQL, queryArgs)
}

// GetByID retrieves an application by its ID including committee choices.
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	querySQL, args, err := r.sb.Select(append(applicationColumns, choicesSubquery)...).
		From("applications a").
		Where(squirrel.Eq{"a.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get application query: %w", err)
	}

	app, err := scanApplication(r.db.QueryRow(ctx, querySQL, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn().Int64("applicationID", id).Msg("Application not found by ID")
			return nil, apperrors.ErrApplicationNotFound
		}
		logger.Error().Err(err).Int64("applicationID", id).Msg("Error scanning application row by ID")
		return nil, fmt.Errorf("error querying application ID=%d: %w", id, err)
	}
	return app, nil
}

// ExistsByEmail reports whether an application with the email exists.
func (r *ApplicationRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	querySQL, args, err := r.sb.Select("1").
		From("applications a").
		Where(squirrel.Eq{"a.email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, querySQL, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking application email: %w", err)
	}
	return true, nil
}

// UpdateStatus moves an application to a new review status.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	updateSQL, args, err := r.sb.Update("applications").
		SetMap(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, updateSQL, args...)
	if err != nil {
		logger.Error().Err(err).Int64("applicationID", id).Msg("Error executing update status query")
		return fmt.Errorf("error updating application ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		logger.Warn().Int64("applicationID", id).Msg("Attempted to update non-existent application")
		return apperrors.ErrApplicationNotFound
	}

	logger.Info().Int64("applicationID", id).Str("status", string(status)).Msg("Application status updated")
	return nil
}

// PurgeAll deletes every application and returns the number removed.
// Committee choice rows go with them via ON DELETE CASCADE.
func (r *ApplicationRepository) PurgeAll(ctx context.Context) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, "DELETE FROM applications")
	if err != nil {
		logger.Error().Err(err).Msg("Error purging applications")
		return 0, fmt.Errorf("error purging applications: %w", err)
	}

	removed := cmdTag.RowsAffected()
	logger.Info().Int64("removed", removed).Msg("All applications purged")
	return removed, nil
}

// CountByStatus returns the number of applications per review status.
func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, "SELECT status, COUNT(*) FROM applications GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count applications by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count row: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status count rows: %w", err)
	}
	return counts, nil
}

// CountByCommittee returns application counts per committee, every
// committee included even with zero applications, ordered by name.
func (r *ApplicationRepository) CountByCommittee(ctx context.Context) ([]CommitteeCount, error) {
	querySQL, args, err := r.sb.Select("c.id", "c.name", "COUNT(ac.application_id)").
		From("committees c").
		LeftJoin("application_committees ac ON ac.committee_id = c.id").
		GroupBy("c.id", "c.name").
		OrderBy("c.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build committee counts query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications by committee: %w", err)
	}
	defer rows.Close()

	var counts []CommitteeCount
	for rows.Next() {
		var cc CommitteeCount
		if err := rows.Scan(&cc.CommitteeID, &cc.CommitteeName, &cc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan committee count row: %w", err)
		}
		counts = append(counts, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating committee count rows: %w", err)
	}
	return counts, nil
}

// CountByDay returns per-day submission counts for the last `days` days.
func (r *ApplicationRepository) CountByDay(ctx context.Context, days int) ([]DailyCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT date_trunc('day', submitted_at) AS day, COUNT(*)
		 FROM applications
		 WHERE submitted_at >= NOW() - ($1 * INTERVAL '1 day')
		 GROUP BY day
		 ORDER BY day ASC`, days)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications by day: %w", err)
	}
	defer rows.Close()

	var counts []DailyCount
	for rows.Next() {
		var dc DailyCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count row: %w", err)
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily count rows: %w", err)
	}
	return counts, nil
}

// GetRecent returns the most recently submitted applications.
func (r *ApplicationRepository) GetRecent(ctx context.Context, limit int) ([]models.Application, error) {
	querySQL, args, err := r.sb.Select(append(applicationColumns, choicesSubquery)...).
		From("applications a").
		OrderBy("a.submitted_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recent applications query: %w", err)
	}

	return r.queryApplications(ctx, querySQL, args)
}

func (r *ApplicationRepository) queryApplications(ctx context.Context, querySQL string, args []interface{}) ([]models.Application, error) {
	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing applications query")
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning application row")
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var app models.Application
	err := row.Scan(
		&app.ID, &app.FullName, &app.Email, &app.Mobile, &app.FacebookLink,
		&app.PersonalPhoto, &app.University, &app.Faculty, &app.Department,
		&app.AcademicYear, &app.PreviousExperience, &app.WhyApplying,
		&app.HowBenefit, &app.WhyCommittee, &app.CommitteeResponsibilities,
		&app.OpenSpace, &app.Status, &app.SubmittedAt, &app.CreatedAt, &app.UpdatedAt,
		&app.CommitteeChoices,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}
