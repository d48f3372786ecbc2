package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spesuez/recruitment/internal/app/models"
	"github.com/spesuez/recruitment/internal/pkg/apperrors"
	"github.com/spesuez/recruitment/internal/pkg/dberrors"
	"github.com/spesuez/recruitment/internal/pkg/logger"
)

// AdminRepository handles admin account database operations
type AdminRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByEmail retrieves an admin account by email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	querySQL, args, err := r.sb.Select("id", "name", "email", "password_hash", "created_at").
		From("admins").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	var admin models.Admin
	err = r.db.QueryRow(ctx, querySQL, args...).Scan(
		&admin.ID, &admin.Name, &admin.Email, &admin.PasswordHash, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("error querying admin by email: %w", err)
	}
	return &admin, nil
}

// GetByID retrieves an admin account by ID.
func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	querySQL, args, err := r.sb.Select("id", "name", "email", "password_hash", "created_at").
		From("admins").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	var admin models.Admin
	err = r.db.QueryRow(ctx, querySQL, args...).Scan(
		&admin.ID, &admin.Name, &admin.Email, &admin.PasswordHash, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("error querying admin ID=%d: %w", id, err)
	}
	return &admin, nil
}

// Create inserts a new admin account.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) (int64, error) {
	insertSQL, args, err := r.sb.Insert("admins").
		Columns("name", "email", "password_hash").
		Values(admin.Name, admin.Email, admin.PasswordHash).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create admin query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, insertSQL, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "admins_email_key") {
			return 0, apperrors.ErrResourceAlreadyExists
		}
		logger.Error().Err(err).Msg("Error inserting admin")
		return 0, fmt.Errorf("error inserting admin: %w", err)
	}

	logger.Info().Int64("adminID", id).Str("email", admin.Email).Msg("Admin created successfully")
	return id, nil
}
