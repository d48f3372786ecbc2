package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/spesuez/recruitment/internal/app/models"
	appRepos "github.com/spesuez/recruitment/internal/app/repositories"
	"github.com/spesuez/recruitment/internal/pkg/apperrors"
	"github.com/spesuez/recruitment/internal/pkg/auth"
)

// defaultAdminEmail is the bootstrap admin account. The password below is a
// first-login placeholder and should be rotated in any real deployment.
const (
	defaultAdminEmail    = "admin@spesuez.com"
	defaultAdminPassword = "admin123"
	defaultAdminName     = "SPE Suez Admin"
)

// defaultCommittees lists every chapter committee applicants can choose from.
var defaultCommittees = []appModels.Committee{
	{
		Name:             "Human resources Management (HRM)",
		Description:      "Manage team recruitment and development",
		Responsibilities: "Handle recruitment processes, team building, performance management, and human resource development strategies.",
	},
	{
		Name:             "Human resources Development (HRD)",
		Description:      "Focus on skill development and growth",
		Responsibilities: "Design training programs, conduct workshops, mentor members, and create development pathways for skill enhancement.",
	},
	{
		Name:             "Social Media",
		Description:      "Manage online presence and engagement",
		Responsibilities: "Create content for social platforms, engage with followers, manage brand presence, and execute digital marketing campaigns.",
	},
	{
		Name:             "Multimedia",
		Description:      "Create visual content and productions",
		Responsibilities: "Produce videos, create graphics, handle photography, manage visual assets, and support multimedia projects.",
	},
	{
		Name:             "Direct Marketing",
		Description:      "Handle marketing campaigns",
		Responsibilities: "Develop marketing strategies, execute promotional campaigns, manage advertising efforts, and drive brand awareness.",
	},
	{
		Name:             "Magazine Editing",
		Description:      "Edit and curate content",
		Responsibilities: "Review and edit articles, ensure content quality, coordinate with writers, and maintain editorial standards.",
	},
	{
		Name:             "Magazine Design",
		Description:      "Design layouts and visuals",
		Responsibilities: "Create magazine layouts, design graphics, manage visual elements, and ensure aesthetic consistency.",
	},
	{
		Name:             "International Relations (IR)",
		Description:      "Manage global partnerships",
		Responsibilities: "Build international connections, coordinate with global chapters, manage cultural exchanges, and develop international programs.",
	},
	{
		Name:             "Organizing Committee (OC)",
		Description:      "Plan and execute events",
		Responsibilities: "Organize events, coordinate logistics, manage schedules, oversee event execution, and ensure successful outcomes.",
	},
	{
		Name:             "Extracurricular Committee (EC)",
		Description:      "Organize student activities",
		Responsibilities: "Plan recreational activities, organize competitions, coordinate social events, and enhance student engagement.",
	},
	{
		Name:             "Logistics",
		Description:      "Handle resource management",
		Responsibilities: "Manage equipment and supplies, coordinate transportation, oversee venue arrangements, and handle operational logistics.",
	},
	{
		Name:             "Energy4me",
		Description:      "Energy awareness programs",
		Responsibilities: "Develop energy education programs, promote sustainability initiatives, create awareness campaigns, and engage communities.",
	},
	{
		Name:             "Academy",
		Description:      "Training and education programs",
		Responsibilities: "Design educational curricula, conduct training sessions, coordinate academic programs, and support learning initiatives.",
	},
	{
		Name:             "Data Analysis",
		Description:      "Analyze data and create insights",
		Responsibilities: "Collect and analyze data, create reports, generate insights, support decision-making with data-driven recommendations.",
	},
	{
		Name:             "Business Development (BD)",
		Description:      "Develop business strategies",
		Responsibilities: "Identify growth opportunities, build partnerships, develop strategic plans, and drive organizational development.",
	},
	{
		Name:             "Android",
		Description:      "Develop mobile applications",
		Responsibilities: "Design and develop Android applications, maintain mobile platforms, optimize user experience, and support mobile initiatives.",
	},
	{
		Name:             "Web Development",
		Description:      "Create web applications",
		Responsibilities: "Develop websites, maintain web platforms, create web applications, optimize performance, and ensure security.",
	},
}

// CreateDefaultData seeds the committee catalogue and the default admin
// account. It is idempotent: rows that already exist are left untouched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	committeeRepo := appRepos.NewCommitteeRepository(dbPool)
	adminRepo := appRepos.NewAdminRepository(dbPool)

	var finalErr error

	lgr.Info().Msg("Checking/Creating default committees...")
	for _, c := range defaultCommittees {
		committee := c
		committee.IsOpen = true
		if _, err := committeeRepo.Create(ctx, &committee); err != nil {
			if errors.Is(err, apperrors.ErrCommitteeAlreadyExists) {
				continue
			}
			lgr.Error().Err(err).Str("committee", committee.Name).Msg("Error creating default committee")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// Default admin account.
	if _, err := adminRepo.GetByEmail(ctx, defaultAdminEmail); err != nil {
		if !errors.Is(err, apperrors.ErrAdminNotFound) {
			lgr.Error().Err(err).Msg("Error checking for default admin")
			return errors.Join(finalErr, err)
		}

		lgr.Info().Msg("Creating default admin account...")
		hashedPassword, err := auth.HashPassword(defaultAdminPassword)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing default admin password")
			return errors.Join(finalErr, err)
		}

		admin := &appModels.Admin{
			Name:         defaultAdminName,
			Email:        defaultAdminEmail,
			PasswordHash: hashedPassword,
		}
		adminID, err := adminRepo.Create(ctx, admin)
		if err != nil && !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			lgr.Error().Err(err).Msg("Error creating default admin")
			finalErr = errors.Join(finalErr, err)
		} else if err == nil {
			lgr.Info().Int64("adminID", adminID).Msg("Default admin account created")
		}
	}

	return finalErr
}
