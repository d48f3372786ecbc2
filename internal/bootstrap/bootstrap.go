package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/spesuez/recruitment/internal/app/controllers"
	"github.com/spesuez/recruitment/internal/app/export"
	appMigrations "github.com/spesuez/recruitment/internal/app/migrations"
	"github.com/spesuez/recruitment/internal/app/notify"
	appRepos "github.com/spesuez/recruitment/internal/app/repositories"
	appRoutes "github.com/spesuez/recruitment/internal/app/routes"
	appServices "github.com/spesuez/recruitment/internal/app/services"
	"github.com/spesuez/recruitment/internal/config"
	"github.com/spesuez/recruitment/internal/db"
	appMiddleware "github.com/spesuez/recruitment/internal/middleware"
	pkgAuth "github.com/spesuez/recruitment/internal/pkg/auth"
	"github.com/spesuez/recruitment/internal/pkg/email"
	"github.com/spesuez/recruitment/internal/pkg/filestorage"
	"github.com/spesuez/recruitment/internal/pkg/helpers"
	"github.com/spesuez/recruitment/internal/pkg/logger"
	"github.com/spesuez/recruitment/internal/pkg/wizard"
	"github.com/spesuez/recruitment/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	ApplicationService appServices.ApplicationService
	CommitteeService   appServices.CommitteeService
	ExportService      appServices.ExportService
	DashboardService   appServices.DashboardService
	AuthService        appServices.AuthService

	AuthController        *appControllers.AuthController
	ApplicationController *appControllers.ApplicationController
	CommitteeController   *appControllers.CommitteeController
	DashboardController   *appControllers.DashboardController
	AuthMiddleware        *appMiddleware.AuthMiddleware

	Repos       *appRepos.Repositories
	JWTService  *pkgAuth.JWTService
	FileStorage *filestorage.LocalStorage
	Logger      zerolog.Logger

	// redisClient and workerCancel are set only when the Redis queue
	// is configured; Close releases them.
	redisClient  *redis.Client
	workerCancel context.CancelFunc
}

// Close stops the confirmation email worker and releases the Redis
// connection, if any.
func (d *Dependencies) Close() {
	if d.workerCancel != nil {
		d.workerCancel()
	}
	if d.redisClient != nil {
		if err := d.redisClient.Close(); err != nil {
			d.Logger.Error().Err(err).Msg("Error closing Redis client")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default committees and admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding failures are logged but never block startup.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// File storage serves uploads via the /uploads static route.
	baseURL := cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	emailService := email.NewEmailService(email.SMTPConfig{
		Host:         cfg.SMTP.Host,
		Port:         cfg.SMTP.Port,
		Username:     cfg.SMTP.Username,
		Password:     cfg.SMTP.Password,
		FromName:     cfg.SMTP.FromName,
		FromEmail:    cfg.SMTP.FromEmail,
		UseTLS:       cfg.SMTP.UseTLS,
		ContactEmail: cfg.Recruitment.ContactEmail,
	}, lgr)

	dispatcher, err := setupDispatcher(cfg, emailService, deps, lgr)
	if err != nil {
		return nil, err
	}

	opensAt, closesAt, err := cfg.RecruitmentWindow()
	if err != nil {
		lgr.Error().Err(err).Msg("Invalid recruitment window configuration")
		return nil, fmt.Errorf("invalid recruitment window: %w", err)
	}
	settings := appServices.RecruitmentSettings{
		Open:         cfg.Recruitment.Open,
		OpensAt:      opensAt,
		ClosesAt:     closesAt,
		ContactEmail: cfg.Recruitment.ContactEmail,
		ChoiceLimits: wizard.ChoiceLimits{
			Min: cfg.Recruitment.ChoicesMin,
			Max: cfg.Recruitment.ChoicesMax,
		},
	}

	deps.ApplicationService = appServices.NewApplicationService(
		deps.Repos.ApplicationRepository,
		deps.Repos.CommitteeRepository,
		deps.FileStorage,
		dispatcher,
		settings,
	)
	deps.CommitteeService = appServices.NewCommitteeService(deps.Repos.CommitteeRepository, deps.Repos.ApplicationRepository)
	deps.ExportService = appServices.NewExportService(deps.Repos.ApplicationRepository, export.New())
	deps.DashboardService = appServices.NewDashboardService(deps.Repos.ApplicationRepository, deps.Repos.CommitteeRepository)
	deps.AuthService = appServices.NewAuthService(deps.Repos.AdminRepository, deps.JWTService)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService, deps.ExportService)
	deps.CommitteeController = appControllers.NewCommitteeController(deps.CommitteeService)
	deps.DashboardController = appControllers.NewDashboardController(deps.DashboardService)

	return deps, nil
}

// setupDispatcher selects the confirmation email path: a Redis-backed
// queue with a background worker when an address is configured, or a
// synchronous single-attempt dispatcher otherwise.
func setupDispatcher(cfg *config.Config, emailService email.EmailService, deps *Dependencies, lgr zerolog.Logger) (notify.Dispatcher, error) {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis not configured; confirmation emails will be sent synchronously")
		return notify.NewSyncDispatcher(emailService), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	worker := notify.NewWorker(client, emailService)
	go worker.Run(workerCtx)

	deps.redisClient = client
	deps.workerCancel = workerCancel

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Confirmation email queue worker started")
	return notify.NewRedisDispatcher(client), nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ApplicationController,
		deps.CommitteeController,
		deps.DashboardController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
