package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/thesismatch/internal/app/auth"
	appControllers "github.com/yigit/thesismatch/internal/app/controllers"
	appMigrations "github.com/yigit/thesismatch/internal/app/migrations"
	appRepos "github.com/yigit/thesismatch/internal/app/repositories"
	appRoutes "github.com/yigit/thesismatch/internal/app/routes"
	appServices "github.com/yigit/thesismatch/internal/app/services"
	"github.com/yigit/thesismatch/internal/config"
	"github.com/yigit/thesismatch/internal/db"
	appMiddleware "github.com/yigit/thesismatch/internal/middleware"
	pkgAuth "github.com/yigit/thesismatch/internal/pkg/auth"
	"github.com/yigit/thesismatch/internal/pkg/filestorage"
	"github.com/yigit/thesismatch/internal/pkg/helpers"
	"github.com/yigit/thesismatch/internal/pkg/locker"
	"github.com/yigit/thesismatch/internal/pkg/logger"
	"github.com/yigit/thesismatch/internal/pkg/validation"
	"github.com/yigit/thesismatch/internal/pkg/websocket"
	"github.com/yigit/thesismatch/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Hasher         *pkgAuth.PasswordHasher
	AuthzService   *appAuth.AuthorizationService
	FileStorage    *filestorage.LocalStorage
	Events         *websocket.Hub // started by the server
	Logger         zerolog.Logger
}

// Storage is the persistence backend chosen by the configuration.
// Database is nil for the file driver.
type Storage struct {
	Repos    *appRepos.Repositories
	Database *db.PostgresDB
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

// SetupStorage opens the configured record store. The postgres driver
// connects, pings and migrates before returning.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	if cfg.Storage.Driver == config.StorageDriverFile {
		lgr.Info().Str("dir", cfg.Storage.DataDir).Msg("Using JSON file storage")
		return &Storage{Repos: appRepos.NewFileRepositories(cfg.Storage.DataDir)}, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool, lgr).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return &Storage{Repos: appRepos.NewPostgresRepositories(database), Database: database}, nil
}

// SetupLocker returns the lock the assignment coordinator serializes on.
// The redis client is nil for the local strategy.
func SetupLocker(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (locker.Locker, *redis.Client, error) {
	if cfg.Assignment.LockStrategy != config.LockStrategyRedis {
		lgr.Info().Msg("Using in-process assignment locks")
		return locker.NewKeyedMutex(), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to ping redis")
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Using redis assignment locks")
	return locker.NewRedisLocker(client, cfg.Redis.Prefix, cfg.Assignment.LockTTL, lgr), client, nil
}

// BuildDependencies initializes services, middleware and controllers.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, lk locker.Locker, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Repos: repos, Logger: lgr}

	var err error
	// Uploads are only served through the authorized download route, so no public URL
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, "")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.AuthzService = appAuth.NewAuthorizationService(repos.Students)
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Hasher = pkgAuth.NewPasswordHasher(pkgAuth.BcryptCost)
	deps.Events = websocket.NewHub(lgr.With().Str("component", "events").Logger())

	deps.Services = appServices.NewServices(repos, deps.FileStorage, deps.AuthzService, deps.JWTService, deps.Hasher,
		appServices.Options{
			Locker:        lk,
			LockWait:      cfg.Assignment.LockWait,
			MaxUploadSize: cfg.MaxUploadBytes(),
			Events:        deps.Events,
		}, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	component := func(name string) zerolog.Logger { return lgr.With().Str("component", name).Logger() }
	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(deps.Services.Auth, component("auth")),
		Matching:    appControllers.NewMatchingController(deps.Services.Matching, deps.Services.Coordinator, component("matching")),
		Supervisors: appControllers.NewSupervisorController(deps.Services.Supervisors, component("supervisors")),
		Students:    appControllers.NewStudentController(deps.Services.Students, component("students")),
		Workflow:    appControllers.NewWorkflowController(deps.Services.Workflow),
		Documents:   appControllers.NewDocumentController(deps.Services.Documents, component("documents")),
		Stats:       appControllers.NewStatsController(deps.Services.Stats),
		Health:      appControllers.NewHealthController(),
		Events:      appControllers.NewEventsController(deps.Events, component("events")),
		Theses:      appControllers.NewThesisController(deps.Services.Theses, component("theses")),
	}

	return deps, nil
}

// SeedDefaultData creates the workflow catalog and the administrator account.
// Failures are logged and startup continues.
func SeedDefaultData(ctx context.Context, cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) {
	admin := seed.AdminAccount{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
	}
	if err := seed.CreateDefaultData(ctx, deps.Repos, deps.Hasher, admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	router := gin.New()
	router.ContextWithFallback = true
	router.MaxMultipartMemory = cfg.MaxUploadBytes()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr.With().Str("component", "http").Logger()))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}
