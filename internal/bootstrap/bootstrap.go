package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/coursehub/internal/app/auth"
	appControllers "github.com/yigit/coursehub/internal/app/controllers"
	appMigrations "github.com/yigit/coursehub/internal/app/migrations"
	appRepos "github.com/yigit/coursehub/internal/app/repositories"
	memoryRepos "github.com/yigit/coursehub/internal/app/repositories/memory"
	appRoutes "github.com/yigit/coursehub/internal/app/routes"
	appServices "github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/config"
	"github.com/yigit/coursehub/internal/db"
	appMiddleware "github.com/yigit/coursehub/internal/middleware"
	pkgAuth "github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/pkg/session"
)

// Resources are the long-lived connections opened at startup. Close releases
// whichever of them were opened.
type Resources struct {
	Store    appRepos.Store
	Blobs    filestorage.BlobStore
	Sessions session.Store

	database *db.PostgresDB
	redis    *session.RedisStore
}

// Close releases database and redis connections.
func (r *Resources) Close(lgr zerolog.Logger) {
	if r.redis != nil {
		if err := r.redis.Close(); err != nil {
			lgr.Error().Err(err).Msg("Failed to close redis client")
		}
	}
	if r.database != nil {
		r.database.Close()
		lgr.Info().Msg("Database connection pool closed.")
	}
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	JWTService   *pkgAuth.JWTService
	Sessions     *session.Manager
	Files        *filestorage.Manager
	AuthzService *appAuth.AuthorizationService
	Services     *appServices.Services

	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupResources opens the relational store, the blob store and the session
// store selected by cfg. On error everything already opened is closed.
func SetupResources(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (_ *Resources, err error) {
	res := &Resources{}
	defer func() {
		if err != nil {
			res.Close(lgr)
		}
	}()

	if err := setupStore(ctx, cfg, lgr, res); err != nil {
		return nil, err
	}

	switch cfg.Storage.Driver {
	case "s3":
		res.Blobs, err = filestorage.NewS3Storage(ctx, filestorage.S3Config{
			Bucket:          cfg.Storage.S3.Bucket,
			Region:          cfg.Storage.S3.Region,
			Endpoint:        cfg.Storage.S3.Endpoint,
			AccessKeyID:     cfg.Storage.S3.AccessKeyID,
			SecretAccessKey: cfg.Storage.S3.SecretAccessKey,
			UsePathStyle:    cfg.Storage.S3.UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		lgr.Info().Str("bucket", cfg.Storage.S3.Bucket).Msg("Using S3 blob storage")
	default:
		local, err := filestorage.NewLocalStorage(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		res.Blobs = local
		lgr.Info().Str("path", local.BasePath()).Msg("Using local blob storage")
	}

	switch cfg.Session.Driver {
	case "redis":
		res.redis, err = session.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		res.Sessions = res.redis
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Using redis session store")
	default:
		res.Sessions = session.NewMemoryStore()
		lgr.Info().Msg("Using in-memory session store")
	}

	return res, nil
}

func setupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger, res *Resources) error {
	if cfg.Database.Driver == "memory" {
		res.Store = memoryRepos.NewStore()
		lgr.Warn().Msg("Using in-memory store; data is lost on restart")
		return nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return err
	}
	res.database = database
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	res.Store = appRepos.NewPostgresStore(database)
	return nil
}

// BuildDependencies initializes services, middleware and controllers.
func BuildDependencies(cfg *config.Config, res *Resources, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:  cfg.JWT.Secret,
		SessionExp: cfg.SessionTTL(),
		Issuer:     cfg.JWT.Issuer,
	})
	deps.Sessions = session.NewManager(res.Sessions, deps.JWTService)
	deps.Files = filestorage.NewManager(res.Blobs)
	deps.AuthzService = appAuth.NewAuthorizationService()

	deps.Services = &appServices.Services{
		Auth:        appServices.NewAuthService(res.Store, deps.Sessions, lgr.With().Str("service", "auth").Logger()),
		Courses:     appServices.NewCourseService(res.Store, deps.Files, deps.AuthzService, lgr.With().Str("service", "courses").Logger()),
		Enrollments: appServices.NewEnrollmentService(res.Store, lgr.With().Str("service", "enrollments").Logger()),
		Accounts:    appServices.NewAccountService(res.Store, deps.Files, deps.Sessions, lgr.With().Str("service", "accounts").Logger()),
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Sessions)
	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(deps.Services.Auth, cfg.Server.CookieSecure, lgr),
		Courses:     appControllers.NewCourseController(deps.Services.Courses, lgr),
		Enrollments: appControllers.NewEnrollmentController(deps.Services.Enrollments, lgr),
		Accounts:    appControllers.NewAccountController(deps.Services.Accounts, cfg.Server.CookieSecure, lgr),
		Uploads:     appControllers.NewUploadController(deps.Files, lgr),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.MaxBodySize(cfg.Server.MaxUploadBytes))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	return router
}
