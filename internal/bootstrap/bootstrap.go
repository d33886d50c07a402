package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/hostelhub/internal/app/controllers"
	appMigrations "github.com/yigit/hostelhub/internal/app/migrations"
	appRepos "github.com/yigit/hostelhub/internal/app/repositories"
	appRoutes "github.com/yigit/hostelhub/internal/app/routes"
	appServices "github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/config"
	"github.com/yigit/hostelhub/internal/db"
	appMiddleware "github.com/yigit/hostelhub/internal/middleware"
	pkgAuth "github.com/yigit/hostelhub/internal/pkg/auth"
	"github.com/yigit/hostelhub/internal/pkg/email"
	"github.com/yigit/hostelhub/internal/pkg/filestorage"
	"github.com/yigit/hostelhub/internal/pkg/helpers"
	"github.com/yigit/hostelhub/internal/pkg/logger"
	"github.com/yigit/hostelhub/internal/pkg/websocket"
	"github.com/yigit/hostelhub/internal/seed"
)

// DefaultConfigPath is where the YAML config is looked up
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// MigrationsDir holds the SQL migrations applied at startup
const MigrationsDir = "migrations"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos *appRepos.Repositories

	JWTService      *pkgAuth.JWTService
	SessionProvider *pkgAuth.SessionProvider
	GoogleProvider  *pkgAuth.GoogleProvider
	FileStorage     filestorage.FileStorage
	Mailer          *email.SMTPMailer

	RoleResolver        *appServices.RoleResolver
	AuthService         *appServices.AuthService
	RoleService         *appServices.RoleService
	StudentService      *appServices.StudentService
	ComplaintService    *appServices.ComplaintService
	RoomChangeService   *appServices.RoomChangeService
	NotificationService *appServices.NotificationService
	VisitorService      *appServices.VisitorService

	NotificationHub *websocket.Hub
	AuthMiddleware  *appMiddleware.AuthMiddleware
	Controllers     appRoutes.Controllers

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"
	levelErr := logger.Configure(logger.Config{
		Level:   cfg.Logging.Level,
		Pretty:  prettyLog,
		Service: "hostelhub",
	})

	lgr := log.Logger
	if levelErr != nil {
		lgr.Warn().Err(levelErr).Msg("Falling back to info logging")
	}
	lgr.Info().Str("logLevel", zerolog.GlobalLevel().String()).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the connection pool.
func ConnectDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database.Pool, nil
}

// RunMigrations applies pending SQL migrations from dir.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, dir string, lgr zerolog.Logger) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		lgr.Error().Str("path", dir).Msg("Migrations directory not found")
		return 0, fmt.Errorf("migrations directory not found at %s: %w", dir, err)
	}

	lgr.Info().Str("path", dir).Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(pool, lgr).MigrateFromDirectory(ctx, dir)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return applied, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return applied, nil
}

// SetupDatabase connects and brings the schema up to date.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	pool, err := ConnectDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}
	if _, err := RunMigrations(ctx, pool, MigrationsDir, lgr); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// BuildServices wires repositories and services. It is shared by the HTTP
// server and the command line tools.
func BuildServices(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(dbPool)

	fileStorageBaseURL := strings.TrimRight(cfg.Server.PublicBaseURL, "/") + "/uploads"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Session.Secret,
		TTL:         helpers.ParseDuration(cfg.Session.TTL, 24*time.Hour),
		TokenIssuer: cfg.Session.Issuer,
	})
	deps.SessionProvider = pkgAuth.NewSessionProvider(deps.JWTService)
	deps.GoogleProvider = pkgAuth.NewGoogleProvider(pkgAuth.GoogleConfig{
		ClientID:     cfg.Auth.GoogleClientID,
		ClientSecret: cfg.Auth.GoogleClientSecret,
		RedirectURL:  cfg.Auth.GoogleRedirectURL,
	})
	if !deps.GoogleProvider.Enabled() {
		lgr.Warn().Msg("Google sign-in is not configured; sign-in endpoints will answer 503")
	}

	deps.Mailer = email.NewSMTPMailer(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromAddress,
		UseTLS:    cfg.SMTP.UseTLS,
	}, logger.Component("mailer"))

	domain := cfg.Auth.InstitutionDomain
	deps.RoleResolver = appServices.NewRoleResolver(deps.Repos.RoleRepository, domain, lgr)
	deps.AuthService = appServices.NewAuthService(deps.GoogleProvider, deps.JWTService, deps.RoleResolver, lgr)
	deps.RoleService = appServices.NewRoleService(deps.Repos.RoleRepository, domain, lgr)
	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository, domain, lgr)
	deps.ComplaintService = appServices.NewComplaintService(deps.Repos.ComplaintRepository, deps.Repos.StudentRepository, deps.FileStorage, lgr)
	deps.RoomChangeService = appServices.NewRoomChangeService(deps.Repos.RoomChangeRepository, deps.Repos.StudentRepository, lgr)
	deps.NotificationService = appServices.NewNotificationService(deps.Repos.NotificationRepository, deps.Mailer, lgr)
	deps.VisitorService = appServices.NewVisitorService(deps.Repos.VisitorRepository, deps.Repos.StudentRepository, lgr)

	return deps, nil
}

// BuildDependencies wires everything the HTTP server needs.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps, err := BuildServices(cfg, dbPool, lgr)
	if err != nil {
		return nil, err
	}

	deps.NotificationHub = websocket.NewHub(cfg.Server.FrontendURL, logger.Component("notification_feed"))
	deps.NotificationService.WithPublisher(deps.NotificationHub)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.SessionProvider, deps.RoleResolver, appMiddleware.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
		TTL:    deps.JWTService.TTL(),
	}, lgr)

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, deps.RoleResolver, deps.AuthMiddleware, cfg.Server.FrontendURL, lgr),
		Student:      appControllers.NewStudentController(deps.StudentService, lgr),
		Complaint:    appControllers.NewComplaintController(deps.ComplaintService, lgr),
		RoomChange:   appControllers.NewRoomChangeController(deps.RoomChangeService, lgr),
		Notification: appControllers.NewNotificationController(deps.NotificationService, deps.NotificationHub, lgr),
		Visitor:      appControllers.NewVisitorController(deps.VisitorService, lgr),
		Role:         appControllers.NewRoleController(deps.RoleService, lgr),
		Health:       appControllers.NewHealthController(dbPool),
	}

	return deps, nil
}

// SeedBootstrapAdmins gives the configured bootstrap emails the admin role
// when they have no assignment yet. Failures are logged, not fatal.
func SeedBootstrapAdmins(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	err := seed.BootstrapAdmins(ctx, deps.RoleService, cfg.Auth.BootstrapAdmins, deps.Logger)
	if err != nil && !errors.Is(err, seed.ErrNoBootstrapAdmins) {
		deps.Logger.Error().Err(err).Msg("Failed to seed bootstrap admins, proceeding anyway...")
	}
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

	appMiddleware.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.CORS(cfg.Server.FrontendURL))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
