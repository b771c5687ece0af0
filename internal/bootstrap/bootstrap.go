package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/acetrack/internal/app/controllers"
	appMigrations "github.com/yigit/acetrack/internal/app/migrations"
	appRepos "github.com/yigit/acetrack/internal/app/repositories"
	appRoutes "github.com/yigit/acetrack/internal/app/routes"
	appServices "github.com/yigit/acetrack/internal/app/services"
	"github.com/yigit/acetrack/internal/config"
	"github.com/yigit/acetrack/internal/db"
	appMiddleware "github.com/yigit/acetrack/internal/middleware"
	pkgAuth "github.com/yigit/acetrack/internal/pkg/auth"
	"github.com/yigit/acetrack/internal/pkg/logger"
	"github.com/yigit/acetrack/internal/pkg/validation"
	"github.com/yigit/acetrack/internal/pkg/websocket"
	"github.com/yigit/acetrack/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services        *appServices.Services
	Controllers     *appRoutes.Controllers
	AuthMiddleware  *appMiddleware.AuthMiddleware
	JWTService      *pkgAuth.JWTService
	NotificationHub *websocket.Hub
	Logger          zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  prettyLog,
		Service: "acetrack",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds reference data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)
	if err := migrator.Migrate(ctx, appMigrations.Files()); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Database.Seed {
		if err := seed.CreateDefaultData(ctx, appRepos.NewCurriculumRepository(database), lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	repos := appRepos.NewRepositories(database)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	svcDeps := appServices.DepsFromRepositories(repos)
	deps.NotificationHub = websocket.NewHub(logger.Component("notification_hub"))

	svcDeps.JWT = deps.JWTService
	svcDeps.Publisher = deps.NotificationHub
	svcDeps.Logger = lgr
	deps.Services = appServices.NewServices(svcDeps)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.Controllers = NewControllers(deps.Services, database, deps.NotificationHub, lgr)

	return deps
}

// NewControllers builds every controller on top of svcs.
func NewControllers(svcs *appServices.Services, pinger appControllers.Pinger, streamer appControllers.Streamer, lgr zerolog.Logger) *appRoutes.Controllers {
	return &appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(svcs.AuthService, lgr.With().Str("component", "auth").Logger()),
		Profile:      appControllers.NewProfileController(svcs.ProfileService, lgr),
		StudyPlan:    appControllers.NewStudyPlanController(svcs.StudyPlanService, lgr.With().Str("component", "study_plan").Logger()),
		Parent:       appControllers.NewParentController(svcs.ParentService, lgr.With().Str("component", "parent").Logger()),
		Quiz:         appControllers.NewQuizController(svcs.QuizService, lgr),
		Flashcard:    appControllers.NewFlashcardController(svcs.FlashcardService, lgr),
		Progress:     appControllers.NewProgressController(svcs.ProgressService, lgr),
		Notification: appControllers.NewNotificationController(svcs.NotificationService, streamer, lgr),
		Curriculum:   appControllers.NewCurriculumController(svcs.CurriculumService, lgr.With().Str("component", "curriculum").Logger()),
		Health:       appControllers.NewHealthController(pinger, lgr),
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterCustomRules(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	router := gin.New()
	router.Use(appMiddleware.Recovery(lgr))
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORSMaxAge(),
	}))

	if cfg.Server.EnableSwagger {
		appRoutes.SetupSwagger(router)
	}

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router, nil
}
