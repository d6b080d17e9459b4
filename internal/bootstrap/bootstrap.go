package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/joblink/internal/app/auth"
	appControllers "github.com/yigit/joblink/internal/app/controllers"
	appMigrations "github.com/yigit/joblink/internal/app/migrations"
	appRepos "github.com/yigit/joblink/internal/app/repositories"
	appRoutes "github.com/yigit/joblink/internal/app/routes"
	appServices "github.com/yigit/joblink/internal/app/services"
	"github.com/yigit/joblink/internal/config"
	"github.com/yigit/joblink/internal/db"
	appMiddleware "github.com/yigit/joblink/internal/middleware"
	pkgAuth "github.com/yigit/joblink/internal/pkg/auth"
	"github.com/yigit/joblink/internal/pkg/email"
	"github.com/yigit/joblink/internal/pkg/filestorage"
	"github.com/yigit/joblink/internal/pkg/helpers"
	"github.com/yigit/joblink/internal/pkg/logger"
	"github.com/yigit/joblink/internal/pkg/notification"
	"github.com/yigit/joblink/internal/pkg/ratelimit"
	"github.com/yigit/joblink/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         appServices.AuthService
	ProfileService      appServices.ProfileService
	JobService          appServices.JobService
	ApplicationService  appServices.ApplicationService
	ConversationService appServices.ConversationService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	FileStorage    *filestorage.LocalStorage
	Dispatcher     *notification.Dispatcher
	Broker         notification.Broker // nil for the in-process broker
	Redis          *redis.Client
	Logger         zerolog.Logger
}

// Close releases the Redis client. The broker belongs to the dispatcher and is closed by Dispatcher.Stop.
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
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

// SetupDatabase establishes the database connection.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// RunMigrations applies every pending SQL file of the configured migrations directory.
func RunMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr.With().Str("component", "migrator").Logger())
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SeedDemoData creates the demo accounts and job posting when absent.
func SeedDemoData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(database)
	return seed.CreateDefaultData(ctx, repos.UserRepository, repos.JobRepository, lgr)
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(database)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL()+"/uploads", logger.Component("filestorage"))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	limiter, err := setupLimiter(cfg, deps, lgr)
	if err != nil {
		return nil, err
	}

	if err := setupDispatcher(cfg, deps, lgr); err != nil {
		deps.Close()
		return nil, err
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.JobRepository, logger.Component("authorization"))

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, logger.Component("auth"))
	deps.ProfileService = appServices.NewProfileService(deps.Repos.UserRepository, deps.FileStorage, logger.Component("profile"))
	deps.JobService = appServices.NewJobService(deps.Repos.JobRepository, logger.Component("jobs"))
	deps.ConversationService = appServices.NewConversationService(
		database,
		deps.Repos.ConversationRepository,
		deps.Repos.MessageRepository,
		deps.AuthzService,
		limiter,
		appServices.MessageRateLimit{
			Limit:  cfg.RateLimit.MessageLimit,
			Window: helpers.ParseDuration(cfg.RateLimit.MessageWindow, 10*time.Second),
		},
		logger.Component("conversations"),
	)
	deps.ApplicationService = appServices.NewApplicationService(
		database,
		deps.Repos.ApplicationRepository,
		deps.Repos.JobRepository,
		deps.Repos.UserRepository,
		deps.AuthzService,
		deps.ConversationService,
		deps.Dispatcher,
		logger.Component("applications"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, lgr),
		Profile:      appControllers.NewProfileController(deps.ProfileService, lgr),
		Job:          appControllers.NewJobController(deps.JobService, lgr),
		Application:  appControllers.NewApplicationController(deps.ApplicationService, lgr),
		Conversation: appControllers.NewConversationController(deps.ConversationService, lgr),
		Health:       appControllers.NewHealthController(database, deps.Dispatcher, lgr),
	}

	return deps, nil
}

// setupLimiter picks the Redis limiter when an address is configured and the in-process one otherwise
func setupLimiter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (ratelimit.Limiter, error) {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis not configured, using in-process message rate limiter")
		return ratelimit.NewMemoryLimiter(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	deps.Redis = client
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Using Redis message rate limiter")
	return ratelimit.NewRedisLimiter(client, "joblink:ratelimit:"), nil
}

// setupDispatcher builds the notification dispatcher, with RabbitMQ transport when configured
func setupDispatcher(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) error {
	mailer := email.NewSMTPMailer(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, logger.Component("mailer"))
	if !mailer.Configured() {
		lgr.Warn().Msg("SMTP not configured, decision emails will only be logged")
	}

	if strings.ToLower(cfg.Notification.Broker) == config.BrokerRabbitMQ {
		broker, err := notification.NewRabbitMQBroker(cfg.Notification.RabbitMQURL, cfg.Notification.QueueName, logger.Component("rabbitmq"))
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to RabbitMQ")
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		deps.Broker = broker
	}

	deps.Dispatcher = notification.NewDispatcher(notification.Config{
		Workers:        cfg.Notification.Workers,
		QueueSize:      cfg.Notification.QueueSize,
		MaxAttempts:    cfg.Notification.MaxAttempts,
		InitialBackoff: helpers.ParseDuration(cfg.Notification.InitialBackoff, 500*time.Millisecond),
		MaxBackoff:     helpers.ParseDuration(cfg.Notification.MaxBackoff, 30*time.Second),
		BaseURL:        cfg.PublicBaseURL(),
	}, mailer, deps.Broker, logger.Component("notifications"))
	return nil
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
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	router.Use(cors.New(corsConfig(cfg.CORS.AllowedOrigins)))
	router.Use(appMiddleware.RequestTimeout(helpers.ParseDuration(cfg.Server.RequestTimeout, 10*time.Second)))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	router.Static("/uploads", cfg.Server.StoragePath)

	return router
}

// corsConfig allows the listed origins, or any origin when the list is empty or holds "*"
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			origins = nil
			break
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// RunMigrationsCommand loads configuration, applies migrations and closes the connection
func RunMigrationsCommand(ctx context.Context, configPath string) error {
	return withDatabase(configPath, func(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
		return RunMigrations(ctx, cfg, database, lgr)
	})
}

// SeedCommand loads configuration, seeds demo data and closes the connection
func SeedCommand(ctx context.Context, configPath string) error {
	return withDatabase(configPath, func(_ *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
		return SeedDemoData(ctx, database, lgr)
	})
}

func withDatabase(configPath string, fn func(*config.Config, *db.PostgresDB, zerolog.Logger) error) error {
	cfg, lgr, err := LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}
	database, err := SetupDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(cfg, database, lgr)
}
