package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/boltauto/garage_microservice/internal/adapter/handler/http"
	"github.com/boltauto/garage_microservice/internal/adapter/logger"
	"github.com/boltauto/garage_microservice/internal/adapter/postgres"
	"github.com/boltauto/garage_microservice/internal/adapter/prometheus"
	"github.com/boltauto/garage_microservice/internal/adapter/redis"
	"github.com/boltauto/garage_microservice/internal/config"
	"github.com/boltauto/garage_microservice/internal/core/ports"
	"github.com/boltauto/garage_microservice/internal/core/services"
	"github.com/boltauto/garage_microservice/internal/scheduler"

	"github.com/go-playground/validator/v10"
	"github.com/pressly/goose"
	redisClient "github.com/redis/go-redis/v9"
)

type App struct {
	Config       *config.Container
	Logger       ports.LoggerPort
	DB           *sql.DB
	RedisClient  *redisClient.Client
	RedisAdapter ports.CachePort
	HTTPRouter   *http.Router
	Scheduler    *scheduler.SchedulerService
	limiter      *http.RateLimiter
	stopCleanup  chan struct{}
}

func New(ctx context.Context, cfg *config.Container) (*App, error) {
	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env, cfg.App.LogLevel)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app": cfg.App.Name,
		"env": cfg.App.Env,
	})

	// Set redis
	redisConn := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisConn.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	cacheAdapter := redis.NewRedisAdapter(redisConn)

	// Connect DB
	db, err := sql.Open("postgres", cfg.DB.DSN())
	if err != nil {
		redisConn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		redisConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Migrate DB
	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		redisConn.Close()
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, cfg.DB.MigrationsDir); err != nil {
		db.Close()
		redisConn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Validate
	validate := validator.New()

	// Observability
	metrics := prometheus.NewPrometheusAdapter()

	// Repositories
	vehicleRepo := postgres.NewVehicleRepository(db)
	recordRepo := postgres.NewServiceRecordRepository(db)
	challengeRepo := postgres.NewChallengeRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	achievementRepo := postgres.NewAchievementRepository(db)
	badgeRepo := postgres.NewBadgeRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Services
	vehicleService := services.NewVehicleService(vehicleRepo, loggerAdapter, validate, cacheAdapter)
	recordService := services.NewServiceRecordService(recordRepo, loggerAdapter, validate, cacheAdapter)
	maintenanceService, err := services.NewMaintenanceService(vehicleRepo, recordRepo, loggerAdapter, nil)
	if err != nil {
		db.Close()
		redisConn.Close()
		return nil, fmt.Errorf("invalid maintenance schedule: %w", err)
	}
	challengeService := services.NewChallengeService(challengeRepo, loggerAdapter)
	achievementService := services.NewAchievementService(achievementRepo, badgeRepo, loggerAdapter, metrics)
	notificationService := services.NewNotificationService(notificationRepo, loggerAdapter)
	reminderService := services.NewReminderService(profileRepo, vehicleRepo, notificationRepo, maintenanceService, loggerAdapter, metrics)

	// Scheduler
	jobs := scheduler.NewSchedulerService(loggerAdapter)
	if cfg.Scheduler.Enabled {
		for _, job := range []scheduler.Job{
			scheduler.NewDailyChallengeResetJob(challengeService),
			scheduler.NewWeeklyChallengeResetJob(challengeService),
			scheduler.NewMaintenanceReminderJob(reminderService),
		} {
			if err := jobs.AddJob(job); err != nil {
				db.Close()
				redisConn.Close()
				return nil, err
			}
		}
	}

	// HTTP Handlers
	tokenService := http.NewJWTTokenService(cfg.Token.Secret, loggerAdapter)
	limiter := http.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)

	// Init HTTP router
	router, err := http.NewRouter(
		cfg.HTTP,
		tokenService,
		metrics,
		metrics.Handler(),
		limiter,
		http.Handlers{
			Vehicle:       http.NewVehicleHandler(vehicleService, maintenanceService, loggerAdapter),
			ServiceRecord: http.NewServiceRecordHandler(recordService, vehicleService, loggerAdapter),
			Challenge:     http.NewChallengeHandler(challengeService, loggerAdapter),
			Achievement:   http.NewAchievementHandler(achievementService, loggerAdapter),
			Notification:  http.NewNotificationHandler(notificationService, reminderService, loggerAdapter),
		},
	)
	if err != nil {
		db.Close()
		redisConn.Close()
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	return &App{
		Config:       cfg,
		Logger:       loggerAdapter,
		DB:           db,
		RedisClient:  redisConn,
		RedisAdapter: cacheAdapter,
		HTTPRouter:   router,
		Scheduler:    jobs,
		limiter:      limiter,
		stopCleanup:  make(chan struct{}),
	}, nil
}

// Run starts the scheduler and blocks serving HTTP.
func (a *App) Run() error {
	a.Scheduler.Start()
	go a.cleanupVisitors()

	listenAddr := fmt.Sprintf("%s:%s", a.Config.HTTP.URL, a.Config.HTTP.Port)
	a.Logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": listenAddr,
	})

	if err := a.HTTPRouter.Serve(listenAddr); err != nil {
		a.Logger.Error("HTTP server error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

func (a *App) cleanupVisitors() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.limiter.Cleanup()
		case <-a.stopCleanup:
			return
		}
	}
}

// Stop shuts down the scheduler and closes connections.
func (a *App) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down gracefully...", nil)

	a.Scheduler.Stop()
	close(a.stopCleanup)

	// Close database
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Database close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Close Redis
	if err := a.RedisClient.Close(); err != nil {
		a.Logger.Error("Redis close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	a.Logger.Info("Application stopped successfully", nil)
	return ctx.Err()
}
