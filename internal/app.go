package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bookmark-api/config"
	"bookmark-api/internal/application/ports"
	"bookmark-api/internal/application/services"
	"bookmark-api/internal/infrastructure/db/postgres"
	bookmarkDB "bookmark-api/internal/infrastructure/db/postgres/bookmark"
	userDB "bookmark-api/internal/infrastructure/db/postgres/user"
	"bookmark-api/internal/infrastructure/jwt"
	"bookmark-api/internal/infrastructure/logger"
	"bookmark-api/internal/infrastructure/metrics"
	"bookmark-api/internal/infrastructure/mq"
	"bookmark-api/internal/infrastructure/redis"
	"bookmark-api/internal/infrastructure/s3"
	"bookmark-api/internal/interface/api/rest"
	"bookmark-api/internal/interface/api/rest/middleware"
	"bookmark-api/pkg/rmqconsumer"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	s3         ports.S3Client
	httpSrv    *http.Server
	router     *gin.Engine
	registry   *prometheus.Registry
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
	rdb        *goredis.Client
	limiter    ports.RateLimiter
	uploads    *services.UploadService
}

// NewApp connects every backing service. Postgres and the object store are
// required; the broker and redis are used only when configured.
func NewApp(ctx context.Context) (*App, error) {
	// config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// logger
	logger, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &App{logger: logger, cfg: cfg}

	// metrics
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.mCounter = metrics.NewCounter(a.registry)

	if err = a.connect(ctx); err != nil {
		a.Close()
		return nil, err
	}

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestLogGin(logger, a.mCounter, metrics.NewRequestDuration(a.registry)))
	a.router = r

	// httpServer
	a.httpSrv = &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	return a, nil
}

func (a *App) connect(ctx context.Context) error {
	// db
	dbDsn, err := a.cfg.DBDSN()
	if err != nil {
		return fmt.Errorf("DB config error: %w", err)
	}
	a.db, err = postgres.New(ctx, a.logger, dbDsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if a.cfg.DB.AutoMigrate {
		if err = postgres.Migrate(ctx, a.logger, a.db); err != nil {
			return err
		}
	}

	// s3
	s3Client, err := s3.New(ctx, a.logger, a.cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to connect to S3: %w", err)
	}
	a.s3 = s3Client
	a.uploads = services.NewUploadService(a.s3, a.logger, a.mCounter)

	// redis
	if a.cfg.Redis.Addr != "" {
		a.rdb, err = redis.New(ctx, a.logger, a.cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.limiter = redis.NewLimiter(a.rdb, "login", a.cfg.Redis.LoginLimit, a.cfg.Redis.LoginWindow)
	}

	if !a.cfg.MQEnabled() {
		a.logger.Info("rabbitmq not configured, bookmark events are discarded")
		a.mq = mq.Discard{}
		return nil
	}

	// rabbitMQ
	rabbitDsn, err := a.cfg.AMQPDSN()
	if err != nil {
		return fmt.Errorf("RabbitMQ config error: %w", err)
	}
	rbMQ := mq.New(a.cfg.MQ, a.logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		return fmt.Errorf("failed to connect to rabbitMQ: %w", err)
	}
	a.mq = rbMQ
	if err = rbMQ.Init(); err != nil {
		return fmt.Errorf("failed init rabbitMQ: %w", err)
	}

	//rmqConsumer
	var files rmqconsumer.FileRemover
	if a.cfg.MQ.CleanupEnabled {
		files = a.uploads
	}
	rmqConsumer := rmqconsumer.New(a.cfg.MQ, a.logger, nil, files)
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		return fmt.Errorf("failed to connect rabbitMQ consumer: %w", err)
	}
	if err = rmqConsumer.Init(); err != nil {
		return fmt.Errorf("failed to init rabbitMQ consumer: %w", err)
	}
	a.mqConsumer = rmqConsumer

	return nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		_ = a.mq.GetConn().Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		a.mq.PublisherWorker(ctx)
		return nil
	})

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
		return err
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	userRepo := userDB.NewRepository(a.db)
	bookmarkRepo := bookmarkDB.NewRepository(a.db)

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret, a.cfg.App.Name)
	authService := services.NewAuthService(userRepo, jwtService, a.cfg.App.TokenTTL, a.logger, a.mCounter)
	userService := services.NewUserService(userRepo, a.logger)
	bookmarkService := services.NewBookmarkService(bookmarkRepo, a.uploads, a.mq, a.logger, a.mCounter)

	// controllers
	var authMW []gin.HandlerFunc
	if a.limiter != nil {
		authMW = append(authMW, middleware.Throttle(a.limiter, a.logger))
	}
	rest.NewAuthController(a.router, a.logger, authService, authMW...)
	rest.NewUserController(a.router, userService, a.logger, jwtService)
	rest.NewBookmarkController(a.router, bookmarkService, a.logger, jwtService, a.cfg.App.MaxUploadBytes)
	rest.NewUploadController(a.router, a.uploads, a.logger, jwtService, a.cfg.App.MaxUploadBytes)

	// ops
	rest.NewHealthController(a.router, a.cfg.App.Name)
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
}

func (a *App) Logger() *zap.Logger { return a.logger }

// MigrateOnly applies pending migrations and closes the pool.
func MigrateOnly(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	dsn, err := cfg.DBDSN()
	if err != nil {
		return fmt.Errorf("DB config error: %w", err)
	}
	pool, err := postgres.New(ctx, log, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	return postgres.Migrate(ctx, log, pool)
}
