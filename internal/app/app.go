package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/school-management-api/internal/auth"
	"github.com/yukikurage/school-management-api/internal/config"
	"github.com/yukikurage/school-management-api/internal/database"
	"github.com/yukikurage/school-management-api/internal/events"
	"github.com/yukikurage/school-management-api/internal/handlers"
	"github.com/yukikurage/school-management-api/internal/metrics"
	"github.com/yukikurage/school-management-api/internal/middleware"
	"github.com/yukikurage/school-management-api/internal/repository"
	"github.com/yukikurage/school-management-api/internal/services"
	"github.com/yukikurage/school-management-api/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	RouteHealth  = "/health"
	RouteMetrics = "/metrics"

	shutdownTimeout = 5 * time.Second
)

type App struct {
	logger    *zap.Logger
	cfg       *config.Config
	db        *gorm.DB
	storage   storage.Storage
	publisher events.Publisher
	mq        *events.RabbitMQ
	metrics   *metrics.Metrics
	registry  *prometheus.Registry
	httpSrv   *http.Server
	router    *gin.Engine
}

// New connects every backing service and builds the router.
// The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{
		logger:    logger,
		cfg:       cfg,
		publisher: events.Nop{},
	}

	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	// metrics
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(a.registry)

	// db
	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.db = db
	if err := database.Migrate(db, logger); err != nil {
		a.Close()
		return nil, err
	}

	// storage
	a.storage, err = storage.New(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	// rabbitMQ
	if cfg.AMQPURL != "" {
		a.mq, err = events.NewRabbitMQ(ctx, cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to rabbitMQ: %w", err)
		}
		a.publisher = a.mq
	} else {
		logger.Info("AMQP_URL not set, domain events are disabled")
	}

	a.router = a.newRouter()
	a.httpSrv = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

func (a *App) newRouter() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = a.cfg.MaxUploadSize
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog(a.logger, a.metrics))

	// repos
	userRepo := repository.NewUserRepository(a.db)
	courseRepo := repository.NewCourseRepository(a.db)
	taskRepo := repository.NewTaskRepository(a.db)
	fileRepo := repository.NewFileRepository(a.db)

	// services
	tokens := auth.NewService(a.cfg.JWTSecret, a.cfg.JWTExpiry)
	attachments := services.NewAttachmentService(fileRepo, a.storage, a.publisher, a.metrics,
		services.LogBlobDeletionFailures(a.logger, a.metrics))
	files := services.NewFileService(fileRepo, a.storage, attachments, a.cfg.MaxUploadSize)

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:    handlers.NewAuthHandler(services.NewAuthService(userRepo, tokens, a.publisher), a.logger),
		Users:   handlers.NewUserHandler(services.NewUserService(userRepo, attachments, a.publisher), files, a.logger),
		Courses: handlers.NewCourseHandler(services.NewCourseService(courseRepo, taskRepo, files, attachments, a.publisher), a.logger),
		Tasks:   handlers.NewTaskHandler(services.NewTaskService(taskRepo, courseRepo, attachments, a.publisher), a.logger),
		Files:   handlers.NewFileHandler(files, a.logger),
	}, tokens)

	if local, ok := a.storage.(*storage.LocalStorage); ok {
		r.Static(local.PublicPath(), local.Dir())
	}

	// ops
	r.GET(RouteHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "School Management API is running",
		})
	})
	r.GET(RouteMetrics, gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	return r
}

// Router exposes the HTTP handler, mainly for tests.
func (a *App) Router() http.Handler { return a.router }

// Run serves HTTP until ctx is canceled or the process receives SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting school-management-api", zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	<-ctx.Done()

	a.logger.Info("shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", zap.Error(err))
		return err
	}

	if err := g.Wait(); err != nil {
		a.logger.Error("server returned an error", zap.Error(err))
		return err
	}

	a.logger.Info("server gracefully stopped")
	return nil
}

// Close releases the broker and database connections.
func (a *App) Close() {
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			a.logger.Warn("failed to close rabbitMQ connection", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
}
