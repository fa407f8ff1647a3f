package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/task_service/internal/authz"
	"github.com/Skotchmaster/task_service/internal/events"
	"github.com/Skotchmaster/task_service/internal/httpserver"
	"github.com/Skotchmaster/task_service/internal/observability"
	"github.com/Skotchmaster/task_service/internal/search"
	"github.com/Skotchmaster/task_service/internal/service"
	"github.com/Skotchmaster/task_service/internal/store/gormstore"
	"github.com/Skotchmaster/task_service/pkg/config"
	pkgdb "github.com/Skotchmaster/task_service/pkg/db"
	"github.com/Skotchmaster/task_service/pkg/logging"
	loggingmw "github.com/Skotchmaster/task_service/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(pkgdb.DriverPgx, pkgdb.DriverPQ, pkgdb.DriverSQLite); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	if err := observability.InitSentry(cfg.SentryDSN, cfg.AppEnv); err != nil {
		logger.Error("init_sentry_failed", "error", err)
	}
	defer observability.FlushSentry()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, pkgdb.WithPool(pkgdb.Pool{
		MaxOpen: cfg.DBMaxOpenConns,
		MaxIdle: cfg.DBMaxIdleConns,
	}))
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	repo := &gormstore.GormRepo{DB: db}
	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := repo.Migrate(ctx)
		cancel()
		if err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		log.Fatalf("kafka producer: %v", err)
	}

	svc := &service.TaskService{Store: repo, Producer: producer}

	index, err := search.NewClient(search.Config{
		URL:      cfg.ESURL,
		User:     cfg.ESUser,
		Password: cfg.ESPassword,
		Index:    cfg.ESIndex,
	}, logger)
	if err != nil {
		logger.Error("search_disabled", "error", err)
	}
	if index != nil {
		svc.Indexer = index
	}

	ipExtractor, err := httpserver.IPExtractor(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("trusted proxies: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = ipExtractor
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(httpserver.RateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	httpserver.Register(e, &httpserver.Deps{
		TasksHandler:  &httpserver.TasksHTTP{Svc: svc},
		Authorizer:    authz.NewAuthorizer(repo, repo),
		DB:            db,
		SearchEnabled: svc.Indexer != nil,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("tasks listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("tasks stopped")
}
