package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/api/middleware"
	"github.com/linskybing/hpc-portal/internal/api/routes"
	"github.com/linskybing/hpc-portal/internal/application"
	"github.com/linskybing/hpc-portal/internal/authz"
	"github.com/linskybing/hpc-portal/internal/config"
	"github.com/linskybing/hpc-portal/internal/config/db"
	"github.com/linskybing/hpc-portal/internal/cron"
	"github.com/linskybing/hpc-portal/internal/directory"
	"github.com/linskybing/hpc-portal/internal/migrations"
	"github.com/linskybing/hpc-portal/internal/observability"
	"github.com/linskybing/hpc-portal/internal/repository"
	"github.com/linskybing/hpc-portal/internal/storage"
)

func main() {
	// Load configuration from environment variables and .env file
	config.LoadConfig()
	observability.Init(config.LogLevel, config.LogFormat)

	// Initialize JWT signing key
	middleware.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := migrations.Up(config.PostgresURL()); err != nil {
		fatal("failed to migrate database", err)
	}
	if err := db.Init(); err != nil {
		fatal("failed to connect to database", err)
	}
	repos := repository.NewRepositories(db.DB)

	enforcer, err := authz.NewEnforcer(repos.User)
	if err != nil {
		fatal("failed to load authorization policy", err)
	}

	rdb, err := db.NewRedis(ctx, config.RedisURL)
	if err != nil {
		fatal("failed to connect to redis", err)
	}
	defer rdb.Close()
	queue := directory.NewQueue(rdb, config.SyncQueuePrefix)

	documents, err := storage.NewDocumentStore(ctx, storage.MinioConfig{
		Endpoint:  config.MinioEndpoint,
		AccessKey: config.MinioAccessKey,
		SecretKey: config.MinioSecretKey,
		UseSSL:    config.MinioUseSSL,
		Bucket:    config.MinioBucket,
	})
	if err != nil {
		fatal("failed to initialize document store", err)
	}

	services := application.New(repos, application.Deps{
		Publisher: directory.NewAdapter(repository.NewSyncStore(repos), queue),
		Documents: documents,
		Roles:     enforcer,
	})

	cron.StartCleanupTask(ctx, services.Audit, config.AuditRetentionDays, 24*time.Hour)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(observability.RequestLogger())

	routes.RegisterRoutes(router, services, enforcer)

	srv := &http.Server{
		Addr:              ":" + config.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
