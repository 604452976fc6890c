package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linskybing/hpc-portal/internal/config"
	"github.com/linskybing/hpc-portal/internal/config/db"
	"github.com/linskybing/hpc-portal/internal/directory"
	"github.com/linskybing/hpc-portal/internal/observability"
	"github.com/linskybing/hpc-portal/internal/repository"
)

func main() {
	// Load configuration from environment variables and .env file
	config.LoadConfig()
	observability.Init(config.LogLevel, config.LogFormat)

	// Initialize database connection
	if err := db.Init(); err != nil {
		fatal("failed to connect to database", err)
	}
	repos := repository.NewRepositories(db.DB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
		<-sigChan
		slog.Info("shutdown signal")
		cancel()
	}()

	rdb, err := db.NewRedis(ctx, config.RedisURL)
	if err != nil {
		fatal("failed to connect to redis", err)
	}
	defer rdb.Close()

	dir := directory.NewLDAPDirectory(
		directory.LDAPDialer(config.LDAPURL, config.LDAPBindDN, config.LDAPBindPassword),
		config.LDAPProjectBase,
		config.LDAPStatusAttr,
	)
	defer dir.Close()

	worker := directory.NewWorker(
		directory.NewQueue(rdb, config.SyncQueuePrefix),
		dir,
		repository.NewSyncStore(repos),
		directory.WorkerConfig{
			MaxAttempts:   config.SyncMaxAttempts,
			Backoff:       config.SyncRetryBackoff,
			MaxBackoff:    time.Hour,
			RatePerSecond: config.SyncRatePerSecond,
			Burst:         config.SyncBurst,
			GIDBase:       config.GIDBase,
		},
	)

	slog.Info("starting directory sync worker", "queue", config.SyncQueuePrefix, "ldap", config.LDAPURL)
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("sync worker stopped", "error", err)
		os.Exit(1)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
