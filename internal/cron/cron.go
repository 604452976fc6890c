package cron

import (
	"context"
	"log/slog"
	"time"
)

// AuditCleaner deletes audit log rows older than the retention window.
type AuditCleaner interface {
	CleanupOldLogs(days int) error
}

// StartCleanupTask runs the audit retention cleanup now and then every
// interval until ctx is cancelled. It returns immediately.
func StartCleanupTask(ctx context.Context, cleaner AuditCleaner, retentionDays int, interval time.Duration) {
	go func() {
		slog.Info("starting audit log cleanup task", "retention_days", retentionDays, "interval", interval)
		runCleanup(cleaner, retentionDays)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("audit log cleanup task stopped")
				return
			case <-ticker.C:
				runCleanup(cleaner, retentionDays)
			}
		}
	}()
}

func runCleanup(cleaner AuditCleaner, retentionDays int) {
	if retentionDays <= 0 {
		return
	}
	if err := cleaner.CleanupOldLogs(retentionDays); err != nil {
		slog.Error("failed to clean up old audit logs", "error", err)
		return
	}
	slog.Debug("audit log cleanup completed")
}
