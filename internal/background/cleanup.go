package background

import (
	"context"
	"log/slog"
	"time"
)

// StaleStateDeleter removes client state not written since a cutoff
type StaleStateDeleter interface {
	DeleteStale(ctx context.Context, olderThan time.Time) (int64, error)
}

// CleanupMetrics receives cleanup run results
type CleanupMetrics interface {
	IncrementCleanupRuns(status string)
	IncrementCleanupRows(n int64)
	ObserveCleanupDuration(durationSeconds float64)
}

type noopCleanupMetrics struct{}

func (noopCleanupMetrics) IncrementCleanupRuns(string)    {}
func (noopCleanupMetrics) IncrementCleanupRows(int64)     {}
func (noopCleanupMetrics) ObserveCleanupDuration(float64) {}

// CleanupManager periodically deletes client state older than the retention
// window, so remembered identifiers of browsers that never return do not
// accumulate.
type CleanupManager struct {
	repo      StaleStateDeleter
	logger    *slog.Logger
	metrics   CleanupMetrics
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
}

func NewCleanupManager(repo StaleStateDeleter, logger *slog.Logger, interval, retention time.Duration) *CleanupManager {
	return &CleanupManager{
		repo:      repo,
		logger:    logger,
		metrics:   noopCleanupMetrics{},
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// SetMetrics enables metrics reporting
func (cm *CleanupManager) SetMetrics(m CleanupMetrics) {
	if m != nil {
		cm.metrics = m
	}
}

// Start runs a cleanup immediately and then on every tick until Stop is
// called or ctx is done.
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	cm.RunOnce(ctx)

	for {
		select {
		case <-ticker.C:
			cm.RunOnce(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

// RunOnce deletes stale client state and returns the number of rows removed
func (cm *CleanupManager) RunOnce(ctx context.Context) int64 {
	start := cm.now()
	cutoff := start.Add(-cm.retention)

	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rowsDeleted, err := cm.repo.DeleteStale(cleanupCtx, cutoff)
	cm.metrics.ObserveCleanupDuration(cm.now().Sub(start).Seconds())
	if err != nil {
		cm.metrics.IncrementCleanupRuns("error")
		cm.logger.Error("failed to cleanup stale client state", slog.Any("error", err))
		return 0
	}

	cm.metrics.IncrementCleanupRuns("ok")
	cm.metrics.IncrementCleanupRows(rowsDeleted)
	if rowsDeleted > 0 {
		cm.logger.Info("stale client state cleanup completed",
			slog.Int64("rows_deleted", rowsDeleted),
			slog.Time("cutoff", cutoff))
	}
	return rowsDeleted
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
