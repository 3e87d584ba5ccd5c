package jobs

import (
	"fmt"

	"orders/internal/pkg/metrics"

	"go.uber.org/zap"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	reconcileEffectsJob *ReconcileEffectsJob
}

func NewJobManager(
	reconcileHandler ReconcileHandler,
	reconcileConfig ReconcileConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *JobManager {
	return &JobManager{
		reconcileEffectsJob: NewReconcileEffectsJob(reconcileHandler, reconcileConfig, m, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.reconcileEffectsJob.Start(); err != nil {
		return fmt.Errorf("failed to start reconcile effects job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.reconcileEffectsJob.Stop()
}
