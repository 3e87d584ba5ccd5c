package jobs

import (
	"context"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultReconcileSchedule = "0 */5 * * * *"
	DefaultReconcileLimit    = 100
)

type ReconcileHandler interface {
	Handle(ctx context.Context, cmd commands.ReconcilePendingEffectsCommand) (int, error)
}

type ReconcileConfig struct {
	// Schedule is a cron expression with seconds.
	Schedule  string
	Countries []string
	OlderThan time.Duration
	Limit     int
}

// ReconcileEffectsJob periodically flags stale pending effect markers.
type ReconcileEffectsJob struct {
	handler ReconcileHandler
	config  ReconcileConfig
	cron    *cron.Cron
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewReconcileEffectsJob(
	handler ReconcileHandler,
	config ReconcileConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ReconcileEffectsJob {
	if config.Schedule == "" {
		config.Schedule = DefaultReconcileSchedule
	}
	if config.Limit == 0 {
		config.Limit = DefaultReconcileLimit
	}
	return &ReconcileEffectsJob{
		handler: handler,
		config:  config,
		cron:    cron.New(cron.WithSeconds()),
		metrics: m,
		logger:  logger.With(zap.String("component", "reconcile_effects_job")),
	}
}

func (j *ReconcileEffectsJob) Start() error {
	if _, err := j.cron.AddFunc(j.config.Schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("reconcile effects job started",
		zap.String("schedule", j.config.Schedule),
		zap.Strings("countries", j.config.Countries),
	)
	return nil
}

func (j *ReconcileEffectsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("reconcile effects job stopped")
}

// Run reconciles every configured country once and returns the number of
// markers flagged.
func (j *ReconcileEffectsJob) Run(ctx context.Context) int {
	total := 0
	for _, country := range j.config.Countries {
		cmd, err := commands.NewReconcilePendingEffectsCommand(country, j.config.OlderThan, j.config.Limit)
		if err != nil {
			j.logger.Error("invalid reconcile command", zap.String("country", country), zap.Error(err))
			continue
		}

		flagged, err := j.handler.Handle(ctx, cmd)
		if flagged > 0 {
			j.metrics.Reconciled.WithLabelValues(country).Add(float64(flagged))
			j.logger.Warn("pending effects left unresolved", zap.String("country", country), zap.Int("count", flagged))
		}
		if err != nil {
			j.logger.Error("reconcile effects failed", zap.String("country", country), zap.Error(err))
		}
		total += flagged
	}
	return total
}
