package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/jobs"
	"orders/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type reconcileHandlerMock struct {
	mock.Mock
}

func (m *reconcileHandlerMock) Handle(ctx context.Context, cmd commands.ReconcilePendingEffectsCommand) (int, error) {
	args := m.Called(ctx, cmd)
	return args.Int(0), args.Error(1)
}

func forCountry(country string) any {
	return mock.MatchedBy(func(cmd commands.ReconcilePendingEffectsCommand) bool {
		return cmd.Country() == country
	})
}

func TestReconcileEffectsJob_Run(t *testing.T) {
	t.Run("should reconcile every country and count flagged markers", func(t *testing.T) {
		handler := &reconcileHandlerMock{}
		handler.On("Handle", mock.Anything, forCountry("co")).Return(2, nil).Once()
		handler.On("Handle", mock.Anything, forCountry("mx")).Return(0, nil).Once()
		m := metrics.New(prometheus.NewRegistry())
		job := jobs.NewReconcileEffectsJob(handler, jobs.ReconcileConfig{
			Countries: []string{"co", "mx"},
			OlderThan: 15 * time.Minute,
		}, m, zap.NewNop())

		flagged := job.Run(context.Background())

		assert.Equal(t, 2, flagged)
		assert.Equal(t, 2.0, testutil.ToFloat64(m.Reconciled.WithLabelValues("co")))
		handler.AssertExpectations(t)
	})

	t.Run("should keep going after a failing country", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		handler := &reconcileHandlerMock{}
		handler.On("Handle", mock.Anything, forCountry("co")).Return(1, errors.New("db down")).Once()
		handler.On("Handle", mock.Anything, forCountry("pe")).Return(3, nil).Once()
		m := metrics.New(prometheus.NewRegistry())
		job := jobs.NewReconcileEffectsJob(handler, jobs.ReconcileConfig{
			Countries: []string{"co", "pe"},
			OlderThan: time.Minute,
		}, m, zap.New(core))

		flagged := job.Run(context.Background())

		assert.Equal(t, 4, flagged)
		assert.Equal(t, 1, logs.FilterMessage("reconcile effects failed").Len())
		assert.Equal(t, 2, logs.FilterMessage("pending effects left unresolved").Len())
	})

	t.Run("should skip invalid configuration", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		handler := &reconcileHandlerMock{}
		job := jobs.NewReconcileEffectsJob(handler, jobs.ReconcileConfig{
			Countries: []string{"co"},
		}, metrics.New(prometheus.NewRegistry()), zap.New(core))

		assert.Zero(t, job.Run(context.Background()))
		assert.Equal(t, 1, logs.FilterMessage("invalid reconcile command").Len())
		handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestJobManager(t *testing.T) {
	t.Run("should start and stop", func(t *testing.T) {
		jm := jobs.NewJobManager(&reconcileHandlerMock{}, jobs.ReconcileConfig{
			Countries: []string{"co"},
			OlderThan: time.Minute,
		}, metrics.New(prometheus.NewRegistry()), zap.NewNop())

		require.NoError(t, jm.StartAll())
		jm.StopAll()
	})

	t.Run("should reject invalid schedule", func(t *testing.T) {
		jm := jobs.NewJobManager(&reconcileHandlerMock{}, jobs.ReconcileConfig{
			Schedule: "every now and then",
		}, metrics.New(prometheus.NewRegistry()), zap.NewNop())

		err := jm.StartAll()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reconcile effects job")
	})
}
