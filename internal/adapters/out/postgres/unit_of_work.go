// Package postgres implements the unit of work over GORM and PostgreSQL.
//
// Every unit of work is bound to a country. Begin opens a transaction and
// scopes it to the country's schema with SET LOCAL search_path, so the
// repositories it hands out read and write that tenant's tables only.
// Domain events buffered on the aggregates written in the transaction are
// published after a successful commit and discarded on rollback.
//
// Usage:
//
//	uow := factory.Create("co")
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
package postgres

import (
	"context"
	"errors"

	"orders/internal/adapters/out/postgres/effectrepo"
	"orders/internal/adapters/out/postgres/eventrepo"
	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/tenant"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

type eventSource interface {
	PullDomainEvents() []order.DomainEvent
}

// GormUnitOfWorkFactory creates country-bound UnitOfWork instances.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.DomainEventPublisher
	logger    *zap.Logger
}

func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.DomainEventPublisher, logger *zap.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger.With(zap.String("component", "unit_of_work")),
	}
}

// Create produces a new unit of work for country. Each instance keeps its own
// transaction and tracked aggregates.
func (f *GormUnitOfWorkFactory) Create(country string) ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		country:           country,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and collects the
// aggregates written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	country           string
	publisher         ports.DomainEventPublisher
	logger            *zap.Logger
	trackedAggregates []trackedAggregate
}

// Begin opens the transaction and sets its search_path. Calling Begin again
// on an open unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	stmt, err := tenant.SearchPath(uow.country)
	if err != nil {
		return err
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err = tx.Exec(stmt).Error; err != nil {
		return errors.Join(err, tx.Rollback().Error)
	}

	uow.tx = tx
	return nil
}

// Commit commits the transaction, then publishes the domain events of the
// tracked aggregates. Publish failures are logged, not returned.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.discardEvents()
		return err
	}

	uow.publishEvents(ctx)
	return nil
}

// Rollback discards the transaction and the buffered domain events.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.discardEvents()
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) EventRepository() ports.EventRepository {
	return eventrepo.NewGormEventRepository(uow.conn())
}

func (uow *GormUnitOfWork) EffectRepository() ports.EffectRepository {
	return effectrepo.NewGormEffectRepository(uow.conn())
}

// TrackAggregate is called by repositories for every aggregate they write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// conn returns the open transaction. Without one, repositories run on the
// pool and see the connection's default search_path.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) pullEvents() []order.DomainEvent {
	var events []order.DomainEvent
	for _, tracked := range uow.trackedAggregates {
		if src, ok := tracked.Aggregate.(eventSource); ok {
			events = append(events, src.PullDomainEvents()...)
		}
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return events
}

func (uow *GormUnitOfWork) discardEvents() {
	_ = uow.pullEvents()
}

func (uow *GormUnitOfWork) publishEvents(ctx context.Context) {
	events := uow.pullEvents()
	if len(events) == 0 || uow.publisher == nil {
		return
	}
	if err := uow.publisher.Publish(ctx, events...); err != nil {
		uow.logger.Error("publish domain events",
			zap.String("country", uow.country),
			zap.Int("events", len(events)),
			zap.Error(err),
		)
	}
}
