// Package commands contains the operations that change orders.
// Every command is a value object built by its constructor and validated by
// its handler; handlers own the transaction boundary and the calls to sibling
// services.
package commands

import (
	"context"

	"orders/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	EventRepoFactory interface {
		EventRepository() ports.EventRepository
	}

	EffectRepoFactory interface {
		EffectRepository() ports.EffectRepository
	}

	// UoW is one transaction over the orders of one country.
	//
	// Example:
	//   uow := factory.Create("co")
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().Get(ctx, id)
	//   // ... mutate, audit
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		EventRepoFactory
		EffectRepoFactory
	}

	// UoWFactory creates unit of work instances bound to a country.
	UoWFactory interface {
		Create(country string) UoW
	}
)
