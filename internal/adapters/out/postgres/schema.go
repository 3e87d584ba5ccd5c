package postgres

import (
	"context"
	"fmt"

	"orders/internal/adapters/out/postgres/effectrepo"
	"orders/internal/adapters/out/postgres/eventrepo"
	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/pkg/tenant"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Models lists the tables of one tenant schema.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&orderrepo.LineDTO{},
		&eventrepo.EventDTO{},
		&effectrepo.EffectDTO{},
	}
}

// Migrate creates the schema of every country and migrates its tables.
func Migrate(ctx context.Context, db *gorm.DB, countries []string) error {
	for _, country := range countries {
		schema, err := tenant.Schema(country)
		if err != nil {
			return err
		}
		stmt, err := tenant.SearchPath(country)
		if err != nil {
			return err
		}

		if err = db.WithContext(ctx).Exec("CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(schema)).Error; err != nil {
			return fmt.Errorf("create schema %s: %w", schema, err)
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
			return tx.AutoMigrate(Models()...)
		})
		if err != nil {
			return fmt.Errorf("migrate schema %s: %w", schema, err)
		}
	}
	return nil
}
