package effectrepo

import (
	"context"
	"fmt"
	"time"

	"orders/internal/core/domain/model/effect"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEffectRepository implements ports.EffectRepository using GORM.
type GormEffectRepository struct {
	db *gorm.DB
}

func NewGormEffectRepository(db *gorm.DB) *GormEffectRepository {
	return &GormEffectRepository{db: db}
}

func (r *GormEffectRepository) Add(ctx context.Context, e *effect.Effect) error {
	dto := fromDomain(e)
	return r.db.WithContext(ctx).Omit("Order").Create(&dto).Error
}

// Update stores the status and resolution time of a marker that is still
// PENDING.
func (r *GormEffectRepository) Update(ctx context.Context, e *effect.Effect) error {
	dto := fromDomain(e)
	result := r.db.WithContext(ctx).
		Model(&EffectDTO{}).
		Where("id = ? AND status = ?", dto.ID, string(effect.Pending)).
		Updates(map[string]any{
			"status":      dto.Status,
			"resolved_at": dto.ResolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidErrorWithCause(
			"effect status",
			fmt.Errorf("effect %s is no longer pending", e.ID()),
		)
	}
	return nil
}

func (r *GormEffectRepository) HasPending(ctx context.Context, orderID kernel.UUID, kind effect.Kind) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&EffectDTO{}).
		Where("order_id = ? AND kind = ? AND status = ?", orderID.Bytes(), string(kind), string(effect.Pending)).
		Count(&count).Error
	return count > 0, err
}

func (r *GormEffectRepository) ListPendingBefore(ctx context.Context, before time.Time, limit int) ([]*effect.Effect, error) {
	var dtos []EffectDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND created_at < ?", string(effect.Pending), before).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	effects := make([]*effect.Effect, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		effects = append(effects, e)
	}
	return effects, nil
}
