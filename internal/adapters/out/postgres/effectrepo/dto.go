// Package effectrepo persists pending external effect markers.
package effectrepo

import (
	"time"

	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/core/domain/model/effect"
	"orders/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type EffectDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Kind       string    `gorm:"size:32;not null"`
	Status     string    `gorm:"size:16;index:idx_pending_effects_status_created,priority:1;not null"`
	CreatedAt  time.Time `gorm:"index:idx_pending_effects_status_created,priority:2;not null"`
	ResolvedAt *time.Time

	Order *orderrepo.OrderDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (EffectDTO) TableName() string {
	return "pending_effects"
}

func fromDomain(e *effect.Effect) EffectDTO {
	return EffectDTO{
		ID:         e.ID().Bytes(),
		OrderID:    e.OrderID().Bytes(),
		Kind:       string(e.Kind()),
		Status:     string(e.Status()),
		CreatedAt:  e.CreatedAt(),
		ResolvedAt: e.ResolvedAt(),
	}
}

func toDomain(dto EffectDTO) (*effect.Effect, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromGoogle(dto.OrderID)
	if err != nil {
		return nil, err
	}
	return effect.RestoreEffect(id, orderID, effect.Kind(dto.Kind), effect.Status(dto.Status), dto.CreatedAt, dto.ResolvedAt)
}
