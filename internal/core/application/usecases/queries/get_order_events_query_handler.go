package queries

import (
	"context"
	"fmt"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOrderEventsQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderEventsQueryHandler(db *gorm.DB) GetOrderEventsQueryHandler {
	return GetOrderEventsQueryHandler{db: db}
}

// Handle returns the trail oldest first, or errs.ObjectNotFoundError when the
// order does not exist.
func (h GetOrderEventsQueryHandler) Handle(ctx context.Context, query GetOrderEventsQuery) ([]EventResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := tenant.Table(query.Country(), "orders")
	if err != nil {
		return nil, err
	}
	events, err := tenant.Table(query.Country(), "order_events")
	if err != nil {
		return nil, err
	}

	var count int64
	err = h.db.WithContext(ctx).
		Raw(fmt.Sprintf(`SELECT count(*) FROM %s WHERE id = ?`, orders), query.OrderID().Bytes()).
		Scan(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	rows, err := h.db.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT
			id,
			status,
			detail,
			actor_user_id,
			occurred_at
		FROM %s
		WHERE order_id = ?
		ORDER BY occurred_at, id
	`, events), query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]EventResponse, 0)
	for rows.Next() {
		var (
			event EventResponse
			id    uuid.UUID
		)
		if err = rows.Scan(&id, &event.Status, &event.Detail, &event.ActorUserID, &event.OccurredAt); err != nil {
			return nil, err
		}
		if event.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		result = append(result, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
