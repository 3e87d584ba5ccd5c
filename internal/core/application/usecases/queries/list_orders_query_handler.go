package queries

import (
	"context"
	"fmt"
	"strings"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/tenant"

	"gorm.io/gorm"
)

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns one page of orders without lines, ordered by creation time
// descending.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	p := query.Params()

	table, err := tenant.Table(p.Country, "orders")
	if err != nil {
		return nil, err
	}

	where := []string{"TRUE"}
	var args []any
	if p.Kind != nil {
		where = append(where, "kind = ?")
		args = append(args, p.Kind.String())
	}
	if p.Status != nil {
		where = append(where, "status = ?")
		args = append(args, p.Status.String())
	}
	if p.CommitmentDate != nil {
		where = append(where, "commitment_date = ?")
		args = append(args, p.CommitmentDate.Format(kernel.DateLayout))
	}
	if p.CommitmentFrom != nil {
		where = append(where, "commitment_date >= ?")
		args = append(args, p.CommitmentFrom.Format(kernel.DateLayout))
	}
	if p.CommitmentTo != nil {
		where = append(where, "commitment_date <= ?")
		args = append(args, p.CommitmentTo.Format(kernel.DateLayout))
	}
	args = append(args, p.Limit, p.Offset)

	rows, err := h.db.WithContext(ctx).Raw(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, orderColumns, table, strings.Join(where, " AND ")), args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]OrderResponse, 0)
	for rows.Next() {
		resp, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		result = append(result, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
