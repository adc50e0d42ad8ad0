package queries

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type ListDeliveriesQueryHandler struct {
	db *gorm.DB
}

func NewListDeliveriesQueryHandler(db *gorm.DB) ListDeliveriesQueryHandler {
	return ListDeliveriesQueryHandler{db: db}
}

// Handle returns matching deliveries, newest first. The driver filter matches
// the last driver, so finished deliveries of a driver are listed too.
func (h ListDeliveriesQueryHandler) Handle(ctx context.Context, query ListDeliveriesQuery) ([]DeliveryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if query.status != nil {
		where = append(where, "status = ?")
		args = append(args, query.status.String())
	}
	if query.driverID != nil {
		where = append(where, "last_driver_id = ?")
		args = append(args, query.driverID.Bytes())
	}

	sql := `SELECT ` + deliveryViewColumns + ` FROM deliveries`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, query.limit)

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]DeliveryView, 0)
	for rows.Next() {
		view, err := scanDeliveryView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}
