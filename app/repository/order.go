package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/klarkurs/mpu-platform/app/entity"
)

func (q *queries) CreateOrder(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (id, user_id, product_id, amount_cents, currency, status, provider, provider_ref, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.db.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		order.ProductID,
		order.AmountCents,
		order.Currency,
		string(order.Status),
		order.Provider,
		order.ProviderRef,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrOrderRefTaken
		}
		return err
	}
	return nil
}

func (q *queries) FindOrderByID(ctx context.Context, id string) (*entity.Order, error) {
	query := selectOrder + ` WHERE id = ?`

	order := &entity.Order{}
	if err := scanOrder(q.db.QueryRowContext(ctx, query, id), order); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return order, nil
}

func (q *queries) FindOrderByProviderRef(ctx context.Context, provider, providerRef string) (*entity.Order, error) {
	query := selectOrder + ` WHERE provider = ? AND provider_ref = ?`

	order := &entity.Order{}
	if err := scanOrder(q.db.QueryRowContext(ctx, query, provider, providerRef), order); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return order, nil
}

func (q *queries) UpdateOrder(ctx context.Context, order *entity.Order) error {
	query := `
		UPDATE orders SET
			amount_cents = ?,
			currency = ?,
			status = ?,
			provider = ?,
			provider_ref = ?,
			updated_at = ?
		WHERE id = ?
	`

	_, err := q.db.ExecContext(ctx, query,
		order.AmountCents,
		order.Currency,
		string(order.Status),
		order.Provider,
		order.ProviderRef,
		order.UpdatedAt,
		order.ID,
	)
	if err != nil && isDuplicateEntryError(err) {
		return ErrOrderRefTaken
	}
	return err
}

func (q *queries) ListStalePendingOrders(ctx context.Context, olderThan time.Time, limit int32) ([]*entity.Order, error) {
	query := selectOrder + `
		WHERE status = ? AND created_at < ?
		ORDER BY created_at ASC
		LIMIT ?
	`

	rows, err := q.db.QueryContext(ctx, query, string(entity.OrderStatusPending), olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Order, 0)
	for rows.Next() {
		order := &entity.Order{}
		var status string
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.ProductID,
			&order.AmountCents,
			&order.Currency,
			&status,
			&order.Provider,
			&order.ProviderRef,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		order.Status = entity.OrderStatus(status)
		items = append(items, order)
	}
	return items, rows.Err()
}

const selectOrder = `
	SELECT id, user_id, product_id, amount_cents, currency, status, provider, provider_ref, created_at, updated_at
	FROM orders`

func scanOrder(row *sql.Row, order *entity.Order) error {
	var status string
	if err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.ProductID,
		&order.AmountCents,
		&order.Currency,
		&status,
		&order.Provider,
		&order.ProviderRef,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return err
	}
	order.Status = entity.OrderStatus(status)
	return nil
}
