package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/klarkurs/mpu-platform/app/entity"
)

func (q *queries) CreateEntitlement(ctx context.Context, entitlement *entity.Entitlement) error {
	query := `
		INSERT INTO entitlements (id, user_id, kind, qty_total, qty_used, valid_from, valid_to, source_order_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.db.ExecContext(ctx, query,
		entitlement.ID,
		entitlement.UserID,
		string(entitlement.Kind),
		entitlement.QtyTotal,
		entitlement.QtyUsed,
		entitlement.ValidFrom,
		nullableTimeValue(entitlement.ValidTo),
		entitlement.SourceOrderID,
		entitlement.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrEntitlementExists
		}
		return err
	}
	return nil
}

func (q *queries) FindEntitlementByOrderAndKind(ctx context.Context, sourceOrderID string, kind entity.EntitlementKind) (*entity.Entitlement, error) {
	query := selectEntitlement + ` WHERE source_order_id = ? AND kind = ? LIMIT 1`

	entitlement := &entity.Entitlement{}
	if err := scanEntitlement(q.db.QueryRowContext(ctx, query, sourceOrderID, string(kind)), entitlement); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return entitlement, nil
}

func (q *queries) ListEntitlementsByUser(ctx context.Context, userID string) ([]*entity.Entitlement, error) {
	query := selectEntitlement + ` WHERE user_id = ? ORDER BY created_at ASC`

	rows, err := q.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Entitlement, 0)
	for rows.Next() {
		entitlement := &entity.Entitlement{}
		var kind string
		var validTo sql.NullTime
		if err := rows.Scan(
			&entitlement.ID,
			&entitlement.UserID,
			&kind,
			&entitlement.QtyTotal,
			&entitlement.QtyUsed,
			&entitlement.ValidFrom,
			&validTo,
			&entitlement.SourceOrderID,
			&entitlement.CreatedAt,
		); err != nil {
			return nil, err
		}
		entitlement.Kind = entity.EntitlementKind(kind)
		entitlement.ValidTo = timePtrFromNull(validTo)
		items = append(items, entitlement)
	}
	return items, rows.Err()
}

// HasUsableEntitlement is a non-locking read used as a cheap gate
// before expensive work. The authoritative check is ConsumeEntitlement.
func (q *queries) HasUsableEntitlement(ctx context.Context, userID string, kind entity.EntitlementKind, now time.Time) (bool, error) {
	query := `
		SELECT 1
		FROM entitlements
		WHERE user_id = ? AND kind = ?
			AND qty_used < qty_total
			AND valid_from <= ?
			AND (valid_to IS NULL OR valid_to >= ?)
		LIMIT 1
	`

	var one int
	err := q.db.QueryRowContext(ctx, query, userID, string(kind), now, now).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ConsumeEntitlement debits one unit from the best usable entitlement.
// Expiring entitlements are drained before open-ended ones, earlier
// expiry and earlier mint first. The row is locked FOR UPDATE, so this
// must run inside ExecTx. Returns false when nothing usable exists.
func (q *queries) ConsumeEntitlement(ctx context.Context, userID string, kind entity.EntitlementKind, now time.Time) (bool, error) {
	query := `
		SELECT id, qty_used
		FROM entitlements
		WHERE user_id = ? AND kind = ?
			AND qty_used < qty_total
			AND valid_from <= ?
			AND (valid_to IS NULL OR valid_to >= ?)
		ORDER BY (valid_to IS NULL) ASC, valid_to ASC, created_at ASC
		LIMIT 1
		FOR UPDATE
	`

	var id string
	var qtyUsed int32
	err := q.db.QueryRowContext(ctx, query, userID, string(kind), now, now).Scan(&id, &qtyUsed)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	update := `UPDATE entitlements SET qty_used = qty_used + 1 WHERE id = ?`
	if _, err := q.db.ExecContext(ctx, update, id); err != nil {
		return false, err
	}
	return true, nil
}

const selectEntitlement = `
	SELECT id, user_id, kind, qty_total, qty_used, valid_from, valid_to, source_order_id, created_at
	FROM entitlements`

func scanEntitlement(row *sql.Row, entitlement *entity.Entitlement) error {
	var kind string
	var validTo sql.NullTime
	if err := row.Scan(
		&entitlement.ID,
		&entitlement.UserID,
		&kind,
		&entitlement.QtyTotal,
		&entitlement.QtyUsed,
		&entitlement.ValidFrom,
		&validTo,
		&entitlement.SourceOrderID,
		&entitlement.CreatedAt,
	); err != nil {
		return err
	}
	entitlement.Kind = entity.EntitlementKind(kind)
	entitlement.ValidTo = timePtrFromNull(validTo)
	return nil
}
