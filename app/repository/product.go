package repository

import (
	"context"
	"database/sql"

	"github.com/klarkurs/mpu-platform/app/entity"
)

func (q *queries) CreateProduct(ctx context.Context, product *entity.Product) error {
	metadataJSON, err := serializeJSONMap(product.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, code, type, name_de, name_en, price_cents, currency, metadata_json, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = q.db.ExecContext(ctx, query,
		product.ID,
		product.Code,
		string(product.Type),
		product.NameDE,
		product.NameEN,
		product.PriceCents,
		product.Currency,
		metadataJSON,
		product.Active,
		product.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrProductCodeTaken
		}
		return err
	}
	return nil
}

func (q *queries) FindProductByID(ctx context.Context, id string) (*entity.Product, error) {
	query := selectProduct + ` WHERE id = ?`

	product, err := scanProduct(q.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return product, err
}

func (q *queries) FindProductByCode(ctx context.Context, code string) (*entity.Product, error) {
	query := selectProduct + ` WHERE code = ?`

	product, err := scanProduct(q.db.QueryRowContext(ctx, query, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return product, err
}

func (q *queries) ListActiveProducts(ctx context.Context) ([]*entity.Product, error) {
	query := selectProduct + ` WHERE active = TRUE ORDER BY price_cents ASC`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Product, 0)
	for rows.Next() {
		product, err := scanProductRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, product)
	}
	return items, rows.Err()
}

// FindActiveBookingProduct returns the cheapest active booking product,
// used to point users at what to buy when they lack booking access.
func (q *queries) FindActiveBookingProduct(ctx context.Context) (*entity.Product, error) {
	query := selectProduct + ` WHERE active = TRUE AND type = ? ORDER BY price_cents ASC LIMIT 1`

	product, err := scanProduct(q.db.QueryRowContext(ctx, query, string(entity.ProductTypeBooking)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return product, err
}

const selectProduct = `
	SELECT id, code, type, name_de, name_en, price_cents, currency, metadata_json, active, created_at
	FROM products`

func scanProduct(row *sql.Row) (*entity.Product, error) {
	product := &entity.Product{}
	var productType, metadataJSON string
	if err := row.Scan(
		&product.ID,
		&product.Code,
		&productType,
		&product.NameDE,
		&product.NameEN,
		&product.PriceCents,
		&product.Currency,
		&metadataJSON,
		&product.Active,
		&product.CreatedAt,
	); err != nil {
		return nil, err
	}
	return finishProduct(product, productType, metadataJSON)
}

func scanProductRows(rows *sql.Rows) (*entity.Product, error) {
	product := &entity.Product{}
	var productType, metadataJSON string
	if err := rows.Scan(
		&product.ID,
		&product.Code,
		&productType,
		&product.NameDE,
		&product.NameEN,
		&product.PriceCents,
		&product.Currency,
		&metadataJSON,
		&product.Active,
		&product.CreatedAt,
	); err != nil {
		return nil, err
	}
	return finishProduct(product, productType, metadataJSON)
}

func finishProduct(product *entity.Product, productType, metadataJSON string) (*entity.Product, error) {
	metadata, err := parseJSONMap(metadataJSON)
	if err != nil {
		return nil, err
	}
	product.Type = entity.ProductType(productType)
	product.Metadata = metadata
	return product, nil
}
