package products

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProductNotFound = errors.New("product not found")

	queryTimeout = 5 * time.Second
)

// Store is the read-only catalog lookup the cart flow depends on.
// Implemented by Repository (pgxpool).
type Store interface {
	ListProducts(ctx context.Context, categorySlug string, limit, offset int) ([]*Product, int, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	ListCategories(ctx context.Context) ([]*Category, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListProducts(ctx context.Context, categorySlug string, limit, offset int) ([]*Product, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
SELECT p.id, p.name, p.description, p.price, p.currency, p.sku,
       p.stock_quantity, p.image_urls, p.thumbnail_url, p.is_active,
       p.created_at, p.updated_at,
       count(*) OVER () AS total
FROM products p
WHERE p.is_active
  AND ($1 = '' OR EXISTS (
        SELECT 1
        FROM product_categories pc
        JOIN categories c ON c.id = pc.category_id
        WHERE pc.product_id = p.id AND c.slug = $1))
ORDER BY p.name
LIMIT $2 OFFSET $3
`
	rows, err := r.db.Query(ctx, query, categorySlug, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		out   []*Product
		total int
	)
	for rows.Next() {
		var p Product
		var thumbnail *string
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Currency, &p.SKU,
			&p.StockQuantity, &p.ImageURLs, &thumbnail, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt, &total,
		); err != nil {
			return nil, 0, err
		}
		if thumbnail != nil {
			p.ThumbnailURL = *thumbnail
		}
		out = append(out, &p)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetProductByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p Product
	var thumbnail *string
	err := r.db.QueryRow(ctx, `
SELECT id, name, description, price, currency, sku,
       stock_quantity, image_urls, thumbnail_url, is_active,
       created_at, updated_at
FROM products
WHERE id = $1 AND is_active
`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Currency, &p.SKU,
		&p.StockQuantity, &p.ImageURLs, &thumbnail, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if thumbnail != nil {
		p.ThumbnailURL = *thumbnail
	}

	cats, err := r.categoriesForProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Categories = cats
	return &p, nil
}

func (r *Repository) categoriesForProduct(ctx context.Context, productID string) ([]Category, error) {
	rows, err := r.db.Query(ctx, `
SELECT c.id, c.name, c.slug, coalesce(c.description, ''), c.is_active,
       c.sort_order, c.created_at, c.updated_at
FROM categories c
JOIN product_categories pc ON pc.category_id = c.id
WHERE pc.product_id = $1
ORDER BY c.sort_order
`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.IsActive,
			&c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) ListCategories(ctx context.Context) ([]*Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
SELECT id, name, slug, coalesce(description, ''), is_active,
       sort_order, created_at, updated_at
FROM categories
WHERE is_active
ORDER BY sort_order, name
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.IsActive,
			&c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
