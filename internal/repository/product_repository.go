// Package repository persists catalog documents in PostgreSQL. Each entity is
// stored as a JSONB document beside its natural-key column and an optimistic
// revision counter; the unique indexes enforce key uniqueness case-insensitively.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartpos/backoffice/internal/domain"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	// Search matches name, SKU, or barcode, case-insensitively.
	Search string
	// CategoryID keeps only products in the category.
	CategoryID uuid.UUID
	// LowStock keeps only products at or below their reorder level.
	LowStock bool
}

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT doc, revision FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *ProductRepository) FindByKey(ctx context.Context, key string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT doc, revision FROM products WHERE upper(sku) = upper($1)`, key)
	return scanProduct(row)
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.Search(ctx, ProductFilter{})
}

// Search lists products matching the filter, ordered by SKU.
func (r *ProductRepository) Search(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	query := `SELECT doc, revision FROM products`
	var conditions []string
	var args []any
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		p := fmt.Sprintf("$%d", len(args))
		conditions = append(conditions, fmt.Sprintf(
			"(doc->>'name' ILIKE %s OR sku ILIKE %s OR doc->>'barcode' ILIKE %s)", p, p, p))
	}
	if filter.CategoryID != uuid.Nil {
		args = append(args, filter.CategoryID.String())
		conditions = append(conditions, fmt.Sprintf("doc->>'category' = $%d", len(args)))
	}
	if filter.LowStock {
		conditions = append(conditions, "(doc->>'stock')::numeric <= (doc->>'reorderLevel')::numeric")
	}
	for i, condition := range conditions {
		if i == 0 {
			query += " WHERE " + condition
		} else {
			query += " AND " + condition
		}
	}
	query += " ORDER BY sku"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// ExistsByCategory reports whether any product still references the category.
func (r *ProductRepository) ExistsByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE doc->>'category' = $1)`,
		categoryID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category references: %w", err)
	}
	return exists, nil
}

// Save inserts a new product or updates an existing one under an optimistic
// revision check. The in-memory revision is advanced on success.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	doc, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	if product.Revision == 0 {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO products (id, sku, doc, revision, created_at, updated_at)
			 VALUES ($1, $2, $3, 1, $4, $5)`,
			product.ID, product.SKU, doc, product.CreatedAt, product.UpdatedAt)
		if err != nil {
			return mapWriteError(err, "insert product")
		}
		product.Revision = 1
		return nil
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE products
		 SET sku = $2, doc = $3, revision = revision + 1, updated_at = $4
		 WHERE id = $1 AND revision = $5`,
		product.ID, product.SKU, doc, product.UpdatedAt, product.Revision)
	if err != nil {
		return mapWriteError(err, "update product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaleWrite
	}
	product.Revision++
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var doc []byte
	var revision int64
	if err := row.Scan(&doc, &revision); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	var product domain.Product
	if err := json.Unmarshal(doc, &product); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	product.Revision = revision
	return &product, nil
}

// mapWriteError translates unique violations into the duplicate-key sentinel.
func mapWriteError(err error, operation string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicateKey
	}
	return fmt.Errorf("%s: %w", operation, err)
}
