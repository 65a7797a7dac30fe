package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartpos/backoffice/internal/domain"
)

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT doc, revision FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

func (r *CategoryRepository) FindByKey(ctx context.Context, key string) (*domain.Category, error) {
	return r.FindByCode(ctx, key)
}

func (r *CategoryRepository) FindByCode(ctx context.Context, code string) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT doc, revision FROM categories WHERE upper(code) = upper($1)`, code)
	return scanCategory(row)
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT doc, revision FROM categories WHERE lower(doc->>'name') = lower($1)`, name)
	return scanCategory(row)
}

// List returns every category ordered by display order, then name.
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT doc, revision FROM categories
		 ORDER BY (doc->>'displayOrder')::numeric, doc->>'name'`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	doc, err := json.Marshal(category)
	if err != nil {
		return fmt.Errorf("encode category: %w", err)
	}
	if category.Revision == 0 {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO categories (id, code, doc, revision, created_at, updated_at)
			 VALUES ($1, $2, $3, 1, $4, $5)`,
			category.ID, category.Code, doc, category.CreatedAt, category.UpdatedAt)
		if err != nil {
			return mapWriteError(err, "insert category")
		}
		category.Revision = 1
		return nil
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories
		 SET code = $2, doc = $3, revision = revision + 1, updated_at = $4
		 WHERE id = $1 AND revision = $5`,
		category.ID, category.Code, doc, category.UpdatedAt, category.Revision)
	if err != nil {
		return mapWriteError(err, "update category")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaleWrite
	}
	category.Revision++
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var doc []byte
	var revision int64
	if err := row.Scan(&doc, &revision); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	var category domain.Category
	if err := json.Unmarshal(doc, &category); err != nil {
		return nil, fmt.Errorf("decode category: %w", err)
	}
	category.Revision = revision
	return &category, nil
}
