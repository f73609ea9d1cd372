package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
)

const categoryColumns = `id, name, is_deleted, deleted_at`

func scanCategory(row pgx.Row) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.IsDeleted, &c.DeletedAt)
	if c.DeletedAt != nil {
		utc := c.DeletedAt.UTC()
		c.DeletedAt = &utc
	}
	return c, err
}

func (r *PostgresRepo) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, `
		INSERT INTO categories (name) VALUES ($1)
		RETURNING `+categoryColumns, name))
	return c, r.mapError(err)
}

func (r *PostgresRepo) GetActiveCategory(ctx context.Context, id int64) (model.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE id = $1 AND NOT is_deleted`, id))
	if err == pgx.ErrNoRows {
		return c, ErrorNotFound
	}
	return c, err
}

func (r *PostgresRepo) RenameCategory(ctx context.Context, id int64, name string) (model.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, `
		UPDATE categories SET name = $2
		WHERE id = $1 AND NOT is_deleted
		RETURNING `+categoryColumns, id, name))
	if err == pgx.ErrNoRows {
		return c, ErrorNotFound
	}
	return c, r.mapError(err)
}

// SoftDeleteCategory stamps deleted_at on every call, including on rows that
// are already deleted.
func (r *PostgresRepo) SoftDeleteCategory(ctx context.Context, id int64, at time.Time) (model.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, `
		UPDATE categories SET is_deleted = TRUE, deleted_at = $2
		WHERE id = $1
		RETURNING `+categoryColumns, id, at))
	if err == pgx.ErrNoRows {
		return c, ErrorNotFound
	}
	return c, err
}

func (r *PostgresRepo) ActiveNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE name = $1 AND NOT is_deleted AND id <> $2
		)`, name, excludeID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepo) FindActiveByNames(ctx context.Context, names []string) ([]model.Category, error) {
	return r.queryCategories(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE name = ANY($1) AND NOT is_deleted
		ORDER BY name`, names)
}

func (r *PostgresRepo) ListActiveCategories(ctx context.Context, order model.CategoryOrder) ([]model.Category, error) {
	return r.queryCategories(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE NOT is_deleted
		ORDER BY `+categoryOrderSQL(order))
}

func (r *PostgresRepo) ListDeletedCategories(ctx context.Context) ([]model.Category, error) {
	return r.queryCategories(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE is_deleted
		ORDER BY id`)
}

func (r *PostgresRepo) CountTasksPerCategory(ctx context.Context) ([]model.CategoryTaskCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, COUNT(tc.task_id)
		FROM categories c
		LEFT JOIN task_categories tc ON tc.category_id = c.id
		WHERE NOT c.is_deleted
		GROUP BY c.id, c.name
		ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]model.CategoryTaskCount, 0)
	for rows.Next() {
		var c model.CategoryTaskCount
		if err := rows.Scan(&c.ID, &c.Name, &c.TaskCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *PostgresRepo) queryCategories(ctx context.Context, query string, args ...any) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func categoryOrderSQL(o model.CategoryOrder) string {
	switch o {
	case model.CategoryByNameDesc:
		return "name DESC, id DESC"
	case model.CategoryByID:
		return "id"
	case model.CategoryByIDDesc:
		return "id DESC"
	default:
		return "name, id"
	}
}
