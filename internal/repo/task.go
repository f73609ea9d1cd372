package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/internal/pagination"
)

const selectTask = `
	SELECT t.id, t.title, t.description, t.status, t.deadline, t.created_at, t.owner_id, u.username,
		ARRAY(
			SELECT c.id FROM task_categories tc JOIN categories c ON c.id = tc.category_id
			WHERE tc.task_id = t.id AND NOT c.is_deleted ORDER BY c.name
		),
		ARRAY(
			SELECT c.name FROM task_categories tc JOIN categories c ON c.id = tc.category_id
			WHERE tc.task_id = t.id AND NOT c.is_deleted ORDER BY c.name
		)
	FROM tasks t
	JOIN users u ON u.id = t.owner_id`

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Deadline, &t.CreatedAt, &t.OwnerID, &t.Owner,
		&t.CategoryIDs, &t.Categories,
	)
	t.CreatedAt = t.CreatedAt.UTC()
	if t.Deadline != nil {
		d := t.Deadline.UTC()
		t.Deadline = &d
	}
	return t, err
}

func (r *PostgresRepo) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return t, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO tasks (title, description, status, deadline, created_at, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, t.Title, t.Description, t.Status, t.Deadline, t.CreatedAt, t.OwnerID).Scan(&id)
	if err != nil {
		return t, r.mapError(err)
	}

	if err := linkCategories(ctx, tx, id, t.CategoryIDs); err != nil {
		return t, r.mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return t, err
	}
	return r.GetTask(ctx, id)
}

func (r *PostgresRepo) GetTask(ctx context.Context, id int64) (model.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, selectTask+` WHERE t.id = $1`, id))
	if err == pgx.ErrNoRows {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *PostgresRepo) ListTasks(ctx context.Context, f model.TaskFilter) ([]model.Task, error) {
	var w where
	if f.OwnerID != 0 {
		w.add("t.owner_id = ?", f.OwnerID)
	}
	if f.Status != nil {
		w.add("t.status = ?", string(*f.Status))
	}
	if f.Deadline != nil {
		w.add("t.deadline = ?", *f.Deadline)
	}
	if f.Weekday != nil {
		w.add("EXTRACT(DOW FROM t.deadline AT TIME ZONE 'UTC')::int = ?", int(*f.Weekday))
	}
	if f.Search != "" {
		p := ContainsPattern(f.Search)
		w.add(`(t.title ILIKE ? ESCAPE '\' OR t.description ILIKE ? ESCAPE '\')`, p, p)
	}

	cmp, desc := pagination.Keyset(f.Ascending, f.Cursor)
	if cmp != "" {
		w.add(fmt.Sprintf("(t.created_at %[1]s ? OR (t.created_at = ? AND t.id %[1]s ?))", cmp),
			f.Cursor.CreatedAt, f.Cursor.CreatedAt, f.Cursor.ID)
	}

	query := selectTask + w.sql() + orderByCreated("t", desc)
	if f.Limit > 0 {
		query += " LIMIT " + w.arg(f.Limit)
	}

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0, max(f.Limit, 0))
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *PostgresRepo) UpdateTask(ctx context.Context, t model.Task) (model.Task, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return t, err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		UPDATE tasks
		SET title = $3, description = $4, status = $5, deadline = $6
		WHERE id = $1 AND owner_id = $2
	`, t.ID, t.OwnerID, t.Title, t.Description, t.Status, t.Deadline)
	if err != nil {
		return t, r.mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return t, ErrorNotFound
	}

	if t.CategoryIDs != nil {
		if _, err := tx.Exec(ctx, "DELETE FROM task_categories WHERE task_id = $1", t.ID); err != nil {
			return t, err
		}
		if err := linkCategories(ctx, tx, t.ID, t.CategoryIDs); err != nil {
			return t, r.mapError(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return t, err
	}
	return r.GetTask(ctx, t.ID)
}

func (r *PostgresRepo) DeleteTask(ctx context.Context, id, ownerID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var locked int64
	err = tx.QueryRow(ctx, `
		SELECT id FROM tasks WHERE id = $1 AND owner_id = $2 FOR UPDATE
	`, id, ownerID).Scan(&locked)
	if err == pgx.ErrNoRows {
		return ErrorNotFound
	}
	if err != nil {
		return err
	}

	for _, stmt := range []string{
		"DELETE FROM subtasks WHERE task_id = $1",
		"DELETE FROM task_categories WHERE task_id = $1",
		"DELETE FROM tasks WHERE id = $1",
	} {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepo) TaskStats(ctx context.Context, ownerID int64, now time.Time) (model.TaskStats, error) {
	stats := model.TaskStats{StatusCounts: map[model.Status]int{}}

	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*),
			COUNT(*) FILTER (WHERE status <> ALL($3) AND deadline < $2)
		FROM tasks
		WHERE owner_id = $1
		GROUP BY status
	`, ownerID, now, model.ClosedStatuses())
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status         string
			count, overdue int
		)
		if err := rows.Scan(&status, &count, &overdue); err != nil {
			return stats, err
		}
		stats.StatusCounts[model.Status(status)] = count
		stats.TotalTasks += count
		stats.OverdueTasks += overdue
	}
	return stats, rows.Err()
}

func linkCategories(ctx context.Context, tx pgx.Tx, taskID int64, categoryIDs []int64) error {
	for _, cid := range categoryIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO task_categories (task_id, category_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, taskID, cid); err != nil {
			return err
		}
	}
	return nil
}

func orderByCreated(alias string, desc bool) string {
	if desc {
		return fmt.Sprintf(" ORDER BY %[1]s.created_at DESC, %[1]s.id DESC", alias)
	}
	return fmt.Sprintf(" ORDER BY %[1]s.created_at ASC, %[1]s.id ASC", alias)
}
