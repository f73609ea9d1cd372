package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/internal/pagination"
)

const selectSubTask = `
	SELECT s.id, s.title, s.description, s.task_id, s.status, s.deadline, s.created_at, s.owner_id, u.username
	FROM subtasks s
	JOIN users u ON u.id = s.owner_id
	JOIN tasks t ON t.id = s.task_id`

func scanSubTask(row pgx.Row) (model.SubTask, error) {
	var st model.SubTask
	err := row.Scan(
		&st.ID, &st.Title, &st.Description, &st.TaskID, &st.Status, &st.Deadline, &st.CreatedAt,
		&st.OwnerID, &st.Owner,
	)
	st.CreatedAt = st.CreatedAt.UTC()
	if st.Deadline != nil {
		d := st.Deadline.UTC()
		st.Deadline = &d
	}
	return st, err
}

func (r *PostgresRepo) CreateSubTask(ctx context.Context, st model.SubTask) (model.SubTask, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO subtasks (title, description, task_id, status, deadline, created_at, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, st.Title, st.Description, st.TaskID, st.Status, st.Deadline, st.CreatedAt, st.OwnerID).Scan(&id)
	if err != nil {
		return st, r.mapError(err)
	}
	return r.GetSubTask(ctx, id)
}

func (r *PostgresRepo) GetSubTask(ctx context.Context, id int64) (model.SubTask, error) {
	st, err := scanSubTask(r.pool.QueryRow(ctx, selectSubTask+` WHERE s.id = $1`, id))
	if err == pgx.ErrNoRows {
		return st, ErrorNotFound
	}
	return st, err
}

func (r *PostgresRepo) ListSubTasks(ctx context.Context, f model.SubTaskFilter) ([]model.SubTask, error) {
	var w where
	if f.OwnerID != 0 {
		w.add("s.owner_id = ?", f.OwnerID)
	}
	if f.Status != nil {
		w.add("s.status = ?", string(*f.Status))
	}
	if f.Deadline != nil {
		w.add("s.deadline = ?", *f.Deadline)
	}
	if f.TaskTitle != "" {
		w.add(`t.title ILIKE ? ESCAPE '\'`, ContainsPattern(f.TaskTitle))
	}
	if f.Search != "" {
		p := ContainsPattern(f.Search)
		w.add(`(s.title ILIKE ? ESCAPE '\' OR s.description ILIKE ? ESCAPE '\')`, p, p)
	}

	cmp, desc := pagination.Keyset(f.Ascending, f.Cursor)
	if cmp != "" {
		w.add(fmt.Sprintf("(s.created_at %[1]s ? OR (s.created_at = ? AND s.id %[1]s ?))", cmp),
			f.Cursor.CreatedAt, f.Cursor.CreatedAt, f.Cursor.ID)
	}

	query := selectSubTask + w.sql() + orderByCreated("s", desc)
	if f.Limit > 0 {
		query += " LIMIT " + w.arg(f.Limit)
	}
	return r.querySubTasks(ctx, query, w.args...)
}

func (r *PostgresRepo) ListSubTasksOfTask(ctx context.Context, taskID int64) ([]model.SubTask, error) {
	return r.querySubTasks(ctx, selectSubTask+` WHERE s.task_id = $1`+orderByCreated("s", true), taskID)
}

func (r *PostgresRepo) UpdateSubTask(ctx context.Context, st model.SubTask) (model.SubTask, error) {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE subtasks
		SET title = $3, description = $4, task_id = $5, status = $6, deadline = $7
		WHERE id = $1 AND owner_id = $2
	`, st.ID, st.OwnerID, st.Title, st.Description, st.TaskID, st.Status, st.Deadline)
	if err != nil {
		return st, r.mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return st, ErrorNotFound
	}
	return r.GetSubTask(ctx, st.ID)
}

func (r *PostgresRepo) DeleteSubTask(ctx context.Context, id, ownerID int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM subtasks WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *PostgresRepo) querySubTasks(ctx context.Context, query string, args ...any) ([]model.SubTask, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subtasks := make([]model.SubTask, 0)
	for rows.Next() {
		st, err := scanSubTask(rows)
		if err != nil {
			return nil, err
		}
		subtasks = append(subtasks, st)
	}
	return subtasks, rows.Err()
}
