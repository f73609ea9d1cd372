package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/internal/repo"
)

// SubTaskRecord maps the subtasks table.
type SubTaskRecord struct {
	ID          int64 `gorm:"primaryKey"`
	Title       string
	Description string
	TaskID      int64
	Status      string
	Deadline    *time.Time
	CreatedAt   time.Time
	OwnerID     int64
}

func (SubTaskRecord) TableName() string { return "subtasks" }

type subTaskRow struct {
	SubTaskRecord
	Owner string
}

func (r subTaskRow) model() model.SubTask {
	return model.SubTask{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		TaskID:      r.TaskID,
		Status:      model.Status(r.Status),
		Deadline:    utcPtr(r.Deadline),
		CreatedAt:   r.CreatedAt.UTC(),
		OwnerID:     r.OwnerID,
		Owner:       r.Owner,
	}
}

func (s *Store) subTasks(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("subtasks AS s").
		Select("s.*, u.username AS owner").
		Joins("JOIN users u ON u.id = s.owner_id").
		Joins("JOIN tasks t ON t.id = s.task_id")
}

func (s *Store) CreateSubTask(ctx context.Context, st model.SubTask) (model.SubTask, error) {
	rec := SubTaskRecord{
		Title:       st.Title,
		Description: st.Description,
		TaskID:      st.TaskID,
		Status:      string(st.Status),
		Deadline:    utcPtr(st.Deadline),
		CreatedAt:   st.CreatedAt.UTC(),
		OwnerID:     st.OwnerID,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return st, mapError(err)
	}
	return s.GetSubTask(ctx, rec.ID)
}

func (s *Store) GetSubTask(ctx context.Context, id int64) (model.SubTask, error) {
	var row subTaskRow
	if err := s.subTasks(ctx).Where("s.id = ?", id).Take(&row).Error; err != nil {
		return model.SubTask{}, mapError(err)
	}
	return row.model(), nil
}

func (s *Store) ListSubTasks(ctx context.Context, f model.SubTaskFilter) ([]model.SubTask, error) {
	q := s.subTasks(ctx)
	if f.OwnerID != 0 {
		q = q.Where("s.owner_id = ?", f.OwnerID)
	}
	if f.Status != nil {
		q = q.Where("s.status = ?", string(*f.Status))
	}
	if f.Deadline != nil {
		q = q.Where("s.deadline = ?", f.Deadline.UTC())
	}
	if f.TaskTitle != "" {
		q = q.Where(`t.title LIKE ? ESCAPE '\'`, repo.ContainsPattern(f.TaskTitle))
	}
	if f.Search != "" {
		p := repo.ContainsPattern(f.Search)
		q = q.Where(`(s.title LIKE ? ESCAPE '\' OR s.description LIKE ? ESCAPE '\')`, p, p)
	}
	q = keyset(q, "s", f.Ascending, f.Cursor)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	return scanSubTasks(q)
}

func (s *Store) ListSubTasksOfTask(ctx context.Context, taskID int64) ([]model.SubTask, error) {
	return scanSubTasks(keyset(s.subTasks(ctx).Where("s.task_id = ?", taskID), "s", false, nil))
}

func (s *Store) UpdateSubTask(ctx context.Context, st model.SubTask) (model.SubTask, error) {
	res := s.db.WithContext(ctx).Model(&SubTaskRecord{}).
		Where("id = ? AND owner_id = ?", st.ID, st.OwnerID).
		Updates(map[string]any{
			"title":       st.Title,
			"description": st.Description,
			"task_id":     st.TaskID,
			"status":      string(st.Status),
			"deadline":    utcPtr(st.Deadline),
		})
	if res.Error != nil {
		return st, mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return st, repo.ErrorNotFound
	}
	return s.GetSubTask(ctx, st.ID)
}

func (s *Store) DeleteSubTask(ctx context.Context, id, ownerID int64) error {
	res := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&SubTaskRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrorNotFound
	}
	return nil
}

func scanSubTasks(q *gorm.DB) ([]model.SubTask, error) {
	var rows []subTaskRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.SubTask, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}
