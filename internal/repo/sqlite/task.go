package sqlite

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/internal/pagination"
	"github.com/BuzzLyutic/taskhub-api/internal/repo"
)

// TaskRecord maps the tasks table. Exported so gorm can scan it when embedded.
type TaskRecord struct {
	ID          int64 `gorm:"primaryKey"`
	Title       string
	Description string
	Status      string
	Deadline    *time.Time
	CreatedAt   time.Time
	OwnerID     int64
}

func (TaskRecord) TableName() string { return "tasks" }

type taskCategoryRecord struct {
	TaskID     int64 `gorm:"primaryKey"`
	CategoryID int64 `gorm:"primaryKey"`
}

func (taskCategoryRecord) TableName() string { return "task_categories" }

// taskRow is a task joined with its owner's username.
type taskRow struct {
	TaskRecord
	Owner string
}

func (r taskRow) model() model.Task {
	return model.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      model.Status(r.Status),
		Deadline:    utcPtr(r.Deadline),
		CreatedAt:   r.CreatedAt.UTC(),
		OwnerID:     r.OwnerID,
		Owner:       r.Owner,
		CategoryIDs: []int64{},
		Categories:  []string{},
	}
}

func (s *Store) tasks(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("tasks AS t").
		Select("t.*, u.username AS owner").
		Joins("JOIN users u ON u.id = t.owner_id")
}

func (s *Store) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	rec := TaskRecord{
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Deadline:    utcPtr(t.Deadline),
		CreatedAt:   t.CreatedAt.UTC(),
		OwnerID:     t.OwnerID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		return linkCategories(tx, rec.ID, t.CategoryIDs)
	})
	if err != nil {
		return t, mapError(err)
	}
	return s.GetTask(ctx, rec.ID)
}

func (s *Store) GetTask(ctx context.Context, id int64) (model.Task, error) {
	var row taskRow
	if err := s.tasks(ctx).Where("t.id = ?", id).Take(&row).Error; err != nil {
		return model.Task{}, mapError(err)
	}
	out := []model.Task{row.model()}
	if err := s.attachCategories(ctx, out); err != nil {
		return model.Task{}, err
	}
	return out[0], nil
}

func (s *Store) ListTasks(ctx context.Context, f model.TaskFilter) ([]model.Task, error) {
	q := s.tasks(ctx)
	if f.OwnerID != 0 {
		q = q.Where("t.owner_id = ?", f.OwnerID)
	}
	if f.Status != nil {
		q = q.Where("t.status = ?", string(*f.Status))
	}
	if f.Deadline != nil {
		q = q.Where("t.deadline = ?", f.Deadline.UTC())
	}
	if f.Weekday != nil {
		q = q.Where("CAST(strftime('%w', t.deadline) AS INTEGER) = ?", int(*f.Weekday))
	}
	if f.Search != "" {
		p := repo.ContainsPattern(f.Search)
		q = q.Where(`(t.title LIKE ? ESCAPE '\' OR t.description LIKE ? ESCAPE '\')`, p, p)
	}
	q = keyset(q, "t", f.Ascending, f.Cursor)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []taskRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	tasks := make([]model.Task, len(rows))
	for i, r := range rows {
		tasks[i] = r.model()
	}
	return tasks, s.attachCategories(ctx, tasks)
}

func (s *Store) UpdateTask(ctx context.Context, t model.Task) (model.Task, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&TaskRecord{}).
			Where("id = ? AND owner_id = ?", t.ID, t.OwnerID).
			Updates(map[string]any{
				"title":       t.Title,
				"description": t.Description,
				"status":      string(t.Status),
				"deadline":    utcPtr(t.Deadline),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrorNotFound
		}
		if t.CategoryIDs == nil {
			return nil
		}
		if err := tx.Where("task_id = ?", t.ID).Delete(&taskCategoryRecord{}).Error; err != nil {
			return err
		}
		return linkCategories(tx, t.ID, t.CategoryIDs)
	})
	if err != nil {
		return t, mapError(err)
	}
	return s.GetTask(ctx, t.ID)
}

func (s *Store) DeleteTask(ctx context.Context, id, ownerID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&TaskRecord{}).Where("id = ? AND owner_id = ?", id, ownerID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return repo.ErrorNotFound
		}
		if err := tx.Where("task_id = ?", id).Delete(&SubTaskRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&taskCategoryRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&TaskRecord{}, id).Error
	})
	return mapError(err)
}

func (s *Store) TaskStats(ctx context.Context, ownerID int64, now time.Time) (model.TaskStats, error) {
	stats := model.TaskStats{StatusCounts: map[model.Status]int{}}

	var groups []struct {
		Status  string
		Total   int
		Overdue int
	}
	err := s.db.WithContext(ctx).Raw(`
		SELECT status,
			COUNT(*) AS total,
			SUM(CASE WHEN status NOT IN ? AND deadline IS NOT NULL AND deadline < ? THEN 1 ELSE 0 END) AS overdue
		FROM tasks
		WHERE owner_id = ?
		GROUP BY status`, model.ClosedStatuses(), now.UTC(), ownerID).Scan(&groups).Error
	if err != nil {
		return stats, err
	}
	for _, g := range groups {
		stats.StatusCounts[model.Status(g.Status)] = g.Total
		stats.TotalTasks += g.Total
		stats.OverdueTasks += g.Overdue
	}
	return stats, nil
}

// attachCategories fills the active categories of every task with one query.
func (s *Store) attachCategories(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]int64, len(tasks))
	index := make(map[int64]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		index[t.ID] = i
	}

	var links []struct {
		TaskID int64
		ID     int64
		Name   string
	}
	err := s.db.WithContext(ctx).Raw(`
		SELECT tc.task_id AS task_id, c.id AS id, c.name AS name
		FROM task_categories tc
		JOIN categories c ON c.id = tc.category_id
		WHERE tc.task_id IN ? AND c.is_deleted = 0
		ORDER BY c.name`, ids).Scan(&links).Error
	if err != nil {
		return err
	}
	for _, l := range links {
		t := &tasks[index[l.TaskID]]
		t.CategoryIDs = append(t.CategoryIDs, l.ID)
		t.Categories = append(t.Categories, l.Name)
	}
	return nil
}

func linkCategories(tx *gorm.DB, taskID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]taskCategoryRecord, len(categoryIDs))
	for i, cid := range categoryIDs {
		links[i] = taskCategoryRecord{TaskID: taskID, CategoryID: cid}
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

// keyset applies the cursor condition and the (created_at, id) ordering.
func keyset(q *gorm.DB, alias string, ascending bool, c *pagination.Cursor) *gorm.DB {
	cmp, desc := pagination.Keyset(ascending, c)
	if cmp != "" {
		at := c.CreatedAt.UTC()
		q = q.Where(fmt.Sprintf("(%[1]s.created_at %[2]s ? OR (%[1]s.created_at = ? AND %[1]s.id %[2]s ?))", alias, cmp),
			at, at, c.ID)
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return q.Order(fmt.Sprintf("%[1]s.created_at %[2]s, %[1]s.id %[2]s", alias, dir))
}
