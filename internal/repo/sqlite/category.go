package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/internal/repo"
)

type categoryRecord struct {
	ID        int64 `gorm:"primaryKey"`
	Name      string
	IsDeleted bool
	DeletedAt *time.Time
}

func (categoryRecord) TableName() string { return "categories" }

func (c categoryRecord) model() model.Category {
	return model.Category{ID: c.ID, Name: c.Name, IsDeleted: c.IsDeleted, DeletedAt: utcPtr(c.DeletedAt)}
}

func categories(recs []categoryRecord) []model.Category {
	out := make([]model.Category, len(recs))
	for i, rec := range recs {
		out[i] = rec.model()
	}
	return out
}

func (s *Store) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	rec := categoryRecord{Name: name}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.Category{}, mapError(err)
	}
	return rec.model(), nil
}

func (s *Store) GetActiveCategory(ctx context.Context, id int64) (model.Category, error) {
	var rec categoryRecord
	err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", id, false).First(&rec).Error
	return rec.model(), mapError(err)
}

func (s *Store) RenameCategory(ctx context.Context, id int64, name string) (model.Category, error) {
	res := s.db.WithContext(ctx).Model(&categoryRecord{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("name", name)
	if res.Error != nil {
		return model.Category{}, mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Category{}, repo.ErrorNotFound
	}
	return s.GetActiveCategory(ctx, id)
}

// SoftDeleteCategory stamps deleted_at on every call, including on rows that
// are already deleted.
func (s *Store) SoftDeleteCategory(ctx context.Context, id int64, at time.Time) (model.Category, error) {
	var rec categoryRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&categoryRecord{}).Where("id = ?", id).
			Updates(map[string]any{"is_deleted": true, "deleted_at": at.UTC()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&rec, id).Error
	})
	return rec.model(), mapError(err)
}

func (s *Store) ActiveNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&categoryRecord{}).
		Where("name = ? AND is_deleted = ? AND id <> ?", name, false, excludeID).
		Count(&n).Error
	return n > 0, err
}

func (s *Store) FindActiveByNames(ctx context.Context, names []string) ([]model.Category, error) {
	if len(names) == 0 {
		return []model.Category{}, nil
	}
	var recs []categoryRecord
	err := s.db.WithContext(ctx).
		Where("name IN ? AND is_deleted = ?", names, false).
		Order("name").Find(&recs).Error
	return categories(recs), err
}

func (s *Store) ListActiveCategories(ctx context.Context, order model.CategoryOrder) ([]model.Category, error) {
	var recs []categoryRecord
	err := s.db.WithContext(ctx).Where("is_deleted = ?", false).Order(categoryOrder(order)).Find(&recs).Error
	return categories(recs), err
}

func (s *Store) ListDeletedCategories(ctx context.Context) ([]model.Category, error) {
	var recs []categoryRecord
	err := s.db.WithContext(ctx).Where("is_deleted = ?", true).Order("id").Find(&recs).Error
	return categories(recs), err
}

func (s *Store) CountTasksPerCategory(ctx context.Context) ([]model.CategoryTaskCount, error) {
	counts := make([]model.CategoryTaskCount, 0)
	err := s.db.WithContext(ctx).Raw(`
		SELECT c.id AS id, c.name AS name, COUNT(tc.task_id) AS task_count
		FROM categories c
		LEFT JOIN task_categories tc ON tc.category_id = c.id
		WHERE c.is_deleted = 0
		GROUP BY c.id, c.name
		ORDER BY c.name`).Scan(&counts).Error
	return counts, err
}

func categoryOrder(o model.CategoryOrder) string {
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
