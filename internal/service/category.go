package service

import (
	"context"
	"errors"
	"time"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/internal/repo"
)

// CategoryService keeps active category names unique. The store's unique
// index on active names backs the check, so a racing duplicate still fails.
type CategoryService struct {
	repo repo.CategoryRepository
	now  func() time.Time
}

func NewCategoryService(repo repo.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo, now: time.Now}
}

func (s *CategoryService) Create(ctx context.Context, caller model.Caller, in CategoryInput) (model.Category, error) {
	if !caller.Authenticated() {
		return model.Category{}, ErrUnauthorized
	}
	name, err := s.checkName(ctx, in.Name, 0, true)
	if err != nil {
		return model.Category{}, err
	}
	c, err := s.repo.CreateCategory(ctx, name)
	return c, nameConflict(err)
}

// Rename is the PUT update. Keeping the current name is always allowed.
func (s *CategoryService) Rename(ctx context.Context, caller model.Caller, id int64, in CategoryInput) (model.Category, error) {
	if !caller.Authenticated() {
		return model.Category{}, ErrUnauthorized
	}
	current, err := s.repo.GetActiveCategory(ctx, id)
	if err != nil {
		return model.Category{}, err
	}
	name, err := s.checkName(ctx, in.Name, id, true)
	if err != nil {
		return model.Category{}, err
	}
	if name == current.Name {
		return current, nil
	}
	c, err := s.repo.RenameCategory(ctx, id, name)
	return c, nameConflict(err)
}

// Delete soft-deletes an active category; already deleted ones are not found.
func (s *CategoryService) Delete(ctx context.Context, caller model.Caller, id int64) error {
	if !caller.Authenticated() {
		return ErrUnauthorized
	}
	if _, err := s.repo.GetActiveCategory(ctx, id); err != nil {
		return err
	}
	_, err := s.repo.SoftDeleteCategory(ctx, id, s.now().UTC().Truncate(time.Microsecond))
	return err
}

func (s *CategoryService) Get(ctx context.Context, id int64) (model.Category, error) {
	return s.repo.GetActiveCategory(ctx, id)
}

func (s *CategoryService) List(ctx context.Context, ordering string) ([]model.Category, error) {
	return s.repo.ListActiveCategories(ctx, model.ParseCategoryOrder(ordering))
}

func (s *CategoryService) ListDeleted(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListDeletedCategories(ctx)
}

func (s *CategoryService) CountTasks(ctx context.Context) ([]model.CategoryTaskCount, error) {
	return s.repo.CountTasksPerCategory(ctx)
}

func (s *CategoryService) checkName(ctx context.Context, f Field[string], excludeID int64, required bool) (string, error) {
	var ve ValidationError
	checkText(&ve, "name", &f, required, maxCategoryNameLen)
	if err := ve.Err(); err != nil {
		return "", err
	}
	exists, err := s.repo.ActiveNameExists(ctx, f.Value, excludeID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fieldError("name", categoryTakenMsg)
	}
	return f.Value, nil
}

func nameConflict(err error) error {
	if errors.Is(err, repo.ErrorConflict) {
		return fieldError("name", categoryTakenMsg)
	}
	return err
}
