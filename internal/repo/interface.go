package repo

import (
	"context"
	"errors"
	"time"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
)

// CategoryRepository exposes two explicit views over one collection:
// the active view (is_deleted = false) and the deleted view.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, name string) (model.Category, error)
	GetActiveCategory(ctx context.Context, id int64) (model.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) (model.Category, error)
	SoftDeleteCategory(ctx context.Context, id int64, at time.Time) (model.Category, error)
	ActiveNameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	FindActiveByNames(ctx context.Context, names []string) ([]model.Category, error)
	ListActiveCategories(ctx context.Context, order model.CategoryOrder) ([]model.Category, error)
	ListDeletedCategories(ctx context.Context) ([]model.Category, error)
	CountTasksPerCategory(ctx context.Context) ([]model.CategoryTaskCount, error)
}

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	CreateTask(ctx context.Context, t model.Task) (model.Task, error)
	GetTask(ctx context.Context, id int64) (model.Task, error)
	ListTasks(ctx context.Context, f model.TaskFilter) ([]model.Task, error)
	// UpdateTask replaces categories only when t.CategoryIDs is non-nil.
	UpdateTask(ctx context.Context, t model.Task) (model.Task, error)
	// DeleteTask removes the task's subtasks and category links in the same transaction.
	DeleteTask(ctx context.Context, id, ownerID int64) error
	TaskStats(ctx context.Context, ownerID int64, now time.Time) (model.TaskStats, error)
}

type SubTaskRepository interface {
	CreateSubTask(ctx context.Context, st model.SubTask) (model.SubTask, error)
	GetSubTask(ctx context.Context, id int64) (model.SubTask, error)
	ListSubTasks(ctx context.Context, f model.SubTaskFilter) ([]model.SubTask, error)
	ListSubTasksOfTask(ctx context.Context, taskID int64) ([]model.SubTask, error)
	UpdateSubTask(ctx context.Context, st model.SubTask) (model.SubTask, error)
	DeleteSubTask(ctx context.Context, id, ownerID int64) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

type TokenBlacklist interface {
	// BlacklistToken reports ErrorConflict when the token is already blacklisted.
	BlacklistToken(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Store bundles every repository a backend provides.
type Store interface {
	CategoryRepository
	TaskRepository
	SubTaskRepository
	UserRepository
	TokenBlacklist
	Ping(ctx context.Context) error
	Close() error
}
