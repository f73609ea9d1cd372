package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
)

// MockTaskRepository - мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) GetTask(ctx context.Context, id int64) (model.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListTasks(ctx context.Context, f model.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) UpdateTask(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) DeleteTask(ctx context.Context, id, ownerID int64) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockTaskRepository) TaskStats(ctx context.Context, ownerID int64, now time.Time) (model.TaskStats, error) {
	args := m.Called(ctx, ownerID, now)
	return args.Get(0).(model.TaskStats), args.Error(1)
}

type MockSubTaskRepository struct {
	mock.Mock
}

func (m *MockSubTaskRepository) CreateSubTask(ctx context.Context, st model.SubTask) (model.SubTask, error) {
	args := m.Called(ctx, st)
	return args.Get(0).(model.SubTask), args.Error(1)
}

func (m *MockSubTaskRepository) GetSubTask(ctx context.Context, id int64) (model.SubTask, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.SubTask), args.Error(1)
}

func (m *MockSubTaskRepository) ListSubTasks(ctx context.Context, f model.SubTaskFilter) ([]model.SubTask, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.SubTask), args.Error(1)
}

func (m *MockSubTaskRepository) ListSubTasksOfTask(ctx context.Context, taskID int64) ([]model.SubTask, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]model.SubTask), args.Error(1)
}

func (m *MockSubTaskRepository) UpdateSubTask(ctx context.Context, st model.SubTask) (model.SubTask, error) {
	args := m.Called(ctx, st)
	return args.Get(0).(model.SubTask), args.Error(1)
}

func (m *MockSubTaskRepository) DeleteSubTask(ctx context.Context, id, ownerID int64) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetActiveCategory(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Category), args.Error(1)
}

func (m *MockCategoryRepository) RenameCategory(ctx context.Context, id int64, name string) (model.Category, error) {
	args := m.Called(ctx, id, name)
	return args.Get(0).(model.Category), args.Error(1)
}

func (m *MockCategoryRepository) SoftDeleteCategory(ctx context.Context, id int64, at time.Time) (model.Category, error) {
	args := m.Called(ctx, id, at)
	return args.Get(0).(model.Category), args.Error(1)
}

func (m *MockCategoryRepository) ActiveNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) FindActiveByNames(ctx context.Context, names []string) ([]model.Category, error) {
	args := m.Called(ctx, names)
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListActiveCategories(ctx context.Context, order model.CategoryOrder) ([]model.Category, error) {
	args := m.Called(ctx, order)
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListDeletedCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) CountTasksPerCategory(ctx context.Context) ([]model.CategoryTaskCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.CategoryTaskCount), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) GetUser(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

type MockTokenBlacklist struct {
	mock.Mock
}

func (m *MockTokenBlacklist) BlacklistToken(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	args := m.Called(ctx, jti, userID, expiresAt)
	return args.Error(0)
}

func (m *MockTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenBlacklist) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
