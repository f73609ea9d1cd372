// Package testutil поднимает PostgreSQL для интеграционных тестов.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/internal/repo"
)

// SetupTestDB создает тестовую БД с помощью testcontainers и применяет схему.
// The test is skipped in -short mode or when no container runtime is available.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Errorf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}
	if err := repo.Migrate(ctx, pool); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	return pool
}

// TruncateTables очищает все таблицы
func TruncateTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE subtasks, task_categories, tasks, categories, token_blacklist, users
		RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// SeedUser создает пользователя с фиктивным хешем пароля
func SeedUser(t *testing.T, store repo.UserRepository, username string) model.User {
	t.Helper()

	u, err := store.CreateUser(context.Background(), model.User{Username: username, PasswordHash: "x"})
	if err != nil {
		t.Fatalf("Failed to seed user %q: %v", username, err)
	}
	return u
}

// SeedTasks создает count задач владельца с возрастающим created_at, начиная со start.
func SeedTasks(t *testing.T, store repo.TaskRepository, owner model.User, start time.Time, count int) []model.Task {
	t.Helper()
	ctx := context.Background()

	tasks := make([]model.Task, 0, count)
	for i := 0; i < count; i++ {
		task, err := store.CreateTask(ctx, model.Task{
			Title:     "Task " + string(rune('A'+i%26)),
			Status:    model.StatusNew,
			CreatedAt: start.Add(time.Duration(i) * time.Second),
			OwnerID:   owner.ID,
		})
		if err != nil {
			t.Fatalf("Failed to seed task: %v", err)
		}
		tasks = append(tasks, task)
	}
	return tasks
}
