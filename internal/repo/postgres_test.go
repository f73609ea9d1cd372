package repo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
	"github.com/BuzzLyutic/taskhub-api/internal/pagination"
	"github.com/BuzzLyutic/taskhub-api/internal/repo"
	"github.com/BuzzLyutic/taskhub-api/internal/testutil"
)

func setupRepo(t *testing.T) *repo.PostgresRepo {
	pool := testutil.SetupTestDB(t)
	testutil.TruncateTables(t, pool)
	return repo.NewPostgresRepo(pool)
}

func TestPostgres_CategorySoftDelete(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	c, err := r.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	_, err = r.CreateCategory(ctx, "Work")
	assert.ErrorIs(t, err, repo.ErrorConflict)

	first := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err = r.SoftDeleteCategory(ctx, c.ID, first)
	require.NoError(t, err)
	again, err := r.SoftDeleteCategory(ctx, c.ID, first.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, first.Add(time.Hour).Equal(*again.DeletedAt))

	_, err = r.GetActiveCategory(ctx, c.ID)
	assert.ErrorIs(t, err, repo.ErrorNotFound)

	_, err = r.CreateCategory(ctx, "Work")
	assert.NoError(t, err, "name of a deleted category is free again")

	deleted, err := r.ListDeletedCategories(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, c.ID, deleted[0].ID)
}

func TestPostgres_TaskLifecycle(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	alice := testutil.SeedUser(t, r, "alice")
	bob := testutil.SeedUser(t, r, "bob")

	cat, err := r.CreateCategory(ctx, "Home")
	require.NoError(t, err)

	monday := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	task, err := r.CreateTask(ctx, model.Task{
		Title:       "Buy 100% juice",
		Status:      model.StatusNew,
		Deadline:    &monday,
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		OwnerID:     alice.ID,
		CategoryIDs: []int64{cat.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", task.Owner)
	assert.Equal(t, []string{"Home"}, task.Categories)

	wd := time.Monday
	got, err := r.ListTasks(ctx, model.TaskFilter{OwnerID: alice.ID, Weekday: &wd, Search: "100%"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = r.ListTasks(ctx, model.TaskFilter{Deadline: &monday})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = r.CreateSubTask(ctx, model.SubTask{
		Title: "Go to store", TaskID: task.ID, Status: model.StatusNew, CreatedAt: task.CreatedAt, OwnerID: alice.ID,
	})
	require.NoError(t, err)

	task.Title = "hijack"
	task.OwnerID = bob.ID
	_, err = r.UpdateTask(ctx, task)
	assert.ErrorIs(t, err, repo.ErrorNotFound)
	assert.ErrorIs(t, r.DeleteTask(ctx, task.ID, bob.ID), repo.ErrorNotFound)

	require.NoError(t, r.DeleteTask(ctx, task.ID, alice.ID))
	subtasks, err := r.ListSubTasksOfTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, subtasks)
}

func TestPostgres_KeysetPages(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	alice := testutil.SeedUser(t, r, "alice")
	seeded := testutil.SeedTasks(t, r, alice, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 5)

	f := model.TaskFilter{OwnerID: alice.ID, Ascending: true, Limit: 3}
	var seen []int64
	for {
		rows, err := r.ListTasks(ctx, f)
		require.NoError(t, err)
		page := pagination.Build(rows, 2, f.Cursor, func(t model.Task) (time.Time, int64) { return t.CreatedAt, t.ID })
		for _, task := range page.Results {
			seen = append(seen, task.ID)
		}
		if page.Next == nil {
			break
		}
		f.Cursor, err = pagination.Decode(*page.Next)
		require.NoError(t, err)
	}

	require.Len(t, seen, len(seeded))
	for i, task := range seeded {
		assert.Equal(t, task.ID, seen[i])
	}
}

func TestPostgres_TaskStats(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	alice := testutil.SeedUser(t, r, "alice")
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	for _, st := range []model.Status{model.StatusNew, model.StatusDone, model.StatusPending} {
		_, err := r.CreateTask(ctx, model.Task{Title: "t", Status: st, Deadline: &past, CreatedAt: past, OwnerID: alice.ID})
		require.NoError(t, err)
	}

	stats, err := r.TaskStats(ctx, alice.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTasks)
	assert.Equal(t, 2, stats.OverdueTasks)
	assert.Equal(t, 1, stats.StatusCounts[model.StatusDone])
}

func TestConcurrent_CategoryNames(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	const goroutines = 10
	var wg sync.WaitGroup
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = r.CreateCategory(ctx, "Shared")
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, repo.ErrorConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created, "only one active category per name")
}

func TestPostgres_TokenBlacklist(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	alice := testutil.SeedUser(t, r, "alice")
	now := time.Now().UTC()

	require.NoError(t, r.BlacklistToken(ctx, "jti-1", alice.ID, now.Add(-time.Minute)))
	assert.ErrorIs(t, r.BlacklistToken(ctx, "jti-1", alice.ID, now), repo.ErrorConflict)

	n, err := r.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ok, err := r.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
