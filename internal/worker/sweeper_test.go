package worker

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub-api/internal/repo/sqlite"
)

func TestSweeper_Sweep(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "sweep.db"), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.BlacklistToken(ctx, "expired", 1, now.Add(-time.Minute)))
	require.NoError(t, store.BlacklistToken(ctx, "live", 1, now.Add(time.Hour)))

	s := NewSweeper(store, time.Hour, zap.NewNop())
	s.now = func() time.Time { return now }

	n, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	gone, err := store.IsBlacklisted(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, gone)

	kept, err := store.IsBlacklisted(ctx, "live")
	require.NoError(t, err)
	assert.True(t, kept, "unexpired tokens must stay revoked")

	n, err = s.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

type countingBlacklist struct {
	calls atomic.Int32
	err   error
}

func (c *countingBlacklist) BlacklistToken(context.Context, string, int64, time.Time) error {
	return nil
}

func (c *countingBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, nil
}

func (c *countingBlacklist) PurgeExpired(context.Context, time.Time) (int64, error) {
	c.calls.Add(1)
	return 0, c.err
}

func TestSweeper_RunsOnSchedule(t *testing.T) {
	bl := &countingBlacklist{err: errors.New("db is gone")}
	s := NewSweeper(bl, time.Second, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()), "second start is a no-op")

	assert.Eventually(t, func() bool { return bl.calls.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)

	s.Stop()
	s.Stop()
	calls := bl.calls.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, calls, bl.calls.Load(), "no sweeps after stop")
}

func TestSweeper_BadInterval(t *testing.T) {
	s := NewSweeper(&countingBlacklist{}, 0, zap.NewNop())
	assert.Error(t, s.Start(context.Background()))
}
