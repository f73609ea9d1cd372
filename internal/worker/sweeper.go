package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub-api/internal/repo"
)

// Sweeper periodically drops blacklist entries whose refresh tokens have
// expired on their own.
type Sweeper struct {
	blacklist repo.TokenBlacklist
	logger    *zap.Logger
	interval  time.Duration
	cron      *cron.Cron
	now       func() time.Time

	mu      sync.Mutex
	started bool
}

func NewSweeper(blacklist repo.TokenBlacklist, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		blacklist: blacklist,
		logger:    logger,
		interval:  interval,
		cron:      cron.New(cron.WithLocation(time.UTC)),
		now:       time.Now,
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if s.interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", s.interval)
	}

	_, err := s.cron.AddFunc("@every "+s.interval.String(), func() {
		// один проход не должен висеть дольше интервала
		runCtx, cancel := context.WithTimeout(ctx, s.interval)
		defer cancel()
		if _, err := s.Sweep(runCtx); err != nil {
			s.logger.Error("blacklist sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.logger.Info("Starting blacklist sweeper", zap.Duration("interval", s.interval))
	s.cron.Start()
	s.started = true
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}

	s.logger.Info("Stopping blacklist sweeper...")
	<-s.cron.Stop().Done()
	s.started = false
	s.logger.Info("Blacklist sweeper stopped")
}

// Sweep removes expired entries once and reports how many were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.blacklist.PurgeExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Purged expired blacklist entries", zap.Int64("count", n))
	}
	return n, nil
}
