package sqlite

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// zapWriter sends gorm's formatted traces into the process zap logger.
type zapWriter struct {
	log *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...any) {
	w.log.Warnf(format, args...)
}

// newGormLogger reports slow queries and errors only; not-found is an expected outcome.
func newGormLogger(l *zap.Logger) logger.Interface {
	if l == nil {
		l = zap.NewNop()
	}
	return logger.New(
		zapWriter{log: l.Named("gorm").Sugar()},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
