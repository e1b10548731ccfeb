package repository

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = time.Second

// gormLogger sends gorm's log through logrus at matching levels. Failed
// statements are errors, slow ones warnings and the rest debug.
type gormLogger struct {
	out   *log.Logger
	level logger.LogLevel
	slow  time.Duration
}

func newGormLogger(out *log.Logger) logger.Interface {
	level := logger.Warn
	if out.IsLevelEnabled(log.DebugLevel) {
		level = logger.Info
	}
	return &gormLogger{out: out, level: level, slow: slowQueryThreshold}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		l.out.WithContext(ctx).Infof(msg, args...)
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		l.out.WithContext(ctx).Warnf(msg, args...)
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		l.out.WithContext(ctx).Errorf(msg, args...)
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	entry := func() *log.Entry {
		sql, rows := fc()
		return l.out.WithContext(ctx).WithFields(log.Fields{
			"sql":     sql,
			"rows":    rows,
			"elapsed": elapsed.String(),
		})
	}

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		entry().WithError(err).Error("sql failed")
	case l.slow > 0 && elapsed > l.slow && l.level >= logger.Warn:
		entry().Warn("slow sql")
	case l.level >= logger.Info:
		entry().Debug("sql")
	}
}
