// Package gormlog adapts the application logger to gorm's logger.Interface.
package gormlog

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/praxisware/tpflow/internal/components/logging"
)

type gormLogger struct {
	logLevel      logger.LogLevel
	slowThreshold time.Duration
}

// New builds a gorm logger from a textual level (silent|error|warn|info|debug)
// and a slow-query threshold. Zero threshold defaults to 200ms.
func New(level string, slowThreshold time.Duration) logger.Interface {
	lvl := logger.Info
	switch strings.ToLower(level) {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "warn", "warning":
		lvl = logger.Warn
	case "info", "debug", "":
		lvl = logger.Info
	}
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	return &gormLogger{logLevel: lvl, slowThreshold: slowThreshold}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	nl := *l
	nl.logLevel = level
	return &nl
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Info {
		logging.Infof(ctx, "[gorm] "+msg, data...)
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Warn {
		logging.Warnf(ctx, "[gorm] "+msg, data...)
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Error {
		logging.Errorf(ctx, "[gorm] "+msg, data...)
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sqlStr, rows := fc()
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.logLevel >= logger.Error {
		logging.Errorf(ctx, "[gorm] error elapsed=%s rows=%d sql=%s err=%v", elapsed, rows, sqlStr, err)
		return
	}
	if l.slowThreshold > 0 && elapsed > l.slowThreshold && l.logLevel >= logger.Warn {
		logging.Warnf(ctx, "[gorm] slow elapsed=%s threshold=%s rows=%d sql=%s", elapsed, l.slowThreshold, rows, sqlStr)
		return
	}
	if l.logLevel >= logger.Info {
		logging.Debugf(ctx, "[gorm] elapsed=%s rows=%d sql=%s", elapsed, rows, sqlStr)
	}
}
