package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"portfolio/internal/observability"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQuery is the latency above which a statement is logged as slow.
const DefaultSlowQuery = 200 * time.Millisecond

// QueryLogger routes GORM output through slog. Statement text is logged,
// bound values never are.
type QueryLogger struct {
	log   *slog.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

// NewQueryLogger returns a logger for env. Development logs every
// statement; other environments log only failures and slow queries.
func NewQueryLogger(l *slog.Logger, env string) *QueryLogger {
	level := gormlogger.Warn
	if env == "development" {
		level = gormlogger.Info
	}
	return &QueryLogger{log: l, level: level, slow: DefaultSlowQuery}
}

// LogMode returns a copy at level.
func (q *QueryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *q
	clone.level = level
	return &clone
}

func (q *QueryLogger) Info(ctx context.Context, msg string, data ...any) {
	q.emit(ctx, gormlogger.Info, slog.LevelInfo, msg, data)
}

func (q *QueryLogger) Warn(ctx context.Context, msg string, data ...any) {
	q.emit(ctx, gormlogger.Warn, slog.LevelWarn, msg, data)
}

func (q *QueryLogger) Error(ctx context.Context, msg string, data ...any) {
	q.emit(ctx, gormlogger.Error, slog.LevelError, msg, data)
}

func (q *QueryLogger) emit(ctx context.Context, threshold gormlogger.LogLevel, level slog.Level, msg string, data []any) {
	if q.level < threshold {
		return
	}
	q.log.Log(ctx, level, fmt.Sprintf(msg, data...), slog.String("component", "gorm"))
}

// Trace reports a finished statement. Record-not-found is an expected
// lookup miss and is not treated as a failure.
func (q *QueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)

	switch {
	case failed && q.level >= gormlogger.Error:
		observability.DBQueryIssues.WithLabelValues("error").Inc()
		q.log.ErrorContext(ctx, "Database query failed", append(q.statement(fc, elapsed), slog.String("error", err.Error()))...)
	case q.slow > 0 && elapsed > q.slow && q.level >= gormlogger.Warn:
		observability.DBQueryIssues.WithLabelValues("slow").Inc()
		q.log.WarnContext(ctx, "Slow database query", q.statement(fc, elapsed)...)
	case q.level >= gormlogger.Info:
		q.log.DebugContext(ctx, "Database query", q.statement(fc, elapsed)...)
	}
}

func (q *QueryLogger) statement(fc func() (string, int64), elapsed time.Duration) []any {
	sql, rows := fc()
	return []any{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}
}
