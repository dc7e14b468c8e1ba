package database

import (
	"context"
	"errors"
	"time"

	"github.com/purchase-zero/backend/pkg/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// SlowQuery is the duration after which a query is logged as a warning.
const SlowQuery = 200 * time.Millisecond

// queryLogger writes the SQL traces of gorm to zerolog.
//
// Queries are logged at debug level, slow queries as warnings and failed
// queries as errors. Lookups that find nothing are not failures.
type queryLogger struct {
	log   zerolog.Logger
	level gorm_logger.LogLevel
}

func newQueryLogger(l zerolog.Logger) *queryLogger {
	return &queryLogger{
		log:   l.With().Str("component", "gorm").Logger(),
		level: gorm_logger.Info,
	}
}

func (l *queryLogger) LogMode(level gorm_logger.LogLevel) gorm_logger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *queryLogger) Info(_ context.Context, s string, args ...any) {
	if l.level >= gorm_logger.Info {
		l.log.Info().Msgf(s, args...)
	}
}

func (l *queryLogger) Warn(_ context.Context, s string, args ...any) {
	if l.level >= gorm_logger.Warn {
		l.log.Warn().Msgf(s, args...)
	}
}

func (l *queryLogger) Error(_ context.Context, s string, args ...any) {
	if l.level >= gorm_logger.Error {
		l.log.Error().Msgf(s, args...)
	}
}

func (l *queryLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gorm_logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	var event *zerolog.Event
	switch {
	case err != nil && !notFound(err):
		event = l.log.Error().Err(err)
	case elapsed > SlowQuery && l.level >= gorm_logger.Warn:
		event = l.log.Warn().Bool("slow", true)
	case l.level >= gorm_logger.Info:
		event = l.log.Debug()
	default:
		return
	}

	event.Str("sql", sql).Int64("rows", rows).Dur("duration", elapsed).Msg("query")
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, models.ErrResourceNotFound)
}
