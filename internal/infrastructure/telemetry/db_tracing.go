package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls span generation for ledger queries.
type DBTracingConfig struct {
	Enabled          bool
	LogFullSQL       bool          // include full SQL in spans, dev only
	SlowQueryThresh  time.Duration // mark spans above this elapsed time
	DBSystem         string        // db.system attribute, e.g. "postgresql"
	WithoutVariables bool          // strip bind variables from recorded SQL
}

// DBTracingPlugin wires otelgorm into the ledger database and layers slow
// statement detection on top. Lot scans under FindForUpdate are the queries
// most likely to cross the threshold, so spans carry enough attributes to
// identify the table involved.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates the tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh == 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// RegisterOtelGorm installs otelgorm plus the timing callbacks on db.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

// registerTimingCallbacks brackets every gorm operation with a start
// timestamp and a span-enrichment pass.
func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	before := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
		}
	}

	cb := db.Callback()
	return firstErr(
		cb.Create().Before("gorm:create").Register("ledger_trace:before_create", before),
		cb.Query().Before("gorm:query").Register("ledger_trace:before_query", before),
		cb.Update().Before("gorm:update").Register("ledger_trace:before_update", before),
		cb.Delete().Before("gorm:delete").Register("ledger_trace:before_delete", before),
		cb.Row().Before("gorm:row").Register("ledger_trace:before_row", before),
		cb.Raw().Before("gorm:raw").Register("ledger_trace:before_raw", before),

		cb.Create().After("gorm:create").Register("ledger_trace:after_create", p.enrichSpan),
		cb.Query().After("gorm:query").Register("ledger_trace:after_query", p.enrichSpan),
		cb.Update().After("gorm:update").Register("ledger_trace:after_update", p.enrichSpan),
		cb.Delete().After("gorm:delete").Register("ledger_trace:after_delete", p.enrichSpan),
		cb.Row().After("gorm:row").Register("ledger_trace:after_row", p.enrichSpan),
		cb.Raw().After("gorm:raw").Register("ledger_trace:after_raw", p.enrichSpan),
	)
}

// enrichSpan adds row counts and table names to the otelgorm span, marks
// errors, and flags statements that exceeded the slow query threshold.
func (p *DBTracingPlugin) enrichSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if start, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}

type contextKey string

const queryStartTimeKey contextKey = "ledger_query_start_time"

// firstErr returns the first non-nil error from a callback registration run.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
