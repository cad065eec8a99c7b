package telemetry

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Attribute keys shared by the database instruments.
var (
	attrDBOperation = attribute.Key("db.operation")
	attrDBTable     = attribute.Key("db.table")
	attrDBState     = attribute.Key("db.pool.state")
)

// dbDurationBuckets are the latency buckets for ledger queries. Single-row
// lookups land in the low milliseconds; lot scans and reports fill the tail.
var dbDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// DBMetricsConfig controls database metrics collection.
type DBMetricsConfig struct {
	Enabled            bool
	SlowQueryThreshold time.Duration
	PoolStatsInterval  time.Duration
}

// DefaultDBMetricsConfig returns the standard collection settings. The slow
// query threshold matches the tracing plugin so dashboards agree on what
// counts as slow.
func DefaultDBMetricsConfig() DBMetricsConfig {
	return DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: 200 * time.Millisecond,
		PoolStatsInterval:  15 * time.Second,
	}
}

// DBMetrics records query counts, latency and connection pool state for the
// ledger database.
type DBMetrics struct {
	poolConnections    metric.Int64Gauge       // db_pool_connections, by state
	poolConnectionsMax metric.Int64Gauge       // db_pool_connections_max
	queryTotal         metric.Int64Counter     // db_query_total, by operation
	queryDuration      metric.Float64Histogram // db_query_duration_seconds
	slowQueryTotal     metric.Int64Counter     // db_slow_query_total, by table

	config DBMetricsConfig
	logger *zap.Logger
	sqlDB  *sql.DB

	stopCh   chan struct{}
	wg       sync.WaitGroup
	mu       sync.RWMutex
	stopOnce sync.Once
}

// NewDBMetrics creates the instrument set on the given meter.
func NewDBMetrics(meter metric.Meter, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold == 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	if cfg.PoolStatsInterval == 0 {
		cfg.PoolStatsInterval = 15 * time.Second
	}

	m := &DBMetrics{
		config: cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	var err error
	if m.poolConnections, err = meter.Int64Gauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connection}")); err != nil {
		return nil, err
	}
	if m.poolConnectionsMax, err = meter.Int64Gauge("db_pool_connections_max",
		metric.WithDescription("Maximum open connections"),
		metric.WithUnit("{connection}")); err != nil {
		return nil, err
	}
	if m.queryTotal, err = meter.Int64Counter("db_query_total",
		metric.WithDescription("Database queries by operation type"),
		metric.WithUnit("{query}")); err != nil {
		return nil, err
	}
	if m.queryDuration, err = meter.Float64Histogram("db_query_duration_seconds",
		metric.WithDescription("Database query latency distribution"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(dbDurationBuckets...)); err != nil {
		return nil, err
	}
	if m.slowQueryTotal, err = meter.Int64Counter("db_slow_query_total",
		metric.WithDescription("Queries above the slow query threshold"),
		metric.WithUnit("{query}")); err != nil {
		return nil, err
	}

	return m, nil
}

// SetSQLDB provides the sql.DB handle used for pool stats. Must be called
// before StartPoolStatsCollection.
func (m *DBMetrics) SetSQLDB(sqlDB *sql.DB) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sqlDB = sqlDB
}

// StartPoolStatsCollection samples pool statistics on a fixed interval until
// Stop is called or ctx is cancelled.
func (m *DBMetrics) StartPoolStatsCollection(ctx context.Context) {
	m.mu.RLock()
	sqlDB := m.sqlDB
	m.mu.RUnlock()
	if sqlDB == nil {
		m.logger.Warn("pool stats collection needs SetSQLDB first")
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(m.config.PoolStatsInterval)
		defer ticker.Stop()

		m.collectPoolStats(ctx)
		for {
			select {
			case <-ticker.C:
				m.collectPoolStats(ctx)
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	m.logger.Info("database pool stats collection started",
		zap.Duration("interval", m.config.PoolStatsInterval),
	)
}

func (m *DBMetrics) collectPoolStats(ctx context.Context) {
	m.mu.RLock()
	sqlDB := m.sqlDB
	m.mu.RUnlock()
	if sqlDB == nil {
		return
	}

	stats := sqlDB.Stats()
	m.poolConnectionsMax.Record(ctx, int64(stats.MaxOpenConnections))
	for state, n := range map[string]int{
		"idle":   stats.Idle,
		"in_use": stats.InUse,
		"open":   stats.OpenConnections,
	} {
		m.poolConnections.Record(ctx, int64(n),
			metric.WithAttributes(attrDBState.String(state)))
	}
}

// Stop terminates the pool stats goroutine. Safe to call more than once.
func (m *DBMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		m.wg.Wait()
	})
}

// RecordQuery records one completed query.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration) {
	operation = strings.ToUpper(operation)
	if operation == "" {
		operation = "UNKNOWN"
	}

	byOp := metric.WithAttributes(attrDBOperation.String(operation))
	m.queryTotal.Add(ctx, 1, byOp)
	m.queryDuration.Record(ctx, duration.Seconds(), byOp)

	if duration > m.config.SlowQueryThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slowQueryTotal.Add(ctx, 1, metric.WithAttributes(attrDBTable.String(table)))
	}
}

// dbMetricsPlugin is the gorm plugin that feeds DBMetrics from query
// callbacks.
type dbMetricsPlugin struct {
	metrics *DBMetrics
}

func (p *dbMetricsPlugin) Name() string { return "db_metrics" }

func (p *dbMetricsPlugin) Initialize(db *gorm.DB) error {
	before := func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		db.Statement.Context = context.WithValue(ctx, dbMetricsStartTimeKey, time.Now())
	}

	cb := db.Callback()
	return firstErr(
		cb.Create().Before("gorm:create").Register("db_metrics:before_create", before),
		cb.Query().Before("gorm:query").Register("db_metrics:before_query", before),
		cb.Update().Before("gorm:update").Register("db_metrics:before_update", before),
		cb.Delete().Before("gorm:delete").Register("db_metrics:before_delete", before),
		cb.Row().Before("gorm:row").Register("db_metrics:before_row", before),
		cb.Raw().Before("gorm:raw").Register("db_metrics:before_raw", before),

		cb.Create().After("gorm:create").Register("db_metrics:after_create", p.record("INSERT")),
		cb.Query().After("gorm:query").Register("db_metrics:after_query", p.record("SELECT")),
		cb.Update().After("gorm:update").Register("db_metrics:after_update", p.record("UPDATE")),
		cb.Delete().After("gorm:delete").Register("db_metrics:after_delete", p.record("DELETE")),
		cb.Row().After("gorm:row").Register("db_metrics:after_row", p.record("")),
		cb.Raw().After("gorm:raw").Register("db_metrics:after_raw", p.record("")),
	)
}

// record builds an after-callback for one operation type. An empty operation
// means detect it from the SQL text (Row and Raw statements).
func (p *dbMetricsPlugin) record(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		op := operation
		if op == "" {
			op = detectOperationType(db.Statement.SQL.String())
		}

		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		var duration time.Duration
		if start, ok := ctx.Value(dbMetricsStartTimeKey).(time.Time); ok {
			duration = time.Since(start)
		}

		p.metrics.RecordQuery(ctx, op, db.Statement.Table, duration)
	}
}

// detectOperationType classifies a raw SQL statement.
func detectOperationType(sql string) string {
	sql = strings.TrimSpace(strings.ToUpper(sql))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	return "OTHER"
}

type dbMetricsContextKey string

const dbMetricsStartTimeKey dbMetricsContextKey = "db_metrics_start_time"

// RegisterDBMetrics creates the instruments and installs the gorm plugin.
// The returned DBMetrics owns the pool stats goroutine; call Stop on
// shutdown. Returns nil without error when collection is disabled.
func RegisterDBMetrics(db *gorm.DB, meterProvider *MeterProvider, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if !cfg.Enabled {
		logger.Debug("database metrics disabled")
		return nil, nil
	}
	if meterProvider == nil || !meterProvider.IsEnabled() {
		logger.Debug("meter provider unavailable, skipping database metrics")
		return nil, nil
	}

	metrics, err := NewDBMetrics(meterProvider.Meter("db.client"), cfg, logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	metrics.SetSQLDB(sqlDB)

	if err := db.Use(&dbMetricsPlugin{metrics: metrics}); err != nil {
		return nil, err
	}

	logger.Info("database metrics registered",
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
		zap.Duration("pool_stats_interval", cfg.PoolStatsInterval),
	)
	return metrics, nil
}
