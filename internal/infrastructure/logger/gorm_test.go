package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func lotQuery() (string, int64) {
	return "SELECT * FROM lots WHERE product = 'cashew' AND remaining_quantity > 0", 2
}

func TestNewGormLoggerDefaults(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Warn)

	assert.Equal(t, gormlogger.Warn, gl.level)
	assert.Equal(t, 200*time.Millisecond, gl.slowThreshold)
	assert.True(t, gl.ignoreNotFound)
}

func TestNewGormLoggerOptions(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info,
		WithSlowThreshold(time.Second),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, time.Second, gl.slowThreshold)
	assert.False(t, gl.ignoreNotFound)
}

func TestLogModeReturnsClone(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Warn)
	silent := gl.LogMode(gormlogger.Silent)

	assert.Equal(t, gormlogger.Silent, silent.(*GormLogger).level)
	assert.Equal(t, gormlogger.Warn, gl.level)
}

func TestTraceErrorLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), lotQuery, errors.New("connection reset"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "sql error", entry.Message)
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Contains(t, entry.ContextMap()["sql"], "FROM lots")
}

func TestTraceNotFoundIgnored(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), lotQuery, gormlogger.ErrRecordNotFound)

	assert.Equal(t, 0, logs.Len())
}

func TestTraceSlowStatementWarned(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(50*time.Millisecond))

	gl.Trace(context.Background(), time.Now().Add(-300*time.Millisecond), lotQuery, nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "slow sql", entry.Message)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
}

func TestTraceSilentLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), lotQuery, errors.New("ignored"))

	assert.Equal(t, 0, logs.Len())
}

func TestTraceCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info)

	ctx := ContextWithRequestID(context.Background(), "req-7")
	gl.Trace(ctx, time.Now(), lotQuery, nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-7", logs.All()[0].ContextMap()["request_id"])
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapGormLogLevel(tt.input), "level %q", tt.input)
	}
}
