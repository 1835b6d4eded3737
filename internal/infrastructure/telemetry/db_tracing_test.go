package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: false}, zap.NewNop()))

	_, ok := db.Plugins["otelgorm"]
	assert.False(t, ok)
}

func TestRegisterDBTracing_Enabled(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, nil))
	assert.NotEmpty(t, db.Plugins)

	assert.NoError(t, db.WithContext(context.Background()).Create(&tracedRow{Name: "a"}).Error)
}

func TestTagRows(t *testing.T) {
	db := openTestDB(t)
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "insert")
	result := db.WithContext(ctx).Create(&[]tracedRow{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	require.NoError(t, result.Error)

	tagRows(result.Statement.DB)
	span.End()

	require.Len(t, sr.Ended(), 1)
	attrs := map[string]any{}
	for _, kv := range sr.Ended()[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, int64(3), attrs["db.rows_affected"])
	assert.Equal(t, "traced_rows", attrs["db.sql.table"])
}

func TestTagRows_RecordsErrors(t *testing.T) {
	db := openTestDB(t)
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "raw")
	result := db.WithContext(ctx).Exec("INSERT INTO missing_table VALUES (1)")
	require.Error(t, result.Error)

	tagRows(result.Statement.DB)
	span.End()

	assert.Equal(t, "Error", sr.Ended()[0].Status().Code.String())
}
