package persistence

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/infrastructure/config"
	"github.com/logiport/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

// newTestDB opens an in-memory sqlite database with every table migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestNewDatabase_SQLiteFile(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlite", Path: t.TempDir() + "/docgen.db"}

	db, err := NewDatabase(cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.AutoMigrate())
	assert.NoError(t, db.Ping())

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestGormDocGroupRepository_MaxSeqPostgres(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(seq\), 0\) FROM "doc_groups" WHERE year = \$1 AND month = \$2`).
		WithArgs(2026, 10).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(7))

	repo := NewGormDocGroupRepository(db.DB)
	seq, err := repo.MaxSeq(t.Context(), 2026, 10)
	require.NoError(t, err)
	assert.Equal(t, 7, seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslateError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, translateError(nil))
	})

	t.Run("record not found maps to ErrNotFound", func(t *testing.T) {
		assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), shared.ErrNotFound)
	})

	t.Run("duplicated key maps to ErrAlreadyExists", func(t *testing.T) {
		assert.ErrorIs(t, translateError(gorm.ErrDuplicatedKey), shared.ErrAlreadyExists)
	})

	t.Run("driver messages are recognised", func(t *testing.T) {
		err := translateError(errors.New(`pq: duplicate key value violates unique constraint "uq_doc_groups_period_seq"`))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		err = translateError(errors.New("UNIQUE constraint failed: doc_groups.year, doc_groups.month, doc_groups.seq"))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		assert.Equal(t, boom, translateError(boom))
	})
}
