package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Badsnus/qrbatch/internal/domain/entity"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestBatchRunStorageCreate(t *testing.T) {
	db, mock := newMockDB(t)
	storage := NewBatchRunStorage(db)

	now := time.Now()
	run := &entity.BatchRun{
		ID:             "8b5c1a52-5f0b-4c38-9a55-0c4b0d6a4c11",
		Mode:           "sequential",
		Format:         "png",
		OutputFolder:   "output",
		GeneratedCount: 2,
		Files:          []string{"a.png", "b.png"},
		StartedAt:      now,
		FinishedAt:     now,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "batch_runs"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := storage.Create(context.Background(), run)
	require.NoError(t, err)
	assert.Equal(t, run.ID, created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRunStorageGetLatest(t *testing.T) {
	db, mock := newMockDB(t)
	storage := NewBatchRunStorage(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "mode", "format", "output_folder", "generated_count",
		"skipped_count", "archive_path", "files", "started_at", "finished_at"}).
		AddRow("id-2", "tabular", "svg", "out", 3, 1, "qr_codes_csv.svg.zip", "{a.svg,b.svg,c.svg}", now, now).
		AddRow("id-1", "sequential", "png", "out", 1, 0, "", "{qr.png}", now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "batch_runs" ORDER BY started_at desc LIMIT $1`)).
		WithArgs(2).
		WillReturnRows(rows)

	runs, err := storage.GetLatest(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "id-2", runs[0].ID)
	assert.Equal(t, 1, runs[0].SkippedCount)
	assert.Equal(t, []string{"a.svg", "b.svg", "c.svg"}, []string(runs[0].Files))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRunStorageCount(t *testing.T) {
	db, mock := newMockDB(t)
	storage := NewBatchRunStorage(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "batch_runs"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := storage.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRunStorageGet(t *testing.T) {
	db, mock := newMockDB(t)
	storage := NewBatchRunStorage(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "mode", "format", "output_folder", "generated_count",
		"skipped_count", "archive_path", "files", "started_at", "finished_at"}).
		AddRow("id-1", "sequential", "png", "out", 1, 0, "", "{qr.png}", now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "batch_runs" WHERE id = $1`)).
		WillReturnRows(rows)

	run, err := storage.Get(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", run.ID)
	assert.Equal(t, []string{"qr.png"}, []string(run.Files))
	assert.NoError(t, mock.ExpectationsWereMet())
}
