package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Badsnus/qrbatch/internal/domain/entity"
)

type memoryRuns struct {
	runs []entity.BatchRun
}

func (m *memoryRuns) Create(_ context.Context, run *entity.BatchRun) (*entity.BatchRun, error) {
	m.runs = append(m.runs, *run)
	return run, nil
}

func (m *memoryRuns) GetLatest(_ context.Context, limit int) ([]entity.BatchRun, error) {
	if limit > len(m.runs) {
		limit = len(m.runs)
	}
	return m.runs[:limit], nil
}

func (m *memoryRuns) Get(_ context.Context, id string) (*entity.BatchRun, error) {
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *memoryRuns) Count(context.Context) (int64, error) {
	return int64(len(m.runs)), nil
}

func TestHistoryRecord(t *testing.T) {
	storage := &memoryRuns{}
	svc := NewHistoryService(storage)

	now := time.Now()
	result := &entity.BatchResult{
		RunID:          "run-1",
		Mode:           entity.ModeTabular,
		OutputFolder:   "out",
		GeneratedCount: 2,
		SkippedCount:   1,
		Files:          []string{"out/a.svg", "out/b.svg"},
		StartedAt:      now,
		FinishedAt:     now.Add(time.Second),
	}

	run, err := svc.Record(context.Background(), result, entity.FormatVector)
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "tabular", run.Mode)
	assert.Equal(t, "svg", run.Format)
	assert.Equal(t, []string{"out/a.svg", "out/b.svg"}, []string(run.Files))

	runs, err := svc.GetLatest(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	got, err := svc.Get(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.GeneratedCount)
	_, err = svc.Get(context.Background(), "missing")
	assert.Error(t, err)

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
