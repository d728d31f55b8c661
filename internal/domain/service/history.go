package service

import (
	"context"

	"github.com/Badsnus/qrbatch/internal/domain/entity"
)

type BatchRunStorage interface {
	Create(ctx context.Context, run *entity.BatchRun) (*entity.BatchRun, error)
	Get(ctx context.Context, id string) (*entity.BatchRun, error)
	GetLatest(ctx context.Context, limit int) ([]entity.BatchRun, error)
	Count(ctx context.Context) (int64, error)
}

type HistoryService struct {
	runStorage BatchRunStorage
}

func NewHistoryService(storage BatchRunStorage) *HistoryService {
	return &HistoryService{
		runStorage: storage,
	}
}

func (s *HistoryService) Record(ctx context.Context, result *entity.BatchResult, format entity.Format) (*entity.BatchRun, error) {
	return s.runStorage.Create(ctx, entity.NewBatchRun(result, format))
}

func (s *HistoryService) Get(ctx context.Context, id string) (*entity.BatchRun, error) {
	return s.runStorage.Get(ctx, id)
}

func (s *HistoryService) Count(ctx context.Context) (int64, error) {
	return s.runStorage.Count(ctx)
}

func (s *HistoryService) GetLatest(ctx context.Context, limit int) ([]entity.BatchRun, error) {
	return s.runStorage.GetLatest(ctx, limit)
}
