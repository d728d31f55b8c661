package postgres

import (
	"context"

	"github.com/Badsnus/qrbatch/internal/domain/entity"
	"gorm.io/gorm"
)

type BatchRunStorage struct {
	db *gorm.DB
}

func NewBatchRunStorage(db *gorm.DB) *BatchRunStorage {
	return &BatchRunStorage{
		db: db,
	}
}

func (s *BatchRunStorage) Create(ctx context.Context, run *entity.BatchRun) (*entity.BatchRun, error) {
	err := s.db.WithContext(ctx).Create(run).Error
	return run, err
}

func (s *BatchRunStorage) Get(ctx context.Context, id string) (*entity.BatchRun, error) {
	var run entity.BatchRun
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	return &run, err
}

// GetLatest returns up to limit runs, newest first.
func (s *BatchRunStorage) GetLatest(ctx context.Context, limit int) ([]entity.BatchRun, error) {
	var runs []entity.BatchRun
	err := s.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&runs).Error
	return runs, err
}

func (s *BatchRunStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.BatchRun{}).Count(&count).Error
	return count, err
}
