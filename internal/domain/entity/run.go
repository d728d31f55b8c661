package entity

import (
	"time"

	"github.com/lib/pq"
)

// BatchRun is the persisted summary of one finished batch.
type BatchRun struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	Mode           string `gorm:"not null"`
	Format         string `gorm:"not null"`
	OutputFolder   string `gorm:"not null"`
	GeneratedCount int
	SkippedCount   int
	ArchivePath    string
	Files          pq.StringArray `gorm:"type:text[]"`
	StartedAt      time.Time      `gorm:"not null"`
	FinishedAt     time.Time      `gorm:"not null"`
}

// NewBatchRun converts a result into its persisted form.
func NewBatchRun(result *BatchResult, format Format) *BatchRun {
	return &BatchRun{
		ID:             result.RunID,
		Mode:           string(result.Mode),
		Format:         string(format),
		OutputFolder:   result.OutputFolder,
		GeneratedCount: result.GeneratedCount,
		SkippedCount:   result.SkippedCount,
		ArchivePath:    result.ArchivePath,
		Files:          pq.StringArray(result.Files),
		StartedAt:      result.StartedAt,
		FinishedAt:     result.FinishedAt,
	}
}
