package entity

import "time"

// PayloadRecord is one item produced by a payload source.
type PayloadRecord struct {
	// Index is 1-based and strictly increasing within a run.
	Index   int
	Payload string
	// SourceRow is the 1-based row in the input table, tabular mode only.
	SourceRow int
}

// BatchResult is the report of a finished run.
type BatchResult struct {
	RunID          string
	Mode           Mode
	OutputFolder   string
	GeneratedCount int
	SkippedCount   int
	Files          []string
	ArchivePath    string
	StartedAt      time.Time
	FinishedAt     time.Time
}
