package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Badsnus/qrbatch/internal/domain/common/errorz"
	"github.com/Badsnus/qrbatch/internal/domain/entity"
	"github.com/Badsnus/qrbatch/internal/domain/payload"
	"github.com/Badsnus/qrbatch/internal/domain/utils/filename"
	"github.com/Badsnus/qrbatch/pkg/colorizer"
	"github.com/Badsnus/qrbatch/pkg/metrics"
	qr "github.com/Badsnus/qrbatch/pkg/qrcode"
)

// ProgressFunc receives the number of finished items, the total and a status line.
type ProgressFunc func(done, total int, message string)

type imageRenderer interface {
	Render(payload string) (qr.Image, error)
}

type artifactColorizer interface {
	Apply(path string) colorizer.Outcome
}

// BatchService runs one generation batch at a time, strictly sequentially.
type BatchService struct {
	log         *zap.SugaredLogger
	newRenderer func(opts qr.Options) (imageRenderer, error)
}

func NewBatchService(log *zap.SugaredLogger) *BatchService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &BatchService{
		log: log,
		newRenderer: func(opts qr.Options) (imageRenderer, error) {
			return qr.NewRenderer(opts)
		},
	}
}

// Run generates one artifact per payload into outputFolder. A skipped tabular
// row is counted and the batch continues; an encoder failure aborts the batch
// with *errorz.EncoderError. A tabular run without a single payload fails with
// errorz.ErrNoPayloads. On error the partial result is returned as well,
// files already written are left on disk.
func (s *BatchService) Run(ctx context.Context, job *entity.BatchJob, outputFolder string, progress ProgressFunc) (*entity.BatchResult, error) {
	if progress == nil {
		progress = func(int, int, string) {}
	}

	source, err := payload.New(job.Request)
	if err != nil {
		return nil, err
	}
	renderer, err := s.newRenderer(RenderOptions(job))
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}
	if err = os.MkdirAll(outputFolder, 0o755); err != nil {
		return nil, fmt.Errorf("create output folder: %w", err)
	}

	var paint artifactColorizer
	if job.Output.Format == entity.FormatVector {
		paint = colorizer.New(job.Colors.Foreground, job.Colors.Background, job.Output.VectorPrecision, s.log.Named("colorizer"))
	}

	result := &entity.BatchResult{
		RunID:        uuid.New().String(),
		Mode:         job.Request.Mode(),
		OutputFolder: outputFolder,
		StartedAt:    time.Now(),
	}
	log := s.log.With("run", result.RunID)
	total := source.Len()
	log.Infow("batch started", "mode", result.Mode, "items", total, "format", job.Output.Format)

	for done := 0; ; done++ {
		if err = ctx.Err(); err != nil {
			result.FinishedAt = time.Now()
			return result, err
		}
		event, ok := source.Next()
		if !ok {
			break
		}
		progress(done, total, progressMessage(result.Mode, done+1, total))

		if event.Skipped {
			result.SkippedCount++
			metrics.RowsSkipped.Inc()
			log.Warnw("row skipped, column out of range", "row", event.Row)
			continue
		}

		path, err := s.generate(renderer, paint, job, event.Record, outputFolder)
		if err != nil {
			result.FinishedAt = time.Now()
			return result, err
		}
		result.Files = append(result.Files, path)
		result.GeneratedCount++
		log.Debugw("generated", "index", event.Record.Index, "file", path)
	}

	result.FinishedAt = time.Now()
	if result.Mode == entity.ModeTabular && result.GeneratedCount == 0 {
		log.Warnw("no payloads in the selected column", "skipped", result.SkippedCount)
		return result, fmt.Errorf("%w: %d rows skipped", errorz.ErrNoPayloads, result.SkippedCount)
	}
	progress(total, total, completionMessage(result.Mode))
	log.Infow("batch finished",
		"generated", result.GeneratedCount,
		"skipped", result.SkippedCount,
		"elapsed", result.FinishedAt.Sub(result.StartedAt),
	)
	return result, nil
}

func (s *BatchService) generate(renderer imageRenderer, paint artifactColorizer, job *entity.BatchJob, record entity.PayloadRecord, outputFolder string) (string, error) {
	format := job.Output.Format
	name := filename.Synthesize(record.Payload, job.Output.FilenamePrefix, job.Output.FilenameSuffix,
		job.Output.UsePayloadAsFilename, record.Index)
	path := filepath.Join(outputFolder, name+"."+format.Extension())

	start := time.Now()
	img, err := renderer.Render(record.Payload)
	if err != nil {
		return "", &errorz.EncoderError{Index: record.Index, Payload: record.Payload, Err: err}
	}
	if err = img.Save(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	metrics.RenderDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())

	if paint != nil {
		if outcome := paint.Apply(path); outcome == colorizer.OutcomeRegexFallback {
			s.log.Warnw("structured colorize failed, used regex fallback", "file", path)
		}
	}
	metrics.CodesGenerated.WithLabelValues(string(format)).Inc()
	return path, nil
}

func progressMessage(mode entity.Mode, item, total int) string {
	if mode == entity.ModeTabular {
		return fmt.Sprintf("Processing CSV row %d/%d", item, total)
	}
	return fmt.Sprintf("Generating QR code %d/%d", item, total)
}

func completionMessage(mode entity.Mode) string {
	if mode == entity.ModeTabular {
		return "CSV processing complete!"
	}
	return "QR code generation complete!"
}
