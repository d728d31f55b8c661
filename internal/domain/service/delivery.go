package service

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Badsnus/qrbatch/internal/domain/entity"
)

// ArchiveSender delivers a finished archive somewhere outside the machine.
type ArchiveSender interface {
	SendArchive(ctx context.Context, path, caption string) error
}

type DeliveryService struct {
	log     *zap.SugaredLogger
	senders map[string]ArchiveSender
}

func NewDeliveryService(log *zap.SugaredLogger) *DeliveryService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &DeliveryService{
		log:     log,
		senders: make(map[string]ArchiveSender),
	}
}

// Register adds a named channel. Registering the same name twice replaces it.
func (s *DeliveryService) Register(name string, sender ArchiveSender) {
	s.senders[name] = sender
}

// Deliver sends the archive of result through every channel. Failures are
// logged and counted, never returned.
func (s *DeliveryService) Deliver(ctx context.Context, result *entity.BatchResult) (failed int) {
	if result.ArchivePath == "" || len(s.senders) == 0 {
		return 0
	}

	caption := fmt.Sprintf("%s: %d QR codes (%d rows skipped)",
		filepath.Base(result.ArchivePath), result.GeneratedCount, result.SkippedCount)
	for name, sender := range s.senders {
		if err := sender.SendArchive(ctx, result.ArchivePath, caption); err != nil {
			s.log.Errorw("delivery failed", "channel", name, "archive", result.ArchivePath, "error", err)
			failed++
			continue
		}
		s.log.Infow("archive delivered", "channel", name, "archive", result.ArchivePath)
	}
	return failed
}
