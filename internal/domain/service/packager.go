package service

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Badsnus/qrbatch/internal/domain/entity"
	"github.com/Badsnus/qrbatch/pkg/archive"
)

// PackageOptions control archiving after a run.
type PackageOptions struct {
	// ArchiveName is the archive file name or path. Empty selects the automatic name.
	// Relative names are placed next to the output folder.
	ArchiveName string
	Cleanup     bool
}

type PackagerService struct {
	log *zap.SugaredLogger
}

func NewPackagerService(log *zap.SugaredLogger) *PackagerService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &PackagerService{log: log}
}

// ArchivePath resolves where the archive of result is written.
func ArchivePath(result *entity.BatchResult, format entity.Format, name string) string {
	if name == "" {
		name = archive.Name(result.GeneratedCount, format.Extension(), result.Mode == entity.ModeTabular)
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(filepath.Dir(filepath.Clean(result.OutputFolder)), name)
}

// Package archives the artifacts of result and optionally clears the output folder.
// The archive path is stored in result.
func (s *PackagerService) Package(result *entity.BatchResult, format entity.Format, opts PackageOptions) error {
	path := ArchivePath(result, format, opts.ArchiveName)

	stored, err := archive.Archive(result.OutputFolder, path, format.Extension())
	if err != nil {
		return err
	}
	result.ArchivePath = path
	s.log.Infow("archive created", "path", path, "entries", stored)

	if opts.Cleanup {
		removed, err := archive.Cleanup(result.OutputFolder)
		if err != nil {
			return err
		}
		s.log.Infow("output folder cleaned", "folder", result.OutputFolder, "removed", removed)
	}
	return nil
}
