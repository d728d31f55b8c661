package service

import (
	"github.com/Badsnus/qrbatch/internal/domain/entity"
	qr "github.com/Badsnus/qrbatch/pkg/qrcode"
)

// RenderOptions resolves the renderer options of a batch. It is called once per run.
func RenderOptions(job *entity.BatchJob) qr.Options {
	version, _ := job.Params.Version()
	return qr.Options{
		Version:    version,
		Level:      string(job.Params.ErrorCorrection()),
		ModuleSize: job.Params.ModuleSize(),
		Border:     job.Params.Border(),
		Foreground: job.Colors.Foreground,
		Background: job.Colors.Background,
		Format:     qr.Format(job.Output.Format),
		Quality:    job.Output.RasterQuality,
		Size:       job.Output.RasterSize,
		LogoPath:   job.Output.LogoPath,
		LogoScale:  job.Output.LogoScale,
		Style:      qr.Style(job.Output.VectorStyle),
	}
}
