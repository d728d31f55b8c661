package validator

import (
	"github.com/Badsnus/qrbatch/internal/domain/common/errorz"
	"github.com/Badsnus/qrbatch/internal/domain/entity"
)

const (
	DefaultRasterQuality   = 85
	DefaultVectorPrecision = 2
	DefaultLogoScale       = 0.2
)

// Form holds the raw, user-supplied values of one run.
type Form struct {
	Mode entity.Mode

	UsageLimit   string
	Volume       string
	ExpiryDate   string
	SecurityCode string
	SuffixCode   string
	Count        string

	Column     string
	SkipHeader bool

	Foreground string
	Background string

	Version         string
	ErrorCorrection string
	ModuleSize      string
	Border          string

	Format      string
	Quality     string
	Precision   string
	VectorStyle string
	RasterSize  int
	LogoPath    string
	LogoScale   float64

	Prefix               string
	Suffix               string
	UsePayloadAsFilename bool
}

// Validate checks every field and returns all failures at once as Failures.
// In tabular mode the returned request carries no rows yet, see AttachRows.
func (f Form) Validate() (*entity.BatchJob, error) {
	var c Collector

	var request entity.GenerationRequest
	switch f.Mode {
	case entity.ModeSequential:
		usageLimit, err := Integer("Usage limit", f.UsageLimit, 1)
		c.Check("Usage limit", err)
		volume, err := Integer("Volume", f.Volume, 1)
		c.Check("Volume", err)
		expiry, err := Date("Expiry date", f.ExpiryDate)
		c.Check("Expiry date", err)
		count, err := Integer("Count", f.Count, 1)
		c.Check("Count", err)
		securityCode, err := Required("Security code", f.SecurityCode)
		c.Check("Security code", err)
		suffixCode, err := Required("Suffix code", f.SuffixCode)
		c.Check("Suffix code", err)

		request = entity.SequentialRequest{
			UsageLimit:   usageLimit,
			Volume:       volume,
			ExpiryDate:   expiry,
			SecurityCode: securityCode,
			SuffixCode:   suffixCode,
			Count:        count,
		}
	case entity.ModeTabular:
		column, err := Integer("Column", f.Column, 0)
		c.Check("Column", err)

		request = entity.TabularRequest{
			ColumnIndex: column,
			SkipHeader:  f.SkipHeader,
		}
	default:
		c.Check("Mode", fail("Mode", NotAllowed, "%v: %q", errorz.ErrUnknownMode, f.Mode))
	}

	fg, err := Color("Foreground color", f.Foreground)
	c.Check("Foreground color", err)
	bg := f.Background
	if bg == "" {
		bg = "#FFFFFF"
	}
	bg, err = Color("Background color", bg)
	c.Check("Background color", err)

	version, err := Version("Version", f.Version)
	c.Check("Version", err)
	ec, err := ErrorCorrection("Error correction", f.ErrorCorrection)
	c.Check("Error correction", err)
	moduleSize, err := Integer("Module size", f.ModuleSize, 1, 50)
	c.Check("Module size", err)
	border, err := Integer("Border", f.Border, 0, 20)
	c.Check("Border", err)

	output := entity.OutputSpec{
		RasterQuality:        DefaultRasterQuality,
		VectorPrecision:      DefaultVectorPrecision,
		VectorStyle:          entity.VectorStyleRect,
		LogoPath:             f.LogoPath,
		LogoScale:            f.LogoScale,
		FilenamePrefix:       f.Prefix,
		FilenameSuffix:       f.Suffix,
		UsePayloadAsFilename: f.UsePayloadAsFilename,
	}
	if output.LogoScale <= 0 {
		output.LogoScale = DefaultLogoScale
	}

	format, err := Format("Format", f.Format)
	if c.Check("Format", err) {
		output.Format = format
		switch format {
		case entity.FormatRaster:
			quality, err := RasterQuality("Raster quality", f.Quality)
			c.Check("Raster quality", err)
			output.RasterQuality = quality
			if f.RasterSize < 0 {
				c.Check("Raster size", fail("Raster size", BelowMinimum, "Raster size must be at least 0"))
			}
			output.RasterSize = f.RasterSize
			if output.LogoScale > 0.5 {
				c.Check("Logo scale", fail("Logo scale", AboveMaximum, "Logo scale must be at most 0.5"))
			}
		case entity.FormatVector:
			precision, err := VectorPrecision("Vector precision", f.Precision)
			c.Check("Vector precision", err)
			output.VectorPrecision = precision
			style, err := VectorStyle("Vector style", f.VectorStyle)
			c.Check("Vector style", err)
			output.VectorStyle = style
		}
	}

	if err = c.Err(); err != nil {
		return nil, err
	}

	return &entity.BatchJob{
		Request: request,
		Colors:  entity.ColorSpec{Foreground: fg, Background: bg},
		Params:  entity.NewEncodingParameters(version, ec, moduleSize, border),
		Output:  output,
	}, nil
}

// AttachRows returns a copy of job whose tabular request carries rows.
// Sequential jobs are returned unchanged.
func AttachRows(job *entity.BatchJob, rows [][]string) *entity.BatchJob {
	req, ok := job.Request.(entity.TabularRequest)
	if !ok {
		return job
	}
	req.Rows = rows
	out := *job
	out.Request = req
	return &out
}
