package qr

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/skip2/go-qrcode"
)

// Format is the artifact kind produced by a Renderer.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// Style selects the element shape of the SVG backend.
type Style string

const (
	StyleRect Style = "rect"
	StylePath Style = "path"
)

// Options configure a Renderer. They are fixed for the lifetime of the Renderer.
type Options struct {
	Version    int // 0 selects the smallest version that fits
	Level      string
	ModuleSize int // pixels per module (raster); tenths of a millimetre (vector)
	Border     int // quiet zone width in modules
	Foreground string
	Background string
	Format     Format

	Quality   int     // PNG only, mapped to compression level
	Size      int     // PNG only, exact output width/height when > 0
	LogoPath  string  // PNG only, png/jpg or svg
	LogoScale float64 // logo width relative to the image width

	Style Style // SVG only
}

// Defaults mirrors the defaults of the batch tool.
var Defaults = Options{
	Level:      "L",
	ModuleSize: 10,
	Border:     4,
	Foreground: "#000000",
	Background: "#FFFFFF",
	Format:     PNG,
	Quality:    85,
	LogoScale:  0.2,
	Style:      StyleRect,
}

// Image is a rendered artifact that can be written to disk.
type Image interface {
	Format() Format
	Save(path string) error
}

// Renderer encodes payloads with one resolved set of Options.
type Renderer struct {
	opts  Options
	level qrcode.RecoveryLevel
	fg    color.RGBA
	bg    color.RGBA
	logo  image.Image
}

// ParseLevel maps L/M/Q/H onto the encoder's recovery levels.
func ParseLevel(level string) (qrcode.RecoveryLevel, error) {
	switch strings.ToUpper(level) {
	case "L":
		return qrcode.Low, nil
	case "M":
		return qrcode.Medium, nil
	case "Q":
		return qrcode.High, nil
	case "H":
		return qrcode.Highest, nil
	}
	return 0, fmt.Errorf("unknown error correction level %q", level)
}

// NewRenderer resolves colors, the recovery level and the optional logo once.
func NewRenderer(opts Options) (*Renderer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.ModuleSize < 1 {
		return nil, fmt.Errorf("module size must be at least 1, got %d", opts.ModuleSize)
	}
	if opts.Border < 0 {
		return nil, fmt.Errorf("border must not be negative, got %d", opts.Border)
	}
	if opts.Version < 0 || opts.Version > 40 {
		return nil, fmt.Errorf("version must be between 1 and 40, got %d", opts.Version)
	}
	fg, err := ParseColor(opts.Foreground)
	if err != nil {
		return nil, err
	}
	bg, err := ParseColor(opts.Background)
	if err != nil {
		return nil, err
	}
	if opts.Style == "" {
		opts.Style = StyleRect
	}
	if opts.LogoScale <= 0 {
		opts.LogoScale = Defaults.LogoScale
	}

	r := &Renderer{opts: opts, level: level, fg: fg, bg: bg}

	if opts.Format == PNG && opts.LogoPath != "" {
		r.logo, err = loadLogo(opts.LogoPath)
		if err != nil {
			return nil, fmt.Errorf("load logo: %w", err)
		}
	}

	switch opts.Format {
	case PNG, SVG:
	default:
		return nil, fmt.Errorf("unsupported format %q", opts.Format)
	}
	return r, nil
}

// Render encodes payload and builds the artifact for the configured format.
func (r *Renderer) Render(payload string) (Image, error) {
	modules, err := r.encode(payload)
	if err != nil {
		return nil, err
	}
	if r.opts.Format == SVG {
		return r.renderVector(modules), nil
	}
	return r.renderRaster(modules), nil
}

// encode returns the module matrix without quiet zone.
func (r *Renderer) encode(payload string) ([][]bool, error) {
	var (
		q   *qrcode.QRCode
		err error
	)
	if r.opts.Version > 0 {
		q, err = qrcode.NewWithForcedVersion(payload, r.opts.Version, r.level)
	} else {
		q, err = qrcode.New(payload, r.level)
	}
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	return q.Bitmap(), nil
}
