package qr

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
)

type rasterImage struct {
	img     image.Image
	quality int
}

func (i *rasterImage) Format() Format { return PNG }

// Image exposes the decoded pixels.
func (i *rasterImage) Image() image.Image { return i.img }

func (i *rasterImage) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := png.Encoder{CompressionLevel: compressionLevel(i.quality)}
	if err = enc.Encode(f, i.img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// compressionLevel maps a 0-100 quality onto the lossless PNG encoder levels.
func compressionLevel(quality int) png.CompressionLevel {
	switch {
	case quality < 34:
		return png.BestSpeed
	case quality < 67:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

func (r *Renderer) renderRaster(modules [][]bool) *rasterImage {
	n := len(modules)
	ms := r.opts.ModuleSize
	size := (n + 2*r.opts.Border) * ms
	offset := float64(r.opts.Border * ms)

	dc := gg.NewContext(size, size)
	dc.SetColor(r.bg)
	dc.Clear()

	dc.SetColor(r.fg)
	for y, row := range modules {
		for x, dark := range row {
			if dark {
				dc.DrawRectangle(offset+float64(x*ms), offset+float64(y*ms), float64(ms), float64(ms))
			}
		}
	}
	dc.Fill()

	if r.logo != nil {
		r.drawLogo(dc, size)
	}

	var img image.Image = dc.Image()
	if r.opts.Size > 0 && r.opts.Size != size {
		img = resize.Resize(uint(r.opts.Size), uint(r.opts.Size), img, resize.NearestNeighbor)
	}
	return &rasterImage{img: img, quality: r.opts.Quality}
}
