package qr

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// svgLogoSize is the edge length SVG logos are rasterized at before scaling.
const svgLogoSize = 512

func loadLogo(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return rasterizeSVG(path, svgLogoSize)
	}
	return gg.LoadImage(path)
}

func rasterizeSVG(path string, size int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	width, height := size, int(float64(size)*h/w)
	if height > size {
		width, height = int(float64(size)*w/h), size
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)
	return img, nil
}

// drawLogo centers the logo on a background-colored circular plate.
func (r *Renderer) drawLogo(dc *gg.Context, size int) {
	logoSize := int(float64(size) * r.opts.LogoScale)
	if logoSize < 1 {
		return
	}

	resized := resize.Thumbnail(uint(logoSize), uint(logoSize), r.logo, resize.Lanczos3)

	center := float64(size) / 2
	plateRadius := float64(logoSize)/2 + float64(r.opts.ModuleSize)

	dc.SetColor(r.bg)
	dc.DrawCircle(center, center, plateRadius)
	dc.Fill()

	dc.DrawImageAnchored(resized, int(center), int(center), 0.5, 0.5)
}
