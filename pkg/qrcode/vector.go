package qr

import (
	"os"
	"strconv"
	"strings"
)

const svgNamespace = "http://www.w3.org/2000/svg"

type vectorImage struct {
	data []byte
}

func (i *vectorImage) Format() Format { return SVG }

// Bytes returns the serialized document.
func (i *vectorImage) Bytes() []byte { return i.data }

func (i *vectorImage) Save(path string) error {
	return os.WriteFile(path, i.data, 0o644)
}

// mm formats a length given in tenths of a millimetre.
func mm(tenths int) string {
	s := strconv.Itoa(tenths / 10)
	if frac := tenths % 10; frac != 0 {
		s += "." + strconv.Itoa(frac)
	}
	return s
}

func (r *Renderer) renderVector(modules [][]bool) *vectorImage {
	n := len(modules)
	ms := r.opts.ModuleSize
	border := r.opts.Border
	total := mm((n + 2*border) * ms)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<svg xmlns="` + svgNamespace + `" version="1.1" width="` + total + `mm" height="` + total +
		`mm" viewBox="0 0 ` + total + ` ` + total + `">` + "\n")
	b.WriteString(`<rect x="0" y="0" width="` + total + `" height="` + total + `" fill="` + r.opts.Background + `"/>` + "\n")

	switch r.opts.Style {
	case StylePath:
		r.writePath(&b, modules)
	default:
		r.writeRects(&b, modules)
	}

	b.WriteString("</svg>\n")
	return &vectorImage{data: []byte(b.String())}
}

func (r *Renderer) writeRects(b *strings.Builder, modules [][]bool) {
	ms := r.opts.ModuleSize
	size := mm(ms)
	for y, row := range modules {
		for x, dark := range row {
			if !dark {
				continue
			}
			b.WriteString(`<rect x="` + mm((x+r.opts.Border)*ms) + `" y="` + mm((y+r.opts.Border)*ms) +
				`" width="` + size + `" height="` + size + `" fill="` + r.opts.Foreground + `"/>` + "\n")
		}
	}
}

// writePath emits every horizontal run of dark modules as one closed subpath.
func (r *Renderer) writePath(b *strings.Builder, modules [][]bool) {
	ms := r.opts.ModuleSize
	var d strings.Builder
	for y, row := range modules {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			run := mm((x - start) * ms)
			d.WriteString("M" + mm((start+r.opts.Border)*ms) + "," + mm((y+r.opts.Border)*ms) +
				"h" + run + "v" + mm(ms) + "h-" + run + "z")
		}
	}
	b.WriteString(`<path d="` + d.String() + `" fill="` + r.opts.Foreground + `"/>` + "\n")
}
