package qr

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for _, lvl := range []string{"L", "M", "Q", "H", "q"} {
		_, err := ParseLevel(lvl)
		assert.NoError(t, err, lvl)
	}
	_, err := ParseLevel("X")
	assert.Error(t, err)
}

func TestNewRendererRejectsBadOptions(t *testing.T) {
	opts := Defaults
	opts.Foreground = "notacolor"
	_, err := NewRenderer(opts)
	assert.Error(t, err)

	opts = Defaults
	opts.ModuleSize = 0
	_, err = NewRenderer(opts)
	assert.Error(t, err)

	opts = Defaults
	opts.Format = "gif"
	_, err = NewRenderer(opts)
	assert.Error(t, err)
}

func TestRasterDimensions(t *testing.T) {
	opts := Defaults
	opts.Version = 1
	opts.ModuleSize = 2
	opts.Border = 4
	r, err := NewRenderer(opts)
	require.NoError(t, err)

	img, err := r.Render("M-1-00000001-1-01.01.30-SECD-23FF45EE")
	require.Error(t, err, "payload does not fit version 1 at level L")
	assert.Nil(t, img)

	img, err = r.Render("HELLO")
	require.NoError(t, err)
	require.Equal(t, PNG, img.Format())

	// version 1 is 21 modules wide
	bounds := img.(*rasterImage).Image().Bounds()
	assert.Equal(t, (21+8)*2, bounds.Dx())
	assert.Equal(t, bounds.Dx(), bounds.Dy())
}

func TestRasterSaveAndResize(t *testing.T) {
	opts := Defaults
	opts.Size = 300
	opts.Quality = 10
	r, err := NewRenderer(opts)
	require.NoError(t, err)

	img, err := r.Render("payload")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, img.Save(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 300, decoded.Bounds().Dx())

	// corner pixel sits in the quiet zone
	cr, cg, cb, _ := decoded.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{cr, cg, cb})
}

func TestVectorRectStyle(t *testing.T) {
	opts := Defaults
	opts.Format = SVG
	opts.Version = 1
	opts.ModuleSize = 5
	opts.Border = 1
	opts.Foreground = "red"
	opts.Background = "#FFFFFF"
	r, err := NewRenderer(opts)
	require.NoError(t, err)

	img, err := r.Render("HELLO")
	require.NoError(t, err)
	doc := string(img.(*vectorImage).Bytes())

	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, `xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, doc, `width="11.5mm"`)
	assert.Contains(t, doc, `viewBox="0 0 11.5 11.5"`)
	assert.Contains(t, doc, `<rect x="0" y="0" width="11.5" height="11.5" fill="#FFFFFF"/>`)
	// top-left finder pattern module
	assert.Contains(t, doc, `<rect x="0.5" y="0.5" width="0.5" height="0.5" fill="red"/>`)
}

func TestVectorPathStyle(t *testing.T) {
	opts := Defaults
	opts.Format = SVG
	opts.Style = StylePath
	opts.Version = 1
	opts.Border = 0
	r, err := NewRenderer(opts)
	require.NoError(t, err)

	img, err := r.Render("HELLO")
	require.NoError(t, err)
	doc := string(img.(*vectorImage).Bytes())

	assert.Equal(t, 1, strings.Count(doc, "<path "))
	assert.Equal(t, 1, strings.Count(doc, "<rect "))
	// finder pattern top row is a run of seven modules
	assert.Contains(t, doc, `d="M0,0h7v1h-7z`)

	path := filepath.Join(t.TempDir(), "out.svg")
	require.NoError(t, img.Save(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, string(data))
}

func TestMillimetres(t *testing.T) {
	assert.Equal(t, "0", mm(0))
	assert.Equal(t, "0.3", mm(3))
	assert.Equal(t, "1", mm(10))
	assert.Equal(t, "12.5", mm(125))
}

func TestCompressionLevel(t *testing.T) {
	assert.Equal(t, png.BestSpeed, compressionLevel(0))
	assert.Equal(t, png.DefaultCompression, compressionLevel(50))
	assert.Equal(t, png.BestCompression, compressionLevel(85))
}
