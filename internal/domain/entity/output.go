package entity

// Format is the output artifact format.
type Format string

const (
	FormatRaster Format = "png"
	FormatVector Format = "svg"
)

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	return string(f)
}

// VectorStyle selects the element shape the vector backend emits.
type VectorStyle string

const (
	VectorStyleRect VectorStyle = "rect"
	VectorStylePath VectorStyle = "path"
)

// OutputSpec describes how artifacts are rendered and named.
type OutputSpec struct {
	Format               Format
	RasterQuality        int // 0-100, raster only
	VectorPrecision      int // 0-10, vector only
	VectorStyle          VectorStyle
	RasterSize           int // 0 keeps the natural size
	LogoPath             string
	LogoScale            float64
	FilenamePrefix       string
	FilenameSuffix       string
	UsePayloadAsFilename bool
}
