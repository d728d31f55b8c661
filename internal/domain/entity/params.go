package entity

// ErrorCorrection is one of the four matrix-code recovery levels.
type ErrorCorrection string

const (
	ErrorCorrectionL ErrorCorrection = "L"
	ErrorCorrectionM ErrorCorrection = "M"
	ErrorCorrectionQ ErrorCorrection = "Q"
	ErrorCorrectionH ErrorCorrection = "H"
)

// ColorSpec holds validated color tokens ("#RGB", "#RRGGBB" or an allowed CSS name).
type ColorSpec struct {
	Foreground string
	Background string
}

// EncodingParameters is resolved once per batch and shared by every item.
type EncodingParameters struct {
	version         int // 0 means auto-size
	errorCorrection ErrorCorrection
	moduleSize      int
	border          int
}

// NewEncodingParameters builds the bundle. version == nil selects auto-sizing.
func NewEncodingParameters(version *int, ec ErrorCorrection, moduleSize, border int) EncodingParameters {
	p := EncodingParameters{
		errorCorrection: ec,
		moduleSize:      moduleSize,
		border:          border,
	}
	if version != nil {
		p.version = *version
	}
	return p
}

// Version returns the forced version and true, or 0 and false for auto-size.
func (p EncodingParameters) Version() (int, bool) {
	return p.version, p.version > 0
}

func (p EncodingParameters) ErrorCorrection() ErrorCorrection { return p.errorCorrection }
func (p EncodingParameters) ModuleSize() int { return p.moduleSize }
func (p EncodingParameters) Border() int { return p.border }
