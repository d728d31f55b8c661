package validator

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Badsnus/qrbatch/internal/domain/entity"
	qr "github.com/Badsnus/qrbatch/pkg/qrcode"
)

var datePattern = regexp.MustCompile(`^[0-9]{2}\.[0-9]{2}\.[0-9]{2}$`)

// Integer parses raw and enforces the inclusive range [min, max]; max is optional.
func Integer(field, raw string, min int, max ...int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fail(field, NotANumber, "%s must be a valid number", field)
	}
	if v < min {
		return 0, fail(field, BelowMinimum, "%s must be at least %d", field, min)
	}
	if len(max) > 0 && v > max[0] {
		return 0, fail(field, AboveMaximum, "%s must be at most %d", field, max[0])
	}
	return v, nil
}

// Required rejects empty and whitespace-only values.
func Required(field, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fail(field, EmptyInput, "%s cannot be empty", field)
	}
	return raw, nil
}

// Date validates a DD.MM.YY date; the year is read as 2000+YY.
func Date(field, raw string) (string, error) {
	if raw == "" {
		return "", fail(field, EmptyInput, "%s cannot be empty", field)
	}
	if !datePattern.MatchString(raw) {
		return "", fail(field, PatternMismatch, "%s must be in DD.MM.YY format (e.g., 26.12.31)", field)
	}

	day, _ := strconv.Atoi(raw[0:2])
	month, _ := strconv.Atoi(raw[3:5])
	year, _ := strconv.Atoi(raw[6:8])

	t := time.Date(2000+year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != 2000+year {
		return "", fail(field, InvalidCalendarDate, "%s is not a valid date, check day and month values", field)
	}
	return raw, nil
}

// Color accepts #RGB / #RRGGBB hex or a name from qr.Palette (case-insensitive).
func Color(field, raw string) (string, error) {
	if raw == "" {
		return "", fail(field, EmptyInput, "%s cannot be empty", field)
	}
	if strings.HasPrefix(raw, "#") {
		if len(raw) != 4 && len(raw) != 7 {
			return "", fail(field, InvalidHexLength, "%s must be #RGB or #RRGGBB format", field)
		}
		if _, err := strconv.ParseUint(raw[1:], 16, 32); err != nil {
			return "", fail(field, InvalidHexDigits, "%s is not a valid hex color", field)
		}
		return raw, nil
	}
	if _, ok := qr.Palette[strings.ToLower(raw)]; ok {
		return raw, nil
	}
	return "", fail(field, UnknownColorName, "%s must be hex format (#RGB or #RRGGBB) or a CSS color name", field)
}

// Format accepts png or svg in any case.
func Format(field, raw string) (entity.Format, error) {
	if raw == "" {
		return "", fail(field, EmptyInput, "%s cannot be empty", field)
	}
	switch f := entity.Format(strings.ToLower(raw)); f {
	case entity.FormatRaster, entity.FormatVector:
		return f, nil
	}
	return "", fail(field, NotAllowed, "%s must be one of: png, svg", field)
}

// Version returns nil for "auto" or empty input (auto-size), otherwise a version in [1, 40].
func Version(field, raw string) (*int, error) {
	if raw == "" || strings.EqualFold(raw, "auto") {
		return nil, nil
	}
	v, err := Integer(field, raw, 1, 40)
	if err != nil {
		if f, ok := err.(*Failure); ok {
			f.Reason = field + " must be a number between 1 and 40, or 'auto'"
		}
		return nil, err
	}
	return &v, nil
}

// ErrorCorrection accepts L, M, Q or H in any case.
func ErrorCorrection(field, raw string) (entity.ErrorCorrection, error) {
	if raw == "" {
		return "", fail(field, EmptyInput, "%s cannot be empty", field)
	}
	switch ec := entity.ErrorCorrection(strings.ToUpper(raw)); ec {
	case entity.ErrorCorrectionL, entity.ErrorCorrectionM, entity.ErrorCorrectionQ, entity.ErrorCorrectionH:
		return ec, nil
	}
	return "", fail(field, NotAllowed, "%s must be one of: L, M, Q, H", field)
}

// RasterQuality is an integer in [0, 100].
func RasterQuality(field, raw string) (int, error) {
	if raw == "" {
		return 0, fail(field, EmptyInput, "%s cannot be empty", field)
	}
	return Integer(field, raw, 0, 100)
}

// VectorPrecision is an integer in [0, 10].
func VectorPrecision(field, raw string) (int, error) {
	if raw == "" {
		return 0, fail(field, EmptyInput, "%s cannot be empty", field)
	}
	return Integer(field, raw, 0, 10)
}

// VectorStyle accepts rect or path in any case.
func VectorStyle(field, raw string) (entity.VectorStyle, error) {
	switch s := entity.VectorStyle(strings.ToLower(raw)); s {
	case entity.VectorStyleRect, entity.VectorStylePath:
		return s, nil
	case "":
		return entity.VectorStyleRect, nil
	}
	return "", fail(field, NotAllowed, "%s must be one of: rect, path", field)
}
