package errorz

import (
	"errors"
	"fmt"
)

var (
	ErrEncoder              = errors.New("encoder failure")
	ErrDelimiterNotDetected = errors.New("could not detect delimiter")
	ErrEmptyInput           = errors.New("input file is empty")
	ErrNoPayloads           = errors.New("no valid data found in the specified column")
	ErrUnsupportedEncoding  = errors.New("unsupported input encoding")
	ErrUnknownMode          = errors.New("unknown generation mode")
	ErrPresetNotFound       = errors.New("preset not found")
	ErrInvalidPresetName    = errors.New("invalid preset name")
	ErrHistoryDisabled      = errors.New("run history is disabled, enable service.database")
)

// EncoderError is returned when the external encoder rejects a well-formed payload.
// It aborts the remaining batch.
type EncoderError struct {
	Index   int
	Payload string
	Err     error
}

func (e *EncoderError) Error() string {
	return fmt.Sprintf("encode item %d (%q): %v", e.Index, e.Payload, e.Err)
}

func (e *EncoderError) Unwrap() []error {
	return []error{ErrEncoder, e.Err}
}
