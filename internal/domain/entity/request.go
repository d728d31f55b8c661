package entity

import "strings"

// Mode names a generation mode. It is used for reporting and persistence only;
// dispatch happens on the concrete GenerationRequest type.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeTabular    Mode = "tabular"
)

// ParseMode accepts mode names case-insensitively, including the legacy
// aliases "manual" and "csv". Unknown names are returned as given.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manual", string(ModeSequential):
		return ModeSequential
	case "csv", string(ModeTabular):
		return ModeTabular
	}
	return Mode(s)
}

// GenerationRequest is the sum type over SequentialRequest and TabularRequest.
type GenerationRequest interface {
	Mode() Mode
	isGenerationRequest()
}

// SequentialRequest drives generation from the numeric payload template.
type SequentialRequest struct {
	UsageLimit   int
	Volume       int
	ExpiryDate   string // DD.MM.YY
	SecurityCode string
	SuffixCode   string
	Count        int
}

func (SequentialRequest) Mode() Mode { return ModeSequential }
func (SequentialRequest) isGenerationRequest() {}

// TabularRequest drives generation from rows of an external table.
type TabularRequest struct {
	Rows        [][]string
	ColumnIndex int
	SkipHeader  bool
}

func (TabularRequest) Mode() Mode { return ModeTabular }
func (TabularRequest) isGenerationRequest() {}
