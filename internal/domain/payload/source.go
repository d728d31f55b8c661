// Package payload turns a GenerationRequest into an ordered stream of payload records.
package payload

import (
	"fmt"

	"github.com/Badsnus/qrbatch/internal/domain/common/errorz"
	"github.com/Badsnus/qrbatch/internal/domain/entity"
)

// Event is one step of a Source: either a record or a skipped tabular row.
type Event struct {
	Record  entity.PayloadRecord
	Skipped bool
	Row     int // 1-based input row of a skipped event
}

// Source yields events in strictly increasing index order.
type Source interface {
	// Len is the number of events Next will yield, skips included.
	Len() int
	// Next returns the next event, or false once the source is drained.
	Next() (Event, bool)
}

// New picks the source for the concrete request type.
func New(req entity.GenerationRequest) (Source, error) {
	switch r := req.(type) {
	case entity.SequentialRequest:
		return NewSequential(r), nil
	case *entity.SequentialRequest:
		return NewSequential(*r), nil
	case entity.TabularRequest:
		return NewTabular(r), nil
	case *entity.TabularRequest:
		return NewTabular(*r), nil
	default:
		return nil, fmt.Errorf("%w: %T", errorz.ErrUnknownMode, req)
	}
}

// SequentialPayload renders the numeric template for index i.
// The serial is zero-padded to 8 digits and widens past 99,999,999.
func SequentialPayload(r entity.SequentialRequest, i int) string {
	return fmt.Sprintf("M-%d-%08d-%d-%s-%s-%s", r.UsageLimit, i, r.Volume, r.ExpiryDate, r.SecurityCode, r.SuffixCode)
}

type sequential struct {
	req  entity.SequentialRequest
	next int
}

// NewSequential yields indices 1..Count.
func NewSequential(r entity.SequentialRequest) Source {
	return &sequential{req: r, next: 1}
}

func (s *sequential) Len() int {
	if s.req.Count < 0 {
		return 0
	}
	return s.req.Count
}

func (s *sequential) Next() (Event, bool) {
	if s.next > s.req.Count {
		return Event{}, false
	}
	i := s.next
	s.next++
	return Event{Record: entity.PayloadRecord{
		Index:   i,
		Payload: SequentialPayload(s.req, i),
	}}, true
}

type tabular struct {
	rows   [][]string
	column int
	offset int // rows consumed before iteration (header)
	pos    int
}

// NewTabular yields one event per row after the optional header.
// A row too short for the column is reported as a skip, not an error.
func NewTabular(r entity.TabularRequest) Source {
	t := &tabular{rows: r.Rows, column: r.ColumnIndex}
	if r.SkipHeader && len(r.Rows) > 0 {
		t.offset = 1
	}
	return t
}

func (t *tabular) Len() int {
	return len(t.rows) - t.offset
}

func (t *tabular) Next() (Event, bool) {
	if t.offset+t.pos >= len(t.rows) {
		return Event{}, false
	}
	row := t.rows[t.offset+t.pos]
	t.pos++
	sourceRow := t.offset + t.pos

	if t.column < 0 || t.column >= len(row) {
		return Event{Skipped: true, Row: sourceRow}, true
	}
	return Event{Record: entity.PayloadRecord{
		Index:     t.pos,
		Payload:   row[t.column],
		SourceRow: sourceRow,
	}}, true
}
