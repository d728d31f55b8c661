package payload

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Badsnus/qrbatch/internal/domain/common/errorz"
	"github.com/Badsnus/qrbatch/internal/domain/entity"
)

func drain(t *testing.T, s Source) (records []entity.PayloadRecord, skipped []int) {
	t.Helper()
	for {
		ev, ok := s.Next()
		if !ok {
			return
		}
		if ev.Skipped {
			skipped = append(skipped, ev.Row)
			continue
		}
		records = append(records, ev.Record)
	}
}

func TestSequentialPayloads(t *testing.T) {
	req := entity.SequentialRequest{
		UsageLimit:   15,
		Volume:       500,
		ExpiryDate:   "26.12.31",
		SecurityCode: "SECD",
		SuffixCode:   "23FF45EE",
		Count:        3,
	}
	src, err := New(req)
	require.NoError(t, err)
	assert.Equal(t, 3, src.Len())

	records, skipped := drain(t, src)
	assert.Empty(t, skipped)
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, i+1, rec.Index)
		assert.Equal(t, fmt.Sprintf("M-15-%08d-500-26.12.31-SECD-23FF45EE", i+1), rec.Payload)
	}
	assert.Equal(t, "M-15-00000001-500-26.12.31-SECD-23FF45EE", records[0].Payload)
}

func TestSequentialSerialWidensPastEightDigits(t *testing.T) {
	req := entity.SequentialRequest{UsageLimit: 1, Volume: 1, ExpiryDate: "01.01.30", Count: 1}
	assert.Equal(t, "M-1-123456789-1-01.01.30--", SequentialPayload(req, 123456789))
}

func TestTabularSkipHeader(t *testing.T) {
	rows := [][]string{
		{"id", "code"},
		{"1", "alpha"},
		{"2", "beta"},
		{"3", "gamma"},
	}
	src, err := New(entity.TabularRequest{Rows: rows, ColumnIndex: 1, SkipHeader: true})
	require.NoError(t, err)
	assert.Equal(t, 3, src.Len())

	records, skipped := drain(t, src)
	assert.Empty(t, skipped)
	require.Len(t, records, 3)
	for _, rec := range records {
		assert.NotEqual(t, "code", rec.Payload)
	}
	assert.Equal(t, []int{1, 2, 3}, []int{records[0].Index, records[1].Index, records[2].Index})
	assert.Equal(t, []int{2, 3, 4}, []int{records[0].SourceRow, records[1].SourceRow, records[2].SourceRow})
}

func TestTabularShortRowsAreSkipped(t *testing.T) {
	rows := [][]string{
		{"a", " keep spaces "},
		{"b"},
		{"c", "x"},
		{},
	}
	src := NewTabular(entity.TabularRequest{Rows: rows, ColumnIndex: 1})

	records, skipped := drain(t, src)
	assert.Equal(t, []int{2, 4}, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, " keep spaces ", records[0].Payload)
	assert.Equal(t, 1, records[0].Index)
	assert.Equal(t, "x", records[1].Payload)
	assert.Equal(t, 3, records[1].Index)
}

func TestTabularHeaderOnly(t *testing.T) {
	src := NewTabular(entity.TabularRequest{Rows: [][]string{{"h"}}, SkipHeader: true})
	assert.Equal(t, 0, src.Len())
	_, ok := src.Next()
	assert.False(t, ok)
}

func TestNewNilRequest(t *testing.T) {
	_, err := New(nil)
	assert.True(t, errors.Is(err, errorz.ErrUnknownMode))
}
