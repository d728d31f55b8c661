package tabular

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/Badsnus/qrbatch/internal/domain/common/errorz"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   rune
	}{
		{"comma", "id,code\n1,ABC\n", ','},
		{"semicolon", "id;code\n1;ABC\n", ';'},
		{"tab", "id\tcode\n1\tABC\n", '\t'},
		{"pipe", "id|code\n1|ABC\n", '|'},
		{"quoted comma ignored", "name;code\n\"Doe, J\";X\n", ';'},
		{"crlf", "a,b\r\n1,2\r\n", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect([]byte(tt.sample))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFailure(t *testing.T) {
	for _, sample := range []string{"", "single\ncolumn\n", "a,b\nc;d\n"} {
		_, err := Detect([]byte(sample))
		assert.ErrorIs(t, err, errorz.ErrDelimiterNotDetected, sample)
	}
}

func TestDetectDropsTruncatedLine(t *testing.T) {
	var b strings.Builder
	for b.Len() < SampleSize {
		b.WriteString("payload,1\n")
	}
	data := []byte(b.String())
	// cut inside a line so the last sampled line has no delimiter
	sample := append(data[:SampleSize-3:SampleSize-3], []byte("xyz")...)
	got, err := Detect(sample)
	require.NoError(t, err)
	assert.Equal(t, ',', got)
}

func TestReadKeepsCellsVerbatim(t *testing.T) {
	rows, err := Read(strings.NewReader("id;payload\n1; padded \n2\n"), Options{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "payload"}, {"1", " padded "}, {"2"}}, rows)
}

func TestReadDelimiterOverride(t *testing.T) {
	rows, err := Read(strings.NewReader("a:b\n"), Options{Delimiter: ':'})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}}, rows)
}

func TestReadEmpty(t *testing.T) {
	_, err := Read(strings.NewReader(" \n"), Options{})
	assert.ErrorIs(t, err, errorz.ErrEmptyInput)
}

func TestReadWindows1251(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().String("код,значение\n1,Привет\n")
	require.NoError(t, err)

	rows, err := Read(bytes.NewReader([]byte(encoded)), Options{Encoding: "windows-1251"})
	require.NoError(t, err)
	assert.Equal(t, "Привет", rows[1][1])
}

func TestReadUnknownEncoding(t *testing.T) {
	_, err := Read(strings.NewReader("a,b\n"), Options{Encoding: "ebcdic"})
	assert.ErrorIs(t, err, errorz.ErrUnsupportedEncoding)
}

func TestReadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	require.NoError(t, f.SetCellValue(sheet, "A1", "id"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "payload"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "1"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "M-1"))

	path := filepath.Join(t.TempDir(), "rows.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := ReadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "payload"}, {"1", "M-1"}}, rows)
}

func TestDetectToleratesShortRows(t *testing.T) {
	got, err := Detect([]byte("id,payload\n1,alpha\n2\n3,gamma\n"))
	require.NoError(t, err)
	assert.Equal(t, ',', got)

	var b strings.Builder
	b.WriteString("id;payload;note\n")
	for i := 0; i < 30; i++ {
		if i == 14 {
			b.WriteString("short\n")
			continue
		}
		b.WriteString("1;M-1;x\n")
	}
	got, err = Detect([]byte(b.String()))
	require.NoError(t, err)
	assert.Equal(t, ';', got)
}

func TestDetectRejectsInconsistentMajority(t *testing.T) {
	_, err := Detect([]byte("a,b\n1,2,3\n4,5\n"))
	assert.ErrorIs(t, err, errorz.ErrDelimiterNotDetected)
}

func TestReadRaggedRows(t *testing.T) {
	rows, err := Read(strings.NewReader("id,payload\n1,alpha\n2\n3,gamma\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "payload"}, {"1", "alpha"}, {"2"}, {"3", "gamma"}}, rows)
}
