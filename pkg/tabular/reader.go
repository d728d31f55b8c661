// Package tabular loads rows for tabular generation from delimited text or xlsx workbooks.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/Badsnus/qrbatch/internal/domain/common/errorz"
)

// Options control how an input file is decoded.
type Options struct {
	// Delimiter overrides detection when non-zero.
	Delimiter rune
	// Encoding is one of utf-8 (default), windows-1251, iso-8859-1.
	Encoding string
	// Sheet selects an xlsx sheet; the first sheet is used when empty.
	Sheet string
}

func decoderFor(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "windows-1251", "cp1251":
		return charmap.Windows1251, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	}
	return nil, fmt.Errorf("%w: %s", errorz.ErrUnsupportedEncoding, name)
}

// ReadFile loads every row of path. Files with an .xlsx extension are read as workbooks.
func ReadFile(path string, opts Options) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readWorkbook(path, opts.Sheet)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	return Read(f, opts)
}

// Read decodes delimited text. Rows keep their cells verbatim and may differ in length.
func Read(r io.Reader, opts Options) ([][]string, error) {
	enc, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(enc.NewDecoder().Reader(r))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errorz.ErrEmptyInput
	}

	delim := opts.Delimiter
	if delim == 0 {
		if delim, err = Detect(data); err != nil {
			return nil, err
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	return rows, nil
}

func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, errorz.ErrEmptyInput
	}
	return rows, nil
}
