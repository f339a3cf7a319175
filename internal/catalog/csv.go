// Package catalog loads the read-only reference data consumed by the
// detectors: the export catalog and the reference document descriptions.
package catalog

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ReadRecords reads a whole CSV file, trying UTF-8 first and falling back to
// Latin-1 when the bytes are not valid UTF-8. Field values and header names
// are whitespace-trimmed; rows may have a variable number of fields.
func ReadRecords(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}
	return parseRecords(data)
}

func parseRecords(data []byte) ([][]string, error) {
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
		if err != nil {
			return nil, eris.Wrap(err, "catalog: decode latin1")
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "catalog: read row")
		}
		for i, field := range record {
			record[i] = strings.TrimSpace(field)
		}
		records = append(records, record)
	}
}

// HeaderIndex maps lowercased header names to column positions.
func HeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// Field returns the trimmed cell at the named column, or "" when the column
// is absent or the row is short.
func Field(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseNumber parses a numeric cell, tolerating thousands separators.
func ParseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
