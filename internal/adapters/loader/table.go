package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// table is a CSV file read into memory with a case-insensitive header.
type table struct {
	name   string
	header []string // lowercased, trimmed
	rows   [][]string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF} //nolint:gochecknoglobals // constant bytes

// readTable parses path. A missing file returns an error wrapping fs.ErrNotExist.
func readTable(path string) (*table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseTable(path, data)
}

func parseTable(name string, data []byte) (*table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file: %w", name, ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: header: %v: %w", name, err, ErrMalformed)
	}
	t := &table{name: name, header: make([]string, len(header))}
	for i, h := range header {
		t.header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %v: %w", name, err, ErrMalformed)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// col returns the index of the first header equal to one of names, or -1.
func (t *table) col(names ...string) int {
	for _, n := range names {
		for i, h := range t.header {
			if h == n {
				return i
			}
		}
	}
	return -1
}

// colContaining returns the first header that equals or contains sub, or -1.
func (t *table) colContaining(sub string) int {
	if i := t.col(sub); i >= 0 {
		return i
	}
	for i, h := range t.header {
		if strings.Contains(h, sub) {
			return i
		}
	}
	return -1
}

// require returns the indexes of names or an ErrMalformed listing the first absent one.
func (t *table) require(names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, n := range names {
		if out[i] = t.col(n); out[i] < 0 {
			return nil, fmt.Errorf("%s: column %q missing: %w", t.name, n, ErrMalformed)
		}
	}
	return out, nil
}

// nocColumn picks noc, then country_code, then code.
func (t *table) nocColumn() int {
	return t.col("noc", "country_code", "code")
}

// get returns the trimmed cell or "" for short rows and absent columns.
func get(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// number parses floats written as "12", "12.0" or "". Bad and non-finite
// values are 0.
func number(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// count is number truncated to an int. Values outside the int32 range are 0.
func count(s string) int {
	f := number(s)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

var dateLayouts = []string{ //nolint:gochecknoglobals // fixed list
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// day parses a date and truncates it to UTC midnight. Unparsable is zero.
func day(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
