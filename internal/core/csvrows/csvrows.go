// Package csvrows decodes an uploaded CSV file into header-keyed rows
package csvrows

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"

	"dialdesk/internal/core/normalize"
	perr "dialdesk/internal/platform/errors"
)

// Op tags every decode failure so callers can tell malformed files from other validation errors
const Op = "csv.decode"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one data record keyed by normalized header
type Row struct {
	// Index is the 0-based position among data rows that were kept
	Index int
	// Line is the 1-based line the record starts on, for humans
	Line   int
	Values map[string]string
}

// Get returns the value under key and whether the column exists
func (r Row) Get(key string) (string, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// Table is a decoded file
type Table struct {
	Header []string
	Rows   []Row
}

// Has reports whether the header carries key
func (t Table) Has(key string) bool {
	for _, h := range t.Header {
		if h == key {
			return true
		}
	}
	return false
}

// Decode parses raw as comma separated text with a header row
// short rows are padded with "", extra cells are ignored and all-blank records are dropped
func Decode(raw []byte) (Table, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, formatErr(perr.Validationf("file is empty, a header row is required"))
		}
		return Table{}, formatErr(parseErr(err))
	}

	keys, cols, err := headerKeys(header)
	if err != nil {
		return Table{}, formatErr(err)
	}

	t := Table{Header: keys}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, formatErr(parseErr(err))
		}
		if blank(rec) {
			continue
		}
		line, _ := r.FieldPos(0)
		vals := make(map[string]string, len(keys))
		for i, k := range keys {
			v := ""
			if c := cols[i]; c < len(rec) {
				v = normalize.Cell(rec[c])
			}
			vals[k] = v
		}
		t.Rows = append(t.Rows, Row{Index: len(t.Rows), Line: line, Values: vals})
	}
	return t, nil
}

// headerKeys normalizes header cells and returns the kept keys with their source column
func headerKeys(header []string) ([]string, []int, error) {
	keys := make([]string, 0, len(header))
	cols := make([]int, 0, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if !utf8.ValidString(h) {
			return nil, nil, perr.Validationf("header column %d is not valid UTF-8", i+1)
		}
		k := normalize.Key(h)
		if k == "" {
			continue
		}
		if first, dup := seen[k]; dup {
			return nil, nil, perr.Validationf("duplicate header %q in columns %d and %d", k, first+1, i+1)
		}
		seen[k] = i
		keys = append(keys, k)
		cols = append(cols, i)
	}
	if len(keys) == 0 {
		return nil, nil, perr.Validationf("header row has no usable columns")
	}
	return keys, cols, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if normalize.Cell(c) != "" {
			return false
		}
	}
	return true
}

func parseErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return perr.Validationf("malformed CSV at line %d: %v", pe.StartLine, pe.Err)
	}
	return perr.Validationf("malformed CSV: %v", err)
}

func formatErr(err error) error { return perr.WithOp(perr.WithField(err, "file"), Op) }

// IsFormatError reports whether err came out of Decode
func IsFormatError(err error) bool {
	e, ok := perr.As(err)
	return ok && e.Op() == Op
}
