// Package dataset is the data-ingestion collaborator: it reads a
// transactional dataset from CSV and builds the lib/cover.Data every
// Cover in a search is derived from. One row is one transaction; one
// column is the class label (the last by default, the first with
// Options.ClassFirst) and every other column is a boolean attribute (0/1).
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/odtl/dl85/lib/bitcover"
	"github.com/odtl/dl85/lib/cover"
)

// Options configures how Load interprets a CSV file's rows.
type Options struct {
	// Comma is the field separator. Zero defaults to ','.
	Comma rune
	// HasHeader skips the first row.
	HasHeader bool
	// ClassFirst reads the class label from the first column instead
	// of the last, matching the column order some dl8.5 corpora use.
	ClassFirst bool
}

// Load reads a transactional dataset from r and returns the cover.Data it
// describes, along with the distinct class labels encountered (ClassOf[i]
// corresponds to Labels[i]).
func Load(r io.Reader, opts Options) (data *cover.Data, labels []string, err error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: reading CSV: %w", err)
	}
	if opts.HasHeader && len(records) > 0 {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("dataset: no transactions found")
	}

	nAttrs := len(records[0]) - 1
	if nAttrs < 1 {
		return nil, nil, fmt.Errorf("dataset: each row needs at least one attribute plus a class label")
	}

	nTransactions := len(records)
	attrBits := make([]bitcover.Set, nAttrs)
	for a := range attrBits {
		attrBits[a] = bitcover.New(nTransactions)
	}

	classIndex := make(map[string]int)
	var classBits []bitcover.Set
	var labelOrder []string

	attrCol := func(row []string) []string {
		if opts.ClassFirst {
			return row[1:]
		}
		return row[:len(row)-1]
	}
	classCol := func(row []string) string {
		if opts.ClassFirst {
			return row[0]
		}
		return row[len(row)-1]
	}

	for t, row := range records {
		if len(row) != nAttrs+1 {
			return nil, nil, fmt.Errorf("dataset: row %d has %d fields, want %d", t, len(row), nAttrs+1)
		}

		attrs := attrCol(row)
		for a, field := range attrs {
			bit, err := parseBool(field)
			if err != nil {
				return nil, nil, fmt.Errorf("dataset: row %d attribute %d: %w", t, a, err)
			}
			if bit {
				attrBits[a].SetBit(t)
			}
		}

		label := strings.TrimSpace(classCol(row))
		idx, ok := classIndex[label]
		if !ok {
			idx = len(labelOrder)
			classIndex[label] = idx
			labelOrder = append(labelOrder, label)
			classBits = append(classBits, bitcover.New(nTransactions))
		}
		classBits[idx].SetBit(t)
	}

	return &cover.Data{
		NTransactions: nTransactions,
		NClasses:      len(labelOrder),
		AttrPresent:   attrBits,
		ClassOf:       classBits,
	}, labelOrder, nil
}

func parseBool(field string) (bool, error) {
	field = strings.TrimSpace(field)
	switch field {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("expected 0 or 1, got %q", field)
	}
}

// Dims is a convenience pair returned by Bounds.
type Dims struct {
	Transactions int
	Attributes   int
}

// Bounds reports the shape of a loaded dataset.
func Bounds(data *cover.Data) Dims {
	return Dims{Transactions: data.NTransactions, Attributes: len(data.AttrPresent)}
}

// ParseFloatList parses a comma-separated list of floats, e.g. the
// DL85_WEIGHTS environment variable that cmd/dl85 passes to WeightedQuery.
func ParseFloatList(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("dataset: parsing %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}
