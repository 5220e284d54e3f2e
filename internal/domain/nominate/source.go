// Package nominate imports entry nominations into an event.
package nominate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is one nomination: a rider on a horse, under an entry id, in a class.
type Row struct {
	Line      int
	RiderName string
	HorseName string
	ComboID   string
	Class     string
}

// Source yields nomination rows. Next returns io.EOF after the last row.
type Source interface {
	Next() (Row, error)
}

// Column headers recognised by CSVSource, matched case-insensitively.
const (
	ColumnRider = "rider"
	ColumnHorse = "horse"
	ColumnID    = "id"
	ColumnClass = "class"
)

// CSVSource reads rows from a nomination spreadsheet export.
type CSVSource struct {
	r    *csv.Reader
	cols map[string]int
}

var _ Source = (*CSVSource)(nil)

// NewCSVSource reads the header row and checks the required columns are present.
func NewCSVSource(r io.Reader) (*CSVSource, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, err
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, want := range []string{ColumnRider, ColumnHorse, ColumnID, ColumnClass} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, want)
		}
	}
	return &CSVSource{r: cr, cols: cols}, nil
}

// Next implements Source.
func (s *CSVSource) Next() (Row, error) {
	for {
		rec, err := s.r.Read()
		if err != nil {
			return Row{}, err
		}
		line, _ := s.r.FieldPos(0)
		row := Row{
			Line:      line,
			RiderName: s.field(rec, ColumnRider),
			HorseName: s.field(rec, ColumnHorse),
			ComboID:   s.field(rec, ColumnID),
			Class:     s.field(rec, ColumnClass),
		}
		if row == (Row{Line: line}) {
			continue // blank line
		}
		return row, nil
	}
}

func (s *CSVSource) field(rec []string, col string) string {
	i := s.cols[col]
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
