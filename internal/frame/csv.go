package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHeader is returned for CSV input without a header row.
var ErrNoHeader = errors.New("csv has no header row")

// ReadCSV parses comma separated input whose first record is the header.
// Every record must have as many fields as the header.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	f := New(header...)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		row := make([]Value, len(record))
		for i, field := range record {
			row[i] = Parse(field)
		}
		if err := f.AddRow(row...); err != nil {
			return nil, err
		}
	}
	return f, nil
}
