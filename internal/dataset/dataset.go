package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Row maps a column name to its raw string value as read from the source.
type Row map[string]string

// Table is an in-memory tabular dataset: an ordered header plus data rows.
// Column names are treated case-sensitively.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// ReadCSV parses column-delimited text into a Table. The first record is the
// header; rows shorter than the header are padded with empty strings. A file
// containing only a header (or nothing at all after the header) yields a Table
// with columns but no rows.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, we pad below

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return Table{}, fmt.Errorf("csv input is empty: missing header row")
		}
		return Table{}, fmt.Errorf("failed to read header row: %w", err)
	}

	table := Table{Columns: headers, Rows: make([]Row, 0)}
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Table{}, fmt.Errorf("failed to read row %d: %w", len(table.Rows)+2, err)
		}

		row := make(Row, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// WriteCSV serializes the table as column-delimited text, header first. Values
// missing from a row are written as empty strings.
func (t Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, col := range t.Columns {
			record[j] = row[col]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Head returns a copy of the table truncated to at most n rows. The row maps
// themselves are shared, not copied; callers must not mutate them.
func (t Table) Head(n int) Table {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return Table{Columns: t.Columns, Rows: t.Rows[:n]}
}
