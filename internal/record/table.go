package record

import (
	"fmt"
	"strings"
)

// Table holds the raw rows of an input file together with the column layout.
// Columns other than the ones gndfinder knows about are carried through
// untouched.
type Table struct {
	header []string
	rows   [][]string
	cols   map[string]int
}

// NewTable validates the header, appends any missing identifier columns, and
// pads short rows so every row has one cell per column.
func NewTable(header []string, rows [][]string) (*Table, error) {
	t := &Table{
		header: make([]string, 0, len(header)+3),
		cols:   make(map[string]int, len(header)+3),
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := t.cols[name]; dup && name != "" {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		t.cols[name] = i
		t.header = append(t.header, name)
	}
	for _, required := range []string{ColumnFirstName, ColumnLastName} {
		if _, ok := t.cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	for _, output := range []string{ColumnGNDID, ColumnGNDIDSearch, ColumnPossibleGNDIDs} {
		if _, ok := t.cols[output]; !ok {
			t.cols[output] = len(t.header)
			t.header = append(t.header, output)
		}
	}

	t.rows = make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, len(t.header))
		copy(padded, row)
		t.rows[i] = padded
	}
	return t, nil
}

// Header returns the output column order.
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

// Rows returns the cell values, one slice per row, in input order.
func (t *Table) Rows() [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Record reads row i into a normalized Record.
func (t *Table) Record(i int) Record {
	row := t.rows[i]
	return Record{
		FirstName:      t.cell(row, ColumnFirstName).OrEmpty(),
		LastName:       t.cell(row, ColumnLastName).OrEmpty(),
		BirthYear:      t.cell(row, ColumnBirthYear),
		GNDID:          t.cell(row, ColumnGNDID).OrEmpty(),
		GNDIDSearch:    t.cell(row, ColumnGNDIDSearch).OrEmpty(),
		PossibleGNDIDs: t.cell(row, ColumnPossibleGNDIDs).OrEmpty(),
	}
}

// Records reads every row.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.rows))
	for i := range t.rows {
		out[i] = t.Record(i)
	}
	return out
}

// SetIdentifiers writes the identifier fields of rec back into row i. Input
// columns are never modified.
func (t *Table) SetIdentifiers(i int, rec Record) {
	row := t.rows[i]
	row[t.cols[ColumnGNDID]] = rec.GNDID
	row[t.cols[ColumnGNDIDSearch]] = rec.GNDIDSearch
	row[t.cols[ColumnPossibleGNDIDs]] = rec.PossibleGNDIDs
}

// SetRecords writes the identifier fields of every record back. It panics if
// the lengths differ since that would silently drop rows.
func (t *Table) SetRecords(records []Record) {
	if len(records) != len(t.rows) {
		panic(fmt.Sprintf("record: %d records for %d rows", len(records), len(t.rows)))
	}
	for i, rec := range records {
		t.SetIdentifiers(i, rec)
	}
}

func (t *Table) cell(row []string, column string) Optional {
	idx, ok := t.cols[column]
	if !ok || idx >= len(row) {
		return None()
	}
	return ParseCell(row[idx])
}
