package record

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Column names read from and written to the table.
const (
	ColumnFirstName      = "first_name"
	ColumnLastName       = "last_name"
	ColumnBirthYear      = "birth_year"
	ColumnGNDID          = "gnd_id"
	ColumnGNDIDSearch    = "gnd_id_search"
	ColumnPossibleGNDIDs = "possible_gnd_ids"
)

// Record is one person row. Name and birth-year fields are input only; the
// three identifier fields are always normalized strings (absent is "").
type Record struct {
	FirstName      string
	LastName       string
	BirthYear      Optional
	GNDID          string
	GNDIDSearch    string
	PossibleGNDIDs string
}

// Name returns "first last" with surrounding whitespace removed and Unicode
// composed (NFC) so decomposed umlauts from spreadsheet exports query cleanly.
func (r Record) Name() string {
	parts := make([]string, 0, 2)
	for _, part := range []string{r.FirstName, r.LastName} {
		if part = strings.Join(strings.Fields(part), " "); part != "" {
			parts = append(parts, part)
		}
	}
	return norm.NFC.String(strings.Join(parts, " "))
}

// Normalized returns a copy with every identifier field trimmed.
func (r Record) Normalized() Record {
	r.GNDID = ParseCell(r.GNDID).OrEmpty()
	r.GNDIDSearch = ParseCell(r.GNDIDSearch).OrEmpty()
	r.PossibleGNDIDs = ParseCell(r.PossibleGNDIDs).OrEmpty()
	return r
}
