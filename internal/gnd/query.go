package gnd

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gndfinder/internal/record"
)

var errNoYear = errors.New("no year found")

// birthDateLayouts are tried in order when a birth year is not a bare number.
var birthDateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"02.01.2006",
	"2.1.2006",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
	time.RFC3339,
}

// ParseBirthYear extracts a four-digit year from free text such as "1685",
// "1685.0", "1685-03-21", or "21.03.1685".
func ParseBirthYear(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, errNoYear
	}
	if year, err := strconv.Atoi(value); err == nil {
		return checkYear(year, raw)
	}
	// Numeric columns exported from dataframes arrive as floats.
	if f, err := strconv.ParseFloat(value, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return checkYear(int(f), raw)
	}
	for _, layout := range birthDateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.Year(), nil
		}
	}
	return 0, fmt.Errorf("parse birth year %q: %w", raw, errNoYear)
}

func checkYear(year int, raw string) (int, error) {
	if year < 1 || year > 9999 {
		return 0, fmt.Errorf("parse birth year %q: out of range", raw)
	}
	return year, nil
}

// Query is a single name search, optionally qualified by a birth year.
type Query struct {
	Name      string
	BirthYear record.Optional
}

// Text renders the query string sent to the API. An unparseable birth year is
// passed through verbatim; callers learn about it through YearErr. A query
// without a name renders empty.
func (q Query) Text() string {
	name := strings.Join(strings.Fields(q.Name), " ")
	raw, ok := q.BirthYear.Get()
	if !ok || name == "" {
		return name
	}
	if year, err := ParseBirthYear(raw); err == nil {
		raw = strconv.Itoa(year)
	}
	return name + " " + raw
}

// YearErr reports why the birth year could not be parsed, or nil when it is
// absent or valid.
func (q Query) YearErr() error {
	raw, ok := q.BirthYear.Get()
	if !ok {
		return nil
	}
	_, err := ParseBirthYear(raw)
	return err
}

// WithoutYear returns the name-only form of the query.
func (q Query) WithoutYear() Query {
	return Query{Name: q.Name}
}
