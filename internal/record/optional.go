package record

import "strings"

// Optional is a cell value that may be absent. The zero value is absent.
type Optional struct {
	value string
	set   bool
}

// Some returns a present value. Whitespace is trimmed; a blank string is
// still treated as absent.
func Some(value string) Optional {
	value = strings.TrimSpace(value)
	if value == "" {
		return Optional{}
	}
	return Optional{value: value, set: true}
}

// None returns an absent value.
func None() Optional {
	return Optional{}
}

// ParseCell normalizes a raw table cell, mapping the missing-value markers
// commonly written by spreadsheet and dataframe exports to None.
func ParseCell(raw string) Optional {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "", "nan", "none", "null", "na", "n/a", "<na>", "nat":
		return None()
	}
	return Optional{value: trimmed, set: true}
}

// Get returns the value and whether it is present.
func (o Optional) Get() (string, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is present.
func (o Optional) IsSet() bool {
	return o.set
}

// OrEmpty returns the value or the empty string.
func (o Optional) OrEmpty() string {
	return o.value
}
