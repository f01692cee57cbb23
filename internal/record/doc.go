// Package record models the person table that gndfinder enriches.
//
// Cells are normalized once at ingestion: spreadsheet "missing" markers
// (empty, NaN, None, null) become an explicit Optional so downstream code
// never has to guess whether a value is absent. Identifier columns holding
// several GND IDs are handled through IDSet, which parses ", " or ";" joined
// lists and renders them back in a stable order.
package record
