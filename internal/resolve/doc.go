// Package resolve reconciles the three identifier columns of a record into a
// single authoritative GND ID.
//
// Resolution is a pure, total function of gnd_id, gnd_id_search, and
// possible_gnd_ids: it never performs I/O, never fails, and applying it twice
// yields the same table as applying it once. Each record also receives an
// Outcome so callers can summarise a run and pick out rows that still need a
// human decision.
package resolve
