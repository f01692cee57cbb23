// Package enrich runs the lookup pass over a table and, optionally, the
// resolution pass that finalizes gnd_id.
//
// Each record is searched by name and birth year; hits populate
// gnd_id_search, otherwise a broader candidate search populates
// possible_gnd_ids. Lookup failures are logged and degrade to "no match" so a
// run always yields one output row per input row. Records may be looked up by
// a bounded pool of workers; results are written back by row index, so the
// output order never depends on scheduling.
package enrich
