// Package tablefile reads and writes the CSV tables gndfinder enriches.
//
// Output files are written atomically through a temp file in the target
// directory so an interrupted run never leaves a truncated table behind.
// Lock guards an output path against concurrent gndfinder runs.
package tablefile
