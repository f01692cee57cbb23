package main

import (
	"fmt"
	"io"
)

// progressLine redraws a single "looked up N/M" line on a terminal. It is a
// no-op when the writer is not a terminal so piped stderr stays clean.
type progressLine struct {
	out     io.Writer
	enabled bool
	label   string
}

func newProgressLine(out io.Writer, label string) *progressLine {
	return &progressLine{out: out, enabled: isTerminal(out), label: label}
}

func (p *progressLine) update(done, total int) {
	if p == nil || !p.enabled || total <= 0 {
		return
	}
	percent := done * 100 / total
	fmt.Fprintf(p.out, "\r%s %d/%d (%d%%)", p.label, done, total, percent)
	if done >= total {
		fmt.Fprintln(p.out)
	}
}
