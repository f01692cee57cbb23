package enrich

import (
	"time"

	"gndfinder/internal/resolve"
)

// Result classifies the lookup pass for one record.
type Result int

const (
	// ResultSkipped means the record had no name to search for.
	ResultSkipped Result = iota
	// ResultMatched means the targeted search found identifiers.
	ResultMatched
	// ResultCandidates means only the broader search found identifiers.
	ResultCandidates
	// ResultUnmatched means neither search found anything.
	ResultUnmatched
	// ResultFailed means a search failed after retries and nothing was found.
	ResultFailed
)

func (r Result) String() string {
	switch r {
	case ResultMatched:
		return "matched"
	case ResultCandidates:
		return "candidates"
	case ResultUnmatched:
		return "unmatched"
	case ResultFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Summary describes a completed run.
type Summary struct {
	RunID      string
	Records    int
	Matched    int
	Candidates int
	Unmatched  int
	Failed     int
	Skipped    int
	// Resolved reports whether the resolution pass ran; Outcomes is empty
	// otherwise.
	Resolved bool
	Outcomes resolve.Stats
	Duration time.Duration
}

func (s *Summary) add(r Result) {
	switch r {
	case ResultMatched:
		s.Matched++
	case ResultCandidates:
		s.Candidates++
	case ResultUnmatched:
		s.Unmatched++
	case ResultFailed:
		s.Failed++
	default:
		s.Skipped++
	}
}
