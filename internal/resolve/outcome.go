package resolve

// Outcome classifies how a record's authoritative identifier was determined.
type Outcome int

const (
	// OutcomeUnmatched means no identifier and no candidates are known.
	OutcomeUnmatched Outcome = iota
	// OutcomeAmbiguous means no identifier was chosen but candidates remain
	// for manual review.
	OutcomeAmbiguous
	// OutcomeConfirmed means the prior identifier and the search agree.
	OutcomeConfirmed
	// OutcomeAdopted means the identifier was taken from the search result.
	OutcomeAdopted
	// OutcomeReplaced means a malformed prior identifier was replaced.
	OutcomeReplaced
	// OutcomeKept means a prior identifier was kept with no search evidence.
	OutcomeKept
	// OutcomeConflict means the prior identifier was kept although the search
	// found something else.
	OutcomeConflict
)

var outcomeNames = [...]string{
	OutcomeUnmatched: "unmatched",
	OutcomeAmbiguous: "ambiguous",
	OutcomeConfirmed: "confirmed",
	OutcomeAdopted:   "adopted",
	OutcomeReplaced:  "replaced",
	OutcomeKept:      "kept",
	OutcomeConflict:  "conflict",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// NeedsReview reports whether a person should look at the record.
func (o Outcome) NeedsReview() bool {
	return o == OutcomeAmbiguous || o == OutcomeConflict
}

// Outcomes lists every outcome in display order.
func Outcomes() []Outcome {
	return []Outcome{
		OutcomeConfirmed,
		OutcomeAdopted,
		OutcomeReplaced,
		OutcomeKept,
		OutcomeConflict,
		OutcomeAmbiguous,
		OutcomeUnmatched,
	}
}

// Stats counts outcomes over a table.
type Stats map[Outcome]int

// Total returns the number of records counted.
func (s Stats) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Resolved returns the number of records that ended with an identifier.
func (s Stats) Resolved() int {
	return s[OutcomeConfirmed] + s[OutcomeAdopted] + s[OutcomeReplaced] + s[OutcomeKept] + s[OutcomeConflict]
}

// Review returns the number of records flagged for manual review.
func (s Stats) Review() int {
	return s[OutcomeAmbiguous] + s[OutcomeConflict]
}
