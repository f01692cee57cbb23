package resolve

import (
	"strings"

	"gndfinder/internal/record"
)

// MinIdentifierLength is the shortest gnd_id accepted as plausible. Shorter
// prior values are treated as data-entry errors and replaced by the search.
const MinIdentifierLength = 9

// Result is a resolved record together with how it was resolved.
type Result struct {
	Record  record.Record
	Outcome Outcome
}

// Records resolves every record and returns new values in the same order.
// The input slice is not modified.
func Records(records []record.Record) ([]record.Record, Stats) {
	out := make([]record.Record, len(records))
	stats := make(Stats)
	for i, rec := range records {
		res := Record(rec)
		out[i] = res.Record
		stats[res.Outcome]++
	}
	return out, stats
}

// Table resolves every row of t in place.
func Table(t *record.Table) Stats {
	resolved, stats := Records(t.Records())
	t.SetRecords(resolved)
	return stats
}

// Record resolves a single record.
//
// The rules, in order:
//  1. trim all three identifier fields;
//  2. a prior gnd_id shorter than MinIdentifierLength is replaced by the
//     search result;
//  3. when gnd_id and gnd_id_search together name exactly one identifier
//     (they agree, or one side is empty) that identifier becomes gnd_id;
//  4. when gnd_id and possible_gnd_ids together name exactly one identifier
//     the candidate list only repeats gnd_id and is cleared;
//  5. an empty gnd_id takes an unambiguous search result;
//  6. a non-empty gnd_id clears possible_gnd_ids.
//
// A gnd_id_search holding several different identifiers never counts as a
// single value: gnd_id stays empty and the candidates stay for review.
func Record(in record.Record) Result {
	rec := in.Normalized()
	prior := rec.GNDID
	search := record.ParseIDSet(rec.GNDIDSearch)
	searchID, searchSingle := search.Single()

	id := rec.GNDID
	replaced := false
	if id != "" && len(id) < MinIdentifierLength {
		id = searchID
		replaced = id != prior
	}

	if single, ok := record.ParseIDSet(id).Union(search).Single(); ok {
		id = single
	}

	possible := rec.PossibleGNDIDs
	if id != "" {
		if _, ok := record.ParseIDSet(id).Union(record.ParseIDSet(possible)).Single(); ok {
			possible = ""
		}
	}

	if id == "" && searchSingle {
		id = searchID
	}

	if id != "" {
		possible = ""
	}

	rec.GNDID = id
	rec.PossibleGNDIDs = possible
	return Result{Record: rec, Outcome: classify(prior, id, possible, search, replaced)}
}

func classify(prior, id, possible string, search record.IDSet, replaced bool) Outcome {
	switch {
	case id == "":
		if strings.TrimSpace(possible) != "" || search.Len() > 1 {
			return OutcomeAmbiguous
		}
		return OutcomeUnmatched
	case replaced:
		return OutcomeReplaced
	case prior == "":
		return OutcomeAdopted
	case search.Empty():
		return OutcomeKept
	case search.Len() == 1 && search.Contains(id):
		return OutcomeConfirmed
	default:
		return OutcomeConflict
	}
}
