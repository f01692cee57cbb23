package resolve

import (
	"testing"

	"gndfinder/internal/record"
)

func rec(id, search, possible string) record.Record {
	return record.Record{
		FirstName:      "Test",
		LastName:       "Person",
		GNDID:          id,
		GNDIDSearch:    search,
		PossibleGNDIDs: possible,
	}
}

func TestRecordTable(t *testing.T) {
	tests := []struct {
		name         string
		in           record.Record
		wantID       string
		wantPossible string
		wantOutcome  Outcome
	}{
		{
			name:        "agreeing prior and search",
			in:          rec("118500775", "118500775", "118500775, 123456789"),
			wantID:      "118500775",
			wantOutcome: OutcomeConfirmed,
		},
		{
			name:        "empty prior adopts search",
			in:          rec("", "GND123", "GND999"),
			wantID:      "GND123",
			wantOutcome: OutcomeAdopted,
		},
		{
			name:        "short prior replaced by search",
			in:          rec("ABC", "GND456XYZ", ""),
			wantID:      "GND456XYZ",
			wantOutcome: OutcomeReplaced,
		},
		{
			name:         "ambiguous candidates retained",
			in:           rec("", "", "GND777, GND888"),
			wantPossible: "GND777, GND888",
			wantOutcome:  OutcomeAmbiguous,
		},
		{
			name:        "nothing known",
			in:          rec("", "", ""),
			wantOutcome: OutcomeUnmatched,
		},
		{
			name:        "whitespace is trimmed",
			in:          rec("  ", " 118505114 ", "  "),
			wantID:      "118505114",
			wantOutcome: OutcomeAdopted,
		},
		{
			name:        "valid prior kept without search",
			in:          rec("118611070", "", "118500775"),
			wantID:      "118611070",
			wantOutcome: OutcomeKept,
		},
		{
			name:        "valid prior kept against disagreeing search",
			in:          rec("118611070", "118500775", ""),
			wantID:      "118611070",
			wantOutcome: OutcomeConflict,
		},
		{
			name:         "multiple search values never collapse",
			in:           rec("", "118500775, 118505114", "118599999"),
			wantPossible: "118599999",
			wantOutcome:  OutcomeAmbiguous,
		},
		{
			name:         "short prior with ambiguous search is dropped",
			in:           rec("123", "118500775; 118505114", "118599999"),
			wantPossible: "118599999",
			wantOutcome:  OutcomeAmbiguous,
		},
		{
			name:        "short prior without search is dropped",
			in:          rec("ABC", "", ""),
			wantOutcome: OutcomeUnmatched,
		},
		{
			name:        "possible duplicating the prior is cleared",
			in:          rec("118500775", "", "118500775"),
			wantID:      "118500775",
			wantOutcome: OutcomeKept,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Record(tt.in)
			if got.Record.GNDID != tt.wantID {
				t.Errorf("gnd_id = %q, want %q", got.Record.GNDID, tt.wantID)
			}
			if got.Record.PossibleGNDIDs != tt.wantPossible {
				t.Errorf("possible_gnd_ids = %q, want %q", got.Record.PossibleGNDIDs, tt.wantPossible)
			}
			if got.Outcome != tt.wantOutcome {
				t.Errorf("outcome = %s, want %s", got.Outcome, tt.wantOutcome)
			}
			if got.Record.FirstName != tt.in.FirstName || got.Record.LastName != tt.in.LastName {
				t.Errorf("input fields modified: %+v", got.Record)
			}
		})
	}
}

func TestRecordKeepsSearchColumn(t *testing.T) {
	got := Record(rec("", " 118500775 ", ""))
	if got.Record.GNDIDSearch != "118500775" {
		t.Fatalf("gnd_id_search = %q", got.Record.GNDIDSearch)
	}
}

func TestRecordsInvariants(t *testing.T) {
	ids := []string{"", "ABC", "GND123", "118500775", "118505114", " 118500775 "}
	lists := []string{"", "118500775", "GND777, GND888", "118500775, 118505114"}

	var inputs []record.Record
	for _, id := range ids {
		for _, search := range lists {
			for _, possible := range lists {
				inputs = append(inputs, rec(id, search, possible))
			}
		}
	}

	once, stats := Records(inputs)
	twice, _ := Records(once)

	if stats.Total() != len(inputs) {
		t.Fatalf("stats total = %d, want %d", stats.Total(), len(inputs))
	}
	for i := range inputs {
		if once[i].GNDID != "" && once[i].PossibleGNDIDs != "" {
			t.Fatalf("input %+v: both gnd_id and possible_gnd_ids populated: %+v", inputs[i], once[i])
		}
		if once[i] != twice[i] {
			t.Fatalf("input %+v: not idempotent: %+v then %+v", inputs[i], once[i], twice[i])
		}
		if _, single := record.ParseIDSet(inputs[i].GNDIDSearch).Single(); single && once[i].GNDID == "" {
			t.Fatalf("input %+v: unambiguous search left gnd_id empty", inputs[i])
		}
	}
}

func TestRecordsDoesNotMutateInput(t *testing.T) {
	in := []record.Record{rec("", "GND123", "GND999")}
	out, _ := Records(in)
	if in[0].GNDID != "" || in[0].PossibleGNDIDs != "GND999" {
		t.Fatalf("input mutated: %+v", in[0])
	}
	if out[0].GNDID != "GND123" {
		t.Fatalf("unexpected output %+v", out[0])
	}
}

func TestTableResolvesInPlace(t *testing.T) {
	table, err := record.NewTable(
		[]string{"first_name", "last_name", "gnd_id", "gnd_id_search", "possible_gnd_ids", "notes"},
		[][]string{
			{"Clara", "Schumann", "", "118611070", "", "keep me"},
			{"Anon", "Ymous", "", "", "GND777, GND888", ""},
		},
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	stats := Table(table)
	rows := table.Rows()
	if rows[0][2] != "118611070" || rows[0][5] != "keep me" {
		t.Fatalf("unexpected first row %v", rows[0])
	}
	if rows[1][2] != "" || rows[1][4] != "GND777, GND888" {
		t.Fatalf("unexpected second row %v", rows[1])
	}
	if stats[OutcomeAdopted] != 1 || stats[OutcomeAmbiguous] != 1 {
		t.Fatalf("unexpected stats %v", stats)
	}
	if stats.Resolved() != 1 || stats.Review() != 1 {
		t.Fatalf("Resolved=%d Review=%d", stats.Resolved(), stats.Review())
	}
}

func TestOutcomeString(t *testing.T) {
	if OutcomeConflict.String() != "conflict" || Outcome(42).String() != "unknown" {
		t.Fatal("unexpected outcome names")
	}
	if !OutcomeAmbiguous.NeedsReview() || OutcomeConfirmed.NeedsReview() {
		t.Fatal("unexpected review flags")
	}
	if len(Outcomes()) != len(outcomeNames) {
		t.Fatal("Outcomes() must list every outcome")
	}
}
