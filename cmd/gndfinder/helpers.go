package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gndfinder/internal/resolve"
)

// defaultOutputPath derives "<name>.gnd.csv" next to the input file.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".gnd" + extOrCSV(ext)
}

func extOrCSV(ext string) string {
	if ext == "" {
		return ".csv"
	}
	return ext
}

func displayLabel(value string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(value, "_", " "))
}

// outcomeRows renders resolution counts in display order, skipping zeros.
func outcomeRows(stats resolve.Stats) [][]string {
	rows := make([][]string, 0, len(stats))
	for _, outcome := range resolve.Outcomes() {
		n := stats[outcome]
		if n == 0 {
			continue
		}
		review := ""
		if outcome.NeedsReview() {
			review = "yes"
		}
		rows = append(rows, []string{displayLabel(outcome.String()), strconv.Itoa(n), review})
	}
	return rows
}

func outcomeTable(stats resolve.Stats) string {
	return renderTable(
		[]string{"Outcome", "Records", "Review"},
		outcomeRows(stats),
		[]columnAlignment{alignLeft, alignRight, alignLeft},
		"Total", strconv.Itoa(stats.Total()), strconv.Itoa(stats.Review()),
	)
}

func pluralize(n int, singular string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %ss", n, singular)
}

// writeJSON prints v as indented JSON. HTML escaping is off so names with
// ampersands survive unchanged.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
