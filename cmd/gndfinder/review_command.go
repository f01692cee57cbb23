package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gndfinder/internal/record"
	"gndfinder/internal/resolve"
	"gndfinder/internal/tablefile"
)

type reviewItem struct {
	Row            int    `json:"row"`
	Name           string `json:"name"`
	BirthYear      string `json:"birth_year,omitempty"`
	GNDID          string `json:"gnd_id,omitempty"`
	GNDIDSearch    string `json:"gnd_id_search,omitempty"`
	PossibleGNDIDs string `json:"possible_gnd_ids,omitempty"`
	Outcome        string `json:"outcome"`
}

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:         "review <file.csv>",
		Short:       "List rows whose identifier needs a manual decision",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := tablefile.Read(args[0])
			if err != nil {
				return err
			}
			items := reviewItems(table)

			if jsonOut {
				return writeJSON(cmd, items)
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, renderStatusLine("Review", statusOK, "no rows need attention", shouldColorize(out)))
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					strconv.Itoa(item.Row),
					item.Name,
					item.BirthYear,
					item.GNDID,
					item.GNDIDSearch,
					item.PossibleGNDIDs,
					displayLabel(item.Outcome),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Row", "Name", "Born", "gnd_id", "gnd_id_search", "possible_gnd_ids", "Outcome"},
				rows,
				[]columnAlignment{alignRight},
			))
			fmt.Fprintln(out, renderStatusLine("Review", statusWarn, pluralize(len(items), "record")+" need attention", shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print rows as JSON")
	return cmd
}

// reviewItems classifies each row as the resolver would and keeps those that
// need a person to decide. Row numbers are 1-based data rows.
func reviewItems(table *record.Table) []reviewItem {
	var items []reviewItem
	for i, rec := range table.Records() {
		result := resolve.Record(rec)
		if !result.Outcome.NeedsReview() {
			continue
		}
		items = append(items, reviewItem{
			Row:            i + 1,
			Name:           rec.Name(),
			BirthYear:      rec.BirthYear.OrEmpty(),
			GNDID:          result.Record.GNDID,
			GNDIDSearch:    result.Record.GNDIDSearch,
			PossibleGNDIDs: result.Record.PossibleGNDIDs,
			Outcome:        result.Outcome.String(),
		})
	}
	return items
}
