package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gndfinder/internal/gnd"
	"gndfinder/internal/record"
)

type searchOutput struct {
	Query string   `json:"query"`
	Kind  string   `json:"kind"`
	IDs   []string `json:"ids"`
	Error string   `json:"error,omitempty"`
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		birthYear  string
		candidates bool
		exclude    string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "search <name...>",
		Short: "Look up a single person",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, _, err := ctx.newClient(nil)
			if err != nil {
				return err
			}

			query := gnd.Query{Name: strings.Join(args, " "), BirthYear: record.ParseCell(birthYear)}
			var (
				ids  record.IDSet
				kind = gnd.KindSearch
			)
			if candidates {
				kind = gnd.KindCandidates
				ids, err = client.SearchCandidates(cmd.Context(), query.Name, exclude)
			} else {
				ids, err = client.Search(cmd.Context(), query, cfg.GND.Professions)
			}
			if cmd.Context().Err() != nil {
				return cmd.Context().Err()
			}

			if jsonOut {
				payload := searchOutput{Query: query.Text(), Kind: kind, IDs: ids.Slice()}
				if err != nil {
					payload.Error = err.Error()
				}
				return writeJSON(cmd, payload)
			}
			out := cmd.OutOrStdout()
			for _, id := range ids.Slice() {
				fmt.Fprintln(out, id)
			}
			if err != nil {
				return fmt.Errorf("search %q: %w", query.Text(), err)
			}
			if ids.Empty() {
				fmt.Fprintf(cmd.ErrOrStderr(), "No GND IDs found for %q\n", query.Text())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&birthYear, "birth-year", "b", "", "Birth year or date to qualify the search")
	cmd.Flags().BoolVar(&candidates, "candidates", false, "Return every identifier for the name regardless of profession")
	cmd.Flags().StringVar(&exclude, "exclude", "", "Identifier to leave out of --candidates results")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as JSON")
	return cmd
}
