package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gndfinder/internal/resolve"
	"gndfinder/internal/tablefile"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "resolve <input.csv>",
		Short: "Finalize gnd_id from existing search columns without network access",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			output := strings.TrimSpace(outputPath)
			if output == "" {
				output = input
			}

			lock, err := tablefile.Acquire(output)
			if err != nil {
				return err
			}
			defer lock.Release()

			table, err := tablefile.Read(input)
			if err != nil {
				return err
			}
			stats := resolve.Table(table)
			if err := tablefile.Write(output, table); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			if logger, err := ctx.ensureLogger(); err == nil {
				logger.Info("gnd_id resolved",
					"records", stats.Total(),
					"needs_review", stats.Review(),
					"output", output,
				)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, outcomeTable(stats))
			fmt.Fprintln(out, renderStatusLine("Output", statusOK, output, colorize))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output CSV path (default: rewrite input in place)")
	return cmd
}
