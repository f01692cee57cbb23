package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gndfinder/internal/enrich"
	"gndfinder/internal/logging"
	"gndfinder/internal/metrics"
	"gndfinder/internal/tablefile"
)

type enrichOutput struct {
	RunID      string         `json:"run_id"`
	Input      string         `json:"input"`
	Output     string         `json:"output"`
	Records    int            `json:"records"`
	Matched    int            `json:"matched"`
	Candidates int            `json:"candidates"`
	Unmatched  int            `json:"unmatched"`
	Failed     int            `json:"failed"`
	Skipped    int            `json:"skipped"`
	Resolved   bool           `json:"resolved"`
	Outcomes   map[string]int `json:"outcomes,omitempty"`
	DurationMS int64          `json:"duration_ms"`
}

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var (
		outputPath string
		noResolve  bool
		workers    int
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "enrich <input.csv>",
		Short: "Look up GND identifiers for every row of a table",
		Long: "Searches the GND for each person (name plus birth year, falling back to the name alone),\n" +
			"fills gnd_id_search and possible_gnd_ids, and resolves gnd_id unless --no-resolve is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			input := args[0]
			output := strings.TrimSpace(outputPath)
			if output == "" {
				output = defaultOutputPath(input)
			}
			if workers > 0 {
				cfg.Lookup.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return err
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

			m := metrics.New()
			client, logger, err := ctx.newClient(m)
			if err != nil {
				return err
			}
			progress := newProgressLine(cmd.ErrOrStderr(), "Looking up")
			pipeline := enrich.New(client, enrich.Options{
				Professions: cfg.GND.Professions,
				Workers:     cfg.Lookup.Workers,
				Resolve:     cfg.Lookup.Resolve && !noResolve,
				Logger:      logger,
				Metrics:     m,
				Progress:    progress.update,
			})
			summary, err := pipeline.Run(cmd.Context(), table)
			if err != nil {
				return fmt.Errorf("enrich %s: %w", input, err)
			}
			if err := tablefile.Write(output, table); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				logging.WarnWithContext(logger, "metrics export failed", "metrics_export_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "run metrics not published"),
				)
			}

			if jsonOut {
				return writeJSON(cmd, newEnrichOutput(input, output, summary))
			}
			printEnrichSummary(cmd, input, output, summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output CSV path (default <input>.gnd.csv)")
	cmd.Flags().BoolVar(&noResolve, "no-resolve", false, "Skip the gnd_id resolution pass")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent lookups (overrides lookup.workers)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the run summary as JSON")
	return cmd
}

func newEnrichOutput(input, output string, s enrich.Summary) enrichOutput {
	out := enrichOutput{
		RunID:      s.RunID,
		Input:      input,
		Output:     output,
		Records:    s.Records,
		Matched:    s.Matched,
		Candidates: s.Candidates,
		Unmatched:  s.Unmatched,
		Failed:     s.Failed,
		Skipped:    s.Skipped,
		Resolved:   s.Resolved,
		DurationMS: s.Duration.Milliseconds(),
	}
	if s.Resolved {
		out.Outcomes = make(map[string]int, len(s.Outcomes))
		for outcome, n := range s.Outcomes {
			out.Outcomes[outcome.String()] = n
		}
	}
	return out
}

func printEnrichSummary(cmd *cobra.Command, input, output string, s enrich.Summary) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	lookupKind := statusOK
	if s.Matched == 0 && s.Records > 0 {
		lookupKind = statusWarn
	}
	failedKind := statusOK
	if s.Failed > 0 {
		failedKind = statusError
	}

	fmt.Fprintf(out, "%s\n", renderStatusLine("Input", statusInfo, fmt.Sprintf("%s (%s)", input, pluralize(s.Records, "record")), colorize))
	fmt.Fprintf(out, "%s\n", renderStatusLine("Matched", lookupKind, strconv.Itoa(s.Matched), colorize))
	fmt.Fprintf(out, "%s\n", renderStatusLine("Candidates", statusInfo, strconv.Itoa(s.Candidates), colorize))
	fmt.Fprintf(out, "%s\n", renderStatusLine("Unmatched", statusInfo, strconv.Itoa(s.Unmatched+s.Skipped), colorize))
	fmt.Fprintf(out, "%s\n", renderStatusLine("Failed", failedKind, strconv.Itoa(s.Failed), colorize))
	fmt.Fprintf(out, "%s\n", renderStatusLine("Output", statusOK, output, colorize))
	fmt.Fprintf(out, "%s\n", renderStatusLine("Elapsed", statusInfo, s.Duration.Round(time.Millisecond).String(), colorize))

	if !s.Resolved {
		return
	}
	fmt.Fprintln(out)
	for _, line := range renderSectionHeader("Resolution", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, outcomeTable(s.Outcomes))
	if review := s.Outcomes.Review(); review > 0 {
		fmt.Fprintf(out, "%s\n", renderStatusLine("Review", statusWarn,
			fmt.Sprintf("%s need attention (gndfinder review %s)", pluralize(review, "record"), output), colorize))
	}
}
