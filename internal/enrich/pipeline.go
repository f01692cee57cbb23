package enrich

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gndfinder/internal/gnd"
	"gndfinder/internal/logging"
	"gndfinder/internal/metrics"
	"gndfinder/internal/record"
	"gndfinder/internal/resolve"
	"gndfinder/internal/services"
)

// Searcher is the lookup surface the pipeline needs.
type Searcher interface {
	Search(ctx context.Context, q gnd.Query, professions []string) (record.IDSet, error)
	SearchCandidates(ctx context.Context, name, excludeID string) (record.IDSet, error)
}

// ProgressFunc receives the number of records looked up so far. Calls are
// serialized.
type ProgressFunc func(done, total int)

// Options configures a Pipeline.
type Options struct {
	Professions []string
	// Workers bounds concurrent lookups. Values below one mean sequential.
	Workers  int
	Resolve  bool
	RunID    string
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Progress ProgressFunc
}

// Pipeline enriches tables with GND identifiers.
type Pipeline struct {
	searcher    Searcher
	professions []string
	workers     int
	resolve     bool
	runID       string
	logger      *slog.Logger
	metrics     *metrics.Metrics
	progress    ProgressFunc
}

// New creates a Pipeline around searcher.
func New(searcher Searcher, opts Options) *Pipeline {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Pipeline{
		searcher:    searcher,
		professions: append([]string(nil), opts.Professions...),
		workers:     max(opts.Workers, 1),
		resolve:     opts.Resolve,
		runID:       runID,
		logger:      logging.NewComponentLogger(opts.Logger, "enrich"),
		metrics:     opts.Metrics,
		progress:    opts.Progress,
	}
}

// RunID identifies the run in logs and summaries.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Run looks up every record of table, writes gnd_id_search and
// possible_gnd_ids back, and resolves gnd_id when enabled. The table is only
// modified when Run succeeds. Per-record lookup failures never fail the run;
// cancellation does.
func (p *Pipeline) Run(ctx context.Context, table *record.Table) (Summary, error) {
	start := time.Now()
	ctx = services.WithRunID(ctx, p.runID)
	logger := logging.WithContext(ctx, p.logger)

	records := table.Records()
	total := len(records)
	summary := Summary{RunID: p.runID, Records: total}
	logger.Info("lookup pass started",
		logging.Int("records", total),
		logging.Int("workers", p.workers),
		logging.String(logging.FieldEventType, "lookup_started"),
	)

	results := make([]record.Record, total)
	kinds := make([]Result, total)
	var (
		mu      sync.Mutex
		done    int
		sampler = logging.NewProgressSampler(10)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, kind, err := p.lookup(gctx, i, records[i])
			if err != nil {
				return err
			}
			results[i] = rec
			kinds[i] = kind

			mu.Lock()
			defer mu.Unlock()
			done++
			if p.progress != nil {
				p.progress(done, total)
			}
			if sampler.ShouldLog(done, total) {
				logger.Info("lookup progress",
					logging.Int("done", done),
					logging.Int("total", total),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	table.SetRecords(results)
	for _, kind := range kinds {
		summary.add(kind)
		p.metrics.IncrementLookup(kind.String())
	}
	if summary.Matched == 0 && total > 0 {
		logging.WarnWithContext(logger, "No GND IDs found for any entry", "nothing_found",
			logging.Int("records", total),
			logging.String(logging.FieldErrorHint, "check the professions list and the GND base URL"),
		)
	}

	if p.resolve {
		summary.Resolved = true
		summary.Outcomes = resolve.Table(table)
		for _, outcome := range resolve.Outcomes() {
			p.metrics.AddResolutions(outcome.String(), summary.Outcomes[outcome])
		}
		logger.Info("gnd_id resolved",
			logging.Int("resolved", summary.Outcomes.Resolved()),
			logging.Int("needs_review", summary.Outcomes.Review()),
			logging.String(logging.FieldEventType, "resolve_completed"),
		)
	}

	summary.Duration = time.Since(start)
	p.metrics.SetRunDuration(summary.Duration)
	logger.Info("lookup pass completed",
		logging.Int("records", total),
		logging.Int("matched", summary.Matched),
		logging.Int("candidates", summary.Candidates),
		logging.Int("unmatched", summary.Unmatched),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", summary.Duration),
		logging.String(logging.FieldEventType, "lookup_completed"),
	)
	return summary, nil
}

// lookup searches one record. Only errors that must abort the run are
// returned; everything else is logged and degrades to no match.
func (p *Pipeline) lookup(ctx context.Context, row int, rec record.Record) (record.Record, Result, error) {
	name := rec.Name()
	ctx = services.WithQuery(services.WithRowIndex(ctx, row), name)
	logger := logging.WithContext(ctx, p.logger)

	rec.GNDIDSearch = ""
	rec.PossibleGNDIDs = ""
	if name == "" {
		logger.Info("record has no name; skipping lookup")
		return rec, ResultSkipped, nil
	}

	failed := false
	ids, err := p.searcher.Search(ctx, gnd.Query{Name: name, BirthYear: rec.BirthYear}, p.professions)
	if err != nil {
		if !services.Degradable(err) {
			return rec, ResultFailed, err
		}
		failed = true
		p.logFailure(logger, "search", err)
	}
	if !ids.Empty() {
		rec.GNDIDSearch = ids.String()
		return rec, ResultMatched, nil
	}

	candidates, err := p.searcher.SearchCandidates(ctx, name, rec.GNDID)
	if err != nil {
		if !services.Degradable(err) {
			return rec, ResultFailed, err
		}
		failed = true
		p.logFailure(logger, "candidates", err)
	}
	rec.PossibleGNDIDs = candidates.String()
	logger.Info("No GND IDs found",
		logging.Int("candidates", candidates.Len()),
	)

	switch {
	case !candidates.Empty():
		return rec, ResultCandidates, nil
	case failed:
		return rec, ResultFailed, nil
	default:
		return rec, ResultUnmatched, nil
	}
}

func (p *Pipeline) logFailure(logger *slog.Logger, kind string, err error) {
	logging.ErrorWithContext(logger, "Failed to fetch data from GND API", "lookup_failed",
		logging.String("kind", kind),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check network access to the GND API or raise lookup.max_attempts"),
		logging.String(logging.FieldImpact, "record treated as no match"),
	)
}
