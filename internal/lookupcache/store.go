package lookupcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	_ "modernc.org/sqlite"

	"gndfinder/internal/config"
	"gndfinder/internal/logging"
)

// Cache tiers and results reported to the Recorder.
const (
	TierMemory = "memory"
	TierSQLite = "sqlite"

	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Recorder receives cache hit/miss telemetry.
type Recorder interface {
	ObserveCache(tier, result string)
}

// Options tunes a Store.
type Options struct {
	// TTL bounds how long persisted entries are served. Zero keeps them forever.
	TTL time.Duration
	// MemoryTTL bounds the in-memory tier. Zero keeps entries for the life of
	// the process.
	MemoryTTL time.Duration
	Logger    *slog.Logger
	Recorder  Recorder
}

// Store is a two-tier response cache.
type Store struct {
	db       *sql.DB
	path     string
	ttl      time.Duration
	memory   *gocache.Cache
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
}

// Stats summarizes the persisted cache contents.
type Stats struct {
	Path    string
	Entries int
	Expired int
	Bytes   int64
	Oldest  time.Time
	Newest  time.Time
}

// Open creates or connects to the cache database at path.
func Open(path string, opts Options) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("lookupcache: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("lookupcache: ensure directory: %w", err)
	}
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("lookupcache: %w", err)
	}

	memoryTTL := opts.MemoryTTL
	if memoryTTL <= 0 {
		memoryTTL = gocache.NoExpiration
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Store{
		db:       db,
		path:     path,
		ttl:      max(opts.TTL, 0),
		// No janitor goroutine; expired entries are skipped on read.
		memory:   gocache.New(memoryTTL, 0),
		logger:   logging.NewComponentLogger(opts.Logger, "lookupcache"),
		recorder: recorder,
		now:      time.Now,
	}, nil
}

// OpenFromConfig opens the store described by cfg.Cache. It returns nil
// without error when caching is disabled.
func OpenFromConfig(cfg *config.Config, logger *slog.Logger, recorder Recorder) (*Store, error) {
	if cfg == nil || !cfg.Cache.Enabled {
		return nil, nil
	}
	return Open(cfg.Cache.Path, Options{
		TTL:       cfg.CacheTTL(),
		MemoryTTL: cfg.MemoryCacheTTL(),
		Logger:    logger,
		Recorder:  recorder,
	})
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached body for key. Errors are logged and reported as a miss.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	if s == nil {
		return nil, false
	}
	if value, ok := s.memory.Get(key); ok {
		if body, ok := value.([]byte); ok {
			s.recorder.ObserveCache(TierMemory, ResultHit)
			return body, true
		}
	}
	s.recorder.ObserveCache(TierMemory, ResultMiss)

	var (
		body     []byte
		storedAt int64
	)
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT body, stored_at FROM lookup_responses WHERE request_key = ?", key,
		).Scan(&body, &storedAt)
	})
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("lookup cache read failed; treating as miss",
				logging.String("key", key),
				logging.Error(err),
			)
		}
		s.recorder.ObserveCache(TierSQLite, ResultMiss)
		return nil, false
	}
	if s.expired(storedAt) {
		s.recorder.ObserveCache(TierSQLite, ResultMiss)
		return nil, false
	}
	s.recorder.ObserveCache(TierSQLite, ResultHit)
	s.memory.SetDefault(key, body)
	return body, true
}

// Put stores body under key in both tiers.
func (s *Store) Put(ctx context.Context, key string, body []byte) {
	if s == nil {
		return
	}
	s.memory.SetDefault(key, body)
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO lookup_responses (request_key, body, stored_at) VALUES (?, ?, ?)
             ON CONFLICT(request_key) DO UPDATE SET body = excluded.body, stored_at = excluded.stored_at`,
			key, body, s.now().Unix(),
		)
		return err
	})
	if err != nil {
		s.logger.Warn("lookup cache write failed",
			logging.String("key", key),
			logging.Error(err),
			logging.String(logging.FieldImpact, "response will be fetched again on the next run"),
		)
	}
}

// Stats reports entry counts and age bounds of the persisted tier.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.path}
	var (
		oldest sql.NullInt64
		newest sql.NullInt64
		bytes  sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1), MIN(stored_at), MAX(stored_at), SUM(LENGTH(body)) FROM lookup_responses",
	).Scan(&stats.Entries, &oldest, &newest, &bytes)
	if err != nil {
		return Stats{}, fmt.Errorf("lookupcache: stats: %w", err)
	}
	if oldest.Valid {
		stats.Oldest = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		stats.Newest = time.Unix(newest.Int64, 0)
	}
	stats.Bytes = bytes.Int64
	if s.ttl > 0 {
		if err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM lookup_responses WHERE stored_at < ?", s.cutoff(),
		).Scan(&stats.Expired); err != nil {
			return Stats{}, fmt.Errorf("lookupcache: stats: %w", err)
		}
	}
	return stats, nil
}

// Prune removes expired entries and returns how many were deleted.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	return s.deleteWhere(ctx, "DELETE FROM lookup_responses WHERE stored_at < ?", s.cutoff())
}

// Clear removes every entry from both tiers.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	s.memory.Flush()
	return s.deleteWhere(ctx, "DELETE FROM lookup_responses")
}

func (s *Store) deleteWhere(ctx context.Context, query string, args ...any) (int64, error) {
	var res sql.Result
	if err := retryOnBusy(ctx, func() error {
		var err error
		res, err = s.db.ExecContext(ctx, query, args...)
		return err
	}); err != nil {
		return 0, fmt.Errorf("lookupcache: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("lookupcache: rows affected: %w", err)
	}
	return n, nil
}

func (s *Store) cutoff() int64 {
	return s.now().Add(-s.ttl).Unix()
}

func (s *Store) expired(storedAt int64) bool {
	return s.ttl > 0 && storedAt < s.cutoff()
}

type nopRecorder struct{}

func (nopRecorder) ObserveCache(string, string) {}
