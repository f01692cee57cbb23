package gnd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"gndfinder/internal/logging"
	"gndfinder/internal/record"
	"gndfinder/internal/services"
)

const (
	DefaultBaseURL     = "https://lobid.org/gnd/search"
	defaultUserAgent   = "gndfinder/dev"
	defaultHTTPTimeout = 30 * time.Second
	maxErrorBody       = 4096
	maxResponseBody    = 8 << 20
)

// Request kinds reported to the Recorder.
const (
	KindSearch     = "search"
	KindCandidates = "candidates"
)

// ResponseCache stores raw response bodies keyed by request URL.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, body []byte)
}

// Recorder receives request telemetry.
type Recorder interface {
	ObserveRequest(kind, outcome string, elapsed time.Duration)
	ObserveRetry(kind string)
}

// Config describes the lookup client configuration.
type Config struct {
	BaseURL    string
	UserAgent  string
	PageSize   int
	HTTPClient *http.Client
	Retry      RetryPolicy
	// Limiter paces outgoing requests. Nil disables pacing.
	Limiter  *rate.Limiter
	Cache    ResponseCache
	Logger   *slog.Logger
	Recorder Recorder
}

// Client wraps the GND search endpoint.
type Client struct {
	baseURL   *url.URL
	userAgent string
	pageSize  int
	http      *http.Client
	retry     RetryPolicy
	limiter   *rate.Limiter
	cache     ResponseCache
	logger    *slog.Logger
	recorder  Recorder
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "gnd", "parse base url", base, err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, services.Wrap(services.ErrConfiguration, "gnd", "parse base url", fmt.Sprintf("unsupported scheme %q", baseURL.Scheme), nil)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		pageSize:  max(cfg.PageSize, 0),
		http:      httpClient,
		retry:     cfg.Retry.normalized(),
		limiter:   cfg.Limiter,
		cache:     cfg.Cache,
		logger:    logging.NewComponentLogger(logger, "gnd"),
		recorder:  recorder,
	}, nil
}

// Search looks up identifiers for people named in q whose occupation is one
// of professions. A birth-year search that finds nothing falls back to the
// name alone. Failed lookups degrade to an empty set; the returned error
// describes them for logging and never discards identifiers that were found.
func (c *Client) Search(ctx context.Context, q Query, professions []string) (record.IDSet, error) {
	if c == nil {
		return record.IDSet{}, errors.New("gnd: client is nil")
	}
	logger := logging.WithContext(ctx, c.logger)
	allowed := newProfessionSet(professions)

	var (
		ids  record.IDSet
		errs []error
	)
	if q.BirthYear.IsSet() {
		if err := q.YearErr(); err != nil {
			raw, _ := q.BirthYear.Get()
			logging.WarnWithContext(logger, "invalid birth year; using the provided value as is", "birth_year_invalid",
				logging.String(logging.FieldQuery, strings.TrimSpace(q.Name)),
				logging.String("birth_year", raw),
				logging.String(logging.FieldErrorHint, "check the birth_year column for typos or non-date values"),
			)
		}
		resp, err := c.fetch(ctx, KindSearch, q.Text())
		if err != nil {
			errs = append(errs, err)
		}
		ids = resp.matching(allowed)
	}
	if ids.Empty() {
		resp, err := c.fetch(ctx, KindSearch, q.WithoutYear().Text())
		if err != nil {
			errs = append(errs, err)
		}
		ids = resp.matching(allowed)
	}
	return ids, errors.Join(errs...)
}

// SearchCandidates returns every identifier found for name regardless of
// occupation, minus excludeID when it is non-empty.
func (c *Client) SearchCandidates(ctx context.Context, name, excludeID string) (record.IDSet, error) {
	if c == nil {
		return record.IDSet{}, errors.New("gnd: client is nil")
	}
	resp, err := c.fetch(ctx, KindCandidates, Query{Name: name}.Text())
	ids := resp.all()
	if excludeID = strings.TrimSpace(excludeID); excludeID != "" {
		ids = ids.Without(excludeID)
	}
	return ids, err
}

// RequestURL renders the endpoint for a query string.
func (c *Client) RequestURL(text string) string {
	endpoint := *c.baseURL
	params := endpoint.Query()
	params.Set("q", text)
	params.Set("format", "json")
	if c.pageSize > 0 {
		params.Set("size", strconv.Itoa(c.pageSize))
	}
	endpoint.RawQuery = params.Encode()
	return endpoint.String()
}

func (c *Client) fetch(ctx context.Context, kind, text string) (searchResponse, error) {
	if strings.TrimSpace(text) == "" {
		return searchResponse{}, nil
	}
	endpoint := c.RequestURL(text)
	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, endpoint); ok {
			if payload, err := decodeSearchResponse(body); err == nil {
				return payload, nil
			}
		}
	}

	logger := logging.WithContext(ctx, c.logger)
	start := time.Now()
	var (
		payload searchResponse
		body    []byte
	)
	attempts, err := c.retry.Do(ctx, func(int) error {
		var err error
		body, err = c.get(ctx, endpoint)
		if err != nil {
			return err
		}
		payload, err = decodeSearchResponse(body)
		if err != nil {
			return services.Wrap(services.ErrTransient, "gnd", kind, "malformed response", err)
		}
		return nil
	}, func(attempt int, err error) {
		c.recorder.ObserveRetry(kind)
		logger.Warn("gnd request failed; retrying",
			logging.String(logging.FieldQuery, text),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", c.retry.MaxAttempts),
			logging.Duration("delay", c.retry.Delay),
			logging.Error(err),
		)
	})
	elapsed := time.Since(start)
	if err != nil {
		c.recorder.ObserveRequest(kind, "failure", elapsed)
		return searchResponse{}, fmt.Errorf("gnd: %s %q failed after %d attempt(s): %w", kind, text, attempts, err)
	}
	c.recorder.ObserveRequest(kind, "success", elapsed)
	if c.cache != nil {
		c.cache.Put(ctx, endpoint, body)
	}
	logger.Debug("gnd request completed",
		logging.String(logging.FieldQuery, text),
		logging.Int("total_items", payload.TotalItems),
		logging.Int("attempts", attempts),
		logging.Duration("elapsed", elapsed),
	)
	return payload, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "gnd", "build request", "", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(ctx, "request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, services.Wrap(services.ErrTransient, "gnd", "request",
			fmt.Sprintf("status %s: %s", resp.Status, strings.TrimSpace(string(snippet))), nil)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, transportError(ctx, "read response", err)
	}
	return body, nil
}

// transportError classifies a failed exchange by the caller's context. A
// deadline from http.Client.Timeout also matches context.DeadlineExceeded, so
// the cause is flattened into the message to keep it retriable.
func transportError(ctx context.Context, operation string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	marker := services.ErrTransient
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		marker = services.ErrTimeout
	}
	return services.Wrap(marker, "gnd", operation, err.Error(), nil)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRequest(string, string, time.Duration) {}
func (nopRecorder) ObserveRetry(string)                          {}
