package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserversIncrementCounters(t *testing.T) {
	m := New()
	m.ObserveRequest("search", "success", 120*time.Millisecond)
	m.ObserveRequest("search", "failure", 3*time.Second)
	m.ObserveRequest("search", "success", 80*time.Millisecond)
	m.ObserveRetry("search")
	m.ObserveCache("memory", "hit")
	m.IncrementLookup("matched")
	m.AddResolutions("adopted", 4)
	m.AddResolutions("conflict", 0)

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("search", "success")); got != 2 {
		t.Fatalf("search/success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Retries.WithLabelValues("search")); got != 1 {
		t.Fatalf("retries = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Cache.WithLabelValues("memory", "hit")); got != 1 {
		t.Fatalf("cache hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Resolutions.WithLabelValues("adopted")); got != 4 {
		t.Fatalf("adopted = %v, want 4", got)
	}
	if got := testutil.CollectAndCount(m.Resolutions); got != 1 {
		t.Fatalf("resolution series = %d, want 1", got)
	}
	if got := testutil.CollectAndCount(m.RequestDuration); got != 1 {
		t.Fatalf("duration series = %d, want 1", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("search", "success", time.Second)
	m.ObserveRetry("search")
	m.ObserveCache("sqlite", "miss")
	m.IncrementLookup("failed")
	m.AddResolutions("kept", 1)
	m.SetRunDuration(time.Second)
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Fatalf("WriteTextfile on nil metrics: %v", err)
	}
	if m.Registry() != nil {
		t.Fatal("expected nil registry")
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.IncrementLookup("matched")
	m.SetRunDuration(1500 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "textfile", "gndfinder.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`gndfinder_records_looked_up_total{result="matched"} 1`,
		"gndfinder_run_duration_seconds 1.5",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("textfile missing %q:\n%s", want, text)
		}
	}

	if err := m.WriteTextfile("  "); err != nil {
		t.Fatalf("blank path should be a no-op: %v", err)
	}
}
