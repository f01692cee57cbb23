package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logFilePrefix = "gndfinder-"
	logFileSuffix = ".log"
	logDateLayout = "2006-01-02"
)

// LogFileName returns the daily log file name for day, e.g.
// "gndfinder-2026-10-19.log".
func LogFileName(day time.Time) string {
	return logFilePrefix + day.Format(logDateLayout) + logFileSuffix
}

// PruneLogs removes daily log files in dir whose date lies more than
// retentionDays before now. A retentionDays of 0 keeps everything. Files not
// named by LogFileName are left alone. It returns the removed paths.
func PruneLogs(dir string, retentionDays int, now time.Time) ([]string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" || retentionDays <= 0 {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	y, m, d := now.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -retentionDays)

	var removed []string
	var errs []error
	for _, entry := range entries {
		day, ok := logFileDay(entry.Name(), now.Location())
		if entry.IsDir() || !ok || !day.Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, path)
	}
	return removed, errors.Join(errs...)
}

func logFileDay(name string, loc *time.Location) (time.Time, bool) {
	stamp, ok := strings.CutPrefix(name, logFilePrefix)
	if !ok {
		return time.Time{}, false
	}
	stamp, ok = strings.CutSuffix(stamp, logFileSuffix)
	if !ok {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(logDateLayout, stamp, loc)
	return day, err == nil
}
