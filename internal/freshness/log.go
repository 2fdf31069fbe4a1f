// Shelfwise - Product Recommendation Data Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package freshness persists the timestamp of the last successful pipeline
// run and answers the staleness question that gates refreshes.
//
// The record is a single human-readable text file under the artifacts root:
//
//	Last updated: 26/08/2026 14:03:12
//
// Writes are atomic (temp file + rename). A missing record is stale: the
// system fails open toward refreshing. A malformed record is also stale and
// is logged as a parse failure rather than propagated, so a corrupted file
// can never wedge serving.
package freshness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/shelfwise/internal/logging"
)

const (
	// RecordFileName is the freshness record's file name under the artifacts root.
	RecordFileName = "last_updated.txt"

	// recordPrefix precedes the timestamp in the record file.
	recordPrefix = "Last updated: "

	// timeLayout is the record's fixed day/month/year timestamp format.
	timeLayout = "02/01/2006 15:04:05"
)

// Log reads and writes the persisted freshness record.
// All methods are safe for concurrent use.
type Log struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewLog returns a Log whose record lives under dir. The file is created on
// the first Stamp; a Log over a nonexistent file reports stale.
func NewLog(dir string) *Log {
	return NewLogWithClock(dir, nil)
}

// NewLogWithClock is NewLog with an injectable clock. A nil now means
// time.Now. Tests use this to probe staleness boundaries exactly.
func NewLogWithClock(dir string, now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{
		path: filepath.Join(dir, RecordFileName),
		now:  now,
	}
}

// Path returns the record file's location.
func (l *Log) Path() string {
	return l.path
}

// Stamp writes the current wall-clock time to the record, overwriting any
// previous value. The write is atomic: the content lands in a temp file in
// the same directory and is renamed over the record.
func (l *Log) Stamp() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create artifacts directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".last_updated-*")
	if err != nil {
		return fmt.Errorf("create freshness temp file: %w", err)
	}
	tmpName := tmp.Name()

	content := recordPrefix + l.now().Format(timeLayout)
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write freshness record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close freshness temp file: %w", err)
	}

	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish freshness record: %w", err)
	}
	return nil
}

// LastRefresh returns the recorded timestamp. ok is false when the record is
// missing or malformed; a malformed record is logged once per read and never
// surfaces as an error.
func (l *Log) LastRefresh() (ts time.Time, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readRecord()
}

// IsStale reports whether the record is older than threshold. Elapsed time
// exactly equal to the threshold is NOT stale (strict greater-than). A
// missing or malformed record is always stale.
func (l *Log) IsStale(threshold time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts, ok := l.readRecord()
	if !ok {
		return true
	}
	return l.now().Sub(ts) > threshold
}

// Age returns the elapsed time since the last recorded refresh. ok is false
// when the record is missing or malformed.
func (l *Log) Age() (age time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts, ok := l.readRecord()
	if !ok {
		return 0, false
	}
	return l.now().Sub(ts), true
}

// readRecord loads and parses the record file. Callers hold l.mu.
func (l *Log) readRecord() (time.Time, bool) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn().Err(err).Str("path", l.path).Msg("Failed to read freshness record, treating as stale")
		}
		return time.Time{}, false
	}

	content := strings.TrimSpace(string(data))
	if !strings.HasPrefix(content, recordPrefix) {
		logging.Warn().Str("path", l.path).Msg("Freshness record malformed, treating as stale")
		return time.Time{}, false
	}

	ts, err := time.ParseInLocation(timeLayout, strings.TrimPrefix(content, recordPrefix), time.Local)
	if err != nil {
		logging.Warn().Err(err).Str("path", l.path).Msg("Freshness record unparsable, treating as stale")
		return time.Time{}, false
	}
	return ts, true
}
