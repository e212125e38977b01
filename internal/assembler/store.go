// Rtcast - Sequential Bayesian Reproduction Number Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rtcast

package assembler

import (
	"sync"
	"time"
)

// Snapshot is one published run. Its Table and Report must be treated as
// read-only once published.
type Snapshot struct {
	Table       *Table
	Report      *Report
	PublishedAt time.Time
}

// Store holds the most recent successful run and the outcome of the most
// recent attempt. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	latest   Snapshot
	ok       bool
	lastErr  error
	attempts int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Publish replaces the latest snapshot and clears the last error.
func (s *Store) Publish(table *Table, report *Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = Snapshot{Table: table, Report: report, PublishedAt: time.Now().UTC()}
	s.ok = true
	s.lastErr = nil
	s.attempts++
}

// Fail records a failed attempt. The previous snapshot stays published.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	s.attempts++
}

// Latest returns the latest snapshot. ok is false until the first Publish.
func (s *Store) Latest() (snap Snapshot, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.ok
}

// LastError returns the error of the most recent attempt, or nil if it
// succeeded.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Attempts returns how many runs were published or failed.
func (s *Store) Attempts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attempts
}
