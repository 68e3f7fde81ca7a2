package models

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// DownloadSession owns the cancellation flag, the de-duplicated set of
// completed filenames, and the attempts tried for one logical download.
// A new session always starts with a fresh flag and set.
type DownloadSession struct {
	ID      string
	Request Request

	cancelled atomic.Bool

	mu        sync.Mutex
	completed map[string]struct{}
	order     []string
	attempts  []*DownloadAttempt
}

// NewDownloadSession creates a session for one request.
func NewDownloadSession(req Request) *DownloadSession {
	return &DownloadSession{
		ID:        uuid.NewString(),
		Request:   req,
		completed: make(map[string]struct{}),
	}
}

// Cancel flags the session as cancelled. Cancellation is cooperative: it is
// observed at the next progress callback or attempt boundary.
func (s *DownloadSession) Cancel() {
	s.cancelled.Store(true)
}

// Cancelled reports whether the user requested cancellation.
func (s *DownloadSession) Cancelled() bool {
	return s.cancelled.Load()
}

// MarkCompleted records a finished filename, ignoring repeats.
func (s *DownloadSession) MarkCompleted(filename string) {
	if filename == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.completed[filename]; ok {
		return
	}
	s.completed[filename] = struct{}{}
	s.order = append(s.order, filename)
}

// CompletedFiles returns the confirmed filenames in the order first seen.
func (s *DownloadSession) CompletedFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// AddAttempt appends an executed attempt to the session record.
func (s *DownloadSession) AddAttempt(a *DownloadAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, a)
}

// Attempts returns the attempts tried so far.
func (s *DownloadSession) Attempts() []*DownloadAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*DownloadAttempt, len(s.attempts))
	copy(out, s.attempts)
	return out
}

// DownloadAttempt is one (selector, options) pairing executed once.
type DownloadAttempt struct {
	Index    int // 0 = primary, 1..n = fallbacks, n+1 = last resort
	Selector string
	Options  BackendOptions
	Err      error
}
