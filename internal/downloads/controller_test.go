package downloads

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"grabarr/internal/contracts"
	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
)

const testWatchURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

// fakeStep scripts one Download call of the fake backend.
type fakeStep struct {
	events []models.ProgressEvent
	during func()
	result *models.DownloadResult
	err    error
}

type fakeBackend struct {
	meta     *models.Metadata
	probeErr error

	mu    sync.Mutex
	steps []fakeStep
	calls []models.BackendOptions
}

func (b *fakeBackend) Probe(_ context.Context, _ string, _ bool) (*models.Metadata, error) {
	if b.probeErr != nil {
		return nil, b.probeErr
	}
	return b.meta, nil
}

func (b *fakeBackend) Download(ctx context.Context, _ string, opts models.BackendOptions, hook contracts.ProgressFunc) (*models.DownloadResult, error) {
	b.mu.Lock()
	i := len(b.calls)
	b.calls = append(b.calls, opts)
	b.mu.Unlock()

	if i >= len(b.steps) {
		return nil, errors.New("unscripted download call")
	}
	step := b.steps[i]

	for _, e := range step.events {
		hook(e)
	}
	if step.during != nil {
		step.during()
		// One more event so polled cancellation gets observed.
		hook(models.ProgressEvent{Status: models.EventDownloading})
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return step.result, step.err
}

func (b *fakeBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *fakeBackend) callOptions(i int) models.BackendOptions {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[i]
}

func newTestController(b *fakeBackend) (*Controller, chan models.Outcome) {
	c := NewController(b)
	c.SetMergeProbe(func(context.Context) bool { return true })
	ch := make(chan models.Outcome, 1)
	c.OnTerminal(func(o models.Outcome) { ch <- o })
	return c, ch
}

func waitOutcome(t *testing.T, ch chan models.Outcome) models.Outcome {
	t.Helper()
	select {
	case o := <-ch:
		return o
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for terminal outcome")
		return models.Outcome{}
	}
}

func testRequest(t *testing.T) models.Request {
	t.Helper()
	return models.Request{
		URL:       testWatchURL,
		Quality:   models.QualityTier{Kind: models.TierBestQuality},
		OutputDir: t.TempDir(),
	}
}

func finishedEvent(name string) models.ProgressEvent {
	return models.ProgressEvent{Status: models.EventFinished, Filename: name}
}

func TestControllerFallbackTierSucceeds(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{steps: []fakeStep{
		{err: errors.New("requested format is not available")},
		{err: errors.New("unable to download video data")},
		{
			events: []models.ProgressEvent{finishedEvent("/out/clip_fallback2.m4a")},
			result: &models.DownloadResult{Files: []string{"/out/clip_fallback2.m4a"}},
		},
	}}
	c, ch := newTestController(b)

	if _, err := c.Start(context.Background(), testRequest(t)); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	out := waitOutcome(t, ch)
	if out.Kind != models.OutcomeSucceeded {
		t.Fatalf("outcome = %s, want Succeeded (msg: %q)", out.Kind, out.Message)
	}
	if len(out.Files) != 1 || out.Files[0] != "/out/clip_fallback2.m4a" {
		t.Errorf("files = %v, want only the succeeding attempt's file", out.Files)
	}
	if got := b.callCount(); got != 3 {
		t.Fatalf("download calls = %d, want 3", got)
	}
	if got := b.callOptions(2).Format; got != "602+139-drc" {
		t.Errorf("second fallback selector = %q, want %q", got, "602+139-drc")
	}
	if tmpl := b.callOptions(2).OutputTemplate; !strings.Contains(tmpl, "_fallback2") {
		t.Errorf("output template %q missing fallback suffix", tmpl)
	}
}

func TestControllerRestrictedSkipsFallbacks(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{steps: []fakeStep{
		{err: errors.New("HTTP Error 403: Forbidden")},
	}}
	c, ch := newTestController(b)

	if _, err := c.Start(context.Background(), testRequest(t)); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	out := waitOutcome(t, ch)
	if out.Kind != models.OutcomeRestricted {
		t.Fatalf("outcome = %s, want Restricted", out.Kind)
	}
	if got := b.callCount(); got != 1 {
		t.Errorf("download calls = %d, want 1 (no fallbacks after a 403)", got)
	}
}

func TestControllerUnavailableIsTerminal(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{steps: []fakeStep{
		{err: errors.New("Private video. Sign in if you've been granted access")},
	}}
	c, ch := newTestController(b)

	if _, err := c.Start(context.Background(), testRequest(t)); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	out := waitOutcome(t, ch)
	if out.Kind != models.OutcomeFailed {
		t.Fatalf("outcome = %s, want Failed", out.Kind)
	}
	if got := b.callCount(); got != 1 {
		t.Errorf("download calls = %d, want 1 (unavailable is terminal)", got)
	}
}

func TestControllerCancelDuringDownload(t *testing.T) {
	t.Parallel()

	var c *Controller
	b := &fakeBackend{}
	b.steps = []fakeStep{{
		events: []models.ProgressEvent{finishedEvent("/out/part1.mp4")},
		during: func() { c.Cancel() },
	}}

	c, ch := newTestController(b)

	sess, err := c.Start(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	out := waitOutcome(t, ch)
	if out.Kind != models.OutcomeCancelled {
		t.Fatalf("outcome = %s, want Cancelled", out.Kind)
	}
	if got := b.callCount(); got != 1 {
		t.Errorf("download calls = %d, want 1 (no fallbacks after cancel)", got)
	}

	// Completed files seen before cancellation stick to the session.
	files := sess.CompletedFiles()
	if len(files) != 1 || files[0] != "/out/part1.mp4" {
		t.Errorf("completed files = %v, want the pre-cancel file preserved", files)
	}
}

func TestControllerAlreadyExists(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{steps: []fakeStep{
		{result: &models.DownloadResult{AlreadyExists: true, ExistingFile: "/out/video.mp4"}},
	}}
	c, ch := newTestController(b)

	var mu sync.Mutex
	var lastPct float64
	c.OnProgress(func(s models.ProgressState) {
		mu.Lock()
		lastPct = s.Percent
		mu.Unlock()
	})

	if _, err := c.Start(context.Background(), testRequest(t)); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	out := waitOutcome(t, ch)
	if out.Kind != models.OutcomeAlreadyExists {
		t.Fatalf("outcome = %s, want Already Exists", out.Kind)
	}
	if out.Filename != "/out/video.mp4" {
		t.Errorf("filename = %q, want the existing file", out.Filename)
	}

	mu.Lock()
	defer mu.Unlock()
	if lastPct != 100 {
		t.Errorf("final progress = %.1f, want pinned at 100", lastPct)
	}
}

func TestControllerNothingDownloaded(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{steps: []fakeStep{
		{result: &models.DownloadResult{}},
	}}
	c, ch := newTestController(b)

	if _, err := c.Start(context.Background(), testRequest(t)); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	out := waitOutcome(t, ch)
	if out.Kind != models.OutcomeFailed {
		t.Fatalf("outcome = %s, want Failed", out.Kind)
	}
	if !strings.Contains(out.Message, "nothing downloaded") {
		t.Errorf("message = %q, want a nothing-downloaded report", out.Message)
	}
	if got := b.callCount(); got != 1 {
		t.Errorf("download calls = %d, want 1 (silent no-op is not retried)", got)
	}
}

func TestControllerExhaustionAggregatesErrors(t *testing.T) {
	t.Parallel()

	steps := make([]fakeStep, len(fallbackSelectors)+2)
	for i := range steps {
		steps[i] = fakeStep{err: errors.New("requested format is not available")}
	}
	b := &fakeBackend{steps: steps}
	c, ch := newTestController(b)

	if _, err := c.Start(context.Background(), testRequest(t)); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	out := waitOutcome(t, ch)
	if out.Kind != models.OutcomeFailed {
		t.Fatalf("outcome = %s, want Failed", out.Kind)
	}
	if got := b.callCount(); got != len(fallbackSelectors)+2 {
		t.Errorf("download calls = %d, want all %d attempts", got, len(fallbackSelectors)+2)
	}
	if !strings.Contains(out.Message, "primary") || !strings.Contains(out.Message, "fallback 1") {
		t.Errorf("message %q should label attempts", out.Message)
	}
}

func TestControllerRejectsConcurrentSession(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	b := &fakeBackend{steps: []fakeStep{{
		during: func() { <-release },
		result: &models.DownloadResult{Files: []string{"/out/a.mp4"}},
	}}}
	c, ch := newTestController(b)

	if _, err := c.Start(context.Background(), testRequest(t)); err != nil {
		t.Fatalf("first Start() error: %v", err)
	}

	// Wait for the worker to reach the backend.
	deadline := time.Now().Add(2 * time.Second)
	for b.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("worker never reached the backend")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := c.Start(context.Background(), testRequest(t)); err == nil {
		t.Error("second Start() succeeded, want rejection while a session is active")
	}

	close(release)
	if out := waitOutcome(t, ch); out.Kind != models.OutcomeSucceeded {
		t.Errorf("first session outcome = %s, want Succeeded", out.Kind)
	}
}

func TestControllerValidatesBeforeAttempting(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{}
	c, _ := newTestController(b)

	_, err := c.Start(context.Background(), models.Request{
		URL:       "https://example.com/not-a-video",
		OutputDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("Start() accepted an invalid URL")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("error type = %T, want *ValidationError", err)
	}
	if got := b.callCount(); got != 0 {
		t.Errorf("download calls = %d, want 0", got)
	}
}

func TestControllerInvalidRangeFailsWithoutAttempt(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{meta: &models.Metadata{IsPlaylist: true, EntryCount: 5}}
	c, ch := newTestController(b)

	if _, err := c.Analyze(context.Background(), testWatchURL); err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	req := testRequest(t)
	req.CollectionMode = true
	req.RangeStart = 3
	req.RangeEnd = 99

	if _, err := c.Start(context.Background(), req); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	out := waitOutcome(t, ch)
	if out.Kind != models.OutcomeFailed {
		t.Fatalf("outcome = %s, want Failed", out.Kind)
	}
	if !strings.Contains(out.Message, "invalid playlist range") {
		t.Errorf("message = %q, want a range validation report", out.Message)
	}
	if got := b.callCount(); got != 0 {
		t.Errorf("download calls = %d, want 0 (validation precedes any attempt)", got)
	}
}

// captureStore records tracker flushes for status assertions.
type captureStore struct {
	mu      sync.Mutex
	updates []models.StatusUpdate
}

func (cs *captureStore) GetDB() *sql.DB { return nil }

func (cs *captureStore) AddSession(_ context.Context, _ *models.DownloadSession) error { return nil }

func (cs *captureStore) UpdateStatuses(_ context.Context, updates []models.StatusUpdate) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.updates = append(cs.updates, updates...)
	return nil
}

func (cs *captureStore) FinishSession(_ context.Context, _ string, _ models.Outcome) error {
	return nil
}

func (cs *captureStore) ListSessions(_ context.Context, _ int) ([]models.SessionRecord, error) {
	return nil, nil
}

func (cs *captureStore) hasStatus(status consts.DownloadStatus) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for _, u := range cs.updates {
		if u.Status == string(status) {
			return true
		}
	}
	return false
}

func TestControllerEmitsLifecycleStatuses(t *testing.T) {
	t.Parallel()

	total := int64(100)
	b := &fakeBackend{steps: []fakeStep{{
		events: []models.ProgressEvent{
			{Status: models.EventDownloading, Filename: "/out/a.mp4", DownloadedBytes: 50, TotalBytes: &total},
			finishedEvent("/out/a.mp4"),
		},
		result: &models.DownloadResult{Files: []string{"/out/a.mp4"}},
	}}}
	c, ch := newTestController(b)

	cs := &captureStore{}
	tracker := NewTracker(cs)
	tracker.Start(context.Background())
	defer tracker.Stop()
	c.SetTracker(tracker)

	if _, err := c.Start(context.Background(), testRequest(t)); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if out := waitOutcome(t, ch); out.Kind != models.OutcomeSucceeded {
		t.Fatalf("outcome = %s, want Succeeded", out.Kind)
	}

	// The tracker flushes asynchronously; wait for the terminal status.
	deadline := time.Now().Add(2 * time.Second)
	for !cs.hasStatus(consts.DLStatusCompleted) {
		if time.Now().After(deadline) {
			t.Fatal("terminal status never reached the store")
		}
		time.Sleep(5 * time.Millisecond)
	}

	for _, want := range []consts.DownloadStatus{
		consts.DLStatusValidating,
		consts.DLStatusProbing,
		consts.DLStatusDownloading,
		consts.DLStatusCompleted,
	} {
		if !cs.hasStatus(want) {
			t.Errorf("status %q never recorded", want)
		}
	}
}
