package downloads

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"grabarr/internal/contracts"
	"grabarr/internal/domain/consts"
	"grabarr/internal/format"
	"grabarr/internal/models"
	"grabarr/internal/playlist"
	"grabarr/internal/progress"
	"grabarr/internal/utils/logging"
	"grabarr/internal/validation"
)

// Controller drives one logical download request through the primary
// attempt, the ordered fallback attempts, and into a terminal state. At most
// one session is active per controller instance.
type Controller struct {
	backend    contracts.Backend
	store      contracts.DownloadStore
	tracker    *Tracker
	resolver   *playlist.Resolver
	mergeProbe func(context.Context) bool

	onProgress func(models.ProgressState)
	onTerminal func(models.Outcome)

	mu       sync.Mutex
	active   *models.DownloadSession
	lastMeta *models.Metadata
	metaURL  string
}

// NewController creates a controller over the given backend.
func NewController(backend contracts.Backend) *Controller {
	return &Controller{
		backend:    backend,
		resolver:   &playlist.Resolver{},
		mergeProbe: MergeToolAvailable,
	}
}

// SetStore attaches the history store.
func (c *Controller) SetStore(store contracts.DownloadStore) {
	c.store = store
}

// SetTracker attaches the status update tracker.
func (c *Controller) SetTracker(t *Tracker) {
	c.tracker = t
}

// SetMergeProbe overrides the merge-tool probe.
func (c *Controller) SetMergeProbe(probe func(context.Context) bool) {
	c.mergeProbe = probe
}

// OnProgress registers the progress listener. The listener runs on the
// download worker; it must hand state off rather than block.
func (c *Controller) OnProgress(fn func(models.ProgressState)) {
	c.onProgress = fn
}

// OnTerminal registers the terminal outcome listener.
func (c *Controller) OnTerminal(fn func(models.Outcome)) {
	c.onTerminal = fn
}

// StageExplicitItems stages explicit 1-based playlist indices for the next
// download. They are consumed by that download and never reused.
func (c *Controller) StageExplicitItems(indices []int) {
	c.resolver.SetExplicitIndices(indices)
}

// Analyze probes a URL and caches the result. Collections use the fast flat
// listing; single items resolve fully to learn the available encodings.
func (c *Controller) Analyze(ctx context.Context, url string) (*models.Metadata, error) {
	if err := validation.ValidateURL(url); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	meta, err := c.backend.Probe(ctx, url, validation.IsCollectionURL(url))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lastMeta = meta
	c.metaURL = url
	c.mu.Unlock()

	return meta, nil
}

// Start validates the request and launches the download worker. It rejects a
// new session while one is active. Validation failures are reported
// immediately; no attempt is started.
func (c *Controller) Start(ctx context.Context, req models.Request) (*models.DownloadSession, error) {
	if err := validation.ValidateURL(req.URL); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if _, err := validation.ValidateDirectory(req.OutputDir, true); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	c.mu.Lock()
	if c.active != nil {
		c.mu.Unlock()
		return nil, errors.New("a download is already in progress")
	}
	sess := models.NewDownloadSession(req)
	c.active = sess
	c.mu.Unlock()

	if c.store != nil {
		dbCtx, cancel := context.WithTimeout(context.Background(), consts.DatabaseTimeout)
		if err := c.store.AddSession(dbCtx, sess); err != nil {
			logging.E("Failed to record session %q: %v", sess.ID, err)
		}
		cancel()
	}

	go c.run(ctx, sess)
	return sess, nil
}

// Cancel flags the active session for cancellation. Cooperative: takes
// effect at the next progress callback or attempt boundary.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.Cancel()
	}
}

// run executes the session's attempt plan to a terminal outcome.
func (c *Controller) run(ctx context.Context, sess *models.DownloadSession) {
	defer func() {
		c.mu.Lock()
		c.active = nil
		c.mu.Unlock()
	}()

	req := sess.Request

	// Range validation uses the entry count when the collection was already
	// probed.
	totalKnown := 0
	c.mu.Lock()
	if c.metaURL == req.URL && c.lastMeta != nil && c.lastMeta.IsPlaylist {
		totalKnown = c.lastMeta.EntryCount
	}
	c.mu.Unlock()

	if len(req.ExplicitItems) > 0 {
		c.resolver.SetExplicitIndices(req.ExplicitItems)
	}

	c.sendStatus(sess, consts.DLStatusValidating, 0, nil)
	res := c.resolver.Resolve(req.CollectionMode, req.RangeStart, req.RangeEnd, totalKnown)
	if res.Kind == playlist.InvalidRange {
		c.finish(sess, models.Outcome{
			Kind:    models.OutcomeFailed,
			Message: fmt.Sprintf("invalid playlist range %d-%d (known entries: %d)", req.RangeStart, req.RangeEnd, totalKnown),
		})
		return
	}

	c.sendStatus(sess, consts.DLStatusProbing, 0, nil)
	mergeAvailable := c.mergeProbe(ctx)
	if !mergeAvailable {
		logging.W("Merge tool not found: downloads degrade to single-stream selectors")
	}

	if sess.Cancelled() {
		c.finish(sess, models.Outcome{Kind: models.OutcomeCancelled})
		return
	}

	expr := format.Select(req.Quality, mergeAvailable)
	plan := buildAttemptPlan(req, expr, res)

	var attemptErrs []error
	for _, att := range plan {
		// Cancellation wins over any further fallback attempt.
		if sess.Cancelled() {
			c.finish(sess, models.Outcome{Kind: models.OutcomeCancelled})
			return
		}

		if att.Index == 0 {
			logging.I("Starting download with selector %q", att.Selector)
		} else {
			logging.I("Fallback attempt %d: using selector %q", att.Index, att.Selector)
		}

		result, state, err := c.executeAttempt(ctx, sess, att)

		if sess.Cancelled() {
			c.finish(sess, models.Outcome{Kind: models.OutcomeCancelled})
			return
		}

		if err == nil {
			if result != nil && result.AlreadyExists {
				// Not a failure: pin progress and surface the existing file.
				name := filepath.Base(result.ExistingFile)
				c.emitProgress(models.ProgressState{
					Percent:    100,
					PhaseIcon:  "📁",
					StatusLine: "Already downloaded: " + name,
				})
				c.finish(sess, models.Outcome{
					Kind:     models.OutcomeAlreadyExists,
					Filename: result.ExistingFile,
				})
				return
			}

			files := attemptFiles(result, state)
			if len(files) == 0 {
				// No exception but nothing confirmed finished.
				c.finish(sess, models.Outcome{
					Kind:    models.OutcomeFailed,
					Message: "nothing downloaded - check if the requested items are available",
				})
				return
			}

			c.finish(sess, models.Outcome{
				Kind:  models.OutcomeSucceeded,
				Files: files,
			})
			return
		}

		class := classifyFailure(err)
		if state.Restricted && class == failTransient {
			class = failRestricted
		}

		switch class {
		case failCancelled:
			c.finish(sess, models.Outcome{Kind: models.OutcomeCancelled})
			return

		case failRestricted:
			// An access denial is not fixed by a different selector; skip
			// the fallback chain entirely.
			c.finish(sess, models.Outcome{
				Kind:    models.OutcomeRestricted,
				Message: "access restricted (HTTP 403): try a different item or quality",
			})
			return

		case failUnavailable:
			c.finish(sess, models.Outcome{
				Kind:    models.OutcomeFailed,
				Message: "item unavailable: it may be private, deleted, or region-restricted",
			})
			return

		default:
			attemptErrs = append(attemptErrs, err)
			logging.W("Attempt %d failed: %v", att.Index, truncateErr(err))
		}
	}

	c.finish(sess, models.Outcome{
		Kind:    models.OutcomeFailed,
		Message: aggregateAttemptErrors(attemptErrs),
	})
}

// executeAttempt runs one backend download attempt with a fresh progress
// state. The hook runs on the worker; the estimator stays pure and the
// session absorbs confirmed filenames.
func (c *Controller) executeAttempt(ctx context.Context, sess *models.DownloadSession, att *models.DownloadAttempt) (*models.DownloadResult, models.ProgressState, error) {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := models.ProgressState{}
	c.sendStatus(sess, consts.DLStatusDownloading, 0, nil)

	hook := func(e models.ProgressEvent) {
		if sess.Cancelled() {
			// Abort the in-flight attempt; the controller suppresses any
			// further fallback attempts for this session.
			cancel()
			return
		}

		state = progress.Update(e, state)
		for _, f := range state.Completed {
			sess.MarkCompleted(f)
		}

		c.emitProgress(state)
		c.sendStatus(sess, consts.DLStatusDownloading, state.Percent, nil)
	}

	result, err := c.backend.Download(attemptCtx, sess.Request.URL, att.Options, hook)
	att.Err = err
	sess.AddAttempt(att)
	return result, state, err
}

// attemptFiles returns the files confirmed for one successful attempt.
func attemptFiles(result *models.DownloadResult, state models.ProgressState) []string {
	if result != nil && len(result.Files) > 0 {
		return result.Files
	}
	return state.Completed
}

// finish reports the terminal outcome and releases the session.
func (c *Controller) finish(sess *models.DownloadSession, outcome models.Outcome) {
	switch outcome.Kind {
	case models.OutcomeSucceeded:
		c.sendStatus(sess, consts.DLStatusCompleted, 100, nil)
	case models.OutcomeAlreadyExists:
		c.sendStatus(sess, consts.DLStatusExists, 100, nil)
	case models.OutcomeCancelled:
		c.sendStatus(sess, consts.DLStatusCancelled, 0, nil)
	case models.OutcomeRestricted:
		c.sendStatus(sess, consts.DLStatusRestricted, 0, errors.New(outcome.Message))
	default:
		c.sendStatus(sess, consts.DLStatusFailed, 0, errors.New(outcome.Message))
	}

	if c.store != nil {
		dbCtx, cancel := context.WithTimeout(context.Background(), consts.DatabaseTimeout)
		if err := c.store.FinishSession(dbCtx, sess.ID, outcome); err != nil {
			logging.E("Failed to record outcome for session %q: %v", sess.ID, err)
		}
		cancel()
	}

	if c.onTerminal != nil {
		c.onTerminal(outcome)
	}
}

func (c *Controller) emitProgress(state models.ProgressState) {
	if c.onProgress != nil {
		c.onProgress(state)
	}
}

func (c *Controller) sendStatus(sess *models.DownloadSession, status consts.DownloadStatus, pct float64, err error) {
	if c.tracker == nil {
		return
	}
	c.tracker.Send(models.StatusUpdate{
		SessionID: sess.ID,
		URL:       sess.Request.URL,
		Status:    string(status),
		Percent:   pct,
		Error:     err,
	})
}
