package downloads

import (
	"context"
	"time"

	"grabarr/internal/contracts"
	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
	"grabarr/internal/utils/logging"
)

// Tracker receives status updates from the worker and flushes them to the
// history store. It is the marshalling point between the download worker and
// externally observable state.
type Tracker struct {
	updates chan models.StatusUpdate
	done    chan struct{}
	store   contracts.DownloadStore
}

// NewTracker returns the model used for tracking downloads.
func NewTracker(store contracts.DownloadStore) *Tracker {
	return &Tracker{
		updates: make(chan models.StatusUpdate, 100),
		done:    make(chan struct{}),
		store:   store,
	}
}

// Start starts download tracking.
func (t *Tracker) Start(ctx context.Context) {
	go t.processUpdates(ctx)
}

// Stop stops download tracking.
func (t *Tracker) Stop() {
	close(t.done)
}

// Send queues one status update. Never blocks the worker: when the channel
// is saturated the update is dropped, the next one carries newer state.
func (t *Tracker) Send(u models.StatusUpdate) {
	select {
	case t.updates <- u:
	default:
	}
}

// processUpdates processes download status updates.
func (t *Tracker) processUpdates(ctx context.Context) {
	var lastUpdate models.StatusUpdate
	for {
		select {
		case <-t.done:
			return

		case update := <-t.updates:
			if update == lastUpdate {
				continue
			}
			lastUpdate = update
			t.flushUpdates(ctx, []models.StatusUpdate{update})
		}
	}
}

// flushUpdates flushes pending download status updates to the database.
func (t *Tracker) flushUpdates(ctx context.Context, updates []models.StatusUpdate) {
	if len(updates) == 0 || t.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, consts.DatabaseTimeout)
	defer cancel()

	for attempt := range consts.StoreFlushRetries {
		if err := t.store.UpdateStatuses(ctx, updates); err != nil {
			if attempt == consts.StoreFlushRetries-1 {
				logging.E("Failed to update download statuses after %d attempts: %v", consts.StoreFlushRetries, err)
				return
			}
			logging.W("Retrying update after failure (attempt %d/%d): %v",
				attempt+1, consts.StoreFlushRetries, err)
			time.Sleep(consts.StoreRetryBackoff * time.Duration(attempt+1))
			continue
		}
		break
	}
	logging.D(2, "Flushed %d status updates", len(updates))
}
