// Package contracts defines interfaces that decouple the orchestration layer
// from the extraction backend and storage implementations.
package contracts

import (
	"context"

	"grabarr/internal/models"
)

// ProgressFunc receives each progress event the backend emits, in order.
type ProgressFunc func(models.ProgressEvent)

// Backend is the external extraction/download capability. Implementations
// may block for seconds to minutes; both methods honor ctx cancellation.
type Backend interface {
	// Probe analyzes a URL. flat requests a fast shallow listing (used for
	// collections); full resolution learns the available encodings.
	Probe(ctx context.Context, url string, flat bool) (*models.Metadata, error)

	// Download runs one download attempt, invoking hook for every progress
	// event until a terminal outcome.
	Download(ctx context.Context, url string, opts models.BackendOptions, hook ProgressFunc) (*models.DownloadResult, error)
}
