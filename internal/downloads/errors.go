package downloads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"grabarr/internal/progress"
)

// ValidationError reports bad caller input; no attempt is started.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// AccessRestrictedError reports a backend 403/Forbidden. Retrying with a
// different selector will not fix an access denial, so the fallback chain
// is skipped.
type AccessRestrictedError struct {
	Msg string
}

func (e *AccessRestrictedError) Error() string { return e.Msg }

// ResourceUnavailableError reports a missing/private/region-locked item.
// Terminal; retrying the encoding will not help.
type ResourceUnavailableError struct {
	Msg string
}

func (e *ResourceUnavailableError) Error() string { return e.Msg }

// failureClass buckets an attempt error for the controller.
type failureClass int

const (
	failTransient failureClass = iota
	failRestricted
	failUnavailable
	failCancelled
)

// classifyFailure reclassifies a backend error into the taxonomy. Only the
// controller performs I/O, so only it may catch and reclassify.
func classifyFailure(err error) failureClass {
	if err == nil {
		return failTransient
	}
	if errors.Is(err, context.Canceled) {
		return failCancelled
	}

	var restricted *AccessRestrictedError
	if errors.As(err, &restricted) {
		return failRestricted
	}
	var unavailable *ResourceUnavailableError
	if errors.As(err, &unavailable) {
		return failUnavailable
	}

	msg := err.Error()
	if progress.IsRestrictedMessage(msg) {
		return failRestricted
	}
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "unavailable") ||
		strings.Contains(lower, "private video") ||
		strings.Contains(lower, "region") {
		return failUnavailable
	}
	return failTransient
}

// aggregateAttemptErrors merges the last error from each tier attempted into
// one exhaustion message.
func aggregateAttemptErrors(errs []error) string {
	parts := make([]string, 0, len(errs))
	for i, err := range errs {
		if err == nil {
			continue
		}
		label := "primary"
		if i > 0 {
			label = fmt.Sprintf("fallback %d", i)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", label, truncateErr(err)))
	}
	if len(parts) == 0 {
		return "all download methods failed"
	}
	return "all download methods failed. " + strings.Join(parts, ". ")
}

func truncateErr(err error) string {
	const maxLen = 100
	s := err.Error()
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
