// Package progress normalizes the backend's heterogeneous progress signals
// into a single 0-100 value with a derived status line.
package progress

import (
	"strconv"
	"strings"

	"grabarr/internal/models"
)

const (
	// syntheticCap bounds the liveness indicator used when no size
	// information exists at all.
	syntheticCap = 50.0

	// syntheticPctPerMiB scales raw downloaded bytes into percent.
	syntheticPctPerMiB = 2.0

	mib = 1024 * 1024
)

// Classify names the progress signal an event carries. First satisfied wins;
// signals are never averaged.
func Classify(e models.ProgressEvent) models.SignalKind {
	switch {
	case e.TotalBytes != nil && *e.TotalBytes > 0:
		return models.SignalByteTotal
	case e.TotalBytesEstimate != nil && *e.TotalBytesEstimate > 0:
		return models.SignalByteEstimate
	case e.FragmentIndex != nil && e.FragmentCount != nil && *e.FragmentCount > 0:
		return models.SignalFragments
	case parsePercent(e.PercentStr) >= 0:
		return models.SignalPercentString
	case e.DownloadedBytes > 0:
		return models.SignalRawBytes
	default:
		return models.SignalNone
	}
}

// Update consumes one backend progress event and the previous state and
// returns the next state. It is pure: no I/O, no mutation of shared data.
// All user-facing mutation belongs to the caller reacting to the result.
func Update(e models.ProgressEvent, prev models.ProgressState) models.ProgressState {
	next := prev
	next.Completed = append([]string(nil), prev.Completed...)

	switch e.Status {
	case models.EventFinished:
		next.Percent = 100
		if e.Filename != "" && !next.HasCompleted(e.Filename) {
			next.Completed = append(next.Completed, e.Filename)
		}
		next.PhaseIcon = phaseIcon(next.Percent)
		next.StatusLine = buildStatusLine(e, next.Percent, next.LastSignal)
		return next

	case models.EventError:
		// No percent change on errors; only classify the failure text.
		if IsRestrictedMessage(e.ErrorMsg) {
			next.Restricted = true
		}
		return next
	}

	signal := Classify(e)
	switch signal {
	case models.SignalByteTotal:
		next.Percent = clamp(float64(e.DownloadedBytes) / float64(*e.TotalBytes) * 100)

	case models.SignalByteEstimate:
		next.Percent = clamp(float64(e.DownloadedBytes) / *e.TotalBytesEstimate * 100)

	case models.SignalFragments:
		count := float64(*e.FragmentCount)
		pct := float64(*e.FragmentIndex) / count * 100
		// Partial progress within the current fragment when its byte total
		// is also known.
		if e.TotalBytes != nil && *e.TotalBytes > 0 {
			pct += float64(e.DownloadedBytes) / float64(*e.TotalBytes) * (100 / count)
		}
		next.Percent = clamp(pct)

	case models.SignalPercentString:
		next.Percent = clamp(parsePercent(e.PercentStr))

	case models.SignalRawBytes:
		// Pure liveness: no size information exists at all.
		synthetic := float64(e.DownloadedBytes) / mib * syntheticPctPerMiB
		if synthetic > syntheticCap {
			synthetic = syntheticCap
		}
		next.Percent = synthetic

	case models.SignalNone:
		// Unparsable event; leave percent unchanged.
	}

	if signal != models.SignalNone {
		next.LastSignal = signal
	}
	next.PhaseIcon = phaseIcon(next.Percent)
	next.StatusLine = buildStatusLine(e, next.Percent, next.LastSignal)
	return next
}

// IsRestrictedMessage reports whether a backend error message indicates an
// access restriction rather than a generic failure.
func IsRestrictedMessage(msg string) bool {
	return strings.Contains(msg, "403") ||
		strings.Contains(strings.ToLower(msg), "forbidden")
}

// parsePercent parses strings such as " 42.3%". Returns -1 when the value
// is absent or unparsable ("N/A", "Unknown").
func parsePercent(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" || s == "N/A" || s == "Unknown" {
		return -1
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return -1
	}
	return v
}

func clamp(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

func phaseIcon(pct float64) string {
	switch {
	case pct < 25:
		return "🔄"
	case pct < 50:
		return "⏳"
	case pct < 75:
		return "⏰"
	default:
		return "⏱️"
	}
}
