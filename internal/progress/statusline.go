package progress

import (
	"fmt"
	"path/filepath"
	"strings"

	"grabarr/internal/domain/consts"
	"grabarr/internal/models"

	"github.com/dannav/hhmmss"
)

// buildStatusLine derives the human status string for one event: truncated
// filename, fragment counter, transfer rate, meaningful ETA, percent, and a
// source-type tag for fragment- or estimate-based progress.
func buildStatusLine(e models.ProgressEvent, pct float64, signal models.SignalKind) string {
	var b strings.Builder

	if e.Status == models.EventFinished {
		b.WriteString("Completed: ")
	} else {
		b.WriteString("Downloading: ")
	}
	b.WriteString(truncateFilename(filepath.Base(e.Filename)))

	if e.FragmentIndex != nil && e.FragmentCount != nil {
		fmt.Fprintf(&b, " | Fragment %d/%d", *e.FragmentIndex, *e.FragmentCount)
	}

	if speed := strings.TrimSpace(e.SpeedStr); speed != "" && speed != "N/A" {
		b.WriteString(" | ")
		b.WriteString(speed)
	}

	if eta, ok := meaningfulETA(e.ETAStr); ok {
		b.WriteString(" | ETA ")
		b.WriteString(eta)
	}

	if pct > 0 {
		fmt.Fprintf(&b, " | %.1f%%", pct)
	}

	switch {
	case e.FragmentCount != nil:
		b.WriteString(" " + consts.SourceTagHLS)
	case signal == models.SignalByteEstimate:
		b.WriteString(" " + consts.SourceTagEstimate)
	}

	return b.String()
}

// truncateFilename caps display filenames at 50 characters with an ellipsis.
func truncateFilename(name string) string {
	if len(name) <= consts.MaxFilenameDisplayLen {
		return name
	}
	keep := consts.MaxFilenameDisplayLen - len(consts.TruncateSuffix)
	return name[:keep] + consts.TruncateSuffix
}

// meaningfulETA validates the backend's ETA string ("MM:SS" or "HH:MM:SS")
// and returns it when it parses to a positive duration.
func meaningfulETA(eta string) (string, bool) {
	eta = strings.TrimSpace(eta)
	if eta == "" || eta == "N/A" || eta == "Unknown" {
		return "", false
	}

	normalized := eta
	if strings.Count(normalized, ":") == 1 {
		normalized = "00:" + normalized
	}
	d, err := hhmmss.Parse(normalized)
	if err != nil || d <= 0 {
		return "", false
	}
	return eta, true
}
