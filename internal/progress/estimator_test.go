package progress

import (
	"strings"
	"testing"

	"grabarr/internal/models"
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }
func iptr(v int) *int        { return &v }

func TestUpdateByteTotalPrecedence(t *testing.T) {
	t.Parallel()

	// total_bytes wins even when fragment fields are also present.
	e := models.ProgressEvent{
		Status:          models.EventDownloading,
		Filename:        "video.mp4",
		DownloadedBytes: 50,
		TotalBytes:      i64(100),
		FragmentIndex:   iptr(1),
		FragmentCount:   iptr(10),
	}

	st := Update(e, models.ProgressState{})
	if st.Percent != 50 {
		t.Fatalf("expected 50%%, got %.1f", st.Percent)
	}
	if st.LastSignal != models.SignalByteTotal {
		t.Fatalf("expected byte-total signal, got %v", st.LastSignal)
	}
}

func TestUpdateEstimateFallback(t *testing.T) {
	t.Parallel()

	e := models.ProgressEvent{
		Status:             models.EventDownloading,
		Filename:           "video.mp4",
		DownloadedBytes:    25,
		TotalBytesEstimate: f64(100),
	}

	st := Update(e, models.ProgressState{})
	if st.Percent != 25 {
		t.Fatalf("expected 25%%, got %.1f", st.Percent)
	}
	if !strings.Contains(st.StatusLine, "(Est.)") {
		t.Fatalf("expected estimate tag in status line %q", st.StatusLine)
	}
}

func TestUpdateFragmentProgress(t *testing.T) {
	t.Parallel()

	e := models.ProgressEvent{
		Status:        models.EventDownloading,
		Filename:      "stream.mp4",
		FragmentIndex: iptr(3),
		FragmentCount: iptr(10),
	}

	st := Update(e, models.ProgressState{})
	if st.Percent != 30 {
		t.Fatalf("expected 30%%, got %.1f", st.Percent)
	}
	if !strings.Contains(st.StatusLine, "Fragment 3/10") {
		t.Fatalf("expected fragment counter in status line %q", st.StatusLine)
	}
	if !strings.Contains(st.StatusLine, "(HLS)") {
		t.Fatalf("expected HLS tag in status line %q", st.StatusLine)
	}
}

func TestUpdateFragmentPartialProgress(t *testing.T) {
	t.Parallel()

	e := models.ProgressEvent{
		Status:          models.EventDownloading,
		Filename:        "stream.mp4",
		DownloadedBytes: 50,
		FragmentIndex:   iptr(3),
		FragmentCount:   iptr(10),
	}
	if Classify(e) != models.SignalFragments {
		t.Fatalf("expected fragment classification")
	}

	st := Update(e, models.ProgressState{})
	if st.Percent != 30 {
		t.Fatalf("expected 30%% without fragment byte total, got %.1f", st.Percent)
	}
}

func TestUpdatePercentString(t *testing.T) {
	t.Parallel()

	e := models.ProgressEvent{
		Status:     models.EventDownloading,
		Filename:   "video.mp4",
		PercentStr: " 42.5%",
	}

	st := Update(e, models.ProgressState{})
	if st.Percent != 42.5 {
		t.Fatalf("expected 42.5%%, got %.1f", st.Percent)
	}

	// Unparsable percent strings leave the percent unchanged.
	prev := st
	st = Update(models.ProgressEvent{
		Status:     models.EventDownloading,
		Filename:   "video.mp4",
		PercentStr: "N/A",
	}, prev)
	if st.Percent != 42.5 {
		t.Fatalf("expected unchanged percent, got %.1f", st.Percent)
	}
}

func TestUpdateSyntheticActivity(t *testing.T) {
	t.Parallel()

	// 1 MiB with no size information: 2% per MiB.
	st := Update(models.ProgressEvent{
		Status:          models.EventDownloading,
		Filename:        "video.mp4",
		DownloadedBytes: 1048576,
	}, models.ProgressState{})
	if st.Percent != 2 {
		t.Fatalf("expected 2%%, got %.1f", st.Percent)
	}

	// The liveness indicator caps at 50%.
	st = Update(models.ProgressEvent{
		Status:          models.EventDownloading,
		Filename:        "video.mp4",
		DownloadedBytes: 100 * 1048576,
	}, models.ProgressState{})
	if st.Percent != 50 {
		t.Fatalf("expected 50%% cap, got %.1f", st.Percent)
	}
}

func TestUpdateFinishedPinsAndDeduplicates(t *testing.T) {
	t.Parallel()

	finished := models.ProgressEvent{
		Status:   models.EventFinished,
		Filename: "/downloads/video.mp4",
	}

	st := Update(finished, models.ProgressState{Percent: 73})
	if st.Percent != 100 {
		t.Fatalf("expected percent pinned to 100, got %.1f", st.Percent)
	}
	if len(st.Completed) != 1 || st.Completed[0] != "/downloads/video.mp4" {
		t.Fatalf("expected one completed file, got %v", st.Completed)
	}

	// A repeated finished event for the same filename must not double-count.
	st = Update(finished, st)
	if len(st.Completed) != 1 {
		t.Fatalf("expected completed set to stay at one entry, got %v", st.Completed)
	}
}

func TestUpdateErrorClassification(t *testing.T) {
	t.Parallel()

	prev := models.ProgressState{Percent: 40}

	st := Update(models.ProgressEvent{
		Status:   models.EventError,
		ErrorMsg: "HTTP Error 403: Forbidden",
	}, prev)
	if st.Percent != 40 {
		t.Fatalf("error events must not change percent, got %.1f", st.Percent)
	}
	if !st.Restricted {
		t.Fatal("expected restricted classification for 403 message")
	}

	st = Update(models.ProgressEvent{
		Status:   models.EventError,
		ErrorMsg: "network timed out",
	}, prev)
	if st.Restricted {
		t.Fatal("generic failure wrongly classified as restricted")
	}
}

func TestStatusLineContents(t *testing.T) {
	t.Parallel()

	longName := strings.Repeat("a", 60) + ".mp4"
	e := models.ProgressEvent{
		Status:          models.EventDownloading,
		Filename:        "/downloads/" + longName,
		DownloadedBytes: 50,
		TotalBytes:      i64(100),
		SpeedStr:        "1.25MiB/s",
		ETAStr:          "01:23",
	}

	st := Update(e, models.ProgressState{})
	line := st.StatusLine

	if !strings.Contains(line, "...") {
		t.Fatalf("expected truncated filename in %q", line)
	}
	if strings.Contains(line, longName) {
		t.Fatalf("expected filename capped at 50 chars in %q", line)
	}
	if !strings.Contains(line, "1.25MiB/s") {
		t.Fatalf("expected transfer rate in %q", line)
	}
	if !strings.Contains(line, "ETA 01:23") {
		t.Fatalf("expected ETA in %q", line)
	}
	if !strings.Contains(line, "50.0%") {
		t.Fatalf("expected percent in %q", line)
	}
}

func TestStatusLineSkipsMeaninglessETA(t *testing.T) {
	t.Parallel()

	e := models.ProgressEvent{
		Status:          models.EventDownloading,
		Filename:        "video.mp4",
		DownloadedBytes: 50,
		TotalBytes:      i64(100),
		ETAStr:          "N/A",
	}

	st := Update(e, models.ProgressState{})
	if strings.Contains(st.StatusLine, "ETA") {
		t.Fatalf("expected no ETA for N/A, got %q", st.StatusLine)
	}
}
