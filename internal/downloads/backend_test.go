package downloads

import (
	"testing"

	"grabarr/internal/models"
)

type lineScanFixture struct {
	backend *YTDLP
	result  *models.DownloadResult
	lastErr string
	events  []models.ProgressEvent
}

func newLineScanFixture() *lineScanFixture {
	return &lineScanFixture{
		backend: NewYTDLP(),
		result:  &models.DownloadResult{},
	}
}

func (f *lineScanFixture) scan(line string) {
	f.backend.scanOutputLine(line, f.result, &f.lastErr, func(e models.ProgressEvent) {
		f.events = append(f.events, e)
	})
}

func TestScanOutputLineProgressJSON(t *testing.T) {
	t.Parallel()
	f := newLineScanFixture()

	f.scan(`{"status":"downloading","filename":"/out/clip.mp4","downloaded_bytes":50,"total_bytes":100,"_percent_str":" 50.0%"}`)

	if len(f.events) != 1 {
		t.Fatalf("got %d events, want 1", len(f.events))
	}
	e := f.events[0]
	if e.Status != models.EventDownloading {
		t.Errorf("status = %q, want downloading", e.Status)
	}
	if e.DownloadedBytes != 50 || e.TotalBytes == nil || *e.TotalBytes != 100 {
		t.Errorf("byte fields not decoded: downloaded=%d total=%v", e.DownloadedBytes, e.TotalBytes)
	}
}

func TestScanOutputLineAlreadyDownloaded(t *testing.T) {
	t.Parallel()
	f := newLineScanFixture()

	f.scan("[download] /out/video.mp4 has already been downloaded")

	if !f.result.AlreadyExists {
		t.Fatal("already-downloaded line did not set AlreadyExists")
	}
	if f.result.ExistingFile != "/out/video.mp4" {
		t.Errorf("existing file = %q, want /out/video.mp4", f.result.ExistingFile)
	}
	if len(f.events) != 0 {
		t.Errorf("got %d events, want none for the scrape path", len(f.events))
	}
}

func TestScanOutputLineErrorLine(t *testing.T) {
	t.Parallel()
	f := newLineScanFixture()

	f.scan("ERROR: HTTP Error 403: Forbidden")

	if f.lastErr != "HTTP Error 403: Forbidden" {
		t.Errorf("last error line = %q, want the message after the prefix", f.lastErr)
	}
	if len(f.events) != 1 {
		t.Fatalf("got %d events, want 1 synthesized error event", len(f.events))
	}
	if f.events[0].Status != models.EventError || f.events[0].ErrorMsg != "HTTP Error 403: Forbidden" {
		t.Errorf("error event = %+v, want an error event carrying the message", f.events[0])
	}
}

func TestScanOutputLineCompletedFilepath(t *testing.T) {
	t.Parallel()
	f := newLineScanFixture()

	f.scan("/out/video.mp4")
	f.scan("/out/video.mp4") // printed again; must not double-count
	f.scan("/out/notes.txt") // not a media extension
	f.scan("relative/video.mp4")

	if len(f.result.Files) != 1 || f.result.Files[0] != "/out/video.mp4" {
		t.Fatalf("files = %v, want exactly the absolute media path once", f.result.Files)
	}

	finished := 0
	for _, e := range f.events {
		if e.Status == models.EventFinished {
			finished++
			if e.Filename != "/out/video.mp4" {
				t.Errorf("finished event filename = %q, want /out/video.mp4", e.Filename)
			}
		}
	}
	if finished != 2 {
		t.Errorf("got %d finished events, want 2 (dedup is the estimator's job)", finished)
	}
}
