package downloads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"

	"grabarr/internal/domain/command"
	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
	"grabarr/internal/parsing"
	"grabarr/internal/utils/logging"
)

// probeInfo mirrors the backend's -J metadata output, limited to the fields
// the engine consumes.
type probeInfo struct {
	Type       string  `json:"_type"`
	Title      string  `json:"title"`
	Uploader   string  `json:"uploader"`
	Duration   float64 `json:"duration"`
	ViewCount  int64   `json:"view_count"`
	UploadDate string  `json:"upload_date"`

	PlaylistCount int `json:"playlist_count"`
	Entries       []struct {
		ID       string  `json:"id"`
		Title    string  `json:"title"`
		Duration float64 `json:"duration"`
		URL      string  `json:"url"`
	} `json:"entries"`

	Formats []struct {
		Height int `json:"height"`
	} `json:"formats"`
}

// Probe analyzes a URL. flat requests the fast shallow listing used for
// collections; full resolution learns the available encodings.
func (y *YTDLP) Probe(ctx context.Context, url string, flat bool) (*models.Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, consts.MetadataTimeout)
	defer cancel()

	args := []string{command.OutputJSON, command.IgnoreErrors, command.NoWarnings}
	if flat {
		args = append(args, command.FlatPlaylist)
	}
	args = append(args, url)

	cmd := exec.CommandContext(ctx, y.Bin, args...)
	logging.D(1, "Built probe command for URL %q:\n%v", url, cmd.String())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("probe failed: %s: %w", stderr.String(), err)
		}
		return nil, fmt.Errorf("probe failed: %w", err)
	}

	var info probeInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("failed to parse probe output: %w", err)
	}

	return metadataFromProbe(&info), nil
}

// metadataFromProbe maps raw probe output onto the engine's metadata model.
func metadataFromProbe(info *probeInfo) *models.Metadata {
	meta := &models.Metadata{
		Title:      info.Title,
		Uploader:   info.Uploader,
		Duration:   int64(info.Duration),
		ViewCount:  info.ViewCount,
		IsPlaylist: info.Type == "playlist" || len(info.Entries) > 0,
	}

	if info.UploadDate != "" {
		if parsed, err := parsing.ParseWordDate(info.UploadDate); err == nil {
			meta.UploadDate = parsed
		} else {
			meta.UploadDate = parsing.HyphenateYyyyMmDd(info.UploadDate)
		}
	}

	if meta.IsPlaylist {
		meta.EntryCount = info.PlaylistCount
		if meta.EntryCount == 0 {
			meta.EntryCount = len(info.Entries)
		}
		for i, e := range info.Entries {
			meta.Entries = append(meta.Entries, models.MetadataEntry{
				Index:    i + 1,
				ID:       e.ID,
				Title:    e.Title,
				Duration: int64(e.Duration),
				URL:      e.URL,
			})
		}
	}

	seen := make(map[int]struct{})
	for _, f := range info.Formats {
		if f.Height > 0 {
			if _, ok := seen[f.Height]; !ok {
				seen[f.Height] = struct{}{}
				meta.Heights = append(meta.Heights, f.Height)
			}
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(meta.Heights)))

	return meta
}
