package downloads

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"grabarr/internal/domain/command"
	"grabarr/internal/domain/consts"
	"grabarr/internal/utils/logging"
)

// MergeToolAvailable checks whether a local muxing tool exists for combining
// separate audio and video streams. Computed once per session; the result
// does not change mid-attempt.
func MergeToolAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, consts.MergeProbeTimeout)
	defer cancel()

	if err := exec.CommandContext(ctx, command.FFmpeg, command.FFmpegVersion).Run(); err != nil {
		logging.D(1, "Merge tool probe failed: %v", err)
		return false
	}
	return true
}

// waitForFile waits until the file exists and its size stops changing.
func waitForFile(path string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	var lastSize int64 = -1
	for time.Now().Before(deadline) {
		info, err := os.Stat(path)
		if err == nil {
			if info.Size() > 0 && info.Size() == lastSize {
				return nil
			}
			lastSize = info.Size()
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat file %q: %w", path, err)
		}
		time.Sleep(consts.FileCheckInterval)
	}
	return fmt.Errorf("file %q did not stabilize within %v", path, timeout)
}
