// Package downloads drives one logical download request through the
// extraction backend, from primary attempt through the fallback chain to a
// terminal outcome.
package downloads

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"grabarr/internal/contracts"
	"grabarr/internal/domain/command"
	"grabarr/internal/domain/consts"
	"grabarr/internal/domain/regex"
	"grabarr/internal/models"
	"grabarr/internal/utils/logging"
)

// YTDLP shells out to yt-dlp as the extraction/download backend.
type YTDLP struct {
	Bin string
}

// NewYTDLP returns a yt-dlp backend using the binary on PATH.
func NewYTDLP() *YTDLP {
	return &YTDLP{Bin: command.YTDLP}
}

// buildDownloadArgs builds the yt-dlp argument list for one attempt.
func (y *YTDLP) buildDownloadArgs(url string, opts models.BackendOptions) []string {
	args := make([]string, 0, 32)

	args = append(args, command.RestrictFilenames)
	args = append(args, command.Output, opts.OutputTemplate)

	// Print filename to console upon completion
	args = append(args, command.Print, command.AfterMove)

	// One JSON progress object per line
	args = append(args, command.Newline, command.ProgressTemplate, command.ProgressAsJSON)

	if opts.Format != "" {
		args = append(args, command.Format, opts.Format)
	}

	if opts.CollectionMode {
		args = append(args, command.YesPlaylist)
		if opts.PlaylistItems != "" {
			args = append(args, command.PlaylistItems, opts.PlaylistItems)
		}
	} else {
		args = append(args, command.NoPlaylist)
	}

	if opts.Subtitles {
		args = append(args, command.WriteSubs, command.WriteAutoSubs)
	}

	if opts.Retries > 0 {
		args = append(args, command.Retries, strconv.Itoa(opts.Retries))
	}
	if opts.FragmentRetries > 0 {
		args = append(args, command.FragmentRetries, strconv.Itoa(opts.FragmentRetries))
	}
	if opts.ExtractorRetries > 0 {
		args = append(args, command.ExtractorRetries, strconv.Itoa(opts.ExtractorRetries))
	}

	if opts.TolerateItemErrors {
		args = append(args, command.IgnoreErrors)
	}

	if opts.Quiet {
		args = append(args, command.Quiet, command.NoWarnings)
	}

	if opts.CookieFile != "" {
		args = append(args, command.CookiePath, opts.CookieFile)
	}

	// Target URL [ MUST GO LAST !! ]
	args = append(args, url)
	return args
}

// Download executes one yt-dlp download attempt, streaming progress events
// into hook until the process exits.
func (y *YTDLP) Download(ctx context.Context, url string, opts models.BackendOptions, hook contracts.ProgressFunc) (*models.DownloadResult, error) {
	cmd := exec.CommandContext(ctx, y.Bin, y.buildDownloadArgs(url, opts)...)
	logging.D(1, "Built download command for URL %q:\n%v", url, cmd.String())

	// Set process group to allow killing child processes
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start command: %w", err)
	}

	lineChan := make(chan string, 100)

	// Merge stdout and stderr into lineChan
	go func() {
		defer close(lineChan)
		scanner := bufio.NewScanner(io.MultiReader(stdout, stderr))
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lineChan <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	result := &models.DownloadResult{}
	var lastErrLine string

	for line := range lineChan {
		y.scanOutputLine(line, result, &lastErrLine, hook)
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			// End the process group; CommandContext only kills the parent.
			if cmd.Process != nil {
				if killErr := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); killErr != nil && killErr != syscall.ESRCH {
					logging.E("Failed to kill process group %v: %v", cmd.Process.Pid, killErr)
				}
			}
			return result, ctx.Err()
		}
		if lastErrLine != "" {
			return result, fmt.Errorf("yt-dlp failed: %s: %w", lastErrLine, err)
		}
		return result, fmt.Errorf("yt-dlp failed: %w", err)
	}

	for _, f := range result.Files {
		if err := waitForFile(f, consts.FileWaitTimeout); err != nil {
			return result, err
		}
	}

	return result, nil
}

// scanOutputLine parses one line of yt-dlp terminal output.
func (y *YTDLP) scanOutputLine(line string, result *models.DownloadResult, lastErrLine *string, hook contracts.ProgressFunc) {
	if line == "" {
		return
	}
	logging.D(4, "Backend terminal output: %q", line)

	// JSON progress object emitted by the progress template
	if strings.HasPrefix(line, "{") {
		var event models.ProgressEvent
		if err := json.Unmarshal([]byte(line), &event); err == nil && event.Status != "" {
			if hook != nil {
				hook(event)
			}
			return
		}
	}

	// Structured signal missing: scrape the already-downloaded debug text.
	if matches := regex.AlreadyDownloadedCompile().FindStringSubmatch(line); matches != nil {
		result.AlreadyExists = true
		result.ExistingFile = matches[1]
		return
	}

	if matches := regex.ErrorLineCompile().FindStringSubmatch(line); matches != nil {
		*lastErrLine = matches[1]
		if hook != nil {
			hook(models.ProgressEvent{
				Status:   models.EventError,
				ErrorMsg: matches[1],
			})
		}
		return
	}

	// Completed filename printed by --print after_move:filepath
	if strings.HasPrefix(line, "/") {
		ext := filepath.Ext(line)
		for _, validExt := range consts.AllVidExtensions {
			if ext == validExt {
				appendUniqueFile(result, line)
				if hook != nil {
					hook(models.ProgressEvent{
						Status:   models.EventFinished,
						Filename: line,
					})
				}
				return
			}
		}
	}
}

func appendUniqueFile(result *models.DownloadResult, file string) {
	for _, f := range result.Files {
		if f == file {
			return
		}
	}
	result.Files = append(result.Files, file)
}
