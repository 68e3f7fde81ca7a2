// Package logging provides leveled console output plus a structured JSON
// file log for post-mortem inspection.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	// Level gates debug output. -1 until SetupLogging runs.
	Level int = -1

	mu       sync.Mutex
	fileLog  zerolog.Logger
	loggable bool
)

// ansiEscape matches ANSI escape codes so the file log stays clean.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// SetupLogging creates and/or opens the log file in targetDir.
func SetupLogging(targetDir string, debugLevel int) error {
	Level = debugLevel

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", targetDir, err)
	}

	path := filepath.Join(targetDir, "grabarr.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %q: %w", path, err)
	}

	fileLog = zerolog.New(f).With().Timestamp().Logger()
	loggable = true

	fileLog.Info().Msgf("=========== %s ===========", time.Now().Format(time.RFC1123Z))
	return nil
}

// writeLog writes a console message into the structured file log.
func writeLog(level zerolog.Level, msg string) {
	if !loggable {
		return
	}
	fileLog.WithLevel(level).Msg(stripAnsiCodes(msg))
}

// stripAnsiCodes removes ANSI escape codes from a string.
func stripAnsiCodes(input string) string {
	return ansiEscape.ReplaceAllString(input, "")
}
