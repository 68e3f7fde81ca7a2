// Package validation handles validation of user input before a download
// session is started.
package validation

import (
	"fmt"
	"os"
	"regexp"
)

// videoURLPatterns are the recognized resource URL shapes.
var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/watch\?v=[\w-]+`),
	regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/playlist\?list=[\w-]+`),
	regexp.MustCompile(`^https?://youtu\.be/[\w-]+`),
	regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/channel/[\w-]+`),
	regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/@[\w-]+`),
}

// ValidateURL checks the URL against the recognized resource URL shapes.
func ValidateURL(u string) error {
	if u == "" {
		return fmt.Errorf("no URL entered")
	}
	for _, p := range videoURLPatterns {
		if p.MatchString(u) {
			return nil
		}
	}
	return fmt.Errorf("invalid resource URL: %q", u)
}

var collectionURLPattern = regexp.MustCompile(`[?&]list=|/playlist\?`)

// IsCollectionURL reports whether the URL looks like a playlist reference.
// The probe decides authoritatively; this only picks the fast flat mode.
func IsCollectionURL(u string) bool {
	return collectionURLPattern.MatchString(u)
}

// ValidateDirectory validates that the directory exists, creating it when
// desired.
func ValidateDirectory(dir string, createIfNotFound bool) (os.FileInfo, error) {
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, fmt.Errorf("path %q exists but is not a directory", dir)
		}
		return info, nil
	case os.IsNotExist(err) && createIfNotFound:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
		return os.Stat(dir)
	default:
		return nil, fmt.Errorf("failed to stat directory %q: %w", dir, err)
	}
}
