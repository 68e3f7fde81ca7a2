// Package regex compiles and caches various regex expressions.
package regex

import (
	"regexp"
)

var (
	AlreadyDownloaded *regexp.Regexp
	ErrorLine         *regexp.Regexp
)

// AlreadyDownloadedCompile compiles regex for yt-dlp's already-downloaded
// debug output. Text scraping is the degraded path when the backend offers
// no structured signal.
func AlreadyDownloadedCompile() *regexp.Regexp {
	if AlreadyDownloaded == nil {
		AlreadyDownloaded = regexp.MustCompile(`\[download\]\s+(.+?)\s+has already been downloaded`)
	}
	return AlreadyDownloaded
}

// ErrorLineCompile compiles regex for yt-dlp error output lines.
func ErrorLineCompile() *regexp.Regexp {
	if ErrorLine == nil {
		ErrorLine = regexp.MustCompile(`^ERROR:\s*(.+)$`)
	}
	return ErrorLine
}
