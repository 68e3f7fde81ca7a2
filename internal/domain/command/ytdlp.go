// Package command holds the yt-dlp argument vocabulary.
package command

// General
const (
	YTDLP             = "yt-dlp"
	Output            = "-o"
	Print             = "--print"
	AfterMove         = "after_move:%(filepath)s"
	FilenameSyntax    = "%(title)s.%(ext)s"
	RestrictFilenames = "--restrict-filenames"
	Newline           = "--newline"
	Quiet             = "--quiet"
	NoWarnings        = "--no-warnings"
	IgnoreErrors      = "--ignore-errors"
	CookiePath        = "--cookies"
)

// Encoding selection
const (
	Format = "-f"
)

// Retry behavior
const (
	Retries          = "--retries"
	FragmentRetries  = "--fragment-retries"
	ExtractorRetries = "--extractor-retries"
)

// Playlist handling
const (
	NoPlaylist    = "--no-playlist"
	YesPlaylist   = "--yes-playlist"
	PlaylistItems = "--playlist-items"
)

// Subtitles
const (
	WriteSubs     = "--write-subs"
	WriteAutoSubs = "--write-auto-subs"
)

// Progress reporting
const (
	ProgressTemplate = "--progress-template"
	ProgressAsJSON   = "%(progress)j"
)

// Metadata probing
const (
	OutputJSON   = "-J"
	FlatPlaylist = "--flat-playlist"
)

// Merge tool
const (
	FFmpeg        = "ffmpeg"
	FFmpegVersion = "-version"
)
