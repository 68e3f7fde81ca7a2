// Package keys holds the Viper key strings used across grabarr.
package keys

// Terminal keys
const (
	URL           string = "url"
	Quality       string = "quality"
	OutputDir     string = "output-dir"
	Subtitles     string = "subs"
	CookieSource  string = "cookie-source"
	CookiePath    string = "cookie-file"
	HistoryDB     string = "history-db"
	DebugLevel    string = "debug"
	LogDir        string = "log-dir"
	SkipHistory   string = "no-history"
	MergeOverride string = "assume-merge"

	Playlist      string = "playlist"
	PlaylistStart string = "playlist-start"
	PlaylistEnd   string = "playlist-end"
	PlaylistItems string = "playlist-items"

	AnalyzeOnly string = "analyze"
)

// Internal keys
const (
	Execute string = "execute"
)
