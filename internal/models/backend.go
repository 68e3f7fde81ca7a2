package models

// BackendOptions are the recognized knobs for one backend download call.
type BackendOptions struct {
	OutputTemplate   string
	Format           string
	PlaylistItems    string
	CollectionMode   bool
	Subtitles        bool
	Retries          int
	FragmentRetries  int
	ExtractorRetries int

	// TolerateItemErrors continues past per-item failures so one bad playlist
	// entry does not abort the rest.
	TolerateItemErrors bool

	// Quiet runs the backend with minimal output (last-resort attempts).
	Quiet bool

	CookieFile string
}

// DownloadResult is the terminal outcome of one backend download call.
type DownloadResult struct {
	Files []string

	// AlreadyExists is set when the backend reported the destination file as
	// already downloaded. ExistingFile carries the reported name when known.
	AlreadyExists bool
	ExistingFile  string
}

// Metadata is the result of probing a URL.
type Metadata struct {
	Title      string
	Uploader   string
	Duration   int64 // seconds
	ViewCount  int64
	UploadDate string // hyphenated yyyy-mm-dd when parseable
	IsPlaylist bool
	EntryCount int
	Entries    []MetadataEntry

	// Heights are the distinct video heights seen in the available formats,
	// descending. Feeds dynamically discovered quality tiers.
	Heights []int
}

// MetadataEntry is one item of a probed collection.
type MetadataEntry struct {
	Index    int
	ID       string
	Title    string
	Duration int64
	URL      string
}
