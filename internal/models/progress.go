package models

// ProgressEvent is one progress callback from the extraction backend. yt-dlp
// reports a loosely structured bag of optional fields; pointers distinguish
// absent from zero.
type ProgressEvent struct {
	Status             string   `json:"status"`
	Filename           string   `json:"filename"`
	DownloadedBytes    int64    `json:"downloaded_bytes"`
	TotalBytes         *int64   `json:"total_bytes"`
	TotalBytesEstimate *float64 `json:"total_bytes_estimate"`
	FragmentIndex      *int     `json:"fragment_index"`
	FragmentCount      *int     `json:"fragment_count"`
	PercentStr         string   `json:"_percent_str"`
	SpeedStr           string   `json:"_speed_str"`
	ETAStr             string   `json:"_eta_str"`
	ErrorMsg           string   `json:"error"`
}

// Event statuses reported by the backend.
const (
	EventDownloading = "downloading"
	EventFinished    = "finished"
	EventError       = "error"
)

// SignalKind names which progress signal an event carries, in strict
// precedence order. Classification is first-satisfied-wins, never averaged.
type SignalKind int

const (
	SignalNone SignalKind = iota
	SignalByteTotal
	SignalByteEstimate
	SignalFragments
	SignalPercentString
	SignalRawBytes
)

// ProgressState is the derived, caller-facing progress snapshot. It is a
// value; the estimator returns a fresh state and never mutates shared data.
type ProgressState struct {
	Percent    float64
	PhaseIcon  string
	StatusLine string

	// Completed holds filenames confirmed finished, de-duplicated, in the
	// order first seen.
	Completed []string

	// Restricted is set when an error event carried a 403/Forbidden message.
	Restricted bool

	// LastSignal records which signal produced the current percent.
	LastSignal SignalKind
}

// HasCompleted reports whether filename was already confirmed finished.
func (s ProgressState) HasCompleted(filename string) bool {
	for _, f := range s.Completed {
		if f == filename {
			return true
		}
	}
	return false
}

// StatusUpdate is the tracker/store representation of one progress change.
type StatusUpdate struct {
	SessionID string
	URL       string
	Status    string
	Percent   float64
	Error     error
}
