package consts

// DownloadStatus represents the lifecycle state of a download attempt.
type DownloadStatus string

const (
	DLStatusPending     DownloadStatus = "Pending"
	DLStatusValidating  DownloadStatus = "Validating"
	DLStatusProbing     DownloadStatus = "Probing"
	DLStatusDownloading DownloadStatus = "Downloading"
	DLStatusCompleted   DownloadStatus = "Completed"
	DLStatusExists      DownloadStatus = "Already Exists"
	DLStatusCancelled   DownloadStatus = "Cancelled"
	DLStatusRestricted  DownloadStatus = "Restricted"
	DLStatusFailed      DownloadStatus = "Failed"
)

// AllVidExtensions are extensions yt-dlp may produce for finished media files.
var AllVidExtensions = []string{
	".3gp", ".avi", ".f4v", ".flv", ".m4a", ".m4v", ".mkv",
	".mov", ".mp3", ".mp4", ".mpeg", ".mpg", ".ogg", ".ogv",
	".opus", ".ts", ".vob", ".wav", ".webm", ".wmv",
}

// Status line display.
const (
	MaxFilenameDisplayLen = 50
	TruncateSuffix        = "..."
)

// Progress source tags appended to the status line.
const (
	SourceTagHLS      = "(HLS)"
	SourceTagEstimate = "(Est.)"
)
