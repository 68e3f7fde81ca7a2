package models

// QualityTier is the abstract quality a caller asks for. Explicit heights
// (720p, 480p...) are carried in Height with TierHeight.
type QualityTier struct {
	Kind   TierKind
	Height int
}

// TierKind enumerates the supported quality tiers.
type TierKind int

const (
	TierBestQuality TierKind = iota
	TierHeight
	TierDataSaving
	TierAudioOnly
)

func (k TierKind) String() string {
	switch k {
	case TierBestQuality:
		return "Best Quality"
	case TierHeight:
		return "Height"
	case TierDataSaving:
		return "Data Saving"
	case TierAudioOnly:
		return "Audio Only"
	}
	return "Unknown"
}

// Request is one logical download request as submitted by the caller.
type Request struct {
	URL       string
	Quality   QualityTier
	OutputDir string
	Subtitles bool

	// CollectionMode opts the request into playlist handling. When false the
	// backend is always constrained to a single item.
	CollectionMode bool
	ExplicitItems  []int
	RangeStart     int // 0 = unset
	RangeEnd       int // 0 = unset

	// CookieFile is a Netscape cookie file passed through to the backend.
	CookieFile string
}
