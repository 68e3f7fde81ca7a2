// Package format maps abstract quality tiers onto ordered yt-dlp encoding
// selector expressions.
package format

import (
	"fmt"
	"strings"

	"grabarr/internal/models"
)

// SelectorExpression is an ordered list of encoding-combination alternatives,
// highest preference first. The backend evaluates alternatives left to right
// and uses the first that resolves.
type SelectorExpression []string

// String joins the alternatives into the backend's `/` syntax.
func (s SelectorExpression) String() string {
	return strings.Join(s, "/")
}

// Last returns the final, most permissive alternative.
func (s SelectorExpression) Last() string {
	return s[len(s)-1]
}

// Select maps a quality tier and the merge-tool availability to a selector
// expression. The result is never empty and always ends in bestaudio or
// broader, so a request cannot fail purely from selector exhaustion.
//
// Without a merge tool the backend must never be asked to combine separate
// audio and video streams; every tier degrades to a single-stream list. That
// sacrifices quality to guarantee some file is produced.
func Select(tier models.QualityTier, mergeAvailable bool) SelectorExpression {
	if !mergeAvailable {
		return selectNoMerge(tier)
	}

	switch tier.Kind {
	case models.TierAudioOnly:
		return SelectorExpression{"bestaudio"}

	case models.TierDataSaving:
		return SelectorExpression{
			"worstvideo[height>=144]+bestaudio",
			"602+139-drc", "602+139", "602", "160+139", "160",
			"bestaudio",
		}

	case models.TierBestQuality:
		return SelectorExpression{
			"bestvideo+bestaudio",
			"best[height<=2160]",
			"bestvideo[height<=1440]+bestaudio",
			"bestvideo[height<=1080]+bestaudio",
			"bestvideo+bestaudio",
			"bestaudio",
		}

	case models.TierHeight:
		if alts, ok := knownHeightAlternatives[tier.Height]; ok {
			return alts
		}
		if tier.Height > 0 {
			// Dynamically discovered heights (e.g. 1080p offered after a
			// probe) follow the generic capped pattern.
			h := tier.Height
			return SelectorExpression{
				fmt.Sprintf("bestvideo[height<=%d]+bestaudio", h),
				fmt.Sprintf("bestvideo[height<=%d]", h),
				"bestaudio",
			}
		}
	}

	// Unrecognized tiers fall back to the generic best-effort list.
	return SelectorExpression{"bestvideo+bestaudio", "bestaudio"}
}

// knownHeightAlternatives carries proven-working numeric encoding pairs per
// common height cap.
var knownHeightAlternatives = map[int]SelectorExpression{
	720: {"bestvideo[height<=720]+bestaudio", "136+140", "136+139", "bestaudio"},
	480: {"bestvideo[height<=480]+bestaudio", "135+140", "135+139", "bestaudio"},
	360: {"bestvideo[height<=360]+bestaudio", "134+140", "134+139", "bestaudio"},
	240: {"bestvideo[height<=240]+bestaudio", "133+140", "133+139", "bestaudio"},
}

// selectNoMerge returns single-stream-only alternatives for a tier.
func selectNoMerge(tier models.QualityTier) SelectorExpression {
	switch tier.Kind {
	case models.TierAudioOnly:
		return SelectorExpression{"bestaudio"}
	case models.TierDataSaving:
		return SelectorExpression{"worst", "bestaudio"}
	case models.TierBestQuality:
		return SelectorExpression{"best", "bestaudio"}
	default:
		// Height caps need merged streams; audio is better than no download.
		return SelectorExpression{"bestaudio"}
	}
}
