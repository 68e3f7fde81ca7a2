package cfg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"grabarr/internal/domain/keys"
	"grabarr/internal/models"

	"github.com/spf13/viper"
)

var heightPattern = regexp.MustCompile(`^(\d{3,4})p$`)

// ParseQuality maps a user quality string onto a quality tier.
func ParseQuality(s string) (models.QualityTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "best":
		return models.QualityTier{Kind: models.TierBestQuality}, nil
	case "worst", "data-saver":
		return models.QualityTier{Kind: models.TierDataSaving}, nil
	case "audio", "audio-only":
		return models.QualityTier{Kind: models.TierAudioOnly}, nil
	}

	if m := heightPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s))); m != nil {
		h, err := strconv.Atoi(m[1])
		if err != nil {
			return models.QualityTier{}, fmt.Errorf("invalid quality %q", s)
		}
		return models.QualityTier{Kind: models.TierHeight, Height: h}, nil
	}

	return models.QualityTier{}, fmt.Errorf("invalid quality %q (use best, worst, audio, or a height such as 720p)", s)
}

// ParsePlaylistItems parses a comma-separated list of 1-based indices.
func ParsePlaylistItems(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	items := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid playlist item %q: indices are positive numbers", p)
		}
		items = append(items, n)
	}
	return items, nil
}

// BuildRequest assembles the download request from the bound flags.
func BuildRequest() (models.Request, error) {
	quality, err := ParseQuality(viper.GetString(keys.Quality))
	if err != nil {
		return models.Request{}, err
	}

	items, err := ParsePlaylistItems(viper.GetString(keys.PlaylistItems))
	if err != nil {
		return models.Request{}, err
	}

	req := models.Request{
		URL:            viper.GetString(keys.URL),
		Quality:        quality,
		OutputDir:      viper.GetString(keys.OutputDir),
		Subtitles:      viper.GetBool(keys.Subtitles),
		CollectionMode: viper.GetBool(keys.Playlist),
		ExplicitItems:  items,
		RangeStart:     viper.GetInt(keys.PlaylistStart),
		RangeEnd:       viper.GetInt(keys.PlaylistEnd),
		CookieFile:     viper.GetString(keys.CookiePath),
	}

	// Explicit items imply playlist handling.
	if len(req.ExplicitItems) > 0 {
		req.CollectionMode = true
	}
	return req, nil
}
