package downloads

import (
	"fmt"
	"path/filepath"

	"grabarr/internal/domain/command"
	"grabarr/internal/domain/consts"
	"grabarr/internal/format"
	"grabarr/internal/models"
	"grabarr/internal/playlist"
)

// fallbackSelectors is the fixed preference list of narrower,
// previously-verified-working single selectors tried after the primary
// attempt, strictly in order.
var fallbackSelectors = []string{
	"bestaudio",
	"602+139-drc",
	"bestvideo+bestaudio",
	"602",
	"139-drc",
}

// buildAttemptPlan builds the ordered attempt list for one session: the
// primary attempt with the full option set, the fallback tiers, then one
// final minimal audio-only attempt.
func buildAttemptPlan(req models.Request, expr format.SelectorExpression, res playlist.Resolution) []*models.DownloadAttempt {
	plan := make([]*models.DownloadAttempt, 0, len(fallbackSelectors)+2)

	primary := models.BackendOptions{
		OutputTemplate:     filepath.Join(req.OutputDir, command.FilenameSyntax),
		Format:             expr.String(),
		Subtitles:          req.Subtitles,
		Retries:            consts.DefaultRetries,
		FragmentRetries:    consts.DefaultFragmentRetries,
		ExtractorRetries:   2,
		TolerateItemErrors: true,
		CookieFile:         req.CookieFile,
	}
	applyPlaylistSelection(&primary, res)

	plan = append(plan, &models.DownloadAttempt{
		Index:    0,
		Selector: expr.String(),
		Options:  primary,
	})

	// Each fallback gets a distinct output suffix to avoid colliding with a
	// partial artifact from an earlier tier.
	for i, sel := range fallbackSelectors {
		opts := models.BackendOptions{
			OutputTemplate: filepath.Join(req.OutputDir, fmt.Sprintf("%%(title)s_fallback%d.%%(ext)s", i+1)),
			Format:         sel,
			CookieFile:     req.CookieFile,
		}
		applyPlaylistSelection(&opts, res)

		plan = append(plan, &models.DownloadAttempt{
			Index:    i + 1,
			Selector: sel,
			Options:  opts,
		})
	}

	// Last resort: quietest possible backend settings, audio only.
	last := models.BackendOptions{
		OutputTemplate: filepath.Join(req.OutputDir, "%(title)s_lastresort.%(ext)s"),
		Format:         "bestaudio",
		Quiet:          true,
		CookieFile:     req.CookieFile,
	}
	applyPlaylistSelection(&last, res)

	plan = append(plan, &models.DownloadAttempt{
		Index:    len(fallbackSelectors) + 1,
		Selector: "bestaudio",
		Options:  last,
	})

	return plan
}

// applyPlaylistSelection maps a playlist resolution onto backend options.
func applyPlaylistSelection(opts *models.BackendOptions, res playlist.Resolution) {
	switch res.Kind {
	case playlist.SelectSingle:
		opts.CollectionMode = false
	case playlist.SelectWhole:
		opts.CollectionMode = true
	case playlist.SelectItems:
		opts.CollectionMode = true
		opts.PlaylistItems = res.Items
	}
}
