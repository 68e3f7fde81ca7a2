package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"grabarr/internal/cfg"
	"grabarr/internal/cookies"
	"grabarr/internal/domain/consts"
	"grabarr/internal/domain/keys"
	"grabarr/internal/downloads"
	"grabarr/internal/models"
	"grabarr/internal/parsing"
	"grabarr/internal/utils/logging"

	"github.com/spf13/viper"
)

// run drives one terminal invocation: analyze or download the given URL.
func run(ctx context.Context) error {
	req, err := cfg.BuildRequest()
	if err != nil {
		return err
	}

	backend := downloads.NewYTDLP()
	controller := downloads.NewController(backend)

	if viper.GetBool(keys.AnalyzeOnly) {
		meta, err := controller.Analyze(ctx, req.URL)
		if err != nil {
			return err
		}
		printMetadata(req.URL, meta)
		return nil
	}

	if !viper.GetBool(keys.SkipHistory) {
		store, db, err := openHistoryStore()
		if err != nil {
			logging.W("History disabled for this run: %v", err)
		} else {
			defer db.Close()
			controller.SetStore(store)

			tracker := downloads.NewTracker(store)
			tracker.Start(ctx)
			defer tracker.Stop()
			controller.SetTracker(tracker)
		}
	}

	if viper.GetBool(keys.MergeOverride) {
		controller.SetMergeProbe(func(context.Context) bool { return true })
	}

	if req.CookieFile == "" && viper.GetString(keys.CookieSource) != "" {
		req.CookieFile = harvestCookies(ctx, req.URL)
	}

	// A probe before a ranged playlist download lets the range be checked
	// against the real entry count.
	if req.CollectionMode && (req.RangeStart > 0 || req.RangeEnd > 0) {
		if _, err := controller.Analyze(ctx, req.URL); err != nil {
			logging.W("Could not pre-check the playlist: %v", err)
		}
	}

	controller.OnProgress(func(s models.ProgressState) {
		fmt.Printf("%s%s %s", consts.ClearLine, s.PhaseIcon, s.StatusLine)
	})

	outcomes := make(chan models.Outcome, 1)
	controller.OnTerminal(func(o models.Outcome) { outcomes <- o })

	if _, err := controller.Start(ctx, req); err != nil {
		return err
	}

	var outcome models.Outcome
	select {
	case outcome = <-outcomes:
	case <-ctx.Done():
		controller.Cancel()
		outcome = <-outcomes
	}
	fmt.Println()

	return reportOutcome(outcome)
}

// reportOutcome prints the terminal state and maps failures to an error.
func reportOutcome(o models.Outcome) error {
	switch o.Kind {
	case models.OutcomeSucceeded:
		logging.S("Download complete (%d file(s)):", len(o.Files))
		for _, f := range o.Files {
			fmt.Printf("  %s\n", f)
		}
		return nil

	case models.OutcomeAlreadyExists:
		logging.S("Already downloaded: %s", filepath.Base(o.Filename))
		return nil

	case models.OutcomeCancelled:
		logging.W("Download cancelled")
		return nil

	case models.OutcomeRestricted:
		return errors.New(o.Message)

	default:
		return errors.New(o.Message)
	}
}

// printMetadata renders an analyze-only probe.
func printMetadata(url string, meta *models.Metadata) {
	fmt.Printf("\nURL: %s\n", url)
	fmt.Printf("Title: %s\n", meta.Title)
	if meta.Uploader != "" {
		fmt.Printf("Uploader: %s\n", meta.Uploader)
	}

	if meta.IsPlaylist {
		fmt.Printf("Entries: %d\n", meta.EntryCount)
		for _, e := range meta.Entries {
			fmt.Printf("  %3d. %s\n", e.Index, e.Title)
		}
		return
	}

	fmt.Printf("Duration: %s\n", parsing.FormatDuration(meta.Duration))
	fmt.Printf("Views: %s\n", parsing.FormatCount(meta.ViewCount))
	if meta.UploadDate != "" {
		fmt.Printf("Uploaded: %s\n", meta.UploadDate)
	}
	if len(meta.Heights) > 0 {
		hs := make([]string, 0, len(meta.Heights))
		for _, h := range meta.Heights {
			hs = append(hs, fmt.Sprintf("%dp", h))
		}
		fmt.Printf("Available heights: %s\n", strings.Join(hs, ", "))
	}
}

// harvestCookies pulls browser cookies for the URL's domain and writes them
// to a Netscape file the backend can consume. Best effort.
func harvestCookies(ctx context.Context, url string) string {
	mgr := cookies.NewManager()
	cks, err := mgr.GetCookies(ctx, url)
	if err != nil || len(cks) == 0 {
		logging.D(1, "No browser cookies found for %s", url)
		return ""
	}

	dir, err := os.MkdirTemp("", "grabarr-cookies-")
	if err != nil {
		logging.W("Could not create cookie directory: %v", err)
		return ""
	}

	domain := "youtube.com"
	if u, err := cookies.BaseDomain(url); err == nil {
		domain = u
	}

	path, err := cookies.SaveToFile(cks, domain, filepath.Join(dir, "cookies.txt"))
	if err != nil {
		logging.W("Could not write cookie file: %v", err)
		return ""
	}
	logging.D(1, "Using %d browser cookie(s) from %s", len(cks), path)
	return path
}
