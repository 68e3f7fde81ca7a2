// Package cfg provides configuration and command-line interface setup for
// grabarr.
package cfg

import (
	"database/sql"
	"errors"

	"grabarr/internal/contracts"
	"grabarr/internal/domain/keys"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// StoreOpener lazily opens the history store. Deferred until after flag
// parsing so --history-db and the environment can steer the location.
type StoreOpener func() (contracts.DownloadStore, *sql.DB, error)

var rootCmd = &cobra.Command{
	Use:   "grabarr [url]",
	Short: "Grabarr downloads videos and playlists with automatic quality fallbacks.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Lookup("help").Changed {
			return nil
		}
		if len(args) == 0 {
			return errors.New("a video or playlist URL is required")
		}
		viper.Set(keys.URL, args[0])
		viper.Set(keys.Execute, true)
		return nil
	},
}

// Execute runs the root command tree.
func Execute() error {
	return rootCmd.Execute()
}

// InitCommands initializes all commands and their flags.
func InitCommands(open StoreOpener) {
	rootCmd.AddCommand(initHistoryCmd(open))

	pf := rootCmd.PersistentFlags()
	pf.Int(keys.DebugLevel, 0, "Debug level (0-5)")
	pf.String(keys.LogDir, "", "Directory to write the log file into")
	viper.BindPFlag(keys.DebugLevel, pf.Lookup(keys.DebugLevel))
	viper.BindPFlag(keys.LogDir, pf.Lookup(keys.LogDir))

	f := rootCmd.Flags()
	f.StringP(keys.Quality, "q", "best", "Quality tier: best, 1080p/720p/480p/360p/240p, worst, audio")
	f.StringP(keys.OutputDir, "o", ".", "Directory to save downloads into")
	f.Bool(keys.Subtitles, false, "Also grab subtitles when available")
	f.String(keys.CookieSource, "", "Browser to pull cookies from (e.g. firefox)")
	f.String(keys.CookiePath, "", "Netscape cookie file to pass to the downloader")
	f.String(keys.HistoryDB, "", "Path to the history database file")
	f.Bool(keys.SkipHistory, false, "Do not record this session in history")
	f.Bool(keys.MergeOverride, false, "Assume the merge tool is present without probing")
	f.Bool(keys.Playlist, false, "Treat the URL as a playlist")
	f.Int(keys.PlaylistStart, 0, "First 1-based playlist index to download")
	f.Int(keys.PlaylistEnd, 0, "Last playlist index to download (0 = to the end)")
	f.String(keys.PlaylistItems, "", "Comma-separated 1-based playlist indices (overrides start/end)")
	f.Bool(keys.AnalyzeOnly, false, "Probe the URL and print its details without downloading")

	viper.BindPFlag(keys.Quality, f.Lookup(keys.Quality))
	viper.BindPFlag(keys.OutputDir, f.Lookup(keys.OutputDir))
	viper.BindPFlag(keys.Subtitles, f.Lookup(keys.Subtitles))
	viper.BindPFlag(keys.CookieSource, f.Lookup(keys.CookieSource))
	viper.BindPFlag(keys.CookiePath, f.Lookup(keys.CookiePath))
	viper.BindPFlag(keys.HistoryDB, f.Lookup(keys.HistoryDB))
	viper.BindPFlag(keys.SkipHistory, f.Lookup(keys.SkipHistory))
	viper.BindPFlag(keys.MergeOverride, f.Lookup(keys.MergeOverride))
	viper.BindPFlag(keys.Playlist, f.Lookup(keys.Playlist))
	viper.BindPFlag(keys.PlaylistStart, f.Lookup(keys.PlaylistStart))
	viper.BindPFlag(keys.PlaylistEnd, f.Lookup(keys.PlaylistEnd))
	viper.BindPFlag(keys.PlaylistItems, f.Lookup(keys.PlaylistItems))
	viper.BindPFlag(keys.AnalyzeOnly, f.Lookup(keys.AnalyzeOnly))
}

// IsSet proxies to Viper.
func IsSet(key string) bool {
	return viper.IsSet(key)
}

// GetString proxies to Viper.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool proxies to Viper.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
