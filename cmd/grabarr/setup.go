package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"grabarr/internal/contracts"
	"grabarr/internal/database"
	"grabarr/internal/domain/keys"
	"grabarr/internal/repo"
	"grabarr/internal/utils/logging"

	"github.com/spf13/viper"
)

// initConfig wires the environment config source. Keys use dashes; the
// replacer maps them to exportable variable names (GRABARR_HISTORY_DB).
func initConfig() {
	viper.SetEnvPrefix("grabarr")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// openHistoryStore opens the history database at the configured path. Must
// run after flag parsing so --history-db and the environment both apply.
func openHistoryStore() (contracts.DownloadStore, *sql.DB, error) {
	db, err := database.Open(viper.GetString(keys.HistoryDB))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return repo.GetDownloadStore(db), db, nil
}

// setupLogging wires the log file once flags are parsed. Runs without a log
// file rather than refusing to start.
func setupLogging() {
	logDir := viper.GetString(keys.LogDir)
	if logDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not locate home directory, proceeding without log file: %v\n", err)
			return
		}
		logDir = filepath.Join(home, ".grabarr")
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "could not create log directory, proceeding without log file: %v\n", err)
		return
	}

	if err := logging.SetupLogging(logDir, viper.GetInt(keys.DebugLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "could not set up logging, proceeding without: %v\n", err)
	}
}
