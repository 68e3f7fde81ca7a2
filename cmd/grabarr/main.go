// Package main is the entrypoint of grabarr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grabarr/internal/cfg"
	"grabarr/internal/domain/keys"
	"grabarr/internal/utils/logging"

	"github.com/spf13/viper"
)

// main is the main entrypoint of the program (duh!).
func main() {
	startTime := time.Now()

	initConfig()
	cfg.InitCommands(openHistoryStore)

	if err := cfg.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !viper.GetBool(keys.Execute) {
		return // help or a subcommand already handled everything
	}

	setupLogging()
	logging.I("grabarr started at: %v", startTime.Format("2006-01-02 15:04:05.00 MST"))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		logging.E("Error: %v", err)
		os.Exit(1)
	}
}
