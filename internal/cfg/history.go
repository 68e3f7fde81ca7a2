package cfg

import (
	"context"
	"fmt"
	"strings"

	"grabarr/internal/domain/consts"

	"github.com/spf13/cobra"
)

// initHistoryCmd builds the "history" subcommand, listing past sessions.
func initHistoryCmd(open StoreOpener) *cobra.Command {
	var limit int

	histCmd := &cobra.Command{
		Use:   "history",
		Short: "List past download sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, db, err := open()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), consts.DatabaseTimeout)
			defer cancel()

			records, err := s.ListSessions(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			if len(records) == 0 {
				fmt.Println("No download history yet.")
				return nil
			}

			for _, r := range records {
				line := fmt.Sprintf("%s  %-14s %5.1f%%  %s",
					r.CreatedAt.Format("2006-01-02 15:04"), r.Outcome, r.Percent, r.URL)
				fmt.Println(line)

				if r.Files != "" {
					for _, f := range strings.Split(r.Files, "\n") {
						fmt.Printf("    %s\n", f)
					}
				}
				if r.Error != "" {
					fmt.Printf("    error: %s\n", r.Error)
				}
			}
			return nil
		},
	}

	histCmd.Flags().IntVar(&limit, "limit", 25, "Maximum sessions to show")
	return histCmd
}
