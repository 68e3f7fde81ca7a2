// Package repo implements the storage contracts over the sqlite history
// database.
package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
	"grabarr/internal/utils/logging"

	"github.com/Masterminds/squirrel"
)

// Session table columns.
const (
	tableSessions = "sessions"

	colSessionID = "session_id"
	colURL       = "url"
	colQuality   = "quality"
	colStatus    = "status"
	colPercent   = "percent"
	colOutcome   = "outcome"
	colFiles     = "files"
	colError     = "error"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
)

// DownloadStore holds a pointer to the sql.DB.
type DownloadStore struct {
	DB *sql.DB
}

// GetDownloadStore returns a download store instance with injected database.
func GetDownloadStore(db *sql.DB) *DownloadStore {
	return &DownloadStore{DB: db}
}

// GetDB returns the database.
func (ds *DownloadStore) GetDB() *sql.DB {
	return ds.DB
}

// AddSession inserts a new download session row.
func (ds *DownloadStore) AddSession(ctx context.Context, s *models.DownloadSession) error {
	query := squirrel.
		Insert(tableSessions).
		Columns(colSessionID, colURL, colQuality, colStatus, colPercent).
		Values(s.ID, s.Request.URL, s.Request.Quality.Kind.String(), string(consts.DLStatusPending), 0).
		RunWith(ds.DB)

	if _, err := query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to insert session %q: %w", s.ID, err)
	}
	return nil
}

// UpdateStatuses flushes a batch of status updates.
func (ds *DownloadStore) UpdateStatuses(ctx context.Context, updates []models.StatusUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := ds.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				logging.E("Error rolling back status updates (original error: %v): %v", err, rbErr)
			}
		}
	}()

	for _, u := range updates {
		errText := ""
		if u.Error != nil {
			errText = u.Error.Error()
		}

		query := squirrel.
			Update(tableSessions).
			Set(colStatus, u.Status).
			Set(colPercent, u.Percent).
			Set(colError, errText).
			Set(colUpdatedAt, time.Now()).
			Where(squirrel.Eq{colSessionID: u.SessionID}).
			RunWith(tx)

		if _, err = query.ExecContext(ctx); err != nil {
			return fmt.Errorf("failed to update status for session %q: %w", u.SessionID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FinishSession records the terminal outcome for a session.
func (ds *DownloadStore) FinishSession(ctx context.Context, sessionID string, outcome models.Outcome) error {
	pct := 0.0
	switch outcome.Kind {
	case models.OutcomeSucceeded, models.OutcomeAlreadyExists:
		pct = 100.0
	}

	files := strings.Join(outcome.Files, "\n")
	if outcome.Kind == models.OutcomeAlreadyExists {
		files = outcome.Filename
	}

	query := squirrel.
		Update(tableSessions).
		Set(colStatus, outcome.Kind.String()).
		Set(colOutcome, outcome.Kind.String()).
		Set(colPercent, pct).
		Set(colFiles, files).
		Set(colError, outcome.Message).
		Set(colUpdatedAt, time.Now()).
		Where(squirrel.Eq{colSessionID: sessionID}).
		RunWith(ds.DB)

	if _, err := query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to finish session %q: %w", sessionID, err)
	}
	return nil
}

// ListSessions returns the most recent download sessions.
func (ds *DownloadStore) ListSessions(ctx context.Context, limit int) ([]models.SessionRecord, error) {
	if limit <= 0 {
		limit = 25
	}

	query := squirrel.
		Select(colSessionID, colURL, colQuality, colStatus, colPercent, colOutcome, colFiles, colError, colCreatedAt, colUpdatedAt).
		From(tableSessions).
		OrderBy(colCreatedAt + " DESC").
		Limit(uint64(limit)).
		RunWith(ds.DB)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var records []models.SessionRecord
	for rows.Next() {
		var r models.SessionRecord
		if err := rows.Scan(&r.SessionID, &r.URL, &r.Quality, &r.Status, &r.Percent, &r.Outcome, &r.Files, &r.Error, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
