package contracts

import (
	"context"
	"database/sql"

	"grabarr/internal/models"
)

// DownloadStore persists download sessions and their status history.
type DownloadStore interface {
	GetDB() *sql.DB

	AddSession(ctx context.Context, s *models.DownloadSession) error
	UpdateStatuses(ctx context.Context, updates []models.StatusUpdate) error
	FinishSession(ctx context.Context, sessionID string, outcome models.Outcome) error
	ListSessions(ctx context.Context, limit int) ([]models.SessionRecord, error)
}
