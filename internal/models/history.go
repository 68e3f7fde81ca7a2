package models

import "time"

// SessionRecord is one row of persisted download history.
type SessionRecord struct {
	SessionID string
	URL       string
	Quality   string
	Status    string
	Percent   float64
	Outcome   string
	Files     string
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
