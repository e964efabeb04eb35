package storage

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by Get when no record exists for a short code.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable wraps every failure of the underlying storage engine.
	ErrUnavailable = errors.New("storage unavailable")
)

// LinkRecord is the unit of persistence: one short code mapped to its destination.
// TotalClicks is the only field that changes after creation.
type LinkRecord struct {
	ID          string    `json:"uuid"`
	ShortCode   string    `json:"short_code"`
	OriginalURL string    `json:"original_url"`
	IsCustom    bool      `json:"is_custom"`
	CreatedAt   time.Time `json:"created_at"`
	TotalClicks int64     `json:"total_clicks"`
}

// Stats aggregates the whole store.
type Stats struct {
	Links  int64 `json:"links"`
	Clicks int64 `json:"clicks"`
}
