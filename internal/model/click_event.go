package model

import "time"

// UnknownSource is recorded when a redirect carries no Referer header.
const UnknownSource = "unknown"

// ClickEvent represents a single successful redirect.
type ClickEvent struct {
	ID        string    `json:"id"`        // ULID (time-sortable)
	Timestamp time.Time `json:"timestamp"` // UTC
	Source    string    `json:"source"`    // Referer header or "unknown"
	Location  string    `json:"location"`  // coarse client address
}
