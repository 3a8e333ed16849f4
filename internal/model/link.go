// Package model defines domain entities for the application.
package model

import "time"

// LinkStatus represents the computed status of a link.
type LinkStatus string

const (
	LinkStatusActive  LinkStatus = "active"
	LinkStatusExpired LinkStatus = "expired"
)

// Link represents a shortened URL record.
// Code, TargetURL, CreatedAt and ExpiresAt never change after creation;
// ClickCount and Clicks are only mutated by a successful redirect.
type Link struct {
	Code       string       `json:"code"`
	TargetURL  string       `json:"target_url"`
	CreatedAt  time.Time    `json:"created_at"`
	ExpiresAt  time.Time    `json:"expires_at"`
	ClickCount int64        `json:"click_count"`
	Clicks     []ClickEvent `json:"clicks,omitempty"`
}

// IsExpired reports whether the link is past its expiry at now.
// A link is still live at exactly ExpiresAt.
func (l *Link) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// Status computes the status of the link at now.
func (l *Link) Status(now time.Time) LinkStatus {
	if l.IsExpired(now) {
		return LinkStatusExpired
	}
	return LinkStatusActive
}

// Clone returns a deep copy of the link, including its click log.
func (l *Link) Clone() *Link {
	c := *l
	if l.Clicks != nil {
		c.Clicks = make([]ClickEvent, len(l.Clicks))
		copy(c.Clicks, l.Clicks)
	}
	return &c
}
