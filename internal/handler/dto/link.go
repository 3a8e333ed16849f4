// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/snaplink/snaplink/internal/model"
	"github.com/snaplink/snaplink/internal/service"
)

// TimeFormat is the wire format for every timestamp: UTC with milliseconds.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// ErrInvalidValidity is returned when validity is not an integer.
var ErrInvalidValidity = errors.New("validity must be an integer")

// Validity is a number of minutes. It accepts a JSON integer or a string
// holding one, and rejects null, fractions, booleans and other strings.
// Set records that the field appeared in the body.
type Validity struct {
	Minutes int64
	Set     bool
}

// UnmarshalJSON implements json.Unmarshaler. encoding/json calls it for an
// explicit null too because Validity is not a pointer.
func (v *Validity) UnmarshalJSON(data []byte) error {
	v.Set = true

	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		return ErrInvalidValidity
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ErrInvalidValidity
		}
		raw = []byte(strings.TrimSpace(s))
	}

	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return ErrInvalidValidity
	}
	v.Minutes = n
	return nil
}

// CreateLinkRequest represents the request body for creating a short link.
type CreateLinkRequest struct {
	URL       string   `json:"url"`
	Validity  Validity `json:"validity"`
	Shortcode string   `json:"shortcode,omitempty"`
}

// ToInput converts the request to a service input.
func (r CreateLinkRequest) ToInput() service.CreateInput {
	input := service.CreateInput{
		TargetURL:  r.URL,
		CustomCode: r.Shortcode,
	}
	if r.Validity.Set {
		minutes := r.Validity.Minutes
		input.ValidityMinutes = &minutes
	}
	return input
}

// CreateLinkResponse is returned after a successful create.
type CreateLinkResponse struct {
	ShortLink string `json:"shortLink"`
	Expiry    string `json:"expiry"`
}

// LinkSummaryResponse is one entry of the list view.
type LinkSummaryResponse struct {
	ShortLink    string `json:"shortLink"`
	OriginalURL  string `json:"originalURL"`
	CreationTime string `json:"creationTime"`
	Expiry       string `json:"expiry"`
	Clicks       int64  `json:"clicks"`
	Status       string `json:"status"`
}

// LinkStatsResponse is the single-link view with the click log.
type LinkStatsResponse struct {
	LinkSummaryResponse
	ClickDetails []ClickDetailResponse `json:"clickDetails"`
}

// ClickDetailResponse is one recorded click.
type ClickDetailResponse struct {
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
	Location  string `json:"location"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ShortLink joins the base URL and a code.
func ShortLink(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/" + code
}

// FormatTime renders t in TimeFormat.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ToCreateLinkResponse converts a created link.
func ToCreateLinkResponse(link *model.Link, baseURL string) *CreateLinkResponse {
	return &CreateLinkResponse{
		ShortLink: ShortLink(baseURL, link.Code),
		Expiry:    FormatTime(link.ExpiresAt),
	}
}

// ToLinkSummaryResponse converts stats without the click log.
func ToLinkSummaryResponse(stats *service.LinkStats, baseURL string) LinkSummaryResponse {
	return LinkSummaryResponse{
		ShortLink:    ShortLink(baseURL, stats.Code),
		OriginalURL:  stats.TargetURL,
		CreationTime: FormatTime(stats.CreatedAt),
		Expiry:       FormatTime(stats.ExpiresAt),
		Clicks:       stats.ClickCount,
		Status:       string(stats.Status),
	}
}

// ToLinkStatsResponse converts stats for the single-link view. The click log
// is only rendered when stats carries one; otherwise the summary is returned.
func ToLinkStatsResponse(stats *service.LinkStats, baseURL string) any {
	summary := ToLinkSummaryResponse(stats, baseURL)
	if stats.Clicks == nil {
		return summary
	}

	details := make([]ClickDetailResponse, len(stats.Clicks))
	for i, click := range stats.Clicks {
		details[i] = ClickDetailResponse{
			Timestamp: FormatTime(click.Timestamp),
			Source:    click.Source,
			Location:  click.Location,
		}
	}
	return LinkStatsResponse{
		LinkSummaryResponse: summary,
		ClickDetails:        details,
	}
}

// ToLinkListResponse converts the list view, preserving order.
func ToLinkListResponse(all []service.LinkStats, baseURL string) []LinkSummaryResponse {
	responses := make([]LinkSummaryResponse, len(all))
	for i := range all {
		responses[i] = ToLinkSummaryResponse(&all[i], baseURL)
	}
	return responses
}
