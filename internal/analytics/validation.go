package analytics

import "fmt"

const (
	maxShortCodeLength = 20
	ulidLength         = 26
)

// ValidateClickEventPayload validates click event payload fields.
func ValidateClickEventPayload(payload ClickEventPayload) error {
	if payload.ShortCode == "" {
		return fmt.Errorf("short_code is required")
	}
	if len(payload.ShortCode) > maxShortCodeLength {
		return fmt.Errorf("short_code length out of bounds")
	}
	if len(payload.EventID) != ulidLength {
		return fmt.Errorf("event id must be a %d char ULID", ulidLength)
	}
	if payload.Source == "" {
		return fmt.Errorf("source is required")
	}
	if len(payload.Source) > maxSourceLength {
		return fmt.Errorf("source too long")
	}
	if payload.ClickedAt <= 0 {
		return fmt.Errorf("clicked_at must be set")
	}
	return nil
}
