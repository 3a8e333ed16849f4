package service

import (
	"math"
	"regexp"
	"time"
)

var (
	// Scheme, one or more dot-separated labels ending in a 2+ character
	// label, then an optional path limited to word characters and -./~%.
	// Word characters are Unicode letters, digits and underscore, so
	// internationalized hosts and paths pass.
	targetURLRegex = regexp.MustCompile(`(?i)^https?://([\p{L}\p{N}_-]+\.)+[\p{L}\p{N}_]{2,}[\p{L}\p{N}_\-./~%]*$`)

	customCodeRegex = regexp.MustCompile(`^[A-Za-z0-9]{1,20}$`)
)

// maxValidityMinutes keeps CreatedAt + validity within time.Duration range.
const maxValidityMinutes = math.MaxInt64 / int64(time.Minute)

// reservedCodes collide with fixed routes and can never be resolved.
var reservedCodes = map[string]bool{
	"shorturls": true,
	"healthz":   true,
	"readyz":    true,
	"metrics":   true,
}

func validateTargetURL(target string) error {
	if !targetURLRegex.MatchString(target) {
		return ErrInvalidURL
	}
	return nil
}

func validateValidity(minutes int64) error {
	if minutes <= 0 || minutes > maxValidityMinutes {
		return ErrInvalidValidity
	}
	return nil
}

func validateCustomCode(code string) error {
	if !customCodeRegex.MatchString(code) {
		return ErrInvalidShortcode
	}
	return nil
}

func isReservedCode(code string) bool {
	return reservedCodes[code]
}
