package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/snaplink/snaplink/internal/service"
)

// RedirectHandler handles redirect requests.
type RedirectHandler struct {
	redirector *service.Redirector
	logger     *slog.Logger
}

// NewRedirectHandler creates a new RedirectHandler.
func NewRedirectHandler(redirector *service.Redirector, logger *slog.Logger) *RedirectHandler {
	return &RedirectHandler{
		redirector: redirector,
		logger:     logger,
	}
}

// Redirect handles GET /{shortCode} for URL redirection.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	start := time.Now()

	target, err := h.redirector.Resolve(r.Context(), shortCode, service.RequestContext{
		Referrer:      r.Header.Get("Referer"),
		ClientAddress: getClientIP(r),
	})
	duration := time.Since(start)

	if err != nil {
		h.handleRedirectError(w, shortCode, err, duration)
		return
	}

	h.logger.Info("redirect_success",
		"short_code", shortCode,
		"duration_ms", float64(duration.Microseconds())/1000,
	)

	w.Header().Set("Cache-Control", "private, max-age=0")

	http.Redirect(w, r, target, http.StatusFound)
}

// handleRedirectError handles errors during redirect resolution.
func (h *RedirectHandler) handleRedirectError(w http.ResponseWriter, shortCode string, err error, duration time.Duration) {
	w.Header().Set("Cache-Control", "private, max-age=0")

	switch {
	case errors.Is(err, service.ErrShortcodeNotFound):
		h.logger.Info("redirect_not_found",
			"short_code", shortCode,
			"duration_ms", float64(duration.Microseconds())/1000,
		)
		writeError(w, http.StatusNotFound, "SHORTCODE_NOT_FOUND", "Shortcode not found")

	case errors.Is(err, service.ErrShortcodeExpired):
		h.logger.Info("redirect_expired",
			"short_code", shortCode,
			"duration_ms", float64(duration.Microseconds())/1000,
		)
		writeError(w, http.StatusGone, "SHORTCODE_EXPIRED", "Short link has expired")

	default:
		h.logger.Error("redirect_error",
			"short_code", shortCode,
			"error", err,
			"duration_ms", float64(duration.Microseconds())/1000,
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// getClientIP returns the host part of RemoteAddr. Proxy headers are
// resolved into RemoteAddr by middleware.RealIP before this runs.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
