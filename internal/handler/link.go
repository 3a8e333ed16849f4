package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snaplink/snaplink/internal/handler/dto"
	"github.com/snaplink/snaplink/internal/service"
)

// LinkHandler handles HTTP requests for creating and inspecting short links.
type LinkHandler struct {
	registry *service.Registry
	stats    *service.StatsReporter
	baseURL  string
	logger   *slog.Logger
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(registry *service.Registry, stats *service.StatsReporter, baseURL string, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{
		registry: registry,
		stats:    stats,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Create handles POST /shorturls.
func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleDecodeError(w, err)
		return
	}

	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "INVALID_URL", "Missing required 'url' field")
		return
	}

	link, err := h.registry.Create(r.Context(), req.ToInput())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("link_created",
		"short_code", link.Code,
		"has_custom_code", req.Shortcode != "",
		"expires_at", link.ExpiresAt,
	)

	writeJSON(w, http.StatusCreated, dto.ToCreateLinkResponse(link, h.baseURL))
}

// Get handles GET /shorturls/{shortcode}.
func (h *LinkHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "shortcode")

	stats, err := h.stats.GetOne(r.Context(), code)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToLinkStatsResponse(stats, h.baseURL))
}

// List handles GET /shorturls.
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.stats.GetAll(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToLinkListResponse(all, h.baseURL))
}

func (h *LinkHandler) handleDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
	case errors.Is(err, dto.ErrInvalidValidity):
		writeError(w, http.StatusBadRequest, "INVALID_VALIDITY", "Validity must be an integer")
	default:
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
	}
}

// handleServiceError maps service errors to HTTP responses.
func (h *LinkHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrShortcodeNotFound):
		writeError(w, http.StatusNotFound, "SHORTCODE_NOT_FOUND", "Shortcode not found")
	case errors.Is(err, service.ErrShortcodeConflict):
		writeError(w, http.StatusConflict, "SHORTCODE_CONFLICT", "Shortcode already exists")
	case errors.Is(err, service.ErrInvalidURL):
		writeError(w, http.StatusBadRequest, "INVALID_URL", "Invalid URL format")
	case errors.Is(err, service.ErrInvalidValidity):
		writeError(w, http.StatusBadRequest, "INVALID_VALIDITY", "Validity must be a positive integer number of minutes")
	case errors.Is(err, service.ErrInvalidShortcode):
		writeError(w, http.StatusBadRequest, "INVALID_SHORTCODE", "Shortcode must be alphanumeric and up to 20 characters")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
