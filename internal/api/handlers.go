package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/neexbeast/travel-guide/internal/catalog"
	"github.com/neexbeast/travel-guide/internal/chat"
	"github.com/neexbeast/travel-guide/internal/latency"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	catalog   Catalog
	saved     SavedPlaces
	assistant Assistant
	validate  *validator.Validate
	log       *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(cat Catalog, saved SavedPlaces, assistant Assistant, log *slog.Logger) *Handlers {
	return &Handlers{
		catalog:   cat,
		saved:     saved,
		assistant: assistant,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		log:       log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail logs err and maps it to a response. Simulated backend outages become
// 503 so clients can tell them apart from real bugs.
func (h *Handlers) fail(w http.ResponseWriter, msg string, err error, attrs ...any) {
	h.log.Error(msg, append(attrs, "err", err)...)
	if errors.Is(err, latency.ErrInjectedFailure) {
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// nonNil keeps empty collections encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// ListDestinations handles GET /api/v1/destinations?q=.
func (h *Handlers) ListDestinations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	var (
		dests []catalog.Destination
		err   error
	)
	if q == "" {
		dests, err = h.catalog.Destinations(r.Context())
	} else {
		dests, err = h.catalog.Search(r.Context(), q)
	}
	if err != nil {
		h.fail(w, "listing destinations failed", err, "query", q)
		return
	}

	writeJSON(w, http.StatusOK, nonNil(dests))
}

// GetDestination handles GET /api/v1/destinations/{id}.
func (h *Handlers) GetDestination(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dest, err := h.catalog.Destination(r.Context(), id)
	if err != nil {
		h.fail(w, "destination lookup failed", err, "destination", id)
		return
	}
	if dest == nil {
		writeError(w, http.StatusNotFound, "destination not found")
		return
	}

	writeJSON(w, http.StatusOK, dest)
}

// GetOverview handles GET /api/v1/destinations/{id}/overview.
func (h *Handlers) GetOverview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ov, err := h.catalog.Overview(r.Context(), id)
	if err != nil {
		h.fail(w, "overview failed", err, "destination", id)
		return
	}
	if ov == nil {
		writeError(w, http.StatusNotFound, "destination not found")
		return
	}

	ov.Markers = nonNil(ov.Markers)
	writeJSON(w, http.StatusOK, ov)
}

// ListPlaces handles GET /api/v1/destinations/{id}/places?category=.
// Without a category every place is returned.
func (h *Handlers) ListPlaces(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	raw := r.URL.Query().Get("category")

	var (
		places []catalog.Place
		err    error
	)
	if raw == "" {
		places, err = h.catalog.Places(r.Context(), id)
	} else {
		c, perr := catalog.ParseCategory(raw)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		places, err = h.catalog.PlacesByCategory(r.Context(), id, c)
	}
	if err != nil {
		h.fail(w, "listing places failed", err, "destination", id, "category", raw)
		return
	}

	writeJSON(w, http.StatusOK, nonNil(places))
}

// GetPlace handles GET /api/v1/destinations/{id}/places/{placeID}.
func (h *Handlers) GetPlace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	placeID := chi.URLParam(r, "placeID")

	place, err := h.catalog.Place(r.Context(), id, placeID)
	if err != nil {
		h.fail(w, "place lookup failed", err, "destination", id, "place", placeID)
		return
	}
	if place == nil {
		writeError(w, http.StatusNotFound, "place not found")
		return
	}

	writeJSON(w, http.StatusOK, place)
}

// ListMarkers handles GET /api/v1/destinations/{id}/markers.
func (h *Handlers) ListMarkers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	markers, err := h.catalog.Markers(r.Context(), id)
	if err != nil {
		h.fail(w, "listing markers failed", err, "destination", id)
		return
	}

	writeJSON(w, http.StatusOK, nonNil(markers))
}

type savedStatus struct {
	PlaceID string `json:"placeId"`
	Saved   bool   `json:"saved"`
}

// ListSaved handles GET /api/v1/saved.
func (h *Handlers) ListSaved(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(h.saved.List()))
}

// GetSavedStatus handles GET /api/v1/saved/{placeID}.
func (h *Handlers) GetSavedStatus(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeID")
	writeJSON(w, http.StatusOK, savedStatus{PlaceID: placeID, Saved: h.saved.IsSaved(placeID)})
}

// ToggleSaved handles POST /api/v1/saved/{destinationID}/{placeID}/toggle.
// The place is resolved from the catalog so the stored snapshot always
// carries the full place record.
func (h *Handlers) ToggleSaved(w http.ResponseWriter, r *http.Request) {
	destID := chi.URLParam(r, "destinationID")
	placeID := chi.URLParam(r, "placeID")

	place, err := h.catalog.Place(r.Context(), destID, placeID)
	if err != nil {
		h.fail(w, "place lookup for toggle failed", err, "destination", destID, "place", placeID)
		return
	}
	if place == nil {
		writeError(w, http.StatusNotFound, "place not found")
		return
	}

	isSaved := h.saved.Toggle(r.Context(), *place, destID)
	h.log.Info("saved place toggled", "destination", destID, "place", placeID, "saved", isSaved)

	writeJSON(w, http.StatusOK, savedStatus{PlaceID: placeID, Saved: isSaved})
}

// ClearSaved handles DELETE /api/v1/saved.
func (h *Handlers) ClearSaved(w http.ResponseWriter, r *http.Request) {
	h.saved.ClearAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type chatRequest struct {
	Message       string `json:"message" validate:"required,max=1000"`
	DestinationID string `json:"destinationId" validate:"omitempty,max=100"`
}

// GetChat handles GET /api/v1/chat. A fresh session is seeded with the
// welcome message.
func (h *Handlers) GetChat(w http.ResponseWriter, _ *http.Request) {
	h.assistant.Welcome()
	writeJSON(w, http.StatusOK, nonNil(h.assistant.History()))
}

// PostChat handles POST /api/v1/chat.
func (h *Handlers) PostChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.assistant.Welcome()
	reply, err := h.assistant.Ask(r.Context(), req.Message, req.DestinationID)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.fail(w, "chat ask failed", err, "destination", req.DestinationID)
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// ClearChat handles DELETE /api/v1/chat.
func (h *Handlers) ClearChat(w http.ResponseWriter, _ *http.Request) {
	h.assistant.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// GetSuggestions handles GET /api/v1/chat/suggestions.
func (h *Handlers) GetSuggestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(h.assistant.Suggestions()))
}

// HealthHandlerFunc returns an http.HandlerFunc that checks the snapshot
// backend. Returns 200 when reachable, 503 otherwise.
func HealthHandlerFunc(snapshot Pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		snapStatus := "ok"

		if err := snapshot.Ping(ctx); err != nil {
			log.Error("health check: snapshot ping failed", "err", err)
			snapStatus = "error"
			status = http.StatusServiceUnavailable
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status":   overall,
			"snapshot": snapStatus,
		})
	}
}
