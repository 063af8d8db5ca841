package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/idgen"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/middleware"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/review"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// fail maps a domain error onto a status code. Unexpected errors are logged
// and answered with a generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, review.ErrInvalidInput), errors.Is(err, idgen.ErrUnknownKind), errors.Is(err, store.ErrUnknownKind):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrInvalidReference):
		respondError(w, http.StatusBadRequest, "referenced record does not exist")
	case errors.Is(err, review.ErrForbidden):
		respondError(w, http.StatusForbidden, "role not permitted")
	case errors.Is(err, review.ErrNotFound), errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, store.ErrConflict):
		respondError(w, http.StatusConflict, "transaction_id already exists")
	default:
		entry := h.log.WithError(err).WithField("path", r.URL.Path)
		if id := chimiddleware.GetReqID(r.Context()); id != "" {
			entry = entry.WithField("request_id", id)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			entry.Warn("request timed out")
		} else {
			entry.Error("request failed")
		}
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a single JSON object into dest, rejecting unknown
// trailing data.
func decodeJSON(r *http.Request, dest any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dest); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after payload")
	}
	return nil
}

func actorFrom(r *http.Request) middleware.Actor {
	actor, _ := middleware.ActorFromContext(r.Context())
	return actor
}

func isConflict(err error) bool {
	return errors.Is(err, store.ErrConflict)
}
