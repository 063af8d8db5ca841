package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/validator"
)

type commentRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Comment string `json:"comment"`
}

func (h *Handler) InsertComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Comment = strings.TrimSpace(req.Comment)
	if err := validator.Required([2]string{"name", req.Name}, [2]string{"email", req.Email}, [2]string{"comment", req.Comment}); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Comment) > 2000 {
		respondError(w, http.StatusBadRequest, "comment is too long")
		return
	}
	id, err := h.comments.Insert(r.Context(), req.Name, req.Email, req.Comment)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"message": "Comment submitted successfully", "id": id})
}

// ListComments returns the newest viewer comments, 100 by default.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = parsed
	}
	rows, err := h.comments.List(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
