package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/review"

	"github.com/go-chi/chi/v5"
)

type flagRequest struct {
	recordRef
	FlagType   string `json:"flag_type"`
	Comment    string `json:"comment"`
	ReviewedBy *int64 `json:"reviewed_by"`
}

// FlagComment serves both /put-flag-comment, where the record kind travels
// in flag_type, and the per-kind /insert-flag-comment-{kind} routes.
func (h *Handler) FlagComment(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	rawKind := req.FlagType
	if param := chi.URLParam(r, "kind"); param != "" {
		rawKind = param
	}
	kind, err := review.ParseKind(rawKind)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := req.idFor(refKey(kind))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	actor := actorFrom(r)
	if req.ReviewedBy != nil && *req.ReviewedBy != actor.UserID {
		respondError(w, http.StatusBadRequest, "reviewed_by must be the authenticated user")
		return
	}

	err = h.review.Flag(r.Context(), review.FlagRequest{
		Kind:       kind,
		EntityID:   id,
		ReviewerID: actor.UserID,
		Comment:    req.Comment,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, fmt.Sprintf("Flag comment added to %s", kind))
}

// refKey is the body key naming a record of kind, e.g. dfur_id.
func refKey(kind review.Kind) string {
	return string(kind) + "_id"
}

type approvalRequest struct {
	recordRef
	ApprovalType string `json:"approval_type"`
	ReviewStatus string `json:"review_status"`
}

func (h *Handler) Approval(w http.ResponseWriter, r *http.Request) {
	var req approvalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	kind, err := review.ParseKind(req.ApprovalType)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	decision, err := review.ParseDecision(req.ReviewStatus)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := req.idFor(refKey(kind))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.review.Approve(r.Context(), review.ApproveRequest{
		Kind:       kind,
		EntityID:   id,
		Decision:   decision,
		ApproverID: actorFrom(r).UserID,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, fmt.Sprintf("%s %s", kind, decision))
}

// ReviewHistory lists the audit trail of one record, newest first.
func (h *Handler) ReviewHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	kind, err := review.ParseKind(query.Get("kind"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := strconv.ParseInt(query.Get("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}
	entries, err := h.audit.List(r.Context(), string(kind), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
