package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GenerateID reserves the next transaction id and reference number for a
// record kind. transactionId is kept for older web clients.
func (h *Handler) GenerateID(w http.ResponseWriter, r *http.Request) {
	ids, err := h.ids.Next(r.Context(), chi.URLParam(r, "kind"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"transaction_id":   ids.TransactionID,
		"transactionId":    ids.TransactionID,
		"reference_number": ids.ReferenceNumber,
	})
}
