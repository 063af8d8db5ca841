package handlers

import (
	"net/http"
	"strings"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/shopspring/decimal"
)

type collectionRequest struct {
	recordRef
	TransactionID      string          `json:"transaction_id"`
	TransactionDate    models.Date     `json:"transaction_date"`
	NatureOfCollection string          `json:"nature_of_collection"`
	Description        string          `json:"description"`
	FundSource         string          `json:"fund_source"`
	Amount             decimal.Decimal `json:"amount"`
	Payor              string          `json:"payor"`
	ORNumber           string          `json:"or_number"`
	Remarks            string          `json:"remarks"`
}

func (c collectionRequest) input(actorID int64) (store.CollectionInput, error) {
	if err := validateRecord(c.TransactionID, c.TransactionDate, c.Amount); err != nil {
		return store.CollectionInput{}, err
	}
	return store.CollectionInput{
		TransactionID:      strings.TrimSpace(c.TransactionID),
		TransactionDate:    c.TransactionDate,
		NatureOfCollection: strings.TrimSpace(c.NatureOfCollection),
		Description:        c.Description,
		FundSource:         strings.TrimSpace(c.FundSource),
		Amount:             c.Amount,
		Payor:              strings.TrimSpace(c.Payor),
		ORNumber:           strings.TrimSpace(c.ORNumber),
		Remarks:            c.Remarks,
		CreatedBy:          actorID,
	}, nil
}

func (h *Handler) InsertCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	in, err := req.input(actorFrom(r).UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.collections.Insert(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"message": "Collection inserted successfully", "id": id})
}

func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	rows, err := h.collections.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *Handler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	id, err := req.idFor("collection_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := req.input(actorFrom(r).UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.collections.Update(r.Context(), id, in); err != nil {
		h.fail(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Collection updated successfully")
}

func (h *Handler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	var ref recordRef
	if err := decodeJSON(r, &ref); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	id, err := ref.idFor("collection_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.collections.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Collection deleted successfully")
}
