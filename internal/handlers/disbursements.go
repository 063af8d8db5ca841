package handlers

import (
	"net/http"
	"strings"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/shopspring/decimal"
)

type disbursementRequest struct {
	recordRef
	TransactionID        string          `json:"transaction_id"`
	TransactionDate      models.Date     `json:"transaction_date"`
	NatureOfDisbursement string          `json:"nature_of_disbursement"`
	Description          string          `json:"description"`
	FundSource           string          `json:"fund_source"`
	Amount               decimal.Decimal `json:"amount"`
	Payee                string          `json:"payee"`
	DVNumber             string          `json:"dv_number"`
	Remarks              string          `json:"remarks"`
	AllocationID         *int64          `json:"allocation_id"`
}

func (d disbursementRequest) input(actorID int64) (store.DisbursementInput, error) {
	if err := validateRecord(d.TransactionID, d.TransactionDate, d.Amount); err != nil {
		return store.DisbursementInput{}, err
	}
	return store.DisbursementInput{
		TransactionID:        strings.TrimSpace(d.TransactionID),
		TransactionDate:      d.TransactionDate,
		NatureOfDisbursement: strings.TrimSpace(d.NatureOfDisbursement),
		Description:          d.Description,
		FundSource:           strings.TrimSpace(d.FundSource),
		Amount:               d.Amount,
		Payee:                strings.TrimSpace(d.Payee),
		DVNumber:             strings.TrimSpace(d.DVNumber),
		Remarks:              d.Remarks,
		AllocationID:         d.AllocationID,
		CreatedBy:            actorID,
	}, nil
}

func (h *Handler) InsertDisbursement(w http.ResponseWriter, r *http.Request) {
	var req disbursementRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	in, err := req.input(actorFrom(r).UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.disbursements.Insert(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"message": "Disbursement inserted successfully", "id": id})
}

func (h *Handler) ListDisbursements(w http.ResponseWriter, r *http.Request) {
	rows, err := h.disbursements.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *Handler) UpdateDisbursement(w http.ResponseWriter, r *http.Request) {
	var req disbursementRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	id, err := req.idFor("disbursement_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := req.input(actorFrom(r).UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.disbursements.Update(r.Context(), id, in); err != nil {
		h.fail(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Disbursement updated successfully")
}

func (h *Handler) DeleteDisbursement(w http.ResponseWriter, r *http.Request) {
	var ref recordRef
	if err := decodeJSON(r, &ref); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	id, err := ref.idFor("disbursement_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.disbursements.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Disbursement deleted successfully")
}
