package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/shopspring/decimal"
)

type dfurRequest struct {
	recordRef
	TransactionID        string               `json:"transaction_id"`
	TransactionDate      models.Date          `json:"transaction_date"`
	NameOfCollection     string               `json:"name_of_collection"`
	Project              string               `json:"project"`
	Location             string               `json:"location"`
	TotalCostApproved    decimal.Decimal      `json:"total_cost_approved"`
	TotalCostIncurred    decimal.Decimal      `json:"total_cost_incurred"`
	DateStarted          *models.Date         `json:"date_started"`
	TargetCompletionDate *models.Date         `json:"target_completion_date"`
	Status               models.ProjectStatus `json:"status"`
	NoExtensions         int                  `json:"no_extensions"`
	Remarks              string               `json:"remarks"`
}

func (d dfurRequest) input(actorID int64) (store.DFURInput, error) {
	if err := validateRecord(d.TransactionID, d.TransactionDate, d.TotalCostApproved); err != nil {
		return store.DFURInput{}, err
	}
	if err := validateAmount("total_cost_incurred", d.TotalCostIncurred); err != nil {
		return store.DFURInput{}, err
	}
	if strings.TrimSpace(d.Project) == "" {
		return store.DFURInput{}, errors.New("project is required")
	}
	status := d.Status
	if status == "" {
		status = models.ProjectPlanned
	}
	if !status.Valid() {
		return store.DFURInput{}, fmt.Errorf("invalid status %q", d.Status)
	}
	if d.NoExtensions < 0 {
		return store.DFURInput{}, errors.New("no_extensions must not be negative")
	}
	if d.DateStarted != nil && d.TargetCompletionDate != nil && d.TargetCompletionDate.Before(d.DateStarted.Time) {
		return store.DFURInput{}, errors.New("target_completion_date is before date_started")
	}
	return store.DFURInput{
		TransactionID:        strings.TrimSpace(d.TransactionID),
		TransactionDate:      d.TransactionDate,
		NameOfCollection:     strings.TrimSpace(d.NameOfCollection),
		Project:              strings.TrimSpace(d.Project),
		Location:             strings.TrimSpace(d.Location),
		TotalCostApproved:    d.TotalCostApproved,
		TotalCostIncurred:    d.TotalCostIncurred,
		DateStarted:          d.DateStarted,
		TargetCompletionDate: d.TargetCompletionDate,
		Status:               status,
		NoExtensions:         d.NoExtensions,
		Remarks:              d.Remarks,
		CreatedBy:            actorID,
	}, nil
}

func (h *Handler) InsertDFUR(w http.ResponseWriter, r *http.Request) {
	var req dfurRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	in, err := req.input(actorFrom(r).UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.dfur.Insert(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"message": "DFUR project inserted successfully", "id": id})
}

func (h *Handler) ListDFUR(w http.ResponseWriter, r *http.Request) {
	rows, err := h.dfur.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *Handler) UpdateDFUR(w http.ResponseWriter, r *http.Request) {
	var req dfurRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	id, err := req.idFor("dfur_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := req.input(actorFrom(r).UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.dfur.Update(r.Context(), id, in); err != nil {
		h.fail(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "DFUR project updated successfully")
}

func (h *Handler) DeleteDFUR(w http.ResponseWriter, r *http.Request) {
	var ref recordRef
	if err := decodeJSON(r, &ref); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	id, err := ref.idFor("dfur_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.dfur.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "DFUR project deleted successfully")
}
