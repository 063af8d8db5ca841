package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/shopspring/decimal"
)

type budgetEntryRequest struct {
	recordRef
	TransactionID      string          `json:"transaction_id"`
	TransactionDate    models.Date     `json:"transaction_date"`
	Category           string          `json:"category"`
	Subcategory        string          `json:"subcategory"`
	Amount             decimal.Decimal `json:"amount"`
	FundSource         string          `json:"fund_source"`
	Payee              string          `json:"payee"`
	DVNumber           string          `json:"dv_number"`
	ExpenditureProgram string          `json:"expenditure_program"`
	ProgramDescription string          `json:"program_description"`
	Remarks            string          `json:"remarks"`
	AllocationID       *int64          `json:"allocation_id"`
}

func (b budgetEntryRequest) input(actorID int64) (store.BudgetEntryInput, error) {
	if err := validateRecord(b.TransactionID, b.TransactionDate, b.Amount); err != nil {
		return store.BudgetEntryInput{}, err
	}
	if strings.TrimSpace(b.Category) == "" {
		return store.BudgetEntryInput{}, errors.New("category is required")
	}
	return store.BudgetEntryInput{
		TransactionID:      strings.TrimSpace(b.TransactionID),
		TransactionDate:    b.TransactionDate,
		Category:           strings.TrimSpace(b.Category),
		Subcategory:        strings.TrimSpace(b.Subcategory),
		Amount:             b.Amount,
		FundSource:         strings.TrimSpace(b.FundSource),
		Payee:              strings.TrimSpace(b.Payee),
		DVNumber:           strings.TrimSpace(b.DVNumber),
		ExpenditureProgram: strings.TrimSpace(b.ExpenditureProgram),
		ProgramDescription: b.ProgramDescription,
		Remarks:            b.Remarks,
		AllocationID:       b.AllocationID,
		CreatedBy:          actorID,
	}, nil
}

func (h *Handler) InsertBudgetEntry(w http.ResponseWriter, r *http.Request) {
	var req budgetEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	in, err := req.input(actorFrom(r).UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.budget.InsertEntry(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"message": "Budget entry inserted successfully", "id": id})
}

// ListBudgetEntries takes the year in the body; a missing year means the
// current one.
func (h *Handler) ListBudgetEntries(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year yearValue `json:"year"`
	}
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	year := int(req.Year)
	if year == 0 {
		year = h.now().Year()
	}
	rows, err := h.budget.ListEntriesByYear(r.Context(), year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *Handler) UpdateBudgetEntry(w http.ResponseWriter, r *http.Request) {
	var req budgetEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	id, err := req.idFor("entry_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := req.input(actorFrom(r).UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.budget.UpdateEntry(r.Context(), id, in); err != nil {
		h.fail(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Budget entry updated successfully")
}

func (h *Handler) DeleteBudgetEntry(w http.ResponseWriter, r *http.Request) {
	var ref recordRef
	if err := decodeJSON(r, &ref); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	id, err := ref.idFor("entry_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.budget.DeleteEntry(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Budget entry deleted successfully")
}

type allocationRequest struct {
	Year     yearValue       `json:"year"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

func (h *Handler) InsertBudgetAllocation(w http.ResponseWriter, r *http.Request) {
	var req allocationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Year == 0 || req.Category == "" {
		respondError(w, http.StatusBadRequest, "year and category are required")
		return
	}
	if err := validateAmount("amount", req.Amount); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.budget.CreateAllocation(r.Context(), int(req.Year), req.Category, req.Amount)
	if err != nil {
		if isConflict(err) {
			respondError(w, http.StatusConflict, "allocation already exists for this year and category")
			return
		}
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"message": "Budget allocation inserted successfully", "id": id})
}

func (h *Handler) ListBudgetAllocations(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r.URL.Query().Get("year"), h.now().Year())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := h.budget.ListAllocations(r.Context(), year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
