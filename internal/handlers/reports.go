package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/export"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/money"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/validator"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// respondAmount writes a total as a bare JSON number.
func respondAmount(w http.ResponseWriter, amount decimal.Decimal) {
	respondJSON(w, http.StatusOK, json.Number(money.Format(amount)))
}

func (h *Handler) TotalCollections(w http.ResponseWriter, r *http.Request) {
	total, err := h.aggregates.TotalCollections(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondAmount(w, total)
}

func (h *Handler) TotalDisbursements(w http.ResponseWriter, r *http.Request) {
	total, err := h.aggregates.TotalDisbursements(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondAmount(w, total)
}

func (h *Handler) TotalBudgetAllocation(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r.URL.Query().Get("year"), 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	total, err := h.aggregates.TotalBudgetAllocation(r.Context(), year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondAmount(w, total)
}

func (h *Handler) DFURSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.aggregates.DFURSummary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r.URL.Query().Get("year"), 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	dashboard, err := h.aggregates.Dashboard(r.Context(), year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

type dataRangeRequest struct {
	StartDate models.Date `json:"start_date"`
	EndDate   models.Date `json:"end_date"`
	DataName  string      `json:"data_name"`
}

// DataRange returns the active records of one kind whose transaction date
// falls inside [start_date, end_date].
func (h *Handler) DataRange(w http.ResponseWriter, r *http.Request) {
	var req dataRangeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		respondError(w, http.StatusBadRequest, "start_date and end_date are required")
		return
	}
	if err := validator.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		data any
		err  error
	)
	ctx := r.Context()
	switch strings.ToLower(strings.TrimSpace(req.DataName)) {
	case "collection", "collections":
		data, err = h.collections.ListByDateRange(ctx, req.StartDate, req.EndDate)
	case "disbursement", "disbursements":
		data, err = h.disbursements.ListByDateRange(ctx, req.StartDate, req.EndDate)
	case "dfur", "dfur_project", "dfur-project":
		data, err = h.dfur.ListByDateRange(ctx, req.StartDate, req.EndDate)
	case "budget-entries", "budget_entries", "budget":
		data, err = h.budget.ListEntriesByDateRange(ctx, req.StartDate, req.EndDate)
	default:
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown data_name %q", req.DataName))
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Successfully retrieved data",
		"data":    data,
	})
}

// ExportSRE streams the Statement of Receipts and Expenditures for a period.
// The period defaults to the current year up to today.
func (h *Handler) ExportSRE(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	start := models.NewDate(now.Year(), time.January, 1)
	end := models.NewDate(now.Year(), now.Month(), now.Day())

	query := r.URL.Query()
	if raw := query.Get("start_date"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		start = parsed
	}
	if raw := query.Get("end_date"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		end = parsed
	}
	if err := validator.ValidateDateRange(start, end); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sre := export.SRE{Start: start, End: end}
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		rows, err := h.collections.ListByDateRange(ctx, start, end)
		sre.Collections = rows
		return err
	})
	g.Go(func() error {
		rows, err := h.disbursements.ListByDateRange(ctx, start, end)
		sre.Disbursements = rows
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := sre.Write(&buf); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sre.Filename()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
