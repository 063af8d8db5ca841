// Package aggregate computes the totals shown on dashboards. Nothing is
// cached; every call reads current rows.
package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/money"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type AmountSource interface {
	Amounts(ctx context.Context) ([]decimal.Decimal, error)
}

type BudgetSource interface {
	EntryAmountsByYear(ctx context.Context, year int) ([]decimal.Decimal, error)
}

type DFURSource interface {
	ListAll(ctx context.Context) ([]models.DFURProject, error)
}

type BacklogSource interface {
	Backlog(ctx context.Context) ([]store.BacklogCount, error)
}

type Service struct {
	collections   AmountSource
	disbursements AmountSource
	budget        BudgetSource
	dfur          DFURSource
	backlog       BacklogSource
	now           func() time.Time
}

func NewService(collections, disbursements AmountSource, budget BudgetSource, dfur DFURSource, backlog BacklogSource) *Service {
	return &Service{
		collections:   collections,
		disbursements: disbursements,
		budget:        budget,
		dfur:          dfur,
		backlog:       backlog,
		now:           time.Now,
	}
}

func (s *Service) TotalCollections(ctx context.Context) (decimal.Decimal, error) {
	amounts, err := s.collections.Amounts(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total collections: %w", err)
	}
	return money.Sum(amounts), nil
}

func (s *Service) TotalDisbursements(ctx context.Context) (decimal.Decimal, error) {
	amounts, err := s.disbursements.Amounts(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total disbursements: %w", err)
	}
	return money.Sum(amounts), nil
}

// TotalBudgetAllocation sums the budget entries charged to year's
// allocations. A zero year means the current year.
func (s *Service) TotalBudgetAllocation(ctx context.Context, year int) (decimal.Decimal, error) {
	if year == 0 {
		year = s.now().Year()
	}
	amounts, err := s.budget.EntryAmountsByYear(ctx, year)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total budget allocation %d: %w", year, err)
	}
	return money.Sum(amounts), nil
}

type DFURSummary struct {
	TotalProjects     int             `json:"total_projects"`
	TotalCostApproved decimal.Decimal `json:"total_cost_approved"`
	ActiveProjects    int             `json:"active_projects"`
}

// DFURSummary counts every project ever recorded, including deleted ones,
// and reports how many are still active.
func (s *Service) DFURSummary(ctx context.Context) (DFURSummary, error) {
	projects, err := s.dfur.ListAll(ctx)
	if err != nil {
		return DFURSummary{}, fmt.Errorf("dfur summary: %w", err)
	}
	summary := DFURSummary{TotalProjects: len(projects), TotalCostApproved: decimal.Zero}
	for _, p := range projects {
		summary.TotalCostApproved = summary.TotalCostApproved.Add(p.TotalCostApproved)
		if p.IsActive {
			summary.ActiveProjects++
		}
	}
	return summary, nil
}

type Dashboard struct {
	Year                  int                  `json:"year"`
	TotalCollections      decimal.Decimal      `json:"total_collections"`
	TotalDisbursements    decimal.Decimal      `json:"total_disbursements"`
	Net                   decimal.Decimal      `json:"net"`
	TotalBudgetAllocation decimal.Decimal      `json:"total_budget_allocation"`
	DFUR                  DFURSummary          `json:"dfur"`
	PendingReviews        []store.BacklogCount `json:"pending_reviews"`
}

// Dashboard gathers every figure concurrently. The first failure cancels
// the remaining reads.
func (s *Service) Dashboard(ctx context.Context, year int) (Dashboard, error) {
	if year == 0 {
		year = s.now().Year()
	}
	d := Dashboard{Year: year}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.TotalCollections, err = s.TotalCollections(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.TotalDisbursements, err = s.TotalDisbursements(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.TotalBudgetAllocation, err = s.TotalBudgetAllocation(gctx, year)
		return err
	})
	g.Go(func() (err error) {
		d.DFUR, err = s.DFURSummary(gctx)
		return err
	})
	g.Go(func() error {
		counts, err := s.backlog.Backlog(gctx)
		if err != nil {
			return fmt.Errorf("review backlog: %w", err)
		}
		d.PendingReviews = counts
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	d.Net = d.TotalCollections.Sub(d.TotalDisbursements)
	return d, nil
}
