package handlers

import (
	"context"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/aggregate"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/idgen"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/review"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/shopspring/decimal"
)

type UserStore interface {
	Create(ctx context.Context, in store.UserInput) (int64, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id int64, in store.UserInput) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Deactivate(ctx context.Context, id int64) error
}

type CollectionStore interface {
	Insert(ctx context.Context, in store.CollectionInput) (int64, error)
	List(ctx context.Context) ([]models.Collection, error)
	Get(ctx context.Context, id int64) (models.Collection, error)
	Update(ctx context.Context, id int64, in store.CollectionInput) error
	Delete(ctx context.Context, id int64) error
	ListByDateRange(ctx context.Context, start, end models.Date) ([]models.Collection, error)
}

type DisbursementStore interface {
	Insert(ctx context.Context, in store.DisbursementInput) (int64, error)
	List(ctx context.Context) ([]models.Disbursement, error)
	Get(ctx context.Context, id int64) (models.Disbursement, error)
	Update(ctx context.Context, id int64, in store.DisbursementInput) error
	Delete(ctx context.Context, id int64) error
	ListByDateRange(ctx context.Context, start, end models.Date) ([]models.Disbursement, error)
}

type DFURStore interface {
	Insert(ctx context.Context, in store.DFURInput) (int64, error)
	List(ctx context.Context) ([]models.DFURProject, error)
	Get(ctx context.Context, id int64) (models.DFURProject, error)
	Update(ctx context.Context, id int64, in store.DFURInput) error
	Delete(ctx context.Context, id int64) error
	ListByDateRange(ctx context.Context, start, end models.Date) ([]models.DFURProject, error)
}

type BudgetStore interface {
	InsertEntry(ctx context.Context, in store.BudgetEntryInput) (int64, error)
	ListEntriesByYear(ctx context.Context, year int) ([]models.BudgetEntry, error)
	UpdateEntry(ctx context.Context, id int64, in store.BudgetEntryInput) error
	DeleteEntry(ctx context.Context, id int64) error
	ListEntriesByDateRange(ctx context.Context, start, end models.Date) ([]models.BudgetEntry, error)
	CreateAllocation(ctx context.Context, year int, category string, amount decimal.Decimal) (int64, error)
	ListAllocations(ctx context.Context, year int) ([]models.BudgetAllocation, error)
}

type CommentStore interface {
	Insert(ctx context.Context, name, email, comment string) (int64, error)
	List(ctx context.Context, limit int) ([]models.ViewerComment, error)
}

type AuditStore interface {
	List(ctx context.Context, kind string, entityID int64) ([]store.AuditEntry, error)
}

type ReviewEngine interface {
	Flag(ctx context.Context, req review.FlagRequest) error
	Approve(ctx context.Context, req review.ApproveRequest) error
}

type Aggregator interface {
	TotalCollections(ctx context.Context) (decimal.Decimal, error)
	TotalDisbursements(ctx context.Context) (decimal.Decimal, error)
	TotalBudgetAllocation(ctx context.Context, year int) (decimal.Decimal, error)
	DFURSummary(ctx context.Context) (aggregate.DFURSummary, error)
	Dashboard(ctx context.Context, year int) (aggregate.Dashboard, error)
}

type IDGenerator interface {
	Next(ctx context.Context, kind string) (idgen.IDs, error)
}
