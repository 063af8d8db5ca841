package store

import (
	"context"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"

	"github.com/shopspring/decimal"
)

type BudgetStore struct {
	db DB
}

func NewBudgetStore(db DB) *BudgetStore {
	return &BudgetStore{db: db}
}

type BudgetEntryInput struct {
	TransactionID      string
	TransactionDate    models.Date
	Category           string
	Subcategory        string
	Amount             decimal.Decimal
	FundSource         string
	Payee              string
	DVNumber           string
	ExpenditureProgram string
	ProgramDescription string
	Remarks            string
	AllocationID       *int64
	CreatedBy          int64
}

const budgetEntryColumns = `
	be.id, be.transaction_id, be.transaction_date, be.category, be.subcategory, be.amount,
	be.fund_source, be.payee, be.dv_number, be.expenditure_program, be.program_description,
	be.remarks, be.allocation_id, be.created_by, be.is_active, be.created_at`

func (s *BudgetStore) InsertEntry(ctx context.Context, in BudgetEntryInput) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO budget_entries (
			transaction_id, transaction_date, category, subcategory, amount, fund_source,
			payee, dv_number, expenditure_program, program_description, remarks,
			allocation_id, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, in.TransactionID, in.TransactionDate, in.Category, in.Subcategory, in.Amount, in.FundSource,
		in.Payee, in.DVNumber, in.ExpenditureProgram, in.ProgramDescription, in.Remarks,
		in.AllocationID, in.CreatedBy)
	return id, translate(err)
}

// ListEntriesByYear returns the entries charged against allocations of year,
// labelled with the allocation's category.
func (s *BudgetStore) ListEntriesByYear(ctx context.Context, year int) ([]models.BudgetEntry, error) {
	rows := []models.BudgetEntry{}
	err := s.db.SelectContext(ctx, &rows, `SELECT `+budgetEntryColumns+`,
			ba.category AS allocation_category, ba.year
		FROM budget_entries be
		JOIN budget_allocations ba ON be.allocation_id = ba.id
		WHERE ba.year = $1 AND be.is_active
		ORDER BY be.transaction_date DESC, be.id DESC
	`, year)
	return rows, translate(err)
}

func (s *BudgetStore) UpdateEntry(ctx context.Context, id int64, in BudgetEntryInput) error {
	return expectRow(s.db.ExecContext(ctx, `
		UPDATE budget_entries
		SET transaction_id = $1,
			transaction_date = $2,
			category = $3,
			subcategory = $4,
			amount = $5,
			fund_source = $6,
			payee = $7,
			dv_number = $8,
			expenditure_program = $9,
			program_description = $10,
			remarks = $11,
			allocation_id = $12
		WHERE id = $13 AND is_active
	`, in.TransactionID, in.TransactionDate, in.Category, in.Subcategory, in.Amount, in.FundSource,
		in.Payee, in.DVNumber, in.ExpenditureProgram, in.ProgramDescription, in.Remarks,
		in.AllocationID, id))
}

func (s *BudgetStore) DeleteEntry(ctx context.Context, id int64) error {
	return expectRow(s.db.ExecContext(ctx, `
		UPDATE budget_entries SET is_active = false
		WHERE id = $1 AND is_active
	`, id))
}

func (s *BudgetStore) ListEntriesByDateRange(ctx context.Context, start, end models.Date) ([]models.BudgetEntry, error) {
	rows := []models.BudgetEntry{}
	err := s.db.SelectContext(ctx, &rows, `SELECT `+budgetEntryColumns+`
		FROM budget_entries be
		WHERE be.is_active
			AND be.transaction_date >= $1
			AND be.transaction_date < ($2::date + 1)
		ORDER BY be.transaction_date, be.id
	`, start, end)
	return rows, translate(err)
}

func (s *BudgetStore) EntryAmountsByYear(ctx context.Context, year int) ([]decimal.Decimal, error) {
	amounts := []decimal.Decimal{}
	err := s.db.SelectContext(ctx, &amounts, `
		SELECT be.amount
		FROM budget_entries be
		JOIN budget_allocations ba ON be.allocation_id = ba.id
		WHERE ba.year = $1 AND be.is_active
	`, year)
	return amounts, translate(err)
}

func (s *BudgetStore) CreateAllocation(ctx context.Context, year int, category string, amount decimal.Decimal) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO budget_allocations (year, category, amount)
		VALUES ($1, $2, $3)
		RETURNING id
	`, year, category, amount)
	return id, translate(err)
}

func (s *BudgetStore) ListAllocations(ctx context.Context, year int) ([]models.BudgetAllocation, error) {
	rows := []models.BudgetAllocation{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, year, category, amount, created_at
		FROM budget_allocations
		WHERE year = $1
		ORDER BY category
	`, year)
	return rows, translate(err)
}
