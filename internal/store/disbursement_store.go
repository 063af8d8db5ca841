package store

import (
	"context"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"

	"github.com/shopspring/decimal"
)

type DisbursementStore struct {
	db DB
}

func NewDisbursementStore(db DB) *DisbursementStore {
	return &DisbursementStore{db: db}
}

type DisbursementInput struct {
	TransactionID        string
	TransactionDate      models.Date
	NatureOfDisbursement string
	Description          string
	FundSource           string
	Amount               decimal.Decimal
	Payee                string
	DVNumber             string
	Remarks              string
	AllocationID         *int64
	CreatedBy            int64
}

const disbursementColumns = `
	id, transaction_id, transaction_date, nature_of_disbursement, description, fund_source,
	amount, payee, dv_number, remarks, allocation_id, created_by, is_active, created_at, updated_at,
	review_status, is_flagged, review_comment, reviewed_by, reviewed_at`

func (s *DisbursementStore) Insert(ctx context.Context, in DisbursementInput) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO disbursements (
			transaction_id, transaction_date, nature_of_disbursement, description, fund_source,
			amount, payee, dv_number, remarks, allocation_id, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, in.TransactionID, in.TransactionDate, in.NatureOfDisbursement, in.Description, in.FundSource,
		in.Amount, in.Payee, in.DVNumber, in.Remarks, in.AllocationID, in.CreatedBy)
	return id, translate(err)
}

func (s *DisbursementStore) List(ctx context.Context) ([]models.Disbursement, error) {
	rows := []models.Disbursement{}
	err := s.db.SelectContext(ctx, &rows, `SELECT `+disbursementColumns+`
		FROM disbursements
		WHERE is_active
		ORDER BY created_at DESC, id DESC
	`)
	return rows, translate(err)
}

func (s *DisbursementStore) Get(ctx context.Context, id int64) (models.Disbursement, error) {
	var row models.Disbursement
	err := s.db.GetContext(ctx, &row, `SELECT `+disbursementColumns+`
		FROM disbursements
		WHERE id = $1 AND is_active
	`, id)
	return row, translate(err)
}

// Update rewrites the business fields only; review columns belong to the workflow.
func (s *DisbursementStore) Update(ctx context.Context, id int64, in DisbursementInput) error {
	return expectRow(s.db.ExecContext(ctx, `
		UPDATE disbursements
		SET transaction_id = $1,
			transaction_date = $2,
			nature_of_disbursement = $3,
			description = $4,
			fund_source = $5,
			amount = $6,
			payee = $7,
			dv_number = $8,
			remarks = $9,
			allocation_id = $10,
			updated_at = now()
		WHERE id = $11 AND is_active
	`, in.TransactionID, in.TransactionDate, in.NatureOfDisbursement, in.Description, in.FundSource,
		in.Amount, in.Payee, in.DVNumber, in.Remarks, in.AllocationID, id))
}

func (s *DisbursementStore) Delete(ctx context.Context, id int64) error {
	return expectRow(s.db.ExecContext(ctx, `
		UPDATE disbursements SET is_active = false, updated_at = now()
		WHERE id = $1 AND is_active
	`, id))
}

// ListByDateRange returns rows dated from start through the whole of end.
func (s *DisbursementStore) ListByDateRange(ctx context.Context, start, end models.Date) ([]models.Disbursement, error) {
	rows := []models.Disbursement{}
	err := s.db.SelectContext(ctx, &rows, `SELECT `+disbursementColumns+`
		FROM disbursements
		WHERE is_active
			AND transaction_date >= $1
			AND transaction_date < ($2::date + 1)
		ORDER BY transaction_date, id
	`, start, end)
	return rows, translate(err)
}

func (s *DisbursementStore) Amounts(ctx context.Context) ([]decimal.Decimal, error) {
	amounts := []decimal.Decimal{}
	err := s.db.SelectContext(ctx, &amounts, `SELECT amount FROM disbursements WHERE is_active`)
	return amounts, translate(err)
}
