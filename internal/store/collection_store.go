package store

import (
	"context"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"

	"github.com/shopspring/decimal"
)

type CollectionStore struct {
	db DB
}

func NewCollectionStore(db DB) *CollectionStore {
	return &CollectionStore{db: db}
}

type CollectionInput struct {
	TransactionID      string
	TransactionDate    models.Date
	NatureOfCollection string
	Description        string
	FundSource         string
	Amount             decimal.Decimal
	Payor              string
	ORNumber           string
	Remarks            string
	CreatedBy          int64
}

const collectionColumns = `
	id, transaction_id, transaction_date, nature_of_collection, description, fund_source,
	amount, payor, or_number, remarks, created_by, is_active, created_at, updated_at,
	review_status, is_flagged, review_comment, reviewed_by, reviewed_at`

func (s *CollectionStore) Insert(ctx context.Context, in CollectionInput) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO collections (
			transaction_id, transaction_date, nature_of_collection, description, fund_source,
			amount, payor, or_number, remarks, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, in.TransactionID, in.TransactionDate, in.NatureOfCollection, in.Description, in.FundSource,
		in.Amount, in.Payor, in.ORNumber, in.Remarks, in.CreatedBy)
	return id, translate(err)
}

func (s *CollectionStore) List(ctx context.Context) ([]models.Collection, error) {
	rows := []models.Collection{}
	err := s.db.SelectContext(ctx, &rows, `SELECT `+collectionColumns+`
		FROM collections
		WHERE is_active
		ORDER BY created_at DESC, id DESC
	`)
	return rows, translate(err)
}

func (s *CollectionStore) Get(ctx context.Context, id int64) (models.Collection, error) {
	var row models.Collection
	err := s.db.GetContext(ctx, &row, `SELECT `+collectionColumns+`
		FROM collections
		WHERE id = $1 AND is_active
	`, id)
	return row, translate(err)
}

// Update rewrites the business fields only; review columns belong to the workflow.
func (s *CollectionStore) Update(ctx context.Context, id int64, in CollectionInput) error {
	return expectRow(s.db.ExecContext(ctx, `
		UPDATE collections
		SET transaction_id = $1,
			transaction_date = $2,
			nature_of_collection = $3,
			description = $4,
			fund_source = $5,
			amount = $6,
			payor = $7,
			or_number = $8,
			remarks = $9,
			updated_at = now()
		WHERE id = $10 AND is_active
	`, in.TransactionID, in.TransactionDate, in.NatureOfCollection, in.Description, in.FundSource,
		in.Amount, in.Payor, in.ORNumber, in.Remarks, id))
}

func (s *CollectionStore) Delete(ctx context.Context, id int64) error {
	return expectRow(s.db.ExecContext(ctx, `
		UPDATE collections SET is_active = false, updated_at = now()
		WHERE id = $1 AND is_active
	`, id))
}

// ListByDateRange returns rows dated from start through the whole of end.
func (s *CollectionStore) ListByDateRange(ctx context.Context, start, end models.Date) ([]models.Collection, error) {
	rows := []models.Collection{}
	err := s.db.SelectContext(ctx, &rows, `SELECT `+collectionColumns+`
		FROM collections
		WHERE is_active
			AND transaction_date >= $1
			AND transaction_date < ($2::date + 1)
		ORDER BY transaction_date, id
	`, start, end)
	return rows, translate(err)
}

func (s *CollectionStore) Amounts(ctx context.Context) ([]decimal.Decimal, error) {
	amounts := []decimal.Decimal{}
	err := s.db.SelectContext(ctx, &amounts, `SELECT amount FROM collections WHERE is_active`)
	return amounts, translate(err)
}
