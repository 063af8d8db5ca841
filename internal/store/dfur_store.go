package store

import (
	"context"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"

	"github.com/shopspring/decimal"
)

type DFURStore struct {
	db DB
}

func NewDFURStore(db DB) *DFURStore {
	return &DFURStore{db: db}
}

type DFURInput struct {
	TransactionID        string
	TransactionDate      models.Date
	NameOfCollection     string
	Project              string
	Location             string
	TotalCostApproved    decimal.Decimal
	TotalCostIncurred    decimal.Decimal
	DateStarted          *models.Date
	TargetCompletionDate *models.Date
	Status               models.ProjectStatus
	NoExtensions         int
	Remarks              string
	CreatedBy            int64
}

const dfurColumns = `
	id, transaction_id, transaction_date, name_of_collection, project, location,
	total_cost_approved, total_cost_incurred, date_started, target_completion_date,
	status, no_extensions, remarks, is_active, created_by, created_at, updated_at,
	review_status, is_flagged, review_comment, reviewed_by, reviewed_at`

func (s *DFURStore) Insert(ctx context.Context, in DFURInput) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO dfur_projects (
			transaction_id, transaction_date, name_of_collection, project, location,
			total_cost_approved, total_cost_incurred, date_started, target_completion_date,
			status, no_extensions, remarks, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, in.TransactionID, in.TransactionDate, in.NameOfCollection, in.Project, in.Location,
		in.TotalCostApproved, in.TotalCostIncurred, in.DateStarted, in.TargetCompletionDate,
		in.Status, in.NoExtensions, in.Remarks, in.CreatedBy)
	return id, translate(err)
}

func (s *DFURStore) List(ctx context.Context) ([]models.DFURProject, error) {
	rows := []models.DFURProject{}
	err := s.db.SelectContext(ctx, &rows, `SELECT `+dfurColumns+`
		FROM dfur_projects
		WHERE is_active
		ORDER BY created_at DESC, id DESC
	`)
	return rows, translate(err)
}

// ListAll includes soft-deleted projects; the DFUR summary counts both.
func (s *DFURStore) ListAll(ctx context.Context) ([]models.DFURProject, error) {
	rows := []models.DFURProject{}
	err := s.db.SelectContext(ctx, &rows, `SELECT `+dfurColumns+`
		FROM dfur_projects
		ORDER BY created_at DESC, id DESC
	`)
	return rows, translate(err)
}

func (s *DFURStore) Get(ctx context.Context, id int64) (models.DFURProject, error) {
	var row models.DFURProject
	err := s.db.GetContext(ctx, &row, `SELECT `+dfurColumns+`
		FROM dfur_projects
		WHERE id = $1 AND is_active
	`, id)
	return row, translate(err)
}

func (s *DFURStore) Update(ctx context.Context, id int64, in DFURInput) error {
	return expectRow(s.db.ExecContext(ctx, `
		UPDATE dfur_projects
		SET transaction_id = $1,
			transaction_date = $2,
			name_of_collection = $3,
			project = $4,
			location = $5,
			total_cost_approved = $6,
			total_cost_incurred = $7,
			date_started = $8,
			target_completion_date = $9,
			status = $10,
			no_extensions = $11,
			remarks = $12,
			updated_at = now()
		WHERE id = $13 AND is_active
	`, in.TransactionID, in.TransactionDate, in.NameOfCollection, in.Project, in.Location,
		in.TotalCostApproved, in.TotalCostIncurred, in.DateStarted, in.TargetCompletionDate,
		in.Status, in.NoExtensions, in.Remarks, id))
}

func (s *DFURStore) Delete(ctx context.Context, id int64) error {
	return expectRow(s.db.ExecContext(ctx, `
		UPDATE dfur_projects SET is_active = false, updated_at = now()
		WHERE id = $1 AND is_active
	`, id))
}

func (s *DFURStore) ListByDateRange(ctx context.Context, start, end models.Date) ([]models.DFURProject, error) {
	rows := []models.DFURProject{}
	err := s.db.SelectContext(ctx, &rows, `SELECT `+dfurColumns+`
		FROM dfur_projects
		WHERE is_active
			AND transaction_date >= $1
			AND transaction_date < ($2::date + 1)
		ORDER BY transaction_date, id
	`, start, end)
	return rows, translate(err)
}
