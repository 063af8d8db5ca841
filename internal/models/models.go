package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
	RoleEncoder    Role = "encoder"
	RoleChecker    Role = "checker"
	RoleReviewer   Role = "reviewer"
	RoleApprover   Role = "approver"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSuperadmin, RoleEncoder, RoleChecker, RoleReviewer, RoleApprover:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

type ProjectStatus string

const (
	ProjectPlanned    ProjectStatus = "planned"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectOnHold     ProjectStatus = "on_hold"
	ProjectCancelled  ProjectStatus = "cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanned, ProjectInProgress, ProjectCompleted, ProjectOnHold, ProjectCancelled:
		return true
	}
	return false
}

// Review holds the workflow columns shared by every reviewable table.
type Review struct {
	ReviewStatus  ReviewStatus `db:"review_status" json:"review_status"`
	IsFlagged     bool         `db:"is_flagged" json:"is_flagged"`
	ReviewComment *string      `db:"review_comment" json:"review_comment"`
	ReviewedBy    *int64       `db:"reviewed_by" json:"reviewed_by"`
	ReviewedAt    *time.Time   `db:"reviewed_at" json:"reviewed_at"`
}

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	FullName     string    `db:"full_name" json:"full_name"`
	Position     string    `db:"position" json:"position"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Collection struct {
	ID                 int64           `db:"id" json:"id"`
	TransactionID      string          `db:"transaction_id" json:"transaction_id"`
	TransactionDate    Date            `db:"transaction_date" json:"transaction_date"`
	NatureOfCollection string          `db:"nature_of_collection" json:"nature_of_collection"`
	Description        string          `db:"description" json:"description"`
	FundSource         string          `db:"fund_source" json:"fund_source"`
	Amount             decimal.Decimal `db:"amount" json:"amount"`
	Payor              string          `db:"payor" json:"payor"`
	ORNumber           string          `db:"or_number" json:"or_number"`
	Remarks            string          `db:"remarks" json:"remarks"`
	CreatedBy          int64           `db:"created_by" json:"created_by"`
	IsActive           bool            `db:"is_active" json:"is_active"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
	Review
}

type Disbursement struct {
	ID                   int64           `db:"id" json:"id"`
	TransactionID        string          `db:"transaction_id" json:"transaction_id"`
	TransactionDate      Date            `db:"transaction_date" json:"transaction_date"`
	NatureOfDisbursement string          `db:"nature_of_disbursement" json:"nature_of_disbursement"`
	Description          string          `db:"description" json:"description"`
	FundSource           string          `db:"fund_source" json:"fund_source"`
	Amount               decimal.Decimal `db:"amount" json:"amount"`
	Payee                string          `db:"payee" json:"payee"`
	DVNumber             string          `db:"dv_number" json:"dv_number"`
	Remarks              string          `db:"remarks" json:"remarks"`
	AllocationID         *int64          `db:"allocation_id" json:"allocation_id"`
	CreatedBy            int64           `db:"created_by" json:"created_by"`
	IsActive             bool            `db:"is_active" json:"is_active"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
	Review
}

type DFURProject struct {
	ID                   int64           `db:"id" json:"id"`
	TransactionID        string          `db:"transaction_id" json:"transaction_id"`
	TransactionDate      Date            `db:"transaction_date" json:"transaction_date"`
	NameOfCollection     string          `db:"name_of_collection" json:"name_of_collection"`
	Project              string          `db:"project" json:"project"`
	Location             string          `db:"location" json:"location"`
	TotalCostApproved    decimal.Decimal `db:"total_cost_approved" json:"total_cost_approved"`
	TotalCostIncurred    decimal.Decimal `db:"total_cost_incurred" json:"total_cost_incurred"`
	DateStarted          *Date           `db:"date_started" json:"date_started"`
	TargetCompletionDate *Date           `db:"target_completion_date" json:"target_completion_date"`
	Status               ProjectStatus   `db:"status" json:"status"`
	NoExtensions         int             `db:"no_extensions" json:"no_extensions"`
	Remarks              string          `db:"remarks" json:"remarks"`
	IsActive             bool            `db:"is_active" json:"is_active"`
	CreatedBy            int64           `db:"created_by" json:"created_by"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
	Review
}

type BudgetAllocation struct {
	ID        int64           `db:"id" json:"id"`
	Year      int             `db:"year" json:"year"`
	Category  string          `db:"category" json:"category"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

type BudgetEntry struct {
	ID                 int64           `db:"id" json:"id"`
	TransactionID      string          `db:"transaction_id" json:"transaction_id"`
	TransactionDate    Date            `db:"transaction_date" json:"transaction_date"`
	Category           string          `db:"category" json:"category"`
	AllocationCategory *string         `db:"allocation_category" json:"allocation_category,omitempty"`
	Subcategory        string          `db:"subcategory" json:"subcategory"`
	Amount             decimal.Decimal `db:"amount" json:"amount"`
	FundSource         string          `db:"fund_source" json:"fund_source"`
	Payee              string          `db:"payee" json:"payee"`
	DVNumber           string          `db:"dv_number" json:"dv_number"`
	ExpenditureProgram string          `db:"expenditure_program" json:"expenditure_program"`
	ProgramDescription string          `db:"program_description" json:"program_description"`
	Remarks            string          `db:"remarks" json:"remarks"`
	AllocationID       *int64          `db:"allocation_id" json:"allocation_id"`
	Year               *int            `db:"year" json:"year,omitempty"`
	CreatedBy          int64           `db:"created_by" json:"created_by"`
	IsActive           bool            `db:"is_active" json:"is_active"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
}

type ViewerComment struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
