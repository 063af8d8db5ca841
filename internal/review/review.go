// Package review implements the flag and approve steps that move a financial
// record through checking and approval.
package review

import (
	"errors"
	"fmt"
	"strings"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("record not found")
	ErrForbidden    = errors.New("role not permitted")
)

// Kind names a reviewable record type.
type Kind string

const (
	KindCollection   Kind = "collection"
	KindDisbursement Kind = "disbursement"
	KindDFUR         Kind = "dfur"
)

var Kinds = []Kind{KindCollection, KindDisbursement, KindDFUR}

func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown record kind %q", ErrInvalidInput, raw)
}

// Decision is an approver's verdict.
type Decision string

const (
	DecisionApproved Decision = Decision(models.ReviewApproved)
	DecisionRejected Decision = Decision(models.ReviewRejected)
)

func ParseDecision(raw string) (Decision, error) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(raw))); d {
	case DecisionApproved, DecisionRejected:
		return d, nil
	}
	return "", fmt.Errorf("%w: review_status must be approved or rejected, got %q", ErrInvalidInput, raw)
}

type Action string

const (
	ActionCreate  Action = "create"
	ActionFlag    Action = "flag"
	ActionApprove Action = "approve"
)

var permissions = map[models.Role][]Action{
	models.RoleEncoder:  {ActionCreate},
	models.RoleChecker:  {ActionFlag},
	models.RoleReviewer: {ActionFlag},
	models.RoleApprover: {ActionApprove},
}

// Authorize reports whether role may perform action.
func Authorize(role models.Role, action Action) error {
	if role.IsAdmin() {
		return nil
	}
	for _, allowed := range permissions[role] {
		if allowed == action {
			return nil
		}
	}
	return fmt.Errorf("%w: %s cannot %s", ErrForbidden, role, action)
}
