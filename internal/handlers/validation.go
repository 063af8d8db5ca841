package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/money"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/validator"

	"github.com/shopspring/decimal"
)

var errInvalidAmount = errors.New("amount must be a non-negative number with at most two decimals")

func validateAmount(field string, amount decimal.Decimal) error {
	if err := money.Validate(amount); err != nil {
		return fmt.Errorf("%s: %w", field, errInvalidAmount)
	}
	return nil
}

// validateRecord checks the fields every financial record carries.
func validateRecord(transactionID string, date models.Date, amount decimal.Decimal) error {
	if err := validator.ValidateTransactionID(strings.TrimSpace(transactionID)); err != nil {
		return err
	}
	if date.IsZero() {
		return errors.New("transaction_date is required")
	}
	return validateAmount("amount", amount)
}

// recordRef accepts the id under either "id" or the kind-specific key the
// web client sends.
type recordRef struct {
	ID             int64 `json:"id"`
	CollectionID   int64 `json:"collection_id"`
	DisbursementID int64 `json:"disbursement_id"`
	DFURID         int64 `json:"dfur_id"`
	EntryID        int64 `json:"entry_id"`
	UserID         int64 `json:"user_id"`
}

// idFor returns the id sent under "id" or under own, the key of the record
// type being addressed. A value under any other record's key is rejected so
// a mislabelled body never reaches the wrong row.
func (r recordRef) idFor(own string) (int64, error) {
	keyed := []struct {
		key string
		id  int64
	}{
		{"collection_id", r.CollectionID},
		{"disbursement_id", r.DisbursementID},
		{"dfur_id", r.DFURID},
		{"entry_id", r.EntryID},
		{"user_id", r.UserID},
	}
	id := r.ID
	for _, k := range keyed {
		if k.id == 0 {
			continue
		}
		if k.key != own {
			return 0, fmt.Errorf("unexpected %s, expected id or %s", k.key, own)
		}
		if id != 0 && id != k.id {
			return 0, fmt.Errorf("id and %s disagree", own)
		}
		id = k.id
	}
	if id <= 0 {
		return 0, fmt.Errorf("%s is required", own)
	}
	return id, nil
}

// activeFlag decodes is_active sent either as a bool or as "active"/"inactive".
type activeFlag bool

func (a *activeFlag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*a = activeFlag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("is_active must be a boolean")
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "true":
		*a = true
	case "inactive", "false", "":
		*a = false
	default:
		return fmt.Errorf("is_active: unexpected value %q", s)
	}
	return nil
}

func parseYear(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 9999 {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}

// yearValue accepts a year sent either as a number or as a string.
type yearValue int

func (y *yearValue) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*y = yearValue(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("year must be a number")
	}
	n, err := parseYear(strings.TrimSpace(s), 0)
	if err != nil {
		return err
	}
	*y = yearValue(n)
	return nil
}
