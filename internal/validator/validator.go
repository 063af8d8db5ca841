package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
)

var (
	ErrInvalidEmail         = errors.New("invalid email")
	ErrInvalidUsername      = errors.New("invalid username")
	ErrInvalidPassword      = errors.New("password must be at least 8 characters")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidTransactionID = errors.New("invalid transaction id")
	ErrInvalidDateRange     = errors.New("start_date must not be after end_date")
)

var (
	emailRegex         = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRegex      = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)
	transactionIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{0,49}$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidateRole(role models.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

func ValidateTransactionID(id string) error {
	if !transactionIDRegex.MatchString(id) {
		return ErrInvalidTransactionID
	}
	return nil
}

func ValidateDateRange(start, end models.Date) error {
	if start.After(end.Time) {
		return ErrInvalidDateRange
	}
	return nil
}

// Required reports the first blank field, in the order given.
func Required(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return fmt.Errorf("%s is required", f[0])
		}
	}
	return nil
}
