package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/money"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fixture is the YAML seed file layout.
//
//	users:
//	  - username: treasurer
//	    password: change-me-now
//	    role: encoder
//	    full_name: Ana Cruz
//	allocations:
//	  - year: 2026
//	    category: Personal Services
//	    amount: "1250000.00"
type fixture struct {
	Users       []fixtureUser       `yaml:"users"`
	Allocations []fixtureAllocation `yaml:"allocations"`
}

type fixtureUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	FullName string `yaml:"full_name"`
	Position string `yaml:"position"`
}

type fixtureAllocation struct {
	Year     int    `yaml:"year"`
	Category string `yaml:"category"`
	Amount   string `yaml:"amount"`
}

func loadFixture(r io.Reader) (fixture, error) {
	var f fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return fixture{}, nil
		}
		return fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	return f, nil
}

type allocationCreator interface {
	CreateAllocation(ctx context.Context, year int, category string, amount decimal.Decimal) (int64, error)
}

type seedResult struct {
	Users       int
	Allocations int
	Skipped     int
}

// applyFixture creates every user and allocation in f. Rows that already
// exist are skipped so a fixture can be applied more than once.
func applyFixture(ctx context.Context, f fixture, users userCreator, budget allocationCreator) (seedResult, error) {
	var result seedResult
	for _, u := range f.Users {
		in, err := newUser(u.Username, u.Password, models.Role(u.Role), u.FullName, u.Position)
		if err != nil {
			return result, err
		}
		if _, err := users.Create(ctx, in); err != nil {
			if errors.Is(err, store.ErrConflict) {
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("user %s: %w", in.Username, err)
		}
		result.Users++
	}
	for _, a := range f.Allocations {
		category := strings.TrimSpace(a.Category)
		if a.Year < 1900 || a.Year > 9999 || category == "" {
			return result, fmt.Errorf("allocation %d/%q: year and category are required", a.Year, a.Category)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(a.Amount))
		if err != nil {
			return result, fmt.Errorf("allocation %d/%s: %w", a.Year, category, err)
		}
		if err := money.Validate(amount); err != nil {
			return result, fmt.Errorf("allocation %d/%s: %w", a.Year, category, err)
		}
		if _, err := budget.CreateAllocation(ctx, a.Year, category, amount); err != nil {
			if errors.Is(err, store.ErrConflict) {
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("allocation %d/%s: %w", a.Year, category, err)
		}
		result.Allocations++
	}
	return result, nil
}

func seedCommand(open openFunc, log logrus.FieldLogger) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users and budget allocations from a YAML fixture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fh, err := os.Open(file)
			if err != nil {
				return err
			}
			defer fh.Close()
			f, err := loadFixture(fh)
			if err != nil {
				return err
			}
			s, closeDB, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()
			result, err := applyFixture(cmd.Context(), f, s.users, s.budget)
			entry := log.WithFields(logrus.Fields{
				"users":       result.Users,
				"allocations": result.Allocations,
				"skipped":     result.Skipped,
			})
			if err != nil {
				entry.WithError(err).Error("seed stopped")
				return err
			}
			entry.Info("seed complete")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "fixture file")
	return cmd
}
