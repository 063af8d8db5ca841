package main

import (
	"context"
	"fmt"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/config"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/db"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// stores is what every subcommand works against.
type stores struct {
	users  *store.UserStore
	budget *store.BudgetStore
}

type openFunc func(ctx context.Context) (stores, func() error, error)

func openDatabase(ctx context.Context) (stores, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return stores{}, nil, err
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultPool())
	if err != nil {
		return stores{}, nil, fmt.Errorf("connect database: %w", err)
	}
	return stores{
		users:  store.NewUserStore(database),
		budget: store.NewBudgetStore(database),
	}, database.Close, nil
}

func rootCommand(log logrus.FieldLogger) *cobra.Command {
	root := &cobra.Command{
		Use:          "finctl",
		Short:        "Operator tools for the barangay finance backend",
		SilenceUsage: true,
	}
	root.AddCommand(
		createUserCommand(openDatabase, log),
		resetPasswordCommand(openDatabase, log),
		seedCommand(openDatabase, log),
	)
	return root
}
