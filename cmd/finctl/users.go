package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/auth"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/store"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/validator"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type userCreator interface {
	Create(ctx context.Context, in store.UserInput) (int64, error)
}

// newUser validates the account fields and hashes the password.
func newUser(username, password string, role models.Role, fullName, position string) (store.UserInput, error) {
	username = strings.TrimSpace(username)
	if err := validator.ValidateUsername(username); err != nil {
		return store.UserInput{}, fmt.Errorf("%s: %w", username, err)
	}
	if err := validator.ValidatePassword(password); err != nil {
		return store.UserInput{}, fmt.Errorf("%s: %w", username, err)
	}
	if err := validator.ValidateRole(role); err != nil {
		return store.UserInput{}, fmt.Errorf("%s: %w", username, err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return store.UserInput{}, err
	}
	return store.UserInput{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		FullName:     strings.TrimSpace(fullName),
		Position:     strings.TrimSpace(position),
		IsActive:     true,
	}, nil
}

func createUserCommand(open openFunc, log logrus.FieldLogger) *cobra.Command {
	var username, password, role, fullName, position string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an active user account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := newUser(username, password, models.Role(role), fullName, position)
			if err != nil {
				return err
			}
			s, closeDB, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()
			id, err := s.users.Create(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("create %s: %w", in.Username, err)
			}
			log.WithFields(logrus.Fields{"user_id": id, "username": in.Username, "role": in.Role}).Info("user created")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "initial password (min 8 characters)")
	cmd.Flags().StringVar(&role, "role", string(models.RoleEncoder), "admin, superadmin, encoder, checker, reviewer or approver")
	cmd.Flags().StringVar(&fullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&position, "position", "", "barangay position")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func resetPasswordCommand(open openFunc, log logrus.FieldLogger) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Replace a user's password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validator.ValidatePassword(password); err != nil {
				return err
			}
			s, closeDB, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()
			user, err := s.users.GetByUsername(cmd.Context(), strings.TrimSpace(username))
			if err != nil {
				return fmt.Errorf("find %s: %w", username, err)
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			if err := s.users.UpdatePassword(cmd.Context(), user.ID, hash); err != nil {
				return fmt.Errorf("update %s: %w", username, err)
			}
			log.WithField("user_id", user.ID).Info("password reset")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "new password (min 8 characters)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
