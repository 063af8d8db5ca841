package store

import (
	"context"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

type UserInput struct {
	Username     string
	PasswordHash string
	Role         models.Role
	FullName     string
	Position     string
	IsActive     bool
}

const userColumns = `id, username, password_hash, role, full_name, position, is_active, created_at`

func (s *UserStore) Create(ctx context.Context, in UserInput) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO users (username, password_hash, role, full_name, position, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, in.Username, in.PasswordHash, in.Role, in.FullName, in.Position, in.IsActive)
	return id, translate(err)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return user, translate(err)
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return user, translate(err)
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`)
	return users, translate(err)
}

// Update changes profile fields. The username and password are not touched.
func (s *UserStore) Update(ctx context.Context, id int64, in UserInput) error {
	return expectRow(s.db.ExecContext(ctx, `
		UPDATE users
		SET role = $1, full_name = $2, position = $3, is_active = $4
		WHERE id = $5
	`, in.Role, in.FullName, in.Position, in.IsActive, id))
}

func (s *UserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return expectRow(s.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id))
}

func (s *UserStore) Deactivate(ctx context.Context, id int64) error {
	return expectRow(s.db.ExecContext(ctx, `
		UPDATE users SET is_active = false
		WHERE id = $1 AND is_active
	`, id))
}
