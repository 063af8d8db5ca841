package store

import (
	"context"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/models"
)

type CommentStore struct {
	db DB
}

func NewCommentStore(db DB) *CommentStore {
	return &CommentStore{db: db}
}

func (s *CommentStore) Insert(ctx context.Context, name, email, comment string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO viewer_comments (name, email, comment)
		VALUES ($1, $2, $3)
		RETURNING id
	`, name, email, comment)
	return id, translate(err)
}

func (s *CommentStore) List(ctx context.Context, limit int) ([]models.ViewerComment, error) {
	rows := []models.ViewerComment{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, email, comment, created_at
		FROM viewer_comments
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	return rows, translate(err)
}
