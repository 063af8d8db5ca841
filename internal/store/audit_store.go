package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditStore struct {
	db DB
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

type AuditEntry struct {
	ID         string          `db:"id" json:"id"`
	EntityKind string          `db:"entity_kind" json:"entity_kind"`
	EntityID   int64           `db:"entity_id" json:"entity_id"`
	Action     string          `db:"action" json:"action"`
	ActorID    int64           `db:"actor_id" json:"actor_id"`
	Detail     json.RawMessage `db:"detail" json:"detail"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// Log writes an audit row inside the caller's transaction.
func (s *AuditStore) Log(ctx context.Context, tx Execer, entry AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	detail := entry.Detail
	if len(detail) == 0 {
		detail = json.RawMessage(`{}`)
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO review_audit (id, entity_kind, entity_id, action, actor_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.EntityKind, entry.EntityID, entry.Action, entry.ActorID, []byte(detail), entry.CreatedAt)
	return translate(err)
}

// List returns the review history of one record, newest first.
func (s *AuditStore) List(ctx context.Context, kind string, entityID int64) ([]AuditEntry, error) {
	rows := []AuditEntry{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, entity_kind, entity_id, action, actor_id, detail, created_at
		FROM review_audit
		WHERE entity_kind = $1 AND entity_id = $2
		ORDER BY created_at DESC
	`, kind, entityID)
	return rows, translate(err)
}
