package store

import (
	"context"
	"fmt"
	"time"
)

// reviewTables is the closed set of tables the workflow may touch.
var reviewTables = map[string]string{
	"collection":   "collections",
	"disbursement": "disbursements",
	"dfur":         "dfur_projects",
}

func reviewTable(kind string) (string, error) {
	table, ok := reviewTables[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return table, nil
}

type ReviewStore struct {
	db DB
}

func NewReviewStore(db DB) *ReviewStore {
	return &ReviewStore{db: db}
}

// SetFlag marks a record as flagged and returns the number of rows changed.
func (s *ReviewStore) SetFlag(ctx context.Context, tx Execer, kind string, id, reviewerID int64, comment string, at time.Time) (int64, error) {
	table, err := reviewTable(kind)
	if err != nil {
		return 0, err
	}
	result, err := tx.ExecContext(ctx, `
		UPDATE `+table+`
		SET is_flagged = true,
			review_comment = $1,
			reviewed_by = $2,
			reviewed_at = $3
		WHERE id = $4 AND is_active
	`, comment, reviewerID, at, id)
	if err != nil {
		return 0, translate(err)
	}
	return result.RowsAffected()
}

// SetStatus records an approver's decision. Flag columns are left as they are.
func (s *ReviewStore) SetStatus(ctx context.Context, tx Execer, kind string, id int64, status string) (int64, error) {
	table, err := reviewTable(kind)
	if err != nil {
		return 0, err
	}
	result, err := tx.ExecContext(ctx, `
		UPDATE `+table+`
		SET review_status = $1
		WHERE id = $2 AND is_active
	`, status, id)
	if err != nil {
		return 0, translate(err)
	}
	return result.RowsAffected()
}

type BacklogCount struct {
	Kind  string `db:"kind"`
	State string `db:"state"`
	Count int64  `db:"count"`
}

// Backlog counts pending records per kind, split by whether a checker has
// flagged them yet.
func (s *ReviewStore) Backlog(ctx context.Context) ([]BacklogCount, error) {
	rows := []BacklogCount{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT kind,
			CASE WHEN is_flagged THEN 'flagged' ELSE 'unflagged' END AS state,
			count(*) AS count
		FROM (
			SELECT 'collection' AS kind, is_flagged FROM collections
				WHERE is_active AND review_status = 'pending'
			UNION ALL
			SELECT 'disbursement', is_flagged FROM disbursements
				WHERE is_active AND review_status = 'pending'
			UNION ALL
			SELECT 'dfur', is_flagged FROM dfur_projects
				WHERE is_active AND review_status = 'pending'
		) pending
		GROUP BY kind, state
		ORDER BY kind, state
	`)
	return rows, translate(err)
}
