package store

import "context"

type SequenceStore struct {
	db DB
}

func NewSequenceStore(db DB) *SequenceStore {
	return &SequenceStore{db: db}
}

// Next atomically increments the (name, year) counter, starting at 1.
func (s *SequenceStore) Next(ctx context.Context, name string, year int) (int64, error) {
	var value int64
	err := s.db.GetContext(ctx, &value, `
		INSERT INTO sequences (name, year, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (name, year) DO UPDATE SET value = sequences.value + 1
		RETURNING value
	`, name, year)
	return value, translate(err)
}
