package store

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Execer is what the review workflow needs from the transaction it is
// handed: single-statement updates and inserts.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// DB is the handle every store is built on. Stores accept either the pool
// or a transaction, so a caller can group writes from several stores.
type DB interface {
	Execer
	Getter
	Selecter
}

var (
	_ DB     = (*sqlx.DB)(nil)
	_ DB     = (*sqlx.Tx)(nil)
	_ Execer = (*sqlx.Tx)(nil)
)
