package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDriver is a database/sql driver whose commits fail with a
// postgres error code for the first failCommits calls.
type scriptedDriver struct {
	failCommits int64
	failCode    pq.ErrorCode

	commits   atomic.Int64
	rollbacks atomic.Int64
}

func (d *scriptedDriver) Open(string) (driver.Conn, error) { return scriptedConn{d}, nil }

type scriptedConn struct{ d *scriptedDriver }

func (c scriptedConn) Prepare(string) (driver.Stmt, error) { return nopStmt{}, nil }
func (c scriptedConn) Close() error                        { return nil }
func (c scriptedConn) Begin() (driver.Tx, error)           { return scriptedTx{c.d}, nil }

func (c scriptedConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return scriptedTx{c.d}, nil
}

type scriptedTx struct{ d *scriptedDriver }

func (t scriptedTx) Commit() error {
	if t.d.commits.Add(1) <= t.d.failCommits {
		return &pq.Error{Code: t.d.failCode}
	}
	return nil
}

func (t scriptedTx) Rollback() error {
	t.d.rollbacks.Add(1)
	return nil
}

type nopStmt struct{}

func (nopStmt) Close() error                               { return nil }
func (nopStmt) NumInput() int                              { return -1 }
func (nopStmt) Exec([]driver.Value) (driver.Result, error) { return driver.RowsAffected(0), nil }
func (nopStmt) Query([]driver.Value) (driver.Rows, error)  { return nil, errors.New("no rows") }

var driverSeq atomic.Uint64

func openScripted(t *testing.T, d *scriptedDriver) *sqlx.DB {
	t.Helper()
	name := fmt.Sprintf("scripted-%d", driverSeq.Add(1))
	sql.Register(name, d)
	raw, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return sqlx.NewDb(raw, name)
}

func TestWithTxCommits(t *testing.T) {
	d := &scriptedDriver{}
	err := WithTx(context.Background(), openScripted(t, d), func(*sqlx.Tx) error { return nil })
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.commits.Load())
	assert.EqualValues(t, 0, d.rollbacks.Load())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	d := &scriptedDriver{}
	boom := errors.New("boom")
	err := WithTx(context.Background(), openScripted(t, d), func(*sqlx.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 1, d.rollbacks.Load())
	assert.EqualValues(t, 0, d.commits.Load())
}

func TestWithTxRetriesSerializationFailure(t *testing.T) {
	d := &scriptedDriver{failCommits: 1, failCode: "40001"}
	calls := 0
	err := WithTx(context.Background(), openScripted(t, d), func(*sqlx.Tx) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.EqualValues(t, 2, d.commits.Load())
}

func TestWithTxGivesUpAfterFiveDeadlocks(t *testing.T) {
	d := &scriptedDriver{failCommits: 10, failCode: "40P01"}
	err := WithTx(context.Background(), openScripted(t, d), func(*sqlx.Tx) error { return nil })
	assert.ErrorIs(t, err, ErrRetryLimit)
	assert.EqualValues(t, 5, d.commits.Load())
}

func TestWithTxSurfacesUniqueViolation(t *testing.T) {
	d := &scriptedDriver{failCommits: 10, failCode: "23505"}
	err := WithTx(context.Background(), openScripted(t, d), func(*sqlx.Tx) error { return nil })
	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pq.ErrorCode("23505"), pqErr.Code)
	assert.EqualValues(t, 1, d.commits.Load())
}

func TestWithTxStopsOnCancelledContext(t *testing.T) {
	d := &scriptedDriver{failCommits: 10, failCode: "40001"}
	ctx, cancel := context.WithCancel(context.Background())
	err := WithTx(ctx, openScripted(t, d), func(*sqlx.Tx) error {
		cancel()
		return nil
	})
	assert.Error(t, err)
	assert.LessOrEqual(t, d.commits.Load(), int64(1))
}

func TestTxRunnerDelegates(t *testing.T) {
	d := &scriptedDriver{}
	runner := NewTxRunner(openScripted(t, d))
	var seen *sqlx.Tx
	require.NoError(t, runner.WithTx(context.Background(), func(tx *sqlx.Tx) error {
		seen = tx
		return nil
	}))
	assert.NotNil(t, seen)
	assert.EqualValues(t, 1, d.commits.Load())
}

func TestDefaultPool(t *testing.T) {
	pool := DefaultPool()
	assert.Greater(t, pool.MaxOpen, pool.MaxIdle)
	assert.Positive(t, pool.MaxLifetime)
}
