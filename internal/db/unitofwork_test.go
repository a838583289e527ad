package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/threadlog/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	_, err = database.Exec(`INSERT INTO organizations (id, name, created_at) VALUES ('org-1', 'Acme', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	return db.NewSQLiteUnitOfWork(database)
}

const insertSlot = `INSERT INTO worklog_entries
	(organization_id, employee_id, work_date, hour, status, note, updated_at)
	VALUES ('org-1', 'emp-1', '2025-06-15', ?, 'completed', '', 1)`

func countSlots(t *testing.T, uow *db.SQLiteUnitOfWork) int {
	t.Helper()
	var n int
	require.NoError(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM worklog_entries`).Scan(&n)
	}))
	return n
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, insertSlot, 9)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countSlots(t, uow))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openUoW(t)
	boom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertSlot, 9); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countSlots(t, uow), "no slot should survive rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, insertSlot, 14)
			panic("boom")
		})
	})
	assert.Equal(t, 0, countSlots(t, uow))
}

func TestWithinTx_ConstraintViolationRollsBackEarlierWrites(t *testing.T) {
	uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertSlot, 8); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, insertSlot, 24)
		return err
	})
	require.Error(t, err)
	assert.Equal(t, 0, countSlots(t, uow))
}
