package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func countAttempts(t *testing.T, j *Journal) int {
	t.Helper()
	var n int
	require.NoError(t, j.db.QueryRow(`SELECT COUNT(*) FROM attempts`).Scan(&n))
	return n
}

func insertAttempt(ctx context.Context, tx execer, id string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO attempts (id, started_at) VALUES (?, CURRENT_TIMESTAMP)`, id)
	return err
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	j := openTest(t)

	err := withTx(context.Background(), j.db, func(ctx context.Context, tx execer) error {
		return insertAttempt(ctx, tx, "ok")
	})
	require.NoError(t, err)
	require.Equal(t, 1, countAttempts(t, j))
}

func TestWithTx_RollbackOnError(t *testing.T) {
	j := openTest(t)

	err := withTx(context.Background(), j.db, func(ctx context.Context, tx execer) error {
		require.NoError(t, insertAttempt(ctx, tx, "a"))
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	require.Equal(t, 0, countAttempts(t, j))
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	j := openTest(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, countAttempts(t, j))
	}()

	_ = withTx(context.Background(), j.db, func(ctx context.Context, tx execer) error {
		require.NoError(t, insertAttempt(ctx, tx, "p"))
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	j := openTest(t)
	require.NoError(t, j.db.Close())

	err := withTx(context.Background(), j.db, func(ctx context.Context, tx execer) error {
		return nil
	})
	require.Error(t, err)
}
