package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shipseva/docupload/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	j.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return j
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpen_RunsMigrations(t *testing.T) {
	j := openTest(t)

	for _, name := range []string{"goose_db_version", "attempts", "uploads"} {
		assert.True(t, tableExists(t, j.db, name), name)
	}
	// Idempotent on an up-to-date database.
	require.NoError(t, RunMigrations(context.Background(), j.db))
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, j.RecordUpload(ctx, "a1", "panFront", "pan_front", "https://cdn/p"))
	require.NoError(t, j.Close())

	j, err = Open(ctx, path)
	require.NoError(t, err)
	defer j.Close()

	attempts, err := j.Attempts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, "a1", attempts[0].ID)
	assert.Equal(t, 1, attempts[0].Uploads)
	assert.Nil(t, attempts[0].Submitted)
	assert.Nil(t, attempts[0].FinishedAt)
}

func TestAttempts_Outcome(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)

	require.NoError(t, j.RecordUpload(ctx, "a1", "panFront", "pan_front", "https://cdn/p1"))
	require.NoError(t, j.RecordOutcome(ctx, "a1", false, "kyc submission rejected"))
	require.NoError(t, j.RecordOutcome(ctx, "a2", true, ""))

	attempts, err := j.Attempts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	assert.Equal(t, "a2", attempts[0].ID)
	require.NotNil(t, attempts[0].Submitted)
	assert.True(t, *attempts[0].Submitted)
	assert.Zero(t, attempts[0].Uploads)

	assert.Equal(t, "a1", attempts[1].ID)
	require.NotNil(t, attempts[1].Submitted)
	assert.False(t, *attempts[1].Submitted)
	assert.Equal(t, "kyc submission rejected", attempts[1].Detail)
	require.NotNil(t, attempts[1].FinishedAt)
	assert.True(t, attempts[1].FinishedAt.After(attempts[1].StartedAt))

	limited, err := j.Attempts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestOrphans(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)

	// First attempt uploads two documents, then the backend refuses it.
	require.NoError(t, j.RecordUpload(ctx, "a1", "panFront", "pan_front", "https://cdn/pan"))
	require.NoError(t, j.RecordUpload(ctx, "a1", "aadharFront", "aadhar_front", "https://cdn/front"))
	require.NoError(t, j.RecordOutcome(ctx, "a1", false, "backend down"))

	orphans, err := j.Orphans(ctx)
	require.NoError(t, err)
	assert.Len(t, orphans, 2)

	// The second attempt reuses the PAN object and replaces the Aadhar one.
	require.NoError(t, j.RecordUpload(ctx, "a2", "aadharFront", "aadhar_front", "https://cdn/front2"))
	require.NoError(t, j.RecordUpload(ctx, "a2", "panFront", "pan_front", "https://cdn/pan"))
	require.NoError(t, j.RecordOutcome(ctx, "a2", true, ""))

	// An attempt without an outcome is still running.
	require.NoError(t, j.RecordUpload(ctx, "a3", "bankDocument", "bank_document", "https://cdn/bank"))

	orphans, err = j.Orphans(ctx)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, Orphan{
		Attempt:      "a1",
		Field:        "aadharFront",
		DocumentType: "aadhar_front",
		URL:          "https://cdn/front",
		UploadedAt:   orphans[0].UploadedAt,
	}, orphans[0])
	assert.False(t, orphans[0].UploadedAt.IsZero())
}

func TestForget(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)

	require.NoError(t, j.RecordUpload(ctx, "a1", "panFront", "pan_front", "https://cdn/pan"))
	require.NoError(t, j.RecordOutcome(ctx, "a1", false, "x"))

	require.NoError(t, j.Forget(ctx, "a1"))
	orphans, err := j.Orphans(ctx)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	err = j.Forget(ctx, "a1")
	assert.ErrorIs(t, err, ErrUnknownAttempt)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
