package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/shipseva/docupload/internal/client/journal/migrations"
	_ "modernc.org/sqlite"
)

// Attempt is one Submit or Resubmit run.
type Attempt struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	// Submitted is nil while the attempt has no recorded outcome.
	Submitted *bool
	Detail    string
	Uploads   int
}

// Orphan is an uploaded object no accepted submission refers to.
type Orphan struct {
	Attempt      string
	Field        string
	DocumentType string
	URL          string
	UploadedAt   time.Time
}

type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// RunMigrations brings db up to the latest schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the journal database at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Uploads finish concurrently; a single connection serialises writers.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal migrations: %w", err)
	}

	return &Journal{db: db, now: time.Now}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// RecordUpload stores one uploaded object of attempt.
func (j *Journal) RecordUpload(ctx context.Context, attempt, field, documentType, url string) error {
	at := j.now().UTC()
	return withTx(ctx, j.db, func(ctx context.Context, tx execer) error {
		if err := ensureAttempt(ctx, tx, attempt, at); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO uploads (attempt_id, field, document_type, url, uploaded_at)
			VALUES (?, ?, ?, ?, ?)
		`, attempt, field, documentType, url, at)
		if err != nil {
			return fmt.Errorf("failed to record upload[%s]: %w", field, err)
		}
		return nil
	})
}

// RecordOutcome closes attempt. detail carries the failure text.
func (j *Journal) RecordOutcome(ctx context.Context, attempt string, submitted bool, detail string) error {
	at := j.now().UTC()
	return withTx(ctx, j.db, func(ctx context.Context, tx execer) error {
		if err := ensureAttempt(ctx, tx, attempt, at); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE attempts SET finished_at = ?, submitted = ?, detail = ? WHERE id = ?
		`, at, submitted, detail, attempt)
		if err != nil {
			return fmt.Errorf("failed to record outcome[%s]: %w", attempt, err)
		}
		return nil
	})
}

func ensureAttempt(ctx context.Context, tx execer, attempt string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO attempts (id, started_at) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, attempt, at)
	if err != nil {
		return fmt.Errorf("failed to create attempt[%s]: %w", attempt, err)
	}
	return nil
}

// Attempts returns the most recent attempts first, at most limit of them.
func (j *Journal) Attempts(ctx context.Context, limit int) ([]Attempt, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT a.id, a.started_at, a.finished_at, a.submitted, a.detail, COUNT(u.id)
		FROM attempts a
		LEFT JOIN uploads u ON u.attempt_id = a.id
		GROUP BY a.id
		ORDER BY a.started_at DESC, a.rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a         Attempt
			finished  sql.NullTime
			submitted sql.NullBool
		)
		if err := rows.Scan(&a.ID, &a.StartedAt, &finished, &submitted, &a.Detail, &a.Uploads); err != nil {
			return nil, fmt.Errorf("failed to scan attempt row: %w", err)
		}
		if finished.Valid {
			a.FinishedAt = &finished.Time
		}
		if submitted.Valid {
			a.Submitted = &submitted.Bool
		}
		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attempt rows: %w", err)
	}
	return out, nil
}

// Orphans lists objects uploaded by attempts that were not accepted and
// that no accepted attempt reused. Attempts still without an outcome are
// left out.
func (j *Journal) Orphans(ctx context.Context) ([]Orphan, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT u.attempt_id, u.field, u.document_type, u.url, u.uploaded_at
		FROM uploads u
		JOIN attempts a ON a.id = u.attempt_id
		WHERE a.submitted = 0
		  AND NOT EXISTS (
			SELECT 1 FROM uploads k
			JOIN attempts s ON s.id = k.attempt_id
			WHERE s.submitted = 1 AND k.url = u.url
		  )
		ORDER BY u.uploaded_at, u.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orphans: %w", err)
	}
	defer rows.Close()

	var out []Orphan
	for rows.Next() {
		var o Orphan
		if err := rows.Scan(&o.Attempt, &o.Field, &o.DocumentType, &o.URL, &o.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan orphan row: %w", err)
		}
		out = append(out, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orphan rows: %w", err)
	}
	return out, nil
}

// Forget removes attempt and its uploads, e.g. after its orphans were
// cleaned up by hand.
func (j *Journal) Forget(ctx context.Context, attempt string) error {
	err := withTx(ctx, j.db, func(ctx context.Context, tx execer) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM uploads WHERE attempt_id = ?`, attempt); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM attempts WHERE id = ?`, attempt)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrUnknownAttempt
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrUnknownAttempt) {
		return fmt.Errorf("failed to forget attempt[%s]: %w", attempt, err)
	}
	return err
}
