package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/notetxt/notetxt/internal/errors"
	"github.com/notetxt/notetxt/internal/note"
)

// GetDraft returns the stored draft.
// A missing row is not an error: it yields an empty draft with UpdatedAt 0.
func GetDraft(ctx context.Context, db *sql.DB) (*note.Draft, error) {
	query := `SELECT text, chars, updated_at FROM draft WHERE key = ?`

	var d note.Draft
	err := db.QueryRowContext(ctx, query, note.DraftKey).Scan(&d.Text, &d.Chars, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return &note.Draft{}, nil
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &d, nil
}

// PutDraft replaces the stored draft text and sets d.UpdatedAt.
func PutDraft(ctx context.Context, db *sql.DB, d *note.Draft) error {
	now := time.Now().Unix()

	query := `
		INSERT INTO draft (key, text, chars, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			text = excluded.text,
			chars = excluded.chars,
			updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, note.DraftKey, d.Text, d.Chars, now); err != nil {
		return errors.NewInternal(err)
	}

	d.UpdatedAt = now
	return nil
}

// InsertPreview stores a new preview.
func InsertPreview(ctx context.Context, db *sql.DB, p *note.Preview) error {
	query := `INSERT INTO previews (id, markdown, created_at) VALUES (?, ?, ?)`
	if _, err := db.ExecContext(ctx, query, p.ID, p.Markdown, p.CreatedAt); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetPreview retrieves a preview by its ULID.
func GetPreview(ctx context.Context, db *sql.DB, id string) (*note.Preview, error) {
	query := `SELECT id, markdown, created_at FROM previews WHERE id = ?`

	var p note.Preview
	err := db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Markdown, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &p, nil
}

// DeletePreview removes a preview. Deleting a missing preview is not an error.
// Returns the number of rows removed.
func DeletePreview(ctx context.Context, db *sql.DB, id string) (int, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM previews WHERE id = ?`, id)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return rowsAffected(result)
}

// DeletePreviewsExcept removes every preview other than keepID.
// Returns the number of rows removed.
func DeletePreviewsExcept(ctx context.Context, db *sql.DB, keepID string) (int, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM previews WHERE id != ?`, keepID)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return rowsAffected(result)
}

// CountPreviews returns the number of stored previews.
func CountPreviews(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM previews`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

func rowsAffected(result sql.Result) (int, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}
