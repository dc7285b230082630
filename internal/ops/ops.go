// Package ops implements the note operations shared by the CLI, the web UI
// and the MCP server.
package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/notetxt/notetxt/internal/config"
	"github.com/notetxt/notetxt/internal/db"
	"github.com/notetxt/notetxt/internal/errors"
	"github.com/notetxt/notetxt/internal/note"
)

// User-facing messages.
const (
	MsgRestored      = "Restored the contents of the previous note"
	MsgNewNote       = "Started a new note"
	MsgEmptyDownload = "Cannot download an empty note!"
	MsgEmptyCopy     = "There is no content to copy!"
	MsgEmptyPreview  = "There is no content to preview!"
	MsgCopied        = "Copied to clipboard!"
)

// maxChars returns the configured note size limit.
func maxChars(cfg *config.Config) int {
	if cfg == nil || cfg.NoteMaxChars <= 0 {
		return config.DefaultConfig().NoteMaxChars
	}
	return cfg.NoteMaxChars
}

// checkSize rejects text over the configured limit.
func checkSize(cfg *config.Config, text string) (int, error) {
	chars := note.CountChars(text)
	if limit := maxChars(cfg); chars > limit {
		return chars, errors.NewNoteTooLarge(limit, chars)
	}
	return chars, nil
}

// checkCancelled returns CANCELLED if ctx is done.
func checkCancelled(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return errors.NewCancelled(op)
	default:
		return nil
	}
}

// putText stores text as the draft and returns it.
func putText(ctx context.Context, database *sql.DB, text string, chars int) (*note.Draft, error) {
	d := &note.Draft{Text: text, Chars: chars}
	if err := db.PutDraft(ctx, database, d); err != nil {
		return nil, err
	}
	return d, nil
}

// textOrDraft returns *text when set, otherwise the stored draft text.
func textOrDraft(ctx context.Context, database *sql.DB, text *string) (string, error) {
	if text != nil {
		return *text, nil
	}
	d, err := db.GetDraft(ctx, database)
	if err != nil {
		return "", err
	}
	return d.Text, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
