package ops

import (
	"context"
	"database/sql"

	"github.com/notetxt/notetxt/internal/config"
	"github.com/notetxt/notetxt/internal/db"
	"github.com/notetxt/notetxt/internal/errors"
	"github.com/notetxt/notetxt/internal/note"
)

// DraftOutput is the stored working note.
type DraftOutput struct {
	Text      string `json:"text"`
	Chars     int    `json:"chars"`
	UpdatedAt int64  `json:"updated_at"`

	// Restored is true when a non-empty draft from a previous session was found.
	Restored bool   `json:"restored"`
	Notice   string `json:"notice,omitempty"`
}

// LoadDraft returns the stored draft.
func LoadDraft(ctx context.Context, database *sql.DB) (*DraftOutput, error) {
	d, err := db.GetDraft(ctx, database)
	if err != nil {
		return nil, err
	}

	out := &DraftOutput{
		Text:      d.Text,
		Chars:     d.Chars,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Text != "" {
		out.Restored = true
		out.Notice = MsgRestored
	}
	return out, nil
}

// SaveDraftInput contains parameters for the SaveDraft operation.
type SaveDraftInput struct {
	Text string // empty clears the note
}

// SaveDraftOutput contains the result of the SaveDraft operation.
type SaveDraftOutput struct {
	Chars     int   `json:"chars"`
	UpdatedAt int64 `json:"updated_at"`
}

// SaveDraft replaces the draft text.
func SaveDraft(ctx context.Context, database *sql.DB, cfg *config.Config, input SaveDraftInput) (*SaveDraftOutput, error) {
	chars, err := checkSize(cfg, input.Text)
	if err != nil {
		return nil, err
	}

	d, err := putText(ctx, database, input.Text, chars)
	if err != nil {
		return nil, err
	}
	return &SaveDraftOutput{Chars: d.Chars, UpdatedAt: d.UpdatedAt}, nil
}

// NewNoteOutput contains the result of the NewNote operation.
type NewNoteOutput struct {
	Cleared bool   `json:"cleared"`
	Notice  string `json:"notice"`
}

// NewNote clears the draft.
func NewNote(ctx context.Context, database *sql.DB) (*NewNoteOutput, error) {
	if _, err := putText(ctx, database, "", 0); err != nil {
		return nil, err
	}
	return &NewNoteOutput{Cleared: true, Notice: MsgNewNote}, nil
}

// CopyOutput contains the draft text for the clipboard.
type CopyOutput struct {
	Text   string `json:"text"`
	Notice string `json:"notice"`
}

// Copy returns the draft text. A blank draft is rejected.
func Copy(ctx context.Context, database *sql.DB) (*CopyOutput, error) {
	d, err := db.GetDraft(ctx, database)
	if err != nil {
		return nil, err
	}
	if note.IsBlank(d.Text) {
		return nil, errors.NewEmptyNote(MsgEmptyCopy)
	}
	return &CopyOutput{Text: d.Text, Notice: MsgCopied}, nil
}
