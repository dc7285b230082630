package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/notetxt/notetxt/internal/db"
	"github.com/notetxt/notetxt/internal/errors"
	"github.com/notetxt/notetxt/internal/note"
	"github.com/notetxt/notetxt/internal/preview"
)

// CreatePreviewInput contains parameters for the CreatePreview operation.
type CreatePreviewInput struct {
	Text *string // nil means the stored draft
}

// CreatePreviewOutput contains the result of the CreatePreview operation.
type CreatePreviewOutput struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// PreviewPath returns the web path of a preview.
func PreviewPath(id string) string {
	return "/preview/" + id
}

// CreatePreview stores a markdown snapshot under a new id.
func CreatePreview(ctx context.Context, database *sql.DB, input CreatePreviewInput) (*CreatePreviewOutput, error) {
	text, err := textOrDraft(ctx, database, input.Text)
	if err != nil {
		return nil, err
	}
	if note.IsBlank(text) {
		return nil, errors.NewEmptyNote(MsgEmptyPreview)
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	p := &note.Preview{
		ID:        id,
		Markdown:  text,
		CreatedAt: time.Now().Unix(),
	}
	if err := db.InsertPreview(ctx, database, p); err != nil {
		return nil, err
	}

	return &CreatePreviewOutput{ID: id, Path: PreviewPath(id)}, nil
}

// OpenPreviewOutput is a stored preview with its rendering.
type OpenPreviewOutput struct {
	ID       string           `json:"id"`
	Markdown string           `json:"markdown"`
	Found    bool             `json:"found"`
	Document preview.Document `json:"document"`
}

// OpenPreview loads and renders a preview. An unknown id yields the
// not-found markdown instead of an error. Every other stored preview is
// deleted, so at most one preview outlives a page view.
func OpenPreview(ctx context.Context, database *sql.DB, id string) (*OpenPreviewOutput, error) {
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	out := &OpenPreviewOutput{ID: id, Markdown: preview.NotFoundMarkdown}

	p, err := db.GetPreview(ctx, database, id)
	switch {
	case err == nil:
		out.Markdown = p.Markdown
		out.Found = true
	case errors.Is(err, errors.ErrNotFound):
	default:
		return nil, err
	}

	if _, err := db.DeletePreviewsExcept(ctx, database, id); err != nil {
		return nil, err
	}

	doc, err := preview.Render(out.Markdown)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	out.Document = doc
	return out, nil
}

// ClosePreviewOutput contains the result of the ClosePreview operation.
type ClosePreviewOutput struct {
	Deleted int `json:"deleted"`
}

// ClosePreview deletes a preview. Closing an unknown id is not an error.
func ClosePreview(ctx context.Context, database *sql.DB, id string) (*ClosePreviewOutput, error) {
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	n, err := db.DeletePreview(ctx, database, id)
	if err != nil {
		return nil, err
	}
	return &ClosePreviewOutput{Deleted: n}, nil
}
