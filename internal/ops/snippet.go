package ops

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/notetxt/notetxt/internal/config"
	"github.com/notetxt/notetxt/internal/db"
	"github.com/notetxt/notetxt/internal/errors"
	"github.com/notetxt/notetxt/internal/snippet"
)

// InsertSnippetInput contains parameters for the InsertSnippet operation.
type InsertSnippetInput struct {
	Name string // snippet name or alias
}

// InsertSnippetOutput contains the result of the InsertSnippet operation.
type InsertSnippetOutput struct {
	Name     string `json:"name"`
	Inserted string `json:"inserted"`
	Chars    int    `json:"chars"`
}

// InsertSnippet appends a snippet to the draft, on a new line when the
// draft does not already end with one.
func InsertSnippet(ctx context.Context, database *sql.DB, cfg *config.Config, input InsertSnippetInput) (*InsertSnippetOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.NewInvalidRequest("snippet name is required")
	}
	s, ok := snippet.Get(name)
	if !ok {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown snippet: %s", input.Name))
	}

	d, err := db.GetDraft(ctx, database)
	if err != nil {
		return nil, err
	}

	content := s.Content(time.Now())
	text := d.Text
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	text += content

	chars, err := checkSize(cfg, text)
	if err != nil {
		return nil, err
	}
	if _, err := putText(ctx, database, text, chars); err != nil {
		return nil, err
	}

	return &InsertSnippetOutput{Name: s.Name, Inserted: content, Chars: chars}, nil
}

// ListSnippets returns the snippet palette.
func ListSnippets() []snippet.Snippet {
	return snippet.All()
}
