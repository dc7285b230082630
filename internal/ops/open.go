package ops

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"unicode/utf8"

	"github.com/notetxt/notetxt/internal/config"
	"github.com/notetxt/notetxt/internal/errors"
	"github.com/notetxt/notetxt/internal/note"
)

// OpenInput contains parameters for the Open operation.
type OpenInput struct {
	Path string // required, .txt or .md
}

// OpenOutput contains the result of the Open operation.
type OpenOutput struct {
	Path  string `json:"path"`
	Chars int    `json:"chars"`
}

// Open replaces the draft with the contents of a .txt or .md file.
func Open(ctx context.Context, database *sql.DB, cfg *config.Config, input OpenInput) (*OpenOutput, error) {
	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(filepath.Clean(input.Path))
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	file, err := openFileNoFollowRead(absPath)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidRequest) || errors.Is(err, errors.ErrFileNotFound) {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open note file: %w", err))
	}
	defer file.Close()

	// Read one rune past the limit in bytes so oversized files fail without
	// loading arbitrarily large input.
	limit := int64(maxChars(cfg)+1) * utf8.UTFMax
	data, err := io.ReadAll(io.LimitReader(file, limit))
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read note file: %w", err))
	}

	if err := checkCancelled(ctx, "open"); err != nil {
		return nil, err
	}

	text, err := note.DecodeFile(data)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to decode note file: %w", err))
	}
	chars, err := checkSize(cfg, text)
	if err != nil {
		return nil, err
	}

	if _, err := putText(ctx, database, text, chars); err != nil {
		return nil, err
	}
	return &OpenOutput{Path: absPath, Chars: chars}, nil
}

// ImportContentInput contains an uploaded file.
type ImportContentInput struct {
	FileName string
	Content  []byte
}

// ImportContentOutput contains the result of the ImportContent operation.
type ImportContentOutput struct {
	FileName string `json:"file_name"`
	Chars    int    `json:"chars"`
}

// ImportContent replaces the draft with uploaded file content.
func ImportContent(ctx context.Context, database *sql.DB, cfg *config.Config, input ImportContentInput) (*ImportContentOutput, error) {
	name := filepath.Base(input.FileName)
	if !note.IsSupportedFile(name) {
		return nil, errors.NewUnsupportedFile(name)
	}

	text, err := note.DecodeFile(input.Content)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to decode upload: %w", err))
	}
	chars, err := checkSize(cfg, text)
	if err != nil {
		return nil, err
	}

	if _, err := putText(ctx, database, text, chars); err != nil {
		return nil, err
	}
	return &ImportContentOutput{FileName: name, Chars: chars}, nil
}
