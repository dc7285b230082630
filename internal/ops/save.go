package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/notetxt/notetxt/internal/config"
	"github.com/notetxt/notetxt/internal/db"
	"github.com/notetxt/notetxt/internal/errors"
	"github.com/notetxt/notetxt/internal/note"
)

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	FileName string // optional, default: front matter title, then "note"
	Dir      string // optional, default: ~/.notetxt/notes
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// Save writes the draft to a .txt file.
func Save(ctx context.Context, database *sql.DB, cfg *config.Config, input SaveInput) (*SaveOutput, error) {
	d, err := db.GetDraft(ctx, database)
	if err != nil {
		return nil, err
	}
	if note.IsBlank(d.Text) {
		return nil, errors.NewEmptyNote(MsgEmptyDownload)
	}

	dir := input.Dir
	if dir == "" {
		dir, err = DefaultNotesDir()
		if err != nil {
			return nil, err
		}
	}
	savePath := filepath.Join(dir, fileNameFor(d.Text, input.FileName))

	if err := ValidatePath(savePath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(savePath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create notes directory: %w", err))
	}

	// Write to a temp file, then rename into place
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := savePath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create note file: %w", err))
	}

	// Remove the temp file on failure; any existing file is untouched
	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	n, err := file.WriteString(d.Text)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := checkCancelled(ctx, "save"); err != nil {
		return nil, err
	}

	// Ensure file is written
	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}

	// Close before atomic replace (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close note file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination
	if info, err := os.Lstat(savePath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInternal(fmt.Errorf("save path is a symlink"))
	}

	// On Windows, os.Rename fails if the destination exists; the existing file is kept.
	if err := os.Rename(tempPath, savePath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(savePath); statErr == nil {
				return nil, errors.NewInvalidRequest("save destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize save: %w", err))
	}

	success = true
	return &SaveOutput{
		Path:  savePath,
		Bytes: n,
	}, nil
}

// DownloadInput contains parameters for the Download operation.
type DownloadInput struct {
	FileName string // optional, default: front matter title, then "note"
}

// DownloadOutput is the draft packaged as a text file.
type DownloadOutput struct {
	FileName string `json:"file_name"`
	Text     string `json:"text"`
}

// Download returns the draft and the file name it should be saved under,
// without touching the filesystem.
func Download(ctx context.Context, database *sql.DB, input DownloadInput) (*DownloadOutput, error) {
	d, err := db.GetDraft(ctx, database)
	if err != nil {
		return nil, err
	}
	if note.IsBlank(d.Text) {
		return nil, errors.NewEmptyNote(MsgEmptyDownload)
	}
	return &DownloadOutput{FileName: fileNameFor(d.Text, input.FileName), Text: d.Text}, nil
}

// fileNameFor picks the saved file name: the given name, else the front
// matter title, else the default.
func fileNameFor(text, name string) string {
	if strings.TrimSpace(name) == "" {
		name = note.Title(text)
	}
	return note.DownloadName(name)
}
