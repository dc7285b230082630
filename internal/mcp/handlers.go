package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/notetxt/notetxt/internal/config"
	"github.com/notetxt/notetxt/internal/errors"
	"github.com/notetxt/notetxt/internal/ops"
	"github.com/notetxt/notetxt/internal/preview"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// SummaryRequest represents the arguments for note_summary.
type SummaryRequest struct {
	Text           *string `json:"text,omitempty"`
	DetectLanguage bool    `json:"detect_language,omitempty"`
}

// SetRequest represents the arguments for note_set.
type SetRequest struct {
	Text *string `json:"text"`
}

// OpenRequest represents the arguments for note_open.
type OpenRequest struct {
	Path string `json:"path"`
}

// SaveRequest represents the arguments for note_save.
type SaveRequest struct {
	FileName string `json:"file_name,omitempty"`
	Dir      string `json:"dir,omitempty"`
}

// PreviewRequest represents the arguments for note_preview.
type PreviewRequest struct {
	Text *string `json:"text,omitempty"`
}

// PreviewResponse is the note_preview result.
type PreviewResponse struct {
	ID       string            `json:"id"`
	Path     string            `json:"path"`
	Title    string            `json:"title"`
	HTML     string            `json:"html"`
	Headings []preview.Heading `json:"headings"`
}

// SnippetRequest represents the arguments for note_snippet.
type SnippetRequest struct {
	Name string `json:"name,omitempty"`
}

// HandleSummary handles the note_summary tool call.
func (h *Handlers) HandleSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SummaryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Summary(ctx, h.db, ops.SummaryInput{
		Text:           input.Text,
		DetectLanguage: input.DetectLanguage,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGet handles the note_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.LoadDraft(ctx, h.db)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSet handles the note_set tool call.
func (h *Handlers) HandleSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Text == nil {
		return errorResult(errors.NewInvalidRequest("text is required")), nil
	}

	result, err := ops.SaveDraft(ctx, h.db, h.cfg, ops.SaveDraftInput{Text: *input.Text})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleNew handles the note_new tool call.
func (h *Handlers) HandleNew(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.NewNote(ctx, h.db)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleOpen handles the note_open tool call.
func (h *Handlers) HandleOpen(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[OpenRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Open(ctx, h.db, h.cfg, ops.OpenInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSave handles the note_save tool call.
func (h *Handlers) HandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Save(ctx, h.db, h.cfg, ops.SaveInput{
		FileName: input.FileName,
		Dir:      input.Dir,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePreview handles the note_preview tool call.
// The preview is stored like a web preview, so it can also be opened at its path.
func (h *Handlers) HandlePreview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PreviewRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	created, err := ops.CreatePreview(ctx, h.db, ops.CreatePreviewInput{Text: input.Text})
	if err != nil {
		return errorResult(err), nil
	}

	opened, err := ops.OpenPreview(ctx, h.db, created.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(PreviewResponse{
		ID:       created.ID,
		Path:     created.Path,
		Title:    opened.Document.Title,
		HTML:     opened.Document.HTML,
		Headings: opened.Document.Headings,
	})
}

// HandleSnippet handles the note_snippet tool call.
func (h *Handlers) HandleSnippet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SnippetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if strings.TrimSpace(input.Name) == "" {
		return successResult(map[string]any{"snippets": ops.ListSnippets()})
	}

	result, err := ops.InsertSnippet(ctx, h.db, h.cfg, ops.InsertSnippetInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// errorResult creates an MCP error result from an error.
// Wrapped NoteErrors keep the wrapper's context in the message.
func errorResult(err error) *mcp.CallToolResult {
	var nErr *errors.NoteError
	if !stderrors.As(err, &nErr) {
		nErr = errors.NewInternal(err)
	}

	message := nErr.Message
	if err != error(nErr) && nErr.Code != errors.ErrInternal {
		message = strings.TrimSuffix(err.Error(), nErr.Error()) + nErr.Message
	}

	errorObj := map[string]any{
		"code":    nErr.Code,
		"message": message,
		"status":  nErr.Status,
	}
	// Internal details can carry file paths or SQL errors
	if nErr.Code != errors.ErrInternal && nErr.Details != nil {
		errorObj["details"] = nErr.Details
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
