package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/notetxt/notetxt/internal/config"
	"github.com/notetxt/notetxt/internal/errors"
	"github.com/notetxt/notetxt/internal/ops"
	"github.com/notetxt/notetxt/internal/textmetrics"
)

// maxUploadBytes bounds multipart uploads; the note size limit is checked
// again on the decoded text.
const maxUploadBytes = 8 << 20

// notices maps the ?n= redirect code to the message shown above the editor.
var notices = map[string]string{
	"restored": ops.MsgRestored,
	"new":      ops.MsgNewNote,
	"saved":    "Note saved",
	"imported": "Opened file",
	"snippet":  "Snippet inserted",
	"closed":   "Closed preview",
}

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleEditor handles GET / — the note editor.
func (h *Handlers) HandleEditor(w http.ResponseWriter, r *http.Request) {
	draft, err := ops.LoadDraft(r.Context(), h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	notice := notices[r.URL.Query().Get("n")]
	if notice == "" && draft.Restored && r.URL.Query().Get("n") == "" {
		notice = draft.Notice
	}

	h.renderEditor(w, r, http.StatusOK, draft.Text, draft.UpdatedAt, notice, "")
}

// renderEditor renders the editor page for text.
func (h *Handlers) renderEditor(w http.ResponseWriter, r *http.Request, status int, text string, updatedAt int64, notice, errMsg string) {
	stats := textmetrics.Compute(text)
	h.renderer.renderPageStatus(w, r, status, "editor", EditorPageData{
		PageData: PageData{
			Title:   "Note",
			Version: h.renderer.version,
			Nav:     "editor",
		},
		Text:      text,
		Chars:     stats.Letters,
		UpdatedAt: updatedAt,
		Items:     textmetrics.Items(stats),
		Notice:    notice,
		Error:     errMsg,
	})
}

// renderFormError reports a failed form action. Browsers get the editor back
// with the message and the unsaved text; htmx and JSON clients get the
// negotiated error.
func (h *Handlers) renderFormError(w http.ResponseWriter, r *http.Request, text string, err error) {
	if isHTMX(r) || wantsJSON(r) {
		h.renderer.renderError(w, r, err)
		return
	}
	status, nErr := errorStatus(err)
	h.renderEditor(w, r, status, text, 0, "", nErr.Message)
}

// redirectEditor sends the browser back to the editor with a notice code.
func redirectEditor(w http.ResponseWriter, r *http.Request, code string) {
	target := "/?n=" + code
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// HandleSaveDraft handles POST /draft — save the textarea.
func (h *Handlers) HandleSaveDraft(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	text := normalizeNewlines(r.PostFormValue("text"))

	result, err := ops.SaveDraft(r.Context(), h.db, h.cfg, ops.SaveDraftInput{Text: text})
	if err != nil {
		h.renderFormError(w, r, text, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	redirectEditor(w, r, "saved")
}

// HandleNew handles POST /new — start a new note.
func (h *Handlers) HandleNew(w http.ResponseWriter, r *http.Request) {
	result, err := ops.NewNote(r.Context(), h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	redirectEditor(w, r, "new")
}

// HandleSummary handles GET /summary — the note summary dialog.
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	input := ops.SummaryInput{DetectLanguage: parseBoolParam(r, "language")}

	result, err := ops.Summary(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data := SummaryPageData{
		PageData: PageData{
			Title:   "Note Summary",
			Version: h.renderer.version,
			Nav:     "summary",
		},
		Items:    result.Items,
		Language: result.Language,
	}

	// If htmx targets the editor footer, render only the stats fragment
	if r.Header.Get("HX-Target") == "stats" {
		h.renderer.renderBlock(w, http.StatusOK, "editor", "stats", EditorPageData{Items: result.Items})
		return
	}

	h.renderer.renderPage(w, r, "summary", data)
}

// HandleImport handles POST /import — open an uploaded .txt or .md file.
func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderFormError(w, r, "", errors.NewInvalidRequest("a file upload in field \"file\" is required"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.renderFormError(w, r, "", errors.NewInvalidRequest(fmt.Sprintf("failed to read upload: %v", err)))
		return
	}

	result, err := ops.ImportContent(r.Context(), h.db, h.cfg, ops.ImportContentInput{
		FileName: header.Filename,
		Content:  content,
	})
	if err != nil {
		draft, loadErr := ops.LoadDraft(r.Context(), h.db)
		text := ""
		if loadErr == nil {
			text = draft.Text
		}
		h.renderFormError(w, r, text, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	redirectEditor(w, r, "imported")
}

// HandleDownload handles GET /download — the draft as a text attachment.
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Download(r.Context(), h.db, ops.DownloadInput{FileName: r.URL.Query().Get("name")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.FileName}))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, result.Text)
}

// HandleCopy handles GET /copy — the draft as plain text for copying.
func (h *Handlers) HandleCopy(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Copy(r.Context(), h.db)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, result.Text)
}

// HandleCreatePreview handles POST /preview — snapshot the note and open its preview.
// When the form carries text it is saved as the draft first.
func (h *Handlers) HandleCreatePreview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	var input ops.CreatePreviewInput
	if _, ok := r.PostForm["text"]; ok {
		text := normalizeNewlines(r.PostFormValue("text"))
		if _, err := ops.SaveDraft(r.Context(), h.db, h.cfg, ops.SaveDraftInput{Text: text}); err != nil {
			h.renderFormError(w, r, text, err)
			return
		}
		input.Text = &text
	}

	result, err := ops.CreatePreview(r.Context(), h.db, input)
	if err != nil {
		text := ""
		if input.Text != nil {
			text = *input.Text
		}
		h.renderFormError(w, r, text, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusCreated, result)
		return
	}
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", result.Path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, result.Path, http.StatusSeeOther)
}

// HandlePreview handles GET /preview/{id} — the rendered markdown.
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("preview ID is required"))
		return
	}

	result, err := ops.OpenPreview(r.Context(), h.db, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	status := http.StatusOK
	if !result.Found {
		status = http.StatusNotFound
	}

	h.renderer.renderPageStatus(w, r, status, "preview", PreviewPageData{
		PageData: PageData{
			Title:   result.Document.Title,
			Version: h.renderer.version,
			Nav:     "preview",
		},
		ID:    result.ID,
		Found: result.Found,
		// Sanitized by preview.Render
		HTML:     template.HTML(result.Document.HTML),
		Headings: result.Document.Headings,
	})
}

// HandleClosePreview handles DELETE /preview/{id} and POST /preview/{id}/close.
func (h *Handlers) HandleClosePreview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("preview ID is required"))
		return
	}

	result, err := ops.ClosePreview(r.Context(), h.db, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{
			"deleted": result.Deleted,
			"id":      id,
		})
		return
	}
	redirectEditor(w, r, "closed")
}

// HandleSnippets handles GET /snippets — the snippet palette.
func (h *Handlers) HandleSnippets(w http.ResponseWriter, r *http.Request) {
	list := ops.ListSnippets()

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{"snippets": list})
		return
	}

	h.renderer.renderPage(w, r, "snippets", SnippetsPageData{
		PageData: PageData{
			Title:   "Snippets",
			Version: h.renderer.version,
			Nav:     "snippets",
		},
		Snippets: list,
	})
}

// HandleInsertSnippet handles POST /snippets/{name} — append a snippet to the note.
func (h *Handlers) HandleInsertSnippet(w http.ResponseWriter, r *http.Request) {
	result, err := ops.InsertSnippet(r.Context(), h.db, h.cfg, ops.InsertSnippetInput{Name: r.PathValue("name")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	redirectEditor(w, r, "snippet")
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}

// normalizeNewlines converts the CRLF line endings browsers submit for
// textareas back to \n.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
