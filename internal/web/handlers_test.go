package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notetxt/notetxt/internal/config"
	"github.com/notetxt/notetxt/internal/db"
	"github.com/notetxt/notetxt/internal/ops"
)

func setupTest(t *testing.T) *Handlers {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	database, err := db.Init(filepath.Join(home, ".notetxt"))
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatalf("template sub-FS: %v", err)
	}
	renderer := NewRenderer(templateSub, "test")

	return &Handlers{
		db:       database,
		cfg:      cfg,
		renderer: renderer,
	}
}

// seedDraft stores text as the draft.
func seedDraft(t *testing.T, h *Handlers, text string) {
	t.Helper()
	if _, err := ops.SaveDraft(context.Background(), h.db, h.cfg, ops.SaveDraftInput{Text: text}); err != nil {
		t.Fatalf("seed draft: %v", err)
	}
}

func draftText(t *testing.T, h *Handlers) string {
	t.Helper()
	d, err := ops.LoadDraft(context.Background(), h.db)
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	return d.Text
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest("POST", "/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// --- HandleEditor ---

func TestHandleEditor_Empty(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	h.HandleEditor(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("expected full layout")
	}
	if !strings.Contains(body, "Time to Read") {
		t.Error("expected stats footer")
	}
	if strings.Contains(body, ops.MsgRestored) {
		t.Error("empty draft should not show the restored notice")
	}
}

func TestHandleEditor_Restored(t *testing.T) {
	h := setupTest(t)
	seedDraft(t, h, "remember the milk")

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	h.HandleEditor(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, ops.MsgRestored) {
		t.Error("expected restored notice")
	}
	if !strings.Contains(body, "remember the milk</textarea>") {
		t.Error("expected draft text in textarea")
	}
	if !strings.Contains(body, "Words: <strong>3</strong>") {
		t.Error("expected word count in footer")
	}
}

func TestHandleEditor_EscapesText(t *testing.T) {
	h := setupTest(t)
	seedDraft(t, h, "</textarea><script>alert(1)</script>")

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	h.HandleEditor(rec, req)

	body := rec.Body.String()
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("draft text must be escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("expected escaped script tag")
	}
}

func TestHandleEditor_NoticeCodes(t *testing.T) {
	h := setupTest(t)
	seedDraft(t, h, "text")

	tests := []struct {
		query string
		want  string
		not   string
	}{
		{"n=new", ops.MsgNewNote, ops.MsgRestored},
		{"n=saved", "Note saved", ops.MsgRestored},
		{"n=bogus", "", ops.MsgRestored},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/?"+tt.query, nil)
		rec := httptest.NewRecorder()
		h.HandleEditor(rec, req)

		body := rec.Body.String()
		if tt.want != "" && !strings.Contains(body, tt.want) {
			t.Errorf("%s: expected notice %q", tt.query, tt.want)
		}
		if strings.Contains(body, tt.not) {
			t.Errorf("%s: unexpected notice %q", tt.query, tt.not)
		}
	}
}

func TestHandleEditor_HtmxReturnsContentOnly(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleEditor(rec, req)

	body := rec.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("htmx response should not contain full layout")
	}
	if !strings.Contains(body, "<textarea") {
		t.Error("htmx response should contain the editor")
	}
}

// --- HandleSaveDraft ---

func TestHandleSaveDraft(t *testing.T) {
	h := setupTest(t)

	req := postForm("/draft", url.Values{"text": {"line one\r\nline two"}})
	rec := httptest.NewRecorder()
	h.HandleSaveDraft(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/?n=saved" {
		t.Errorf("Location = %q, want /?n=saved", loc)
	}
	if got := draftText(t, h); got != "line one\nline two" {
		t.Errorf("draft = %q, want CRLF normalized", got)
	}
}

func TestHandleSaveDraft_TooLarge(t *testing.T) {
	h := setupTest(t)
	h.cfg.NoteMaxChars = 5
	seedDraft(t, h, "old")

	req := postForm("/draft", url.Values{"text": {"far too long"}})
	rec := httptest.NewRecorder()
	h.HandleSaveDraft(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "note exceeds maximum size") {
		t.Error("expected size error in editor")
	}
	if !strings.Contains(body, "far too long</textarea>") {
		t.Error("rejected text should stay in the editor")
	}
	if got := draftText(t, h); got != "old" {
		t.Errorf("draft = %q, want unchanged", got)
	}
}

func TestHandleSaveDraft_JSON(t *testing.T) {
	h := setupTest(t)

	req := postForm("/draft", url.Values{"text": {"héllo"}})
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleSaveDraft(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if resp["chars"] != float64(5) {
		t.Errorf("chars = %v, want 5", resp["chars"])
	}
}

// --- HandleNew ---

func TestHandleNew(t *testing.T) {
	h := setupTest(t)
	seedDraft(t, h, "to be cleared")

	req := httptest.NewRequest("POST", "/new", nil)
	rec := httptest.NewRecorder()
	h.HandleNew(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if got := draftText(t, h); got != "" {
		t.Errorf("draft = %q, want empty", got)
	}
}

func TestHandleNew_HtmxRequest(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("POST", "/new", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleNew(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("HX-Redirect"); got != "/?n=new" {
		t.Errorf("HX-Redirect = %q, want /?n=new", got)
	}
}

// --- HandleSummary ---

func TestHandleSummary_Page(t *testing.T) {
	h := setupTest(t)
	seedDraft(t, h, "Hello world. How are you?")

	req := httptest.NewRequest("GET", "/summary", nil)
	rec := httptest.NewRecorder()
	h.HandleSummary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Note Summary", "Letters", "Sentences", "Time to Read", "1 minutes", "200 words per minute"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in summary", want)
		}
	}
}

func TestHandleSummary_JSON(t *testing.T) {
	h := setupTest(t)
	seedDraft(t, h, "Para one.\n\nPara two.")

	req := httptest.NewRequest("GET", "/summary", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleSummary(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp struct {
		Stats map[string]int   `json:"stats"`
		Items []map[string]any `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if resp.Stats["paragraphs"] != 2 {
		t.Errorf("paragraphs = %d, want 2", resp.Stats["paragraphs"])
	}
	if resp.Stats["sentences"] != 2 {
		t.Errorf("sentences = %d, want 2", resp.Stats["sentences"])
	}
	if len(resp.Items) != 6 {
		t.Errorf("items = %d, want 6", len(resp.Items))
	}
}

func TestHandleSummary_Language(t *testing.T) {
	h := setupTest(t)
	seedDraft(t, h, "The weather is lovely today and we are going to walk along the river after lunch.")

	req := httptest.NewRequest("GET", "/summary?language=true", nil)
	rec := httptest.NewRecorder()
	h.HandleSummary(rec, req)

	if !strings.Contains(rec.Body.String(), "Detected language: <strong>en</strong>") {
		t.Error("expected detected language")
	}
}

func TestHandleSummary_HtmxTargetStats_ReturnsFragment(t *testing.T) {
	h := setupTest(t)
	seedDraft(t, h, "one two three")

	req := httptest.NewRequest("GET", "/summary", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "stats")
	rec := httptest.NewRecorder()
	h.HandleSummary(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `id="stats"`) {
		t.Error("expected stats fragment")
	}
	if strings.Contains(body, "Note Summary") {
		t.Error("fragment should not contain the summary dialog")
	}
}

// --- HandleImport ---

func TestHandleImport(t *testing.T) {
	h := setupTest(t)

	req := uploadRequest(t, "file", "todo.md", "# Todo\n- milk")
	rec := httptest.NewRecorder()
	h.HandleImport(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303: %s", rec.Code, rec.Body.String())
	}
	if got := draftText(t, h); got != "# Todo\n- milk" {
		t.Errorf("draft = %q", got)
	}
}

func TestHandleImport_UnsupportedFile(t *testing.T) {
	h := setupTest(t)
	seedDraft(t, h, "keep")

	req := uploadRequest(t, "file", "photo.png", "binary")
	rec := httptest.NewRecorder()
	h.HandleImport(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "please select a &#39;.txt&#39; or &#39;.md&#39; file") {
		t.Errorf("expected unsupported file message, got: %s", body)
	}
	if got := draftText(t, h); got != "keep" {
		t.Errorf("draft = %q, want unchanged", got)
	}
}

func TestHandleImport_MissingFile(t *testing.T) {
	h := setupTest(t)

	req := uploadRequest(t, "", "", "")
	rec := httptest.NewRecorder()
	h.HandleImport(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// --- HandleDownload / HandleCopy ---

func TestHandleDownload(t *testing.T) {
	h := setupTest(t)
	seedDraft(t, h, "download me")

	tests := []struct {
		query string
		want  string
	}{
		{"", "attachment; filename=note.txt"},
		{"?name=my+list", "attachment; filename=my-list.txt"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/download"+tt.query, nil)
		rec := httptest.NewRecorder()
		h.HandleDownload(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := rec.Header().Get("Content-Disposition"); got != tt.want {
			t.Errorf("Content-Disposition = %q, want %q", got, tt.want)
		}
		if got := rec.Header().Get("Content-Type"); got != "text/plain; charset=utf-8" {
			t.Errorf("Content-Type = %q", got)
		}
		if rec.Body.String() != "download me" {
			t.Errorf("body = %q", rec.Body.String())
		}
	}
}

func TestHandleDownload_EmptyNote(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/download", nil)
	rec := httptest.NewRecorder()
	h.HandleDownload(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), ops.MsgEmptyDownload) {
		t.Error("expected empty note message")
	}
}

func TestHandleCopy(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/copy", nil)
	rec := httptest.NewRecorder()
	h.HandleCopy(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty copy status = %d, want 422", rec.Code)
	}

	seedDraft(t, h, "clip")
	rec = httptest.NewRecorder()
	h.HandleCopy(rec, httptest.NewRequest("GET", "/copy", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "clip" {
		t.Errorf("body = %q, want clip", rec.Body.String())
	}
}

// --- Preview ---

func createPreview(t *testing.T, h *Handlers, text string) string {
	t.Helper()
	out, err := ops.CreatePreview(context.Background(), h.db, ops.CreatePreviewInput{Text: &text})
	if err != nil {
		t.Fatalf("create preview: %v", err)
	}
	return out.ID
}

func TestHandleCreatePreview_FromForm(t *testing.T) {
	h := setupTest(t)

	req := postForm("/preview", url.Values{"text": {"# Heading"}})
	rec := httptest.NewRecorder()
	h.HandleCreatePreview(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/preview/") || len(loc) != len("/preview/")+26 {
		t.Errorf("Location = %q, want /preview/<ulid>", loc)
	}
	if got := draftText(t, h); got != "# Heading" {
		t.Errorf("form text should be saved as the draft, got %q", got)
	}
}

func TestHandleCreatePreview_JSON(t *testing.T) {
	h := setupTest(t)
	seedDraft(t, h, "draft body")

	req := httptest.NewRequest("POST", "/preview", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleCreatePreview(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if resp["path"] != "/preview/"+resp["id"].(string) {
		t.Errorf("path = %v", resp["path"])
	}
}

func TestHandleCreatePreview_Empty(t *testing.T) {
	h := setupTest(t)

	req := postForm("/preview", url.Values{"text": {"   "}})
	rec := httptest.NewRecorder()
	h.HandleCreatePreview(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), ops.MsgEmptyPreview) {
		t.Error("expected empty preview message")
	}
}

func TestHandlePreview_Found(t *testing.T) {
	h := setupTest(t)
	id := createPreview(t, h, "---\ntitle: Plans\n---\n# Monday\n\n- [ ] call")

	req := httptest.NewRequest("GET", "/preview/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandlePreview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<title>Plans · notetxt</title>", `<h1 id="monday">Monday</h1>`, "Return to note", "/preview/" + id + "/close"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in preview page", want)
		}
	}
}

func TestHandlePreview_NotFound(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/preview/NONEXISTENT", nil)
	req.SetPathValue("id", "NONEXISTENT")
	rec := httptest.NewRecorder()
	h.HandlePreview(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<strong>no content</strong>") {
		t.Error("expected not-found markdown")
	}
}

func TestHandlePreview_Sanitized(t *testing.T) {
	h := setupTest(t)
	id := createPreview(t, h, "ok\n\n<script>alert(1)</script>\n\n<a href=\"javascript:alert(2)\" onclick=\"x()\">link</a>")

	req := httptest.NewRequest("GET", "/preview/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandlePreview(rec, req)

	body := rec.Body.String()
	for _, bad := range []string{"<script>", "alert(1)", "javascript:", "onclick"} {
		if strings.Contains(body, bad) {
			t.Errorf("preview page contains %q", bad)
		}
	}
}

func TestHandleClosePreview_JSON(t *testing.T) {
	h := setupTest(t)
	id := createPreview(t, h, "bye")

	req := httptest.NewRequest("DELETE", "/preview/"+id, nil)
	req.SetPathValue("id", id)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleClosePreview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if resp["deleted"] != float64(1) {
		t.Errorf("deleted = %v, want 1", resp["deleted"])
	}
	if resp["id"] != id {
		t.Errorf("id = %v, want %s", resp["id"], id)
	}
}

func TestHandleClosePreview_FormRedirect(t *testing.T) {
	h := setupTest(t)
	id := createPreview(t, h, "bye")

	req := httptest.NewRequest("POST", "/preview/"+id+"/close", nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleClosePreview(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/?n=closed" {
		t.Errorf("Location = %q, want /?n=closed", loc)
	}
}

// --- Snippets ---

func TestHandleSnippets(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/snippets", nil)
	rec := httptest.NewRecorder()
	h.HandleSnippets(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `action="/snippets/tasklist"`) {
		t.Error("expected tasklist snippet form")
	}
	if !strings.Contains(body, "tlist, todo") {
		t.Error("expected tasklist aliases")
	}
}

func TestHandleSnippets_JSON(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/snippets", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleSnippets(rec, req)

	var resp struct {
		Snippets []struct {
			Name string `json:"name"`
		} `json:"snippets"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if len(resp.Snippets) != 15 {
		t.Errorf("snippets = %d, want 15", len(resp.Snippets))
	}
}

func TestHandleInsertSnippet(t *testing.T) {
	h := setupTest(t)
	seedDraft(t, h, "above")

	req := httptest.NewRequest("POST", "/snippets/hr", nil)
	req.SetPathValue("name", "hr")
	rec := httptest.NewRecorder()
	h.HandleInsertSnippet(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if got := draftText(t, h); got != "above\n------" {
		t.Errorf("draft = %q", got)
	}
}

func TestHandleInsertSnippet_Unknown(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("POST", "/snippets/nope", nil)
	req.SetPathValue("name", "nope")
	rec := httptest.NewRecorder()
	h.HandleInsertSnippet(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// --- Error rendering ---

func TestErrorRendering_HtmxFragment(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/download", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleDownload(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "error-message") {
		t.Error("expected error-message div in htmx error response")
	}
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("htmx error should not contain full layout")
	}
}

func TestErrorRendering_JSONError(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("POST", "/snippets/nope", nil)
	req.SetPathValue("name", "nope")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleInsertSnippet(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	errObj, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatal("expected error object in JSON response")
	}
	if errObj["code"] != "INVALID_REQUEST" {
		t.Errorf("error.code = %v, want INVALID_REQUEST", errObj["code"])
	}
	if errObj["status"] != float64(400) {
		t.Errorf("error.status = %v, want 400", errObj["status"])
	}
}

func TestErrorRendering_FullErrorPage(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/download", nil)
	rec := httptest.NewRecorder()
	h.HandleDownload(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("full error page should contain layout")
	}
	if !strings.Contains(body, "Error 422") {
		t.Error("error page should show status code")
	}
}

// --- Helper functions ---

func TestParseBoolParam(t *testing.T) {
	tests := []struct {
		query    string
		name     string
		expected bool
	}{
		{"", "language", false},
		{"language=true", "language", true},
		{"language=1", "language", true},
		{"language=false", "language", false},
		{"language=yes", "language", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/?"+tt.query, nil)
		got := parseBoolParam(req, tt.name)
		if got != tt.expected {
			t.Errorf("parseBoolParam(%q, %q) = %v, want %v", tt.query, tt.name, got, tt.expected)
		}
	}
}

func TestNormalizeNewlines(t *testing.T) {
	if got := normalizeNewlines("a\r\nb\rc\n"); got != "a\nb\rc\n" {
		t.Errorf("normalizeNewlines = %q", got)
	}
}

func TestFormatChars(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{200000, "200,000"},
		{-1234, "-1,234"},
	}
	for _, tt := range tests {
		if got := formatChars(tt.n); got != tt.want {
			t.Errorf("formatChars(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	if got := formatTime(0); got != "never" {
		t.Errorf("formatTime(0) = %q, want never", got)
	}
	if got := formatTime(1700000000); got != "2023-11-14 22:13" {
		t.Errorf("formatTime = %q", got)
	}
}
