package mcp

import "github.com/mark3labs/mcp-go/mcp"

var summaryToolDef = mcp.NewTool("note_summary",
	mcp.WithDescription("Note Summary: letters, words, lines, paragraphs, sentences and reading time. Uses the current note unless text is given."),
	mcp.WithString("text", mcp.Description("Text to analyze instead of the current note")),
	mcp.WithBoolean("detect_language", mcp.Description("Also detect the note's language (ISO 639-1 code)")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var getToolDef = mcp.NewTool("note_get",
	mcp.WithDescription("Return the current note text with its character count and last save time."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var setToolDef = mcp.NewTool("note_set",
	mcp.WithDescription("Replace the current note text. An empty text clears the note."),
	mcp.WithString("text", mcp.Required(), mcp.Description("New note text")),
	mcp.WithDestructiveHintAnnotation(true),
)

var newToolDef = mcp.NewTool("note_new",
	mcp.WithDescription("Start a new note, discarding the current one."),
	mcp.WithDestructiveHintAnnotation(true),
)

var openToolDef = mcp.NewTool("note_open",
	mcp.WithDescription("Replace the current note with the contents of a .txt or .md file."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Path of the file to open; must be in ~/.notetxt/notes or an allowed path")),
	mcp.WithDestructiveHintAnnotation(true),
)

var saveToolDef = mcp.NewTool("note_save",
	mcp.WithDescription("Save the current note as a .txt file."),
	mcp.WithString("file_name", mcp.Description("File name without extension; defaults to the front matter title, then \"note\"")),
	mcp.WithString("dir", mcp.Description("Target directory; defaults to ~/.notetxt/notes")),
)

var previewToolDef = mcp.NewTool("note_preview",
	mcp.WithDescription("Render the current note (or the given text) as markdown and return the sanitized HTML with its headings."),
	mcp.WithString("text", mcp.Description("Markdown to preview instead of the current note")),
)

var snippetToolDef = mcp.NewTool("note_snippet",
	mcp.WithDescription("Append a markdown snippet to the current note. Without a name, lists the available snippets."),
	mcp.WithString("name", mcp.Description("Snippet name or alias, e.g. tasklist, table, toc")),
)
