// Package note holds the note model and the text helpers shared by every
// surface: file name rules, supported file types and front matter.
package note

// DraftKey is the storage key of the single working note.
const DraftKey = "text"

// Draft is the persisted working note.
type Draft struct {
	// Text is the full note content
	Text string

	// Chars is the character count (runes, not bytes)
	Chars int

	// UpdatedAt is the Unix timestamp of the last save (0 if never saved)
	UpdatedAt int64
}

// Preview is a markdown snapshot handed to the preview page.
type Preview struct {
	// ID is a ULID that uniquely identifies this preview
	ID string

	// Markdown is the note content at the time the preview was requested
	Markdown string

	// CreatedAt is the Unix timestamp when the preview was created
	CreatedAt int64
}
