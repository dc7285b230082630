package note

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultFileName is used when a note is saved without a name.
const DefaultFileName = "note.txt"

// SupportedExtensions lists the file types a note can be opened from.
var SupportedExtensions = []string{".txt", ".md"}

// unsafeFileChars matches anything outside word characters, dots and dashes.
var unsafeFileChars = regexp.MustCompile(`[^\w.-]`)

// IsSupportedFile reports whether name has a .txt or .md extension.
func IsSupportedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// SanitizeFileName replaces every character outside [A-Za-z0-9_.-] with a dash.
func SanitizeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "-")
}

// DownloadName returns the file name a note is saved under.
func DownloadName(name string) string {
	if strings.TrimSpace(name) == "" {
		return DefaultFileName
	}
	return SanitizeFileName(name) + ".txt"
}

// IsBlank reports whether text has no content besides whitespace.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// CountChars returns the character count as runes (not bytes).
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}
