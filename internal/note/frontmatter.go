package note

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the metadata block a note may open with:
//
//	---
//	title: Note Title
//	date: October 19, 2026
//	---
type FrontMatter struct {
	Title string   `yaml:"title"`
	Date  string   `yaml:"date"`
	Tags  []string `yaml:"tags"`
}

// ParseFrontMatter splits a leading --- delimited YAML block off text.
// When there is no block, or it does not decode, ok is false and body is text.
func ParseFrontMatter(text string) (fm FrontMatter, body string, ok bool) {
	first, rest, found := strings.Cut(text, "\n")
	if !found || !isDelimiter(first) {
		return FrontMatter{}, text, false
	}

	start := len(first) + 1
	offset := start
	for {
		line, after, more := strings.Cut(rest, "\n")
		if isDelimiter(line) {
			if err := yaml.Unmarshal([]byte(text[start:offset]), &fm); err != nil {
				return FrontMatter{}, text, false
			}
			if !more {
				after = ""
			}
			return fm, after, true
		}
		if !more {
			return FrontMatter{}, text, false
		}
		offset += len(line) + 1
		rest = after
	}
}

// Title returns the front matter title of text, or "" if there is none.
func Title(text string) string {
	fm, _, ok := ParseFrontMatter(text)
	if !ok {
		return ""
	}
	return strings.TrimSpace(fm.Title)
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r") == "---"
}
