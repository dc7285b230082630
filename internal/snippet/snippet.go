// Package snippet holds the markdown snippets that can be inserted into a note
// from the command palette.
package snippet

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Snippet is one insertable block of markdown.
type Snippet struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`

	// content builds the text at insertion time so dated snippets stay current.
	content func(now time.Time) string
}

// Content returns the snippet text as of now.
func (s Snippet) Content(now time.Time) string {
	return s.content(now)
}

func fixed(text string) func(time.Time) string {
	return func(time.Time) string { return text }
}

// TOCPlaceholder is the text of the toc snippet; the preview replaces it with
// a table of contents.
const TOCPlaceholder = "// Table of Contents will be generated here"

var snippets = []Snippet{
	{Name: "table", Aliases: []string{"tb"}, content: fixed("| Header 1 | Header 2 |\n|---------|---------|\n| Row 1    | Row 1    |\n| Row 2    | Row 2    |")},
	{Name: "list", Aliases: []string{"dashedlist", "dlist"}, content: fixed("- Item 1\n- Item 2\n- Item 3")},
	{Name: "numberedlist", Aliases: []string{"numlist", "nlist"}, content: fixed("1. Item 1\n2. Item 2\n3. Item 3")},
	{Name: "bulletlist", Aliases: []string{"blist"}, content: fixed("* Item 1\n* Item 2\n* Item 3")},
	{Name: "code", Aliases: []string{"snippet"}, content: fixed("```\n// Your code here\n```")},
	{Name: "quote", Aliases: []string{"blockquote"}, content: fixed("> Your quoted text here")},
	{Name: "image", Aliases: []string{"img", "picture"}, content: fixed("![Alt Text](URL)")},
	{Name: "link", Aliases: []string{"url"}, content: fixed("[Link text](URL)")},
	{Name: "video", Aliases: []string{"vd"}, content: fixed(`<video src="URL" controls></video>`)},
	{Name: "tasklist", Aliases: []string{"tlist", "todo"}, content: fixed("- [ ] Task 1\n- [X] Task 2")},
	{Name: "line", Aliases: []string{"horizontal", "hr", "separator", "section", "divider"}, content: fixed("------")},
	{Name: "footnote", Aliases: []string{"fn", "reference"}, content: fixed("This is some text[^1].\n\n[^1]: Footnote text here.")},
	{Name: "metadata", Aliases: []string{"mdata", "yaml"}, content: metadata},
	{Name: "toc", Aliases: []string{"contents"}, content: fixed(TOCPlaceholder)},
	{Name: "date", Aliases: []string{"day"}, content: shortDate},
}

// index maps every name and alias to its snippet.
var index = func() map[string]Snippet {
	m := make(map[string]Snippet, len(snippets)*2)
	for _, s := range snippets {
		m[s.Name] = s
		for _, a := range s.Aliases {
			m[a] = s
		}
	}
	return m
}()

// Get looks up a snippet by name or alias, ignoring case and surrounding space.
func Get(nameOrAlias string) (Snippet, bool) {
	s, ok := index[strings.ToLower(strings.TrimSpace(nameOrAlias))]
	return s, ok
}

// Lookup returns the content of the named snippet as of now.
func Lookup(nameOrAlias string, now time.Time) (string, bool) {
	s, ok := Get(nameOrAlias)
	if !ok {
		return "", false
	}
	return s.Content(now), true
}

// All returns every snippet sorted by name.
func All() []Snippet {
	out := make([]Snippet, len(snippets))
	copy(out, snippets)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// metadata is a front matter block dated "Month D, YYYY".
func metadata(now time.Time) string {
	return fmt.Sprintf("---\ntitle: Note Title\ndate: %s %d, %d\n---", now.Month(), now.Day(), now.Year())
}

// shortDate is DD/MM/YY.
func shortDate(now time.Time) string {
	return now.Format("02/01/06")
}
