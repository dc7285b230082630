// Package preview renders a note as sanitized HTML for the preview page.
package preview

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/notetxt/notetxt/internal/note"
	"github.com/notetxt/notetxt/internal/snippet"
)

// DefaultTitle is used when the note has no front matter title.
const DefaultTitle = "Preview"

// NotFoundMarkdown is shown when a preview id has no stored content.
const NotFoundMarkdown = "## Sorry! There was **no content** found for this preview...\n\nReturn to your note and open the preview again."

// Heading is one heading of the rendered document.
type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Document is a rendered preview.
type Document struct {
	Title    string    `json:"title"`
	HTML     string    `json:"html"`
	Headings []Heading `json:"headings"`
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Footnote),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	// Raw HTML (the video snippet) passes through and is cleaned by sanitize.
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// Render converts markdown to sanitized HTML.
func Render(markdown string) (Document, error) {
	fm, body, _ := note.ParseFrontMatter(markdown)

	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return Document{}, fmt.Errorf("render markdown: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return Document{}, fmt.Errorf("parse rendered html: %w", err)
	}

	sanitize(doc.Selection)
	headings := collectHeadings(doc.Selection)
	replaceTOC(doc.Selection, headings)

	out, err := doc.Find("body").Html()
	if err != nil {
		return Document{}, fmt.Errorf("serialize html: %w", err)
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = DefaultTitle
	}

	return Document{
		Title:    title,
		HTML:     strings.TrimSpace(out),
		Headings: headings,
	}, nil
}

var blockedElements = "script,iframe,object,embed,style,frame,frameset"

// urlAttrs are attributes whose values are navigated to or loaded.
var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"poster":     true,
	"xlink:href": true,
}

// sanitize strips executable content from the rendered tree.
func sanitize(root *goquery.Selection) {
	root.Find(blockedElements).Remove()

	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		var drop []string
		for _, attr := range s.Nodes[0].Attr {
			key := strings.ToLower(attr.Key)
			if strings.HasPrefix(key, "on") {
				drop = append(drop, attr.Key)
				continue
			}
			if urlAttrs[key] && isScriptURL(attr.Val) {
				drop = append(drop, attr.Key)
			}
		}
		for _, key := range drop {
			s.RemoveAttr(key)
		}
	})
}

func isScriptURL(v string) bool {
	// Browsers ignore embedded whitespace and control characters in the scheme.
	v = strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, v)
	v = strings.ToLower(v)
	return strings.HasPrefix(v, "javascript:") || strings.HasPrefix(v, "vbscript:") ||
		strings.HasPrefix(v, "data:text/html")
}

func collectHeadings(root *goquery.Selection) []Heading {
	headings := []Heading{}
	root.Find("h1,h2,h3,h4,h5,h6").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		id, _ := s.Attr("id")
		headings = append(headings, Heading{
			Level: int(tag[1] - '0'),
			ID:    id,
			Text:  strings.TrimSpace(s.Text()),
		})
	})
	return headings
}

// replaceTOC swaps each toc placeholder paragraph for a list of heading links.
func replaceTOC(root *goquery.Selection, headings []Heading) {
	root.Find("p").Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) == snippet.TOCPlaceholder {
			s.ReplaceWithHtml(tocHTML(headings))
		}
	})
}

// tocHTML builds a nested list. A heading more than one level deeper than
// its predecessor is attached one level down.
func tocHTML(headings []Heading) string {
	var b strings.Builder
	b.WriteString(`<nav class="toc">`)

	base := 6
	for _, h := range headings {
		base = min(base, h.Level)
	}

	depth := 0
	for _, h := range headings {
		level := max(h.Level-base+1, 1)
		level = min(level, depth+1)

		if level > depth {
			b.WriteString("<ul>")
			depth = level
		} else {
			b.WriteString("</li>")
			for depth > level {
				b.WriteString("</ul></li>")
				depth--
			}
		}
		fmt.Fprintf(&b, `<li><a href="#%s">%s</a>`, html.EscapeString(h.ID), html.EscapeString(h.Text))
	}
	for depth > 0 {
		b.WriteString("</li></ul>")
		depth--
	}

	b.WriteString("</nav>")
	return b.String()
}
