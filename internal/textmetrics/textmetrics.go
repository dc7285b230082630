// Package textmetrics derives descriptive statistics from note text.
//
// Every count is computed in a single pass over the text and the package holds
// no state, so Compute is safe to call on every edit and from any goroutine.
package textmetrics

import "unicode"

// WordsPerMinute is the assumed average reading speed.
const WordsPerMinute = 200

// Stats holds the statistics of one text.
type Stats struct {
	// Letters counts every character (rune), whitespace included.
	Letters int `json:"letters"`

	// Words counts whitespace-separated tokens.
	Words int `json:"words"`

	// Lines counts segments between \r\n, \r or \n terminators, empty ones included.
	Lines int `json:"lines"`

	// Paragraphs counts non-blank blocks separated by at least one blank line.
	Paragraphs int `json:"paragraphs"`

	// Sentences counts non-blank segments between runs of . ! ? followed by whitespace.
	Sentences int `json:"sentences"`

	// ReadingTimeMinutes is Words / WordsPerMinute, rounded up.
	ReadingTimeMinutes int `json:"reading_time_minutes"`
}

// Compute returns the statistics of text.
//
// Whitespace follows the ECMAScript \s class so results agree with the
// browser editor these notes were first written in. Sentence boundaries are
// purely punctuation based: "Dr. Smith" ends a sentence after "Dr", while
// "3.14" and "example.com" never do because no whitespace follows the dot.
func Compute(text string) Stats {
	s := Stats{Lines: 1}

	var (
		inWord       bool
		inParagraph  bool
		runNewlines  int  // \n seen in the current whitespace run
		afterCR      bool // previous rune was \r
		pendingPunct bool // inside a run of . ! ?
		sentenceText bool // current sentence segment has non-blank content
	)

	for _, r := range text {
		s.Letters++

		switch r {
		case '\r':
			s.Lines++
		case '\n':
			if !afterCR {
				s.Lines++
			}
		}
		afterCR = r == '\r'

		if isSpace(r) {
			inWord = false
			if r == '\n' {
				runNewlines++
				if runNewlines >= 2 {
					inParagraph = false
				}
			}
			if pendingPunct {
				// Punctuation run plus this whitespace rune is a boundary.
				if sentenceText {
					s.Sentences++
				}
				sentenceText = false
				pendingPunct = false
			}
			continue
		}

		if !inWord {
			s.Words++
			inWord = true
		}
		if !inParagraph {
			s.Paragraphs++
			inParagraph = true
		}
		runNewlines = 0

		if r == '.' || r == '!' || r == '?' {
			pendingPunct = true
			continue
		}
		if pendingPunct {
			// Run not followed by whitespace stays part of the sentence.
			pendingPunct = false
		}
		sentenceText = true
	}

	if pendingPunct {
		sentenceText = true
	}
	if sentenceText {
		s.Sentences++
	}

	s.ReadingTimeMinutes = ReadingTime(s.Words)
	return s
}

// ReadingTime returns the minutes needed to read words at WordsPerMinute,
// rounded up to a whole minute.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

// isSpace reports whether r is whitespace in the ECMAScript sense: Unicode
// White_Space without U+0085, plus the byte order mark.
func isSpace(r rune) bool {
	switch r {
	case '\u0085':
		return false
	case '\uFEFF':
		return true
	}
	return unicode.IsSpace(r)
}
