package textmetrics

import "strconv"

// Item is one labelled statistic as shown in the note summary.
type Item struct {
	Label       string `json:"label"`
	Value       int    `json:"value"`
	Display     string `json:"display"`
	Description string `json:"description"`
}

// Items returns the summary rows for s in display order.
func Items(s Stats) []Item {
	return []Item{
		count("Letters", s.Letters, "The total number of letters in the note, also including empty spaces."),
		count("Words", s.Words, "The total number of words in the note, separated by at least one space."),
		count("Lines", s.Lines, "The total number of lines in the note, including empty lines."),
		count("Paragraphs", s.Paragraphs, "The total number of paragraphs in the note, separated by at least one blank line."),
		count("Sentences", s.Sentences, "The total number of sentences in the note, separated by sentence-ending punctuation."),
		{
			Label:       "Time to Read",
			Value:       s.ReadingTimeMinutes,
			Display:     strconv.Itoa(s.ReadingTimeMinutes) + " minutes",
			Description: "The estimated time it takes to read the note at an average speed of 200 words per minute.",
		},
	}
}

func count(label string, n int, description string) Item {
	return Item{
		Label:       label,
		Value:       n,
		Display:     strconv.Itoa(n),
		Description: description,
	}
}
