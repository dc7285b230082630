package ops

import (
	"context"
	"database/sql"

	"github.com/notetxt/notetxt/internal/langdetect"
	"github.com/notetxt/notetxt/internal/textmetrics"
)

// SummaryInput contains parameters for the Summary operation.
type SummaryInput struct {
	Text           *string // nil means the stored draft
	DetectLanguage bool
}

// SummaryOutput is the "Note Summary" of a text.
type SummaryOutput struct {
	Stats    textmetrics.Stats  `json:"stats"`
	Items    []textmetrics.Item `json:"items"`
	Language string             `json:"language,omitempty"`
}

// Summary computes the statistics of a text.
func Summary(ctx context.Context, database *sql.DB, input SummaryInput) (*SummaryOutput, error) {
	if err := checkCancelled(ctx, "summary"); err != nil {
		return nil, err
	}
	text, err := textOrDraft(ctx, database, input.Text)
	if err != nil {
		return nil, err
	}

	stats := textmetrics.Compute(text)
	out := &SummaryOutput{
		Stats: stats,
		Items: textmetrics.Items(stats),
	}

	if input.DetectLanguage {
		if err := checkCancelled(ctx, "summary"); err != nil {
			return nil, err
		}
		if code, ok := langdetect.Detect(text); ok {
			out.Language = code
		}
	}

	return out, nil
}
