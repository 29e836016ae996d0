package review

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/todmy/code-reviewer/pkg/models"
)

const (
	fallbackScore        = 5
	fallbackPreviewRunes = 200
	timestampLayout      = "2006-01-02T15:04:05.000Z07:00"
)

// Normalize converts the raw completion text into a ReviewResult.
// It never fails: unparseable text yields a fallback result flagged in metadata.
func Normalize(raw string, meta models.ReviewMetadata) models.ReviewResult {
	text := strings.TrimSpace(raw)
	if text == "" {
		text = "{}"
	}

	var result models.ReviewResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return fallbackResult(raw, meta)
	}

	if result.Suggestions == nil {
		result.Suggestions = []models.ReviewSuggestion{}
	}
	for i := range result.Suggestions {
		if result.Suggestions[i].ID == "" {
			result.Suggestions[i].ID = models.IDFromIndex(i)
		}
	}

	meta.Fallback = false
	result.Metadata = &meta

	return result
}

func fallbackResult(raw string, meta models.ReviewMetadata) models.ReviewResult {
	meta.Fallback = true

	return models.ReviewResult{
		Score: fallbackScore,
		Summary: models.ReviewSummary{
			TotalIssues: 1,
			Info:        1,
		},
		Suggestions: []models.ReviewSuggestion{{
			ID:          "fallback-1",
			Type:        models.SuggestionInfo,
			Severity:    models.SeverityLow,
			Line:        1,
			Title:       "Review completed",
			Description: "The review finished but the response was not in the expected format.",
			Suggestion:  preview(raw, fallbackPreviewRunes),
		}},
		Metadata: &meta,
	}
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
