package history

import (
	"time"

	"github.com/todmy/code-reviewer/pkg/models"
)

// SampleItems is the history shown to a user whose storage holds nothing
// usable yet. A fresh slice is returned on every call.
func SampleItems() []models.HistoryItem {
	return []models.HistoryItem{
		{
			ID:       "sample-1",
			Filename: "auth.js",
			Language: "javascript",
			ReviewResult: models.ReviewResult{
				Score:   72,
				Summary: models.ReviewSummary{TotalIssues: 2, Critical: 1, Warning: 1},
				Suggestions: []models.ReviewSuggestion{
					{
						ID:          "suggestion-1",
						Type:        models.SuggestionSecurity,
						Severity:    models.SeverityHigh,
						Line:        14,
						Title:       "Token stored in localStorage",
						Description: "Access tokens in localStorage are readable by any injected script.",
						Suggestion:  "Keep the token in an httpOnly cookie.",
					},
					{
						ID:          "suggestion-2",
						Type:        models.SuggestionBug,
						Severity:    models.SeverityMedium,
						Line:        31,
						Title:       "Unhandled promise rejection",
						Description: "The login request has no catch handler.",
						Suggestion:  "Wrap the await in try/catch and surface the error.",
						CanAutoFix:  true,
					},
				},
				Metadata: &models.ReviewMetadata{
					ReviewType: "security",
					Language:   "javascript",
					Model:      "gpt-4o-mini",
					Timestamp:  "2026-01-12T10:15:00.000Z",
					TokensUsed: 1184,
				},
			},
			Timestamp:  time.Date(2026, 1, 12, 10, 15, 0, 0, time.UTC),
			FileSize:   3482,
			ReviewType: "security",
		},
		{
			ID:       "sample-2",
			Filename: "utils.py",
			Language: "python",
			ReviewResult: models.ReviewResult{
				Score:   88,
				Summary: models.ReviewSummary{TotalIssues: 1, Info: 1},
				Suggestions: []models.ReviewSuggestion{
					{
						ID:          "suggestion-1",
						Type:        models.SuggestionStyle,
						Severity:    models.SeverityLow,
						Line:        5,
						Title:       "Missing type hints",
						Description: "Public helpers have no annotations.",
						Suggestion:  "Annotate parameters and return values.",
						CodeExample: models.CodeExample{
							Before: "def slugify(value):",
							After:  "def slugify(value: str) -> str:",
						},
						CanAutoFix: true,
					},
				},
				Metadata: &models.ReviewMetadata{
					ReviewType: "quality",
					Language:   "python",
					Model:      "gpt-4o-mini",
					Timestamp:  "2026-01-11T16:40:00.000Z",
					TokensUsed: 742,
				},
			},
			Timestamp:  time.Date(2026, 1, 11, 16, 40, 0, 0, time.UTC),
			FileSize:   1290,
			ReviewType: "quality",
		},
		{
			ID:       "sample-3",
			Filename: "QueryBuilder.java",
			Language: "java",
			ReviewResult: models.ReviewResult{
				Score:   64,
				Summary: models.ReviewSummary{TotalIssues: 2, Warning: 2},
				Suggestions: []models.ReviewSuggestion{
					{
						ID:          "suggestion-1",
						Type:        models.SuggestionPerformance,
						Severity:    models.SeverityMedium,
						Line:        48,
						Title:       "String concatenation in loop",
						Description: "Each iteration allocates a new String.",
						Suggestion:  "Use a StringBuilder.",
					},
					{
						ID:          "suggestion-2",
						Type:        models.SuggestionPerformance,
						Severity:    models.SeverityMedium,
						Line:        72,
						Title:       "N+1 query",
						Description: "A query runs for every row of the outer result.",
						Suggestion:  "Fetch related rows with a single join.",
					},
				},
				Metadata: &models.ReviewMetadata{
					ReviewType: "performance",
					Language:   "java",
					Model:      "gpt-4o-mini",
					Timestamp:  "2026-01-10T08:05:00.000Z",
					TokensUsed: 1530,
				},
			},
			Timestamp:  time.Date(2026, 1, 10, 8, 5, 0, 0, time.UTC),
			FileSize:   6120,
			ReviewType: "performance",
		},
	}
}
