package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// SuggestionType classifies a single review suggestion
type SuggestionType string

const (
	SuggestionBug         SuggestionType = "bug"
	SuggestionPerformance SuggestionType = "performance"
	SuggestionStyle       SuggestionType = "style"
	SuggestionSecurity    SuggestionType = "security"
	SuggestionDocs        SuggestionType = "docs"
	SuggestionInfo        SuggestionType = "info"
)

// Severity is kept as a free-form string: the model also emits values such as
// "critical", "opportunity" or "enhancement" alongside high/medium/low.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// FlexibleID accepts either a JSON string or a JSON number.
// Models are inconsistent about which one they emit for suggestion ids.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FlexibleID(n.String())
	return nil
}

// IDFromIndex builds a stable id for suggestions the model left unnamed
func IDFromIndex(i int) FlexibleID {
	return FlexibleID("suggestion-" + strconv.Itoa(i+1))
}

// CodeExample pairs the offending snippet with its fix
type CodeExample struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// ReviewSuggestion is one discrete issue returned by the language model
type ReviewSuggestion struct {
	ID          FlexibleID     `json:"id"`
	Type        SuggestionType `json:"type"`
	Severity    Severity       `json:"severity"`
	Line        int            `json:"line"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Suggestion  string         `json:"suggestion"`
	CodeExample CodeExample    `json:"codeExample"`
	CanAutoFix  bool           `json:"canAutoFix"`
}

// ReviewSummary holds aggregate counts as reported by the model.
// The counts are not reconciled against Suggestions.
type ReviewSummary struct {
	TotalIssues int `json:"totalIssues"`
	Critical    int `json:"critical"`
	Warning     int `json:"warning"`
	Info        int `json:"info"`
}

// ReviewMetadata describes how a result was produced
type ReviewMetadata struct {
	ReviewType string `json:"reviewType"`
	Language   string `json:"language"`
	Model      string `json:"model"`
	Timestamp  string `json:"timestamp"`
	TokensUsed int    `json:"tokensUsed"`
	Fallback   bool   `json:"fallback,omitempty"`
}

// ReviewResult is the normalized output of one review call. Score is on a 0-100 scale.
type ReviewResult struct {
	Score       float64            `json:"score"`
	Summary     ReviewSummary      `json:"summary"`
	Suggestions []ReviewSuggestion `json:"suggestions"`
	Metadata    *ReviewMetadata    `json:"metadata,omitempty"`
}

// ScoreOutOfTen rescales Score for views that display "x/10".
func (r ReviewResult) ScoreOutOfTen() float64 {
	return r.Score / 10
}

// Clone returns a deep copy so history items never share slices with the caller.
func (r ReviewResult) Clone() ReviewResult {
	out := r
	if r.Suggestions != nil {
		out.Suggestions = make([]ReviewSuggestion, len(r.Suggestions))
		copy(out.Suggestions, r.Suggestions)
	}
	if r.Metadata != nil {
		meta := *r.Metadata
		out.Metadata = &meta
	}
	return out
}

// HistoryItem pairs an uploaded file with the review produced for it
type HistoryItem struct {
	ID           string       `json:"id"`
	Filename     string       `json:"filename"`
	Language     string       `json:"language"`
	ReviewResult ReviewResult `json:"reviewResult"`
	Timestamp    time.Time    `json:"timestamp"`
	FileSize     int64        `json:"fileSize"`
	ReviewType   string       `json:"reviewType"`
}
