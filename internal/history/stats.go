package history

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/todmy/code-reviewer/pkg/models"
)

// Stats summarizes a history list
type Stats struct {
	TotalReviews int            `json:"totalReviews"`
	AverageScore float64        `json:"averageScore"`
	MinScore     float64        `json:"minScore"`
	MaxScore     float64        `json:"maxScore"`
	ScoreStdDev  float64        `json:"scoreStdDev"`
	TotalIssues  int            `json:"totalIssues"`
	ByReviewType map[string]int `json:"byReviewType"`
	ByLanguage   map[string]int `json:"byLanguage"`
}

// Stats computes score and issue statistics over the current list
func (s *Store) Stats() Stats {
	return ComputeStats(s.Items())
}

// ComputeStats summarizes items. The standard deviation needs at least two scores.
func ComputeStats(items []models.HistoryItem) Stats {
	st := Stats{
		TotalReviews: len(items),
		ByReviewType: make(map[string]int),
		ByLanguage:   make(map[string]int),
	}
	if len(items) == 0 {
		return st
	}

	scores := make([]float64, len(items))
	for i, item := range items {
		scores[i] = item.ReviewResult.Score
		st.TotalIssues += item.ReviewResult.Summary.TotalIssues
		st.ByReviewType[item.ReviewType]++
		st.ByLanguage[item.Language]++
	}

	st.AverageScore = stat.Mean(scores, nil)
	st.MinScore = floats.Min(scores)
	st.MaxScore = floats.Max(scores)
	if len(scores) > 1 {
		st.ScoreStdDev = stat.StdDev(scores, nil)
	}

	return st
}
