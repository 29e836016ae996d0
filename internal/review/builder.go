package review

import (
	"github.com/todmy/code-reviewer/internal/openai"
)

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.3
)

// Params are the sampling parameters shared by every review request
type Params struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// DefaultParams returns stock sampling parameters
func DefaultParams() Params {
	return Params{
		Model:       DefaultModel,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Model == "" {
		p.Model = d.Model
	}
	if p.MaxTokens <= 0 {
		p.MaxTokens = d.MaxTokens
	}
	return p
}

// BuildRequest produces the two-message chat request for a review.
// Unknown review types fail before anything is sent.
func BuildRequest(reviewType, code, language string, params Params) (openai.ChatRequest, error) {
	tmpl, err := LookupTemplate(reviewType)
	if err != nil {
		return openai.ChatRequest{}, err
	}

	params = params.withDefaults()

	return openai.ChatRequest{
		Model: params.Model,
		Messages: []openai.ChatMessage{
			{Role: openai.RoleSystem, Content: tmpl.System},
			{Role: openai.RoleUser, Content: tmpl.User(code, language)},
		},
		Temperature:      params.Temperature,
		MaxTokens:        params.MaxTokens,
		TopP:             1,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
		ResponseFormat:   &openai.ResponseFormat{Type: openai.ResponseFormatJSONObject},
	}, nil
}
