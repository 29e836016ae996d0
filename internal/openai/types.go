package openai

// Chat message roles
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ResponseFormatJSONObject forces the model to emit a single JSON object
const ResponseFormatJSONObject = "json_object"

// ChatMessage is a single prompt message
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat constrains the completion output
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatRequest represents a request to the chat completions endpoint.
// Sampling fields are not omitempty: zero penalties are sent explicitly.
type ChatRequest struct {
	Model            string          `json:"model"`
	Messages         []ChatMessage   `json:"messages"`
	Temperature      float64         `json:"temperature"`
	MaxTokens        int             `json:"max_tokens"`
	TopP             float64         `json:"top_p"`
	FrequencyPenalty float64         `json:"frequency_penalty"`
	PresencePenalty  float64         `json:"presence_penalty"`
	ResponseFormat   *ResponseFormat `json:"response_format,omitempty"`
}

// ChatResponse represents the API response
type ChatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// ChatChoice represents a single completion choice
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage represents token usage information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the distilled result of a chat completion call
type Completion struct {
	Content    string
	Model      string
	TokensUsed int
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}
