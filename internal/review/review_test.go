package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todmy/code-reviewer/internal/openai"
	"github.com/todmy/code-reviewer/internal/upload"
	"github.com/todmy/code-reviewer/pkg/models"
)

type fakeCompleter struct {
	content  string
	model    string
	tokens   int
	err      error
	pingErr  error
	calls    int
	requests []openai.ChatRequest
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatRequest) (*openai.Completion, error) {
	f.calls++
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &openai.Completion{Content: f.content, Model: f.model, TokensUsed: f.tokens}, nil
}

func (f *fakeCompleter) Ping(ctx context.Context) error {
	return f.pingErr
}

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestService(fc *fakeCompleter) *Service {
	return NewService(fc, Params{Model: "gpt-4o-mini", MaxTokens: 1500, Temperature: 0.2},
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestTypes(t *testing.T) {
	types := Types()
	require.Len(t, types, 4)
	assert.Equal(t, TypeQuality, types[0].Key)
	for _, ti := range types {
		assert.True(t, ValidType(ti.Key))
		assert.NotEmpty(t, ti.Label)
	}
	assert.False(t, ValidType("style"))
}

func TestBuildRequest(t *testing.T) {
	req, err := BuildRequest(TypeSecurity, "SELECT * FROM users WHERE id = ' + id", "javascript", Params{Model: "gpt-4o", MaxTokens: 900, Temperature: 0.7})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", req.Model)
	assert.Equal(t, 900, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.Equal(t, 1.0, req.TopP)
	assert.Zero(t, req.FrequencyPenalty)
	assert.Zero(t, req.PresencePenalty)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, openai.ResponseFormatJSONObject, req.ResponseFormat.Type)

	require.Len(t, req.Messages, 2)
	assert.Equal(t, openai.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "security")
	assert.Equal(t, openai.RoleUser, req.Messages[1].Role)
	assert.Contains(t, req.Messages[1].Content, "javascript")
	assert.Contains(t, req.Messages[1].Content, "SELECT * FROM users")
}

func TestBuildRequest_InvalidType(t *testing.T) {
	_, err := BuildRequest("nonsense", "code", "go", DefaultParams())
	assert.ErrorIs(t, err, ErrInvalidReviewType)
}

func TestNormalize_ValidJSON(t *testing.T) {
	raw := `  {"score": 82.5, "summary": {"totalIssues": 2, "critical": 1, "warning": 1, "info": 0},
		"suggestions": [
			{"id": 7, "type": "bug", "severity": "critical", "line": 3, "title": "Nil map", "description": "d", "suggestion": "s",
			 "codeExample": {"before": "var m map[string]int", "after": "m := map[string]int{}"}, "canAutoFix": true},
			{"type": "style", "severity": "low", "line": 9, "title": "Naming"}
		]}  `
	meta := models.ReviewMetadata{ReviewType: TypeQuality, Language: "go", Model: "m", Timestamp: "t", TokensUsed: 42}

	result := Normalize(raw, meta)

	assert.InDelta(t, 82.5, result.Score, 1e-9)
	assert.Equal(t, 2, result.Summary.TotalIssues)
	require.Len(t, result.Suggestions, 2)
	assert.Equal(t, models.FlexibleID("7"), result.Suggestions[0].ID)
	assert.Equal(t, models.Severity("critical"), result.Suggestions[0].Severity)
	assert.True(t, result.Suggestions[0].CanAutoFix)
	assert.Equal(t, models.FlexibleID("suggestion-2"), result.Suggestions[1].ID)
	require.NotNil(t, result.Metadata)
	assert.False(t, result.Metadata.Fallback)
	assert.Equal(t, 42, result.Metadata.TokensUsed)
	assert.Equal(t, "go", result.Metadata.Language)
}

func TestNormalize_EmptyText(t *testing.T) {
	result := Normalize("   ", models.ReviewMetadata{})
	assert.Zero(t, result.Score)
	assert.NotNil(t, result.Suggestions)
	assert.Empty(t, result.Suggestions)
	require.NotNil(t, result.Metadata)
	assert.False(t, result.Metadata.Fallback)
}

func TestNormalize_Fallback(t *testing.T) {
	inputs := []string{
		"Sorry, I cannot help with that.",
		`{"score": 90, "suggestions": [`,
		`[1, 2, 3]`,
		`{"score": "ninety"}`,
		strings.Repeat("ж", 500),
	}

	for _, raw := range inputs {
		t.Run(fmt.Sprintf("%.20s", raw), func(t *testing.T) {
			result := Normalize(raw, models.ReviewMetadata{ReviewType: TypeQuality})

			assert.Equal(t, 5.0, result.Score)
			require.Len(t, result.Suggestions, 1)
			require.NotNil(t, result.Metadata)
			assert.True(t, result.Metadata.Fallback)
			assert.Equal(t, TypeQuality, result.Metadata.ReviewType)

			text := result.Suggestions[0].Suggestion
			assert.LessOrEqual(t, len([]rune(text)), 203)
			assert.True(t, strings.HasPrefix(raw, strings.TrimSuffix(text, "...")))
		})
	}
}

func TestService_ReviewCode(t *testing.T) {
	fc := &fakeCompleter{
		content: `{"score": 77, "summary": {"totalIssues": 0}, "suggestions": []}`,
		model:   "gpt-4o-mini-2024-07-18",
		tokens:  321,
	}
	svc := newTestService(fc)

	result, err := svc.ReviewCode(context.Background(), TypeBestPractices, "print('hi')", "python")
	require.NoError(t, err)

	assert.Equal(t, 77.0, result.Score)
	require.NotNil(t, result.Metadata)
	assert.Equal(t, TypeBestPractices, result.Metadata.ReviewType)
	assert.Equal(t, "python", result.Metadata.Language)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", result.Metadata.Model)
	assert.Equal(t, "2026-03-14T09:26:53.000Z", result.Metadata.Timestamp)
	assert.Equal(t, 321, result.Metadata.TokensUsed)

	require.Len(t, fc.requests, 1)
	assert.Equal(t, 1500, fc.requests[0].MaxTokens)
}

func TestService_ReviewCode_InvalidTypeMakesNoCall(t *testing.T) {
	for _, reviewType := range []string{"", "QUALITY", "style", "all"} {
		fc := &fakeCompleter{}
		svc := newTestService(fc)

		_, err := svc.ReviewCode(context.Background(), reviewType, "x", "go")
		assert.ErrorIs(t, err, ErrInvalidReviewType)
		assert.Zero(t, fc.calls)

		_, err = svc.ReviewFiles(context.Background(), reviewType, []upload.File{upload.NewFile("a.go", []byte("x"))}, "")
		assert.ErrorIs(t, err, ErrInvalidReviewType)
		assert.Zero(t, fc.calls)
	}
}

func TestService_ReviewCode_MalformedResponse(t *testing.T) {
	fc := &fakeCompleter{content: "not json at all", model: "m"}
	svc := newTestService(fc)

	result, err := svc.ReviewCode(context.Background(), TypeQuality, "x", "go")
	require.NoError(t, err)
	assert.True(t, result.Metadata.Fallback)
	assert.Len(t, result.Suggestions, 1)
}

func TestService_ReviewCode_ErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "quota message", err: errors.New("You exceeded your current quota"), want: ErrQuotaExceeded},
		{name: "quota type", err: &openai.APIError{StatusCode: http.StatusTooManyRequests, Type: "insufficient_quota", Message: "x"}, want: ErrQuotaExceeded},
		{name: "invalid key message", err: errors.New("Invalid API key provided"), want: ErrInvalidAPIKey},
		{name: "unauthorized status", err: &openai.APIError{StatusCode: http.StatusUnauthorized, Message: "Incorrect API key provided: sk-***"}, want: ErrInvalidAPIKey},
		{name: "generic", err: errors.New("dial tcp: connection refused"), want: ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCompleter{err: tt.err}
			svc := newTestService(fc)

			_, err := svc.ReviewCode(context.Background(), TypeQuality, "x", "go")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, fc.calls)
		})
	}
}

func TestService_ReviewFiles(t *testing.T) {
	fc := &fakeCompleter{content: `{"score": 60}`, model: "m"}
	svc := newTestService(fc)

	files := []upload.File{
		upload.NewFile("main.go", []byte("package main")),
		upload.NewFile("util.go", []byte("package util")),
	}

	result, err := svc.ReviewFiles(context.Background(), TypeQuality, files, "")
	require.NoError(t, err)
	assert.Equal(t, "go", result.Metadata.Language)

	user := fc.requests[0].Messages[1].Content
	assert.Contains(t, user, "// File: main.go\npackage main")
	assert.Contains(t, user, "// File: util.go\npackage util")

	files = append(files, upload.NewFile("app.py", []byte("pass")))
	result, err = svc.ReviewFiles(context.Background(), TypeQuality, files, "")
	require.NoError(t, err)
	assert.Equal(t, LanguageMixed, result.Metadata.Language)

	_, err = svc.ReviewFiles(context.Background(), TypeQuality, nil, "")
	assert.ErrorIs(t, err, upload.ErrNoFiles)
}

func TestService_CheckConnection(t *testing.T) {
	fc := &fakeCompleter{}
	svc := newTestService(fc)

	status := svc.CheckConnection(context.Background())
	assert.True(t, status.Connected)
	assert.Equal(t, "gpt-4o-mini", status.Model)

	fc.pingErr = &openai.APIError{StatusCode: http.StatusUnauthorized, Message: "bad key"}
	status = svc.CheckConnection(context.Background())
	assert.False(t, status.Connected)
	assert.Contains(t, status.Error, "Invalid OpenAI API key")
}
