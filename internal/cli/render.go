package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/todmy/code-reviewer/internal/upload"
	"github.com/todmy/code-reviewer/pkg/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(2)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 80:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	case score >= 60:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	}
}

func severityStyle(s models.Severity) lipgloss.Style {
	switch strings.ToLower(string(s)) {
	case "high", "critical":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	case "medium", "warning":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	}
}

// renderResult formats a review for the terminal
func renderResult(result models.ReviewResult, files []upload.File, limits upload.Limits) string {
	var b strings.Builder

	header := []string{
		titleStyle.Render("Code review"),
		labelStyle.Render("Score: ") + scoreStyle(result.Score).Render(fmt.Sprintf("%.1f/10", result.ScoreOutOfTen())),
		labelStyle.Render("Issues: ") + textStyle.Render(fmt.Sprintf("%d total, %d critical, %d warning, %d info",
			result.Summary.TotalIssues, result.Summary.Critical, result.Summary.Warning, result.Summary.Info)),
	}
	if meta := result.Metadata; meta != nil {
		header = append(header, mutedStyle.Render(fmt.Sprintf("%s · %s · %s · %d tokens",
			meta.ReviewType, meta.Language, meta.Model, meta.TokensUsed)))
		if meta.Fallback {
			header = append(header, warningStyle.Render("The model response was not valid JSON; showing raw output."))
		}
	}
	b.WriteString(boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header...)))
	b.WriteString("\n\n")

	sizeOpts := upload.SizeOptions{
		ShowIndicator:        true,
		Limit:                limits.MaxFileSize,
		CompressionThreshold: limits.CompressionThreshold,
	}
	for _, f := range files {
		fmt.Fprintf(&b, "%s %s\n", textStyle.Render(f.Name), mutedStyle.Render(upload.FormatFileSize(f.Size, sizeOpts)))
	}
	if len(files) > 0 {
		b.WriteString("\n")
	}

	if len(result.Suggestions) == 0 {
		b.WriteString(mutedStyle.Render("No suggestions."))
		b.WriteString("\n")
		return b.String()
	}

	for i, s := range result.Suggestions {
		sev := severityStyle(s.Severity).Render(strings.ToUpper(string(s.Severity)))
		fmt.Fprintf(&b, "%d. %s %s %s\n", i+1, sev, titleStyle.Render(s.Title),
			mutedStyle.Render(fmt.Sprintf("[%s, line %d]", s.Type, s.Line)))
		if s.Description != "" {
			fmt.Fprintf(&b, "   %s\n", textStyle.Render(s.Description))
		}
		if s.Suggestion != "" {
			fmt.Fprintf(&b, "   %s%s\n", labelStyle.Render("Fix: "), textStyle.Render(s.Suggestion))
		}
		if s.CodeExample.Before != "" || s.CodeExample.After != "" {
			fmt.Fprintf(&b, "   %s\n%s\n", labelStyle.Render("Before:"), codeStyle.Render(s.CodeExample.Before))
			fmt.Fprintf(&b, "   %s\n%s\n", labelStyle.Render("After:"), codeStyle.Render(s.CodeExample.After))
		}
		if s.CanAutoFix {
			fmt.Fprintf(&b, "   %s\n", mutedStyle.Render("auto-fixable"))
		}
		b.WriteString("\n")
	}

	return b.String()
}
