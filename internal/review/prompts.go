package review

import (
	"fmt"
	"strings"
)

// Review types
const (
	TypeQuality       = "quality"
	TypeSecurity      = "security"
	TypeBestPractices = "best-practices"
	TypePerformance   = "performance"
)

// Template is a named prompt profile
type Template struct {
	Label  string
	System string
	User   func(code, language string) string
}

// TypeInfo describes a review type for listing
type TypeInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

const responseContract = `Respond with ONLY a JSON object. No markdown, no explanation, no preamble.

The object must have this exact structure:
{
  "score": 0-100,
  "summary": {"totalIssues": 0, "critical": 0, "warning": 0, "info": 0},
  "suggestions": [
    {
      "id": "unique id",
      "type": "bug|performance|style|security|docs|info",
      "severity": "high|medium|low",
      "line": 1,
      "title": "Short descriptive title",
      "description": "What is wrong and why it matters",
      "suggestion": "How to fix it",
      "codeExample": {"before": "current code", "after": "improved code"},
      "canAutoFix": false
    }
  ]
}

If there are no issues, return an empty suggestions array and a high score.`

var templates = map[string]Template{
	TypeQuality: {
		Label: "Code Quality",
		System: `You are a senior software engineer performing a thorough code quality review.
Focus on bugs, readability, maintainability, naming, error handling and structure.
` + responseContract,
		User: func(code, language string) string {
			return userPrompt("Review the following %s code for overall quality.", code, language)
		},
	},
	TypeSecurity: {
		Label: "Security Audit",
		System: `You are an application security expert auditing source code.
Focus on injection, authentication and authorization flaws, secrets in code, unsafe deserialization,
input validation and insecure dependencies. Use severity "high" for exploitable issues.
` + responseContract,
		User: func(code, language string) string {
			return userPrompt("Audit the following %s code for security vulnerabilities.", code, language)
		},
	},
	TypeBestPractices: {
		Label: "Best Practices",
		System: `You are an expert reviewer checking code against the idioms and best practices of its language.
Focus on idiomatic usage, documentation, testing seams and conventions of the ecosystem.
` + responseContract,
		User: func(code, language string) string {
			return userPrompt("Check the following %s code against established best practices.", code, language)
		},
	},
	TypePerformance: {
		Label: "Performance",
		System: `You are a performance engineer reviewing source code.
Focus on algorithmic complexity, unnecessary allocations, blocking I/O, caching opportunities and hot loops.
` + responseContract,
		User: func(code, language string) string {
			return userPrompt("Analyze the following %s code for performance problems.", code, language)
		},
	},
}

// typeOrder fixes the listing order
var typeOrder = []string{TypeQuality, TypeSecurity, TypeBestPractices, TypePerformance}

// LookupTemplate returns the template for reviewType or ErrInvalidReviewType
func LookupTemplate(reviewType string) (Template, error) {
	tmpl, ok := templates[reviewType]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrInvalidReviewType, reviewType)
	}
	return tmpl, nil
}

// ValidType reports whether reviewType is known
func ValidType(reviewType string) bool {
	_, ok := templates[reviewType]
	return ok
}

// Types lists the known review types
func Types() []TypeInfo {
	out := make([]TypeInfo, 0, len(typeOrder))
	for _, key := range typeOrder {
		out = append(out, TypeInfo{Key: key, Label: templates[key].Label})
	}
	return out
}

func userPrompt(instruction, code, language string) string {
	if language == "" {
		language = "source"
	}

	var b strings.Builder
	fmt.Fprintf(&b, instruction, language)
	b.WriteString("\n\nLanguage: ")
	b.WriteString(language)
	b.WriteString("\n\n--- BEGIN CODE ---\n")
	b.WriteString(code)
	b.WriteString("\n--- END CODE ---\n")
	return b.String()
}
