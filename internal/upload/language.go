package upload

import "strings"

// LanguageText is reported for extensions outside the table
const LanguageText = "text"

var extensionLanguages = map[string]string{
	"js":    "javascript",
	"jsx":   "javascript",
	"mjs":   "javascript",
	"ts":    "typescript",
	"tsx":   "typescript",
	"py":    "python",
	"java":  "java",
	"go":    "go",
	"rb":    "ruby",
	"php":   "php",
	"c":     "c",
	"h":     "c",
	"cpp":   "cpp",
	"cc":    "cpp",
	"hpp":   "cpp",
	"cs":    "csharp",
	"rs":    "rust",
	"swift": "swift",
	"kt":    "kotlin",
	"scala": "scala",
	"sql":   "sql",
	"sh":    "bash",
	"html":  "html",
	"css":   "css",
	"scss":  "scss",
	"vue":   "vue",
	"json":  "json",
	"yaml":  "yaml",
	"yml":   "yaml",
	"xml":   "xml",
	"md":    "markdown",
}

// DetectLanguage maps a file extension (with or without the dot) to a language label
func DetectLanguage(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	return LanguageText
}

// LanguageForFilename is DetectLanguage applied to name's extension
func LanguageForFilename(name string) string {
	return DetectLanguage(Extension(name))
}

// SupportedExtension reports whether ext can be reviewed
func SupportedExtension(ext string) bool {
	_, ok := extensionLanguages[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok
}
