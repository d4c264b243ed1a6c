package telegram

import "strings"

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"`", "\\`",
)

// escapeMarkdown escapes the legacy Markdown entity characters in free text.
func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

// code wraps value in inline code. Legacy Markdown cannot escape a backtick
// inside code, so any are replaced.
func code(value string) string {
	return "`" + strings.ReplaceAll(value, "`", "'") + "`"
}
