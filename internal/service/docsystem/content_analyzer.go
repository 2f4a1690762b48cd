package docsystem

import (
	"strings"
	"unicode"

	"medidoc/internal/domain/services"
)

type contentAnalyzerService struct{}

// NewContentAnalyzer creates a new content analyzer service
func NewContentAnalyzer() services.ContentAnalyzer {
	return &contentAnalyzerService{}
}

// CountWords counts whitespace-separated tokens in the raw content.
// The stored WordCount invariant is defined over the raw body, markdown
// markers included, so no cleanup happens here.
func (s *contentAnalyzerService) CountWords(content string) int {
	return len(strings.Fields(content))
}

var inlineMarkers = strings.NewReplacer(
	"`", "",
	"**", "",
	"*", "",
	"__", "",
	"_", "",
	"~~", "",
	"#", "",
	">", "",
	"---", "",
)

// CleanMarkdown strips markdown syntax, leaving plain prose. Used for
// plain-text display, not for word counting.
func (s *contentAnalyzerService) CleanMarkdown(content string) string {
	text := removeCodeBlocks(content)

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, stripListMarker(strings.TrimSpace(line)))
	}

	return inlineMarkers.Replace(strings.Join(cleaned, " "))
}

// stripListMarker removes bullet and numbered-list prefixes from a line.
func stripListMarker(line string) string {
	if strings.HasPrefix(line, "- ") {
		return strings.TrimPrefix(line, "- ")
	}
	if strings.HasPrefix(line, "* ") {
		return strings.TrimPrefix(line, "* ")
	}
	// Numbered list markers like "1. " or "12. "
	i := 0
	for i < len(line) && unicode.IsDigit(rune(line[i])) {
		i++
	}
	if i > 0 && i+1 < len(line) && line[i] == '.' && line[i+1] == ' ' {
		return line[i+2:]
	}
	return line
}

// removeCodeBlocks strips fenced ```...``` blocks.
func removeCodeBlocks(text string) string {
	for {
		start := strings.Index(text, "```")
		if start == -1 {
			return text
		}
		end := strings.Index(text[start+3:], "```")
		if end == -1 {
			return text
		}
		text = text[:start] + text[start+end+6:]
	}
}
