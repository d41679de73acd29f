package utils

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// CleanMarkdown strips the outer code fence a model tends to wrap its answer
// in, leaving plain markdown.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)
	for _, prefix := range []string{"```markdown", "```json", "```"} {
		if strings.HasPrefix(cleaned, prefix) && strings.HasSuffix(cleaned, "```") {
			cleaned = strings.TrimPrefix(cleaned, prefix)
			cleaned = strings.TrimSuffix(cleaned, "```")
			return strings.TrimSpace(cleaned)
		}
	}
	return cleaned
}

// ValidateMarkdown reports whether the input parses as markdown. Goldmark is
// permissive, so this only rejects pathological input.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	return parser.Parse(reader) != nil
}
