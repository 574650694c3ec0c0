package ai

import "strings"

// ExtractJSON pulls the first brace-delimited object out of a model reply.
// Replies often wrap the JSON in prose or markdown fences, so everything
// before the first '{' and after the last '}' is discarded. Returns false
// when no object is present.
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
