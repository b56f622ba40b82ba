package llm

import "strings"

// ExtractJSON pulls the first JSON object out of a completion. Models
// occasionally wrap their JSON in markdown fences or prose; taking the
// span from the first '{' to the last '}' recovers it. Returns "" when
// no object is present.
func ExtractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}
