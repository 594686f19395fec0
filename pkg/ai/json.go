package ai

import (
	"encoding/json"
	"strings"
)

// ParseJSON decodes model output into T. It strips Markdown code fences, tries a
// strict decode, then retries on the outermost object or array in the text.
// Any failure yields fallback.
func ParseJSON[T any](raw string, fallback T) T {
	text := StripFences(raw)
	if text == "" {
		return fallback
	}

	var out T
	if err := json.Unmarshal([]byte(text), &out); err == nil {
		return out
	}

	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(text, pair[0])
		end := strings.LastIndexByte(text, pair[1])
		if start < 0 || end <= start {
			continue
		}
		var retry T
		if err := json.Unmarshal([]byte(text[start:end+1]), &retry); err == nil {
			return retry
		}
	}
	return fallback
}

// StripFences removes a surrounding ``` or ```json fence.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the info string, e.g. "json"
		if !strings.ContainsAny(s[:nl], "{[") {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
