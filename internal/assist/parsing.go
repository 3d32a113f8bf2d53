package assist

import (
	"encoding/json"
	"strings"
)

// ExtractJSON extracts a JSON object from a model reply. It handles
// markdown code blocks with json language tags.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)

	// Try to unescape if the string contains escaped characters
	// (e.g., when content comes from JSON with escaped newlines)
	if strings.Contains(s, "\\n") || strings.Contains(s, "\\\"") {
		var unescaped string
		if err := json.Unmarshal([]byte(s), &unescaped); err == nil {
			s = unescaped
		}
	}

	// Check for markdown code block
	if strings.HasPrefix(s, "```json") {
		start := strings.Index(s, "{")
		end := strings.LastIndex(s, "}")
		if start >= 0 && end > start {
			return s[start : end+1]
		}
	}

	// Check for code block without language tag
	if strings.HasPrefix(s, "```") {
		start := strings.Index(s, "{")
		end := strings.LastIndex(s, "}")
		if start >= 0 && end > start {
			return s[start : end+1]
		}
	}

	// Check if the whole string is JSON
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return s
	}

	// Look for first JSON object in the string
	start := strings.Index(s, "{")
	if start >= 0 {
		// Find matching closing brace
		braceCount := 0
		for i := start; i < len(s); i++ {
			switch s[i] {
			case '{':
				braceCount++
			case '}':
				braceCount--
				if braceCount == 0 {
					return s[start : i+1]
				}
			}
		}
	}

	return ""
}
