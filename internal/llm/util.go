package llm

import "strings"

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
// A fenced block anywhere in the text wins over the surrounding prose.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	start := strings.Index(text, "```")
	if start < 0 {
		return text
	}
	body := text[start+3:]

	if rest, ok := strings.CutPrefix(body, "json"); ok && (rest == "" || !isLetter(rest[0])) {
		body = rest
	} else if idx := strings.Index(body, "\n"); idx >= 0 {
		// Skip a short language identifier on the fence line
		firstLine := body[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
			body = body[idx+1:]
		}
	}

	end := strings.Index(body, "```")
	if end < 0 {
		// Unterminated fence: keep everything after the opening marker
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(body[:end])
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
