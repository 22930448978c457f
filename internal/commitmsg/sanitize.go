package commitmsg

import (
	"strings"
)

// preamblePatterns are chat-style lead-ins models put before the message.
// Each is matched as a case-insensitive prefix of a leading line.
var preamblePatterns = []string{
	"here is",
	"here's",
	"i'll ",
	"i will ",
	"sure,",
	"sure!",
	"okay,",
	"certainly",
	"of course",
	"based on",
	"looking at",
	"commit message:",
	"suggested commit message",
}

// signoffPatterns are trailing remarks after the message.
var signoffPatterns = []string{
	"let me know",
	"feel free to",
	"hope this helps",
	"would you like",
	"if you'd like",
	"if you need",
}

// Sanitize reduces raw model output to the commit message itself. It drops
// chat preamble and sign-off lines, markdown code fences, and quotes or
// backticks wrapping the whole message. If nothing would remain, the
// trimmed input is returned unchanged.
func Sanitize(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return content
	}

	cleaned := stripFences(content)
	cleaned = stripPreamble(cleaned)
	cleaned = stripSignoff(cleaned)
	cleaned = unwrap(strings.TrimSpace(cleaned))

	if cleaned == "" {
		return content
	}
	return cleaned
}

// stripFences removes lines that open or close a markdown code block.
func stripFences(content string) string {
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// stripPreamble removes leading lines that match preamble patterns.
// At most 3 lines are stripped.
func stripPreamble(content string) string {
	lines := strings.SplitN(content, "\n", 5)
	stripped := 0

	for stripped < len(lines) && stripped < 3 {
		line := strings.TrimSpace(lines[stripped])
		if line == "" || matchesAnyPrefix(line, preamblePatterns) {
			stripped++
			continue
		}
		break
	}

	if stripped == 0 {
		return content
	}
	return strings.Join(lines[stripped:], "\n")
}

// stripSignoff removes trailing lines that match sign-off patterns.
func stripSignoff(content string) string {
	lines := strings.Split(content, "\n")

	end := len(lines)
	for end > 0 {
		line := strings.TrimSpace(lines[end-1])
		if line == "" || matchesAnyPrefix(line, signoffPatterns) {
			end--
			continue
		}
		break
	}

	if end == len(lines) {
		return content
	}
	return strings.Join(lines[:end], "\n")
}

// unwrap removes one pair of matching quotes or backticks around s.
func unwrap(s string) string {
	if len(s) < 2 {
		return s
	}
	for _, q := range []byte{'"', '\'', '`'} {
		if s[0] == q && s[len(s)-1] == q {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// matchesAnyPrefix checks if the line starts with any of the patterns (case-insensitive).
func matchesAnyPrefix(line string, patterns []string) bool {
	lower := strings.ToLower(line)
	for _, p := range patterns {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
