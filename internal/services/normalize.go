package services

import (
	"regexp"
	"strings"
)

var (
	leadingFenceRe  = regexp.MustCompile("^```[a-zA-Z0-9]*[ \t]*(?:\r?\n)?")
	trailingFenceRe = regexp.MustCompile("(?:\r?\n)?```[ \t]*$")
)

// NormalizeResponse strips a fenced code block wrapper from a completion.
// Models habitually wrap the JSON payload as ```json ... ```; the payload
// between the fences is returned byte-for-byte. Unfenced text passes through
// unchanged.
func NormalizeResponse(raw string) string {
	text := strings.TrimSpace(raw)

	if !strings.HasPrefix(text, "```") {
		return text
	}

	// Strict pass: drop the first and last lines when both are fence markers.
	lines := strings.Split(text, "\n")
	if len(lines) >= 2 {
		last := strings.TrimRight(lines[len(lines)-1], " \t\r")
		if last == "```" {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	// Tolerant fallback: a leading fence with no well-formed closing line.
	// Only the outermost markers are touched, never interior content.
	text = leadingFenceRe.ReplaceAllString(text, "")
	text = trailingFenceRe.ReplaceAllString(text, "")
	return text
}
