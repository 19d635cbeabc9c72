package shorten

import (
	"fmt"
	"strings"
)

const promptHeader = `You are a professional subtitle editor. Shorten the following subtitle texts to meet character limits while keeping the meaning intact.

Rules:
1. Keep the core meaning intact
2. Remove unnecessary words (very, really, just, etc.)
3. Use shorter synonyms
4. Keep natural speech flow
5. TRAILING PUNCTUATION RULE: Do NOT end with "." unless next_is_uppercase is true
6. Return ONLY valid JSON array with objects having "index" and "text" keys

Segments to shorten:
`

const promptFooter = `
Return JSON array like: [{"index": 1, "text": "shortened text"}, ...]
`

// buildPrompt renders the shortening instructions plus one block per segment.
// Contexts are clipped to 50 runes so the prompt stays small.
func buildPrompt(segments []Segment) string {
	var b strings.Builder
	b.WriteString(promptHeader)

	for _, seg := range segments {
		charCount := len([]rune(strings.NewReplacer("\n", "", "\r", "").Replace(seg.OriginalText)))
		fmt.Fprintf(&b, `
---
Index: %d
Original (%d chars, need to reduce by %d): %q
Context before: %q
Context after: %q
next_is_uppercase: %t
---
`,
			seg.Index, charCount, seg.CharsToReduce, seg.OriginalText,
			clipContext(seg.ContextBefore, "(start)"),
			clipContext(seg.ContextAfter, "(end)"),
			seg.NextIsUpper)
	}

	b.WriteString(promptFooter)
	return b.String()
}

func clipContext(text, fallback string) string {
	if text == "" {
		return fallback
	}
	return truncateRunes(text, 50) + "..."
}
