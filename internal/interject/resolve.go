package interject

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/angelospk/eng-sub-translation-optimize/internal/textutil"
)

// resolve inspects the two-line dialogue shape once the removal loop has
// stabilized: it drops lines reduced to decoration, strips dialogue dashes
// that lost their counterpart, squeezes italic tags onto their content, and
// applies the only-separated-lines fallback. It runs once and only rewrites
// when the loop actually changed the text.
func resolve(req Request, oldText, text, nl string) string {
	lineIndexRemoved := -1
	lines := textutil.SplitLines(text)

	if len(lines) == 2 && text != oldText {
		first, second := lines[0], lines[1]
		oldLines := textutil.SplitLines(oldText)

		// Closed set of degenerate two-line shapes.
		if first == "-" && second == "-" {
			return ""
		}
		if first == "- …" && strings.HasPrefix(second, "-") {
			return strings.TrimSpace(second[1:])
		}
		if second == "- …" && strings.HasPrefix(first, "-") {
			return strings.TrimSpace(first[1:])
		}

		if runeLen(first) > 1 && first[0] == '-' && strings.TrimSpace(second) == "-" {
			if req.OnlySeparatedLines && runeLen(oldLines[0]) > 1 && oldLines[0][0] == '-' {
				first = oldLines[0]
			}
			return strings.TrimSpace(first[1:])
		}
		if runeLen(second) > 1 && second[0] == '-' && strings.TrimSpace(first) == "-" {
			if req.OnlySeparatedLines && len(oldLines) > 1 && runeLen(oldLines[1]) > 1 && oldLines[1][0] == '-' {
				second = oldLines[1]
			}
			return strings.TrimSpace(second[1:])
		}
		if runeLen(second) > 4 && strings.HasPrefix(second, "<i>-") && strings.TrimSpace(first) == "-" {
			if req.OnlySeparatedLines && len(oldLines) > 1 && runeLen(oldLines[1]) > 1 && strings.HasPrefix(oldLines[1], "<i>-") {
				second = oldLines[1]
			}
			return "<i>" + strings.TrimSpace(second[4:])
		}

		if runeLen(first) > 1 && (second == "-" || second == "." || second == "!" || second == "?") {
			if req.OnlySeparatedLines && runeLen(oldLines[0]) > 1 {
				first = oldLines[0]
			}
			if strings.HasPrefix(first, "-") && strings.Contains(oldText, nl+"-") {
				first = first[1:]
			}
			return strings.TrimSpace(first)
		}

		noTags0 := strings.TrimSpace(textutil.StripTags(first))
		noTags1 := strings.TrimSpace(textutil.StripTags(second))
		if noTags0 == "-" {
			if noTags1 == noTags0 {
				return ""
			}
			if runeLen(second) > 1 && second[0] == '-' {
				return strings.TrimSpace(second[1:])
			}
			if runeLen(second) > 4 && strings.HasPrefix(second, "<i>-") {
				return "<i>" + strings.TrimSpace(second[4:])
			}
			return second
		}
		if noTags1 == "-" {
			if runeLen(first) > 1 && first[0] == '-' {
				return strings.TrimSpace(first[1:])
			}
			if runeLen(first) > 4 && strings.HasPrefix(first, "<i>-") {
				// The closing tag may live on the dropped line.
				if !strings.Contains(first, "</i>") && strings.Contains(second, "</i>") {
					return "<i>" + strings.TrimSpace(first[4:]) + "</i>"
				}
				return "<i>" + strings.TrimSpace(first[4:])
			}
			return first
		}
	}

	// A line reduced to terminal punctuation and dashes is void: keep the
	// other line and remember which index was dropped.
	if len(lines) == 2 && text != oldText {
		if strings.TrimSpace(textutil.RemoveChars(lines[1], ".", "?", "!", "-", "—")) == "" {
			text = lines[0]
			lines = textutil.SplitLines(text)
			lineIndexRemoved = 1
		} else if strings.TrimSpace(textutil.RemoveChars(lines[0], ".", "?", "!", "-", "—")) == "" {
			text = lines[1]
			lines = textutil.SplitLines(text)
			lineIndexRemoved = 0
		}
	}

	// Collapsed from a dialogue to a single line: the leading dash lost its
	// meaning if the dropped line was a complete sentence.
	if len(lines) == 1 && text != oldText && textutil.LineCount(oldText) == 2 {
		sentenceBeforeBreak := strings.Contains(oldText, "."+nl) || strings.Contains(oldText, ".</i>"+nl) ||
			strings.Contains(oldText, "!"+nl) || strings.Contains(oldText, "!</i>"+nl) ||
			strings.Contains(oldText, "?"+nl) || strings.Contains(oldText, "?</i>"+nl)

		switch {
		case (strings.HasPrefix(oldText, "-") || strings.HasPrefix(oldText, "<i>-")) && sentenceBeforeBreak,
			(strings.Contains(oldText, nl+"-") || strings.Contains(oldText, nl+"<i>-")) && sentenceBeforeBreak:
			if strings.HasPrefix(text, "<i>-") {
				text = "<i>" + strings.TrimLeftFunc(text[4:], unicode.IsSpace)
			} else {
				text = strings.TrimLeftFunc(strings.TrimLeft(text, "-"), unicode.IsSpace)
			}
		}
	}

	if oldText != text {
		// Squeeze italic tags onto their content instead of an empty line.
		text = strings.ReplaceAll(text, nl+"<i>"+nl, nl+"<i>")
		text = strings.ReplaceAll(text, nl+"</i>"+nl, "</i>"+nl)
		if strings.HasPrefix(text, "<i>"+nl) {
			text = "<i>" + text[3+len(nl):]
		}
		if strings.HasSuffix(text, nl+"</i>") {
			text = text[:len(text)-len(nl)-4] + "</i>"
		}
		text = strings.ReplaceAll(text, nl+"</i>"+nl, "</i>"+nl)

		if req.OnlySeparatedLines {
			if text == "" {
				return text
			}

			// Only whole-line removals count in this mode. A dialogue that
			// collapsed to its surviving line stands; anything else falls
			// back to the untouched original.
			oldLines := textutil.SplitLines(oldText)
			newLines := textutil.SplitLines(text)
			if len(oldLines) == 2 && len(newLines) == 1 &&
				(strings.TrimLeft(oldLines[0], " -") == newLines[0] ||
					strings.TrimLeft(oldLines[1], " -") == newLines[0]) {
				return text
			}
			if lineIndexRemoved == 0 && len(oldLines) > 1 {
				return removeStartDash(oldLines[1])
			}
			if lineIndexRemoved == 1 {
				return removeStartDash(oldLines[0])
			}
			return oldText
		}
	}

	// Preserve author intent: collapse doubled spaces only when the input
	// did not already contain them.
	if !strings.Contains(oldText, "  ") {
		for strings.Contains(text, "  ") {
			text = strings.ReplaceAll(text, "  ", " ")
		}
	}

	return text
}

// removeStartDash strips a leading dialogue dash from a single line,
// hopping over an ASS override block or an opening <i>/<font> tag first.
func removeStartDash(line string) string {
	if line == "" {
		return line
	}
	if line[0] == '-' {
		return strings.TrimLeftFunc(strings.TrimLeft(line, "-"), unicode.IsSpace)
	}

	pre := ""
	s := line
	if strings.HasPrefix(s, `{\`) && strings.Contains(s, "}") {
		i := strings.Index(s, "}")
		pre = s[:i+1]
		s = strings.TrimLeftFunc(s[i+1:], unicode.IsSpace)
	}
	if strings.HasPrefix(strings.ToLower(s), "<i>") {
		pre += "<i>"
		s = strings.TrimLeftFunc(s[3:], unicode.IsSpace)
	}
	if strings.HasPrefix(strings.ToLower(s), "<font>") {
		pre += "<font>"
		s = strings.TrimLeftFunc(s[6:], unicode.IsSpace)
	}
	return pre + strings.TrimLeftFunc(strings.TrimLeft(s, "-"), unicode.IsSpace)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
