package interject

import (
	"strings"
	"unicode"

	"github.com/angelospk/eng-sub-translation-optimize/internal/textutil"
)

// emptyCheckCutset holds decorative characters ignored when deciding whether
// a rewrite left any real content behind: musical notes, dash variants
// (including U+2010), ellipsis, and quotes.
const emptyCheckCutset = "♪♫-–—‐…\"'"

// rewriter applies one word removal plus the positional correction table.
// newline carries the line-break style detected from the original input so
// every re-inserted break matches it.
type rewriter struct {
	newline string
}

// removeAt deletes the word at rune index idx of text and repairs the
// surrounding punctuation, markup, and capitalization. It returns the new
// text, whether the result warrants another removal pass, and whether the
// text reduced to nothing but decoration.
//
// The corrections form an ordered rule table: several rules can match the
// same local context and only this evaluation order reproduces the intended
// edits, so the order below is load-bearing. Rules are grouped by the shape
// they repair; within each chained group the first hit wins.
func (rw *rewriter) removeAt(text, word []rune, idx int) (out string, repeat, empty bool) {
	nl := rw.newline
	wlen := len(word)
	removeAfter := true
	temp := deleteRange(text, idx, idx+wlen)

	// Leading-line artifacts exposed by the deletion: dangling ellipses and
	// inverted punctuation followed by the comma that used to attach the word.
	if idx == 0 && hasPrefix(temp, "... ") {
		temp = temp[4:]
	}
	if idx == 1 && hasPrefix(temp, "¿, ") {
		temp = concat(temp[:1], temp[3:])
	}
	if idx == 1 && hasPrefix(temp, "¿ ") {
		temp = concat(temp[:1], temp[2:])
	}
	if idx == 1 && hasPrefix(temp, "¡, ") {
		temp = concat(temp[:1], temp[3:])
	}
	if idx == 1 && hasPrefix(temp, "¡ ") {
		temp = concat(temp[:1], temp[2:])
	}
	if idx == 1 && hasPrefix(temp, "... ") {
		temp = temp[4:]
	}
	if idx == 3 && hasPrefix(temp, "<i>... ") {
		temp = concat(temp[:3], temp[7:])
	}

	if idx > 2 && len(temp) >= idx+3 && hasPrefixAt(temp, idx-2, ", ...") {
		temp = deleteRange(temp, idx-2, idx)
		removeAfter = false
	}
	if idx > 2 && idx-1 < len(text) && runeIn(text[idx-1], " \r\n") &&
		len(temp) > idx && hasPrefixAt(temp, idx, "... ") {
		temp = deleteRange(temp, idx, idx+4)
	}
	if idx > 4 && len(temp) > idx-4 && hasPrefixAt(temp, idx-4, "\n<i>... ") {
		temp = deleteRange(temp, idx, idx+4)
	}
	if idx > 2 && len(temp) >= idx+1 && hasPrefixAt(temp, idx-2, "? ?") {
		temp = deleteRange(temp, idx-2, idx)
		removeAfter = false
	}

	// Dash, em-dash, and stacked-punctuation shapes around the deletion
	// point. First hit wins.
	switch {
	case idx > 1 && equalsAt(temp, idx-2, ", —"):
		temp = temp[:idx-2]
	case idx > 2 && len(temp) > idx-2 && hasPrefixAt(temp, idx-2, ". ."):
		temp = deleteRange(temp, idx-2, idx)
		removeAfter = false
	case len(temp) > idx && equalsAt(temp, idx, " —") && hasSuffix(temp, "—  —"):
		temp = temp[:len(temp)-3]
		if hasSuffix(temp, nl+"—") {
			temp = trimRightSpace(temp[:len(temp)-1])
		}
	case len(temp) > idx && equalsAt(temp, idx, " —") && hasSuffix(temp, "-  —"):
		temp = temp[:len(temp)-3]
		if hasSuffix(temp, nl+"-") {
			temp = trimRightSpace(temp[:len(temp)-1])
		}
	case idx == 2 && hasPrefix(temp, "-  —"):
		temp = concat(temp[:2], temp[4:])
	case idx == 2 && hasPrefix(temp, "- —"):
		temp = concat(temp[:2], temp[3:])
	case idx == 2 && hasPrefix(temp, "- ."+nl):
		temp = concat(temp[:2], temp[3+len([]rune(nl)):])
	case idx == 2 && hasPrefix(temp, "- !"+nl):
		temp = concat(temp[:2], temp[3+len([]rune(nl)):])
	case idx == 2 && hasPrefix(temp, "- ?"+nl):
		temp = concat(temp[:2], temp[3+len([]rune(nl)):])
	case idx == 0 && hasPrefix(temp, " —"):
		temp = temp[2:]
	case idx == 0 && hasPrefix(temp, "—"):
		temp = temp[1:]
	case idx == 0 && hasPrefix(temp, "...! "):
		temp = temp[5:]
	case idx == 0 && hasPrefix(temp, "...? "):
		temp = temp[5:]
	case idx > 3 && (equalsAt(temp, idx-2, ".  —") || equalsAt(temp, idx-2, "!  —") || equalsAt(temp, idx-2, "?  —")):
		temp = deleteRange(temp, idx-2, idx-1)
		temp = collapseDoubleSpaces(temp)
	case idx > 3 && len(temp) > idx+2 && hasPrefixAt(temp, idx-2, "\n¿? "):
		temp = deleteRange(temp, idx-1, idx+2)
	case idx > 3 && len(temp) > idx+2 && hasPrefixAt(temp, idx-2, "\n¡! "):
		temp = deleteRange(temp, idx-1, idx+2)
	case idx > 3 && len(temp) > idx+2 && hasPrefixAt(temp, idx-2, " ¿? "):
		temp = deleteRange(temp, idx-1, idx+2)
	case idx > 3 && len(temp) > idx+2 && hasPrefixAt(temp, idx-2, " ¡! "):
		temp = deleteRange(temp, idx-1, idx+2)
	case idx > 3 && len(temp) >= idx+1 && equalsAt(temp, idx-2, " ¿?"):
		temp = temp[:idx-2]
	case idx > 3 && len(temp) >= idx+1 && equalsAt(temp, idx-2, " ¡!"):
		temp = temp[:idx-2]
	case idx > 3 && len(temp) == idx+1 && idx-2 < len(temp) &&
		runeIn(temp[idx-2], ".!?") && temp[idx-1] == ' ' && runeIn(temp[idx], ".!?"):
		temp = trimRightSpace(temp[:idx])
	}

	var pre []rune
	if idx > 0 {
		repeat = true
	}

	// A comma left stranded before terminal punctuation.
	if idx > 2 && len(temp) > idx {
		switch string(temp[idx-2 : idx+1]) {
		case ", .", ", !", ", ?", ", …":
			temp = deleteRange(temp, idx-2, idx)
			removeAfter = false
		}
	}

	if removeAfter && idx > wlen {
		if len(temp) > idx-wlen+3 {
			sub := idx - wlen + 1
			if s3 := substr(temp, sub, sub+3); s3 == ", !" || s3 == ", ?" || s3 == ", ." {
				temp = deleteRange(temp, sub, sub+2)
				removeAfter = false
			} else if sub > 3 && sub-1 < len(temp) && runeIn(temp[sub-1], ".!?") {
				rest := temp[sub:]
				if string(rest) == " ..." || hasPrefix(rest, " ..."+nl) {
					temp = trimSpace(deleteRange(temp, sub, sub+4))
					removeAfter = false
				}
			}
		}

		if removeAfter && len(temp) > idx-wlen+2 {
			sub := idx - wlen
			if sub >= 0 && sub+3 <= len(temp) {
				switch s3 := string(temp[sub : sub+3]); {
				case s3 == ", !" || s3 == ", ?" || s3 == ", .":
					temp = deleteRange(temp, sub, sub+2)
					removeAfter = false
				case s3 == " ¡!":
					temp = deleteRange(temp, sub, sub+3)
					removeAfter = false
				case s3 == " ¿?":
					temp = deleteRange(temp, sub, sub+3)
					removeAfter = false
				case idx == 1 && hasPrefix(temp, "¿?"+nl):
					temp = trimRightSpace(temp[2:])
					removeAfter = false
				case idx == 1 && hasPrefix(temp, "¡!"+nl):
					temp = trimRightSpace(temp[2:])
					removeAfter = false
				default:
					rest := temp[sub:]
					if hasPrefix(rest, ", -—") {
						temp = deleteRange(temp, sub, sub+3)
						removeAfter = false
					} else if hasPrefix(rest, ", --") {
						temp = deleteRange(temp, sub, sub+2)
						removeAfter = false
					} else if idx > 2 && hasPrefix(rest, "-  —") {
						temp = deleteRange(temp, sub+2, sub+4)
						temp = collapseDoubleSpaces(temp)
						removeAfter = false
					}
				}
			}
		}

		if removeAfter && len(temp) > idx-wlen+2 {
			// A dash right after a line break is a speaker turn, not residue.
			skipAfterNewline := idx-wlen > 2 && idx-wlen < len(temp) && runeIn(temp[idx-wlen], "\r\n")
			if !skipAfterNewline {
				sub := idx - wlen + 1
				if sub >= 0 && sub+2 <= len(temp) {
					if s2 := string(temp[sub : sub+2]); s2 == "-!" || s2 == "-?" || s2 == "-." {
						temp = deleteRange(temp, sub, sub+1)
						removeAfter = false
					}
					if rest := string(temp[sub:]); rest == " !" || rest == " ?" || rest == " ." {
						temp = deleteRange(temp, sub, sub+1)
						removeAfter = false
					}
				}
			}
		}
	}

	if idx > 3 && idx-2 < len(temp) {
		rest := string(temp[idx-2:])
		if strings.HasPrefix(rest, ",  —") || strings.HasPrefix(rest, ", —") {
			temp = deleteRange(temp, idx-2, idx-1)
			idx--
		}
		if strings.HasPrefix(rest, "- ...") {
			removeAfter = false
		}
	}

	if idx == 1 && hasPrefix(temp, "¿?") {
		removeAfter = false
		temp = trimLeftSpace(temp[2:])
	} else if idx == 1 && hasPrefix(temp, "¡!") {
		removeAfter = false
		temp = trimLeftSpace(temp[2:])
	}

	if removeAfter {
		if idx == 0 {
			if hasPrefix(temp, "-") {
				temp = trimSpace(temp[1:])
			}
		} else if idx == 3 && hasPrefix(temp, "<i>-") {
			temp = deleteRange(temp, 3, 4)
		} else if idx > 0 && len(temp) > idx {
			pre = text[:idx]
			temp = temp[idx:]

			if hasPrefix(temp, "-") && hasSuffix(pre, "-") {
				temp = temp[1:]
			}
			if hasPrefix(temp, "-") && hasSuffix(pre, "- ") {
				temp = temp[1:]
			}
		}

		if hasPrefix(temp, "...") {
			pre = trimSpace(pre)
		} else {
			for len(temp) > 0 && runeIn(temp[0], " ,.?!") {
				temp = temp[1:]
				repeat = true
			}
			temp = trimLeftSpace(temp)
		}

		// The removal may have exposed a new sentence start.
		preNoTags := strings.TrimSpace(textutil.StripTags(string(pre)))
		if len(temp) > 0 && (preNoTags == "" ||
			preNoTags == "-" ||
			preNoTags == "‐" ||
			strings.HasSuffix(preNoTags, "¡") ||
			strings.HasSuffix(preNoTags, "¿") ||
			strings.HasSuffix(preNoTags, ". -") ||
			strings.HasSuffix(preNoTags, "! -") ||
			strings.HasSuffix(preNoTags, "? -") ||
			strings.HasSuffix(preNoTags, nl+"-") ||
			(textutil.HasSentenceEnding(preNoTags) && temp[0] == unicode.ToLower(temp[0])) ||
			temp[0] == '¡' || temp[0] == '¿') {

			if temp[0] != '¡' && temp[0] != '¿' {
				temp[0] = unicode.ToUpper(temp[0])
			}
			// ¡ and ¿ stay as-is; the letter after them is capitalized.
			if temp[0] == '¡' && len(temp) > 1 {
				temp = concat([]rune{'¡'}, []rune(textutil.CapitalizeFirst(string(trimLeftRunes(temp, "¡")))))
			} else if temp[0] == '¿' && len(temp) > 1 {
				temp = concat([]rune{'¿'}, []rune(textutil.CapitalizeFirst(string(trimLeftRunes(temp, "¿")))))
			}
			repeat = true
		}

		if hasPrefix(temp, "-") && hasSuffix(pre, " ") {
			temp = temp[1:]
		}
		if hasPrefix(temp, "—") && hasSuffix(pre, ",") {
			pre = concat(trimRightRunes(pre, ","), []rune{' '})
		}

		temp = concat(pre, temp)
	}

	if hasSuffix(temp, nl+"- ") {
		temp = trimRightSpace(temp[:len(temp)-2])
	}

	// Unconditional short circuit: nothing but decoration left.
	stripped := strings.TrimSpace(textutil.StripTags(string(temp)))
	if strings.Trim(stripped, emptyCheckCutset) == "" {
		return "", repeat, true
	}

	// A dialogue dash is meaningless once its counterpart line is gone.
	if hasPrefix(temp, "-") && !strings.Contains(string(temp), nl) && strings.Contains(string(text), nl) {
		temp = trimSpace(temp[1:])
	}

	return string(temp), repeat, false
}

// substr returns the runes of r in [i, j) as a string, clamped to bounds.
func substr(r []rune, i, j int) string {
	if i < 0 {
		i = 0
	}
	if j > len(r) {
		j = len(r)
	}
	if i >= j {
		return ""
	}
	return string(r[i:j])
}
