package interject

import (
	"strings"
	"unicode"
)

// The correction rules index into the text by character position, and the
// surrounding punctuation (¿ ¡ — ‐ …) is multi-byte in UTF-8. All positional
// work therefore happens on []rune; helpers below keep the call sites close
// to plain string operations.

// isWordRune reports whether r counts as a word character for
// word-boundary matching.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// findWord returns the rune index of the leftmost case-insensitive,
// word-boundary-anchored occurrence of word in text, or -1.
// An interjection never matches as a substring of a longer word.
func findWord(text, word []rune) int {
	m := len(word)
	if m == 0 || m > len(text) {
		return -1
	}
	headIsWord := isWordRune(word[0])
	tailIsWord := isWordRune(word[m-1])
	for i := 0; i+m <= len(text); i++ {
		// Boundary before the match: a transition into the word's first
		// character class.
		prevIsWord := i > 0 && isWordRune(text[i-1])
		if prevIsWord == headIsWord {
			continue
		}
		if !foldEqual(text[i:i+m], word) {
			continue
		}
		nextIsWord := i+m < len(text) && isWordRune(text[i+m])
		if nextIsWord == tailIsWord {
			continue
		}
		return i
	}
	return -1
}

// foldEqual reports whether a and b match case-insensitively rune by rune.
func foldEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if unicode.ToLower(a[i]) != unicode.ToLower(b[i]) {
			return false
		}
	}
	return true
}

// foldHasPrefix reports whether r starts with prefix, case-insensitively.
func foldHasPrefix(r []rune, prefix string) bool {
	p := []rune(prefix)
	if len(p) > len(r) {
		return false
	}
	return foldEqual(r[:len(p)], p)
}

// hasPrefix reports whether r starts with the literal prefix.
func hasPrefix(r []rune, prefix string) bool {
	p := []rune(prefix)
	if len(p) > len(r) {
		return false
	}
	for i := range p {
		if r[i] != p[i] {
			return false
		}
	}
	return true
}

// hasPrefixAt reports whether r starts with prefix at rune offset i.
// Out-of-range offsets report false rather than panicking: the rules compute
// offsets relative to the match position and must stay in bounds.
func hasPrefixAt(r []rune, i int, prefix string) bool {
	if i < 0 || i > len(r) {
		return false
	}
	return hasPrefix(r[i:], prefix)
}

// equalsAt reports whether the remainder of r from rune offset i equals s.
func equalsAt(r []rune, i int, s string) bool {
	if i < 0 || i > len(r) {
		return false
	}
	rest := r[i:]
	sr := []rune(s)
	if len(rest) != len(sr) {
		return false
	}
	for j := range sr {
		if rest[j] != sr[j] {
			return false
		}
	}
	return true
}

// hasSuffix reports whether r ends with the literal suffix.
func hasSuffix(r []rune, suffix string) bool {
	s := []rune(suffix)
	if len(s) > len(r) {
		return false
	}
	return equalsAt(r, len(r)-len(s), suffix)
}

// deleteRange returns a copy of r with the rune range [i, j) removed.
func deleteRange(r []rune, i, j int) []rune {
	if i < 0 {
		i = 0
	}
	if j > len(r) {
		j = len(r)
	}
	if i >= j {
		return r
	}
	out := make([]rune, 0, len(r)-(j-i))
	out = append(out, r[:i]...)
	return append(out, r[j:]...)
}

// concat returns a fresh slice holding a followed by b.
func concat(a, b []rune) []rune {
	out := make([]rune, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// runeIn reports whether r occurs in set.
func runeIn(r rune, set string) bool {
	return strings.ContainsRune(set, r)
}

func trimLeftSpace(r []rune) []rune {
	i := 0
	for i < len(r) && unicode.IsSpace(r[i]) {
		i++
	}
	return r[i:]
}

func trimRightSpace(r []rune) []rune {
	j := len(r)
	for j > 0 && unicode.IsSpace(r[j-1]) {
		j--
	}
	return r[:j]
}

func trimSpace(r []rune) []rune {
	return trimLeftSpace(trimRightSpace(r))
}

// trimLeftRunes removes leading runes contained in cutset.
func trimLeftRunes(r []rune, cutset string) []rune {
	i := 0
	for i < len(r) && runeIn(r[i], cutset) {
		i++
	}
	return r[i:]
}

// trimRightRunes removes trailing runes contained in cutset.
func trimRightRunes(r []rune, cutset string) []rune {
	j := len(r)
	for j > 0 && runeIn(r[j-1], cutset) {
		j--
	}
	return r[:j]
}

// collapseDoubleSpaces replaces every "  " occurrence with a single space,
// in one left-to-right sweep.
func collapseDoubleSpaces(r []rune) []rune {
	return []rune(strings.ReplaceAll(string(r), "  ", " "))
}
