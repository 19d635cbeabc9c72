// Package textutil provides small text helpers shared by the subtitle
// processing pipeline: markup stripping, sentence-ending detection,
// capitalization, and line splitting that treats \r\n and \n alike.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

// tagPattern matches inline markup spans such as <i>, </i>, and <font ...>.
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// StripTags removes all <...> markup spans from text.
// It is used for emptiness and prefix checks only; callers keep markup
// in the text they return.
func StripTags(text string) string {
	return tagPattern.ReplaceAllString(text, "")
}

// HasSentenceEnding reports whether text, ignoring trailing whitespace,
// ends with sentence punctuation (. ! ? or …).
func HasSentenceEnding(text string) bool {
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	if trimmed == "" {
		return false
	}
	runes := []rune(trimmed)
	return strings.ContainsRune(".!?…", runes[len(runes)-1])
}

// CapitalizeFirst uppercases the first alphabetic rune in text,
// leaving any leading non-letters untouched.
func CapitalizeFirst(text string) string {
	runes := []rune(text)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			return string(runes)
		}
	}
	return text
}

// SplitLines splits text into lines, treating \r\n and \n identically.
func SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// LineCount returns the number of lines in text.
func LineCount(text string) int {
	return len(SplitLines(text))
}

// RemoveChars returns text with every occurrence of each given string removed.
func RemoveChars(text string, chars ...string) string {
	for _, c := range chars {
		text = strings.ReplaceAll(text, c, "")
	}
	return text
}
