// Package interject deletes filler interjections ("uh", "hmm", "mm-hm", ...)
// from subtitle text while preserving sentence punctuation, capitalization,
// dialogue dashes, inline markup, and Spanish inverted punctuation.
//
// The engine is a deterministic string rewriter: it repeatedly removes one
// word-boundary-anchored occurrence per configured word, repairs the local
// punctuation after each removal, and finally resolves the two-line dialogue
// layout. An empty result means the whole entry was filler and should be
// dropped by the caller.
package interject

import "strings"

// Request carries one subtitle entry's text plus the word configuration for
// a single removal operation. The word lists are read-only configuration;
// the engine never mutates them and holds no state across calls, so a caller
// may share one Request configuration across concurrent invocations.
type Request struct {
	// Text is the raw subtitle content: at most two display lines separated
	// by one line break, optionally with inline markup and speaker dashes.
	Text string

	// Interjections lists the words to remove, in priority order. Matching
	// is case-insensitive and anchored to word boundaries.
	Interjections []string

	// SkipIfStartsWith vetoes a match when the text at the match position
	// starts with one of these words ("Ohm" must not count as "Oh").
	SkipIfStartsWith []string

	// OnlySeparatedLines restricts removal to interjections occupying a
	// whole display line; inline occurrences are left untouched.
	OnlySeparatedLines bool
}

// Remove deletes the configured interjections from req.Text and returns the
// rewritten text. The empty string is a meaningful result: the entry held
// nothing but filler.
func Remove(req Request) string {
	out, _ := remove(req)
	return out
}

// remove also reports the number of removal passes, for bounding tests.
func remove(req Request) (string, int) {
	if strings.TrimSpace(req.Text) == "" {
		return req.Text, 0
	}

	text := req.Text
	oldText := text

	// Every line-break re-insertion must match the input's break style.
	nl := "\n"
	if strings.Contains(text, "\r\n") {
		nl = "\r\n"
	}
	rw := &rewriter{newline: nl}

	passes := 0
	doRepeat := true
	for doRepeat {
		doRepeat = false
		passes++

	words:
		for _, word := range req.Interjections {
			r := []rune(text)
			idx := findWord(r, []rune(word))
			if idx < 0 {
				continue
			}

			// A skip prefix at the match position ends the pass outright.
			for _, skip := range req.SkipIfStartsWith {
				if foldHasPrefix(r[idx:], skip) {
					break words
				}
			}

			next, repeat, empty := rw.removeAt(r, []rune(word), idx)
			if repeat {
				doRepeat = true
			}
			if empty {
				return "", passes
			}
			text = next
		}
	}

	return resolve(req, oldText, text, nl), passes
}
