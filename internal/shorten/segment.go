// Package shorten finds subtitle entries whose reading speed cannot be fixed
// by timing alone and rewrites them with an LLM. Segments can also be staged
// to a JSON file for manual editing and applied back in a second run.
package shorten

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"unicode"

	"github.com/angelospk/eng-sub-translation-optimize/internal/srt"
)

// DefaultMinReduction is the smallest character saving worth an LLM call.
const DefaultMinReduction = 6

// Segment is a subtitle entry that needs shortening, together with the
// surrounding context the model uses to keep phrasing consistent.
type Segment struct {
	Index         int     `json:"index"`
	OriginalText  string  `json:"original_text"`
	CurrentCPS    float64 `json:"current_cps"`
	TargetCPS     float64 `json:"target_cps"`
	CharsToReduce int     `json:"chars_to_reduce"`
	ContextBefore string  `json:"context_before"`
	ContextAfter  string  `json:"context_after"`
	NextIsUpper   bool    `json:"next_is_uppercase"`
	ShortenedText string  `json:"shortened_text,omitempty"`
}

// FindSegments returns the entries whose reading speed exceeds targetCPS by
// at least minReduction characters. Zero-duration entries are skipped.
func FindSegments(subs []srt.Subtitle, targetCPS float64, minReduction int) []Segment {
	var segments []Segment

	for i, sub := range subs {
		cps := sub.CPS()
		if cps <= targetCPS || math.IsInf(cps, 1) {
			continue
		}

		targetChars := int(targetCPS * sub.Duration().Seconds())
		charsToReduce := sub.CharCount() - targetChars
		if charsToReduce < minReduction {
			continue
		}

		var before, after string
		if i > 0 {
			before = subs[i-1].Text
		}
		if i+1 < len(subs) {
			after = subs[i+1].Text
		}

		segments = append(segments, Segment{
			Index:         sub.Index,
			OriginalText:  sub.Text,
			CurrentCPS:    cps,
			TargetCPS:     targetCPS,
			CharsToReduce: charsToReduce,
			ContextBefore: before,
			ContextAfter:  after,
			NextIsUpper:   nextStartsUpper(after),
		})
	}

	return segments
}

// nextStartsUpper reports whether the first letter of the following entry is
// uppercase. Empty context defaults to true so shortened text keeps its
// sentence-final period.
func nextStartsUpper(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return unicode.IsUpper(r)
		}
	}
	return true
}

// Apply substitutes shortened texts back into the subtitle list by index.
// Segments without a shortened text are ignored.
func Apply(subs []srt.Subtitle, segments []Segment) []srt.Subtitle {
	shortened := make(map[int]string, len(segments))
	for _, seg := range segments {
		if seg.ShortenedText != "" {
			shortened[seg.Index] = seg.ShortenedText
		}
	}

	result := make([]srt.Subtitle, 0, len(subs))
	for _, sub := range subs {
		if text, ok := shortened[sub.Index]; ok {
			sub.Text = text
		}
		result = append(result, sub)
	}
	return result
}

// ExportJSON writes segments to a JSON file for manual LLM processing.
// Contexts are truncated to 100 runes and CPS rounded to two decimals.
func ExportJSON(segments []Segment, path string) error {
	out := make([]Segment, len(segments))
	for i, seg := range segments {
		seg.CurrentCPS = math.Round(seg.CurrentCPS*100) / 100
		seg.ContextBefore = truncateRunes(seg.ContextBefore, 100)
		seg.ContextAfter = truncateRunes(seg.ContextAfter, 100)
		out[i] = seg
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling segments: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing segments file: %w", err)
	}
	return nil
}

// LoadJSON reads segments back from a JSON file, typically after the
// shortened_text fields were filled in externally.
func LoadJSON(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading segments file: %w", err)
	}

	var segments []Segment
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, fmt.Errorf("parsing segments file: %w", err)
	}
	return segments, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
