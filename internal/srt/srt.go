// Package srt reads and writes SubRip subtitle files and exposes the
// per-entry measurements (duration, character count, reading speed) the
// optimization passes work with.
package srt

import (
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Subtitle is a single subtitle entry.
type Subtitle struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Duration returns the display time of the entry.
func (s Subtitle) Duration() time.Duration {
	return s.End - s.Start
}

// CharCount returns the number of characters excluding line breaks.
func (s Subtitle) CharCount() int {
	return len([]rune(strings.NewReplacer("\r", "", "\n", "").Replace(s.Text)))
}

// LineCount returns the number of display lines.
func (s Subtitle) LineCount() int {
	return len(strings.Split(s.Text, "\n"))
}

// CPS returns the reading speed in characters per second.
// Entries with no duration read infinitely fast; callers treat +Inf as
// "cannot be fixed by timing".
func (s Subtitle) CPS() float64 {
	d := s.Duration().Seconds()
	if d <= 0 {
		return math.Inf(1)
	}
	return float64(s.CharCount()) / d
}

var (
	timeLine   = regexp.MustCompile(`(\d{2}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2},\d{3})`)
	blockSplit = regexp.MustCompile(`\n\n+`)
)

// Parse reads SRT entries from r. Blocks that do not carry a valid
// timestamp line are skipped; subtitle text keeps its internal line breaks.
func Parse(r io.Reader) ([]Subtitle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read subtitles: %w", err)
	}
	return parseString(decode(data)), nil
}

// ParseFile reads SRT entries from path, detecting the file encoding
// (UTF-8 with or without BOM, Windows-1252, Latin-1).
func ParseFile(path string) ([]Subtitle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subtitles: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseString(input string) []Subtitle {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}

	blocks := blockSplit.Split(trimmed, -1)
	subs := make([]Subtitle, 0, len(blocks))
	for _, block := range blocks {
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			continue
		}

		// First line is the index, second the time range. Some files omit
		// the index; accept a time range on the first line too.
		timeIdx := 1
		m := timeLine.FindStringSubmatch(lines[1])
		if m == nil {
			timeIdx = 0
			m = timeLine.FindStringSubmatch(lines[0])
		}
		if m == nil {
			continue
		}

		start, err1 := ParseTimestamp(m[1])
		end, err2 := ParseTimestamp(m[2])
		if err1 != nil || err2 != nil {
			continue
		}

		index := len(subs) + 1
		if timeIdx == 1 {
			if n, err := strconv.Atoi(strings.TrimSpace(lines[0])); err == nil {
				index = n
			}
		}

		text := ""
		if len(lines) > timeIdx+1 {
			text = strings.Join(lines[timeIdx+1:], "\n")
		}

		subs = append(subs, Subtitle{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.TrimRight(text, "\n"),
		})
	}
	return subs
}

// Write serializes subs to w, reindexing sequentially from 1.
func Write(w io.Writer, subs []Subtitle) error {
	var b strings.Builder
	for i, sub := range subs {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString("\n")
		b.WriteString(FormatTimestamp(sub.Start))
		b.WriteString(" --> ")
		b.WriteString(FormatTimestamp(sub.End))
		b.WriteString("\n")
		b.WriteString(sub.Text)
		b.WriteString("\n\n")
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write subtitles: %w", err)
	}
	return nil
}

// WriteFile serializes subs to path as UTF-8.
func WriteFile(path string, subs []Subtitle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := Write(f, subs); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

// Reindex returns subs with Index set sequentially from 1.
func Reindex(subs []Subtitle) []Subtitle {
	out := make([]Subtitle, len(subs))
	for i, sub := range subs {
		sub.Index = i + 1
		out[i] = sub
	}
	return out
}

// ParseTimestamp parses an SRT timestamp (HH:MM:SS,mmm).
func ParseTimestamp(s string) (time.Duration, error) {
	var h, m, sec, ms int
	if _, err := fmt.Sscanf(s, "%02d:%02d:%02d,%03d", &h, &m, &sec, &ms); err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

// FormatTimestamp formats d as an SRT timestamp (HH:MM:SS,mmm).
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	ms := (d % time.Second) / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
