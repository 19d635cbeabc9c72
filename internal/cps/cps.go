// Package cps lowers subtitle reading speed (characters per second) by
// extending display times into available gaps, merging short neighboring
// entries, and reducing texts to the display line limit.
package cps

import (
	"math"
	"strings"
	"time"

	"github.com/angelospk/eng-sub-translation-optimize/internal/srt"
)

// DefaultTargetCPS is the reading speed ceiling the optimizer aims for.
const DefaultTargetCPS = 21.0

// Constraints bound what the optimizer may do to an entry.
type Constraints struct {
	MaxChars    int           // combined character limit for a merge
	MaxLines    int           // combined line limit for a merge
	MaxDuration time.Duration // longest allowed display time
	MinDuration time.Duration // shortest allowed display time
	MinGap      time.Duration // minimum gap kept before the next entry
}

// DefaultConstraints returns the standard subtitle limits:
// 90 characters, 2 lines, 7s maximum, 5/6s minimum, 100ms gap.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxChars:    90,
		MaxLines:    2,
		MaxDuration: 7 * time.Second,
		MinDuration: 5 * time.Second / 6,
		MinGap:      100 * time.Millisecond,
	}
}

// ExtendTiming returns a new end time for sub, extended toward maxDuration
// without closing the gap to next below minGap. next is nil for the last
// entry, which may extend freely.
func ExtendTiming(sub srt.Subtitle, next *srt.Subtitle, maxDuration, minGap time.Duration) time.Duration {
	if sub.Duration() >= maxDuration {
		return sub.End
	}

	maxEndByDuration := sub.Start + maxDuration
	if next == nil {
		return maxEndByDuration
	}

	gap := next.Start - sub.End
	if gap <= minGap {
		return sub.End
	}

	maxEndByGap := next.Start - minGap
	return min(maxEndByDuration, maxEndByGap)
}

// CanMerge reports whether two adjacent entries fit the constraints as one.
func CanMerge(a, b srt.Subtitle, c Constraints) bool {
	if a.CharCount()+b.CharCount() > c.MaxChars {
		return false
	}
	if a.LineCount()+b.LineCount() > c.MaxLines {
		return false
	}
	if b.End-a.Start > c.MaxDuration {
		return false
	}
	return true
}

// Merge joins two adjacent entries, keeping the first entry's index and
// stacking the texts on separate lines.
func Merge(a, b srt.Subtitle) srt.Subtitle {
	return srt.Subtitle{
		Index: a.Index,
		Start: a.Start,
		End:   b.End,
		Text:  a.Text + "\n" + b.Text,
	}
}

// ReduceLines joins lines of text until at most maxLines remain, always
// combining the adjacent pair with the shortest combined length.
func ReduceLines(text string, maxLines int) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= maxLines {
		return text
	}

	for len(lines) > maxLines {
		bestIdx := 0
		bestLen := math.MaxInt
		for i := 0; i < len(lines)-1; i++ {
			if combined := len(lines[i]) + len(lines[i+1]); combined < bestLen {
				bestLen = combined
				bestIdx = i
			}
		}
		lines[bestIdx] = lines[bestIdx] + " " + lines[bestIdx+1]
		lines = append(lines[:bestIdx+1], lines[bestIdx+2:]...)
	}

	return strings.Join(lines, "\n")
}

// Optimize reduces reading speed in two passes: first extending the timing
// of entries above targetCPS, then merging adjacent pairs whose combined
// reading speed would meet the target.
func Optimize(subs []srt.Subtitle, targetCPS float64, c Constraints) []srt.Subtitle {
	if len(subs) == 0 {
		return nil
	}

	extended := make([]srt.Subtitle, 0, len(subs))
	for i, sub := range subs {
		var next *srt.Subtitle
		if i+1 < len(subs) {
			next = &subs[i+1]
		}

		if sub.CPS() > targetCPS {
			if newEnd := ExtendTiming(sub, next, c.MaxDuration, c.MinGap); newEnd > sub.End {
				sub.End = newEnd
			}
		}
		extended = append(extended, sub)
	}

	merged := make([]srt.Subtitle, 0, len(extended))
	skipNext := false
	for i, sub := range extended {
		if skipNext {
			skipNext = false
			continue
		}

		if i+1 < len(extended) {
			next := extended[i+1]
			span := (next.End - sub.Start).Seconds()
			if span > 0 {
				combinedCPS := float64(sub.CharCount()+next.CharCount()) / span
				if combinedCPS <= targetCPS && CanMerge(sub, next, c) {
					merged = append(merged, Merge(sub, next))
					skipNext = true
					continue
				}
			}
		}

		merged = append(merged, sub)
	}

	return merged
}
