package cps

import (
	"math"

	"github.com/angelospk/eng-sub-translation-optimize/internal/srt"
)

// Stats summarizes the reading speed of a subtitle set.
type Stats struct {
	TotalCount   int
	MinCPS       float64
	MaxCPS       float64
	AvgCPS       float64
	HighCPSCount int // entries above the target, zero-duration excluded
}

// Measure computes reading speed statistics against targetCPS.
// Zero-duration entries are excluded from the bounds and average.
func Measure(subs []srt.Subtitle, targetCPS float64) Stats {
	s := Stats{TotalCount: len(subs)}
	if len(subs) == 0 {
		return s
	}

	var sum float64
	var finite int
	s.MinCPS = math.Inf(1)

	for _, sub := range subs {
		v := sub.CPS()
		if math.IsInf(v, 1) {
			continue
		}
		finite++
		sum += v
		s.MinCPS = min(s.MinCPS, v)
		s.MaxCPS = max(s.MaxCPS, v)
		if v > targetCPS {
			s.HighCPSCount++
		}
	}

	if finite == 0 {
		s.MinCPS = 0
		return s
	}

	s.AvgCPS = sum / float64(finite)
	return s
}
