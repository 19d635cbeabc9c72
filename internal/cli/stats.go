package cli

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/angelospk/eng-sub-translation-optimize/internal/cps"
	"github.com/angelospk/eng-sub-translation-optimize/internal/format"
	"github.com/angelospk/eng-sub-translation-optimize/internal/srt"
)

// StatsCmd creates the stats command.
// The env parameter provides injectable dependencies for testing.
func StatsCmd(env *Env) *cobra.Command {
	var (
		maxCPS float64
		top    int
	)

	cmd := &cobra.Command{
		Use:   "stats <subtitle-file>",
		Short: "Show reading speed statistics for an SRT file",
		Long: `Show reading speed statistics for an SRT file.

Prints entry counts, the CPS range and average, and the entries that
exceed the target reading speed.`,
		Example: `  subopt stats show.srt
  subopt stats show.srt --max-cps 18 --top 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(env, args[0], maxCPS, top)
		},
	}

	cmd.Flags().Float64Var(&maxCPS, "max-cps", cps.DefaultTargetCPS, "Target characters per second")
	cmd.Flags().IntVar(&top, "top", 10, "Number of worst entries to list (0 to disable)")

	return cmd
}

// runStats prints the statistics report to stdout.
func runStats(env *Env, inputPath string, maxCPS float64, top int) error {
	if _, err := os.Stat(inputPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, inputPath)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}

	subs, err := srt.ParseFile(inputPath)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return fmt.Errorf("%w: %s", ErrNoSubtitles, inputPath)
	}

	stats := cps.Measure(subs, maxCPS)

	fmt.Fprintf(env.Stdout, "%s\n", inputPath)
	fmt.Fprintf(env.Stdout, "  Total entries: %d\n", stats.TotalCount)
	fmt.Fprintf(env.Stdout, "  CPS range: %s - %s\n", format.CPS(stats.MinCPS), format.CPS(stats.MaxCPS))
	fmt.Fprintf(env.Stdout, "  Average CPS: %s\n", format.CPS(stats.AvgCPS))

	if stats.HighCPSCount > 0 {
		warn := color.New(color.FgYellow).FprintfFunc()
		warn(env.Stdout, "  High CPS (>%s): %s\n",
			format.CPS(maxCPS), format.Count(stats.HighCPSCount, "entry", "entries"))
	} else {
		ok := color.New(color.FgGreen).FprintfFunc()
		ok(env.Stdout, "  High CPS (>%s): none\n", format.CPS(maxCPS))
	}

	if top > 0 {
		printWorstEntries(env.Stdout, subs, maxCPS, top)
	}
	return nil
}

// printWorstEntries lists the entries furthest above the target.
func printWorstEntries(w io.Writer, subs []srt.Subtitle, maxCPS float64, top int) {
	high := make([]srt.Subtitle, 0)
	for _, sub := range subs {
		if v := sub.CPS(); v > maxCPS && sub.Duration() > 0 {
			high = append(high, sub)
		}
	}
	if len(high) == 0 {
		return
	}

	// Sort by CPS descending.
	slices.SortFunc(high, func(a, b srt.Subtitle) int {
		return cmp.Compare(b.CPS(), a.CPS())
	})
	if len(high) > top {
		high = high[:top]
	}

	bad := color.New(color.FgRed).SprintFunc()
	fmt.Fprintln(w, "\n  Worst entries:")
	for _, sub := range high {
		fmt.Fprintf(w, "    #%d at %s: %s CPS (%d chars in %s)\n",
			sub.Index,
			srt.FormatTimestamp(sub.Start),
			bad(format.CPS(sub.CPS())),
			sub.CharCount(),
			format.Duration(sub.Duration()))
	}
}

// printStats writes a short CPS summary, used by verbose optimize runs.
func printStats(w io.Writer, label string, subs []srt.Subtitle, maxCPS float64) {
	stats := cps.Measure(subs, maxCPS)
	fmt.Fprintf(w, "%s:\n", label)
	fmt.Fprintf(w, "  Total entries: %d\n", stats.TotalCount)
	fmt.Fprintf(w, "  CPS range: %s - %s\n", format.CPS(stats.MinCPS), format.CPS(stats.MaxCPS))
	fmt.Fprintf(w, "  Average CPS: %s\n", format.CPS(stats.AvgCPS))
	fmt.Fprintf(w, "  High CPS (>%s): %d entries\n", format.CPS(maxCPS), stats.HighCPSCount)
}
