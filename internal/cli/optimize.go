package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/angelospk/eng-sub-translation-optimize/internal/config"
	"github.com/angelospk/eng-sub-translation-optimize/internal/cps"
	"github.com/angelospk/eng-sub-translation-optimize/internal/interject"
	"github.com/angelospk/eng-sub-translation-optimize/internal/shorten"
	"github.com/angelospk/eng-sub-translation-optimize/internal/srt"
	"github.com/angelospk/eng-sub-translation-optimize/internal/words"
)

// optimizeFlags collects the flag values for the optimize command.
type optimizeFlags struct {
	output            string
	jsonPath          string
	wordsFile         string
	model             string
	maxCPS            float64
	maxChars          int
	maxLines          int
	maxDuration       float64
	parallel          int
	onlySeparated     bool
	skipInterjections bool
	skipCPSOpt        bool
	force             bool
	verbose           bool
}

// OptimizeCmd creates the optimize command.
// The env parameter provides injectable dependencies for testing.
func OptimizeCmd(env *Env) *cobra.Command {
	var flags optimizeFlags

	cmd := &cobra.Command{
		Use:   "optimize <subtitle-file>",
		Short: "Optimize an SRT file for reading speed",
		Long: `Optimize an SRT file for reading speed (CPS, characters per second).

The pipeline removes interjections, reduces entries to the line limit,
extends display times into available gaps, and merges short neighboring
entries. Entries that still read too fast are staged for LLM shortening:
either directly (when OPENAI_API_KEY is set) or exported to a JSON file
for manual processing and a later apply run.`,
		Example: `  subopt optimize show.srt -o show_out.srt
  subopt optimize show.srt -j high_cps.json --max-cps 18
  subopt optimize show.srt --skip-interjections
  subopt optimize show.srt  # writes optimized_show.srt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd, env, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output SRT file (default: optimized_<input>)")
	cmd.Flags().StringVarP(&flags.jsonPath, "json", "j", "", "Export remaining high-CPS segments to JSON")
	cmd.Flags().StringVar(&flags.wordsFile, "words", "", "YAML file with interjection word lists (default: built-in English)")
	cmd.Flags().StringVar(&flags.model, "model", "", "Chat model for LLM shortening (default: "+shorten.DefaultModel+")")
	cmd.Flags().Float64Var(&flags.maxCPS, "max-cps", cps.DefaultTargetCPS, "Target characters per second")
	cmd.Flags().IntVar(&flags.maxChars, "max-chars", 90, "Max characters per merged entry")
	cmd.Flags().IntVar(&flags.maxLines, "max-lines", 2, "Max lines per entry")
	cmd.Flags().Float64Var(&flags.maxDuration, "max-duration", 7.0, "Max entry duration in seconds")
	cmd.Flags().IntVarP(&flags.parallel, "parallel", "p", interject.MaxRecommendedParallel, "Max concurrent interjection workers")
	cmd.Flags().BoolVar(&flags.onlySeparated, "only-separated-lines", false, "Only remove interjections that stand on their own line")
	cmd.Flags().BoolVar(&flags.skipInterjections, "skip-interjections", false, "Skip interjection removal")
	cmd.Flags().BoolVar(&flags.skipCPSOpt, "skip-cps-opt", false, "Skip timing extension and merging")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite the output file if it exists")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose progress output")

	return cmd
}

// runOptimize executes the optimization pipeline.
// Validation order: file exists -> format -> words file -> output path
func runOptimize(cmd *cobra.Command, env *Env, inputPath string, flags optimizeFlags) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	// 1. File exists
	if _, err := os.Stat(inputPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, inputPath)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}

	// 2. Format supported
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".srt" {
		return fmt.Errorf("unsupported format %q (only .srt): %w", ext, ErrUnsupportedFormat)
	}

	// 3. Load config for output-dir, model, and words file defaults
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	// 4. Word lists (flag wins over config, built-in English as fallback)
	wordsFile := flags.wordsFile
	if wordsFile == "" {
		wordsFile = cfg.WordsFile
	}
	list := words.Default()
	if wordsFile != "" {
		list, err = words.Load(config.ExpandPath(wordsFile))
		if err != nil {
			return fmt.Errorf("loading word lists: %w", err)
		}
	}

	// 5. Output path (resolve with output-dir, derive default from input if needed)
	output := config.ResolveOutputPath(flags.output, cfg.OutputDir, deriveOutputPath(inputPath))
	warnNonSRTExtension(env.Stderr, output)

	model := flags.model
	if model == "" {
		model = cfg.Model
	}

	// 6. An explicit --model requests LLM shortening, which needs a key.
	if flags.model != "" && env.Getenv(EnvOpenAIAPIKey) == "" {
		return fmt.Errorf("%w (required for --model)", ErrAPIKeyMissing)
	}

	// === LOAD ===

	subs, err := srt.ParseFile(inputPath)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return fmt.Errorf("%w: %s", ErrNoSubtitles, inputPath)
	}
	fmt.Fprintf(env.Stderr, "Loaded %d subtitle entries\n", len(subs))

	if flags.verbose {
		printStats(env.Stderr, "Initial statistics", subs, flags.maxCPS)
	}

	constraints := cps.Constraints{
		MaxChars:    flags.maxChars,
		MaxLines:    flags.maxLines,
		MaxDuration: time.Duration(flags.maxDuration * float64(time.Second)),
		MinDuration: 5 * time.Second / 6,
		MinGap:      100 * time.Millisecond,
	}

	// === PHASE 1: INTERJECTION REMOVAL ===

	if !flags.skipInterjections {
		subs, err = removeInterjections(ctx, env, subs, list, flags)
		if err != nil {
			return err
		}
	}

	// === PHASE 1.5: LINE REDUCTION ===

	subs = reduceLines(env, subs, flags.maxLines, flags.verbose)

	// === PHASE 2: TIMING AND MERGING ===

	if !flags.skipCPSOpt {
		if flags.verbose {
			fmt.Fprintf(env.Stderr, "Optimizing CPS (target: %.1f)...\n", flags.maxCPS)
		}
		before := len(subs)
		subs = cps.Optimize(subs, flags.maxCPS, constraints)
		if flags.verbose {
			fmt.Fprintf(env.Stderr, "  Merged %d subtitle pairs\n", before-len(subs))
		}
	}

	// === PHASE 3: FIND REMAINING HIGH-CPS SEGMENTS ===

	segments := shorten.FindSegments(subs, flags.maxCPS, shorten.DefaultMinReduction)
	if flags.verbose {
		fmt.Fprintf(env.Stderr, "Found %d segments needing LLM shortening\n", len(segments))
	}

	if flags.jsonPath != "" && len(segments) > 0 {
		if err := shorten.ExportJSON(segments, flags.jsonPath); err != nil {
			return err
		}
		fmt.Fprintf(env.Stderr, "Exported %d high-CPS segments to: %s\n", len(segments), flags.jsonPath)
	}

	// === PHASE 4: LLM SHORTENING (optional) ===

	if apiKey := env.Getenv(EnvOpenAIAPIKey); apiKey != "" && len(segments) > 0 {
		var opts []shorten.Option
		if model != "" {
			opts = append(opts, shorten.WithModel(model))
		}
		shortener := env.ShortenerFactory.NewShortener(apiKey, opts...)

		if flags.verbose {
			fmt.Fprintln(env.Stderr, "Shortening with LLM...")
		}
		done, err := shortener.Shorten(ctx, segments)
		if err != nil {
			// Keep the timing-level result usable even when the model fails.
			fmt.Fprintf(env.Stderr, "Warning: LLM shortening failed: %v\n", err)
		} else {
			subs = shorten.Apply(subs, done)
			if flags.verbose {
				applied := 0
				for _, seg := range done {
					if seg.ShortenedText != "" {
						applied++
					}
				}
				fmt.Fprintf(env.Stderr, "  Applied %d shortened segments\n", applied)
			}
		}
	}

	// === WRITE ===

	subs = srt.Reindex(subs)

	if flags.verbose {
		printStats(env.Stderr, "Final statistics", subs, flags.maxCPS)
	}

	var out strings.Builder
	if err := srt.Write(&out, subs); err != nil {
		return err
	}
	if err := writeFileAtomic(output, out.String(), flags.force); err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Saved: %s (%d entries)\n", output, len(subs))

	printSummary(env, output, subs, segments, flags)
	return nil
}

// removeInterjections runs the removal engine over all entries in parallel
// and drops entries that end up empty.
func removeInterjections(ctx context.Context, env *Env, subs []srt.Subtitle, list words.List, flags optimizeFlags) ([]srt.Subtitle, error) {
	if flags.verbose {
		fmt.Fprintln(env.Stderr, "Removing interjections...")
	}

	texts := make([]string, len(subs))
	for i, sub := range subs {
		texts[i] = sub.Text
	}

	base := interject.Request{
		Interjections:      list.Interjections,
		SkipIfStartsWith:   list.SkipIfStartsWith,
		OnlySeparatedLines: flags.onlySeparated,
	}

	cleaned, err := interject.RemoveAll(ctx, texts, base, flags.parallel)
	if err != nil {
		return nil, err
	}

	result := make([]srt.Subtitle, 0, len(subs))
	modified := 0
	for i, sub := range subs {
		if cleaned[i] != sub.Text {
			modified++
		}
		if strings.TrimSpace(cleaned[i]) == "" {
			continue
		}
		sub.Text = cleaned[i]
		result = append(result, sub)
	}

	if flags.verbose {
		fmt.Fprintf(env.Stderr, "  Modified %d entries, removed %d empty entries\n",
			modified, len(subs)-len(result))
	}
	return result, nil
}

// reduceLines rewrites entries that exceed the line limit.
func reduceLines(env *Env, subs []srt.Subtitle, maxLines int, verbose bool) []srt.Subtitle {
	result := make([]srt.Subtitle, 0, len(subs))
	reduced := 0

	for _, sub := range subs {
		if sub.LineCount() > maxLines {
			sub.Text = cps.ReduceLines(sub.Text, maxLines)
			reduced++
		}
		result = append(result, sub)
	}

	if verbose {
		fmt.Fprintf(env.Stderr, "Reduced %d entries to max %d lines\n", reduced, maxLines)
	}
	return result
}

// printSummary writes the end-of-run summary, pointing at the manual apply
// flow when segments remain above target without an API key.
func printSummary(env *Env, output string, subs []srt.Subtitle, segments []shorten.Segment, flags optimizeFlags) {
	stats := cps.Measure(subs, flags.maxCPS)
	if stats.HighCPSCount == 0 {
		fmt.Fprintf(env.Stderr, "All entries meet target CPS of %.1f\n", flags.maxCPS)
		return
	}

	fmt.Fprintf(env.Stderr, "%d entries still exceed target CPS of %.1f\n", stats.HighCPSCount, flags.maxCPS)
	if env.Getenv(EnvOpenAIAPIKey) == "" && flags.jsonPath != "" && len(segments) > 0 {
		fmt.Fprintf(env.Stderr, "Fill in shortened_text in %s, then run:\n", flags.jsonPath)
		fmt.Fprintf(env.Stderr, "  subopt apply %s %s\n", output, flags.jsonPath)
	}
}
