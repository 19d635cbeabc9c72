package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/angelospk/eng-sub-translation-optimize/internal/config"
	"github.com/angelospk/eng-sub-translation-optimize/internal/shorten"
	"github.com/angelospk/eng-sub-translation-optimize/internal/srt"
)

// ApplyCmd creates the apply command.
// The env parameter provides injectable dependencies for testing.
func ApplyCmd(env *Env) *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "apply <subtitle-file> <segments-json>",
		Short: "Apply shortened segment texts from a JSON file",
		Long: `Apply shortened texts from a segments JSON file back into an SRT file.

The JSON file is produced by "optimize --json" and its shortened_text
fields are filled in externally, typically by pasting the segments into
an LLM chat. Entries are matched by index.`,
		Example: `  subopt apply optimized_show.srt high_cps.json
  subopt apply optimized_show.srt high_cps.json -o final_show.srt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(env, args[0], args[1], output, force)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output SRT file (default: applied_<input>)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite the output file if it exists")

	return cmd
}

// runApply loads the subtitle file and the staged segments, substitutes the
// shortened texts, and writes the reindexed result.
func runApply(env *Env, inputPath, jsonPath, output string, force bool) error {
	for _, p := range []string{inputPath, jsonPath} {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", ErrFileNotFound, p)
			}
			return fmt.Errorf("cannot access input file: %w", err)
		}
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}
	output = config.ResolveOutputPath(output, cfg.OutputDir, "applied_"+filepath.Base(inputPath))
	warnNonSRTExtension(env.Stderr, output)

	subs, err := srt.ParseFile(inputPath)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return fmt.Errorf("%w: %s", ErrNoSubtitles, inputPath)
	}

	segments, err := shorten.LoadJSON(jsonPath)
	if err != nil {
		return err
	}

	applied := 0
	for _, seg := range segments {
		if seg.ShortenedText != "" {
			applied++
		}
	}

	subs = srt.Reindex(shorten.Apply(subs, segments))

	var out strings.Builder
	if err := srt.Write(&out, subs); err != nil {
		return err
	}
	if err := writeFileAtomic(output, out.String(), force); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Applied %d of %d segments\n", applied, len(segments))
	fmt.Fprintf(env.Stderr, "Saved: %s (%d entries)\n", output, len(subs))
	return nil
}
