package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// warnNonSRTExtension writes a warning to w if path has an extension that is
// not .srt. This alerts users that the output will be SRT regardless of the
// file extension they specified.
func warnNonSRTExtension(w io.Writer, path string) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && ext != ".srt" {
		_, _ = fmt.Fprintf(w, "Warning: output is SRT regardless of %s extension\n", ext)
	}
}

// deriveOutputPath converts an input subtitle path to the default output
// name. Example: "show.srt" -> "optimized_show.srt"
func deriveOutputPath(inputPath string) string {
	return "optimized_" + filepath.Base(inputPath)
}

// writeFileAtomic writes content to path.
// Unless force is set, it fails if the file already exists (O_EXCL),
// preventing accidental overwrites. On write failure, the partial file is
// removed.
func writeFileAtomic(path, content string, force bool) error {
	flags := os.O_CREATE | os.O_EXCL | os.O_WRONLY
	if force {
		flags = os.O_CREATE | os.O_TRUNC | os.O_WRONLY
	}

	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s (use --force to overwrite): %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.WriteString(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}

	return nil
}
