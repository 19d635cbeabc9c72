// Package words holds the interjection word lists. Lists are configuration
// data, not behavior: the built-in English set ships with the binary and a
// YAML file can replace it for other languages.
package words

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyList indicates a word-list file that defines no interjections.
var ErrEmptyList = errors.New("word list defines no interjections")

// List pairs removable interjections with the skip prefixes that veto a
// match ("Ohm" must not count as "Oh"). The order of Interjections is the
// matching priority order.
type List struct {
	Interjections    []string `yaml:"interjections"`
	SkipIfStartsWith []string `yaml:"skip_if_starts_with"`
}

// english is the default interjection set, ordered alphabetically as
// published in SubtitleEdit's English interjection data.
var english = List{
	Interjections: []string{
		"Ah", "Ahem", "Ahh", "Ahhh", "Ahhhh",
		"Eh", "Ehh", "Ehhh",
		"Er", "Err", "Erm",
		"Gah",
		"Hm", "Hmm", "Hmmm", "Hmmmm",
		"Huh",
		"Mm", "Mm-hmm", "Mm-hm", "Mmm", "Mmmm",
		"Nuh-uh",
		"Oh", "Ohh", "Ohhh",
		"Ow", "Oww", "Owww",
		"Pff", "Pfft", "Phew",
		"Tsk",
		"Ugh", "Ughh",
		"Uh", "Uhh", "Uhhh", "Uh-huh",
		"Um", "Umm", "Ummm",
		"Whew", "Wow",
	},
	SkipIfStartsWith: []string{
		"Ohm",
		"Uhura",
		"Uh-oh", // a real exclamation, not filler
	},
}

// Default returns a copy of the built-in English list. Callers own the
// returned slices and may append to them freely.
func Default() List {
	return List{
		Interjections:    append([]string(nil), english.Interjections...),
		SkipIfStartsWith: append([]string(nil), english.SkipIfStartsWith...),
	}
}

// Load reads a word list from a YAML file. Entries are trimmed and blank
// entries dropped; the file must define at least one interjection.
func Load(path string) (List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return List{}, fmt.Errorf("read word list: %w", err)
	}

	var list List
	if err := yaml.Unmarshal(data, &list); err != nil {
		return List{}, fmt.Errorf("parse word list %s: %w", path, err)
	}

	list.Interjections = cleanEntries(list.Interjections)
	list.SkipIfStartsWith = cleanEntries(list.SkipIfStartsWith)
	if len(list.Interjections) == 0 {
		return List{}, fmt.Errorf("%s: %w", path, ErrEmptyList)
	}
	return list, nil
}

func cleanEntries(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if trimmed := strings.TrimSpace(e); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
