// Package wordbank loads the practice word bank from a TOML file.
package wordbank

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/lmersch/sprooch/internal/model"
)

// ErrUnknownWord indicates a word with no entry in the bank.
var ErrUnknownWord = errors.New("wordbank: unknown word")

type fileBank struct {
	Words map[string]entry `toml:"words"`
}

type entry struct {
	Translation string `toml:"translation"`
	Category    string `toml:"category"`
	Audio       string `toml:"audio"`
}

// Bank is the practice word pool with reference audio locations.
type Bank struct {
	words map[string]model.WordInfo
}

// Load reads a word bank file.
func Load(path string) (*Bank, error) {
	var raw fileBank
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode word bank: %w", err)
	}
	if len(raw.Words) == 0 {
		return nil, fmt.Errorf("word bank %s is empty", path)
	}

	words := make(map[string]model.WordInfo, len(raw.Words))
	for word, e := range raw.Words {
		words[word] = model.WordInfo{
			Word:        word,
			Translation: e.Translation,
			Category:    e.Category,
			AudioURL:    e.Audio,
		}
	}
	return &Bank{words: words}, nil
}

// Lookup returns the entry for a word. Unknown words fail explicitly; the
// engine never substitutes a default for a missing reference.
func (b *Bank) Lookup(word string) (model.WordInfo, error) {
	info, ok := b.words[word]
	if !ok {
		return model.WordInfo{}, fmt.Errorf("%w: %q", ErrUnknownWord, word)
	}
	return info, nil
}

// Words returns every entry, sorted by word.
func (b *Bank) Words() []model.WordInfo {
	out := make([]model.WordInfo, 0, len(b.words))
	for _, info := range b.words {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}

// Eligible returns the entries with a reference recording configured, the
// only words a session may sample.
func (b *Bank) Eligible() []model.WordInfo {
	out := make([]model.WordInfo, 0, len(b.words))
	for _, info := range b.Words() {
		if info.HasReference() {
			out = append(out, info)
		}
	}
	return out
}

// EnsureDefault writes the starter word bank when the file does not exist.
func EnsureDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat word bank: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create word bank directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultBank), 0o644); err != nil {
		return fmt.Errorf("failed to write word bank: %w", err)
	}
	return nil
}

// Starter vocabulary with lod.lu reference pronunciations.
const defaultBank = `# sprooch word bank
# Each word needs a translation, a category, and optionally an audio URL or
# file path for the reference pronunciation. Words without audio are listed
# but never sampled for practice.

[words.moien]
translation = "hello"
category = "greetings"
audio = "https://lod.lu/uploads/examples/OGG/9b/9bb3ff56b0168aa51fe1737239761208.ogg"

[words.addi]
translation = "goodbye"
category = "greetings"
audio = ""

[words.merci]
translation = "thank you"
category = "courtesy"
audio = ""

[words."wann ech glift"]
translation = "please"
category = "courtesy"
audio = ""

[words.jo]
translation = "yes"
category = "basics"
audio = ""

[words.neen]
translation = "no"
category = "basics"
audio = ""

[words.waasser]
translation = "water"
category = "food"
audio = ""

[words.brout]
translation = "bread"
category = "food"
audio = ""

[words.haus]
translation = "house"
category = "places"
audio = ""

[words.schoul]
translation = "school"
category = "places"
audio = ""
`
