// Package soundpack loads the per-category sound assets a trigger picks
// from.
//
// A pack maps categories such as "enter-down" to one or more decoded assets
// plus a gain. Packs are loaded from a directory of audio files, or
// synthesised with Builtin when no files are installed.
package soundpack

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"time"

	"github.com/haivivi/clacker/pkg/audio/decode"
	"github.com/haivivi/clacker/pkg/audio/pcm"
)

// Categories that the trigger sources emit.
const (
	GenericDown   = "generic-down"
	GenericUp     = "generic-up"
	EnterDown     = "enter-down"
	EnterUp       = "enter-up"
	BackspaceDown = "backspace-down"
	BackspaceUp   = "backspace-up"
	SpaceDown     = "space-down"
	SpaceUp       = "space-up"
)

// ErrNoSounds is returned by Load when no category lists any file.
var ErrNoSounds = errors.New("soundpack: no sounds configured")

// Category lists the files played for one category and the gain they are
// played at. A zero gain means unity.
type Category struct {
	Files []string `yaml:"files" json:"files"`
	Gain  float32  `yaml:"gain,omitempty" json:"gain,omitempty"`
}

// Config describes a pack on disk. Relative file names are resolved against
// Dir.
type Config struct {
	Dir        string              `yaml:"dir" json:"dir"`
	Categories map[string]Category `yaml:"categories" json:"categories"`
}

// DefaultCategories returns the stock file layout: two interchangeable
// samples for ordinary keys and a dedicated sample for Enter, Backspace and
// Space, each with a separate release sound.
func DefaultCategories() map[string]Category {
	return map[string]Category{
		GenericDown:   {Files: []string{"fallback.wav", "fallback2.wav"}},
		GenericUp:     {Files: []string{"fallback-up.wav", "fallback2-up.wav"}},
		EnterDown:     {Files: []string{"enter.wav"}},
		EnterUp:       {Files: []string{"enter-up.wav"}},
		BackspaceDown: {Files: []string{"backspace.wav"}},
		BackspaceUp:   {Files: []string{"backspace-up.wav"}},
		SpaceDown:     {Files: []string{"spacebar.wav"}},
		SpaceUp:       {Files: []string{"spacebar-up.wav"}},
	}
}

// Entry describes one loaded asset.
type Entry struct {
	Category string        `yaml:"category" json:"category"`
	Name     string        `yaml:"name" json:"name"`
	Frames   int           `yaml:"frames" json:"frames"`
	Duration time.Duration `yaml:"duration" json:"duration"`
	Gain     float32       `yaml:"gain" json:"gain"`
}

type category struct {
	assets []*pcm.Asset
	gain   float32
}

// Table maps categories to assets. A Table is immutable once built and safe
// for concurrent use.
type Table struct {
	format     pcm.Format
	categories map[string]category
}

// Load decodes every file of every category in cfg into format f. A missing
// or undecodable file fails the whole load and the error names the file.
func Load(cfg Config, f pcm.Format) (*Table, error) {
	tbl := &Table{format: f, categories: make(map[string]category, len(cfg.Categories))}
	for _, name := range slices.Sorted(maps.Keys(cfg.Categories)) {
		c := cfg.Categories[name]
		if len(c.Files) == 0 {
			continue
		}
		gain := c.Gain
		if gain == 0 {
			gain = 1
		}
		cat := category{gain: gain}
		for _, file := range c.Files {
			path := file
			if !filepath.IsAbs(path) {
				path = filepath.Join(cfg.Dir, path)
			}
			a, err := decode.File(path, f)
			if err != nil {
				return nil, fmt.Errorf("soundpack: category %s: %w", name, err)
			}
			cat.assets = append(cat.assets, a)
		}
		tbl.categories[name] = cat
	}
	if len(tbl.categories) == 0 {
		return nil, ErrNoSounds
	}
	return tbl, nil
}

// Format returns the format every asset of the table is in.
func (t *Table) Format() pcm.Format {
	return t.format
}

// Pick returns a uniformly chosen asset of the category and the gain to play
// it at. ok is false for a category with no assets.
func (t *Table) Pick(name string) (asset *pcm.Asset, gain float32, ok bool) {
	c, found := t.categories[name]
	if !found || len(c.assets) == 0 {
		return nil, 0, false
	}
	if len(c.assets) == 1 {
		return c.assets[0], c.gain, true
	}
	return c.assets[rand.IntN(len(c.assets))], c.gain, true
}

// Categories returns the sorted category names present in the table.
func (t *Table) Categories() []string {
	return slices.Sorted(maps.Keys(t.categories))
}

// Entries describes every asset in the table, ordered by category.
func (t *Table) Entries() []Entry {
	var entries []Entry
	for _, name := range t.Categories() {
		c := t.categories[name]
		for _, a := range c.assets {
			entries = append(entries, Entry{
				Category: name,
				Name:     a.Name(),
				Frames:   a.Frames(),
				Duration: a.Duration(),
				Gain:     c.gain,
			})
		}
	}
	return entries
}

// Bytes returns the memory held by all decoded assets.
func (t *Table) Bytes() int64 {
	var n int64
	for _, c := range t.categories {
		for _, a := range c.assets {
			n += a.Bytes()
		}
	}
	return n
}
