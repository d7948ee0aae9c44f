// Package config loads and validates the clacker configuration file.
//
// The file lives under os.UserConfigDir()/clacker/config.yaml:
//
//	~/Library/Application Support/clacker/config.yaml   (macOS)
//	~/.config/clacker/config.yaml                       (Linux)
//
// Every field is optional; missing fields keep their defaults.
//
//	sample_rate: 48000
//	channels: 2
//	buffer: 10ms
//	max_voices: 64
//	queue_size: 256
//	gain: 1.0
//	input:
//	  source: evdev        # evdev or terminal
//	  device: ""           # empty picks the first keyboard
//	  key_up: true
//	sounds:
//	  dir: ""              # empty means ~/.local/share/clacker
//	  builtin: false
//	  categories:
//	    enter-down:
//	      files: [enter.wav]
//	      gain: 1.0
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/haivivi/clacker/pkg/audio/pcm"
	"github.com/haivivi/clacker/pkg/soundpack"
)

// Input sources.
const (
	SourceEvdev    = "evdev"
	SourceTerminal = "terminal"
)

// Config is the clacker configuration.
type Config struct {
	SampleRate int     `yaml:"sample_rate" json:"sample_rate"`
	Channels   int     `yaml:"channels" json:"channels"`
	Buffer     string  `yaml:"buffer" json:"buffer"`
	MaxVoices  int     `yaml:"max_voices" json:"max_voices"`
	QueueSize  int     `yaml:"queue_size" json:"queue_size"`
	Gain       float32 `yaml:"gain" json:"gain"`
	Input      Input   `yaml:"input" json:"input"`
	Sounds     Sounds  `yaml:"sounds" json:"sounds"`
}

// Input selects where key events come from.
type Input struct {
	Source string `yaml:"source" json:"source"`
	Device string `yaml:"device,omitempty" json:"device,omitempty"`
	KeyUp  bool   `yaml:"key_up" json:"key_up"`
}

// Sounds selects the sound pack.
type Sounds struct {
	Dir        string                        `yaml:"dir,omitempty" json:"dir,omitempty"`
	Builtin    bool                          `yaml:"builtin" json:"builtin"`
	Categories map[string]soundpack.Category `yaml:"categories" json:"categories"`
}

// Default returns the default configuration: 48 kHz stereo with a 10ms
// device buffer, reading the first keyboard and the stock sound files.
func Default() *Config {
	return &Config{
		SampleRate: 48000,
		Channels:   2,
		Buffer:     "10ms",
		MaxVoices:  64,
		QueueSize:  256,
		Gain:       1,
		Input: Input{
			Source: SourceEvdev,
			KeyUp:  true,
		},
		Sounds: Sounds{
			Categories: soundpack.DefaultCategories(),
		},
	}
}

// LoadFrom reads the configuration file at path on top of the defaults. A
// missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(cfg.Sounds.Categories) == 0 {
		cfg.Sounds.Categories = soundpack.DefaultCategories()
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Format(); err != nil {
		errs = append(errs, err)
	}
	if d, err := time.ParseDuration(c.Buffer); err != nil {
		errs = append(errs, fmt.Errorf("buffer: %w", err))
	} else if d < time.Millisecond || d > time.Second {
		errs = append(errs, fmt.Errorf("buffer: %v out of range [1ms, 1s]", d))
	}
	if c.MaxVoices < 0 {
		errs = append(errs, fmt.Errorf("max_voices: must not be negative, got %d", c.MaxVoices))
	}
	if c.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("queue_size: must not be negative, got %d", c.QueueSize))
	}
	if !validGain(c.Gain) {
		errs = append(errs, fmt.Errorf("gain: %v out of range [0, %d]", c.Gain, pcm.MaxGain))
	}
	switch c.Input.Source {
	case SourceEvdev, SourceTerminal:
	default:
		errs = append(errs, fmt.Errorf("input.source: unknown source %q", c.Input.Source))
	}
	defaults := soundpack.DefaultCategories()
	for _, name := range slices.Sorted(maps.Keys(c.Sounds.Categories)) {
		if _, ok := defaults[name]; !ok {
			errs = append(errs, fmt.Errorf("sounds.categories: unknown category %q", name))
		}
		if g := c.Sounds.Categories[name].Gain; !validGain(g) {
			errs = append(errs, fmt.Errorf("sounds.categories.%s.gain: %v out of range [0, %d]", name, g, pcm.MaxGain))
		}
	}
	return errors.Join(errs...)
}

// Format returns the output format described by sample_rate and channels.
func (c *Config) Format() (pcm.Format, error) {
	f, err := pcm.NewFormat(c.SampleRate, c.Channels)
	if err != nil {
		return pcm.Format{}, fmt.Errorf("sample_rate/channels: %w", err)
	}
	return f, nil
}

// BufferDuration returns the parsed buffer duration.
func (c *Config) BufferDuration() (time.Duration, error) {
	return time.ParseDuration(c.Buffer)
}

// SoundPack returns the sound pack description, resolving an empty Dir to
// dataDir.
func (c *Config) SoundPack(dataDir string) soundpack.Config {
	dir := c.Sounds.Dir
	if dir == "" {
		dir = dataDir
	}
	return soundpack.Config{Dir: dir, Categories: c.Sounds.Categories}
}

func validGain(g float32) bool {
	return g >= 0 && g <= pcm.MaxGain
}
