package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/haivivi/clacker/pkg/audio/pcm"
	"github.com/haivivi/clacker/pkg/soundpack"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	f, err := cfg.Format()
	if err != nil || f != pcm.L16Stereo48K {
		t.Fatalf("Format() = %v, %v", f, err)
	}
	if d, err := cfg.BufferDuration(); err != nil || d != 10*time.Millisecond {
		t.Fatalf("BufferDuration() = %v, %v", d, err)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SampleRate != 48000 || cfg.Input.Source != SourceEvdev || !cfg.Input.KeyUp {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
buffer: 20ms
input:
  source: terminal
sounds:
  dir: /opt/clacker
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Buffer != "20ms" || cfg.Input.Source != SourceTerminal {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.SampleRate != 48000 || cfg.MaxVoices != 64 || !cfg.Input.KeyUp {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if len(cfg.Sounds.Categories) != 8 {
		t.Fatalf("categories = %v", cfg.Sounds.Categories)
	}
	if sp := cfg.SoundPack("/home/u/.local/share/clacker"); sp.Dir != "/opt/clacker" {
		t.Fatalf("SoundPack().Dir = %q", sp.Dir)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("sample_rate: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Gain = 0.5
	cfg.Input.Device = "/dev/input/event3"
	cfg.Sounds.Categories = map[string]soundpack.Category{
		soundpack.SpaceDown: {Files: []string{"thock.wav"}, Gain: 1.5},
	}
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Gain != 0.5 || got.Input.Device != "/dev/input/event3" {
		t.Fatalf("round trip lost fields: %+v", got)
	}
	c, ok := got.Sounds.Categories[soundpack.SpaceDown]
	if !ok || c.Gain != 1.5 || c.Files[0] != "thock.wav" {
		t.Fatalf("categories = %+v", got.Sounds.Categories)
	}
}

func TestSoundPackDefaultDir(t *testing.T) {
	sp := Default().SoundPack("/data/clacker")
	if sp.Dir != "/data/clacker" {
		t.Fatalf("Dir = %q", sp.Dir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"sample rate", func(c *Config) { c.SampleRate = 1000 }, "sample_rate"},
		{"channels", func(c *Config) { c.Channels = 6 }, "channels"},
		{"buffer syntax", func(c *Config) { c.Buffer = "ten" }, "buffer"},
		{"buffer range", func(c *Config) { c.Buffer = "5s" }, "buffer"},
		{"max voices", func(c *Config) { c.MaxVoices = -1 }, "max_voices"},
		{"queue size", func(c *Config) { c.QueueSize = -1 }, "queue_size"},
		{"gain", func(c *Config) { c.Gain = 20 }, "gain"},
		{"source", func(c *Config) { c.Input.Source = "midi" }, "input.source"},
		{"category name", func(c *Config) {
			c.Sounds.Categories["tab-down"] = soundpack.Category{Files: []string{"tab.wav"}}
		}, "tab-down"},
		{"category gain", func(c *Config) {
			c.Sounds.Categories[soundpack.EnterDown] = soundpack.Category{Files: []string{"enter.wav"}, Gain: -1}
		}, "enter-down.gain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
