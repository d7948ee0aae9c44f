package soundpack

import (
	"time"

	"github.com/haivivi/clacker/pkg/audio/pcm"
	"github.com/haivivi/clacker/pkg/audio/synth"
)

// builtinClicks are the synthetic stand-ins for the stock sample files.
// Releases are shorter and quieter than presses; big keys sit lower.
var builtinClicks = map[string][]synth.Click{
	GenericDown: {
		{Freq: 2100, Duration: 28 * time.Millisecond, Noise: 0.6, Decay: 70, Volume: 0.7, Seed: 1},
		{Freq: 2350, Duration: 26 * time.Millisecond, Noise: 0.65, Decay: 75, Volume: 0.7, Seed: 2},
	},
	GenericUp: {
		{Freq: 2600, Duration: 18 * time.Millisecond, Noise: 0.7, Decay: 110, Volume: 0.4, Seed: 3},
		{Freq: 2800, Duration: 16 * time.Millisecond, Noise: 0.7, Decay: 120, Volume: 0.4, Seed: 4},
	},
	EnterDown:     {{Freq: 1400, Duration: 45 * time.Millisecond, Noise: 0.5, Decay: 45, Volume: 0.8, Seed: 5}},
	EnterUp:       {{Freq: 1700, Duration: 25 * time.Millisecond, Noise: 0.6, Decay: 90, Volume: 0.45, Seed: 6}},
	BackspaceDown: {{Freq: 1800, Duration: 35 * time.Millisecond, Noise: 0.55, Decay: 60, Volume: 0.75, Seed: 7}},
	BackspaceUp:   {{Freq: 2100, Duration: 20 * time.Millisecond, Noise: 0.65, Decay: 100, Volume: 0.4, Seed: 8}},
	SpaceDown:     {{Freq: 900, Duration: 55 * time.Millisecond, Noise: 0.45, Decay: 35, Volume: 0.85, Seed: 9}},
	SpaceUp:       {{Freq: 1100, Duration: 30 * time.Millisecond, Noise: 0.55, Decay: 80, Volume: 0.5, Seed: 10}},
}

// Builtin synthesises a pack covering every category in format f.
func Builtin(f pcm.Format) (*Table, error) {
	tbl := &Table{format: f, categories: make(map[string]category, len(builtinClicks))}
	for name, clicks := range builtinClicks {
		cat := category{gain: 1}
		for _, c := range clicks {
			a, err := c.Asset("builtin/"+name, f)
			if err != nil {
				return nil, err
			}
			cat.assets = append(cat.assets, a)
		}
		tbl.categories[name] = cat
	}
	return tbl, nil
}
