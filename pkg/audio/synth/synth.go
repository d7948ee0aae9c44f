// Package synth renders short percussive key clicks so the program can make
// noise without any sound files installed.
package synth

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/haivivi/clacker/pkg/audio/pcm"
)

// Click describes a synthetic key click: a damped tone body with a burst of
// noise at the attack.
type Click struct {
	Freq     float64       // body tone in Hz
	Duration time.Duration // total length including the release
	Noise    float64       // share of the noise burst, 0.0-1.0
	Decay    float64       // body decay rate per second
	Volume   float64       // peak level, 0.0-1.0
	Seed     uint64        // noise seed; equal seeds render equal clicks
}

// Key click harmonic structure. Higher partials decay faster so the click
// darkens as it fades.
var partials = []struct {
	ratio     float64
	amplitude float64
	decay     float64
}{
	{1.0, 1.0, 1.0},
	{2.0, 0.5, 1.6},
	{3.1, 0.3, 2.4},
	{4.7, 0.15, 3.5},
}

const attackTime = 0.001 // 1ms

// Render renders the click in format f as interleaved samples. Every channel
// carries the same signal.
func (c Click) Render(f pcm.Format) []int16 {
	frames := f.FramesInDuration(c.Duration)
	ch := f.Channels()
	data := make([]int16, frames*ch)
	if frames == 0 {
		return data
	}

	rate := float64(f.SampleRate())
	rng := rand.New(rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15))
	noise := clamp(c.Noise, 0, 1)
	duration := float64(frames) / rate

	for i := range frames {
		t := float64(i) / rate

		var body float64
		for _, p := range partials {
			body += p.amplitude * math.Exp(-t*c.Decay*p.decay) * math.Sin(2*math.Pi*c.Freq*p.ratio*t)
		}
		body /= 1.95

		// The noise burst dies out within a few milliseconds.
		burst := (rng.Float64()*2 - 1) * math.Exp(-t*900)

		sample := (1-noise)*body + noise*burst
		sample *= c.Volume * envelope(t, duration)

		v := int16(clamp(sample, -1, 1) * 32767 * 0.9)
		for k := range ch {
			data[i*ch+k] = v
		}
	}
	return data
}

// Asset renders the click into a named pcm.Asset.
func (c Click) Asset(name string, f pcm.Format) (*pcm.Asset, error) {
	return pcm.NewAsset(name, f, c.Render(f))
}

// envelope is a fast attack followed by a short linear release over the last
// fifth of the click, so every click ends on silence.
func envelope(t, duration float64) float64 {
	if t < attackTime {
		return 1 - math.Exp(-5*t/attackTime)
	}
	releaseStart := duration * 0.8
	if t < releaseStart {
		return 1
	}
	return max(0, 1-(t-releaseStart)/(duration-releaseStart))
}

func clamp(value, lo, hi float64) float64 {
	return max(lo, min(hi, value))
}
