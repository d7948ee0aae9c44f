package pcm

import (
	"errors"
	"math"
	"slices"
	"testing"

	"pgregory.net/rapid"
)

func drawFormat(t *rapid.T) Format {
	return rapid.SampledFrom([]Format{L16Mono16K, L16Mono48K, L16Stereo48K}).Draw(t, "format")
}

func drawAsset(t *rapid.T, f Format, label string) *Asset {
	frames := rapid.IntRange(0, 64).Draw(t, label+"_frames")
	samples := rapid.SliceOfN(rapid.Int16(), frames*f.Channels(), frames*f.Channels()).Draw(t, label+"_samples")
	a, err := NewAsset(label, f, samples)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// A single unity-gain voice is reproduced exactly, followed by silence, no
// matter how the output is chunked.
func TestPropSingleVoiceVerbatim(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := drawFormat(t)
		a := drawAsset(t, f, "asset")
		mx := NewMixer(f)
		if err := mx.Spawn(a, 1); err != nil {
			t.Fatal(err)
		}

		var got []int16
		for len(got) < a.Len()+8*f.Channels() {
			got = append(got, mx.Produce(rapid.IntRange(0, 17).Draw(t, "frames"))...)
		}
		for i := range got {
			want := int16(0)
			if i < a.Len() {
				want = a.Sample(i)
			}
			if got[i] != want {
				t.Fatalf("sample %d = %d, want %d", i, got[i], want)
			}
		}
		if mx.Stats().Live != 0 {
			t.Fatalf("voice still live after %d samples", len(got))
		}
	})
}

// Cursors never run past the end of their asset, and a voice is retired in
// the same call that consumes its last sample.
func TestPropCursorBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := drawFormat(t)
		mx := NewMixer(f, WithMaxVoices(0))
		t.Repeat(map[string]func(*rapid.T){
			"spawn": func(t *rapid.T) {
				a := drawAsset(t, f, "asset")
				gain := rapid.Float32Range(0, MaxGain).Draw(t, "gain")
				if err := mx.Spawn(a, gain); err != nil && !errors.Is(err, ErrQueueFull) {
					t.Fatal(err)
				}
			},
			"produce": func(t *rapid.T) {
				mx.Produce(rapid.IntRange(0, 40).Draw(t, "frames"))
				for _, v := range mx.live {
					if v.cursor < 0 || v.cursor >= v.asset.Len() {
						t.Fatalf("live voice cursor %d outside [0, %d)", v.cursor, v.asset.Len())
					}
					if v.cursor%f.Channels() != 0 {
						t.Fatalf("cursor %d not on a frame boundary", v.cursor)
					}
				}
			},
		})
	})
}

// Output depends only on the set of voices, not on the order they were
// spawned in, and equals the saturated sum of every scaled voice.
func TestPropOrderIndependentSum(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := drawFormat(t)
		n := rapid.IntRange(1, 8).Draw(t, "voices")
		assets := make([]*Asset, n)
		gains := make([]float32, n)
		for i := range n {
			assets[i] = drawAsset(t, f, "asset")
			gains[i] = rapid.SampledFrom([]float32{0, 0.25, 0.5, 1, 1.5, 2, MaxGain}).Draw(t, "gain")
		}
		frames := rapid.IntRange(1, 80).Draw(t, "frames")

		order := rapid.Permutation(indexes(n)).Draw(t, "order")
		a := NewMixer(f, WithMaxVoices(0))
		b := NewMixer(f, WithMaxVoices(0))
		for i := range n {
			if err := a.Spawn(assets[i], gains[i]); err != nil {
				t.Fatal(err)
			}
			j := order[i]
			if err := b.Spawn(assets[j], gains[j]); err != nil {
				t.Fatal(err)
			}
		}
		outA := a.Produce(frames)
		outB := b.Produce(frames)
		if !slices.Equal(outA, outB) {
			t.Fatalf("order changed output:\n%v\n%v", outA, outB)
		}

		for i, got := range outA {
			var sum int64
			for k, as := range assets {
				if i < as.Len() {
					sum += scaled(as.Sample(i), gains[k])
				}
			}
			if want := saturate(sum); got != want {
				t.Fatalf("sample %d = %d, want %d", i, got, want)
			}
		}
	})
}

func indexes(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

func scaled(s int16, g float32) int64 {
	switch g {
	case 0:
		return 0
	case 1:
		return int64(s)
	}
	return int64(math.Round(float64(s) * float64(g)))
}

func saturate(v int64) int16 {
	return int16(max(math.MinInt16, min(math.MaxInt16, v)))
}
