package pcm

import "math"

// Voice is one in-progress playback of an Asset.
//
// The cursor indexes interleaved samples and only moves forward:
// 0 <= cursor <= asset.Len(). A Voice is finished when the cursor reaches the
// end of the asset.
type Voice struct {
	asset  *Asset
	cursor int
	gain   float32
}

func (v *Voice) remaining() int {
	return len(v.asset.samples) - v.cursor
}

func (v *Voice) done() bool {
	return v.cursor == len(v.asset.samples)
}

// mixInto adds the next min(len(acc), remaining) samples, scaled by the voice
// gain times master, into acc and advances the cursor past them.
func (v *Voice) mixInto(acc []int64, master float32) {
	src := v.asset.samples[v.cursor:]
	if len(src) > len(acc) {
		src = src[:len(acc)]
	}
	v.cursor += len(src)

	g := float64(v.gain) * float64(master)
	switch g {
	case 0:
	case 1:
		for i, s := range src {
			acc[i] += int64(s)
		}
	default:
		for i, s := range src {
			acc[i] += int64(math.Round(float64(s) * g))
		}
	}
}

// clip saturates each accumulated value to the int16 range and stores it in
// dst. It returns the number of values that had to be saturated.
func clip(dst []int16, acc []int64) (clipped int) {
	for i, v := range acc {
		switch {
		case v > math.MaxInt16:
			dst[i] = math.MaxInt16
			clipped++
		case v < math.MinInt16:
			dst[i] = math.MinInt16
			clipped++
		default:
			dst[i] = int16(v)
		}
	}
	return clipped
}
