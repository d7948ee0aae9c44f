package pcm

import (
	"fmt"
	"time"
)

// Asset is an immutable decoded sound. It is shared by every Voice that plays
// it and must outlive the Mixer that references it.
type Asset struct {
	name    string
	format  Format
	samples []int16
}

// NewAsset wraps interleaved samples in an Asset. The Asset takes ownership of
// samples; the caller must not modify the slice afterwards.
func NewAsset(name string, format Format, samples []int16) (*Asset, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("pcm: asset %q: invalid format", name)
	}
	if len(samples)%format.Channels() != 0 {
		return nil, fmt.Errorf("pcm: asset %q: %d samples is not a whole number of %d-channel frames",
			name, len(samples), format.Channels())
	}
	return &Asset{name: name, format: format, samples: samples}, nil
}

// Name returns the name the asset was created with, usually its file path.
func (a *Asset) Name() string {
	return a.name
}

// Format returns the PCM format of the asset.
func (a *Asset) Format() Format {
	return a.format
}

// Frames returns the number of frames in the asset.
func (a *Asset) Frames() int {
	return len(a.samples) / a.format.Channels()
}

// Len returns the number of interleaved samples in the asset.
func (a *Asset) Len() int {
	return len(a.samples)
}

// Duration returns the playing time of the asset.
func (a *Asset) Duration() time.Duration {
	return a.format.FramesDuration(a.Frames())
}

// Sample returns the i-th interleaved sample.
func (a *Asset) Sample(i int) int16 {
	return a.samples[i]
}

// Bytes returns the memory held by the sample data.
func (a *Asset) Bytes() int64 {
	return int64(len(a.samples)) * 2
}
