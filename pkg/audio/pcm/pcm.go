package pcm

import (
	"fmt"
	"time"
)

// Format describes interleaved signed 16-bit PCM at a fixed sample rate and
// channel count. The zero Format is invalid.
type Format struct {
	rate     int
	channels int
}

var (
	// L16Mono16K represents audio/L16; rate=16000; channels=1
	L16Mono16K = Format{rate: 16000, channels: 1}
	// L16Mono48K represents audio/L16; rate=48000; channels=1
	L16Mono48K = Format{rate: 48000, channels: 1}
	// L16Stereo44K1 represents audio/L16; rate=44100; channels=2
	L16Stereo44K1 = Format{rate: 44100, channels: 2}
	// L16Stereo48K represents audio/L16; rate=48000; channels=2
	L16Stereo48K = Format{rate: 48000, channels: 2}
)

// NewFormat returns the 16-bit format with the given sample rate and channel
// count. Only mono and stereo are supported.
func NewFormat(sampleRate, channels int) (Format, error) {
	if sampleRate < 8000 || sampleRate > 192000 {
		return Format{}, fmt.Errorf("pcm: sample rate %d out of range [8000, 192000]", sampleRate)
	}
	if channels != 1 && channels != 2 {
		return Format{}, fmt.Errorf("pcm: unsupported channel count %d", channels)
	}
	return Format{rate: sampleRate, channels: channels}, nil
}

// Valid reports whether f was built by NewFormat or is one of the predefined
// formats.
func (f Format) Valid() bool {
	return f.rate > 0 && (f.channels == 1 || f.channels == 2)
}

// SampleRate returns the sample rate in Hz for this format.
func (f Format) SampleRate() int {
	return f.rate
}

// Channels returns the number of audio channels for this format.
func (f Format) Channels() int {
	return f.channels
}

// Depth returns the bit depth for this format.
func (f Format) Depth() int {
	return 16
}

// FrameBytes returns the size of one frame in bytes.
func (f Format) FrameBytes() int {
	return f.channels * f.Depth() / 8
}

// FramesInDuration returns the number of frames in the given duration.
func (f Format) FramesInDuration(d time.Duration) int {
	return int(time.Duration(f.rate) * d / time.Second)
}

// BytesInDuration returns the number of bytes in the given duration.
func (f Format) BytesInDuration(d time.Duration) int64 {
	return int64(f.FramesInDuration(d)) * int64(f.FrameBytes())
}

// FramesDuration returns the playing time of the given number of frames.
func (f Format) FramesDuration(frames int) time.Duration {
	return time.Duration(frames) * time.Second / time.Duration(f.rate)
}

// BytesRate returns the byte rate of the audio data.
func (f Format) BytesRate() int {
	return f.rate * f.FrameBytes()
}

// String returns a human-readable string representation of the format.
func (f Format) String() string {
	return fmt.Sprintf("audio/L16; rate=%d; channels=%d", f.rate, f.channels)
}
