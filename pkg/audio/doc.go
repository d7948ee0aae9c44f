// Package audio provides audio processing utilities.
//
// This package serves as an umbrella for audio-related sub-packages:
//
//   - pcm: 16-bit PCM formats, decoded assets and the polyphonic mixer
//   - decode: loading WAV, MP3, Ogg Vorbis and FLAC files into pcm assets
//   - synth: procedurally rendered click sounds
//   - playback: output drivers that pull mixed audio from a pcm.Mixer
//
// Example usage:
//
//	import (
//	    "github.com/haivivi/clacker/pkg/audio/decode"
//	    "github.com/haivivi/clacker/pkg/audio/pcm"
//	    "github.com/haivivi/clacker/pkg/audio/playback"
//	)
//
//	format := pcm.L16Stereo48K
//	click, err := decode.File("click.wav", format)
//	if err != nil {
//	    return err
//	}
//
//	mx := pcm.NewMixer(format)
//	drv, err := playback.NewOto(mx, format, 10*time.Millisecond)
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//	drv.Start()
//
//	mx.Spawn(click, 0.8)
package audio
