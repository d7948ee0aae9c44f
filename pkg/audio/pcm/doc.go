// Package pcm mixes short 16-bit PCM sounds for real-time playback.
//
// Key types:
//   - Format: sample rate and channel count of interleaved 16-bit PCM
//   - Asset: an immutable decoded sound shared by every playback of it
//   - Voice: one in-progress playback, a cursor into an Asset plus a gain
//   - Mixer: the registry of live voices and the frame producer
//
// The Mixer is driven from two sides. Trigger handlers call Spawn from any
// goroutine; the audio device callback calls Produce (or Read) from a single
// goroutine at its own cadence. Spawn hands voices over through a lock-free
// bounded queue, so the audio side never waits on the trigger side.
//
// Each Produce call sums every live voice into a 64-bit accumulator, hard
// clips the sum to [-32768, 32767] and retires voices that reached the end
// of their asset. A voice whose asset ends inside the requested span
// contributes its remaining samples and the rest of the span is silence from
// that voice.
//
// Example usage:
//
//	mx := pcm.NewMixer(pcm.L16Stereo48K, pcm.WithMaxVoices(32))
//
//	// trigger goroutine
//	if err := mx.Spawn(click, 0.8); err != nil {
//	    slog.Debug("click dropped", "error", err)
//	}
//
//	// audio callback
//	frames := mx.Produce(480)
package pcm
