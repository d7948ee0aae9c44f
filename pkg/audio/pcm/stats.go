package pcm

import "sync/atomic"

// Stats is a snapshot of mixer counters. Counters only grow; Live and Pending
// are gauges. Reading them never disturbs the audio goroutine.
type Stats struct {
	// Spawned is the number of voices accepted by Spawn.
	Spawned uint64 `json:"spawned" yaml:"spawned"`
	// Rejected counts Spawn calls refused for an invalid asset or gain.
	Rejected uint64 `json:"rejected" yaml:"rejected"`
	// Dropped counts Spawn calls refused because the queue was full.
	Dropped uint64 `json:"dropped" yaml:"dropped"`
	// Stolen counts voices retired early by the polyphony limit.
	Stolen uint64 `json:"stolen" yaml:"stolen"`
	// Finished counts voices that played to the end.
	Finished uint64 `json:"finished" yaml:"finished"`

	Calls   uint64 `json:"calls" yaml:"calls"`
	Frames  uint64 `json:"frames" yaml:"frames"`
	Clipped uint64 `json:"clipped" yaml:"clipped"`
	// Growths counts scratch buffer reallocations inside Produce.
	Growths uint64 `json:"growths" yaml:"growths"`

	Live    int `json:"live" yaml:"live"`
	Pending int `json:"pending" yaml:"pending"`
}

type mixerStats struct {
	spawned  atomic.Uint64
	rejected atomic.Uint64
	dropped  atomic.Uint64
	stolen   atomic.Uint64
	finished atomic.Uint64
	calls    atomic.Uint64
	frames   atomic.Uint64
	clipped  atomic.Uint64
	growths  atomic.Uint64
	live     atomic.Int64
}

// Stats returns a snapshot of the mixer counters. It is safe to call from
// any goroutine.
func (mx *Mixer) Stats() Stats {
	return Stats{
		Spawned:  mx.stats.spawned.Load(),
		Rejected: mx.stats.rejected.Load(),
		Dropped:  mx.stats.dropped.Load(),
		Stolen:   mx.stats.stolen.Load(),
		Finished: mx.stats.finished.Load(),
		Calls:    mx.stats.calls.Load(),
		Frames:   mx.stats.frames.Load(),
		Clipped:  mx.stats.clipped.Load(),
		Growths:  mx.stats.growths.Load(),
		Live:     int(mx.stats.live.Load()),
		Pending:  mx.pending.Len(),
	}
}
