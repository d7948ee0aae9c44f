// Package engine runs the keyboard sound loop: a trigger source feeds a
// dispatcher, the dispatcher spawns voices on a mixer, and a playback driver
// pulls the mixed frames.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/clacker/pkg/audio/pcm"
	"github.com/haivivi/clacker/pkg/audio/playback"
	"github.com/haivivi/clacker/pkg/soundpack"
	"github.com/haivivi/clacker/pkg/trigger"
)

// Config holds the engine settings.
type Config struct {
	Format    pcm.Format
	Buffer    time.Duration // device buffer, also the headless period
	MaxVoices int
	QueueSize int
	Gain      float32 // master gain; zero mutes

	// StatsInterval is how often mixer stats are logged at debug level.
	// Zero disables periodic stats.
	StatsInterval time.Duration

	// Linger is how long shutdown waits for voices still playing before
	// stopping the driver.
	Linger time.Duration
}

// DriverFunc builds the playback driver for a mixer.
type DriverFunc func(mx *pcm.Mixer, cfg Config) (playback.Driver, error)

// OtoDriver plays through the default output device.
func OtoDriver(mx *pcm.Mixer, cfg Config) (playback.Driver, error) {
	return playback.NewOto(mx, cfg.Format, cfg.Buffer)
}

// HeadlessDriver runs the mixer on a wall-clock ticker without a device.
func HeadlessDriver(mx *pcm.Mixer, cfg Config) (playback.Driver, error) {
	return playback.NewHeadless(mx, cfg.Format, cfg.Buffer), nil
}

// Stats is a snapshot of an engine run.
type Stats struct {
	Session string    `json:"session" yaml:"session"`
	Events  uint64    `json:"events" yaml:"events"`
	Dropped uint64    `json:"dropped" yaml:"dropped"`
	Mixer   pcm.Stats `json:"mixer" yaml:"mixer"`
}

// Engine wires a sound table, a trigger source, a mixer and a driver.
type Engine struct {
	cfg     Config
	session string
	table   *soundpack.Table
	source  trigger.Source
	driver  DriverFunc

	mixer      *pcm.Mixer
	dispatcher *trigger.Dispatcher
}

// New creates an engine. The table must be in cfg.Format.
func New(cfg Config, table *soundpack.Table, source trigger.Source, driver DriverFunc) (*Engine, error) {
	if !cfg.Format.Valid() {
		return nil, errors.New("engine: invalid format")
	}
	if table.Format() != cfg.Format {
		return nil, fmt.Errorf("engine: sound table is %s, output is %s", table.Format(), cfg.Format)
	}
	if cfg.Buffer <= 0 {
		return nil, fmt.Errorf("engine: buffer must be positive, got %v", cfg.Buffer)
	}
	if driver == nil {
		driver = OtoDriver
	}

	opts := []pcm.MixerOption{
		pcm.WithMaxVoices(cfg.MaxVoices),
		pcm.WithBufferFrames(cfg.Format.FramesInDuration(cfg.Buffer)),
	}
	if cfg.QueueSize > 0 {
		opts = append(opts, pcm.WithQueueSize(cfg.QueueSize))
	}
	mx := pcm.NewMixer(cfg.Format, opts...)
	if err := mx.SetGain(cfg.Gain); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	return &Engine{
		cfg:        cfg,
		session:    uuid.NewString(),
		table:      table,
		source:     source,
		driver:     driver,
		mixer:      mx,
		dispatcher: trigger.NewDispatcher(table, mx),
	}, nil
}

// Session returns the id tagging this engine's log lines.
func (e *Engine) Session() string {
	return e.session
}

// Mixer returns the engine's mixer.
func (e *Engine) Mixer() *pcm.Mixer {
	return e.mixer
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Session: e.session,
		Events:  e.dispatcher.Handled(),
		Dropped: e.dispatcher.Dropped(),
		Mixer:   e.mixer.Stats(),
	}
}

// Run plays sounds for source events until ctx is done or the source ends.
// It returns the source's error, if any. On return the driver has stopped
// and no longer reads the mixer.
func (e *Engine) Run(ctx context.Context) error {
	log := slog.With("session", e.session)

	drv, err := e.driver(e.mixer, e.cfg)
	if err != nil {
		return err
	}
	if err := drv.Start(); err != nil {
		drv.Close()
		return err
	}
	log.Info("engine started",
		"format", e.cfg.Format.String(),
		"buffer", e.cfg.Buffer,
		"sounds", len(e.table.Entries()),
		"memory", e.table.Bytes())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if e.cfg.StatsInterval > 0 {
		go e.logStats(ctx, log)
	}

	srcErr := e.source.Run(ctx, e.dispatcher.Handle)
	cancel()

	e.shutdown(drv)
	st := e.Stats()
	log.Info("engine stopped",
		"events", st.Events,
		"dropped", st.Dropped,
		"spawned", st.Mixer.Spawned,
		"clipped", st.Mixer.Clipped)
	return srcErr
}

// shutdown stops new voices, lets the current ones ring out for up to
// Linger, then stops the driver.
func (e *Engine) shutdown(drv playback.Driver) {
	e.mixer.Close()
	deadline := time.Now().Add(e.cfg.Linger)
	for time.Now().Before(deadline) {
		if st := e.mixer.Stats(); st.Live == 0 && st.Pending == 0 {
			break
		}
		time.Sleep(e.cfg.Buffer)
	}
	if err := drv.Close(); err != nil {
		slog.Warn("close playback driver", "error", err)
	}
}

func (e *Engine) logStats(ctx context.Context, log *slog.Logger) {
	ticker := time.NewTicker(e.cfg.StatsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := e.mixer.Stats()
			log.Debug("mixer stats",
				"live", st.Live,
				"pending", st.Pending,
				"spawned", st.Spawned,
				"dropped", st.Dropped,
				"stolen", st.Stolen,
				"clipped", st.Clipped,
				"calls", st.Calls)
		}
	}
}
