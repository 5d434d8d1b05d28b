package player

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

const (
	defaultTickInterval = 250 * time.Millisecond
	eventQueueSize      = 64
	resampleQuality     = 4
)

// ErrNoSource is reported through an error event when Load runs without a source.
var ErrNoSource = errors.New("no source set")

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// initSpeaker initializes the speaker once per process with the first track's
// sample rate and returns the rate every later track must be resampled to.
func initSpeaker(sr beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if !speakerInitialized {
		if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
			return 0, err
		}
		speakerSampleRate = sr
		speakerInitialized = true
	}
	return speakerSampleRate, nil
}

// BeepOption configures a Beep handle.
type BeepOption func(*Beep)

// WithHTTPClient sets the client used to fetch http(s) sources.
func WithHTTPClient(c *http.Client) BeepOption {
	return func(b *Beep) { b.client = c }
}

// WithMaxSourceBytes caps how much of a source Load reads into memory.
func WithMaxSourceBytes(n int64) BeepOption {
	return func(b *Beep) { b.maxSource = n }
}

// WithLogger sets the handle's logger.
func WithLogger(l zerolog.Logger) BeepOption {
	return func(b *Beep) { b.log = l }
}

// Beep is a Handle that decodes MP3, FLAC, WAV and Ogg Vorbis sources with
// beep and plays them on the default speaker.
//
// Loading is asynchronous: Load emits loadstart immediately and
// loadedmetadata/canplay (or error) once the source has been fetched and
// decoded. A Play issued before that is remembered and honoured when the
// source becomes ready.
type Beep struct {
	listeners listenerSet
	client    *http.Client
	log       zerolog.Logger
	tick      time.Duration
	maxSource int64

	queue     chan Event
	done      chan struct{}
	closeOnce sync.Once

	mu         sync.Mutex
	src        string
	gen        uint64 // bumped whenever the loaded source is discarded
	cancelLoad context.CancelFunc
	streamer   beep.StreamSeekCloser
	format     beep.Format
	ctrl       *beep.Ctrl
	started    bool // ctrl has been handed to the speaker
	playing    bool // audio is flowing
	paused     bool
	stopTick   chan struct{}
}

// NewBeep creates a Beep handle. Close releases it.
func NewBeep(opts ...BeepOption) *Beep {
	b := &Beep{
		client: http.DefaultClient,
		log:    zerolog.Nop(),
		tick:      defaultTickInterval,
		maxSource: DefaultMaxSourceBytes,
		queue:     make(chan Event, eventQueueSize),
		done:      make(chan struct{}),
		paused:    true,
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.run()
	return b
}

// run delivers queued events one at a time so listeners see them in order.
func (b *Beep) run() {
	for {
		select {
		case ev := <-b.queue:
			b.listeners.dispatch(ev)
		case <-b.done:
			return
		}
	}
}

// emit must be called without b.mu held.
func (b *Beep) emit(kind EventKind, err error) {
	ev := Event{
		Kind:        kind,
		Duration:    b.Duration(),
		CurrentTime: b.CurrentTime(),
		Err:         err,
		At:          time.Now(),
	}
	select {
	case b.queue <- ev:
	case <-b.done:
	}
}

func (b *Beep) AddListener(kind EventKind, fn Listener) ListenerID {
	return b.listeners.add(kind, fn)
}

func (b *Beep) RemoveListener(kind EventKind, id ListenerID) {
	b.listeners.remove(kind, id)
}

// SetSource discards whatever is loaded and remembers src for the next Load.
func (b *Beep) SetSource(src string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unloadLocked()
	b.src = src
}

func (b *Beep) Source() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.src
}

func (b *Beep) Load() {
	b.mu.Lock()
	b.unloadLocked()
	b.paused = true
	src := b.src
	gen := b.gen
	ctx, cancel := context.WithCancel(context.Background())
	b.cancelLoad = cancel
	b.mu.Unlock()

	b.emit(EventLoadStart, nil)
	if src == "" {
		cancel()
		b.emit(EventError, ErrNoSource)
		return
	}
	go b.load(ctx, gen, src)
}

func (b *Beep) load(ctx context.Context, gen uint64, src string) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		rate     beep.SampleRate
	)
	data, ext, err := fetch(ctx, b.client, src, b.maxSource)
	if err == nil {
		streamer, format, err = decode(data, ext)
	}
	if err == nil {
		rate, err = initSpeaker(format.SampleRate)
	}

	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		if streamer != nil {
			streamer.Close()
		}
		return
	}
	b.cancelLoad = nil
	if err != nil {
		b.mu.Unlock()
		if streamer != nil {
			streamer.Close()
		}
		b.log.Warn().Err(err).Str("src", src).Msg("load failed")
		b.emit(EventError, err)
		return
	}

	b.streamer = streamer
	b.format = format
	var s beep.Streamer = streamer
	if format.SampleRate != rate {
		s = beep.Resample(resampleQuality, format.SampleRate, rate, streamer)
	}
	b.ctrl = &beep.Ctrl{Streamer: s, Paused: true}
	wantPlay := !b.paused
	b.mu.Unlock()

	b.log.Debug().
		Str("src", src).
		Int("sample_rate", int(format.SampleRate)).
		Float64("duration", b.Duration()).
		Msg("source loaded")

	b.emit(EventLoadedMetadata, nil)
	b.emit(EventCanPlay, nil)
	if wantPlay {
		b.startPlayback()
	}
}

func (b *Beep) Play() {
	b.mu.Lock()
	wasPaused := b.paused
	b.paused = false
	ready := b.ctrl != nil
	b.mu.Unlock()

	if wasPaused {
		b.emit(EventPlay, nil)
	}
	if ready {
		b.startPlayback()
	}
}

func (b *Beep) startPlayback() {
	b.mu.Lock()
	if b.ctrl == nil || b.paused || b.playing {
		b.mu.Unlock()
		return
	}

	if b.started {
		speaker.Lock()
		b.ctrl.Paused = false
		speaker.Unlock()
	} else {
		// Replaying a finished track starts over
		if b.streamer.Position() >= b.streamer.Len() {
			_ = b.streamer.Seek(0)
		}
		gen := b.gen
		b.ctrl.Paused = false
		// The callback runs with the speaker locked: hand off to a goroutine
		speaker.Play(beep.Seq(b.ctrl, beep.Callback(func() {
			go b.finished(gen)
		})))
		b.started = true
	}
	b.playing = true
	b.startTickerLocked()
	b.mu.Unlock()

	b.emit(EventPlaying, nil)
}

func (b *Beep) Pause() {
	b.mu.Lock()
	wasPaused := b.paused
	b.paused = true
	if b.playing {
		speaker.Lock()
		b.ctrl.Paused = true
		speaker.Unlock()
		b.playing = false
		b.stopTickerLocked()
	}
	b.mu.Unlock()

	if !wasPaused {
		b.emit(EventPause, nil)
	}
}

func (b *Beep) Paused() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.paused
}

func (b *Beep) finished(gen uint64) {
	b.mu.Lock()
	if gen != b.gen || !b.started {
		b.mu.Unlock()
		return
	}
	b.started = false
	b.playing = false
	b.paused = true
	b.stopTickerLocked()
	err := b.streamer.Err()
	b.mu.Unlock()

	if err != nil {
		b.log.Warn().Err(err).Msg("stream failed")
		b.emit(EventError, err)
		return
	}
	b.emit(EventTimeUpdate, nil)
	b.emit(EventPause, nil)
	b.emit(EventEnded, nil)
}

// SetCurrentTime seeks to seconds, clamped to the stream bounds.
func (b *Beep) SetCurrentTime(seconds float64) {
	b.mu.Lock()
	if b.streamer == nil {
		b.mu.Unlock()
		return
	}
	pos := seekFrame(b.format.SampleRate, seconds, b.streamer.Len())
	var err error
	if b.started {
		speaker.Lock()
		err = b.streamer.Seek(pos)
		speaker.Unlock()
	} else {
		err = b.streamer.Seek(pos)
	}
	b.mu.Unlock()

	if err != nil {
		b.log.Warn().Err(err).Float64("seconds", seconds).Msg("seek failed")
		return
	}
	b.emit(EventTimeUpdate, nil)
}

// seekFrame converts seconds to a frame index within [0, length]. NaN and
// negative values map to the start, +Inf and anything past the end to length.
func seekFrame(sr beep.SampleRate, seconds float64, length int) int {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	frames := seconds * float64(sr)
	if frames >= float64(length) {
		return length
	}
	return int(frames)
}

func (b *Beep) CurrentTime() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return 0
	}
	var pos int
	if b.started {
		speaker.Lock()
		pos = b.streamer.Position()
		speaker.Unlock()
	} else {
		pos = b.streamer.Position()
	}
	return b.format.SampleRate.D(pos).Seconds()
}

func (b *Beep) Duration() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return 0
	}
	return b.format.SampleRate.D(b.streamer.Len()).Seconds()
}

// Close stops playback and releases the handle. Listeners stop receiving events.
func (b *Beep) Close() error {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.unloadLocked()
		b.src = ""
		b.mu.Unlock()
		close(b.done)
	})
	return nil
}

func (b *Beep) unloadLocked() {
	b.gen++
	if b.cancelLoad != nil {
		b.cancelLoad()
		b.cancelLoad = nil
	}
	b.stopTickerLocked()
	if b.started {
		speaker.Clear()
		b.started = false
	}
	if b.streamer != nil {
		b.streamer.Close()
		b.streamer = nil
	}
	b.ctrl = nil
	b.format = beep.Format{}
	b.playing = false
}

func (b *Beep) startTickerLocked() {
	if b.stopTick != nil {
		return
	}
	stop := make(chan struct{})
	b.stopTick = stop
	go func() {
		t := time.NewTicker(b.tick)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				b.emit(EventTimeUpdate, nil)
			case <-stop:
				return
			case <-b.done:
				return
			}
		}
	}()
}

func (b *Beep) stopTickerLocked() {
	if b.stopTick != nil {
		close(b.stopTick)
		b.stopTick = nil
	}
}
