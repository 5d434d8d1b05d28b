// Package controller holds the file list and the current selection, and
// turns user navigation into playback sessions.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/llehouerou/airwaves/internal/library"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/state"
)

var (
	// ErrOutOfRange is returned when navigation would leave the file list.
	ErrOutOfRange = errors.New("index out of range")
	// ErrNoSelection is returned by Next and Previous before any file was opened.
	ErrNoSelection = errors.New("no file selected")
)

// Playback is the part of playback.Service the controller drives.
type Playback interface {
	PlayStream(ctx context.Context, url string) (*playback.Session, error)
	Play()
	Pause()
	Stop()
	SeekTo(seconds float64)
	State() playback.StreamState
}

// ResumeStore persists the selection across runs.
type ResumeStore interface {
	GetResume(ctx context.Context) (*state.ResumeState, error)
	SaveResume(s state.ResumeState)
}

// Selection is the file currently opened.
type Selection struct {
	Index int
	File  library.File
}

// Option configures a Controller.
type Option func(*Controller)

// WithResumeStore saves the selection on every open and playhead change.
func WithResumeStore(r ResumeStore) Option {
	return func(c *Controller) { c.resume = r }
}

// WithAutoAdvance opens the next file when the current one ends.
func WithAutoAdvance(enabled bool) Option {
	return func(c *Controller) { c.autoAdvance = enabled }
}

// WithLogger sets the controller's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

type Controller struct {
	svc         Playback
	provider    library.Provider
	resume      ResumeStore
	autoAdvance bool
	log         zerolog.Logger

	mu        sync.Mutex
	files     []library.File
	selection *Selection
	seekOnce  *state.ResumeState // position to restore when its file becomes playable
}

func New(svc Playback, provider library.Provider, opts ...Option) *Controller {
	c := &Controller{
		svc:      svc,
		provider: provider,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the file list from the provider.
func (c *Controller) Load(ctx context.Context) error {
	files, err := c.provider.Files(ctx)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}

	c.mu.Lock()
	c.files = files
	c.mu.Unlock()

	c.log.Info().Int("files", len(files)).Msg("file list loaded")
	return nil
}

// Files returns a copy of the file list.
func (c *Controller) Files() []library.File {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]library.File(nil), c.files...)
}

// Selection returns the opened file, if any.
func (c *Controller) Selection() (Selection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection == nil {
		return Selection{}, false
	}
	return *c.selection, true
}

// OpenFile starts a session on the file at index, superseding whatever
// plays, and selects it. On error the selection and playback are unchanged.
func (c *Controller) OpenFile(ctx context.Context, index int) (*playback.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openLocked(ctx, index)
}

func (c *Controller) openLocked(ctx context.Context, index int) (*playback.Session, error) {
	if index < 0 || index >= len(c.files) {
		return nil, fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, len(c.files))
	}

	file := c.files[index]
	if file.URL == "" {
		return nil, fmt.Errorf("open %q: %w", file.Title(), playback.ErrEmptyURL)
	}

	sess, err := c.svc.PlayStream(ctx, file.URL)
	if err != nil {
		return nil, err
	}
	c.selection = &Selection{Index: index, File: file}
	c.log.Debug().Int("index", index).Str("url", file.URL).Msg("file opened")

	if c.resume != nil {
		c.resume.SaveResume(state.ResumeState{URL: file.URL, Index: index})
	}
	return sess, nil
}

// Next opens the file after the selection.
func (c *Controller) Next(ctx context.Context) (*playback.Session, error) {
	return c.step(ctx, 1)
}

// Previous opens the file before the selection.
func (c *Controller) Previous(ctx context.Context) (*playback.Session, error) {
	return c.step(ctx, -1)
}

// step rejects moves past either end of the list, leaving the selection
// and playback as they were.
func (c *Controller) step(ctx context.Context, delta int) (*playback.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection == nil {
		return nil, ErrNoSelection
	}
	return c.openLocked(ctx, c.selection.Index+delta)
}

// IsFirst reports whether the selection is the first file.
func (c *Controller) IsFirst() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection != nil && c.selection.Index == 0
}

// IsLast reports whether the selection is the last file.
func (c *Controller) IsLast() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isLastLocked()
}

func (c *Controller) isLastLocked() bool {
	return c.selection != nil && c.selection.Index == len(c.files)-1
}

func (c *Controller) Play()  { c.svc.Play() }
func (c *Controller) Pause() { c.svc.Pause() }
func (c *Controller) Stop()  { c.svc.Stop() }

// Toggle pauses while playing and plays otherwise.
func (c *Controller) Toggle() {
	if c.svc.State().Playing {
		c.svc.Pause()
		return
	}
	c.svc.Play()
}

func (c *Controller) SeekTo(seconds float64) { c.svc.SeekTo(seconds) }

// State returns the current transport snapshot.
func (c *Controller) State() playback.StreamState { return c.svc.State() }

// SeekBy moves the playhead by delta seconds, staying within the file.
func (c *Controller) SeekBy(delta float64) {
	st := c.svc.State()
	pos := delta
	if st.CurrentTime != nil {
		pos += *st.CurrentTime
	}
	if st.Duration != nil {
		pos = min(pos, *st.Duration)
	}
	c.svc.SeekTo(max(pos, 0))
}

// HandleEvent reacts to the events of the session opened last. It returns
// the new session when an ended file advanced to the next one.
func (c *Controller) HandleEvent(ctx context.Context, ev playback.Event) (*playback.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection == nil {
		return nil, nil //nolint:nilnil // nothing to react to
	}
	url := c.selection.File.URL

	switch ev.Kind {
	case playback.EventCanPlay:
		if c.seekOnce != nil && c.seekOnce.URL == url {
			pos := c.seekOnce.Position
			c.seekOnce = nil
			if pos > 0 && pos < ev.Duration {
				c.svc.SeekTo(pos)
			}
		}
	case playback.EventTimeUpdate:
		if c.resume != nil {
			c.resume.SaveResume(state.ResumeState{URL: url, Index: c.selection.Index, Position: ev.CurrentTime})
		}
	case playback.EventEnded:
		if !c.autoAdvance || c.isLastLocked() {
			return nil, nil //nolint:nilnil // nothing opened
		}
		return c.openLocked(ctx, c.selection.Index+1)
	}
	return nil, nil //nolint:nilnil // nothing opened
}

// Restore looks up the saved selection in the loaded list. It returns the
// index of the saved file, or -1. Opening that index later resumes at the
// saved position. Nothing plays until then.
func (c *Controller) Restore(ctx context.Context) (int, error) {
	if c.resume == nil {
		return -1, nil
	}
	saved, err := c.resume.GetResume(ctx)
	if err != nil {
		return -1, fmt.Errorf("read resume state: %w", err)
	}
	if saved == nil {
		return -1, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, index, found := lo.FindIndexOf(c.files, func(f library.File) bool { return f.URL == saved.URL })
	if !found {
		c.log.Debug().Str("url", saved.URL).Msg("saved file no longer listed")
		return -1, nil
	}
	c.seekOnce = saved
	return index, nil
}
