// Package app wires the controller and the transport state into a
// bubbletea program.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/controller"
	"github.com/llehouerou/airwaves/internal/keymap"
	"github.com/llehouerou/airwaves/internal/notify"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/ui/filelist"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

// Options configures the model.
type Options struct {
	SeekStep float64 // seconds moved by the seek keys
	Resume   bool    // put the cursor on the last opened file
	Logger   zerolog.Logger

	// NowPlaying, when set, announces each file once it can play.
	NowPlaying *notify.NowPlaying
}

type Model struct {
	ctx  context.Context
	ctrl *controller.Controller
	sub  *playback.Subscription[playback.StreamState]
	keys *keymap.Resolver
	log  zerolog.Logger
	opts Options

	session *playback.Session // latest opened, nil when stopped
	stream  playback.StreamState
	List    filelist.Model
	spinner spinner.Model

	Loading  bool
	ShowHelp bool
	Status   string // last user-facing error
	Width    int
	Height   int
}

// New builds the model. sub feeds transport snapshots; the model never
// closes it.
func New(
	ctx context.Context,
	ctrl *controller.Controller,
	sub *playback.Subscription[playback.StreamState],
	opts Options,
) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.T().S().Playing

	if opts.SeekStep <= 0 {
		opts.SeekStep = 5
	}

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		sub:     sub,
		keys:    keymap.NewResolver(keymap.All),
		log:     opts.Logger,
		opts:    opts,
		stream:  playback.DefaultState(),
		List:    filelist.New(),
		spinner: sp,
		Loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadFilesCmd(m.ctx, m.ctrl, m.opts.Resume),
		WatchState(m.sub),
		m.spinner.Tick,
	)
}

// NewProgram creates the full-screen program for m. Use Send on it to
// inject messages such as ActionMsg from other goroutines.
func NewProgram(ctx context.Context, m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
}

// Run blocks until the user quits or ctx ends.
func Run(ctx context.Context, p *tea.Program) error {
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		// Canceled from outside (signal): not a failure
		return nil
	}
	return err
}
