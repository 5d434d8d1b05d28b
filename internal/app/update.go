package app

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/controller"
	"github.com/llehouerou/airwaves/internal/errmsg"
	"github.com/llehouerou/airwaves/internal/keymap"
	"github.com/llehouerou/airwaves/internal/playback"
)

// Fixed rows around the list: header, status line and the player bar.
const chromeHeight = 1 + 1 + 3

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.List.SetHeight(msg.Height - chromeHeight)
		return m, nil

	case spinner.TickMsg:
		if !m.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case FilesLoadedMsg:
		return m.handleFilesLoaded(msg)

	case StateMsg:
		m.stream = msg.State
		return m, WatchState(m.sub)

	case SessionEventMsg:
		return m.handleSessionEvent(msg)

	case SessionClosedMsg:
		if msg.Session == m.session {
			m.session = nil
			m.List.SetPlaying(-1)
		}
		return m, nil

	case ActionMsg:
		return m.handleAction(msg.Action)

	case tea.KeyMsg:
		return m.handleAction(m.keys.Resolve(msg.String()))
	}
	return m, nil
}

func (m Model) handleFilesLoaded(msg FilesLoadedMsg) (tea.Model, tea.Cmd) {
	m.Loading = false
	switch {
	case msg.Err != nil:
		m.Status = errmsg.Format(errmsg.OpLibraryLoad, msg.Err)
		m.log.Error().Err(msg.Err).Msg("load files")
	case msg.ResumeErr != nil:
		m.Status = errmsg.Format(errmsg.OpResumeLoad, msg.ResumeErr)
		m.log.Warn().Err(msg.ResumeErr).Msg("restore selection")
	}
	m.List.SetFiles(msg.Files)
	if msg.Restore >= 0 {
		m.List.SetCursor(msg.Restore)
	}
	return m, nil
}

// handleSessionEvent ignores events of sessions that have been replaced.
func (m Model) handleSessionEvent(msg SessionEventMsg) (tea.Model, tea.Cmd) {
	if msg.Session != m.session {
		return m, nil
	}

	if msg.Event.Kind == playback.EventError {
		m.Status = errmsg.FormatWith(errmsg.OpPlaybackStart, m.selectedTitle(), msg.Event.Err)
	}

	next, err := m.ctrl.HandleEvent(m.ctx, msg.Event)
	if err != nil {
		m.Status = errmsg.Format(errmsg.OpPlaybackNext, err)
		return m, WatchSession(m.session)
	}
	if next != nil {
		return m, m.adopt(next)
	}

	watch := WatchSession(m.session)
	if msg.Event.Kind == playback.EventCanPlay {
		if sel, ok := m.ctrl.Selection(); ok {
			return m, tea.Batch(watch, NotifyCmd(m.opts.NowPlaying, sel.File, m.ctrl.State().ReadableDuration, m.log))
		}
	}
	return m, watch
}

func (m Model) handleAction(action keymap.Action) (tea.Model, tea.Cmd) {
	switch action {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.ShowHelp = !m.ShowHelp
	case keymap.ActionMoveDown:
		m.List.Move(1)
	case keymap.ActionMoveUp:
		m.List.Move(-1)
	case keymap.ActionPageDown:
		m.List.Move(m.List.Height())
	case keymap.ActionPageUp:
		m.List.Move(-m.List.Height())
	case keymap.ActionJumpStart:
		m.List.SetCursor(0)
	case keymap.ActionJumpEnd:
		m.List.SetCursor(m.List.Len() - 1)
	case keymap.ActionSelect:
		return m.open(m.List.Cursor())
	case keymap.ActionPlayPause:
		if m.session == nil {
			return m.open(m.List.Cursor())
		}
		m.ctrl.Toggle()
	case keymap.ActionStop:
		m.ctrl.Stop()
		m.session = nil
		m.List.SetPlaying(-1)
	case keymap.ActionNextFile:
		return m.step(m.ctrl.Next, errmsg.OpPlaybackNext)
	case keymap.ActionPrevFile:
		return m.step(m.ctrl.Previous, errmsg.OpPlaybackPrev)
	case keymap.ActionSeekForward:
		m.ctrl.SeekBy(m.opts.SeekStep)
	case keymap.ActionSeekBack:
		m.ctrl.SeekBy(-m.opts.SeekStep)
	}
	return m, nil
}

func (m Model) open(index int) (tea.Model, tea.Cmd) {
	if m.List.Len() == 0 {
		return m, nil
	}
	sess, err := m.ctrl.OpenFile(m.ctx, index)
	if err != nil {
		m.Status = errmsg.Format(errmsg.OpPlaybackStart, err)
		return m, nil
	}
	return m, m.adopt(sess)
}

func (m Model) step(
	move func(ctx context.Context) (*playback.Session, error),
	op errmsg.Op,
) (tea.Model, tea.Cmd) {
	sess, err := move(m.ctx)
	switch {
	case errors.Is(err, controller.ErrOutOfRange), errors.Is(err, controller.ErrNoSelection):
		// Nothing to move to; playback carries on
		return m, nil
	case err != nil:
		m.Status = errmsg.Format(op, err)
		return m, nil
	}
	return m, m.adopt(sess)
}

// adopt makes sess the session whose events drive the UI.
func (m *Model) adopt(sess *playback.Session) tea.Cmd {
	m.session = sess
	m.Status = ""
	if sel, ok := m.ctrl.Selection(); ok {
		m.List.SetPlaying(sel.Index)
		m.List.SetCursor(sel.Index)
	}
	return WatchSession(sess)
}

func (m Model) selectedTitle() string {
	if sel, ok := m.ctrl.Selection(); ok {
		return sel.File.Title()
	}
	return ""
}
