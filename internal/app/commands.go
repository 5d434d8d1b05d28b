package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/controller"
	"github.com/llehouerou/airwaves/internal/library"
	"github.com/llehouerou/airwaves/internal/notify"
	"github.com/llehouerou/airwaves/internal/playback"
)

// LoadFilesCmd fetches the file list and looks up the resume selection.
func LoadFilesCmd(ctx context.Context, ctrl *controller.Controller, resume bool) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.Load(ctx); err != nil {
			return FilesLoadedMsg{Restore: -1, Err: err}
		}
		msg := FilesLoadedMsg{Files: ctrl.Files(), Restore: -1}
		if resume {
			msg.Restore, msg.ResumeErr = ctrl.Restore(ctx)
		}
		return msg
	}
}

// WatchState waits for the next transport snapshot.
func WatchState(sub *playback.Subscription[playback.StreamState]) tea.Cmd {
	if sub == nil {
		return nil
	}
	return waitForChannel(sub.C, func(st playback.StreamState, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return StateMsg{State: st}
	})
}

// WatchSession waits for the next event of sess.
func WatchSession(sess *playback.Session) tea.Cmd {
	if sess == nil {
		return nil
	}
	return waitForChannel(sess.Events(), func(ev playback.Event, ok bool) tea.Msg {
		if !ok {
			return SessionClosedMsg{Session: sess}
		}
		return SessionEventMsg{Session: sess, Event: ev}
	})
}

// NotifyCmd announces f on the desktop. Failures are only logged.
func NotifyCmd(np *notify.NowPlaying, f library.File, duration string, log zerolog.Logger) tea.Cmd {
	if np == nil {
		return nil
	}
	return func() tea.Msg {
		if err := np.Show(f, duration); err != nil {
			log.Debug().Err(err).Msg("now playing notification")
		}
		return nil
	}
}

// waitForChannel creates a command that waits for a value from a channel and converts it to a message.
// onResult receives the value and a boolean indicating if the channel is still open (false means channel closed).
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}
