//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/keymap"
	"github.com/llehouerou/airwaves/internal/playback"
)

// Adapter exposes the player on the session bus.
type Adapter struct {
	server *server.Server
}

// New registers the player on D-Bus and starts serving in the background.
func New(c Controls, send func(keymap.Action), log zerolog.Logger) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer(busName, &rootAdapter{}, &playerAdapter{ctrl: c, send: send}),
	}

	go func() {
		if err := a.server.Listen(); err != nil {
			log.Warn().Err(err).Msg("mpris server stopped")
		}
	}()

	return a, nil
}

// Close releases the bus name.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error { return nil }
func (r *rootAdapter) Quit() error  { return nil }

func (r *rootAdapter) CanQuit() (bool, error)      { return false, nil }
func (r *rootAdapter) CanRaise() (bool, error)     { return false, nil }
func (r *rootAdapter) HasTrackList() (bool, error) { return false, nil }
func (r *rootAdapter) Identity() (string, error)   { return identity, nil }

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter. Requests that
// open or close a session go through send so the UI follows them.
type playerAdapter struct {
	ctrl Controls
	send func(keymap.Action)
}

func (p *playerAdapter) Next() error {
	p.send(keymap.ActionNextFile)
	return nil
}

func (p *playerAdapter) Previous() error {
	p.send(keymap.ActionPrevFile)
	return nil
}

func (p *playerAdapter) Pause() error {
	p.ctrl.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.send(keymap.ActionPlayPause)
	return nil
}

func (p *playerAdapter) Stop() error {
	p.send(keymap.ActionStop)
	return nil
}

func (p *playerAdapter) Play() error {
	if !p.ctrl.State().Playing {
		p.send(keymap.ActionPlayPause)
	}
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	p.ctrl.SeekBy(toSeconds(offset))
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	p.ctrl.SeekTo(toSeconds(position))
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.ctrl.State().Status() {
	case playback.StatusPlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StatusPaused:
		return types.PlaybackStatusPaused, nil
	case playback.StatusStopped, playback.StatusError:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error)  { return 1.0, nil }
func (p *playerAdapter) SetRate(_ float64) error { return nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	sel, ok := p.ctrl.Selection()
	if !ok {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(sel.File.URL)),
		Title:   sel.File.Title(),
		Album:   sel.File.Album,
	}
	if sel.File.Artist != "" {
		meta.Artist = []string{sel.File.Artist}
	}
	if d := p.ctrl.State().Duration; d != nil {
		meta.Length = toMicroseconds(*d)
	}
	if art := sel.File.CoverArt(); art != "" {
		meta.ArtUrl = "file://" + art
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error)  { return 1.0, nil }
func (p *playerAdapter) SetVolume(_ float64) error { return nil }

func (p *playerAdapter) Position() (int64, error) {
	if t := p.ctrl.State().CurrentTime; t != nil {
		return int64(toMicroseconds(*t)), nil
	}
	return 0, nil
}

func (p *playerAdapter) MinimumRate() (float64, error) { return 1.0, nil }
func (p *playerAdapter) MaximumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) CanGoNext() (bool, error) {
	_, ok := p.ctrl.Selection()
	return ok && !p.ctrl.IsLast(), nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	_, ok := p.ctrl.Selection()
	return ok && !p.ctrl.IsFirst(), nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return len(p.ctrl.Files()) > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error)   { return true, nil }
func (p *playerAdapter) CanSeek() (bool, error)    { return p.ctrl.State().CanPlay, nil }
func (p *playerAdapter) CanControl() (bool, error) { return true, nil }

func formatTrackID(url string) string {
	h := fnv.New64a()
	h.Write([]byte(url))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}

func toSeconds(us types.Microseconds) float64 {
	return float64(us) / 1e6
}

func toMicroseconds(seconds float64) types.Microseconds {
	return types.Microseconds(seconds * 1e6)
}
