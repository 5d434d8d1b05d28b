package notify

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/airwaves/internal/library"
)

type busCall struct {
	method string
	args   []any
}

// fakeBus plays the notification daemon: ids start at 1 and a replaced
// popup keeps its id.
type fakeBus struct {
	calls  []busCall
	nextID uint32
	err    error
}

func (b *fakeBus) Call(method string, _ dbus.Flags, args ...any) *dbus.Call {
	b.calls = append(b.calls, busCall{method: method, args: args})
	if b.err != nil {
		return &dbus.Call{Err: b.err}
	}
	if method != methodNotify {
		return &dbus.Call{}
	}
	id := args[1].(uint32)
	if id == 0 {
		b.nextID++
		id = b.nextID
	}
	return &dbus.Call{Body: []any{id}}
}

func (b *fakeBus) notified() []busCall {
	var out []busCall
	for _, c := range b.calls {
		if c.method == methodNotify {
			out = append(out, c)
		}
	}
	return out
}

func TestUrgencyValues(t *testing.T) {
	// Values are fixed by the freedesktop notification protocol
	assert.Equal(t, Urgency(0), UrgencyLow)
	assert.Equal(t, Urgency(1), UrgencyNormal)
	assert.Equal(t, Urgency(2), UrgencyCritical)
}

func TestNowPlayingArgs(t *testing.T) {
	f := library.File{URL: "https://example.com/a.mp3", Name: "First", Artist: "Someone", Album: "Demo"}

	args := nowPlayingArgs(f, "00:02:00", 7)

	require.Len(t, args, 8)
	assert.Equal(t, appName, args[0])
	assert.Equal(t, uint32(7), args[1])
	assert.Equal(t, f.CoverArt(), args[2])
	assert.Equal(t, "First", args[3])
	assert.Equal(t, "Someone · Demo · 00:02:00", args[4])
	assert.Equal(t, []string{}, args[5])
	assert.Equal(t, nowPlayingTimeout, args[7])

	hints, ok := args[6].(map[string]dbus.Variant)
	require.True(t, ok)
	assert.Equal(t, byte(UrgencyLow), hints["urgency"].Value())
	assert.Equal(t, desktopEntry, hints["desktop-entry"].Value())
}

func TestNowPlayingBody(t *testing.T) {
	assert.Empty(t, nowPlayingBody(library.File{URL: "a.mp3"}, ""))
	assert.Equal(t, "00:00:09", nowPlayingBody(library.File{URL: "a.mp3"}, "00:00:09"))
	assert.Equal(t, "Someone", nowPlayingBody(library.File{Artist: "Someone"}, ""))
}

func TestNowPlaying_ReplacesPrevious(t *testing.T) {
	bus := &fakeBus{}
	p := NewNowPlaying(bus)

	require.NoError(t, p.Show(library.File{URL: "https://example.com/a.mp3", Name: "First"}, "00:02:00"))
	require.NoError(t, p.Show(library.File{URL: "https://example.com/b.mp3"}, ""))

	sent := bus.notified()
	require.Len(t, sent, 2)
	assert.Equal(t, uint32(0), sent[0].args[1])
	assert.Equal(t, "First", sent[0].args[3])
	assert.Equal(t, uint32(1), sent[1].args[1])
	assert.Equal(t, "b.mp3", sent[1].args[3])
	assert.Equal(t, uint32(1), bus.nextID, "second popup must reuse the first")
}

func TestNowPlaying_Clear(t *testing.T) {
	bus := &fakeBus{}
	p := NewNowPlaying(bus)

	require.NoError(t, p.Clear(), "nothing shown yet")
	assert.Empty(t, bus.calls)

	require.NoError(t, p.Show(library.File{URL: "a.mp3"}, ""))
	require.NoError(t, p.Clear())
	require.NoError(t, p.Clear())

	require.Len(t, bus.calls, 2)
	assert.Equal(t, busCall{method: methodClose, args: []any{uint32(1)}}, bus.calls[1])

	require.NoError(t, p.Show(library.File{URL: "b.mp3"}, ""))
	assert.Equal(t, uint32(0), bus.calls[2].args[1], "cleared popup is not replaced")
}

func TestNowPlaying_ErrorKeepsLastID(t *testing.T) {
	bus := &fakeBus{}
	p := NewNowPlaying(bus)
	require.NoError(t, p.Show(library.File{URL: "a.mp3"}, ""))

	bus.err = errors.New("no notification daemon")
	require.ErrorIs(t, p.Show(library.File{URL: "b.mp3"}, ""), bus.err)

	bus.err = nil
	require.NoError(t, p.Show(library.File{URL: "c.mp3"}, ""))
	sent := bus.notified()
	assert.Equal(t, uint32(1), sent[len(sent)-1].args[1])
}
