package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/airwaves/internal/library"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/player"
	"github.com/llehouerou/airwaves/internal/state"
)

var testFiles = library.StaticProvider{
	{URL: "a.mp3", Name: "A"},
	{URL: "b.mp3", Name: "B"},
	{URL: "c.mp3", Name: "C"},
}

type fixture struct {
	ctrl   *Controller
	svc    *playback.Service
	handle *player.Mock
	resume *state.Mock
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	h := player.NewMock()
	svc := playback.NewService(h, playback.NewStore())
	t.Cleanup(func() { _ = svc.Close() })

	r := state.NewMock()
	ctrl := New(svc, testFiles, append([]Option{WithResumeStore(r)}, opts...)...)
	require.NoError(t, ctrl.Load(context.Background()))
	return &fixture{ctrl: ctrl, svc: svc, handle: h, resume: r}
}

type failingProvider struct{ err error }

func (p failingProvider) Files(context.Context) ([]library.File, error) { return nil, p.err }

func TestLoad(t *testing.T) {
	f := newFixture(t)
	assert.Len(t, f.ctrl.Files(), 3)

	_, ok := f.ctrl.Selection()
	assert.False(t, ok)
	assert.False(t, f.ctrl.IsFirst())
	assert.False(t, f.ctrl.IsLast())
}

func TestLoad_ProviderError(t *testing.T) {
	boom := errors.New("boom")
	ctrl := New(playback.NewService(player.NewMock(), playback.NewStore()), failingProvider{err: boom})

	err := ctrl.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, ctrl.Files())
}

func TestOpenFile(t *testing.T) {
	f := newFixture(t)

	sess, err := f.ctrl.OpenFile(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "b.mp3", sess.URL())
	assert.Same(t, sess, f.svc.Active())
	assert.Equal(t, "b.mp3", f.handle.Source())

	sel, ok := f.ctrl.Selection()
	require.True(t, ok)
	assert.Equal(t, Selection{Index: 1, File: library.File{URL: "b.mp3", Name: "B"}}, sel)
	assert.Equal(t, []state.ResumeState{{URL: "b.mp3", Index: 1}}, f.resume.Saves())
}

func TestOpenFile_StopsPreviousSession(t *testing.T) {
	f := newFixture(t)
	first, err := f.ctrl.OpenFile(context.Background(), 0)
	require.NoError(t, err)

	second, err := f.ctrl.OpenFile(context.Background(), 2)
	require.NoError(t, err)

	<-first.Done()
	assert.Same(t, second, f.svc.Active())
	assert.Equal(t, len(player.EventKinds()), f.handle.ListenerCount())
}

func TestOpenFile_OutOfRange(t *testing.T) {
	f := newFixture(t)

	for _, index := range []int{-1, 3, 100} {
		_, err := f.ctrl.OpenFile(context.Background(), index)
		assert.ErrorIs(t, err, ErrOutOfRange, "index %d", index)
	}
	_, ok := f.ctrl.Selection()
	assert.False(t, ok)
	assert.Empty(t, f.handle.Calls())
}

func TestNavigation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ctrl.Next(ctx)
	require.ErrorIs(t, err, ErrNoSelection)

	_, err = f.ctrl.OpenFile(ctx, 0)
	require.NoError(t, err)
	assert.True(t, f.ctrl.IsFirst())
	assert.False(t, f.ctrl.IsLast())

	sess, err := f.ctrl.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b.mp3", sess.URL())
	assert.False(t, f.ctrl.IsFirst())
	assert.False(t, f.ctrl.IsLast())

	sess, err = f.ctrl.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c.mp3", sess.URL())
	assert.True(t, f.ctrl.IsLast())

	sess, err = f.ctrl.Previous(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b.mp3", sess.URL())
}

func TestNavigation_RejectedAtBounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	last, err := f.ctrl.OpenFile(ctx, 2)
	require.NoError(t, err)
	f.handle.ResetCalls()

	_, err = f.ctrl.Next(ctx)
	require.ErrorIs(t, err, ErrOutOfRange)

	sel, _ := f.ctrl.Selection()
	assert.Equal(t, 2, sel.Index)
	assert.Same(t, last, f.svc.Active(), "playback must continue")
	assert.Empty(t, f.handle.Calls())

	first, err := f.ctrl.OpenFile(ctx, 0)
	require.NoError(t, err)
	f.handle.ResetCalls()

	_, err = f.ctrl.Previous(ctx)
	require.ErrorIs(t, err, ErrOutOfRange)

	sel, _ = f.ctrl.Selection()
	assert.Equal(t, 0, sel.Index)
	assert.Same(t, first, f.svc.Active())
	assert.Empty(t, f.handle.Calls())
}

func TestNavigation_EntryWithoutURL(t *testing.T) {
	h := player.NewMock()
	svc := playback.NewService(h, playback.NewStore())
	t.Cleanup(func() { _ = svc.Close() })
	r := state.NewMock()
	ctrl := New(svc, library.StaticProvider{{URL: "a.mp3"}, {Name: "no url"}}, WithResumeStore(r))
	ctx := context.Background()
	require.NoError(t, ctrl.Load(ctx))

	playing, err := ctrl.OpenFile(ctx, 0)
	require.NoError(t, err)
	h.ResetCalls()

	_, err = ctrl.Next(ctx)
	require.ErrorIs(t, err, playback.ErrEmptyURL)

	sel, ok := ctrl.Selection()
	require.True(t, ok)
	assert.Equal(t, 0, sel.Index)
	assert.False(t, ctrl.IsLast())
	assert.Same(t, playing, svc.Active(), "playback must continue")
	assert.Empty(t, h.Calls())
	assert.Equal(t, []state.ResumeState{{URL: "a.mp3", Index: 0}}, r.Saves())

	select {
	case <-playing.Done():
		t.Fatal("session torn down by a rejected move")
	default:
	}
}

func TestTransport(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctrl.OpenFile(context.Background(), 0)
	require.NoError(t, err)
	f.handle.EmitCanPlay(100)
	f.handle.EmitTimeUpdate(10)
	f.handle.ResetCalls()

	f.ctrl.Toggle() // not playing yet
	f.handle.Emit(player.EventPlaying)
	f.ctrl.Toggle()
	f.ctrl.SeekBy(5)
	f.ctrl.SeekBy(-30)
	f.ctrl.SeekBy(500)
	f.ctrl.SeekTo(42)

	assert.Equal(t, []string{"play", "pause", "seek:15", "seek:0", "seek:100", "seek:42"}, f.handle.Calls())

	f.ctrl.Stop()
	assert.Nil(t, f.svc.Active())
	assert.True(t, f.svc.State().IsDefault())
}

func TestHandleEvent_AutoAdvance(t *testing.T) {
	f := newFixture(t, WithAutoAdvance(true))
	ctx := context.Background()

	_, err := f.ctrl.OpenFile(ctx, 1)
	require.NoError(t, err)

	next, err := f.ctrl.HandleEvent(ctx, playback.Event{Kind: playback.EventEnded})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "c.mp3", next.URL())

	// The last file does not wrap around
	next, err = f.ctrl.HandleEvent(ctx, playback.Event{Kind: playback.EventEnded})
	require.NoError(t, err)
	assert.Nil(t, next)
	sel, _ := f.ctrl.Selection()
	assert.Equal(t, 2, sel.Index)
}

func TestHandleEvent_AutoAdvanceDisabled(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctrl.OpenFile(context.Background(), 0)
	require.NoError(t, err)

	next, err := f.ctrl.HandleEvent(context.Background(), playback.Event{Kind: playback.EventEnded})
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestHandleEvent_SavesPosition(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctrl.OpenFile(context.Background(), 1)
	require.NoError(t, err)

	_, err = f.ctrl.HandleEvent(context.Background(), playback.Event{Kind: playback.EventTimeUpdate, CurrentTime: 33})
	require.NoError(t, err)

	saves := f.resume.Saves()
	assert.Equal(t, state.ResumeState{URL: "b.mp3", Index: 1, Position: 33}, saves[len(saves)-1])
}

func TestRestore(t *testing.T) {
	f := newFixture(t)
	f.resume.SetResume(&state.ResumeState{URL: "c.mp3", Index: 7, Position: 50})
	ctx := context.Background()

	index, err := f.ctrl.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, index, "index follows the URL, not the saved index")

	_, ok := f.ctrl.Selection()
	assert.False(t, ok, "restore must not open anything")
	assert.Empty(t, f.handle.Calls())

	_, err = f.ctrl.OpenFile(ctx, index)
	require.NoError(t, err)
	f.handle.ResetCalls()

	_, err = f.ctrl.HandleEvent(ctx, playback.Event{Kind: playback.EventCanPlay, Duration: 200})
	require.NoError(t, err)
	assert.Equal(t, []string{"seek:50"}, f.handle.Calls())

	// Only the first canplay resumes
	f.handle.ResetCalls()
	_, err = f.ctrl.HandleEvent(ctx, playback.Event{Kind: playback.EventCanPlay, Duration: 200})
	require.NoError(t, err)
	assert.Empty(t, f.handle.Calls())
}

func TestRestore_UnknownFile(t *testing.T) {
	f := newFixture(t)
	f.resume.SetResume(&state.ResumeState{URL: "gone.mp3", Index: 0})

	index, err := f.ctrl.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -1, index)
}

func TestRestore_NoStore(t *testing.T) {
	ctrl := New(playback.NewService(player.NewMock(), playback.NewStore()), testFiles)
	index, err := ctrl.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -1, index)
}
