package filelist

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/airwaves/internal/library"
)

func files(n int) []library.File {
	out := make([]library.File, n)
	for i := range out {
		out[i] = library.File{URL: string(rune('a'+i)) + ".mp3"}
	}
	return out
}

func TestCursorClamps(t *testing.T) {
	m := New()
	m.SetFiles(files(3))

	m.Move(-1)
	assert.Equal(t, 0, m.Cursor())
	m.Move(10)
	assert.Equal(t, 2, m.Cursor())
	m.SetCursor(1)
	assert.Equal(t, 1, m.Cursor())

	m.SetFiles(files(1))
	assert.Equal(t, 0, m.Cursor())
}

func TestScrollFollowsCursor(t *testing.T) {
	m := New()
	m.SetHeight(3)
	m.SetFiles(files(10))

	m.SetCursor(5)
	view := m.View(40)
	assert.Contains(t, view, "f.mp3")
	assert.NotContains(t, view, "a.mp3")

	m.SetCursor(0)
	assert.Contains(t, m.View(40), "a.mp3")
}

func TestView_Shape(t *testing.T) {
	m := New()
	m.SetHeight(5)
	m.SetFiles([]library.File{
		{URL: "https://x/a.mp3", Name: "First", Artist: "Band", Size: 3_500_000},
		{URL: "https://x/b.mp3", Name: "A name far too long for the narrow list width"},
	})
	m.SetPlaying(0)

	view := m.View(40)
	lines := strings.Split(view, "\n")

	assert.Len(t, lines, 5)
	for _, l := range lines {
		assert.Equal(t, 40, lipgloss.Width(l))
	}
	assert.Contains(t, lines[0], playingMarker+"First · Band")
	assert.Contains(t, lines[0], "3.5 MB")
	assert.Contains(t, lines[1], "…")
}

func TestView_Empty(t *testing.T) {
	m := New()
	m.SetHeight(2)
	assert.Contains(t, m.View(30), "No files")
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "ab", sanitize("a\x1b\nb"))
}
