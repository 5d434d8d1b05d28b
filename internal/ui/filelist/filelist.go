// Package filelist renders the scrollable list of files.
package filelist

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/airwaves/internal/library"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

const (
	playingMarker = "▶ "
	sizeWidth     = 9
)

// Model is the list state: files, cursor and scroll offset.
type Model struct {
	files   []library.File
	cursor  int
	offset  int
	playing int // index of the opened file, -1 if none
	height  int
}

func New() Model {
	return Model{playing: -1, height: 10}
}

// SetFiles replaces the list and keeps the cursor in range.
func (m *Model) SetFiles(files []library.File) {
	m.files = files
	m.SetCursor(m.cursor)
}

func (m Model) Len() int { return len(m.files) }

func (m Model) Cursor() int { return m.cursor }

// SetCursor moves the cursor to i, clamped to the list.
func (m *Model) SetCursor(i int) {
	m.cursor = max(min(i, len(m.files)-1), 0)
	m.scroll()
}

// Move moves the cursor by delta rows.
func (m *Model) Move(delta int) {
	m.SetCursor(m.cursor + delta)
}

// SetPlaying marks the opened file. Pass -1 to clear.
func (m *Model) SetPlaying(i int) {
	m.playing = i
}

// SetHeight sets the number of visible rows.
func (m *Model) SetHeight(h int) {
	m.height = max(h, 1)
	m.scroll()
}

func (m Model) Height() int { return m.height }

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	m.offset = max(min(m.offset, len(m.files)-m.height), 0)
}

// View renders exactly Height rows of the given width.
func (m Model) View(width int) string {
	st := styles.T().S()
	rows := make([]string, 0, m.height)

	if len(m.files) == 0 {
		rows = append(rows, st.Muted.Render(runewidth.FillRight("  No files", width)))
	}

	end := min(m.offset+m.height, len(m.files))
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.row(i, width))
	}
	for len(rows) < m.height {
		rows = append(rows, strings.Repeat(" ", max(width, 0)))
	}
	return strings.Join(rows, "\n")
}

func (m Model) row(i, width int) string {
	st := styles.T().S()
	f := m.files[i]

	marker := "  "
	if i == m.playing {
		marker = playingMarker
	}

	size := ""
	if f.Size > 0 {
		size = humanize.Bytes(uint64(f.Size))
	}
	size = runewidth.FillLeft(size, sizeWidth)

	textWidth := max(width-runewidth.StringWidth(marker)-sizeWidth-1, 0)
	text := f.Title()
	if f.Artist != "" {
		text += " · " + f.Artist
	}
	text = runewidth.FillRight(runewidth.Truncate(sanitize(text), textWidth, "…"), textWidth)

	line := marker + text + " " + size
	switch {
	case i == m.cursor:
		return st.Cursor.Render(line)
	case i == m.playing:
		return st.Playing.Render(line)
	default:
		return st.Base.Render(line)
	}
}

// sanitize drops control characters that would break the terminal layout.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
