package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/airwaves/internal/keymap"
	"github.com/llehouerou/airwaves/internal/ui/playerbar"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

func (m Model) View() string {
	if m.Width == 0 {
		return ""
	}

	body := m.List.View(m.Width)
	if m.ShowHelp {
		body = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatus(),
		playerbar.Render(m.playerBarState(), m.Width),
	)
}

func (m Model) renderHeader() string {
	st := styles.T().S()
	left := st.Playing.Render("airwaves")
	var right string
	if m.Loading {
		right = m.spinner.View() + st.Muted.Render(" loading files")
	} else {
		right = st.Muted.Render(fmt.Sprintf("%d files", m.List.Len()))
	}
	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderStatus() string {
	st := styles.T().S()
	if m.Status != "" {
		return st.Error.Width(m.Width).MaxWidth(m.Width).Render(m.Status)
	}
	parts := make([]string, 0, 6)
	for _, b := range keymap.ByContext("playback") {
		parts = append(parts, keymap.DisplayKey(b.Keys[0])+" "+strings.ToLower(b.Description))
	}
	parts = append(parts, "? help")
	return st.Subtle.Width(m.Width).MaxWidth(m.Width).Render(strings.Join(parts, " · "))
}

// renderHelp lists every binding in place of the file list.
func (m Model) renderHelp() string {
	st := styles.T().S()
	lines := make([]string, 0, len(keymap.All)+3)
	for _, context := range []string{"global", "playback", "list"} {
		lines = append(lines, st.Title.Render(context))
		for _, b := range keymap.ByContext(context) {
			keys := make([]string, len(b.Keys))
			for i, k := range b.Keys {
				keys[i] = keymap.DisplayKey(k)
			}
			lines = append(lines, fmt.Sprintf("  %-16s %s", strings.Join(keys, ", "), st.Muted.Render(b.Description)))
		}
	}
	height := m.List.Height()
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) playerBarState() playerbar.State {
	s := playerbar.State{Stream: m.stream, Total: m.List.Len()}
	if sel, ok := m.ctrl.Selection(); ok {
		s.Title = sel.File.Title()
		s.Artist = sel.File.Artist
		s.Index = sel.Index + 1
	}
	return s
}
