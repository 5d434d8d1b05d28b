// Package playerbar renders the transport chrome from a StreamState.
package playerbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	stopSymbol  = "■"
	errorSymbol = "✗"

	unknownTime = "--:--:--"
	minBarWidth = 10
	separator   = "   "
)

// State holds everything needed to render the player bar.
type State struct {
	Stream playback.StreamState
	Title  string
	Artist string
	Index  int // 1-based position in the list, 0 when nothing is open
	Total  int
}

// Height returns the rendered height: top border, content, bottom border.
func Height() int {
	return 3
}

// Render returns the player bar for the given total width.
func Render(s State, width int) string {
	st := styles.T().S()
	// border (2) + padding (4)
	innerWidth := max(width-6, 0)

	status := statusSymbol(s.Stream.Status())
	timeStr := fmt.Sprintf("%s / %s", orUnknown(s.Stream.ReadableCurrentTime), orUnknown(s.Stream.ReadableDuration))

	title := s.Title
	if title == "" {
		title = "Nothing playing"
	}
	info := title
	if s.Artist != "" {
		info += " · " + s.Artist
	}
	infoStyle := st.Title
	if s.Stream.Error {
		info = "playback error · " + info
		infoStyle = st.Error
	}
	position := ""
	if s.Index > 0 {
		position = fmt.Sprintf("%d/%d", s.Index, s.Total)
	}

	fixed := lipgloss.Width(status) + 1 + lipgloss.Width(timeStr) + len(separator)*2
	if position != "" {
		fixed += lipgloss.Width(position) + len(separator)
	}
	infoWidth := max(innerWidth-fixed-minBarWidth, 0)
	info = runewidth.Truncate(info, infoWidth, "…")
	barWidth := max(innerWidth-fixed-runewidth.StringWidth(info), minBarWidth)

	var content strings.Builder
	content.WriteString(statusStyle(s.Stream.Status()).Render(status))
	content.WriteString(" ")
	content.WriteString(infoStyle.Render(info))
	if position != "" {
		content.WriteString(separator)
		content.WriteString(st.Muted.Render(position))
	}
	content.WriteString(separator)
	content.WriteString(renderBar(s.Stream.Progress(), barWidth))
	content.WriteString(separator)
	content.WriteString(st.Muted.Render(timeStr))

	return st.Panel.Padding(0, 2).Width(max(width-2, 0)).Render(content.String())
}

func renderBar(ratio float64, width int) string {
	t := styles.T()
	bar := progress.New(
		progress.WithSolidFill(string(t.Primary)),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)
	bar.Full = '━'
	bar.Empty = '─'
	bar.EmptyColor = string(t.FgSubtle)
	return bar.ViewAs(ratio)
}

func statusSymbol(s playback.Status) string {
	switch s {
	case playback.StatusPlaying:
		return playSymbol
	case playback.StatusPaused:
		return pauseSymbol
	case playback.StatusError:
		return errorSymbol
	default:
		return stopSymbol
	}
}

func statusStyle(s playback.Status) lipgloss.Style {
	st := styles.T().S()
	switch s {
	case playback.StatusPlaying:
		return st.Playing
	case playback.StatusError:
		return st.Error
	default:
		return st.Muted
	}
}

func orUnknown(s string) string {
	if s == "" {
		return unknownTime
	}
	return s
}
