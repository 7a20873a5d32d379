// Package status renders the player state for the status command.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jfmyers9/spotctl/internal/music"
)

const (
	// BarWidth is the number of cells in the rendered progress bar
	BarWidth = 30

	// SummaryWidth is the widest the now playing line is allowed to get
	SummaryWidth = 60

	// UnknownTrack and UnknownTime stand in when the player reports no track
	UnknownTrack = "Unknown track"
	UnknownTime  = "-:--"

	filledCell = "█"
	emptyCell  = "░"
)

var (
	spotifyGreen = lipgloss.Color("#1DB954")
	mutedColor   = lipgloss.Color("#B3B3B3")

	stateStyle    = lipgloss.NewStyle().Foreground(spotifyGreen).Bold(true)
	stoppedStyle  = lipgloss.NewStyle().Foreground(mutedColor).Bold(true)
	summaryStyle  = lipgloss.NewStyle()
	progressStyle = lipgloss.NewStyle().Foreground(spotifyGreen)
	timeStyle     = lipgloss.NewStyle().Foreground(mutedColor)
)

// FormatTime renders milliseconds as M:SS. Negative input renders 0:00.
func FormatTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}

// ProgressBar returns width cells, the leading share of which are filled in
// proportion to position/duration. A non-positive duration gives an empty bar.
func ProgressBar(positionMs, durationMs int64, width int) string {
	if width <= 0 {
		return ""
	}

	filled := 0
	if durationMs > 0 {
		ratio := float64(positionMs) / float64(durationMs)
		if ratio < 0 {
			ratio = 0
		}
		if ratio > 1 {
			ratio = 1
		}
		filled = int(ratio * float64(width))
	}

	return strings.Repeat(filledCell, filled) + strings.Repeat(emptyCell, width-filled)
}

// Render builds the multi-line status view. Nil playback or a stopped player
// renders as "Stopped" with "Nothing playing". A running player that reports
// no track keeps its state label, with a placeholder summary and no total.
func Render(track *music.Track, pb *music.Playback) string {
	if pb == nil || pb.State == music.StateStopped {
		return strings.Join([]string{
			stoppedStyle.Render("Stopped"),
			summaryStyle.Render("Nothing playing"),
		}, "\n")
	}

	positionMs := pb.Position.Milliseconds()
	summary := UnknownTrack
	total := UnknownTime
	var durationMs int64
	if track != nil {
		durationMs = track.Duration.Milliseconds()
		summary = Summary(track)
		total = FormatTime(durationMs)
	}

	progress := fmt.Sprintf("%s %s %s",
		timeStyle.Render(FormatTime(positionMs)),
		progressStyle.Render(ProgressBar(positionMs, durationMs, BarWidth)),
		timeStyle.Render(total),
	)

	return strings.Join([]string{
		stateStyle.Render(stateLabel(pb.State)),
		summaryStyle.Render(truncate(summary, SummaryWidth)),
		progress,
	}, "\n")
}

// Summary formats a track as "Name - Artist (Album)", leaving out the parts
// the player did not report
func Summary(track *music.Track) string {
	var b strings.Builder
	b.WriteString(track.Name)
	if track.Artist != "" {
		b.WriteString(" - ")
		b.WriteString(track.Artist)
	}
	if track.Album != "" {
		fmt.Fprintf(&b, " (%s)", track.Album)
	}
	return b.String()
}

// stateLabel capitalizes the play state name
func stateLabel(state music.PlayState) string {
	name := state.String()
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// truncate shortens text to width display columns, ending in "..." when
// anything was cut. Width is measured in columns, so wide runes count double.
func truncate(text string, width int) string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return text
	}

	const ellipsis = "..."
	ellipsisWidth := runewidth.StringWidth(ellipsis)
	if width <= ellipsisWidth {
		return runewidth.Truncate(ellipsis, width, "")
	}

	return runewidth.Truncate(text, width-ellipsisWidth, "") + ellipsis
}
