// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Package render formats sequences and diagnostics for terminal output.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/mrjoshuak/edl"
)

var (
	colorPrimary = lipgloss.Color("12")  // bright blue
	colorWarn    = lipgloss.Color("11")  // bright yellow
	colorDim     = lipgloss.Color("240") // gray

	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleHeading = lipgloss.NewStyle().
			Foreground(colorDim).
			Bold(true)

	styleWarn = lipgloss.NewStyle().
			Foreground(colorWarn)

	styleReel = lipgloss.NewStyle().
			Foreground(colorPrimary)
)

// Renderer writes formatted output, with styling when the destination is a
// terminal.
type Renderer struct {
	w     io.Writer
	color bool
}

// New creates a renderer for w. Styling is enabled only when w is a
// terminal.
func New(w io.Writer) *Renderer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Renderer{w: w, color: color}
}

func (r *Renderer) styled(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// Sequence prints a one-event-per-line summary of the sequence.
func (r *Renderer) Sequence(seq *edl.EventSequence) {
	title := seq.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(r.w, "%s  %s, %d events\n",
		r.styled(styleTitle, title), seq.Dialect, len(seq.Events))

	for _, ev := range seq.Events {
		label := "V"
		switch {
		case ev.Channels.HasVideo() && ev.Channels.HasAudio():
			label = "V/A"
		case ev.Channels.HasAudio():
			label = fmt.Sprintf("A%d", ev.AudioTrack)
		}
		fmt.Fprintf(r.w, "  %03d  %s %-4s %s %s - %s\n",
			ev.ID, r.styled(styleReel, fmt.Sprintf("%-8s", ev.Reel)), label,
			ev.Transition.Type, ev.RecordIn, ev.RecordOut)
		for _, m := range ev.Markers {
			fmt.Fprintf(r.w, "       %s %s\n",
				r.styled(styleHeading, "marker:"), m.Name)
		}
	}
}

// Reels prints the reel summary: each reel name with its event count.
func (r *Renderer) Reels(reels map[string][]*edl.Event, names []string) {
	for _, name := range names {
		fmt.Fprintf(r.w, "%s  %d events\n",
			r.styled(styleReel, fmt.Sprintf("%-8s", name)), len(reels[name]))
	}
}

// Diagnostics prints parser diagnostics under a heading. A nil slice prints
// nothing.
func (r *Renderer) Diagnostics(diags []edl.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintln(r.w, r.styled(styleHeading, "diagnostics:"))
	for _, d := range diags {
		fmt.Fprintf(r.w, "  %s\n", r.styled(styleWarn, d.String()))
	}
}

// Problems prints analysis findings (overlaps, gaps) one per line.
func (r *Renderer) Problems(lines []string) {
	for _, line := range lines {
		fmt.Fprintf(r.w, "%s\n", r.styled(styleWarn, line))
	}
}
