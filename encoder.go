// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package edl

import (
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Encoder writes an EventSequence as EDL text in one of the four supported
// dialects. Dialect constraints that cannot be honored (too many audio
// tracks, too many events) degrade the output and surface as warnings rather
// than failing the encode.
type Encoder struct {
	w        io.Writer
	dialect  Dialect
	rate     int
	warnings []Diagnostic
}

// NewEncoder creates a new EDL encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w:       w,
		dialect: DialectOpenShot,
		rate:    25, // default frame rate
	}
}

// SetDialect sets the output dialect.
func (e *Encoder) SetDialect(d Dialect) {
	e.dialect = d
}

// SetRate sets the frame rate used for synthesized gap timecodes and the
// header fps annotation.
func (e *Encoder) SetRate(fps int) {
	e.rate = fps
}

// Warnings returns the dialect-constraint warnings recorded by the last
// Encode.
func (e *Encoder) Warnings() []Diagnostic {
	return e.warnings
}

// eventLine is one rendered line of output: an event with its assigned id,
// sanitized reel, and channel label. An OpenShot video+audio pair shares one
// id across two sibling lines.
type eventLine struct {
	id               int
	reel             string
	label            string
	ev               *Event
	suppressComments bool
}

// Encode writes the sequence to the underlying writer. Event ids are
// assigned densely starting at 1 in output order; the events themselves are
// not mutated.
func (e *Encoder) Encode(seq *EventSequence) error {
	if seq == nil {
		return &EncodeError{Message: "sequence is nil"}
	}

	e.warnings = nil
	layout := layouts[e.dialect]
	lines := e.prepare(seq, layout)

	if n := len(lines); n > 0 && lines[n-1].id > layout.maxEvents {
		e.warnings = append(e.warnings, Diagnostic{
			Message: fmt.Sprintf("event count %d exceeds the %d-event limit of the %s id field",
				lines[n-1].id, layout.maxEvents, e.dialect),
		})
	}

	if err := e.writeHeader(seq); err != nil {
		return err
	}
	for _, line := range lines {
		if err := e.writeEventLine(line); err != nil {
			return err
		}
	}
	return nil
}

// writeHeader writes the TITLE and FCM lines followed by a blank line. The
// title line is omitted when the sequence has no title.
func (e *Encoder) writeHeader(seq *EventSequence) error {
	if seq.Title != "" {
		if _, err := fmt.Fprintf(e.w, "TITLE: %s  %d fps\n", seq.Title, e.rate); err != nil {
			return err
		}
	}

	fcm := "NON-DROP FRAME"
	if seq.DropFrame {
		fcm = "DROP FRAME"
	}
	_, err := fmt.Fprintf(e.w, "FCM: %s\n\n", fcm)
	return err
}

// prepare applies the dialect's construction rules: track assembly, gap
// synthesis, reel sanitization, ordering, and id assignment.
func (e *Encoder) prepare(seq *EventSequence, layout dialectLayout) []eventLine {
	var video []*Event
	audio := make(map[int][]*Event)
	dropped := make(map[int]bool)

	for _, ev := range seq.Events {
		if ev.Channels.HasVideo() {
			video = append(video, ev)
			continue
		}
		if !ev.Channels.HasAudio() {
			continue
		}
		track := ev.AudioTrack
		if track < 1 {
			track = 1
		}
		if track > layout.maxAudioTracks {
			if !dropped[track] {
				dropped[track] = true
				e.warnings = append(e.warnings, Diagnostic{
					Message: fmt.Sprintf("audio track %d exceeds the %s limit of %d tracks; events dropped",
						track, e.dialect, layout.maxAudioTracks),
				})
			}
			continue
		}
		audio[track] = append(audio[track], ev)
	}

	if layout.synthesizeGaps {
		video = fillGaps(video, ChannelVideo, 0, e.rate)
		for track, events := range audio {
			audio[track] = fillGaps(events, ChannelAudio, track, e.rate)
		}
	}

	tracks := make([]int, 0, len(audio))
	for track := range audio {
		tracks = append(tracks, track)
	}
	sort.Ints(tracks)

	reelFor := e.newReelAssigner(layout)

	var lines []eventLine
	id := 0

	if e.dialect == DialectOpenShot {
		// Interleave all tracks by shared record order.
		type slot struct {
			ev         *Event
			audioTrack int
			video      bool
		}
		var slots []slot
		for _, ev := range video {
			slots = append(slots, slot{ev: ev, video: true})
		}
		for _, track := range tracks {
			for _, ev := range audio[track] {
				slots = append(slots, slot{ev: ev, audioTrack: track})
			}
		}
		sort.SliceStable(slots, func(i, j int) bool {
			return slots[i].ev.RecordIn.Frames() < slots[j].ev.RecordIn.Frames()
		})

		for _, s := range slots {
			id++
			reel := reelFor(s.ev)
			if s.video && s.ev.Channels.HasAudio() {
				// Embedded audio: sibling video and audio lines, one id.
				lines = append(lines,
					eventLine{id: id, reel: reel, label: "V", ev: s.ev},
					eventLine{id: id, reel: reel, label: "A", ev: s.ev, suppressComments: true},
				)
				continue
			}
			label := "V"
			if !s.video {
				label = channelLabel(s.ev.Channels, s.audioTrack)
			}
			lines = append(lines, eventLine{id: id, reel: reel, label: label, ev: s.ev})
		}
		return lines
	}

	// Track-major order: the video track first, then audio tracks in
	// ascending order.
	for _, ev := range video {
		id++
		lines = append(lines, eventLine{id: id, reel: reelFor(ev), label: channelLabel(ev.Channels, 0), ev: ev})
	}
	for _, track := range tracks {
		for _, ev := range audio[track] {
			id++
			lines = append(lines, eventLine{id: id, reel: reelFor(ev), label: channelLabel(ev.Channels, track), ev: ev})
		}
	}
	return lines
}

// fillGaps inserts a black event into every record-time hole of a track:
// wherever one event's record out is less than the next event's record in.
// Gap events use the BL reel and a zero-length source range.
func fillGaps(events []*Event, channel Channel, audioTrack, fps int) []*Event {
	if len(events) < 2 {
		return events
	}

	out := make([]*Event, 0, len(events))
	out = append(out, events[0])
	for i := 1; i < len(events); i++ {
		prevOut := events[i-1].RecordOut.Frames()
		nextIn := events[i].RecordIn.Frames()
		if prevOut < nextIn {
			out = append(out, &Event{
				Reel:       BlackReel,
				Channels:   channel,
				AudioTrack: audioTrack,
				SourceIn:   FromFrames(0, fps),
				SourceOut:  FromFrames(0, fps),
				RecordIn:   FromFrames(prevOut, fps),
				RecordOut:  FromFrames(nextIn, fps),
				Comments:   []string{"* GAP/BLACK"},
			})
		}
		out = append(out, events[i])
	}
	return out
}

// newReelAssigner returns the dialect's reel naming rule. Plain dialects
// sanitize and truncate the reel name; numeric-reel dialects (CMX 340)
// replace each distinct reel with a rolling 3-digit counter value, wrapping
// at 999. Black reels keep the BL identifier everywhere.
func (e *Encoder) newReelAssigner(layout dialectLayout) func(*Event) string {
	if !layout.numericReel {
		return func(ev *Event) string {
			return SanitizeReelName(ev.Reel, layout.reelWidth)
		}
	}

	assigned := make(map[string]string)
	counter := 0
	return func(ev *Event) string {
		if IsBlackReel(ev.Reel) {
			return BlackReel
		}
		if reel, ok := assigned[ev.Reel]; ok {
			return reel
		}
		var reel string
		if name := SanitizeReelName(ev.Reel, 0); isDigits(name) {
			n, _ := strconv.Atoi(name)
			reel = fmt.Sprintf("%03d", n%1000)
		} else {
			counter++
			if counter > 999 {
				counter = 1
			}
			reel = fmt.Sprintf("%03d", counter)
		}
		assigned[ev.Reel] = reel
		return reel
	}
}

// writeEventLine writes one event line and its trailing comments.
func (e *Encoder) writeEventLine(l eventLine) error {
	ev := l.ev
	trans := transitionCode(ev.Transition)
	duration := ""
	if ev.Transition.Type.HasDuration() {
		duration = fmt.Sprintf("%03d", ev.Transition.Duration)
	}

	var line string
	switch e.dialect {
	case DialectCMX340:
		line = fmt.Sprintf("%03d  %-3s %-4s  %-4s %3s %-11s %-11s %-11s %-11s",
			l.id, l.reel, l.label, trans, duration,
			ev.SourceIn, ev.SourceOut, ev.RecordIn, ev.RecordOut)
	case DialectGVG:
		line = fmt.Sprintf("%04d  %-6s %-4s  %-4s %3s %-11s %-11s %-11s %-11s",
			l.id, l.reel, l.label, trans, duration,
			ev.SourceIn, ev.SourceOut, ev.RecordIn, ev.RecordOut)
	default: // CMX 3600 and OpenShot share the 8-char reel layout
		line = fmt.Sprintf("%03d  %-8s %-4s  %-4s %3s %-11s %-11s %-11s %-11s",
			l.id, l.reel, l.label, trans, duration,
			ev.SourceIn, ev.SourceOut, ev.RecordIn, ev.RecordOut)
	}
	if _, err := fmt.Fprintf(e.w, "%s\n", line); err != nil {
		return err
	}

	if l.suppressComments {
		return nil
	}

	wrote := false
	if ev.File != "" {
		if _, err := fmt.Fprintf(e.w, "* FROM CLIP NAME: %s\n", ev.File); err != nil {
			return err
		}
		wrote = true
	}
	for _, m := range ev.Markers {
		if _, err := fmt.Fprintf(e.w, "* MARKER: %s\n", m.Name); err != nil {
			return err
		}
		wrote = true
	}
	for _, c := range ev.Comments {
		if _, err := fmt.Fprintf(e.w, "%s\n", c); err != nil {
			return err
		}
		wrote = true
	}
	if wrote {
		if _, err := fmt.Fprintln(e.w); err != nil {
			return err
		}
	}
	return nil
}

// transitionCode renders a transition as its event-line token(s). Key
// transitions append their placement and fade sub-tokens; the free-form
// tokenizer reads them back as separate fields.
func transitionCode(t Transition) string {
	switch t.Type {
	case TransitionCut:
		return "C"
	case TransitionDissolve:
		return "D"
	case TransitionEffect:
		return "E"
	case TransitionFadeIn:
		return "FI"
	case TransitionFadeOut:
		return "FO"
	case TransitionWipe:
		return fmt.Sprintf("W%03d", t.Wipe)
	case TransitionKey:
		code := "K"
		switch t.Key {
		case KeyBackground:
			code = "K B"
		case KeyOut:
			code = "K O"
		}
		if t.KeyFade {
			code += " (F)"
		}
		return code
	}
	return "C"
}
