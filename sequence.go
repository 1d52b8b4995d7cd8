// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package edl

import (
	"fmt"
	"sort"
)

// EventSequence is an ordered list of edit events plus list-level metadata.
// The order is the caller's write/record order; the codec never re-sorts it.
// Event ids are assigned densely from 1 only by the Encoder, never inferred
// by renumbering existing ids.
type EventSequence struct {
	Title     string
	DropFrame bool
	Dialect   Dialect
	Events    []*Event
}

// NewEventSequence returns an empty sequence with the given title.
func NewEventSequence(title string) *EventSequence {
	return &EventSequence{Title: title}
}

// Append adds an event to the end of the sequence.
func (s *EventSequence) Append(e *Event) {
	s.Events = append(s.Events, e)
}

// Reels groups events by reel name. Nothing is filtered; callers exclude
// black/gap identifiers with IsBlackReel when building reel-to-file maps.
func (s *EventSequence) Reels() map[string][]*Event {
	reels := make(map[string][]*Event)
	for _, e := range s.Events {
		reels[e.Reel] = append(reels[e.Reel], e)
	}
	return reels
}

// OverlapsPrior reports whether the record range of test overlaps the
// interior of any earlier event's record range. Edge-touching ranges do not
// overlap. This is an O(n) scan per call over the events accumulated before
// test, intended for validation rather than hot paths.
func (s *EventSequence) OverlapsPrior(test *Event) bool {
	recIn := test.RecordIn.Frames()
	recOut := test.RecordOut.Frames()

	for _, e := range s.Events {
		if e == test {
			break
		}

		otherIn := e.RecordIn.Frames()
		otherOut := e.RecordOut.Frames()

		if otherIn < recIn && recIn < otherOut {
			return true
		}
		if otherIn < recOut && recOut < otherOut {
			return true
		}
		if recIn < otherIn && otherIn < recOut {
			return true
		}
		if recIn < otherOut && otherOut < recOut {
			return true
		}
	}

	return false
}

// PrecedingOnTrack returns the event immediately preceding test on the same
// track, or nil when test is the track's first event. Transitions are
// defined relative to this predecessor.
func (s *EventSequence) PrecedingOnTrack(test *Event) *Event {
	var prev *Event
	for _, e := range s.Events {
		if e == test {
			return prev
		}
		if sameTrack(e, test) {
			prev = e
		}
	}
	return nil
}

func sameTrack(a, b *Event) bool {
	if a.Channels.HasVideo() && b.Channels.HasVideo() {
		return true
	}
	if a.Channels.HasAudio() && b.Channels.HasAudio() && a.AudioTrack == b.AudioTrack {
		return true
	}
	return false
}

// Track is one per-channel group of a sequence's events.
type Track struct {
	Name   string // "V" or "A<n>"
	Events []*Event
}

// Tracks splits the sequence into per-track groups: video-carrying events
// first, then each audio track in ascending track number. Events within a
// group are sorted by record in point, the order RecordGaps expects. The
// sequence itself is not reordered.
func (s *EventSequence) Tracks() []Track {
	var video []*Event
	audio := make(map[int][]*Event)

	for _, e := range s.Events {
		if e.Channels.HasVideo() {
			video = append(video, e)
			continue
		}
		if !e.Channels.HasAudio() {
			continue
		}
		track := e.AudioTrack
		if track < 1 {
			track = 1
		}
		audio[track] = append(audio[track], e)
	}

	numbers := make([]int, 0, len(audio))
	for n := range audio {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	var tracks []Track
	if len(video) > 0 {
		tracks = append(tracks, Track{Name: "V", Events: video})
	}
	for _, n := range numbers {
		tracks = append(tracks, Track{Name: fmt.Sprintf("A%d", n), Events: audio[n]})
	}
	for i := range tracks {
		events := tracks[i].Events
		sort.SliceStable(events, func(a, b int) bool {
			return events[a].RecordIn.Frames() < events[b].RecordIn.Frames()
		})
	}
	return tracks
}

// FrameRange is a half-open [Start, End) interval of record frames.
type FrameRange struct {
	Start int
	End   int
}

// Duration returns the range length in frames.
func (r FrameRange) Duration() int {
	return r.End - r.Start
}

// RecordGaps computes the record-time holes between consecutive events of a
// single track: wherever an event's record out is less than the next event's
// record in, the interval between them is reported. Events must already be
// in record order.
func RecordGaps(events []*Event) []FrameRange {
	var gaps []FrameRange
	for i := 1; i < len(events); i++ {
		prevOut := events[i-1].RecordOut.Frames()
		nextIn := events[i].RecordIn.Frames()
		if prevOut < nextIn {
			gaps = append(gaps, FrameRange{Start: prevOut, End: nextIn})
		}
	}
	return gaps
}
