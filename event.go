// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package edl

import (
	"fmt"
	"strconv"
	"strings"
)

// Channel is a bitmask of the channels an edit event occupies.
type Channel uint8

const (
	// ChannelVideo marks a video-only event (edit type "V").
	ChannelVideo Channel = 1 << iota
	// ChannelAudio marks an audio event ("A", "A1".."A4").
	ChannelAudio
	// ChannelAudioStereo marks a stereo audio event ("AA").
	ChannelAudioStereo
	// ChannelVideoAudio marks a combined video+audio event ("VA" or "B").
	ChannelVideoAudio
)

// channelCodes maps edit-type tokens (digits stripped) to channel flags.
var channelCodes = map[string]Channel{
	"v":  ChannelVideo,
	"a":  ChannelAudio,
	"aa": ChannelAudioStereo,
	"va": ChannelVideoAudio,
	"b":  ChannelVideoAudio,
}

// HasVideo reports whether the event carries video.
func (c Channel) HasVideo() bool {
	return c&(ChannelVideo|ChannelVideoAudio) != 0
}

// HasAudio reports whether the event carries audio.
func (c Channel) HasAudio() bool {
	return c&(ChannelAudio|ChannelAudioStereo|ChannelVideoAudio) != 0
}

// parseChannels interprets an edit-type token such as "V", "A2", "AA" or
// "V/A1". Digits are stripped before the table lookup; a digit on a plain
// audio token is retained as the 1-based audio track number.
func parseChannels(token string) (Channel, int) {
	var channels Channel
	track := 0
	for _, part := range strings.Split(strings.ToLower(token), "/") {
		var letters, digits strings.Builder
		for _, r := range part {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			} else {
				letters.WriteRune(r)
			}
		}
		c, ok := channelCodes[letters.String()]
		if !ok {
			continue
		}
		channels |= c
		if letters.String() == "a" && digits.Len() > 0 {
			track, _ = strconv.Atoi(digits.String())
		}
	}
	return channels, track
}

// channelLabel renders a channel designation for an event line.
func channelLabel(c Channel, audioTrack int) string {
	switch {
	case c.HasVideo() && c.HasAudio():
		return "B"
	case c.HasVideo():
		return "V"
	case c&ChannelAudioStereo != 0:
		return "AA"
	case audioTrack > 1:
		return fmt.Sprintf("A%d", audioTrack)
	default:
		return "A"
	}
}

// TransitionType is the closed set of edit transition kinds.
type TransitionType int

const (
	// TransitionCut is an instantaneous edit.
	TransitionCut TransitionType = iota
	// TransitionDissolve is a cross-fade from the preceding event.
	TransitionDissolve
	// TransitionEffect is a generic timed effect.
	TransitionEffect
	// TransitionFadeIn fades up from black.
	TransitionFadeIn
	// TransitionFadeOut fades down to black.
	TransitionFadeOut
	// TransitionWipe sweeps the new image over the preceding one.
	TransitionWipe
	// TransitionKey overlays the event as a key.
	TransitionKey
)

// transitionCodes maps transition tokens (digits stripped) to kinds.
var transitionCodes = map[string]TransitionType{
	"c":  TransitionCut,
	"d":  TransitionDissolve,
	"e":  TransitionEffect,
	"fi": TransitionFadeIn,
	"fo": TransitionFadeOut,
	"w":  TransitionWipe,
	"k":  TransitionKey,
}

func (t TransitionType) String() string {
	switch t {
	case TransitionCut:
		return "cut"
	case TransitionDissolve:
		return "dissolve"
	case TransitionEffect:
		return "effect"
	case TransitionFadeIn:
		return "fade-in"
	case TransitionFadeOut:
		return "fade-out"
	case TransitionWipe:
		return "wipe"
	case TransitionKey:
		return "key"
	}
	return fmt.Sprintf("TransitionType(%d)", int(t))
}

// HasDuration reports whether the transition kind carries a duration field
// on its event line.
func (t TransitionType) HasDuration() bool {
	switch t {
	case TransitionDissolve, TransitionEffect, TransitionFadeIn, TransitionFadeOut, TransitionWipe:
		return true
	}
	return false
}

// KeyPlacement positions a key transition relative to its event.
type KeyPlacement int

const (
	// KeyIn keys the event in over the preceding one.
	KeyIn KeyPlacement = iota
	// KeyBackground uses the event as the key background ("K B").
	KeyBackground
	// KeyOut keys the event out ("K O").
	KeyOut
)

// Transition describes how an event joins the preceding event on its track.
// Duration is meaningful only for kinds where HasDuration is true; Wipe
// selects the wipe sub-kind; Key and KeyFade apply to key transitions.
//
// Realizing a transition (extending the predecessor, fading opacity,
// compositing a wipe) is the host's responsibility; the codec only supplies
// kind, duration, and sub-kind.
type Transition struct {
	Type     TransitionType
	Duration int // frames
	Wipe     int
	Key      KeyPlacement
	KeyFade  bool
}

// Marker is a named locator attached to an event via a "* MARKER:" comment.
type Marker struct {
	Name   string
	Record Timecode // record-time position, the event's record in point
}

// Event is a single edit in an EDL: one numbered line plus its trailing
// comment lines.
//
// Events are immutable once placed into an EventSequence; reel-name
// sanitization is applied by the Encoder at write time without mutating the
// event.
type Event struct {
	ID         int
	Reel       string
	Channels   Channel
	AudioTrack int // 1-based A<n> track number, 0 when unnumbered
	Transition Transition

	SourceIn  Timecode
	SourceOut Timecode
	RecordIn  Timecode
	RecordOut Timecode

	File     string   // display path from a SOURCE FILE / FROM CLIP NAME comment
	Markers  []Marker
	Comments []string // unrecognized trailing comments, verbatim and in order
}

// Name returns a human-readable identifier like "001_AX_cut".
func (e *Event) Name() string {
	return fmt.Sprintf("%03d_%s_%s", e.ID, e.Reel, e.Transition.Type)
}
