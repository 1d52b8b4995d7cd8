// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package edl

import (
	"errors"
	"strings"
	"testing"
)

func TestDecoder_SimpleEDL(t *testing.T) {
	edl := `TITLE: Test Timeline  25 fps
FCM: NON-DROP FRAME

001  AX       V     C        00:00:00:00 00:00:05:00 00:00:00:00 00:00:05:00
* FROM CLIP NAME: shot1.mov

002  AX       V     C        00:00:10:00 00:00:15:00 00:00:05:00 00:00:10:00
* FROM CLIP NAME: shot2.mov

003  AX       V     D    030 00:00:20:00 00:00:25:00 00:00:10:00 00:00:15:00
* FROM CLIP NAME: shot3.mov
`

	decoder := NewDecoder(strings.NewReader(edl))
	decoder.SetRate(25)

	seq, err := decoder.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if seq.Title != "Test Timeline 25 fps" {
		t.Errorf("unexpected title %q", seq.Title)
	}
	if len(seq.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(seq.Events))
	}

	first := seq.Events[0]
	if first.ID != 1 {
		t.Errorf("expected id 1, got %d", first.ID)
	}
	if first.Reel != "shot1.mov" {
		t.Errorf("FROM CLIP NAME should overwrite the reel, got %q", first.Reel)
	}
	if first.File != "shot1.mov" {
		t.Errorf("unexpected file ref %q", first.File)
	}
	if !first.Channels.HasVideo() || first.Channels.HasAudio() {
		t.Errorf("unexpected channels %b", first.Channels)
	}
	if first.SourceOut.Frames() != 125 {
		t.Errorf("source out = %d frames, want 125", first.SourceOut.Frames())
	}
	if got := first.Name(); got != "001_shot1.mov_cut" {
		t.Errorf("Name() = %q", got)
	}

	third := seq.Events[2]
	if third.Transition.Type != TransitionDissolve {
		t.Errorf("expected dissolve, got %s", third.Transition.Type)
	}
	if third.Transition.Duration != 30 {
		t.Errorf("dissolve duration = %d, want 30", third.Transition.Duration)
	}

	if len(decoder.Diagnostics()) != 0 {
		t.Errorf("unexpected diagnostics: %v", decoder.Diagnostics())
	}
}

func TestDecoder_MalformedLineSkipped(t *testing.T) {
	edl := `FCM: NON-DROP FRAME

001  AX       V     C        00:00:00:00 00:00:05:00 00:00:00:00 00:00:05:00
002  AX       V     C        banana
003  AX       V     C        00:00:05:00 00:00:10:00 00:00:05:00 00:00:10:00
`

	decoder := NewDecoder(strings.NewReader(edl))
	decoder.SetRate(25)

	seq, err := decoder.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(seq.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(seq.Events))
	}
	if seq.Events[1].ID != 3 {
		t.Errorf("expected ids 1 and 3, got %d", seq.Events[1].ID)
	}

	diags := decoder.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	if diags[0].Line != 4 {
		t.Errorf("diagnostic on line %d, want 4", diags[0].Line)
	}
}

func TestDecoder_NoEvents(t *testing.T) {
	edl := `TITLE: Empty
FCM: NON-DROP FRAME

this is not an edl
`

	decoder := NewDecoder(strings.NewReader(edl))
	_, err := decoder.Decode()
	if !errors.Is(err, ErrNoEvents) {
		t.Fatalf("expected ErrNoEvents, got %v", err)
	}
}

func TestDecoder_FixedWidthLine(t *testing.T) {
	line := "001  AX       V     C        00:00:00:00 00:00:04:00 00:01:00:00 00:01:04:00 "
	if len(line) != fixedWidth {
		t.Fatalf("fixture line is %d chars, want %d", len(line), fixedWidth)
	}

	decoder := NewDecoder(strings.NewReader(line + "\n"))
	decoder.SetRate(25)

	seq, err := decoder.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(seq.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(seq.Events))
	}

	ev := seq.Events[0]
	if ev.Reel != "AX" {
		t.Errorf("reel = %q", ev.Reel)
	}
	if ev.Transition.Type != TransitionCut {
		t.Errorf("transition = %s", ev.Transition.Type)
	}
	if ev.RecordIn.Frames() != 60*25 {
		t.Errorf("record in = %d frames, want %d", ev.RecordIn.Frames(), 60*25)
	}
	if ev.RecordOut.Frames() != 64*25 {
		t.Errorf("record out = %d frames, want %d", ev.RecordOut.Frames(), 64*25)
	}
}

func TestDecoder_DialectDetection(t *testing.T) {
	tests := []struct {
		name    string
		edl     string
		dialect Dialect
	}{
		{
			name:    "four digit ids mean GVG",
			edl:     "0001  CAM1   V    C      00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00\n",
			dialect: DialectGVG,
		},
		{
			name:    "numeric short reels mean CMX340",
			edl:     "001  004 V    C      00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00\n",
			dialect: DialectCMX340,
		},
		{
			name:    "three digit ids default to CMX3600",
			edl:     "001  TAPE1 V    C      00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00\n",
			dialect: DialectCMX3600,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder := NewDecoder(strings.NewReader(tt.edl))
			decoder.SetRate(25)
			seq, err := decoder.Decode()
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if seq.Dialect != tt.dialect {
				t.Errorf("detected %s, want %s", seq.Dialect, tt.dialect)
			}
		})
	}
}

func TestDecoder_ChannelParsing(t *testing.T) {
	edl := `001  AX  V    C  00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00
002  AX  A2   C  00:00:00:00 00:00:01:00 00:00:01:00 00:00:02:00
003  AX  AA   C  00:00:00:00 00:00:01:00 00:00:02:00 00:00:03:00
004  AX  B    C  00:00:00:00 00:00:01:00 00:00:03:00 00:00:04:00
005  AX  V/A1 C  00:00:00:00 00:00:01:00 00:00:04:00 00:00:05:00
`

	decoder := NewDecoder(strings.NewReader(edl))
	decoder.SetRate(25)
	seq, err := decoder.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	events := seq.Events
	if events[0].Channels != ChannelVideo {
		t.Errorf("event 1 channels = %b", events[0].Channels)
	}
	if events[1].Channels != ChannelAudio || events[1].AudioTrack != 2 {
		t.Errorf("event 2 channels = %b track %d", events[1].Channels, events[1].AudioTrack)
	}
	if events[2].Channels != ChannelAudioStereo {
		t.Errorf("event 3 channels = %b", events[2].Channels)
	}
	if !events[3].Channels.HasVideo() || !events[3].Channels.HasAudio() {
		t.Errorf("event 4 should carry video and audio, got %b", events[3].Channels)
	}
	if events[4].Channels != ChannelVideo|ChannelAudio || events[4].AudioTrack != 1 {
		t.Errorf("event 5 channels = %b track %d", events[4].Channels, events[4].AudioTrack)
	}
}

func TestDecoder_Transitions(t *testing.T) {
	edl := `001  AX  V  C          00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00
002  AX  V  D      030 00:00:00:00 00:00:01:00 00:00:01:00 00:00:02:00
003  AX  V  W001   015 00:00:00:00 00:00:01:00 00:00:02:00 00:00:03:00
004  AX  V  K  B  (F)  00:00:00:00 00:00:01:00 00:00:03:00 00:00:04:00
005  AX  V  FI     012 00:00:00:00 00:00:01:00 00:00:04:00 00:00:05:00
`

	decoder := NewDecoder(strings.NewReader(edl))
	decoder.SetRate(30)
	seq, err := decoder.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(seq.Events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(seq.Events))
	}

	events := seq.Events
	if events[0].Transition.Type != TransitionCut {
		t.Errorf("event 1: %s", events[0].Transition.Type)
	}
	if tr := events[1].Transition; tr.Type != TransitionDissolve || tr.Duration != 30 {
		t.Errorf("event 2: %+v", tr)
	}
	if tr := events[2].Transition; tr.Type != TransitionWipe || tr.Wipe != 1 || tr.Duration != 15 {
		t.Errorf("event 3: %+v", tr)
	}
	if tr := events[3].Transition; tr.Type != TransitionKey || tr.Key != KeyBackground || !tr.KeyFade {
		t.Errorf("event 4: %+v", tr)
	}
	if tr := events[4].Transition; tr.Type != TransitionFadeIn || tr.Duration != 12 {
		t.Errorf("event 5: %+v", tr)
	}
}

func TestDecoder_CommentAssociation(t *testing.T) {
	edl := `001  AX  V  C  00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00
* SOURCE FILE: interview.mov
* MARKER: Scene 1
* TRANSFORM: X=10 Y=20
`

	decoder := NewDecoder(strings.NewReader(edl))
	decoder.SetRate(25)
	seq, err := decoder.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	ev := seq.Events[0]
	if ev.Reel != "interview.mov" || ev.File != "interview.mov" {
		t.Errorf("SOURCE FILE not applied: reel=%q file=%q", ev.Reel, ev.File)
	}
	if len(ev.Markers) != 1 || ev.Markers[0].Name != "Scene 1" {
		t.Errorf("unexpected markers %v", ev.Markers)
	}
	if ev.Markers[0].Record.Frames() != 0 {
		t.Errorf("marker record = %d frames", ev.Markers[0].Record.Frames())
	}
	if len(ev.Comments) != 1 || ev.Comments[0] != "* TRANSFORM: X=10 Y=20" {
		t.Errorf("unexpected comments %v", ev.Comments)
	}
}

func TestDecoder_OutBeforeInDiagnosed(t *testing.T) {
	edl := "001  AX  V  C  00:00:05:00 00:00:00:00 00:00:00:00 00:00:05:00\n"

	decoder := NewDecoder(strings.NewReader(edl))
	decoder.SetRate(25)
	seq, err := decoder.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	// The event is kept; the violation is reported, not silently accepted.
	if len(seq.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(seq.Events))
	}
	found := false
	for _, d := range decoder.Diagnostics() {
		if strings.Contains(d.Message, "source out before source in") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an out-before-in diagnostic, got %v", decoder.Diagnostics())
	}
}

func TestEventSequence_Reels(t *testing.T) {
	edl := `001  TAPE1  V  C  00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00
002  BL     V  C  00:00:00:00 00:00:00:00 00:00:01:00 00:00:02:00
003  TAPE1  V  C  00:00:00:00 00:00:01:00 00:00:02:00 00:00:03:00
004  TAPE2  A  C  00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00
`

	decoder := NewDecoder(strings.NewReader(edl))
	decoder.SetRate(25)
	seq, err := decoder.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	reels := seq.Reels()
	if len(reels) != 3 {
		t.Fatalf("expected 3 reels, got %v", reels)
	}
	if len(reels["TAPE1"]) != 2 {
		t.Errorf("TAPE1 should group 2 events, got %d", len(reels["TAPE1"]))
	}

	// Grouping excludes nothing; callers filter black reels themselves.
	if _, ok := reels["BL"]; !ok {
		t.Error("black reel missing from grouping")
	}
	if !IsBlackReel("BL") || !IsBlackReel("black") || !IsBlackReel("Bw") || IsBlackReel("TAPE1") {
		t.Error("IsBlackReel misclassifies")
	}
}
