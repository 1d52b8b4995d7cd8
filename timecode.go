// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package edl

import (
	"fmt"
	"strconv"
	"strings"
)

// Timecode is an HH:MM:SS:FF timecode at an integer frame rate.
//
// Negative frame counts carry their sign on all four fields, while Frames
// reads the sign back from the hours field alone. The string form always
// prints absolute values, so negative timecodes do not survive a round trip
// through text. Both behaviors are deliberate: downstream EDL consumers
// depend on the exact byte output, so the asymmetry is preserved rather than
// fixed.
type Timecode struct {
	FPS     int
	Hours   int
	Minutes int
	Seconds int
	Frame   int
}

// FromFrames converts an absolute frame count to a Timecode at the given
// frame rate. A negative count negates every field of the result.
func FromFrames(frames, fps int) Timecode {
	neg := frames < 0
	if neg {
		frames = -frames
	}

	t := Timecode{FPS: fps}
	t.Frame = frames % fps
	frames /= fps
	t.Seconds = frames % 60
	frames /= 60
	t.Minutes = frames % 60
	t.Hours = frames / 60

	if neg {
		t.Frame = -t.Frame
		t.Seconds = -t.Seconds
		t.Minutes = -t.Minutes
		t.Hours = -t.Hours
	}

	return t
}

// Frames converts the timecode to an absolute frame count. The sign is read
// from the hours field only.
func (t Timecode) Frames() int {
	frames := ((abs(t.Hours)*60+abs(t.Minutes))*60+abs(t.Seconds))*t.FPS + abs(t.Frame)
	if t.Hours < 0 {
		return -frames
	}
	return frames
}

// ParseTimecode parses flexible timecode text at the given frame rate:
//
//   - "2.5mps"      frame-rate-scaled seconds
//   - "2.5s"        seconds
//   - "120"         absolute frame count
//   - "01:02:03:04" four-field timecode; ';', ',' and '.' also separate
//
// The four-field form is renormalized through Frames/FromFrames so that
// visually invalid fields (":75" frames at 30 fps) are corrected. Text that
// matches no form yields the zero timecode and an error; callers should
// record the error as a diagnostic rather than abort.
func ParseTimecode(text string, fps int) (Timecode, error) {
	s := strings.TrimSpace(text)
	lower := strings.ToLower(s)

	switch {
	case strings.HasSuffix(lower, "mps"):
		secs, err := strconv.ParseFloat(s[:len(s)-3], 64)
		if err != nil {
			return Timecode{FPS: fps}, fmt.Errorf("could not convert to timecode: %q", text)
		}
		return FromFrames(int(secs*float64(fps)), fps), nil

	case strings.HasSuffix(lower, "s"):
		secs, err := strconv.ParseFloat(s[:len(s)-1], 64)
		if err != nil {
			return Timecode{FPS: fps}, fmt.Errorf("could not convert to timecode: %q", text)
		}
		return FromFrames(int(secs*float64(fps)), fps), nil

	case isDigits(s):
		frames, err := strconv.Atoi(s)
		if err != nil {
			return Timecode{FPS: fps}, fmt.Errorf("could not convert to timecode: %q", text)
		}
		return FromFrames(frames, fps), nil

	case strings.ContainsAny(s, ":;,."):
		normalized := strings.NewReplacer(";", ":", ",", ":", ".", ":").Replace(s)
		parts := strings.Split(normalized, ":")
		if len(parts) != 4 {
			return Timecode{FPS: fps}, fmt.Errorf("could not convert to timecode: %q", text)
		}
		t := Timecode{FPS: fps}
		fields := []*int{&t.Hours, &t.Minutes, &t.Seconds, &t.Frame}
		for i, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return Timecode{FPS: fps}, fmt.Errorf("could not convert to timecode: %q", text)
			}
			*fields[i] = n
		}
		// Renormalize so out-of-range fields collapse into their neighbors.
		return FromFrames(t.Frames(), fps), nil
	}

	return Timecode{FPS: fps}, fmt.Errorf("could not convert to timecode: %q", text)
}

// String formats the timecode as zero-padded HH:MM:SS:FF, printing the
// absolute value of every field.
func (t Timecode) String() string {
	return fmt.Sprintf("%02d:%02d:%02d:%02d", abs(t.Hours), abs(t.Minutes), abs(t.Seconds), abs(t.Frame))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// isDigits reports whether s is non-empty and consists only of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
