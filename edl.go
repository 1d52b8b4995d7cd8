// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Package edl provides support for reading and writing CMX 3600-family EDL
// (Edit Decision List) files. An EDL is a text description of how a video
// program is assembled from source clips: a sequence of numbered edit events,
// each carrying a source reel, a channel designation, a transition, and
// source/record timecode ranges.
//
// The package supports four textual dialects: CMX 3600, CMX 340, GVG, and an
// OpenShot-style default. The Decoder autodetects the dialect of incoming
// text and recovers from malformed lines; the Encoder renders an
// EventSequence into any of the four layouts, synthesizing black gap events
// where a dialect calls for them.
package edl

import (
	"errors"
	"fmt"
	"strings"
)

// Dialect identifies one of the supported EDL output layouts.
type Dialect int

const (
	// DialectOpenShot is the default free-form style with interleaved tracks.
	DialectOpenShot Dialect = iota
	// DialectCMX3600 is the classic CMX 3600 layout (3-digit id, 8-char reel).
	DialectCMX3600
	// DialectCMX340 is the older CMX 340 layout (3-digit numeric reels).
	DialectCMX340
	// DialectGVG is the Grass Valley layout (4-digit id, 6-char reel).
	DialectGVG
)

func (d Dialect) String() string {
	switch d {
	case DialectCMX3600:
		return "CMX3600"
	case DialectCMX340:
		return "CMX340"
	case DialectGVG:
		return "GVG"
	case DialectOpenShot:
		return "OPENSHOT"
	}
	return fmt.Sprintf("Dialect(%d)", int(d))
}

// ParseDialect maps a dialect name to its Dialect value. Matching is
// case-insensitive and accepts the common short forms.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cmx3600", "cmx_3600", "3600":
		return DialectCMX3600, nil
	case "cmx340", "cmx_340", "340":
		return DialectCMX340, nil
	case "gvg":
		return DialectGVG, nil
	case "openshot":
		return DialectOpenShot, nil
	}
	return DialectOpenShot, fmt.Errorf("unknown dialect %q", name)
}

// dialectLayout holds the per-dialect formatting rules. Dialects differ only
// in field widths and constraints, so they are data rather than types.
type dialectLayout struct {
	idWidth        int
	reelWidth      int
	numericReel    bool // reels rendered as a rolling 3-digit counter
	maxAudioTracks int
	maxEvents      int
	synthesizeGaps bool // insert BL events into record-time holes
}

var layouts = map[Dialect]dialectLayout{
	DialectCMX3600:  {idWidth: 3, reelWidth: 8, maxAudioTracks: 4, maxEvents: 999, synthesizeGaps: true},
	DialectCMX340:   {idWidth: 3, reelWidth: 3, numericReel: true, maxAudioTracks: 2, maxEvents: 999},
	DialectGVG:      {idWidth: 4, reelWidth: 6, maxAudioTracks: 4, maxEvents: 9999},
	DialectOpenShot: {idWidth: 3, reelWidth: 8, maxAudioTracks: 4, maxEvents: 999, synthesizeGaps: true},
}

// BlackReel is the reel name used for synthesized black/gap events.
const BlackReel = "BL"

// DefaultReelName is used when a reel name sanitizes to nothing.
const DefaultReelName = "AX"

// blackReels are the reel identifiers that denote black/silence rather than
// real source media.
var blackReels = map[string]bool{
	"bw":    true,
	"bl":    true,
	"blk":   true,
	"black": true,
}

// IsBlackReel reports whether a reel name denotes black/gap filler rather
// than source media. The comparison is case-insensitive.
func IsBlackReel(name string) bool {
	return blackReels[strings.ToLower(name)]
}

// SanitizeReelName ensures a reel name conforms to EDL requirements.
// Characters other than letters, digits, '_' and '-' are stripped and the
// result is truncated to maxLength. If maxLength is 0 or negative, no length
// limit is applied. An empty result falls back to DefaultReelName.
func SanitizeReelName(name string, maxLength int) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	name = b.String()

	if maxLength > 0 && len(name) > maxLength {
		name = name[:maxLength]
	}

	if name == "" {
		name = DefaultReelName
	}

	return name
}

// Diagnostic records a non-fatal problem found while parsing or encoding.
// Per-line and per-field errors are absorbed as diagnostics; only file-level
// conditions surface as errors.
type Diagnostic struct {
	Line    int // 1-based source line, 0 when not tied to a line
	Message string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s", d.Line, d.Message)
	}
	return d.Message
}

// ErrNoEvents is returned by Decode when a file yields no parseable events.
var ErrNoEvents = errors.New("no events parsed")

// ParseError represents a fatal error that occurred during EDL parsing.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// EncodeError represents an error that occurred during EDL encoding.
type EncodeError struct {
	Message string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode error: %s", e.Message)
}
