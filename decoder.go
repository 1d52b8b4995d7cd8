// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package edl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// fixedWidth is the line length that selects fixed-column tokenizing.
// The classic CMX event line is 76 columns of fields; exporters that pad
// it to 77 (or measure the line with its newline still attached) hit the
// column slices, while bare 76-column lines, including this package's own
// output, are whitespace-split into the same field order.
const fixedWidth = 77

// Decoder reads EDL text and produces an EventSequence. The decoder is
// tolerant: malformed lines are skipped and recorded as diagnostics, and the
// file fails only when nothing at all parses.
type Decoder struct {
	r     io.Reader
	rate  int
	diags []Diagnostic
}

// NewDecoder creates a new EDL decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:    r,
		rate: 25, // default frame rate
	}
}

// SetRate sets the frame rate for timecode interpretation.
func (d *Decoder) SetRate(fps int) {
	d.rate = fps
}

// Diagnostics returns the non-fatal problems recorded by the last Decode.
func (d *Decoder) Diagnostics() []Diagnostic {
	return d.diags
}

// Decode reads the EDL and returns the parsed EventSequence. The sequence's
// Dialect is the autodetected input dialect. Decode returns ErrNoEvents when
// no line parsed as an event, and the reader's error when reading fails.
func (d *Decoder) Decode() (*EventSequence, error) {
	d.diags = nil

	var lines []string
	scanner := bufio.NewScanner(d.r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read edl: %w", err)
	}

	seq := &EventSequence{Dialect: DetectDialect(lines)}

	var current *Event
	for i, line := range lines {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "#") {
			d.attachComment(current, trimmed)
			continue
		}

		if strings.HasPrefix(trimmed, "TITLE:") {
			seq.Title = strings.Join(strings.Fields(trimmed)[1:], " ")
			continue
		}

		// Frame count mode lines are informational only.
		if strings.HasPrefix(trimmed, "FCM:") ||
			strings.HasPrefix(trimmed, "DROP FRAME") ||
			strings.HasPrefix(trimmed, "NON-DROP FRAME") {
			continue
		}

		fields := tokenize(line)
		if len(fields) == 0 || !isDigits(fields[0]) {
			// Unrecognized non-event line.
			continue
		}

		event, err := d.parseEvent(fields, lineNum)
		if err != nil {
			msg := err.Error()
			var pe *ParseError
			if errors.As(err, &pe) {
				msg = pe.Message
			}
			d.diags = append(d.diags, Diagnostic{Line: lineNum, Message: msg})
			current = nil
			continue
		}

		if event.SourceOut.Frames() < event.SourceIn.Frames() {
			d.diags = append(d.diags, Diagnostic{Line: lineNum, Message: "source out before source in"})
		}
		if event.RecordOut.Frames() < event.RecordIn.Frames() {
			d.diags = append(d.diags, Diagnostic{Line: lineNum, Message: "record out before record in"})
		}

		seq.Append(event)
		current = event
	}

	if len(seq.Events) == 0 {
		return nil, ErrNoEvents
	}

	return seq, nil
}

// DetectDialect inspects raw lines and classifies the EDL dialect from the
// first event line: a 4-digit id means GVG, a 3-digit id with a short
// numeric reel means CMX 340, anything else defaults to CMX 3600. The check
// is a heuristic; ambiguous files classify as CMX 3600.
func DetectDialect(lines []string) Dialect {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" ||
			strings.HasPrefix(trimmed, "*") ||
			strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "TITLE:") ||
			strings.HasPrefix(trimmed, "FCM:") {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) == 0 || !isDigits(fields[0]) {
			continue
		}

		switch len(fields[0]) {
		case 4:
			return DialectGVG
		case 3:
			if len(fields) > 1 {
				reel := fields[1]
				if len(reel) <= 3 && isDigits(reel) {
					return DialectCMX340
				}
			}
			return DialectCMX3600
		}
		break
	}
	return DialectCMX3600
}

// tokenize splits an event line into fields. A line of exactly fixedWidth
// characters is cut by the fixed column slices; everything else splits on
// whitespace. Both paths yield fields in the same order.
func tokenize(line string) []string {
	if len(line) == fixedWidth {
		return sliceColumns(line)
	}
	return strings.Fields(line)
}

// sliceColumns cuts a fixed-width event line by its literal column ranges.
// The optional middle fields (edit type, transition, duration, extra) are
// included only when non-blank, matching the positional token walk of the
// free-form path.
func sliceColumns(line string) []string {
	fields := []string{
		strings.TrimSpace(line[0:3]),
		strings.TrimSpace(line[5:12]),
	}
	for _, col := range [][2]int{{14, 18}, {20, 22}, {23, 25}, {27, 28}} {
		if f := strings.TrimSpace(line[col[0]:col[1]]); f != "" {
			fields = append(fields, f)
		}
	}
	fields = append(fields,
		strings.TrimSpace(line[29:40]),
		strings.TrimSpace(line[41:52]),
		strings.TrimSpace(line[53:64]),
		strings.TrimSpace(line[65:76]),
	)
	return fields
}

// parseEvent walks an event line's fields positionally: id, reel, edit type,
// transition (with its sub-tokens), optional duration, then the four
// timecodes. Unparseable timecode fields degrade to zero values with a
// diagnostic; structural problems fail the line.
func (d *Decoder) parseEvent(fields []string, lineNum int) (*Event, error) {
	if len(fields) < 4 {
		return nil, &ParseError{Line: lineNum, Message: fmt.Sprintf("truncated event line (%d fields)", len(fields))}
	}

	event := &Event{}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, &ParseError{Line: lineNum, Message: fmt.Sprintf("invalid event number %q", fields[0])}
	}
	event.ID = id
	event.Reel = fields[1]
	event.Channels, event.AudioTrack = parseChannels(fields[2])

	i := 3
	token := strings.ToLower(fields[i])
	name, digits := splitTrailingDigits(token)
	kind, ok := transitionCodes[name]
	if !ok {
		kind = TransitionCut
	}
	event.Transition.Type = kind

	switch kind {
	case TransitionWipe:
		if digits != "" {
			event.Transition.Wipe, _ = strconv.Atoi(digits)
		}
	case TransitionKey:
		if i+1 < len(fields) {
			switch strings.ToLower(fields[i+1]) {
			case "b":
				event.Transition.Key = KeyBackground
				i++
			case "o":
				event.Transition.Key = KeyOut
				i++
			default:
				event.Transition.Key = KeyIn
			}
			if i+1 < len(fields) && strings.ToLower(fields[i+1]) == "(f)" {
				event.Transition.KeyFade = true
				i++
			}
		}
	}
	i++

	if event.Transition.Type.HasDuration() && i < len(fields) {
		event.Transition.Duration = d.timecode(fields[i], lineNum).Frames()
		i++
	}

	if len(fields)-i < 4 {
		return nil, &ParseError{Line: lineNum, Message: fmt.Sprintf("missing timecode fields (%d of 4)", len(fields)-i)}
	}
	event.SourceIn = d.timecode(fields[i], lineNum)
	event.SourceOut = d.timecode(fields[i+1], lineNum)
	event.RecordIn = d.timecode(fields[i+2], lineNum)
	event.RecordOut = d.timecode(fields[i+3], lineNum)

	return event, nil
}

// timecode parses one timecode field, degrading to a zero value with a
// diagnostic when the text is unparseable.
func (d *Decoder) timecode(text string, lineNum int) Timecode {
	tc, err := ParseTimecode(text, d.rate)
	if err != nil {
		d.diags = append(d.diags, Diagnostic{Line: lineNum, Message: err.Error()})
	}
	return tc
}

// attachComment associates a trailing comment line with the preceding event.
// SOURCE FILE / FROM CLIP NAME comments overwrite the event's reel and file
// reference, MARKER comments append a marker, and anything else is stored
// verbatim.
func (d *Decoder) attachComment(event *Event, line string) {
	if event == nil {
		return
	}

	for _, tag := range []string{"SOURCE FILE:", "FROM CLIP NAME:"} {
		if idx := strings.Index(line, tag); idx >= 0 {
			value := strings.TrimSpace(line[idx+len(tag):])
			event.Reel = value
			event.File = value
			return
		}
	}

	if idx := strings.Index(line, "MARKER:"); idx >= 0 {
		name := strings.TrimSpace(line[idx+len("MARKER:"):])
		event.Markers = append(event.Markers, Marker{Name: name, Record: event.RecordIn})
		return
	}

	event.Comments = append(event.Comments, line)
}

// splitTrailingDigits separates a token like "w001" into its letter prefix
// and digit suffix.
func splitTrailingDigits(token string) (letters, digits string) {
	var l, d strings.Builder
	for _, r := range token {
		if r >= '0' && r <= '9' {
			d.WriteRune(r)
		} else {
			l.WriteRune(r)
		}
	}
	return l.String(), d.String()
}
