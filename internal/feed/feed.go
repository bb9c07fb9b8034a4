// Package feed decodes the simulator's newline-delimited JSON frame stream.
// Each line carries one snapshot plus the action each side chose that step.
package feed

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pitchside/matchcast/pkg/core"
)

// Frames larger than the scanner default show up with full 22-player
// position arrays, so give the scanner plenty of room.
const maxLineBytes = 1 << 20

// ErrMalformedFrame flags a line that could not be decoded. The reader
// stays usable; callers skip the frame and continue.
var ErrMalformedFrame = errors.New("malformed feed frame")

// Frame is one decoded step of the simulator feed.
type Frame struct {
	Snapshot    core.Snapshot
	LeftAction  core.Action
	RightAction core.Action
}

type frameLine struct {
	core.Snapshot
	LeftAction  string `json:"left_action"`
	RightAction string `json:"right_action"`
}

// Reader decodes frames from an NDJSON stream.
type Reader struct {
	scanner *bufio.Scanner
	logger  *slog.Logger
	line    int
}

// NewReader creates a reader over r.
func NewReader(r io.Reader, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{scanner: s, logger: logger}
}

// Next returns the next frame. Blank lines are skipped. A malformed line
// returns an error wrapping ErrMalformedFrame; the reader can keep going.
// io.EOF signals a cleanly exhausted stream.
func (r *Reader) Next() (Frame, error) {
	for r.scanner.Scan() {
		r.line++
		raw := r.scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var fl frameLine
		if err := json.Unmarshal(raw, &fl); err != nil {
			return Frame{}, fmt.Errorf("%w: line %d: %v", ErrMalformedFrame, r.line, err)
		}

		return Frame{
			Snapshot:    fl.Snapshot,
			LeftAction:  r.coerceAction(fl.LeftAction, "left"),
			RightAction: r.coerceAction(fl.RightAction, "right"),
		}, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Frame{}, fmt.Errorf("reading feed: %w", err)
	}
	return Frame{}, io.EOF
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int {
	return r.line
}

// coerceAction maps unknown or absent labels to idle, the simulator's
// resting action.
func (r *Reader) coerceAction(label, side string) core.Action {
	if label == "" {
		return core.ActionIdle
	}
	a := core.Action(label)
	if !a.Known() {
		r.logger.Warn("unknown action label, treating as idle",
			"line", r.line, "side", side, "action", label)
		return core.ActionIdle
	}
	return a
}
