// Package publish defines the downstream event consumer contract and the
// transport-independent sinks. Concrete transports live in subpackages.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pitchside/matchcast/pkg/core"
)

// Publisher accepts one emitted event at a time. Publish may fail; the
// engine treats that as non-fatal and keeps processing, so implementations
// must leave themselves usable after an error.
type Publisher interface {
	Publish(ctx context.Context, env *core.Envelope) error
	Close() error
}

// Fanout forwards every event to all wrapped publishers and joins their
// errors. One failing sink does not stop delivery to the others.
type Fanout struct {
	sinks []Publisher
}

// NewFanout creates a fan-out over the given publishers.
func NewFanout(sinks ...Publisher) *Fanout {
	return &Fanout{sinks: sinks}
}

// Publish delivers the event to every sink.
func (f *Fanout) Publish(ctx context.Context, env *core.Envelope) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Publish(ctx, env); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink.
func (f *Fanout) Close() error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriterSink writes events as newline-delimited JSON to an io.Writer,
// typically stdout. The default sink when no transport is configured.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink over w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Publish writes one JSON line.
func (s *WriterSink) Publish(_ context.Context, env *core.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode event %d: %w", env.EventID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write event %d: %w", env.EventID, err)
	}
	return nil
}

// Close is a no-op; the sink does not own the writer.
func (s *WriterSink) Close() error { return nil }
