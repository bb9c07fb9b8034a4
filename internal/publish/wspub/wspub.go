// Package wspub streams match events over WebSocket to a live consumer,
// typically the broadcast overlay server.
package wspub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pitchside/matchcast/pkg/core"
)

// Config holds WebSocket publisher configuration.
type Config struct {
	URL    string
	Secret string
}

// Publisher sends event envelopes over a WebSocket connection. Ordinary
// events are fire-and-forget; the match boundary events wait for a server
// ack so a consumer that missed kickoff is detected early.
type Publisher struct {
	conn *connection
	cfg  Config
}

// New creates a WebSocket publisher.
func New(cfg Config, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		conn: newConnection(logger),
		cfg:  cfg,
	}
}

// Connect dials the WebSocket server.
func (p *Publisher) Connect() error {
	return p.conn.dial(p.cfg.URL, p.cfg.Secret)
}

// Publish sends one event envelope.
func (p *Publisher) Publish(_ context.Context, env *core.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", env.Type, err)
	}

	switch env.Type {
	case core.EventStartOfMatch:
		// Cache for reconnect replay so a consumer that drops mid-match
		// still learns the rosters.
		p.conn.mu.Lock()
		p.conn.cachedKickoff = data
		p.conn.mu.Unlock()
		return p.conn.sendAndWait(data, string(env.Type), ackTimeout)
	case core.EventEndOfMatch:
		err := p.conn.sendAndWait(data, string(env.Type), ackTimeout)
		p.conn.mu.Lock()
		p.conn.cachedKickoff = nil
		p.conn.mu.Unlock()
		return err
	default:
		p.conn.send(data)
		return nil
	}
}

// Close disconnects from the WebSocket server.
func (p *Publisher) Close() error {
	return p.conn.close()
}
