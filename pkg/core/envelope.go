// pkg/core/envelope.go
package core

import (
	"encoding/json"
	"fmt"
)

// Envelope is the canonical emitted event record: a strictly increasing
// sequence id, the formatted match clock, the type tag and the typed payload.
// The JSON form is flat: payload fields sit next to event_id/match_time/type.
type Envelope struct {
	EventID   uint64
	MatchTime string
	Type      EventType
	Payload   Payload
}

// NewEnvelope builds an envelope around a payload, deriving the type tag
// from the payload itself.
func NewEnvelope(id uint64, matchTime string, p Payload) *Envelope {
	return &Envelope{
		EventID:   id,
		MatchTime: matchTime,
		Type:      p.EventType(),
		Payload:   p,
	}
}

// MarshalJSON flattens the payload fields into the top-level object.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.Type, err)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("flatten %s payload: %w", e.Type, err)
	}

	id, _ := json.Marshal(e.EventID)
	clock, _ := json.Marshal(e.MatchTime)
	typ, _ := json.Marshal(e.Type)
	fields["event_id"] = id
	fields["match_time"] = clock
	fields["type"] = typ

	return json.Marshal(fields)
}

// MarshalJSON tags card list entries with their concrete event type so the
// end-of-match summary distinguishes yellow from red bookings.
func (c Card) MarshalJSON() ([]byte, error) {
	type alias Card
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{Type: c.EventType(), alias: alias(c)})
}

// MarshalJSON tags goal list entries for the end-of-match summary.
func (g Goal) MarshalJSON() ([]byte, error) {
	type alias Goal
	return json.Marshal(struct {
		Type EventType `json:"type"`
		alias
	}{Type: g.EventType(), alias: alias(g)})
}
