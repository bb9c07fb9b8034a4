// Package correlator reconstructs two-phase match actions. A pass or shot
// observed on frame N only becomes an event once a later frame determines
// its outcome; until then it sits in a single pending slot per action kind.
package correlator

import (
	"time"

	"github.com/pitchside/matchcast/pkg/core"
)

// PendingAction is an in-flight pass or shot awaiting resolution. Player
// identity is copied by value so the slot never aliases roster storage.
type PendingAction struct {
	Subtype core.Action
	Team    string
	Player  core.Player
	Zone    core.Zone
	At      time.Duration
}

// Possession identifies the player currently or most recently on the ball.
type Possession struct {
	Team   string
	Player core.Player
	Zone   core.Zone
}

// Correlator holds at most one pending pass and one pending shot per match
// and tracks ball possession across frames. Not safe for concurrent use;
// one instance belongs to exactly one match.
type Correlator struct {
	pendingPass *PendingAction
	pendingShot *PendingAction
	possession  *Possession
}

// New creates an empty correlator.
func New() *Correlator {
	return &Correlator{}
}

// Advance runs the per-frame decision tree for a frame whose ball ownership
// is determined. cur describes the current possessor, action is the
// possessing side's chosen action this frame, now is the current match time.
// Returned payloads are in emission order.
//
// The pending shot resolves on any frame with determined possession, not
// just on a possession change. A shot can therefore resolve on the same
// frame that initiates the next one, and a nearby goalkeeper registers a
// save without winning the ball. Downstream event counts depend on this.
func (c *Correlator) Advance(cur Possession, action core.Action, now time.Duration) []core.Payload {
	var out []core.Payload

	// A pass resolution claims the possession transition; the generic
	// possession-change event is suppressed for that frame.
	switch {
	case c.pendingPass != nil && !c.pendingPass.Player.Same(cur.Player):
		p := c.pendingPass
		out = append(out, core.Pass{
			Subtype:           p.Subtype,
			SecondsInterval:   int((now - p.At).Seconds()),
			Team:              p.Team,
			Passer:            p.Player,
			LocationPass:      p.Zone,
			Receiver:          cur.Player,
			LocationReception: cur.Zone,
			Completed:         p.Team == cur.Team,
		})
		c.pendingPass = nil
	case c.possession != nil && !c.possession.Player.Same(cur.Player):
		subtype := core.PossessionDifferentTeam
		if c.possession.Team == cur.Team {
			subtype = core.PossessionSameTeam
		}
		out = append(out, core.PossessionChange{
			Subtype:        subtype,
			CurrentTeam:    cur.Team,
			PreviousTeam:   c.possession.Team,
			CurrentPlayer:  cur.Player,
			PreviousPlayer: c.possession.Player,
			Location:       cur.Zone,
		})
	}

	if c.pendingShot != nil {
		s := c.pendingShot
		shot := core.Shot{
			Subtype:         core.ShotMissed,
			Team:            s.Team,
			Player:          s.Player,
			Location:        s.Zone,
			SecondsInterval: int((now - s.At).Seconds()),
		}
		if cur.Player.IsGoalkeeper() {
			keeper := cur.Player
			shot.Subtype = core.ShotSaved
			shot.Goalkeeper = &keeper
		}
		out = append(out, shot)
		c.pendingShot = nil
	}

	// Only one action of each kind is tracked; a fresh pass or shot
	// overwrites a stale slot.
	switch {
	case action.IsPass():
		c.pendingPass = &PendingAction{
			Subtype: action, Team: cur.Team, Player: cur.Player, Zone: cur.Zone, At: now,
		}
	case action == core.ActionShot:
		c.pendingShot = &PendingAction{
			Subtype: action, Team: cur.Team, Player: cur.Player, Zone: cur.Zone, At: now,
		}
	}

	record := cur
	c.possession = &record

	return out
}

// TakePendingShot removes and returns the pending shot. Goal handling calls
// this before Advance so the consumed shot cannot also resolve as saved or
// missed on the same frame.
func (c *Correlator) TakePendingShot() (PendingAction, bool) {
	if c.pendingShot == nil {
		return PendingAction{}, false
	}
	s := *c.pendingShot
	c.pendingShot = nil
	return s, true
}

// LastPossession returns the most recent possession record, if any.
func (c *Correlator) LastPossession() (Possession, bool) {
	if c.possession == nil {
		return Possession{}, false
	}
	return *c.possession, true
}
