// Package metadata loads the static match metadata (team names and rosters)
// and serves player lookups by side and simulator index.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pitchside/matchcast/pkg/core"
)

// Roster wraps validated match metadata with index-based lookups. It is
// immutable after Load; the engine keeps one instance for its lifetime.
type Roster struct {
	meta core.MatchMetadata
}

// Load reads and validates match metadata from a JSON file. Any structural
// problem is fatal: the engine must not start without a usable roster.
func Load(path string) (*Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read match metadata: %w", err)
	}
	return Parse(raw)
}

// Parse builds a Roster from raw metadata JSON.
func Parse(raw []byte) (*Roster, error) {
	var meta core.MatchMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal match metadata: %w", err)
	}

	if err := validateTeam(&meta.LeftTeam, "left_team"); err != nil {
		return nil, err
	}
	if err := validateTeam(&meta.RightTeam, "right_team"); err != nil {
		return nil, err
	}
	if meta.LeftTeam.Name == meta.RightTeam.Name {
		return nil, fmt.Errorf("match metadata: both teams named %q", meta.LeftTeam.Name)
	}

	return &Roster{meta: meta}, nil
}

func validateTeam(team *core.Team, key string) error {
	if team.Name == "" {
		return fmt.Errorf("match metadata: %s has no name", key)
	}
	if len(team.Players) == 0 {
		return fmt.Errorf("match metadata: %s %q has an empty roster", key, team.Name)
	}
	keepers := 0
	for _, p := range team.Players {
		if p.IsGoalkeeper() {
			keepers++
		}
	}
	if keepers != 1 {
		return fmt.Errorf("match metadata: %s %q has %d goalkeepers, want 1", key, team.Name, keepers)
	}
	return nil
}

// Metadata returns the full metadata for inclusion in start_of_match.
func (r *Roster) Metadata() core.MatchMetadata {
	return r.meta
}

// Team returns one side's metadata. side must be left or right.
func (r *Roster) Team(side core.Side) *core.Team {
	return r.meta.TeamFor(side)
}

// Player looks up a roster entry by side and simulator player index.
// The bool is false when the index falls outside the roster.
func (r *Roster) Player(side core.Side, idx int) (core.Player, bool) {
	team := r.meta.TeamFor(side)
	if idx < 0 || idx >= len(team.Players) {
		return core.Player{}, false
	}
	return team.Players[idx], true
}
