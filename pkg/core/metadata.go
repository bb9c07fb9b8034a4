// pkg/core/metadata.go
package core

// GoalkeeperPosition is the short-position tag marking a team's goalkeeper.
const GoalkeeperPosition = "GK"

// Player is one roster entry from the static match metadata.
type Player struct {
	Name          string `json:"name"`
	Number        int    `json:"number"`
	Position      string `json:"position"`
	ShortPosition string `json:"short_position"`
}

// Same reports whether two roster entries identify the same player.
// Shirt number is unique within a team; name disambiguates across teams.
func (p Player) Same(o Player) bool {
	return p.Number == o.Number && p.Name == o.Name
}

// IsGoalkeeper reports whether the player carries the goalkeeper tag.
func (p Player) IsGoalkeeper() bool {
	return p.ShortPosition == GoalkeeperPosition
}

// Team is one side's static metadata: display name plus ordered roster.
// Roster order matches the simulator's player index space.
type Team struct {
	Name    string   `json:"name"`
	Players []Player `json:"players"`
}

// MatchMetadata is the static match configuration loaded once at engine
// construction. Read-only for the engine's lifetime.
type MatchMetadata struct {
	LeftTeam  Team `json:"left_team"`
	RightTeam Team `json:"right_team"`
}

// TeamFor returns the team metadata for the given side. Callers must not
// pass SideNone.
func (m *MatchMetadata) TeamFor(side Side) *Team {
	if side == SideLeft {
		return &m.LeftTeam
	}
	return &m.RightTeam
}
