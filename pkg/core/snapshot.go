// pkg/core/snapshot.go
package core

// Pitch dimensions in simulator coordinates. The playing surface spans
// [-FieldHalfLength, FieldHalfLength] x [-FieldHalfWidth, FieldHalfWidth].
const (
	FieldHalfLength = 1.0
	FieldHalfWidth  = 0.42
	GoalHalfWidth   = 0.044
)

// Side identifies a team side in a snapshot. The simulator uses -1 for
// "nobody owns the ball".
type Side int8

const (
	SideNone  Side = -1
	SideLeft  Side = 0
	SideRight Side = 1
)

// String returns the side name used in logs and wire payloads.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// Opponent returns the opposing side. Opponent of SideNone is SideNone.
func (s Side) Opponent() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return SideNone
	}
}

// GameMode is the discrete play state reported by the simulator.
type GameMode int8

const (
	ModeNormal GameMode = iota
	ModeKickOff
	ModeGoalKick
	ModeFreeKick
	ModeCorner
	ModeThrowIn
	ModePenalty
)

var gameModeNames = map[GameMode]string{
	ModeNormal:   "normal",
	ModeKickOff:  "kick_off",
	ModeGoalKick: "goal_kick",
	ModeFreeKick: "free_kick",
	ModeCorner:   "corner",
	ModeThrowIn:  "throw_in",
	ModePenalty:  "penalty",
}

// String returns the wire name of the mode, or "unknown" for values
// outside the simulator's enum.
func (m GameMode) String() string {
	if name, ok := gameModeNames[m]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON encodes the mode as its wire name.
func (m GameMode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// Position is a 2-D pitch coordinate.
type Position [2]float64

// X returns the coordinate along the length of the pitch.
func (p Position) X() float64 { return p[0] }

// Y returns the coordinate across the width of the pitch.
func (p Position) Y() float64 { return p[1] }

// Snapshot is one simulation frame's full observable state. Snapshots are
// owned by the caller and read-only to the engine; the engine retains at
// most one previous snapshot for diffing.
type Snapshot struct {
	StepsLeft       int        `json:"steps_left"`
	Score           [2]int     `json:"score"`
	BallOwnedSide   Side       `json:"ball_owned_team"`
	BallOwnedPlayer int        `json:"ball_owned_player"`
	LeftPositions   []Position `json:"left_team"`
	RightPositions  []Position `json:"right_team"`
	LeftYellowCards []bool     `json:"left_team_yellow_card"`
	RightYellowCards []bool    `json:"right_team_yellow_card"`
	LeftActive      []bool     `json:"left_team_active"`
	RightActive     []bool     `json:"right_team_active"`
	GameMode        GameMode   `json:"game_mode"`
}

// Positions returns the player position array for the given side.
func (s *Snapshot) Positions(side Side) []Position {
	if side == SideLeft {
		return s.LeftPositions
	}
	return s.RightPositions
}

// YellowCards returns the yellow-card flag array for the given side.
func (s *Snapshot) YellowCards(side Side) []bool {
	if side == SideLeft {
		return s.LeftYellowCards
	}
	return s.RightYellowCards
}

// Active returns the active-player flag array for the given side.
func (s *Snapshot) Active(side Side) []bool {
	if side == SideLeft {
		return s.LeftActive
	}
	return s.RightActive
}

// Action is one entry of the simulator's fixed action vocabulary.
type Action string

const (
	ActionIdle        Action = "idle"
	ActionLeft        Action = "action_left"
	ActionTopLeft     Action = "action_top_left"
	ActionTop         Action = "action_top"
	ActionTopRight    Action = "action_top_right"
	ActionRight       Action = "action_right"
	ActionBottomRight Action = "action_bottom_right"
	ActionBottom      Action = "action_bottom"
	ActionBottomLeft  Action = "action_bottom_left"
	ActionShortPass   Action = "short_pass"
	ActionLongPass    Action = "long_pass"
	ActionHighPass    Action = "high_pass"
	ActionShot        Action = "shot"
	ActionSliding     Action = "sliding"
)

var directionalActions = map[Action]bool{
	ActionLeft: true, ActionTopLeft: true, ActionTop: true, ActionTopRight: true,
	ActionRight: true, ActionBottomRight: true, ActionBottom: true, ActionBottomLeft: true,
}

var knownActions = func() map[Action]bool {
	m := map[Action]bool{
		ActionIdle: true, ActionShortPass: true, ActionLongPass: true,
		ActionHighPass: true, ActionShot: true, ActionSliding: true,
	}
	for a := range directionalActions {
		m[a] = true
	}
	return m
}()

// IsDirectional reports whether the action is one of the 8 movement actions.
func (a Action) IsDirectional() bool { return directionalActions[a] }

// IsPass reports whether the action initiates a pass.
func (a Action) IsPass() bool {
	return a == ActionShortPass || a == ActionLongPass || a == ActionHighPass
}

// IsKick reports whether the action strikes the ball.
func (a Action) IsKick() bool { return a == ActionShot || a.IsPass() }

// Known reports whether the action belongs to the fixed vocabulary.
func (a Action) Known() bool { return knownActions[a] }
