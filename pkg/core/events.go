// pkg/core/events.go
package core

// Zone is a discrete pitch-region label produced by the zone classifier,
// one of the 9 combinations of {left,center,right} x {top,middle,bottom}.
type Zone string

// EventType tags an event payload on the wire.
type EventType string

const (
	EventStartOfMatch     EventType = "start_of_match"
	EventGoal             EventType = "goal"
	EventYellowCard       EventType = "yellow_card"
	EventRedCard          EventType = "red_card"
	EventPass             EventType = "pass"
	EventPossessionChange EventType = "ball_possession_change"
	EventShot             EventType = "shot"
	EventGameModeChange   EventType = "game_mode_change"
	EventEndOfMatch       EventType = "end_of_match"
)

// Payload is the type-specific body of an emitted event. Each variant is a
// plain struct; the envelope adds sequence id, match clock and type tag.
type Payload interface {
	EventType() EventType
}

// StartOfMatch is emitted once at engine construction and carries the full
// static metadata so downstream consumers need no separate lookup.
type StartOfMatch struct {
	Metadata MatchMetadata `json:"match_metadata"`
}

func (StartOfMatch) EventType() EventType { return EventStartOfMatch }

// Goal is emitted when the score pair changes. Scorer and Location are
// populated only when a pending shot from the scoring team was in flight;
// Subtype is "own_goal" when the pending shot came from the other team.
type Goal struct {
	Subtype     string  `json:"subtype"`
	Scorer      *Player `json:"scorer"`
	Location    *Zone   `json:"location"`
	ScoringTeam string  `json:"scoring_team"`
	TeamLeft    string  `json:"team_left"`
	ScoreLeft   int     `json:"score_left"`
	TeamRight   string  `json:"team_right"`
	ScoreRight  int     `json:"score_right"`
}

func (Goal) EventType() EventType { return EventGoal }

// Goal subtypes.
const (
	GoalRegular = "goal"
	GoalOwn     = "own_goal"
)

// Card is a yellow- or red-card booking. Yellow cards come from 0->1 edges
// of the card flag; red cards are inferred from active->inactive edges.
type Card struct {
	Red    bool   `json:"-"`
	Player Player `json:"player"`
	Team   string `json:"team"`
}

func (c Card) EventType() EventType {
	if c.Red {
		return EventRedCard
	}
	return EventYellowCard
}

// Pass is the resolution of a pending pass: possession moved to a different
// player after a pass action. Completed is true iff the receiver plays for
// the passing team.
type Pass struct {
	Subtype           Action `json:"subtype"`
	SecondsInterval   int    `json:"seconds_interval"`
	Team              string `json:"team"`
	Passer            Player `json:"passer"`
	LocationPass      Zone   `json:"location_pass"`
	Receiver          Player `json:"receiver"`
	LocationReception Zone   `json:"location_reception"`
	Completed         bool   `json:"pass_completed"`
}

func (Pass) EventType() EventType { return EventPass }

// PossessionChange is a possession transition that no pending pass claimed.
type PossessionChange struct {
	Subtype        string `json:"subtype"`
	CurrentTeam    string `json:"current_team"`
	PreviousTeam   string `json:"previous_team"`
	CurrentPlayer  Player `json:"current_player"`
	PreviousPlayer Player `json:"previous_player"`
	Location       Zone   `json:"location"`
}

func (PossessionChange) EventType() EventType { return EventPossessionChange }

// PossessionChange subtypes.
const (
	PossessionSameTeam      = "same_team"
	PossessionDifferentTeam = "different_team"
)

// Shot is the resolution of a pending shot: "saved" when the next possessor
// is a goalkeeper (then Goalkeeper is set), "missed" otherwise.
type Shot struct {
	Subtype         string  `json:"subtype"`
	Team            string  `json:"team"`
	Player          Player  `json:"player"`
	Goalkeeper      *Player `json:"goalkeeper"`
	Location        Zone    `json:"location"`
	SecondsInterval int     `json:"seconds_interval"`
}

func (Shot) EventType() EventType { return EventShot }

// Shot subtypes.
const (
	ShotSaved  = "saved"
	ShotMissed = "missed"
)

// GameModeChange reports a set-piece transition. Transitions into Normal or
// KickOff are not reported; a kickoff after a goal is already covered by the
// goal event.
type GameModeChange struct {
	Previous GameMode `json:"previous_mode"`
	Current  GameMode `json:"current_mode"`
}

func (GameModeChange) EventType() EventType { return EventGameModeChange }

// EndOfMatch is the terminal event: final score plus the accumulated goal
// and card lists.
type EndOfMatch struct {
	TeamLeft   string `json:"team_left"`
	ScoreLeft  int    `json:"score_left"`
	TeamRight  string `json:"team_right"`
	ScoreRight int    `json:"score_right"`
	Goals      []Goal `json:"goal_events"`
	Cards      []Card `json:"card_events"`
}

func (EndOfMatch) EventType() EventType { return EventEndOfMatch }
