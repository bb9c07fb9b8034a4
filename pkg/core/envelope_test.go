package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeMarshalFlattensPayload(t *testing.T) {
	env := NewEnvelope(7, "12:30", PossessionChange{
		Subtype:        PossessionDifferentTeam,
		CurrentTeam:    "Red Star",
		PreviousTeam:   "Blue Moon",
		CurrentPlayer:  Player{Name: "A. Back", Number: 4},
		PreviousPlayer: Player{Name: "H. Striker", Number: 11},
		Location:       "center_middle",
	})

	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.Equal(t, float64(7), fields["event_id"])
	assert.Equal(t, "12:30", fields["match_time"])
	assert.Equal(t, "ball_possession_change", fields["type"])
	assert.Equal(t, "different_team", fields["subtype"])
	assert.Equal(t, "Red Star", fields["current_team"])

	// Payload fields sit at the top level, not under a nested key.
	_, nested := fields["payload"]
	assert.False(t, nested)
}

func TestEnvelopeTypeDerivedFromPayload(t *testing.T) {
	assert.Equal(t, EventShot, NewEnvelope(1, "00:01", Shot{}).Type)
	assert.Equal(t, EventGoal, NewEnvelope(2, "00:02", Goal{}).Type)
	assert.Equal(t, EventEndOfMatch, NewEnvelope(3, "90:00", EndOfMatch{}).Type)
}

func TestEndOfMatchListEntriesCarryType(t *testing.T) {
	end := EndOfMatch{
		TeamLeft: "Red Star", TeamRight: "Blue Moon",
		Goals: []Goal{{Subtype: GoalRegular, ScoringTeam: "Red Star"}},
		Cards: []Card{
			{Player: Player{Name: "C. Mid"}, Team: "Red Star"},
			{Red: true, Player: Player{Name: "G. Mid"}, Team: "Blue Moon"},
		},
	}

	raw, err := json.Marshal(end)
	require.NoError(t, err)

	var fields struct {
		Goals []map[string]any `json:"goal_events"`
		Cards []map[string]any `json:"card_events"`
	}
	require.NoError(t, json.Unmarshal(raw, &fields))

	require.Len(t, fields.Goals, 1)
	assert.Equal(t, "goal", fields.Goals[0]["type"])

	require.Len(t, fields.Cards, 2)
	assert.Equal(t, "yellow_card", fields.Cards[0]["type"])
	assert.Equal(t, "red_card", fields.Cards[1]["type"])
}

func TestGameModeChangeUsesWireNames(t *testing.T) {
	raw, err := json.Marshal(GameModeChange{Previous: ModeNormal, Current: ModeCorner})
	require.NoError(t, err)
	assert.JSONEq(t, `{"previous_mode":"normal","current_mode":"corner"}`, string(raw))
}

func TestCardEventTypeFollowsColor(t *testing.T) {
	assert.Equal(t, EventYellowCard, Card{}.EventType())
	assert.Equal(t, EventRedCard, Card{Red: true}.EventType())
}
