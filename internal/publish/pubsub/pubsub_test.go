package pubsub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/matchcast/pkg/core"
)

func TestBuildMessage(t *testing.T) {
	zone := core.Zone("right_middle")
	scorer := core.Player{Name: "D. Striker", Number: 9, ShortPosition: "CF"}
	env := core.NewEnvelope(7, "45:00", core.Goal{
		Subtype:     core.GoalRegular,
		Scorer:      &scorer,
		Location:    &zone,
		ScoringTeam: "Red Star",
		TeamLeft:    "Red Star",
		ScoreLeft:   1,
		TeamRight:   "Blue Moon",
	})

	msg, err := buildMessage(env)
	require.NoError(t, err)

	assert.Equal(t, "7", msg.Attributes["event_id"])
	assert.Equal(t, "goal", msg.Attributes["event_type"])
	assert.Equal(t, "45:00", msg.Attributes["match_time"])
	assert.Equal(t, "match-events", msg.OrderingKey)

	// Payload fields sit beside the envelope header at the top level.
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, float64(7), decoded["event_id"])
	assert.Equal(t, "goal", decoded["type"])
	assert.Equal(t, "45:00", decoded["match_time"])
	assert.Equal(t, "Red Star", decoded["scoring_team"])
	assert.Equal(t, "right_middle", decoded["location"])
}

func TestBuildMessage_AllEventTypesRoundTrip(t *testing.T) {
	payloads := []core.Payload{
		core.Card{Player: core.Player{Name: "B. Back", Number: 4}, Team: "Red Star"},
		core.PossessionChange{Subtype: core.PossessionDifferentTeam, CurrentTeam: "Blue Moon", PreviousTeam: "Red Star"},
		core.Shot{Subtype: core.ShotMissed, Team: "Blue Moon", Player: core.Player{Name: "H. Striker"}},
		core.GameModeChange{Previous: core.ModeNormal, Current: core.ModePenalty},
	}

	for i, p := range payloads {
		env := core.NewEnvelope(uint64(i+1), "10:00", p)
		msg, err := buildMessage(env)
		require.NoError(t, err)
		assert.Equal(t, string(p.EventType()), msg.Attributes["event_type"])
	}
}
