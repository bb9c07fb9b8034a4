package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/matchcast/pkg/core"
)

const validMetadata = `{
	"left_team": {
		"name": "Red Star",
		"players": [
			{"name": "A. Keeper", "number": 1, "position": "Goalkeeper", "short_position": "GK"},
			{"name": "B. Back", "number": 4, "position": "Centre Back", "short_position": "CB"},
			{"name": "C. Striker", "number": 9, "position": "Centre Forward", "short_position": "CF"}
		]
	},
	"right_team": {
		"name": "Blue Moon",
		"players": [
			{"name": "D. Keeper", "number": 1, "position": "Goalkeeper", "short_position": "GK"},
			{"name": "E. Wing", "number": 7, "position": "Right Midfield", "short_position": "RM"}
		]
	}
}`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(validMetadata))
	require.NoError(t, err)

	assert.Equal(t, "Red Star", r.Team(core.SideLeft).Name)
	assert.Equal(t, "Blue Moon", r.Team(core.SideRight).Name)

	p, ok := r.Player(core.SideLeft, 2)
	require.True(t, ok)
	assert.Equal(t, "C. Striker", p.Name)
	assert.Equal(t, 9, p.Number)
	assert.False(t, p.IsGoalkeeper())

	gk, ok := r.Player(core.SideRight, 0)
	require.True(t, ok)
	assert.True(t, gk.IsGoalkeeper())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{`},
		{"missing team name", `{"left_team":{"name":"","players":[{"name":"x","short_position":"GK"}]},"right_team":{"name":"B","players":[{"name":"y","short_position":"GK"}]}}`},
		{"empty roster", `{"left_team":{"name":"A","players":[]},"right_team":{"name":"B","players":[{"name":"y","short_position":"GK"}]}}`},
		{"no goalkeeper", `{"left_team":{"name":"A","players":[{"name":"x","short_position":"CB"}]},"right_team":{"name":"B","players":[{"name":"y","short_position":"GK"}]}}`},
		{"duplicate team names", `{"left_team":{"name":"A","players":[{"name":"x","short_position":"GK"}]},"right_team":{"name":"A","players":[{"name":"y","short_position":"GK"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestPlayerIndexOutOfRange(t *testing.T) {
	r, err := Parse([]byte(validMetadata))
	require.NoError(t, err)

	_, ok := r.Player(core.SideLeft, 3)
	assert.False(t, ok)
	_, ok = r.Player(core.SideLeft, -1)
	assert.False(t, ok)
}
