package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/matchcast/pkg/core"
)

var (
	_ Publisher = (*WriterSink)(nil)
	_ Publisher = (*Fanout)(nil)
)

type failSink struct {
	publishes int
}

func (f *failSink) Publish(context.Context, *core.Envelope) error {
	f.publishes++
	return errors.New("sink down")
}

func (f *failSink) Close() error {
	return errors.New("close failed")
}

func TestWriterSink_WritesOneJSONLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)

	require.NoError(t, s.Publish(context.Background(),
		core.NewEnvelope(1, "00:00", core.StartOfMatch{})))
	require.NoError(t, s.Publish(context.Background(),
		core.NewEnvelope(2, "13:37", core.Shot{Subtype: core.ShotMissed, Team: "Red Star"})))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, float64(2), second["event_id"])
	assert.Equal(t, "shot", second["type"])
	assert.Equal(t, "missed", second["subtype"])
}

func TestFanout_DeliversToAllDespiteFailure(t *testing.T) {
	var buf bytes.Buffer
	failing := &failSink{}
	f := NewFanout(failing, NewWriterSink(&buf))

	err := f.Publish(context.Background(), core.NewEnvelope(1, "00:00", core.StartOfMatch{}))
	require.Error(t, err)

	assert.Equal(t, 1, failing.publishes)
	assert.Contains(t, buf.String(), `"start_of_match"`)
}

func TestFanout_CloseJoinsErrors(t *testing.T) {
	f := NewFanout(&failSink{}, NewWriterSink(&bytes.Buffer{}))

	err := f.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")
}

func TestFanout_EmptyIsNoop(t *testing.T) {
	f := NewFanout()
	assert.NoError(t, f.Publish(context.Background(),
		core.NewEnvelope(1, "00:00", core.StartOfMatch{})))
	assert.NoError(t, f.Close())
}
