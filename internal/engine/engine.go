// Package engine is the event correlation engine: it turns the dense
// simulator snapshot stream into the sparse stream of labeled match events.
// One Engine instance serves exactly one match; frames are processed
// synchronously in arrival order with no lookahead.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pitchside/matchcast/internal/clock"
	"github.com/pitchside/matchcast/internal/correlator"
	"github.com/pitchside/matchcast/internal/diff"
	"github.com/pitchside/matchcast/internal/metadata"
	"github.com/pitchside/matchcast/internal/pitch"
	"github.com/pitchside/matchcast/internal/publish"
	"github.com/pitchside/matchcast/pkg/core"
)

// ErrMatchEnded is returned for frames submitted after end_of_match.
var ErrMatchEnded = errors.New("match already ended")

// ErrUnknownPlayer flags a frame whose ball-owner index falls outside the
// roster. The frame's correlation is skipped but the snapshot is still
// retained for diffing; the engine stays usable.
var ErrUnknownPlayer = errors.New("ball owner outside roster")

// Engine correlates snapshots into events and feeds them to a publisher.
// All state is owned by one instance and must not be shared across matches.
type Engine struct {
	roster *metadata.Roster
	pub    publish.Publisher
	logger *slog.Logger

	clock *clock.Clock
	seq   clock.Sequencer
	corr  *correlator.Correlator

	prev  *core.Snapshot
	goals []core.Goal
	cards []core.Card

	ended bool
}

// New creates an engine for one match and emits the start_of_match event.
// A publisher failure on that first event is non-fatal, like any other.
func New(ctx context.Context, roster *metadata.Roster, pub publish.Publisher, logger *slog.Logger) (*Engine, error) {
	if roster == nil {
		return nil, errors.New("engine: nil roster")
	}
	if pub == nil {
		return nil, errors.New("engine: nil publisher")
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		roster: roster,
		pub:    pub,
		logger: logger,
		clock:  clock.New(),
		corr:   correlator.New(),
	}

	if err := e.emit(ctx, core.StartOfMatch{Metadata: roster.Metadata()}); err != nil {
		logger.Warn("start_of_match publish failed", "error", err)
	}

	return e, nil
}

// Ended reports whether the engine has emitted end_of_match.
func (e *Engine) Ended() bool {
	return e.ended
}

// ProcessFrame ingests one snapshot plus the two sides' chosen actions.
// Publisher failures and data inconsistencies are reported through the
// returned error but never corrupt engine state; a non-nil error does not
// mean the frame was dropped.
func (e *Engine) ProcessFrame(ctx context.Context, snap *core.Snapshot, leftAction, rightAction core.Action) error {
	if e.ended {
		return ErrMatchEnded
	}

	if snap.StepsLeft == 0 {
		e.ended = true
		left, right := e.roster.Team(core.SideLeft), e.roster.Team(core.SideRight)
		return e.emit(ctx, core.EndOfMatch{
			TeamLeft:   left.Name,
			ScoreLeft:  snap.Score[0],
			TeamRight:  right.Name,
			ScoreRight: snap.Score[1],
			Goals:      e.goals,
			Cards:      e.cards,
		})
	}

	e.clock.Observe(snap.StepsLeft)

	var errs []error

	sig := diff.Compare(e.prev, snap)
	if sig.Goal != nil {
		if err := e.emitGoal(ctx, sig.Goal.ScoringSide, snap); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range sig.Cards {
		if err := e.emitCard(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	if sig.Mode != nil {
		if err := e.emit(ctx, core.GameModeChange{
			Previous: sig.Mode.Previous,
			Current:  sig.Mode.Current,
		}); err != nil {
			errs = append(errs, err)
		}
	}

	if snap.BallOwnedSide == core.SideNone {
		e.prev = snap
		return errors.Join(errs...)
	}

	cur, err := e.possessor(snap)
	if err != nil {
		e.logger.Warn("skipping action correlation",
			"side", snap.BallOwnedSide.String(),
			"player_index", snap.BallOwnedPlayer,
			"error", err)
		e.prev = snap
		return errors.Join(append(errs, err)...)
	}

	action := rightAction
	if snap.BallOwnedSide == core.SideLeft {
		action = leftAction
	}

	for _, p := range e.corr.Advance(cur, action, e.clock.Elapsed()) {
		if err := e.emit(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}

	e.prev = snap
	return errors.Join(errs...)
}

// possessor resolves the current ball owner into a possession record.
func (e *Engine) possessor(snap *core.Snapshot) (correlator.Possession, error) {
	side, idx := snap.BallOwnedSide, snap.BallOwnedPlayer

	player, ok := e.roster.Player(side, idx)
	if !ok {
		return correlator.Possession{}, fmt.Errorf("%w: side %s index %d", ErrUnknownPlayer, side, idx)
	}

	positions := snap.Positions(side)
	if idx >= len(positions) {
		return correlator.Possession{}, fmt.Errorf("%w: side %s index %d has no position", ErrUnknownPlayer, side, idx)
	}

	return correlator.Possession{
		Team:   e.roster.Team(side).Name,
		Player: player,
		Zone:   pitch.Classify(positions[idx]),
	}, nil
}

// emitGoal attributes a score change, consuming the pending shot so it
// cannot also resolve as saved or missed this frame.
func (e *Engine) emitGoal(ctx context.Context, scoringSide core.Side, snap *core.Snapshot) error {
	left, right := e.roster.Team(core.SideLeft), e.roster.Team(core.SideRight)
	scoringTeam := e.roster.Team(scoringSide).Name

	goal := core.Goal{
		Subtype:     core.GoalRegular,
		ScoringTeam: scoringTeam,
		TeamLeft:    left.Name,
		ScoreLeft:   snap.Score[0],
		TeamRight:   right.Name,
		ScoreRight:  snap.Score[1],
	}

	if shot, ok := e.corr.TakePendingShot(); ok {
		if shot.Team == scoringTeam {
			scorer, zone := shot.Player, shot.Zone
			goal.Scorer = &scorer
			goal.Location = &zone
		} else {
			goal.Subtype = core.GoalOwn
		}
	}

	e.goals = append(e.goals, goal)
	return e.emit(ctx, goal)
}

func (e *Engine) emitCard(ctx context.Context, sig diff.CardSignal) error {
	player, ok := e.roster.Player(sig.Side, sig.PlayerIndex)
	if !ok {
		e.logger.Warn("card edge for unknown player",
			"side", sig.Side.String(), "player_index", sig.PlayerIndex)
		return fmt.Errorf("%w: card edge side %s index %d", ErrUnknownPlayer, sig.Side, sig.PlayerIndex)
	}

	card := core.Card{
		Red:    sig.Red,
		Player: player,
		Team:   e.roster.Team(sig.Side).Name,
	}
	e.cards = append(e.cards, card)
	return e.emit(ctx, card)
}

// emit wraps a payload in the next envelope and hands it to the publisher.
// The sequence id is assigned before dispatch, so ids stay strictly ordered
// even when the publisher fails.
func (e *Engine) emit(ctx context.Context, p core.Payload) error {
	env := core.NewEnvelope(e.seq.Next(), e.clock.Format(), p)

	e.logger.Debug("event emitted",
		"event_id", env.EventID, "type", env.Type, "match_time", env.MatchTime)

	if err := e.pub.Publish(ctx, env); err != nil {
		e.logger.Warn("publisher rejected event",
			"event_id", env.EventID, "type", env.Type, "error", err)
		return fmt.Errorf("publish event %d (%s): %w", env.EventID, env.Type, err)
	}
	return nil
}
