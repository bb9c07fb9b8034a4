// Package diff compares consecutive snapshots and flags score, card,
// active-flag and game-mode transitions. Detection only; turning signals
// into events is the emitter's job.
package diff

import "github.com/pitchside/matchcast/pkg/core"

// GoalSignal reports a score change and which side scored.
type GoalSignal struct {
	ScoringSide core.Side
}

// CardSignal reports a booking edge for one player: a 0->1 yellow-card flag
// edge, or an active->inactive edge read as a red card.
type CardSignal struct {
	Side        core.Side
	PlayerIndex int
	Red         bool
}

// ModeSignal reports a set-piece game-mode transition.
type ModeSignal struct {
	Previous core.GameMode
	Current  core.GameMode
}

// Signals is everything one frame-to-frame comparison detected. Cards keep
// scan order: left side before right, roster order within a side.
type Signals struct {
	Goal  *GoalSignal
	Cards []CardSignal
	Mode  *ModeSignal
}

// Compare diffs the previous snapshot against the current one. With no
// previous snapshot (first frame) nothing fires.
func Compare(prev, cur *core.Snapshot) Signals {
	var sig Signals
	if prev == nil {
		return sig
	}

	if cur.Score != prev.Score {
		side := core.SideRight
		if cur.Score[0] > prev.Score[0] {
			side = core.SideLeft
		}
		sig.Goal = &GoalSignal{ScoringSide: side}
	}

	for _, side := range []core.Side{core.SideLeft, core.SideRight} {
		sig.Cards = append(sig.Cards, cardEdges(side, prev, cur)...)
	}

	// Kickoff modes are not reported: a kickoff after a goal is already
	// covered by the goal event.
	if cur.GameMode != prev.GameMode &&
		cur.GameMode != core.ModeNormal && cur.GameMode != core.ModeKickOff {
		sig.Mode = &ModeSignal{Previous: prev.GameMode, Current: cur.GameMode}
	}

	return sig
}

func cardEdges(side core.Side, prev, cur *core.Snapshot) []CardSignal {
	var cards []CardSignal

	prevYellow, curYellow := prev.YellowCards(side), cur.YellowCards(side)
	for i := 0; i < len(curYellow) && i < len(prevYellow); i++ {
		if curYellow[i] && !prevYellow[i] {
			cards = append(cards, CardSignal{Side: side, PlayerIndex: i})
		}
	}

	prevActive, curActive := prev.Active(side), cur.Active(side)
	for i := 0; i < len(curActive) && i < len(prevActive); i++ {
		if !curActive[i] && prevActive[i] {
			cards = append(cards, CardSignal{Side: side, PlayerIndex: i, Red: true})
		}
	}

	return cards
}
