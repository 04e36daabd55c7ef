package game

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
	"github.com/rotisserie/eris"
)

var ErrInvalidBattleState = errors.New("invalid battle state")

// Lifecycle events. A battle only ever moves forward:
// waiting -> active -> finished.
const (
	EventStart  = "start"
	EventFinish = "finish"
)

var lifecycleEvents = fsm.Events{
	{Name: EventStart, Src: []string{string(BattleWaiting)}, Dst: string(BattleActive)},
	{Name: EventFinish, Src: []string{string(BattleActive)}, Dst: string(BattleFinished)},
}

// Transition applies a lifecycle event to the battle. Events that are not
// valid from the current state fail with ErrInvalidBattleState and leave
// the battle untouched.
func (b *Battle) Transition(ctx context.Context, event string) error {
	from := b.State
	if from == "" {
		from = BattleWaiting
	}
	m := fsm.NewFSM(string(from), lifecycleEvents, fsm.Callbacks{})
	if err := m.Event(ctx, event); err != nil {
		return eris.Wrapf(ErrInvalidBattleState, "%s from %s: %v", event, from, err)
	}
	b.State = BattleState(m.Current())
	return nil
}

// Finish moves an active battle to finished with the given winner
// (SideNone for a draw).
func (b *Battle) Finish(ctx context.Context, winner Side) error {
	if err := b.Transition(ctx, EventFinish); err != nil {
		return err
	}
	b.Winner = winner
	return nil
}

// IsActive reports whether turns may be executed.
func (b *Battle) IsActive() bool { return b.State == BattleActive }

// IsFinished reports whether the battle reached its terminal state.
func (b *Battle) IsFinished() bool { return b.State == BattleFinished }
