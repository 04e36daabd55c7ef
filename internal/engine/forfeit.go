package engine

import (
	"context"
	"time"

	"github.com/uzochukwuV/massabeam/internal/game"
)

// TimedOut reports whether an active battle's deadline has strictly passed.
func TimedOut(b *game.Battle, now time.Time) bool {
	return b.IsActive() && now.Unix()-b.LastActionTS > b.InactivityTimeout
}

// ForfeitByTimeout ends an active battle whose side due to act has been idle
// for longer than the inactivity timeout. Anyone may call it; the side that
// was not due to act wins. The input battle is not modified.
func ForfeitByTimeout(ctx context.Context, b *game.Battle, now time.Time) (*game.Battle, error) {
	if !b.IsActive() {
		return nil, ErrInvalidBattleState
	}
	if !TimedOut(b, now) {
		return nil, ErrTimeoutNotReached
	}
	nb := b.Clone()
	if err := nb.Finish(ctx, nb.CurrentTurn.Opponent()); err != nil {
		return nil, err
	}
	return nb, nil
}
