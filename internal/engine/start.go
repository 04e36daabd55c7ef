package engine

import (
	"context"
	"time"

	"github.com/uzochukwuV/massabeam/internal/entropy"
	"github.com/uzochukwuV/massabeam/internal/game"
)

// StartBattle activates a waiting battle. One draw (tag first_mover, turn
// 0, range [0, 1], bound to the creator) picks who acts first and becomes
// the battle's first entropy index. The inputs are not modified.
func StartBattle(ctx context.Context, b *game.Battle, pool *entropy.Pool, now time.Time) (*game.Battle, *entropy.Pool, error) {
	if b.State != game.BattleWaiting {
		return nil, nil, ErrInvalidBattleState
	}
	if !pool.HasAvailable(1) {
		return nil, nil, ErrNoEntropyAvailable
	}
	nb, np := b.Clone(), pool.Clone()

	d, err := np.Consume(nb.Creator, TagFirstMover, 0, 0, 1)
	if err != nil {
		return nil, nil, err
	}
	if err := bindEntropyIndex(nb, d.Index); err != nil {
		return nil, nil, err
	}
	nb.CurrentTurn = game.Side1
	if d.Value == 1 {
		nb.CurrentTurn = game.Side2
	}
	if err := nb.Transition(ctx, game.EventStart); err != nil {
		return nil, nil, err
	}
	nb.TurnNumber = 1
	nb.StartTS = now.Unix()
	nb.LastActionTS = now.Unix()
	return nb, np, nil
}
