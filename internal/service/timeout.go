package service

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/engine"
	"github.com/uzochukwuV/massabeam/internal/events"
	"github.com/uzochukwuV/massabeam/internal/game"
	"github.com/uzochukwuV/massabeam/internal/logging"
	"github.com/uzochukwuV/massabeam/internal/storage"
)

// ForfeitByTimeout ends a battle whose side due to act stayed idle past the
// inactivity timeout. Any caller may trigger it; the other side wins.
func (s *Service) ForfeitByTimeout(ctx context.Context, caller string, battleID uint) (*game.Battle, error) {
	b, unlock, err := s.lockBattle(battleID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	nb, err := engine.ForfeitByTimeout(ctx, b, s.now())
	if err != nil {
		return nil, eris.Wrapf(err, "forfeit battle %d", battleID)
	}
	if err := s.repo.Commit(storage.Changes{Battle: nb}); err != nil {
		return nil, eris.Wrapf(err, "forfeit battle %d", battleID)
	}
	logging.Info("battle forfeited", logging.Fields{
		constants.LogFieldBattleID: battleID,
		constants.LogFieldIdentity: caller,
		constants.LogFieldWinner:   nb.WinnerIdentity(),
	})
	s.publish(ctx, events.Event{Kind: events.KindBattleForfeited, BattleID: battleID, Data: map[string]interface{}{
		"caller":   caller,
		"idle":     b.Participant(b.CurrentTurn).Identity,
		"winner":   nb.WinnerIdentity(),
		"deadline": b.Deadline().UTC(),
	}})
	s.publish(ctx, events.Event{Kind: events.KindBattleEnded, BattleID: battleID, Data: nb.OutcomeV1()})
	return nb, nil
}

// HandleTimedOutBattles forfeits every active battle past its deadline on
// behalf of caller and returns how many were ended. Battles that another
// caller finished or resumed in the meantime are skipped.
func (s *Service) HandleTimedOutBattles(ctx context.Context, caller string) (int, error) {
	battles, err := s.repo.FindTimedOutBattles(s.now())
	if err != nil {
		return 0, err
	}
	ended := 0
	for i := range battles {
		if ctx.Err() != nil {
			return ended, ctx.Err()
		}
		id := battles[i].ID
		_, err := s.ForfeitByTimeout(ctx, caller, id)
		switch {
		case err == nil:
			ended++
		case errors.Is(err, engine.ErrTimeoutNotReached), errors.Is(err, engine.ErrInvalidBattleState):
			logging.Debug("timed out battle already handled", logging.Fields{constants.LogFieldBattleID: id})
		default:
			logging.Error("forfeit by keeper failed", err, logging.Fields{constants.LogFieldBattleID: id})
		}
	}
	return ended, nil
}
