package service

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/engine"
	"github.com/uzochukwuV/massabeam/internal/events"
	"github.com/uzochukwuV/massabeam/internal/game"
	"github.com/uzochukwuV/massabeam/internal/logging"
	"github.com/uzochukwuV/massabeam/internal/storage"
)

// TurnRequest is the caller's action for their turn.
type TurnRequest struct {
	Stance     game.Stance
	UseSpecial bool
}

// SubmitTurn resolves the caller's attack. Battle, pool, characters and
// progressions are written in one commit; a rejected turn writes nothing.
func (s *Service) SubmitTurn(ctx context.Context, caller string, battleID uint, req TurnRequest) (*game.Battle, *engine.TurnResult, error) {
	b, unlock, err := s.lockBattle(battleID)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()
	if !b.IsActive() {
		return nil, nil, eris.Wrapf(engine.ErrInvalidBattleState, "battle %d is %s", battleID, b.State)
	}

	pool, err := s.loadPool(b.PoolID)
	if err != nil {
		return nil, nil, err
	}
	cs, err := s.loadCombatants(b)
	if err != nil {
		return nil, nil, err
	}
	out, err := engine.ExecuteTurn(ctx, b, pool, cs, engine.Turn{
		Caller:     caller,
		Stance:     req.Stance,
		UseSpecial: req.UseSpecial,
		Now:        s.now(),
	})
	if err != nil {
		return nil, nil, eris.Wrapf(err, "battle %d turn %d", battleID, b.TurnNumber)
	}

	if err := s.repo.Commit(storage.Changes{
		Pool:         out.Pool,
		Battle:       out.Battle,
		Characters:   []*game.Character{out.Combatants.Character1, out.Combatants.Character2},
		Progressions: []*game.Progression{out.Combatants.Progression1, out.Combatants.Progression2},
	}); err != nil {
		return nil, nil, eris.Wrapf(err, "persist battle %d turn %d", battleID, b.TurnNumber)
	}

	res := out.Result
	fields := logging.Fields{
		constants.LogFieldBattleID: battleID,
		constants.LogFieldTurn:     res.TurnNumber,
		constants.LogFieldIdentity: caller,
		"damage":                   res.Damage,
	}
	logging.Info("turn resolved", fields)
	s.publishTurn(ctx, out.Battle, res)
	return out.Battle, res, nil
}

func (s *Service) publishTurn(ctx context.Context, b *game.Battle, res *engine.TurnResult) {
	s.publish(ctx, events.Event{Kind: events.KindTurnResolved, BattleID: b.ID, PoolID: b.PoolID, Data: res})
	if res.Clamped {
		s.publish(ctx, events.Event{Kind: events.KindDamageClamped, BattleID: b.ID, Data: map[string]interface{}{
			"turn_number": res.TurnNumber,
			"attacker":    res.AttackerID,
			"damage":      res.Damage,
		}})
	}
	for _, lu := range res.LevelUps {
		s.publish(ctx, events.Event{Kind: events.KindProgressionLevelUp, BattleID: b.ID, CharacterID: lu.CharacterID, Data: lu})
	}
	if res.Finished {
		logging.Info("battle ended", logging.Fields{constants.LogFieldBattleID: b.ID, constants.LogFieldWinner: b.WinnerIdentity()})
		s.publish(ctx, events.Event{Kind: events.KindBattleEnded, BattleID: b.ID, Data: b.OutcomeV1()})
	}
}
