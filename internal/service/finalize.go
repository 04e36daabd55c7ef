package service

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/dedupe"
	"github.com/uzochukwuV/massabeam/internal/events"
	"github.com/uzochukwuV/massabeam/internal/game"
	"github.com/uzochukwuV/massabeam/internal/keys"
	"github.com/uzochukwuV/massabeam/internal/logging"
	"github.com/uzochukwuV/massabeam/internal/settlement"
	"github.com/uzochukwuV/massabeam/internal/storage"
)

// Finalize settles a finished battle once. It reads only the battle's
// state and winner; repeated calls return the recorded settlement and
// concurrent calls share one execution.
func (s *Service) Finalize(ctx context.Context, battleID uint) (*game.Settlement, error) {
	v, err, _ := dedupe.FinalizeGroup.Do(keys.Finalize(battleID), func() (interface{}, error) {
		return s.finalize(ctx, battleID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*game.Settlement), nil
}

func (s *Service) finalize(ctx context.Context, battleID uint) (*game.Settlement, error) {
	unlock := s.locks.Lock(keys.Battle(battleID))
	defer unlock()

	b, err := s.loadBattle(battleID)
	if err != nil {
		return nil, err
	}
	if b.Settled {
		rec, err := s.repo.GetSettlement(battleID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}

	plan, err := settlement.NewPlan(b.OutcomeV1(), s.cfg.FeeBps, s.cfg.Treasury)
	if err != nil {
		return nil, eris.Wrapf(err, "finalize battle %d", battleID)
	}
	receipt, err := s.settler.Settle(ctx, plan)
	if err != nil {
		return nil, eris.Wrapf(err, "settle battle %d", battleID)
	}
	rec := plan.Record(receipt)
	nb := b.Clone()
	nb.Settled = true
	nb.SettlementReceipt = receipt
	if err := s.repo.Commit(storage.Changes{Battle: nb, Settlement: rec}); err != nil {
		return nil, eris.Wrapf(err, "record settlement of battle %d", battleID)
	}
	logging.Info("battle finalized", logging.Fields{
		constants.LogFieldBattleID: battleID,
		constants.LogFieldWinner:   plan.Recipient,
		"receipt":                  receipt,
	})
	s.publish(ctx, events.Event{Kind: events.KindBattleSettled, BattleID: battleID, Data: plan})
	return rec, nil
}
