package service

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/engine"
	"github.com/uzochukwuV/massabeam/internal/events"
	"github.com/uzochukwuV/massabeam/internal/game"
	"github.com/uzochukwuV/massabeam/internal/keys"
	"github.com/uzochukwuV/massabeam/internal/logging"
	"github.com/uzochukwuV/massabeam/internal/storage"
)

// CreateBattleRequest offers a battle: the creator's character, the entropy
// pool the battle will draw from and the terms a challenger must accept.
type CreateBattleRequest struct {
	PoolID      uint
	CharacterID uint
	Terms       game.Terms
}

// JoinBattleRequest accepts an offer. Stake must equal the offered stake.
type JoinBattleRequest struct {
	CharacterID uint
	Stake       uint64
}

// CreateBattle records a waiting battle for the creator's character. No
// entropy is drawn until a challenger joins.
func (s *Service) CreateBattle(ctx context.Context, creator string, req CreateBattleRequest) (*game.Battle, error) {
	if creator == "" {
		return nil, ErrUnauthorized
	}
	unlock := s.locks.Lock(keys.Pool(req.PoolID), keys.Character(req.CharacterID))
	defer unlock()

	pool, err := s.loadPool(req.PoolID)
	if err != nil {
		return nil, err
	}
	c, err := s.loadCharacter(req.CharacterID)
	if err != nil {
		return nil, err
	}
	if c.Owner != creator {
		return nil, eris.Wrapf(ErrUnauthorized, "character %d is not owned by %s", c.ID, creator)
	}

	timeout := req.Terms.InactivityTimeout
	if timeout <= 0 {
		timeout = s.cfg.InactivityTimeout
	}
	b := &game.Battle{
		Creator:           creator,
		PoolID:            pool.ID,
		State:             game.BattleWaiting,
		InactivityTimeout: int64(timeout.Seconds()),
		StakeTotal:        req.Terms.StakeTotal,
		MinLevel:          req.Terms.MinLevel,
		MaxLevel:          req.Terms.MaxLevel,
		AllowedClasses:    req.Terms.AllowedClasses,
	}
	b.Player1 = game.Participant{Identity: c.Owner, CharacterID: c.ID, Health: s.cfg.StartingHealth, Stance: game.StanceBalanced}

	if err := s.repo.Commit(storage.Changes{Battle: b}); err != nil {
		return nil, eris.Wrap(err, "create battle")
	}
	logging.Info("battle offered", logging.Fields{
		constants.LogFieldBattleID: b.ID,
		constants.LogFieldPoolID:   b.PoolID,
		constants.LogFieldIdentity: creator,
		"stake_total":              b.StakeTotal,
	})
	s.publish(ctx, events.Event{Kind: events.KindBattleCreated, BattleID: b.ID, PoolID: b.PoolID, Data: map[string]interface{}{
		"player1":     b.Player1.Identity,
		"stake_total": b.StakeTotal,
		"terms":       b.Terms(),
	}})
	return b, nil
}

// JoinBattle accepts a waiting battle with the challenger's character. The
// character must satisfy the terms and the stake must match the offer; the
// first mover is then drawn and the battle becomes active. Nothing is
// persisted when any step fails.
func (s *Service) JoinBattle(ctx context.Context, challenger string, battleID uint, req JoinBattleRequest) (*game.Battle, error) {
	if challenger == "" {
		return nil, ErrUnauthorized
	}
	b, err := s.loadBattle(battleID)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(
		keys.Battle(b.ID),
		keys.Pool(b.PoolID),
		keys.Character(b.Player1.CharacterID),
		keys.Character(req.CharacterID),
	)
	defer unlock()
	if b, err = s.loadBattle(battleID); err != nil {
		return nil, err
	}
	if b.State != game.BattleWaiting {
		return nil, eris.Wrapf(engine.ErrInvalidBattleState, "battle %d is %s", b.ID, b.State)
	}
	if challenger == b.Creator {
		return nil, eris.Wrap(ErrCharacterConstraint, "opponent must be another identity")
	}

	c, err := s.loadCharacter(req.CharacterID)
	if err != nil {
		return nil, err
	}
	if c.Owner != challenger {
		return nil, eris.Wrapf(ErrUnauthorized, "character %d is not owned by %s", c.ID, challenger)
	}
	p, err := s.loadProgression(c.ID)
	if err != nil {
		return nil, err
	}
	terms := b.Terms()
	if !terms.Admits(c.Class, p.Level) {
		return nil, eris.Wrapf(ErrCharacterConstraint, "character %d (%s, level %d)", c.ID, c.Class, p.Level)
	}
	if req.Stake != terms.StakeTotal {
		return nil, eris.Wrapf(ErrStakeMismatch, "offered %d, battle %d requires %d", req.Stake, b.ID, terms.StakeTotal)
	}
	pool, err := s.loadPool(b.PoolID)
	if err != nil {
		return nil, err
	}

	joined := b.Clone()
	joined.Player2 = game.Participant{Identity: c.Owner, CharacterID: c.ID, Health: s.cfg.StartingHealth, Stance: game.StanceBalanced}
	nb, np, err := engine.StartBattle(ctx, joined, pool, s.now())
	if err != nil {
		return nil, eris.Wrapf(err, "start battle %d", b.ID)
	}
	if err := s.repo.Commit(storage.Changes{Pool: np, Battle: nb}); err != nil {
		return nil, eris.Wrapf(err, "join battle %d", b.ID)
	}
	logging.Info("battle joined", logging.Fields{
		constants.LogFieldBattleID: nb.ID,
		constants.LogFieldIdentity: challenger,
		constants.LogFieldIndex:    nb.LastEntropyIndex,
		"first_mover":              nb.Participant(nb.CurrentTurn).Identity,
	})
	s.publish(ctx, events.Event{Kind: events.KindBattleJoined, BattleID: nb.ID, PoolID: nb.PoolID, Data: map[string]interface{}{
		"player1":     nb.Player1.Identity,
		"player2":     nb.Player2.Identity,
		"first_mover": nb.CurrentTurn,
		"stake_total": nb.StakeTotal,
	}})
	return nb, nil
}

func (s *Service) GetBattle(battleID uint) (*game.Battle, error) {
	return s.loadBattle(battleID)
}

// Outcome returns the versioned read-only outcome of a battle.
func (s *Service) Outcome(battleID uint) (game.OutcomeV1, error) {
	b, err := s.loadBattle(battleID)
	if err != nil {
		return game.OutcomeV1{}, err
	}
	return b.OutcomeV1(), nil
}
