// Package service orchestrates the battle use cases: it loads resources,
// serializes access to them, runs the engine on copies and persists every
// mutated row in one commit before publishing notifications.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/engine"
	"github.com/uzochukwuV/massabeam/internal/entropy"
	"github.com/uzochukwuV/massabeam/internal/events"
	"github.com/uzochukwuV/massabeam/internal/game"
	"github.com/uzochukwuV/massabeam/internal/keys"
	"github.com/uzochukwuV/massabeam/internal/logging"
	"github.com/uzochukwuV/massabeam/internal/settlement"
	"github.com/uzochukwuV/massabeam/internal/storage"
)

var (
	ErrBattleNotFound      = errors.New("battle not found")
	ErrPoolNotFound        = errors.New("pool not found")
	ErrCharacterNotFound   = errors.New("character not found")
	ErrUnauthorized        = engine.ErrUnauthorized
	ErrCharacterConstraint = errors.New("character does not satisfy battle terms")
	ErrStakeMismatch       = errors.New("offered stake does not match battle terms")
)

// Config holds the operator settings the use cases enforce.
type Config struct {
	FeeBps            uint16
	InactivityTimeout time.Duration
	StartingHealth    uint64
	TraitAuthority    string
	Treasury          string
	// PoolAuthority restricts pool creation when set.
	PoolAuthority string
	PoolOracle    string
}

type Service struct {
	repo      storage.Repository
	locks     *keys.Locker
	publisher events.Publisher
	settler   settlement.Settler
	cfg       Config
	now       func() time.Time
}

// New wires a service. A nil publisher discards notifications and a nil
// settler logs payout plans.
func New(repo storage.Repository, publisher events.Publisher, settler settlement.Settler, cfg Config) *Service {
	if publisher == nil {
		publisher = events.Discard{}
	}
	if settler == nil {
		settler = settlement.LogSettler{}
	}
	return &Service{
		repo:      repo,
		locks:     keys.NewLocker(),
		publisher: publisher,
		settler:   settler,
		cfg:       cfg,
		now:       time.Now,
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) Config() Config { return s.cfg }

func (s *Service) publish(ctx context.Context, e events.Event) {
	if e.At.IsZero() {
		e.At = s.now().UTC()
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		logging.Error("publish event failed", err, logging.Fields{constants.LogFieldEvent: string(e.Kind)})
	}
}

func mapNotFound(err error, sentinel error, format string, args ...interface{}) error {
	if errors.Is(err, storage.ErrNotFound) {
		return eris.Wrapf(sentinel, format, args...)
	}
	return err
}

func (s *Service) loadBattle(id uint) (*game.Battle, error) {
	b, err := s.repo.GetBattle(id)
	if err != nil {
		return nil, mapNotFound(err, ErrBattleNotFound, "battle %d", id)
	}
	return b, nil
}

func (s *Service) loadPool(id uint) (*entropy.Pool, error) {
	p, err := s.repo.GetPool(id)
	if err != nil {
		return nil, mapNotFound(err, ErrPoolNotFound, "pool %d", id)
	}
	return p, nil
}

func (s *Service) loadCharacter(id uint) (*game.Character, error) {
	c, err := s.repo.GetCharacter(id)
	if err != nil {
		return nil, mapNotFound(err, ErrCharacterNotFound, "character %d", id)
	}
	return c, nil
}

// loadProgression returns the stored progression or a fresh one that the
// next commit inserts.
func (s *Service) loadProgression(characterID uint) (*game.Progression, error) {
	p, err := s.repo.GetProgression(characterID)
	if errors.Is(err, storage.ErrNotFound) {
		return game.NewProgression(characterID), nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// loadCombatants reads the characters and progressions of both sides.
func (s *Service) loadCombatants(b *game.Battle) (engine.Combatants, error) {
	var cs engine.Combatants
	var err error
	if cs.Character1, err = s.loadCharacter(b.Player1.CharacterID); err != nil {
		return cs, err
	}
	if cs.Character2, err = s.loadCharacter(b.Player2.CharacterID); err != nil {
		return cs, err
	}
	if cs.Progression1, err = s.loadProgression(b.Player1.CharacterID); err != nil {
		return cs, err
	}
	if cs.Progression2, err = s.loadProgression(b.Player2.CharacterID); err != nil {
		return cs, err
	}
	return cs, nil
}

// lockBattle locks a battle and every resource it touches. The battle is
// reloaded under the lock; if a challenger joined in between, the locks are
// taken again with the new participant.
func (s *Service) lockBattle(id uint) (*game.Battle, func(), error) {
	b, err := s.loadBattle(id)
	if err != nil {
		return nil, nil, err
	}
	for {
		unlock := s.locks.Lock(
			keys.Battle(b.ID),
			keys.Pool(b.PoolID),
			keys.Character(b.Player1.CharacterID),
			keys.Character(b.Player2.CharacterID),
		)
		locked, err := s.loadBattle(id)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if locked.Player2.CharacterID == b.Player2.CharacterID {
			return locked, unlock, nil
		}
		unlock()
		b = locked
	}
}
