package service

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/events"
	"github.com/uzochukwuV/massabeam/internal/game"
	"github.com/uzochukwuV/massabeam/internal/keys"
	"github.com/uzochukwuV/massabeam/internal/logging"
	"github.com/uzochukwuV/massabeam/internal/storage"
)

// CharacterView is a character together with its progression.
type CharacterView struct {
	*game.Character
	Progression *game.Progression `json:"progression"`
}

// CreateCharacter mints a character of the given class for owner and
// creates its progression record.
func (s *Service) CreateCharacter(ctx context.Context, owner string, class game.Class) (*CharacterView, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}
	c, err := game.NewCharacter(owner, class)
	if err != nil {
		return nil, err
	}
	p := game.NewProgression(0)
	if err := s.repo.Commit(storage.Changes{Enrollment: &storage.Enrollment{Character: c, Progression: p}}); err != nil {
		return nil, eris.Wrap(err, "create character")
	}

	logging.Info("character created", logging.Fields{constants.LogFieldCharacterID: c.ID, constants.LogFieldIdentity: owner, "class": string(class)})
	s.publish(ctx, events.Event{Kind: events.KindCharacterCreated, CharacterID: c.ID, Data: map[string]interface{}{
		"owner": owner,
		"class": string(class),
	}})
	return &CharacterView{Character: c, Progression: p}, nil
}

// ApplyTraitBundle layers externally issued trait modifiers on a character.
// Only the configured trait authority may call it.
func (s *Service) ApplyTraitBundle(ctx context.Context, caller string, characterID uint, bundle game.TraitBundle) (*game.Character, error) {
	if caller == "" || caller != s.cfg.TraitAuthority {
		return nil, ErrUnauthorized
	}
	unlock := s.locks.Lock(keys.Character(characterID))
	defer unlock()

	c, err := s.loadCharacter(characterID)
	if err != nil {
		return nil, err
	}
	nc := *c
	nc.ApplyTraits(bundle)
	if err := s.repo.Commit(storage.Changes{Characters: []*game.Character{&nc}}); err != nil {
		return nil, eris.Wrapf(err, "apply traits to character %d", characterID)
	}
	logging.Info("trait bundle applied", logging.Fields{constants.LogFieldCharacterID: characterID, "rarity": bundle.Rarity})
	s.publish(ctx, events.Event{Kind: events.KindTraitApplied, CharacterID: characterID, Data: bundle})
	return &nc, nil
}

func (s *Service) GetCharacter(characterID uint) (*CharacterView, error) {
	c, err := s.loadCharacter(characterID)
	if err != nil {
		return nil, err
	}
	p, err := s.loadProgression(characterID)
	if err != nil {
		return nil, err
	}
	return &CharacterView{Character: c, Progression: p}, nil
}

func (s *Service) ListCharacters(owner string) ([]game.Character, error) {
	return s.repo.ListCharactersByOwner(owner)
}

// Leaderboard returns the highest leveled characters' progressions.
func (s *Service) Leaderboard(limit int) ([]game.Progression, error) {
	return s.repo.GetTopProgressions(limit)
}
