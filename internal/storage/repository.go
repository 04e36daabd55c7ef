package storage

import (
	"errors"
	"time"

	"github.com/uzochukwuV/massabeam/internal/entropy"
	"github.com/uzochukwuV/massabeam/internal/game"
)

var ErrNotFound = errors.New("record not found")

// Changes is a set of rows written together. Records with a zero ID are
// inserted and receive their ID; the rest are updated.
type Changes struct {
	Pool         *entropy.Pool
	Battle       *game.Battle
	Characters   []*game.Character
	Progressions []*game.Progression
	Settlement   *game.Settlement
	Enrollment   *Enrollment
}

// Enrollment is a new character inserted together with its progression,
// which is linked to the character's assigned ID.
type Enrollment struct {
	Character   *game.Character
	Progression *game.Progression
}

type Repository interface {
	// Commit writes every record in c inside one transaction.
	Commit(c Changes) error

	GetPool(id uint) (*entropy.Pool, error)
	GetCharacter(id uint) (*game.Character, error)
	ListCharactersByOwner(owner string) ([]game.Character, error)
	// GetProgression returns the leveling state of a character.
	GetProgression(characterID uint) (*game.Progression, error)
	GetBattle(id uint) (*game.Battle, error)
	GetSettlement(battleID uint) (*game.Settlement, error)

	// FindTimedOutBattles returns active battles whose inactivity deadline
	// passed strictly before now.
	FindTimedOutBattles(now time.Time) ([]game.Battle, error)
	// GetTopProgressions returns the highest leveled characters.
	GetTopProgressions(limit int) ([]game.Progression, error)
}
