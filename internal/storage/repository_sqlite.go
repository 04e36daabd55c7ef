package storage

import (
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"github.com/uzochukwuV/massabeam/internal/entropy"
	"github.com/uzochukwuV/massabeam/internal/game"
	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Commit(c Changes) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return eris.Wrap(tx.Error, "begin transaction")
	}

	if c.Pool != nil {
		if err := tx.Save(c.Pool).Error; err != nil {
			tx.Rollback()
			return eris.Wrapf(err, "save pool %d", c.Pool.ID)
		}
	}
	for _, ch := range c.Characters {
		if err := tx.Save(ch).Error; err != nil {
			tx.Rollback()
			return eris.Wrapf(err, "save character %d", ch.ID)
		}
	}
	if e := c.Enrollment; e != nil {
		if err := tx.Create(e.Character).Error; err != nil {
			tx.Rollback()
			return eris.Wrap(err, "enroll character")
		}
		e.Progression.CharacterID = e.Character.ID
		if err := tx.Create(e.Progression).Error; err != nil {
			tx.Rollback()
			return eris.Wrapf(err, "enroll progression of character %d", e.Character.ID)
		}
	}
	for _, p := range c.Progressions {
		if err := tx.Save(p).Error; err != nil {
			tx.Rollback()
			return eris.Wrapf(err, "save progression of character %d", p.CharacterID)
		}
	}
	if c.Battle != nil {
		if err := tx.Save(c.Battle).Error; err != nil {
			tx.Rollback()
			return eris.Wrapf(err, "save battle %d", c.Battle.ID)
		}
	}
	if c.Settlement != nil {
		if c.Settlement.BattleID == 0 && c.Battle != nil {
			c.Settlement.BattleID = c.Battle.ID
		}
		if err := tx.Create(c.Settlement).Error; err != nil {
			tx.Rollback()
			return eris.Wrapf(err, "record settlement of battle %d", c.Settlement.BattleID)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return eris.Wrap(err, "commit transaction")
	}
	return nil
}

func (r *sqliteRepository) GetPool(id uint) (*entropy.Pool, error) {
	var p entropy.Pool
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, notFound(err, "pool %d", id)
	}
	if err := p.CheckInvariants(); err != nil {
		return nil, eris.Wrapf(err, "pool %d", id)
	}
	return &p, nil
}

func (r *sqliteRepository) GetCharacter(id uint) (*game.Character, error) {
	var c game.Character
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, notFound(err, "character %d", id)
	}
	return &c, nil
}

func (r *sqliteRepository) ListCharactersByOwner(owner string) ([]game.Character, error) {
	var out []game.Character
	if err := r.db.Where("owner = ?", owner).Order("id").Find(&out).Error; err != nil {
		return nil, eris.Wrapf(err, "list characters of %s", owner)
	}
	return out, nil
}

func (r *sqliteRepository) GetProgression(characterID uint) (*game.Progression, error) {
	var p game.Progression
	if err := r.db.Where("character_id = ?", characterID).First(&p).Error; err != nil {
		return nil, notFound(err, "progression of character %d", characterID)
	}
	return &p, nil
}

func (r *sqliteRepository) GetBattle(id uint) (*game.Battle, error) {
	var b game.Battle
	if err := r.db.First(&b, id).Error; err != nil {
		return nil, notFound(err, "battle %d", id)
	}
	return &b, nil
}

func (r *sqliteRepository) GetSettlement(battleID uint) (*game.Settlement, error) {
	var s game.Settlement
	if err := r.db.Where("battle_id = ?", battleID).First(&s).Error; err != nil {
		return nil, notFound(err, "settlement of battle %d", battleID)
	}
	return &s, nil
}

func (r *sqliteRepository) FindTimedOutBattles(now time.Time) ([]game.Battle, error) {
	var out []game.Battle
	err := r.db.
		Where("state = ?", game.BattleActive).
		Where("last_action_ts + inactivity_timeout < ?", now.Unix()).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, eris.Wrap(err, "find timed out battles")
	}
	return out, nil
}

// GetTopProgressions returns the top N progressions ordered by level desc,
// then xp desc.
func (r *sqliteRepository) GetTopProgressions(limit int) ([]game.Progression, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []game.Progression
	if err := r.db.Model(&game.Progression{}).
		Order("level DESC").
		Order("xp DESC").
		Order("character_id").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, eris.Wrap(err, "leaderboard")
	}
	return out, nil
}

func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return eris.Wrapf(ErrNotFound, format, args...)
	}
	return eris.Wrapf(err, format, args...)
}
