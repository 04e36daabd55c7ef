package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/uzochukwuV/massabeam/internal/entropy"
	"github.com/uzochukwuV/massabeam/internal/events"
	"github.com/uzochukwuV/massabeam/internal/game"
	"github.com/uzochukwuV/massabeam/internal/settlement"
	"github.com/uzochukwuV/massabeam/internal/storage"
)

// memRepo stores value copies so callers never alias stored rows.
type memRepo struct {
	mu           sync.Mutex
	nextID       uint
	pools        map[uint]entropy.Pool
	characters   map[uint]game.Character
	progressions map[uint]game.Progression
	battles      map[uint]game.Battle
	settlements  map[uint]game.Settlement
	commitErr    error
	commits      int
}

func newMemRepo() *memRepo {
	return &memRepo{
		pools:        map[uint]entropy.Pool{},
		characters:   map[uint]game.Character{},
		progressions: map[uint]game.Progression{},
		battles:      map[uint]game.Battle{},
		settlements:  map[uint]game.Settlement{},
	}
}

func (m *memRepo) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memRepo) Commit(c storage.Changes) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.commitErr != nil {
		return m.commitErr
	}
	if c.Settlement != nil {
		if _, ok := m.settlements[c.Settlement.BattleID]; ok {
			return errors.New("duplicate settlement")
		}
	}
	m.commits++
	if c.Pool != nil {
		if c.Pool.ID == 0 {
			c.Pool.ID = m.id()
		}
		m.pools[c.Pool.ID] = *c.Pool
	}
	for _, ch := range c.Characters {
		if ch.ID == 0 {
			ch.ID = m.id()
		}
		m.characters[ch.ID] = *ch
	}
	if e := c.Enrollment; e != nil {
		e.Character.ID = m.id()
		m.characters[e.Character.ID] = *e.Character
		e.Progression.ID = m.id()
		e.Progression.CharacterID = e.Character.ID
		m.progressions[e.Character.ID] = *e.Progression
	}
	for _, p := range c.Progressions {
		if p.ID == 0 {
			p.ID = m.id()
		}
		m.progressions[p.CharacterID] = *p
	}
	if c.Battle != nil {
		if c.Battle.ID == 0 {
			c.Battle.ID = m.id()
		}
		m.battles[c.Battle.ID] = *c.Battle
	}
	if c.Settlement != nil {
		c.Settlement.ID = m.id()
		m.settlements[c.Settlement.BattleID] = *c.Settlement
	}
	return nil
}

func (m *memRepo) GetPool(id uint) (*entropy.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pools[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (m *memRepo) GetCharacter(id uint) (*game.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.characters[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (m *memRepo) ListCharactersByOwner(owner string) ([]game.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []game.Character
	for _, c := range m.characters {
		if c.Owner == owner {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) GetProgression(characterID uint) (*game.Progression, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.progressions[characterID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (m *memRepo) GetBattle(id uint) (*game.Battle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.battles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &b, nil
}

func (m *memRepo) GetSettlement(battleID uint) (*game.Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settlements[battleID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &s, nil
}

func (m *memRepo) FindTimedOutBattles(now time.Time) ([]game.Battle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []game.Battle
	for _, b := range m.battles {
		if b.State == game.BattleActive && b.LastActionTS+b.InactivityTimeout < now.Unix() {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) GetTopProgressions(limit int) ([]game.Progression, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []game.Progression
	for _, p := range m.progressions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		return out[i].XP > out[j].XP
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// recorder keeps every published event.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) kinds() []events.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Kind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

// countingSettler issues sequential receipts.
type countingSettler struct {
	mu    sync.Mutex
	calls int
	plans []settlement.Plan
}

func (c *countingSettler) Settle(_ context.Context, p settlement.Plan) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.plans = append(c.plans, p)
	return "receipt-" + string(rune('a'+c.calls-1)), nil
}
