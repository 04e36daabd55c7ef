package engine

import (
	"fmt"
	"strings"

	"github.com/uzochukwuV/massabeam/internal/entropy"
	"github.com/uzochukwuV/massabeam/internal/game"
)

// Domain tags separating the draws of one turn.
const (
	TagBase       = "base"
	TagCrit       = "crit"
	TagDodge      = "dodge"
	TagWild       = "wild"
	TagFirstMover = "first_mover"
)

// Combatants are the characters and progressions behind the two sides of
// a battle.
type Combatants struct {
	Character1   *game.Character
	Character2   *game.Character
	Progression1 *game.Progression
	Progression2 *game.Progression
}

func (c Combatants) clone() Combatants {
	out := Combatants{}
	if c.Character1 != nil {
		v := *c.Character1
		out.Character1 = &v
	}
	if c.Character2 != nil {
		v := *c.Character2
		out.Character2 = &v
	}
	if c.Progression1 != nil {
		v := *c.Progression1
		out.Progression1 = &v
	}
	if c.Progression2 != nil {
		v := *c.Progression2
		out.Progression2 = &v
	}
	return out
}

func (c Combatants) character(s game.Side) *game.Character {
	if s == game.Side2 {
		return c.Character2
	}
	return c.Character1
}

func (c Combatants) progression(s game.Side) *game.Progression {
	if s == game.Side2 {
		return c.Progression2
	}
	return c.Progression1
}

// --- Turn context and helpers -----------------------------------------
type turnContext struct {
	b      *game.Battle
	pool   *entropy.Pool
	cs     Combatants
	caller string
	att    game.Side
	def    game.Side

	// reflection granted this turn does not tick until the caster's next turn
	reflectionCast bool

	result  *TurnResult
	summary []string
}

func newTurnContext(b *game.Battle, pool *entropy.Pool, cs Combatants, caller string, att game.Side) *turnContext {
	return &turnContext{
		b:       b,
		pool:    pool,
		cs:      cs,
		caller:  caller,
		att:     att,
		def:     att.Opponent(),
		result:  &TurnResult{},
		summary: make([]string, 0, 8),
	}
}

func (tc *turnContext) add(format string, args ...interface{}) {
	tc.summary = append(tc.summary, fmt.Sprintf(format, args...))
}

func (tc *turnContext) joinSummary() string { return strings.Join(tc.summary, "\n") }

func (tc *turnContext) attacker() *game.Participant { return tc.b.Participant(tc.att) }
func (tc *turnContext) defender() *game.Participant { return tc.b.Participant(tc.def) }

func (tc *turnContext) attackerChar() *game.Character { return tc.cs.character(tc.att) }
func (tc *turnContext) defenderChar() *game.Character { return tc.cs.character(tc.def) }

// draw consumes one pool entry bound to this turn and enforces the battle's
// strictly increasing entropy index.
func (tc *turnContext) draw(tag string, min, max uint64) (uint64, error) {
	d, err := tc.pool.Consume(tc.caller, tag, tc.b.TurnNumber, min, max)
	if err != nil {
		return 0, err
	}
	if err := bindEntropyIndex(tc.b, d.Index); err != nil {
		return 0, err
	}
	tc.result.EntropyIndices = append(tc.result.EntropyIndices, d.Index)
	return d.Value, nil
}

// bindEntropyIndex records idx as the battle's last entropy index. The
// first bound index may be 0; every later one must be strictly greater.
func bindEntropyIndex(b *game.Battle, idx uint64) error {
	if b.EntropyBound && idx <= b.LastEntropyIndex {
		return fmt.Errorf("%w: %d after %d", ErrEntropyReplay, idx, b.LastEntropyIndex)
	}
	b.LastEntropyIndex = idx
	b.EntropyBound = true
	return nil
}
