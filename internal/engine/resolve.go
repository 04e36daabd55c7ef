package engine

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/uzochukwuV/massabeam/internal/entropy"
	"github.com/uzochukwuV/massabeam/internal/game"
)

var ErrInvalidCombatants = errors.New("combatants do not match battle")

// Turn is one participant's submitted action.
type Turn struct {
	Caller     string
	Stance     game.Stance
	UseSpecial bool
	Now        time.Time
}

// LevelUp records a level gained when a battle ends.
type LevelUp struct {
	Side        game.Side `json:"side"`
	CharacterID uint      `json:"character_id"`
	Level       uint32    `json:"level"`
}

// TurnResult describes a resolved turn for indexers and logs.
type TurnResult struct {
	BattleID       uint      `json:"battle_id"`
	TurnNumber     uint64    `json:"turn_number"`
	Attacker       game.Side `json:"attacker"`
	Defender       game.Side `json:"defender"`
	AttackerID     string    `json:"attacker_id"`
	DefenderID     string    `json:"defender_id"`
	BaseRoll       uint64    `json:"base_roll"`
	Damage         uint64    `json:"damage"`
	Crit           bool      `json:"crit"`
	Missed         bool      `json:"missed"`
	Clamped        bool      `json:"clamped"`
	Special        bool      `json:"special"`
	Combo          uint8     `json:"combo"`
	Reflected      uint64    `json:"reflected"`
	Countered      uint64    `json:"countered"`
	SelfDamage     uint64    `json:"self_damage"`
	DotDamage      uint64    `json:"dot_damage"`
	EntropyIndices []uint64  `json:"entropy_indices"`
	Finished       bool      `json:"finished"`
	Winner         game.Side `json:"winner"`
	LevelUps       []LevelUp `json:"level_ups,omitempty"`
	Summary        string    `json:"summary"`
}

// TurnOutcome holds the post-turn state. Inputs handed to ExecuteTurn are
// never modified; callers persist these copies.
type TurnOutcome struct {
	Battle     *game.Battle
	Pool       *entropy.Pool
	Combatants Combatants
	Result     *TurnResult
}

// ExecuteTurn resolves one attack by the caller. All preconditions are
// checked before any draw, and every mutation happens on copies, so a
// failed turn has no effect at all.
func ExecuteTurn(ctx context.Context, b *game.Battle, pool *entropy.Pool, cs Combatants, t Turn) (*TurnOutcome, error) {
	if !b.IsActive() {
		return nil, ErrInvalidBattleState
	}
	att := b.SideOf(t.Caller)
	if att == game.SideNone {
		return nil, ErrUnauthorized
	}
	if att != b.CurrentTurn {
		return nil, ErrNotYourTurn
	}
	if !t.Stance.Valid() {
		return nil, ErrInvalidStance
	}
	if err := checkCombatants(b, cs); err != nil {
		return nil, err
	}
	if t.UseSpecial && b.Participant(att).SpecialCooldown != 0 {
		return nil, ErrSpecialOnCooldown
	}
	if !pool.HasAvailable(entropy.MinPerTurn) {
		return nil, ErrNoEntropyAvailable
	}
	if b.TurnNumber > math.MaxUint32 {
		return nil, ErrMathOverflow
	}

	tc := newTurnContext(b.Clone(), pool.Clone(), cs.clone(), t.Caller, att)
	if err := tc.resolve(ctx, t); err != nil {
		return nil, err
	}
	return &TurnOutcome{Battle: tc.b, Pool: tc.pool, Combatants: tc.cs, Result: tc.result}, nil
}

func checkCombatants(b *game.Battle, cs Combatants) error {
	if cs.Character1 == nil || cs.Character2 == nil || cs.Progression1 == nil || cs.Progression2 == nil {
		return ErrInvalidCombatants
	}
	if cs.Character1.ID != b.Player1.CharacterID || cs.Character2.ID != b.Player2.CharacterID {
		return ErrInvalidCombatants
	}
	return nil
}

func (tc *turnContext) resolve(ctx context.Context, t Turn) error {
	b := tc.b
	ac, dc := tc.attackerChar(), tc.defenderChar()
	ap := tc.cs.progression(tc.att)

	b.LastActionTS = t.Now.Unix()
	tc.attacker().Stance = t.Stance

	res := tc.result
	res.BattleID = b.ID
	res.TurnNumber = b.TurnNumber
	res.Attacker, res.Defender = tc.att, tc.def
	res.AttackerID, res.DefenderID = tc.attacker().Identity, tc.defender().Identity

	roll, err := tc.draw(TagBase, ac.DamageMin, ac.DamageMax)
	if err != nil {
		return err
	}
	critRoll, err := tc.draw(TagCrit, 0, 9999)
	if err != nil {
		return err
	}
	dodgeRoll, err := tc.draw(TagDodge, 0, 9999)
	if err != nil {
		return err
	}
	// reserved: always consumed, never used
	if _, err := tc.draw(TagWild, 0, 9999); err != nil {
		return err
	}
	res.BaseRoll = roll
	res.Crit = critRoll < ac.EffectiveCritBps()
	dodged := dodgeRoll < uint64(dc.DodgeBps)

	res.Combo = updateCombo(tc.attacker(), roll)
	if res.Combo > 0 {
		tc.add("combo x%d", res.Combo)
	}

	var specialMult uint64
	if t.UseSpecial {
		if specialMult, err = tc.applySpecial(ac); err != nil {
			return err
		}
	}

	r, err := computeHit(hit{
		Roll:              roll,
		Level:             ap.Level,
		Crit:              res.Crit,
		CritMultiplierFP:  ac.CritMultiplierFP,
		ModAttackBps:      ac.ModAttackBps,
		Combo:             res.Combo,
		SpecialMultiplier: specialMult,
		AttackerStance:    t.Stance,
		DefenderStance:    tc.defender().Stance,
		Defense:           dc.EffectiveDefense(),
		Dodged:            dodged,
	})
	if err != nil {
		return err
	}
	res.Clamped = r.Clamped
	if r.Clamped {
		tc.add("damage clamped at %dx", MaxTotalMultiplier)
	}
	if dodged {
		def := tc.defender()
		if def.Misses < math.MaxUint32 {
			def.Misses++
		}
		res.Missed = true
		tc.add("attack dodged")
	}
	res.Damage = r.Damage
	tc.add("%s hits %s for %d", res.AttackerID, res.DefenderID, r.Damage)

	tc.applyHit(r)
	tc.tickDamageOverTime()
	tc.tickCooldowns()
	return tc.finalizeTurn(ctx, t.Now)
}

// updateCombo extends the streak when the roll repeats the previous one and
// resets it otherwise. It returns the stacks that apply to this hit.
func updateCombo(c *game.Participant, roll uint64) uint8 {
	if roll == c.LastDamage {
		if c.ComboCount < MaxComboStack {
			c.ComboCount++
		}
	} else {
		c.ComboCount = 0
	}
	c.LastDamage = roll
	return c.ComboCount
}

// finalizeTurn checks the terminal condition and either ends the battle
// with xp awards or hands the turn to the other side.
func (tc *turnContext) finalizeTurn(ctx context.Context, now time.Time) error {
	b := tc.b
	res := tc.result
	h1, h2 := b.Player1.Health, b.Player2.Health
	if h1 == 0 || h2 == 0 {
		winner := game.SideNone
		if h1 > h2 {
			winner = game.Side1
		} else if h2 > h1 {
			winner = game.Side2
		}
		if err := b.Finish(ctx, winner); err != nil {
			return err
		}
		tc.awardXP(winner, now)
		res.Finished = true
		res.Winner = winner
		if winner == game.SideNone {
			tc.add("battle ends in a draw")
		} else {
			tc.add("%s wins", b.WinnerIdentity())
		}
	} else {
		b.CurrentTurn = tc.def
		b.TurnNumber++
	}
	res.Summary = tc.joinSummary()
	return nil
}

func (tc *turnContext) awardXP(winner game.Side, now time.Time) {
	award := func(s game.Side, xp uint64) {
		p, c := tc.cs.progression(s), tc.cs.character(s)
		p.LastPlayed = now.Unix()
		if p.Award(xp, c) > 0 {
			tc.result.LevelUps = append(tc.result.LevelUps, LevelUp{Side: s, CharacterID: c.ID, Level: p.Level})
		}
	}
	if winner == game.SideNone {
		award(game.Side1, game.DrawXP)
		award(game.Side2, game.DrawXP)
		return
	}
	award(winner, game.WinXP)
	tc.cs.progression(winner.Opponent()).LastPlayed = now.Unix()
}
