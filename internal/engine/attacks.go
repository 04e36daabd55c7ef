package engine

import (
	"math"

	"github.com/holiman/uint256"
	"github.com/uzochukwuV/massabeam/internal/game"
)

// hit is everything the damage pipeline needs for one attack. It is built
// after the draws and the combo/special bookkeeping so that computeHit stays
// a pure function.
type hit struct {
	Roll              uint64
	Level             uint32
	Crit              bool
	CritMultiplierFP  uint64
	ModAttackBps      int16
	Combo             uint8
	SpecialMultiplier uint64
	AttackerStance    game.Stance
	DefenderStance    game.Stance
	Defense           uint64
	Dodged            bool
}

type hitResult struct {
	Damage     uint64
	Clamped    bool
	SelfBps    uint64
	CounterBps uint64
}

// computeHit runs the fixed-point damage pipeline: level bonus, attack
// modifier, crit, combo, special, attacker stance, defender stance, clamp,
// integer conversion, flat defense and finally dodge.
func computeHit(h hit) (hitResult, error) {
	var res hitResult

	var bonus uint64
	if h.Level > 1 {
		bonus = 2 * uint64(h.Level-1)
	}
	if h.Roll > math.MaxUint64-bonus {
		return res, ErrMathOverflow
	}
	baseFP, err := toFP(h.Roll + bonus)
	if err != nil {
		return res, err
	}

	dmg, err := mulFP(baseFP, attackModifierFP(h.ModAttackBps))
	if err != nil {
		return res, err
	}
	if h.Crit {
		if dmg, err = mulFP(dmg, critMultiplierFP(h.CritMultiplierFP)); err != nil {
			return res, err
		}
	}
	if h.Combo > 0 {
		if dmg, err = mulFP(dmg, comboMultiplierFP(h.Combo)); err != nil {
			return res, err
		}
	}
	if h.SpecialMultiplier > 1 {
		if dmg, err = mulFP(dmg, h.SpecialMultiplier*FPScale); err != nil {
			return res, err
		}
	}

	st := stanceMultipliers(h.AttackerStance, h.DefenderStance)
	if dmg, err = mulFP(dmg, st.attackerFP); err != nil {
		return res, err
	}
	if dmg, err = mulFP(dmg, st.defenderFP); err != nil {
		return res, err
	}
	res.SelfBps = st.selfBps
	res.CounterBps = st.counterBps

	limit, overflow := new(uint256.Int).MulOverflow(baseFP, uint256.NewInt(MaxTotalMultiplier))
	if overflow {
		return res, ErrMathOverflow
	}
	dmg, res.Clamped = clampFP(dmg, limit)

	final, err := fromFP(dmg)
	if err != nil {
		return res, err
	}
	final = satSub(final, h.Defense)
	if h.Dodged {
		final = 0
	}
	res.Damage = final
	return res, nil
}

// applyHit lands final damage on the defender and then applies reflection,
// counter and self-damage to the attacker. Each side effect is a
// percentage of the same final damage, never of one another.
func (tc *turnContext) applyHit(r hitResult) {
	att, def := tc.attacker(), tc.defender()
	dmg := r.Damage

	def.Health = satSub(def.Health, dmg)

	if def.Reflection > 0 && dmg > 0 {
		reflected := pct(dmg, uint64(def.Reflection), 100)
		att.Health = satSub(att.Health, reflected)
		att.Reflected = satAdd(att.Reflected, reflected)
		tc.result.Reflected = reflected
		tc.add("%d damage reflected back", reflected)
	}
	if r.CounterBps > 0 && dmg > 0 {
		counter := pct(dmg, r.CounterBps, 10000)
		att.Health = satSub(att.Health, counter)
		att.Countered = satAdd(att.Countered, counter)
		tc.result.Countered = counter
		tc.add("counter deals %d", counter)
	}
	if r.SelfBps > 0 {
		self := pct(dmg, r.SelfBps, 10000)
		att.Health = satSub(att.Health, self)
		att.SelfDamaged = satAdd(att.SelfDamaged, self)
		tc.result.SelfDamage = self
		if self > 0 {
			tc.add("berserker takes %d self-damage", self)
		}
	}
}

// applySpecial performs the class special. Multiplier specials return the
// multiplier for the pipeline; the others act on the battle directly.
func (tc *turnContext) applySpecial(c *game.Character) (uint64, error) {
	stats, err := game.StatsFor(c.Class)
	if err != nil {
		return 0, err
	}
	tc.attacker().SpecialCooldown = stats.Cooldown
	tc.result.Special = true

	switch stats.Special {
	case game.SpecialMultiplier:
		tc.add("special: %dx damage", stats.Multiplier)
		return stats.Multiplier, nil
	case game.SpecialDamageOverTime:
		def := tc.defender()
		def.DotDamage = satAdd(def.DotDamage, stats.DotDamage)
		def.DotTurns = satAddU8(def.DotTurns, stats.DotTurns)
		tc.add("special: %d damage per turn for %d turns", stats.DotDamage, stats.DotTurns)
	case game.SpecialReflection:
		att := tc.attacker()
		att.Reflection = satAddU16(att.Reflection, stats.ReflectionPercent)
		att.ReflectionTurns = stats.ReflectionTurns
		tc.reflectionCast = true
		tc.add("special: +%d%% reflection for %d turns", stats.ReflectionPercent, stats.ReflectionTurns)
	}
	return 0, nil
}

// tickDamageOverTime applies pending damage-over-time to the acting side.
func (tc *turnContext) tickDamageOverTime() {
	att := tc.attacker()
	if att.DotTurns == 0 {
		return
	}
	att.Health = satSub(att.Health, att.DotDamage)
	tc.result.DotDamage = att.DotDamage
	tc.add("takes %d damage over time", att.DotDamage)
	att.DotTurns--
	if att.DotTurns == 0 {
		att.DotDamage = 0
	}
}

// tickCooldowns runs at the end of the acting side's turn.
func (tc *turnContext) tickCooldowns() {
	att := tc.attacker()
	if att.SpecialCooldown > 0 {
		att.SpecialCooldown--
	}
	if att.ReflectionTurns > 0 && !tc.reflectionCast {
		att.ReflectionTurns--
		if att.ReflectionTurns == 0 {
			att.Reflection = 0
		}
	}
}

func satAddU16(a, b uint16) uint16 {
	if a > math.MaxUint16-b {
		return math.MaxUint16
	}
	return a + b
}

func satAddU8(a, b uint8) uint8 {
	if a > math.MaxUint8-b {
		return math.MaxUint8
	}
	return a + b
}
