package game

import "math"

const (
	StartingLevel = 1
	StartingMMR   = 100

	WinXP  = 100
	DrawXP = 25
)

// NewProgression returns the initial leveling state for a character.
func NewProgression(characterID uint) *Progression {
	return &Progression{CharacterID: characterID, Level: StartingLevel, MMR: StartingMMR}
}

// NextLevelXP is the xp needed to advance from level: 100 * level^2.
func NextLevelXP(level uint32) uint64 {
	l := uint64(level)
	return satMul(100, satMul(l, l))
}

// Award adds xp and applies every level-up it unlocks to c. Each level-up
// spends its threshold, grows max hp by 5% and the damage range by 10%
// (at least 1 each) and heals to full. It returns the levels gained.
func (p *Progression) Award(xp uint64, c *Character) uint32 {
	p.XP = satAdd(p.XP, xp)
	var gained uint32
	for p.Level < math.MaxUint32 {
		need := NextLevelXP(p.Level)
		if p.XP < need {
			break
		}
		p.XP -= need
		p.Level++
		gained++
		if c != nil {
			c.MaxHP = satAdd(c.MaxHP, atLeastOne(c.MaxHP/20))
			c.CurrentHP = c.MaxHP
			c.DamageMin = satAdd(c.DamageMin, atLeastOne(c.DamageMin/10))
			c.DamageMax = satAdd(c.DamageMax, atLeastOne(c.DamageMax/10))
		}
	}
	return gained
}

func atLeastOne(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	return v
}

func satAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

func satMul(a, b uint64) uint64 {
	if a != 0 && b > math.MaxUint64/a {
		return math.MaxUint64
	}
	return a * b
}
