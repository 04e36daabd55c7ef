package game

import "math"

// TraitBundle is an externally authored set of modifier deltas.
type TraitBundle struct {
	Rarity     uint8 `json:"rarity"`
	AttackBps  int16 `json:"attack_bps"`
	DefenseBps int16 `json:"defense_bps"`
	CritBps    int16 `json:"crit_bps"`
}

// ApplyTraits layers a bundle onto the character's modifiers. Deltas add
// with saturation at the int16 range and the rarity is overwritten.
func (c *Character) ApplyTraits(t TraitBundle) {
	c.Rarity = t.Rarity
	c.ModAttackBps = satAdd16(c.ModAttackBps, t.AttackBps)
	c.ModDefenseBps = satAdd16(c.ModDefenseBps, t.DefenseBps)
	c.ModCritBps = satAdd16(c.ModCritBps, t.CritBps)
}

// EffectiveCritBps is the crit chance after trait modifiers, kept within
// [0, 10000].
func (c *Character) EffectiveCritBps() uint64 {
	v := int64(c.CritBps) + int64(c.ModCritBps)
	if v < 0 {
		return 0
	}
	if v > 10000 {
		return 10000
	}
	return uint64(v)
}

// EffectiveDefense is flat defense scaled by the defense modifier, floored
// at 0.
func (c *Character) EffectiveDefense() uint64 {
	if c.ModDefenseBps == 0 {
		return c.Defense
	}
	scale := int64(10000) + int64(c.ModDefenseBps)
	if scale <= 0 {
		return 0
	}
	// scale <= 42767 so the product only overflows for absurd defense values
	if c.Defense > math.MaxUint64/uint64(scale) {
		return math.MaxUint64 / 10000
	}
	return c.Defense * uint64(scale) / 10000
}

func satAdd16(a, b int16) int16 {
	s := int32(a) + int32(b)
	if s > math.MaxInt16 {
		return math.MaxInt16
	}
	if s < math.MinInt16 {
		return math.MinInt16
	}
	return int16(s)
}
