package engine

import "github.com/uzochukwuV/massabeam/internal/game"

const (
	berserkerSelfBps = 2500
	counterBps       = 4000
)

// stanceEffect is what the attacker's and defender's stances contribute to
// one hit.
type stanceEffect struct {
	attackerFP uint64
	defenderFP uint64
	selfBps    uint64
	counterBps uint64
}

// stanceMultipliers maps the two stances to their multipliers. The
// attacker's stance scales outgoing damage, the defender's stance scales
// incoming damage or arms a counter.
func stanceMultipliers(att, def game.Stance) stanceEffect {
	e := stanceEffect{attackerFP: FPScale, defenderFP: FPScale}
	switch att {
	case game.StanceAggressive:
		e.attackerFP = FPScale * 130 / 100
	case game.StanceDefensive:
		e.attackerFP = FPScale * 70 / 100
	case game.StanceBerserker:
		e.attackerFP = FPScale * 200 / 100
		e.selfBps = berserkerSelfBps
	case game.StanceCounter:
		e.attackerFP = FPScale * 90 / 100
	case game.StanceBalanced:
	}
	switch def {
	case game.StanceDefensive:
		e.defenderFP = FPScale * 50 / 100
	case game.StanceAggressive:
		e.defenderFP = FPScale * 150 / 100
	case game.StanceCounter:
		e.counterBps = counterBps
	}
	return e
}

// attackModifierFP converts a signed basis-point attack modifier into a
// fixed-point multiplier, floored at zero.
func attackModifierFP(modBps int16) uint64 {
	scale := int64(10000) + int64(modBps)
	if scale <= 0 {
		return 0
	}
	return uint64(scale) * (FPScale / 10000)
}

// critMultiplierFP is min(2x, configured multiplier). An unset multiplier
// falls back to 2x.
func critMultiplierFP(configured uint64) uint64 {
	if configured == 0 || configured > game.DefaultCritMultiplierFP {
		return game.DefaultCritMultiplierFP
	}
	return configured
}

const (
	MaxComboStack = 5
	comboStepFP   = 150_000
)

// comboMultiplierFP is 1 + 0.15 * stacks.
func comboMultiplierFP(stacks uint8) uint64 {
	return FPScale + comboStepFP*uint64(stacks)
}
