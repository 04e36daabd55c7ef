package game

import "errors"

var ErrUnknownClass = errors.New("unknown character class")

// DefaultCritMultiplierFP is the 2x crit multiplier in 1e6 fixed point.
const DefaultCritMultiplierFP = 2_000_000

// SpecialKind is the closed set of special-ability behaviors.
type SpecialKind uint8

const (
	// SpecialMultiplier scales the hit by SpecialMultiplier.
	SpecialMultiplier SpecialKind = iota + 1
	// SpecialDamageOverTime afflicts the defender with DotDamage for DotTurns.
	SpecialDamageOverTime
	// SpecialReflection grants the caster ReflectionPercent for ReflectionTurns.
	SpecialReflection
)

// ClassStats is the base template a character is minted from.
type ClassStats struct {
	HP        uint64
	DamageMin uint64
	DamageMax uint64
	CritBps   uint16
	Cooldown  uint8

	Special           SpecialKind
	Multiplier        uint64
	DotDamage         uint64
	DotTurns          uint8
	ReflectionPercent uint16
	ReflectionTurns   uint8
}

var classTable = map[Class]ClassStats{
	ClassWarrior:   {HP: 120, DamageMin: 8, DamageMax: 15, CritBps: 1500, Cooldown: 3, Special: SpecialMultiplier, Multiplier: 3},
	ClassAssassin:  {HP: 90, DamageMin: 12, DamageMax: 20, CritBps: 3500, Cooldown: 4, Special: SpecialMultiplier, Multiplier: 3},
	ClassMage:      {HP: 80, DamageMin: 10, DamageMax: 18, CritBps: 2000, Cooldown: 3, Special: SpecialDamageOverTime, DotDamage: 5, DotTurns: 3},
	ClassTank:      {HP: 150, DamageMin: 6, DamageMax: 12, CritBps: 1000, Cooldown: 4, Special: SpecialReflection, ReflectionPercent: 50, ReflectionTurns: 4},
	ClassTrickster: {HP: 100, DamageMin: 8, DamageMax: 16, CritBps: 2500, Cooldown: 2, Special: SpecialMultiplier, Multiplier: 2},
}

// Classes lists every class in a stable order.
var Classes = []Class{ClassWarrior, ClassAssassin, ClassMage, ClassTank, ClassTrickster}

// StatsFor returns the base template of a class.
func StatsFor(c Class) (ClassStats, error) {
	s, ok := classTable[c]
	if !ok {
		return ClassStats{}, ErrUnknownClass
	}
	return s, nil
}

// Valid reports whether c is one of the fixed archetypes.
func (c Class) Valid() bool {
	_, ok := classTable[c]
	return ok
}

// NewCharacter mints a character of the given class at its base stats.
func NewCharacter(owner string, c Class) (*Character, error) {
	s, err := StatsFor(c)
	if err != nil {
		return nil, err
	}
	return &Character{
		Owner:            owner,
		Class:            c,
		MaxHP:            s.HP,
		CurrentHP:        s.HP,
		DamageMin:        s.DamageMin,
		DamageMax:        s.DamageMax,
		CritBps:          s.CritBps,
		CritMultiplierFP: DefaultCritMultiplierFP,
	}, nil
}
