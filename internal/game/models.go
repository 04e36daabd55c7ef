package game

import (
	"time"

	"gorm.io/gorm"
)

// Class is one of the five fixed character archetypes.
type Class string

const (
	ClassWarrior   Class = "warrior"
	ClassAssassin  Class = "assassin"
	ClassMage      Class = "mage"
	ClassTank      Class = "tank"
	ClassTrickster Class = "trickster"
)

// Stance is the per-turn tactical choice of a participant.
type Stance string

const (
	StanceBalanced   Stance = "balanced"
	StanceAggressive Stance = "aggressive"
	StanceDefensive  Stance = "defensive"
	StanceBerserker  Stance = "berserker"
	StanceCounter    Stance = "counter"
)

// Valid reports whether s is a known stance.
func (s Stance) Valid() bool {
	switch s {
	case StanceBalanced, StanceAggressive, StanceDefensive, StanceBerserker, StanceCounter:
		return true
	}
	return false
}

// BattleState is the lifecycle position of a battle.
type BattleState string

const (
	BattleWaiting  BattleState = "waiting"
	BattleActive   BattleState = "active"
	BattleFinished BattleState = "finished"
)

// Side identifies a participant slot inside a battle. SideNone is used for
// an unset winner.
type Side uint8

const (
	SideNone Side = 0
	Side1    Side = 1
	Side2    Side = 2
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Side1 {
		return Side2
	}
	return Side1
}

// Character carries persistent combat stats. Counters that only live for
// one battle are kept on its Participant.
type Character struct {
	gorm.Model
	Owner            string `json:"owner" gorm:"index"`
	Class            Class  `json:"class"`
	MaxHP            uint64 `json:"max_hp"`
	CurrentHP        uint64 `json:"current_hp"`
	DamageMin        uint64 `json:"damage_min"`
	DamageMax        uint64 `json:"damage_max"`
	CritBps          uint16 `json:"crit_bps"`
	CritMultiplierFP uint64 `json:"crit_multiplier_fp"`
	DodgeBps         uint16 `json:"dodge_bps"`
	Defense          uint64 `json:"defense"`

	// Trait modifiers are signed basis-point deltas written by the trait
	// authority and layered on the base stats at resolution time.
	ModAttackBps  int16 `json:"mod_attack_bps"`
	ModDefenseBps int16 `json:"mod_defense_bps"`
	ModCritBps    int16 `json:"mod_crit_bps"`
	Rarity        uint8 `json:"rarity"`
}

func (Character) TableName() string { return "characters" }

// Progression is the leveling state of one character, independent of any
// single battle.
type Progression struct {
	gorm.Model
	CharacterID uint   `json:"character_id" gorm:"uniqueIndex"`
	XP          uint64 `json:"xp"`
	Level       uint32 `json:"level"`
	MMR         uint64 `json:"mmr"`
	LastPlayed  int64  `json:"last_played"`
}

func (Progression) TableName() string { return "progressions" }

// Participant is the per-side portion of a battle. It is embedded twice in
// Battle with distinct column prefixes.
type Participant struct {
	Identity    string `json:"identity"`
	CharacterID uint   `json:"character_id"`
	Health      uint64 `json:"health"`
	Stance      Stance `json:"stance"`

	// Special cooldown and combo streak of this side's character in this
	// battle. They start at zero and never leak into other battles.
	SpecialCooldown uint8  `json:"special_cooldown"`
	ComboCount      uint8  `json:"combo_count"`
	LastDamage      uint64 `json:"last_damage"`

	// Damage-over-time inflicted on this side, ticking when it acts.
	DotDamage uint64 `json:"dot_damage"`
	DotTurns  uint8  `json:"dot_turns"`

	// Reflection percentage granted to this side and the number of its own
	// turns it remains active.
	Reflection      uint16 `json:"reflection"`
	ReflectionTurns uint8  `json:"reflection_turns"`

	// Accumulated damage this side has taken from reflection, counters and
	// self-damage while attacking.
	Reflected   uint64 `json:"reflected"`
	Countered   uint64 `json:"countered"`
	SelfDamaged uint64 `json:"self_damaged"`

	// Attacks against this side that were dodged.
	Misses uint32 `json:"misses"`
}

// Battle is the turn state machine between two participants.
type Battle struct {
	gorm.Model
	Creator string `json:"creator"`
	PoolID  uint   `json:"pool_id" gorm:"index"`

	Player1 Participant `json:"player1" gorm:"embedded;embeddedPrefix:p1_"`
	Player2 Participant `json:"player2" gorm:"embedded;embeddedPrefix:p2_"`

	State       BattleState `json:"state" gorm:"index"`
	CurrentTurn Side        `json:"current_turn"`
	TurnNumber  uint64      `json:"turn_number"`

	StartTS           int64 `json:"start_ts"`
	LastActionTS      int64 `json:"last_action_ts"`
	InactivityTimeout int64 `json:"inactivity_timeout"`

	// LastEntropyIndex is only meaningful once EntropyBound is set; the
	// first draw of a battle may legitimately use global index 0.
	LastEntropyIndex uint64 `json:"last_entropy_index"`
	EntropyBound     bool   `json:"entropy_bound"`

	Winner     Side   `json:"winner"`
	StakeTotal uint64 `json:"stake_total"`

	// Conditions a challenger must meet to join a waiting battle.
	MinLevel       uint32  `json:"min_level"`
	MaxLevel       uint32  `json:"max_level"`
	AllowedClasses []Class `json:"allowed_classes" gorm:"serializer:json"`

	Settled           bool   `json:"settled"`
	SettlementReceipt string `json:"settlement_receipt,omitempty"`
}

func (Battle) TableName() string { return "battles" }

// Participant returns a pointer to the given side's state.
func (b *Battle) Participant(s Side) *Participant {
	if s == Side2 {
		return &b.Player2
	}
	return &b.Player1
}

// SideOf returns the side owned by identity, or SideNone.
func (b *Battle) SideOf(identity string) Side {
	switch identity {
	case "":
		return SideNone
	case b.Player1.Identity:
		return Side1
	case b.Player2.Identity:
		return Side2
	}
	return SideNone
}

// WinnerIdentity returns the winning participant's identity, or "" when
// there is no winner.
func (b *Battle) WinnerIdentity() string {
	if b.Winner == SideNone {
		return ""
	}
	return b.Participant(b.Winner).Identity
}

// Deadline is the instant after which the battle may be forfeited.
func (b *Battle) Deadline() time.Time {
	return time.Unix(b.LastActionTS+b.InactivityTimeout, 0)
}

// Clone returns an independent copy of the battle.
func (b *Battle) Clone() *Battle {
	c := *b
	if b.AllowedClasses != nil {
		c.AllowedClasses = append([]Class(nil), b.AllowedClasses...)
	}
	return &c
}

// Terms returns the conditions the battle was offered under.
func (b *Battle) Terms() Terms {
	return Terms{
		StakeTotal:        b.StakeTotal,
		MinLevel:          b.MinLevel,
		MaxLevel:          b.MaxLevel,
		AllowedClasses:    b.AllowedClasses,
		InactivityTimeout: time.Duration(b.InactivityTimeout) * time.Second,
	}
}

// Terms are the match conditions a battle is created under.
type Terms struct {
	StakeTotal        uint64        `json:"stake_total"`
	MinLevel          uint32        `json:"min_level"`
	MaxLevel          uint32        `json:"max_level"`
	AllowedClasses    []Class       `json:"allowed_classes"`
	InactivityTimeout time.Duration `json:"inactivity_timeout"`
}

// Admits reports whether a character of the given class and level may join
// under these terms. A zero MaxLevel means no upper bound.
func (t Terms) Admits(class Class, level uint32) bool {
	if level < t.MinLevel {
		return false
	}
	if t.MaxLevel != 0 && level > t.MaxLevel {
		return false
	}
	if len(t.AllowedClasses) == 0 {
		return true
	}
	for _, c := range t.AllowedClasses {
		if c == class {
			return true
		}
	}
	return false
}

// Settlement records the single payout of a finished battle.
type Settlement struct {
	gorm.Model
	BattleID  uint   `json:"battle_id" gorm:"uniqueIndex"`
	Receipt   string `json:"receipt" gorm:"uniqueIndex"`
	Recipient string `json:"recipient"`
	Payout    uint64 `json:"payout"`
	Fee       uint64 `json:"fee"`
	Treasury  string `json:"treasury"`
	Draw      bool   `json:"draw"`
}

func (Settlement) TableName() string { return "settlements" }
