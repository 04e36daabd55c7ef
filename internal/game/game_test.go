package game

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCharacter_ClassTable(t *testing.T) {
	cases := []struct {
		class    Class
		hp       uint64
		min, max uint64
		crit     uint16
		cooldown uint8
	}{
		{ClassWarrior, 120, 8, 15, 1500, 3},
		{ClassAssassin, 90, 12, 20, 3500, 4},
		{ClassMage, 80, 10, 18, 2000, 3},
		{ClassTank, 150, 6, 12, 1000, 4},
		{ClassTrickster, 100, 8, 16, 2500, 2},
	}
	for _, tc := range cases {
		t.Run(string(tc.class), func(t *testing.T) {
			c, err := NewCharacter("alice", tc.class)
			require.NoError(t, err)
			assert.Equal(t, tc.hp, c.MaxHP)
			assert.Equal(t, tc.hp, c.CurrentHP)
			assert.Equal(t, tc.min, c.DamageMin)
			assert.Equal(t, tc.max, c.DamageMax)
			assert.Equal(t, tc.crit, c.CritBps)
			assert.Equal(t, uint64(DefaultCritMultiplierFP), c.CritMultiplierFP)
			s, err := StatsFor(tc.class)
			require.NoError(t, err)
			assert.Equal(t, tc.cooldown, s.Cooldown)
		})
	}

	_, err := NewCharacter("alice", Class("bard"))
	require.ErrorIs(t, err, ErrUnknownClass)
}

func TestLifecycle_ForwardOnly(t *testing.T) {
	ctx := context.Background()
	b := &Battle{State: BattleWaiting}

	require.ErrorIs(t, b.Transition(ctx, EventFinish), ErrInvalidBattleState)
	assert.Equal(t, BattleWaiting, b.State)

	require.NoError(t, b.Transition(ctx, EventStart))
	assert.True(t, b.IsActive())
	require.ErrorIs(t, b.Transition(ctx, EventStart), ErrInvalidBattleState)

	require.NoError(t, b.Finish(ctx, Side2))
	assert.True(t, b.IsFinished())
	assert.Equal(t, Side2, b.Winner)

	require.ErrorIs(t, b.Transition(ctx, EventStart), ErrInvalidBattleState)
	require.ErrorIs(t, b.Finish(ctx, Side1), ErrInvalidBattleState)
	assert.Equal(t, Side2, b.Winner)
}

func TestProgression_LevelUpCurve(t *testing.T) {
	c, err := NewCharacter("alice", ClassWarrior)
	require.NoError(t, err)
	c.CurrentHP = 7
	p := NewProgression(1)

	assert.Zero(t, p.Award(WinXP-1, c))
	assert.Equal(t, uint32(1), p.Level)
	assert.Equal(t, uint64(7), c.CurrentHP)

	// 99 + 100 = 199 >= 100 for level 1, remainder 99 < 400 for level 2
	assert.Equal(t, uint32(1), p.Award(WinXP, c))
	assert.Equal(t, uint32(2), p.Level)
	assert.Equal(t, uint64(99), p.XP)
	assert.Equal(t, uint64(126), c.MaxHP)
	assert.Equal(t, c.MaxHP, c.CurrentHP)
	assert.Equal(t, uint64(9), c.DamageMin)
	assert.Equal(t, uint64(16), c.DamageMax)
}

func TestProgression_MultipleLevels(t *testing.T) {
	p := NewProgression(1)
	// 100 + 400 + 900 = 1400 reaches level 4 exactly
	assert.Equal(t, uint32(3), p.Award(1400, nil))
	assert.Equal(t, uint32(4), p.Level)
	assert.Zero(t, p.XP)
}

func TestProgression_DrawXPLevelsUp(t *testing.T) {
	p := NewProgression(1)
	p.XP = 80
	assert.Equal(t, uint32(1), p.Award(DrawXP, nil))
	assert.Equal(t, uint64(5), p.XP)
}

func TestApplyTraits_Saturates(t *testing.T) {
	c, err := NewCharacter("alice", ClassTank)
	require.NoError(t, err)
	c.ApplyTraits(TraitBundle{Rarity: 3, AttackBps: 30000, DefenseBps: -30000, CritBps: 500})
	c.ApplyTraits(TraitBundle{Rarity: 4, AttackBps: 30000, DefenseBps: -30000, CritBps: 500})
	assert.Equal(t, uint8(4), c.Rarity)
	assert.Equal(t, int16(math.MaxInt16), c.ModAttackBps)
	assert.Equal(t, int16(math.MinInt16), c.ModDefenseBps)
	assert.Equal(t, int16(1000), c.ModCritBps)
	assert.Equal(t, uint64(2000), c.EffectiveCritBps())
}

func TestEffectiveStats(t *testing.T) {
	c := &Character{CritBps: 9000, Defense: 10}
	assert.Equal(t, uint64(10), c.EffectiveDefense())

	c.ModCritBps = 2000
	assert.Equal(t, uint64(10000), c.EffectiveCritBps())
	c.ModCritBps = -9500
	assert.Equal(t, uint64(0), c.EffectiveCritBps())

	c.ModDefenseBps = 5000
	assert.Equal(t, uint64(15), c.EffectiveDefense())
	c.ModDefenseBps = -10000
	assert.Equal(t, uint64(0), c.EffectiveDefense())
}

func TestTerms_Admits(t *testing.T) {
	terms := Terms{MinLevel: 2, MaxLevel: 5, AllowedClasses: []Class{ClassMage}}
	assert.True(t, terms.Admits(ClassMage, 2))
	assert.False(t, terms.Admits(ClassMage, 1))
	assert.False(t, terms.Admits(ClassMage, 6))
	assert.False(t, terms.Admits(ClassTank, 3))
	assert.True(t, Terms{}.Admits(ClassTank, 99))
}

func TestOutcomeV1(t *testing.T) {
	b := &Battle{
		Player1:    Participant{Identity: "alice"},
		Player2:    Participant{Identity: "bob"},
		State:      BattleActive,
		TurnNumber: 4,
	}
	b.ID = 9
	o := b.OutcomeV1()
	assert.Equal(t, OutcomeVersion1, o.Version)
	assert.False(t, o.Finished)
	assert.False(t, o.Draw)
	assert.Empty(t, o.Winner)

	require.NoError(t, b.Finish(context.Background(), Side1))
	o = b.OutcomeV1()
	assert.True(t, o.Finished)
	assert.Equal(t, "alice", o.Winner)
	assert.Equal(t, uint(9), o.BattleID)

	d := &Battle{State: BattleActive}
	require.NoError(t, d.Finish(context.Background(), SideNone))
	assert.True(t, d.OutcomeV1().Draw)
}

func TestBattle_SideOf(t *testing.T) {
	b := &Battle{Player1: Participant{Identity: "alice"}, Player2: Participant{Identity: "bob"}}
	assert.Equal(t, Side1, b.SideOf("alice"))
	assert.Equal(t, Side2, b.SideOf("bob"))
	assert.Equal(t, SideNone, b.SideOf("carol"))
	assert.Equal(t, SideNone, b.SideOf(""))
	assert.Equal(t, Side1, Side2.Opponent())
}
