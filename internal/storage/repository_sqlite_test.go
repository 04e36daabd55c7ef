package storage

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uzochukwuV/massabeam/internal/entropy"
	"github.com/uzochukwuV/massabeam/internal/game"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := OpenAndMigrate(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return NewSQLiteRepository(db)
}

func TestCommit_PoolRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	p := entropy.NewPool("admin", "oracle")
	var seed [entropy.SeedLen]byte
	seed[0], seed[31] = 1, 2
	require.NoError(t, p.Refill("oracle", seed, 5, 10, time.Unix(100, 0)))
	require.NoError(t, repo.Commit(Changes{Pool: p}))
	require.NotZero(t, p.ID)

	got, err := repo.GetPool(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Batches, got.Batches)
	assert.Equal(t, uint64(15), got.GlobalNextIndex)
	assert.Equal(t, uint64(10), got.TotalAvailable)
	assert.Equal(t, uint8(1), got.Tail)
}

func TestCommit_PoolAtMaxWatermark(t *testing.T) {
	repo := newTestRepo(t)
	p := entropy.NewPool("admin", "oracle")
	var seed [entropy.SeedLen]byte
	require.NoError(t, p.Refill("oracle", seed, entropy.MaxIndex-10, 10, time.Unix(100, 0)))
	require.NoError(t, repo.Commit(Changes{Pool: p}))

	got, err := repo.GetPool(p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(entropy.MaxIndex), got.GlobalNextIndex)
}

func TestCommit_Enrollment(t *testing.T) {
	repo := newTestRepo(t)
	c, err := game.NewCharacter("alice", game.ClassTrickster)
	require.NoError(t, err)
	p := game.NewProgression(0)
	require.NoError(t, repo.Commit(Changes{Enrollment: &Enrollment{Character: c, Progression: p}}))
	require.NotZero(t, c.ID)
	assert.Equal(t, c.ID, p.CharacterID)

	got, err := repo.GetProgression(c.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(game.StartingLevel), got.Level)
}

func TestGetPool_RejectsCorruptAccounting(t *testing.T) {
	repo := newTestRepo(t)
	p := entropy.NewPool("admin", "oracle")
	p.TotalAvailable = 7
	require.NoError(t, repo.Commit(Changes{Pool: p}))

	_, err := repo.GetPool(p.ID)
	require.ErrorIs(t, err, entropy.ErrCorruptPool)
}

func TestCommit_BattleWithCharacters(t *testing.T) {
	repo := newTestRepo(t)
	c1, err := game.NewCharacter("alice", game.ClassMage)
	require.NoError(t, err)
	c2, err := game.NewCharacter("bob", game.ClassTank)
	require.NoError(t, err)
	require.NoError(t, repo.Commit(Changes{Characters: []*game.Character{c1, c2}}))
	p1, p2 := game.NewProgression(c1.ID), game.NewProgression(c2.ID)
	require.NoError(t, repo.Commit(Changes{Progressions: []*game.Progression{p1, p2}}))

	b := &game.Battle{
		Creator:           "alice",
		Player1:           game.Participant{Identity: "alice", CharacterID: c1.ID, Health: 100, Stance: game.StanceBalanced, DotTurns: 2, SpecialCooldown: 1, ComboCount: 2, LastDamage: 9},
		Player2:           game.Participant{Identity: "bob", CharacterID: c2.ID, Health: 90, Stance: game.StanceCounter, Reflection: 50},
		State:             game.BattleActive,
		CurrentTurn:       game.Side2,
		TurnNumber:        3,
		LastActionTS:      1000,
		InactivityTimeout: 300,
		LastEntropyIndex:  11,
		EntropyBound:      true,
	}
	c1.ModAttackBps = 250
	p2.XP = 40
	require.NoError(t, repo.Commit(Changes{Battle: b, Characters: []*game.Character{c1}, Progressions: []*game.Progression{p2}}))

	got, err := repo.GetBattle(b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Player1, got.Player1)
	assert.Equal(t, b.Player2, got.Player2)
	assert.Equal(t, game.Side2, got.CurrentTurn)
	assert.True(t, got.EntropyBound)
	assert.Equal(t, uint64(11), got.LastEntropyIndex)

	gc, err := repo.GetCharacter(c1.ID)
	require.NoError(t, err)
	assert.Equal(t, int16(250), gc.ModAttackBps)
	gp, err := repo.GetProgression(c2.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), gp.XP)

	list, err := repo.ListCharactersByOwner("bob")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, game.ClassTank, list[0].Class)
}

func TestCommit_IsAtomic(t *testing.T) {
	repo := newTestRepo(t)
	c, err := game.NewCharacter("alice", game.ClassWarrior)
	require.NoError(t, err)
	require.NoError(t, repo.Commit(Changes{Characters: []*game.Character{c}}))

	b := &game.Battle{State: game.BattleFinished}
	require.NoError(t, repo.Commit(Changes{Battle: b, Settlement: &game.Settlement{Receipt: "r-1"}}))

	// a second settlement for the same battle violates the unique index and
	// must roll back the character update made in the same commit
	c.ModAttackBps = 400
	err = repo.Commit(Changes{Characters: []*game.Character{c}, Settlement: &game.Settlement{BattleID: b.ID, Receipt: "r-2"}})
	require.Error(t, err)

	gc, err := repo.GetCharacter(c.ID)
	require.NoError(t, err)
	assert.Zero(t, gc.ModAttackBps)
	s, err := repo.GetSettlement(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "r-1", s.Receipt)
}

func TestGet_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetBattle(42)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetPool(42)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetCharacter(42)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetProgression(42)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetSettlement(42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindTimedOutBattles(t *testing.T) {
	repo := newTestRepo(t)
	mk := func(state game.BattleState, last int64) *game.Battle {
		b := &game.Battle{State: state, LastActionTS: last, InactivityTimeout: 300}
		require.NoError(t, repo.Commit(Changes{Battle: b}))
		return b
	}
	stale := mk(game.BattleActive, 1000)
	mk(game.BattleActive, 1001)
	mk(game.BattleFinished, 0)

	got, err := repo.FindTimedOutBattles(time.Unix(1301, 0))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, stale.ID, got[0].ID)
}

func TestGetTopProgressions(t *testing.T) {
	repo := newTestRepo(t)
	progs := []*game.Progression{
		{CharacterID: 1, Level: 2, XP: 10},
		{CharacterID: 2, Level: 3, XP: 0},
		{CharacterID: 3, Level: 2, XP: 50},
	}
	require.NoError(t, repo.Commit(Changes{Progressions: progs}))

	top, err := repo.GetTopProgressions(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, uint(2), top[0].CharacterID)
	assert.Equal(t, uint(3), top[1].CharacterID)
}
