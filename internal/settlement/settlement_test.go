package settlement

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uzochukwuV/massabeam/internal/game"
	"github.com/uzochukwuV/massabeam/internal/logging"
)

func finished(winner game.Side, stake uint64) game.OutcomeV1 {
	b := &game.Battle{State: game.BattleFinished, Winner: winner, StakeTotal: stake}
	b.ID = 4
	b.Player1.Identity = "alice"
	b.Player2.Identity = "bob"
	return b.OutcomeV1()
}

func TestNewPlan_WinnerGetsStakeMinusFee(t *testing.T) {
	p, err := NewPlan(finished(game.Side2, 1000), 200, "treasury")
	require.NoError(t, err)
	assert.Equal(t, uint(4), p.BattleID)
	assert.Equal(t, "bob", p.Recipient)
	assert.Equal(t, uint64(20), p.Fee)
	assert.Equal(t, uint64(980), p.Payout)
	assert.False(t, p.Draw)
}

func TestNewPlan_DrawRoutesToTreasury(t *testing.T) {
	p, err := NewPlan(finished(game.SideNone, 1000), 200, "treasury")
	require.NoError(t, err)
	assert.True(t, p.Draw)
	assert.Equal(t, "treasury", p.Recipient)
	assert.Equal(t, uint64(1000), p.Payout+p.Fee)
}

func TestNewPlan_FeeFloorsAndDoesNotOverflow(t *testing.T) {
	p, err := NewPlan(finished(game.Side1, 199), 50, "treasury")
	require.NoError(t, err)
	assert.Zero(t, p.Fee)
	assert.Equal(t, uint64(199), p.Payout)

	p, err = NewPlan(finished(game.Side1, ^uint64(0)), 10000, "treasury")
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), p.Fee)
	assert.Zero(t, p.Payout)
}

func TestNewPlan_Rejections(t *testing.T) {
	active := (&game.Battle{State: game.BattleActive}).OutcomeV1()
	_, err := NewPlan(active, 200, "treasury")
	assert.ErrorIs(t, err, ErrNotFinished)

	_, err = NewPlan(finished(game.Side1, 10), 10001, "treasury")
	assert.ErrorIs(t, err, ErrInvalidFee)

	_, err = NewPlan(finished(game.Side1, 10), 200, "")
	assert.ErrorIs(t, err, ErrNoTreasury)
}

func TestLogSettler_IssuesReceipt(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	defer logging.SetOutput(os.Stdout)

	p, err := NewPlan(finished(game.Side1, 100), 0, "treasury")
	require.NoError(t, err)
	receipt, err := LogSettler{}.Settle(context.Background(), p)
	require.NoError(t, err)
	_, err = uuid.Parse(receipt)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), receipt)

	rec := p.Record(receipt)
	assert.Equal(t, uint(4), rec.BattleID)
	assert.Equal(t, "alice", rec.Recipient)
	assert.Equal(t, uint64(100), rec.Payout)
}
