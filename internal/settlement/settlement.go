// Package settlement turns a finished battle outcome into a payout plan and
// hands it to whatever moves the stake. The battle core never transfers
// value itself.
package settlement

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/game"
	"github.com/uzochukwuV/massabeam/internal/logging"
)

const maxFeeBps = 10000

var (
	ErrNotFinished = errors.New("battle not finished")
	ErrInvalidFee  = errors.New("fee bps out of range")
	ErrNoTreasury  = errors.New("treasury identity required")
)

// Plan is how the stake of one battle is split. On a draw the payout goes
// to the treasury along with the fee.
type Plan struct {
	BattleID   uint   `json:"battle_id"`
	StakeTotal uint64 `json:"stake_total"`
	Recipient  string `json:"recipient"`
	Payout     uint64 `json:"payout"`
	Fee        uint64 `json:"fee"`
	Treasury   string `json:"treasury"`
	Draw       bool   `json:"draw"`
}

// NewPlan computes fee = stake * feeBps / 10000 (floored) and routes the
// rest to the winner, or to the treasury when there is none.
func NewPlan(o game.OutcomeV1, feeBps uint16, treasury string) (Plan, error) {
	if !o.Finished {
		return Plan{}, ErrNotFinished
	}
	if feeBps > maxFeeBps {
		return Plan{}, ErrInvalidFee
	}
	if treasury == "" {
		return Plan{}, ErrNoTreasury
	}
	fee := new(uint256.Int).Mul(uint256.NewInt(o.StakeTotal), uint256.NewInt(uint64(feeBps)))
	fee.Div(fee, uint256.NewInt(maxFeeBps))

	p := Plan{
		BattleID:   o.BattleID,
		StakeTotal: o.StakeTotal,
		Fee:        fee.Uint64(),
		Treasury:   treasury,
		Draw:       o.Draw,
	}
	p.Payout = o.StakeTotal - p.Fee
	p.Recipient = o.Winner
	if o.Draw || o.Winner == "" {
		p.Recipient = treasury
		p.Draw = true
	}
	return p, nil
}

// Record converts an executed plan into its persisted settlement row.
func (p Plan) Record(receipt string) *game.Settlement {
	return &game.Settlement{
		BattleID:  p.BattleID,
		Receipt:   receipt,
		Recipient: p.Recipient,
		Payout:    p.Payout,
		Fee:       p.Fee,
		Treasury:  p.Treasury,
		Draw:      p.Draw,
	}
}

// Settler executes a plan and returns a receipt identifying the transfer.
type Settler interface {
	Settle(ctx context.Context, p Plan) (string, error)
}

// LogSettler records plans in the log and issues random receipts. It is
// the default when no external payment rail is wired.
type LogSettler struct{}

func (LogSettler) Settle(_ context.Context, p Plan) (string, error) {
	receipt := uuid.NewString()
	logging.Info("battle settled", logging.Fields{
		constants.LogFieldBattleID: p.BattleID,
		constants.LogFieldWinner:   p.Recipient,
		"payout":                   p.Payout,
		"fee":                      p.Fee,
		"draw":                     p.Draw,
		"receipt":                  receipt,
	})
	return receipt, nil
}
