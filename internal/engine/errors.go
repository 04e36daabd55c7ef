package engine

import (
	"errors"

	"github.com/uzochukwuV/massabeam/internal/entropy"
	"github.com/uzochukwuV/massabeam/internal/game"
)

// Precondition violations abort with no state change.
var (
	ErrInvalidBattleState = game.ErrInvalidBattleState
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrInvalidStance      = errors.New("invalid stance")
	ErrTimeoutNotReached  = errors.New("timeout not reached")
)

// Resource exhaustion is retryable once the external condition changes.
var (
	ErrNoEntropyAvailable = entropy.ErrNoEntropyAvailable
	ErrSpecialOnCooldown  = errors.New("special on cooldown")
)

// Arithmetic and integrity failures are never retried.
var (
	ErrMathOverflow  = entropy.ErrMathOverflow
	ErrEntropyReplay = errors.New("entropy index not strictly increasing")
)

// IsRetryable reports whether err is a resource-exhaustion failure the
// caller may retry after the external condition is remedied.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNoEntropyAvailable) || errors.Is(err, ErrSpecialOnCooldown)
}
