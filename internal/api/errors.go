package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/engine"
	"github.com/uzochukwuV/massabeam/internal/entropy"
	"github.com/uzochukwuV/massabeam/internal/game"
	"github.com/uzochukwuV/massabeam/internal/logging"
	"github.com/uzochukwuV/massabeam/internal/oracle"
	"github.com/uzochukwuV/massabeam/internal/service"
	"github.com/uzochukwuV/massabeam/internal/settlement"
)

type errorClass struct {
	status    int
	retryable bool
}

// errorTable maps sentinels to responses, checked in order.
var errorTable = []struct {
	err   error
	class errorClass
}{
	{service.ErrBattleNotFound, errorClass{http.StatusNotFound, false}},
	{service.ErrPoolNotFound, errorClass{http.StatusNotFound, false}},
	{service.ErrCharacterNotFound, errorClass{http.StatusNotFound, false}},

	{engine.ErrUnauthorized, errorClass{http.StatusForbidden, false}},
	{entropy.ErrUnauthorizedRefill, errorClass{http.StatusForbidden, false}},

	{engine.ErrNotYourTurn, errorClass{http.StatusConflict, false}},
	{engine.ErrInvalidBattleState, errorClass{http.StatusConflict, false}},
	{engine.ErrTimeoutNotReached, errorClass{http.StatusConflict, false}},
	{settlement.ErrNotFinished, errorClass{http.StatusConflict, false}},

	{engine.ErrInvalidStance, errorClass{http.StatusBadRequest, false}},
	{game.ErrUnknownClass, errorClass{http.StatusBadRequest, false}},
	{entropy.ErrInvalidRange, errorClass{http.StatusBadRequest, false}},
	{service.ErrCharacterConstraint, errorClass{http.StatusBadRequest, false}},
	{service.ErrStakeMismatch, errorClass{http.StatusBadRequest, false}},
	{oracle.ErrInvalidSeed, errorClass{http.StatusBadRequest, false}},

	{engine.ErrNoEntropyAvailable, errorClass{http.StatusServiceUnavailable, true}},
	{engine.ErrSpecialOnCooldown, errorClass{http.StatusConflict, true}},
	{entropy.ErrPoolFull, errorClass{http.StatusConflict, true}},

	{entropy.ErrSeedReplay, errorClass{http.StatusUnprocessableEntity, false}},
	{engine.ErrEntropyReplay, errorClass{http.StatusUnprocessableEntity, false}},
	{entropy.ErrCorruptPool, errorClass{http.StatusUnprocessableEntity, false}},
	{engine.ErrMathOverflow, errorClass{http.StatusUnprocessableEntity, false}},
}

func classify(err error) (errorClass, bool) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.class, true
		}
	}
	return errorClass{status: http.StatusInternalServerError}, false
}

// writeError maps a service error to its status. Unknown errors are logged
// and reported as internal.
func writeError(c *gin.Context, err error) {
	class, known := classify(err)
	if !known {
		logging.Error("request failed", err, logging.Fields{"path": c.FullPath()})
		c.JSON(class.status, gin.H{constants.JSONKeyError: constants.ErrInternal})
		return
	}
	c.JSON(class.status, gin.H{
		constants.JSONKeyError:     err.Error(),
		constants.JSONKeyRetryable: class.retryable,
	})
}
