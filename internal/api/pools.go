package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/oracle"
)

type CreatePoolPayload struct {
	Oracle string `json:"oracle"`
}

// CreatePool creates an empty entropy pool administered by the caller.
func (h *Handler) CreatePool(c *gin.Context) {
	var req CreatePoolPayload
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
	}
	p, err := h.svc.CreatePool(c.Request.Context(), identity(c), req.Oracle)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, p)
}

// RefillPool appends a hex encoded seed batch to a pool.
func (h *Handler) RefillPool(c *gin.Context) {
	poolID, ok := parseID(c, "poolID", constants.ErrInvalidPoolID)
	if !ok {
		return
	}
	var req oracle.RefillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	seed, err := oracle.ParseSeed(req.Seed)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidSeed})
		return
	}
	p, err := h.svc.RefillPool(c.Request.Context(), identity(c), poolID, seed, req.StartIndex, req.Count)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

func (h *Handler) GetPool(c *gin.Context) {
	poolID, ok := parseID(c, "poolID", constants.ErrInvalidPoolID)
	if !ok {
		return
	}
	p, err := h.svc.GetPool(poolID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}
