package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/game"
	"github.com/uzochukwuV/massabeam/internal/service"
)

type CreateBattlePayload struct {
	PoolID                   uint         `json:"pool_id" binding:"required"`
	CharacterID              uint         `json:"character_id" binding:"required"`
	StakeTotal               uint64       `json:"stake_total"`
	MinLevel                 uint32       `json:"min_level"`
	MaxLevel                 uint32       `json:"max_level"`
	AllowedClasses           []game.Class `json:"allowed_classes"`
	InactivityTimeoutSeconds int64        `json:"inactivity_timeout_seconds"`
}

// CreateBattle offers a battle with the caller's character. It starts once
// a challenger joins.
func (h *Handler) CreateBattle(c *gin.Context) {
	var req CreateBattlePayload
	if err := c.ShouldBindJSON(&req); err != nil || req.InactivityTimeoutSeconds < 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	b, err := h.svc.CreateBattle(c.Request.Context(), identity(c), service.CreateBattleRequest{
		PoolID:      req.PoolID,
		CharacterID: req.CharacterID,
		Terms: game.Terms{
			StakeTotal:        req.StakeTotal,
			MinLevel:          req.MinLevel,
			MaxLevel:          req.MaxLevel,
			AllowedClasses:    req.AllowedClasses,
			InactivityTimeout: time.Duration(req.InactivityTimeoutSeconds) * time.Second,
		},
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, b)
}

type JoinBattlePayload struct {
	CharacterID uint   `json:"character_id" binding:"required"`
	Stake       uint64 `json:"stake"`
}

// JoinBattle accepts a waiting battle with the caller's character.
func (h *Handler) JoinBattle(c *gin.Context) {
	battleID, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	var req JoinBattlePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	b, err := h.svc.JoinBattle(c.Request.Context(), identity(c), battleID, service.JoinBattleRequest{
		CharacterID: req.CharacterID,
		Stake:       req.Stake,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, b)
}

type SubmitTurnPayload struct {
	Stance     game.Stance `json:"stance"`
	UseSpecial bool        `json:"use_special"`
}

// SubmitTurn resolves the caller's attack. An empty stance means balanced.
func (h *Handler) SubmitTurn(c *gin.Context) {
	battleID, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	var req SubmitTurnPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.Stance == "" {
		req.Stance = game.StanceBalanced
	}
	b, res, err := h.svc.SubmitTurn(c.Request.Context(), identity(c), battleID, service.TurnRequest{
		Stance:     req.Stance,
		UseSpecial: req.UseSpecial,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"battle": b, "result": res})
}

// Forfeit ends a battle whose idle side ran out of time. Any caller may
// trigger it.
func (h *Handler) Forfeit(c *gin.Context) {
	battleID, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	b, err := h.svc.ForfeitByTimeout(c.Request.Context(), identity(c), battleID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, b)
}

// Finalize settles a finished battle and returns its settlement record.
func (h *Handler) Finalize(c *gin.Context) {
	battleID, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	rec, err := h.svc.Finalize(c.Request.Context(), battleID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, rec)
}

func (h *Handler) GetBattle(c *gin.Context) {
	battleID, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	b, err := h.svc.GetBattle(battleID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, b)
}

// GetOutcome serves the versioned read-only outcome external markets and
// settlement consume.
func (h *Handler) GetOutcome(c *gin.Context) {
	battleID, ok := parseID(c, "battleID", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	o, err := h.svc.Outcome(battleID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
