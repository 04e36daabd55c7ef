package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/game"
)

const defaultLeaderboardSize = 10

type CreateCharacterPayload struct {
	Class game.Class `json:"class" binding:"required"`
}

// CreateCharacter mints a character owned by the caller.
func (h *Handler) CreateCharacter(c *gin.Context) {
	var req CreateCharacterPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	ch, err := h.svc.CreateCharacter(c.Request.Context(), identity(c), req.Class)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, ch)
}

// ApplyTraits applies a trait bundle; only the trait authority may call it.
func (h *Handler) ApplyTraits(c *gin.Context) {
	characterID, ok := parseID(c, "characterID", constants.ErrInvalidCharacterID)
	if !ok {
		return
	}
	var bundle game.TraitBundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	ch, err := h.svc.ApplyTraitBundle(c.Request.Context(), identity(c), characterID, bundle)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, ch)
}

func (h *Handler) GetCharacter(c *gin.Context) {
	characterID, ok := parseID(c, "characterID", constants.ErrInvalidCharacterID)
	if !ok {
		return
	}
	ch, err := h.svc.GetCharacter(characterID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, ch)
}

// ListCharacters lists the characters of ?owner=, defaulting to the caller.
func (h *Handler) ListCharacters(c *gin.Context) {
	owner := c.Query("owner")
	if owner == "" {
		owner = identity(c)
	}
	list, err := h.svc.ListCharacters(owner)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"characters": list})
}

// Leaderboard returns the top progressions, ?limit= capped at 100.
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := defaultLeaderboardSize
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
		limit = n
	}
	if limit > 100 {
		limit = 100
	}
	top, err := h.svc.Leaderboard(limit)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"leaderboard": top})
}
