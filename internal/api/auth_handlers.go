package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/logging"
)

const devTokenTTL = 24 * time.Hour

type DevTokenPayload struct {
	Identity string `json:"identity" binding:"required"`
}

// DevToken issues a session token for any identity. It is only routed when
// dev_auth is enabled; production deployments mint tokens out of band.
func (h *Handler) DevToken(c *gin.Context) {
	var req DevTokenPayload
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Identity) == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	token, err := CreateSessionToken(strings.TrimSpace(req.Identity), devTokenTTL)
	if err != nil {
		logging.Error("dev token failed", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_in": int(devTokenTTL.Seconds())})
}
