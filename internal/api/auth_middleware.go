package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/uzochukwuV/massabeam/internal/constants"
)

// tokenQueryParam lets websocket clients, which cannot set headers from a
// browser, pass the session token.
const tokenQueryParam = "token"

func bearerToken(c *gin.Context) string {
	h := c.GetHeader(constants.HeaderAuthorization)
	if strings.HasPrefix(h, constants.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, constants.BearerPrefix))
	}
	return c.Query(tokenQueryParam)
}

// AuthRequired validates the bearer token and injects the caller identity
// into the context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		claims, err := parseAndValidateSession(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set(constants.ContextIdentity, claims.Subject)
		c.Next()
	}
}

func identity(c *gin.Context) string {
	return c.GetString(constants.ContextIdentity)
}
