package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/events"
	"github.com/uzochukwuV/massabeam/internal/service"
)

// Handler groups all battle HTTP handlers.
type Handler struct {
	svc     *service.Service
	hub     *events.Hub
	devAuth bool
}

// NewHandler creates a handler. hub may be nil, in which case streams
// only carry the initial snapshot.
func NewHandler(svc *service.Service, hub *events.Hub, devAuth bool) *Handler {
	return &Handler{svc: svc, hub: hub, devAuth: devAuth}
}

// Register mounts every route under /api.
func (h *Handler) Register(router *gin.Engine) {
	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteHealth, Health)
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.GET(constants.RouteOutcomeV1, h.GetOutcome)
		apiRoutes.GET(constants.RouteBattleByID, h.GetBattle)
		apiRoutes.GET(constants.RouteBattleStream, h.StreamBattle)
		apiRoutes.GET(constants.RoutePoolByID, h.GetPool)
		apiRoutes.GET(constants.RouteCharacterByID, h.GetCharacter)
		apiRoutes.GET(constants.RouteLeaderboard, h.Leaderboard)
		if h.devAuth {
			apiRoutes.POST(constants.RouteDevToken, h.DevToken)
		}

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(AuthRequired())

		protected.POST(constants.RoutePools, h.CreatePool)
		protected.POST(constants.RoutePoolRefill, h.RefillPool)
		protected.GET(constants.RouteCharacters, h.ListCharacters)
		protected.POST(constants.RouteCharacters, h.CreateCharacter)
		protected.POST(constants.RouteCharacterTraits, h.ApplyTraits)
		protected.POST(constants.RouteBattles, h.CreateBattle)
		protected.POST(constants.RouteBattleJoin, h.JoinBattle)
		protected.POST(constants.RouteBattleTurn, h.SubmitTurn)
		protected.POST(constants.RouteBattleForfeit, h.Forfeit)
		protected.POST(constants.RouteBattleFinalize, h.Finalize)
	}
}

// NewRouter builds a gin engine with the handler's routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	h.Register(router)
	return router
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
}
