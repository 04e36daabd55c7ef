package constants

// Centralized constants for headers, env keys and routes.
const (
	// Environment variable keys
	EnvConfigPath    = "BATTLECHAIN_CONFIG"
	EnvSessionSecret = "SESSION_SECRET"

	DefaultConfigPath = "./battlechain_config.json"
	DefaultDBPath     = "./data/battlechain.db"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	ContentTypeJSON     = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Context keys set by the auth middleware
	ContextIdentity = "identity"
)

// Routes used by the backend router
const (
	RouteAPIPrefix       = "/api"
	RouteHealth          = "/health"
	RouteVersion         = "/version"
	RouteDevToken        = "/auth/dev-token"
	RoutePools           = "/pools"
	RoutePoolByID        = "/pools/:poolID"
	RoutePoolRefill      = "/pools/:poolID/refill"
	RouteCharacters      = "/characters"
	RouteCharacterByID   = "/characters/:characterID"
	RouteCharacterTraits = "/characters/:characterID/traits"
	RouteBattles         = "/battles"
	RouteBattleByID      = "/battles/:battleID"
	RouteBattleJoin      = "/battles/:battleID/join"
	RouteBattleTurn      = "/battles/:battleID/turn"
	RouteBattleForfeit   = "/battles/:battleID/forfeit"
	RouteBattleFinalize  = "/battles/:battleID/finalize"
	RouteBattleStream    = "/battles/:battleID/stream"
	RouteOutcomeV1       = "/v1/battles/:battleID/outcome"
	RouteLeaderboard     = "/leaderboard"
)

// Common JSON response keys
const (
	JSONKeyError     = "error"
	JSONKeyMessage   = "message"
	JSONKeyRetryable = "retryable"
	JSONKeyStatus    = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest     = "Invalid request"
	ErrInvalidBattleID    = "Invalid battle ID"
	ErrInvalidPoolID      = "Invalid pool ID"
	ErrInvalidCharacterID = "Invalid character ID"
	ErrBattleNotFound     = "Battle not found"
	ErrPoolNotFound       = "Pool not found"
	ErrCharacterNotFound  = "Character not found"
	ErrInvalidSeed        = "seed must be 64 hex characters"
	ErrInternal           = "Internal error"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldBattleID    = "battle_id"
	LogFieldPoolID      = "pool_id"
	LogFieldCharacterID = "character_id"
	LogFieldIdentity    = "identity"
	LogFieldTurn        = "turn_number"
	LogFieldIndex       = "entropy_index"
	LogFieldWinner      = "winner"
	LogFieldAddr        = "addr"
	LogFieldEvent       = "event"
)
