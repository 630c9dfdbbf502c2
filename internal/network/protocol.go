package network

import (
	"encoding/json"

	"github.com/gravitas-games/hexext/hex"
)

// Message types - Client → Server
const (
	MsgTypePath    = "path"
	MsgTypeRegion  = "region"
	MsgTypeFOV     = "fov"
	MsgTypeRange   = "range"
	MsgTypeMapInfo = "map_info"
	MsgTypePing    = "ping"
)

// Message types - Server → Client
const (
	MsgTypeWelcome      = "welcome"
	MsgTypePathResult   = "path_result"
	MsgTypeRegionResult = "region_result"
	MsgTypeMapInfoReply = "map_info"
	MsgTypeError        = "error"
	MsgTypePong         = "pong"
)

// Error codes carried in ErrorPayload
const (
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeUnknownType    = "unknown_message_type"
	ErrCodeNoPath         = "no_path"
	ErrCodeRadiusTooLarge = "radius_too_large"
	ErrCodeSearchLimit    = "search_limit"
	ErrCodeInternal       = "internal"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	ID      string          `json:"id,omitempty"` // echoed back in the reply
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	ID      string      `json:"id,omitempty"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Client Message Payloads ---

// PathRequest asks for the cheapest path between two cells
type PathRequest struct {
	Start hex.Axial `json:"start"`
	Goal  hex.Axial `json:"goal"`
}

// RegionRequest asks for the cells reachable (or visible, for fov) from an
// origin. For range queries Radius is the movement-cost budget.
type RegionRequest struct {
	Origin hex.Axial `json:"origin"`
	Radius int       `json:"radius"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent to client after successful connection
type WelcomePayload struct {
	SessionID string         `json:"session_id"`
	Subject   string         `json:"subject,omitempty"`
	Map       MapInfoPayload `json:"map"`
}

// MapInfoPayload describes the map queries run against
type MapInfoPayload struct {
	ID     string `json:"id"`
	Radius int    `json:"radius"`
	Seed   int64  `json:"seed"`
	Hexes  int    `json:"hexes"`
}

// PathResultPayload carries a found path and its total cost
type PathResultPayload struct {
	Path     []hex.Axial `json:"path"`
	Cost     int         `json:"cost"`
	Expanded int         `json:"expanded"`
	Cached   bool        `json:"cached"`
}

// RegionResultPayload carries region cells in canonical (r, q) order
type RegionResultPayload struct {
	Kind   string      `json:"kind"`
	Origin hex.Axial   `json:"origin"`
	Radius int         `json:"radius"`
	Cells  []hex.Axial `json:"cells"`
	Cached bool        `json:"cached"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
