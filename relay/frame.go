package relay

import (
	"encoding/json"
	"strconv"
)

// Message types carried in the "t" field of every frame.
//
// hello, snapshot, add and remove originate only on the server. The rest are
// client events the server relays; join, state, name, score and reset also
// mutate the world store, while pickup, shoot and land are pure relays
// because the server holds no pickup state.
const (
	TypeHello    = "hello"
	TypeSnapshot = "snapshot"
	TypeJoin     = "join"
	TypeState    = "state"
	TypeName     = "name"
	TypePickup   = "pickup"
	TypeShoot    = "shoot"
	TypeLand     = "land"
	TypeScore    = "score"
	TypeReset    = "reset"
	TypeAdd      = "add"
	TypeRemove   = "remove"
)

// Frame is an inbound wire envelope. The payload stays raw until the router
// knows which shape the declared type expects; a frame whose payload does
// not parse as that shape is dropped whole.
type Frame struct {
	T   string          `json:"t"`
	ID  string          `json:"id,omitempty"`
	ID2 *int            `json:"id2,omitempty"`
	P   json.RawMessage `json:"p,omitempty"`
}

// ServerFrame is an outbound wire envelope. ID names the subject session and
// ID2 carries a secondary integer such as a pickup index.
type ServerFrame struct {
	T   string `json:"t"`
	ID  string `json:"id,omitempty"`
	ID2 *int   `json:"id2,omitempty"`
	P   any    `json:"p,omitempty"`
}

// Coord is a world-plane coordinate field that tolerates junk. Absent, null
// or non-numeric values leave Set false instead of failing the surrounding
// payload, so a bad coordinate never zeroes a player's position and never
// discards the rest of the message. Numeric strings are accepted.
type Coord struct {
	Value float64
	Set   bool
}

// UnmarshalJSON never reports an error; tolerance is the point.
func (c *Coord) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		c.Value, c.Set = f, true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			c.Value, c.Set = f, true
		}
	}
	return nil
}

// JoinPayload announces a client entering the world.
type JoinPayload struct {
	X    Coord  `json:"x"`
	Z    Coord  `json:"z"`
	Name string `json:"name"`
}

// StatePayload is a position report. Either coordinate may be missing.
type StatePayload struct {
	X Coord `json:"x"`
	Z Coord `json:"z"`
}

// NamePayload carries a display name, both inbound (rename requests) and
// outbound (name echoes and score attributions).
type NamePayload struct {
	Name string `json:"name"`
}

// ScorePayload optionally names the session to credit. When ID is empty or
// unknown the sender scores for itself.
type ScorePayload struct {
	ID string `json:"id"`
}

// Position is the outbound payload of a state broadcast: the stored
// coordinates after the report was applied.
type Position struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}
