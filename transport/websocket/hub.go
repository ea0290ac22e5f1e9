package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arcadelab/arena-relay/relay"
)

// probeInterval is how often the liveness sweeper runs. A peer gets one full
// interval to answer a ping before it is dropped.
const probeInterval = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// inboundFrame pairs a raw wire frame with the connection it arrived on.
type inboundFrame struct {
	client *Client
	data   []byte
}

// Stats is a point-in-time view of the hub for the status endpoint.
type Stats struct {
	Connections int `json:"connections"`
	Players     int `json:"players"`
}

// Hub owns the session registry and the world state store. Registrations,
// unregistrations, inbound frames, pong reports, stat queries and sweeper
// ticks are all cases of the Run loop's select, so registry and world see a
// total order of mutations and never need a lock. Each event is handled to
// completion, including every send it triggers, before the next is taken.
type Hub struct {
	world *relay.World

	// Registry: live connections and their session ids, both directions.
	clients map[*Client]string
	byID    map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundFrame
	pong       chan *Client
	stats      chan chan Stats

	probeInterval time.Duration
}

// NewHub creates a hub that owns the given world.
func NewHub(world *relay.World) *Hub {
	return &Hub{
		world:         world,
		clients:       make(map[*Client]string),
		byID:          make(map[string]*Client),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		inbound:       make(chan inboundFrame, 256),
		pong:          make(chan *Client, 32),
		stats:         make(chan chan Stats),
		probeInterval: probeInterval,
	}
}

// Run processes hub events until ctx is cancelled, then force-closes every
// live connection and returns. It is the only goroutine allowed to touch
// the registry or the world.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case frame := <-h.inbound:
			h.route(frame.client, frame.data)

		case client := <-h.pong:
			if _, ok := h.clients[client]; ok {
				client.alive = true
			}

		case reply := <-h.stats:
			reply <- Stats{Connections: len(h.clients), Players: h.world.PlayerCount()}

		case <-ticker.C:
			h.sweep()
		}
	}
}

// ServeWS upgrades an HTTP request and hands the connection to the hub.
// By the time the read pump starts, registration has already been taken by
// the run loop, so hello and snapshot always precede any routed frame.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		ping: make(chan struct{}, 1),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// Stats answers over the run loop; it must not be called after Run returns.
func (h *Hub) Stats() Stats {
	reply := make(chan Stats, 1)
	h.stats <- reply
	return <-reply
}

// registerClient assigns a fresh session id and bootstraps the connection
// with hello followed by a full world snapshot.
func (h *Hub) registerClient(client *Client) {
	id := relay.NewSessionID()
	h.clients[client] = id
	h.byID[id] = client
	client.alive = true

	h.send(client, relay.ServerFrame{T: relay.TypeHello, ID: id})
	h.send(client, relay.ServerFrame{T: relay.TypeSnapshot, P: h.world.Snapshot()})
	log.Printf("session %s connected (%d online)", id, len(h.clients))
}

// unregisterClient purges the registry and world records for a connection,
// then tells the remaining peers. The purge completes before the remove
// broadcast so no observer can see a half-removed session. Connections that
// were already unregistered are a no-op.
func (h *Hub) unregisterClient(client *Client) {
	id, ok := h.clients[client]
	if !ok {
		return
	}
	delete(h.clients, client)
	delete(h.byID, id)
	h.world.Remove(id)
	close(client.send)

	h.broadcast(relay.ServerFrame{T: relay.TypeRemove, ID: id}, "")
	log.Printf("session %s disconnected (%d online)", id, len(h.clients))
}

// route validates one inbound frame and dispatches on its declared type.
// Malformed frames, frames with a missing precondition, and frames from
// connections no longer registered are dropped without a reply. Types not
// listed here are ignored on purpose.
func (h *Hub) route(client *Client, raw []byte) {
	id, ok := h.clients[client]
	if !ok {
		return
	}

	var frame relay.Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return
	}

	switch frame.T {
	case relay.TypeJoin:
		var p relay.JoinPayload
		if !decodePayload(frame.P, &p) {
			return
		}
		player := h.world.Join(id, p.X.Value, p.Z.Value, p.Name)
		h.broadcast(relay.ServerFrame{T: relay.TypeAdd, ID: id, P: player}, id)
		h.send(client, relay.ServerFrame{T: relay.TypeName, ID: id, P: relay.NamePayload{Name: player.Name}})

	case relay.TypeState:
		var p relay.StatePayload
		if !decodePayload(frame.P, &p) {
			return
		}
		player, ok := h.world.UpdateState(id, p.X, p.Z)
		if !ok {
			// Position report before join.
			return
		}
		h.broadcast(relay.ServerFrame{T: relay.TypeState, ID: id, P: relay.Position{X: player.X, Z: player.Z}}, id)

	case relay.TypeName:
		var p relay.NamePayload
		if !decodePayload(frame.P, &p) {
			return
		}
		name := h.world.Rename(id, p.Name)
		h.broadcast(relay.ServerFrame{T: relay.TypeName, ID: id, P: relay.NamePayload{Name: name}}, "")

	case relay.TypePickup, relay.TypeShoot, relay.TypeLand:
		// Pure relays: the server stores nothing for pickups, it only tells
		// the sender's peers which index the event concerns.
		if frame.ID2 == nil {
			return
		}
		out := relay.ServerFrame{T: frame.T, ID: id, ID2: frame.ID2}
		if len(frame.P) > 0 {
			out.P = frame.P
		}
		h.broadcast(out, id)

	case relay.TypeScore:
		var p relay.ScorePayload
		if !decodePayload(frame.P, &p) {
			return
		}
		target := h.world.ResolveScoreTarget(p.ID, id)
		h.world.BumpScore(target, 1)
		h.broadcast(relay.ServerFrame{T: relay.TypeScore, ID: target, P: relay.NamePayload{Name: h.world.PlayerName(target)}}, "")

	case relay.TypeReset:
		h.world.ResetAll()
		h.broadcast(relay.ServerFrame{T: relay.TypeReset}, "")
	}
}

// decodePayload unmarshals an optional payload object. A missing payload is
// treated as empty; one that fails to parse as the expected container marks
// the whole frame malformed.
func decodePayload(raw json.RawMessage, v any) bool {
	if len(raw) == 0 {
		return true
	}
	return json.Unmarshal(raw, v) == nil
}

// broadcast serializes the frame once and queues the identical bytes on
// every registered connection except excludeID (none when empty). Delivery
// is fire-and-forget: one bad peer never aborts the rest.
func (h *Hub) broadcast(frame relay.ServerFrame, excludeID string) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("marshal %s frame: %v", frame.T, err)
		return
	}
	for client, id := range h.clients {
		if excludeID != "" && id == excludeID {
			continue
		}
		h.queue(client, data)
	}
}

// send serializes and queues a frame on a single connection.
func (h *Hub) send(client *Client, frame relay.ServerFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("marshal %s frame: %v", frame.T, err)
		return
	}
	h.queue(client, data)
}

// queue hands bytes to the client's write pump. A peer whose buffer is full
// cannot keep up; closing its socket routes it through the normal
// unregister path instead of stalling the loop.
func (h *Hub) queue(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		client.conn.Close()
	}
}

// sweep drops every connection that failed to answer the previous probe and
// schedules the next round of pings for the rest. Dropped peers go through
// the same cleanup as a voluntary close, remove broadcast included.
func (h *Hub) sweep() {
	for client, id := range h.clients {
		if !client.alive {
			log.Printf("session %s failed liveness probe, dropping", id)
			client.conn.Close()
			h.unregisterClient(client)
			continue
		}
		client.alive = false
		select {
		case client.ping <- struct{}{}:
		default:
		}
	}
}

// shutdown force-closes all live connections so Run can return.
func (h *Hub) shutdown() {
	for client := range h.clients {
		close(client.send)
		client.conn.Close()
	}
	h.clients = make(map[*Client]string)
	h.byID = make(map[string]*Client)
}
