package websocket

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message or control frame to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Per-connection outbound buffer; a peer this far behind is dropped.
	sendBufferSize = 256
)

// Client is one websocket connection tracked by the hub.
//
// The alive flag backs the liveness sweeper and is owned by the hub run
// loop; pongs reach the loop through the hub's pong channel rather than
// being recorded here, so the flag has exactly one writer.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	ping  chan struct{}
	alive bool
}

// readPump forwards inbound frames to the hub until the connection dies,
// then triggers unregistration. Pongs are reported to the hub loop.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.hub.pong <- c
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			break
		}
		c.hub.inbound <- inboundFrame{client: c, data: message}
	}
}

// writePump is the sole writer on the connection. It drains the send buffer
// and emits the pings the sweeper schedules.
func (c *Client) writePump() {
	defer c.conn.Close()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.ping:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
