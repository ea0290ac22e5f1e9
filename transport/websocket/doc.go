// Package websocket is the transport layer of the arena relay: it accepts
// browser connections, assigns each a session identity, and fans state
// deltas out to everyone else.
//
// Architecture:
//
// The package uses a hub-and-spoke model. A central Hub owns the session
// registry and the relay.World store; each connection gets a read pump and
// a write pump goroutine. Pumps never touch shared state directly; they
// feed events into the Hub's channels, and the single Run loop applies them
// one at a time. That loop is the only place registry or world mutations
// happen, which is why neither carries a lock.
//
// Connection Lifecycle:
//
//  1. Client connects to /ws and is upgraded
//  2. Hub assigns a session id, sends hello then a full snapshot
//  3. Inbound frames are routed by type (join, state, name, pickup, shoot,
//     land, score, reset); unknown types are ignored
//  4. Disconnect, voluntary or via the liveness sweeper, purges the
//     session and broadcasts remove
//
// Liveness:
//
// A sweeper tick on the run loop clears each connection's answered flag and
// schedules a ping; a connection still unanswered at the next tick is
// force-closed. Pong handlers report back over a channel so the flag stays
// single-writer.
package websocket
