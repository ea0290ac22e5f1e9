// Package relay holds the transport-free core of the arena relay server:
// session identity generation, the in-memory world state store, and the wire
// frame types shared by the server and its clients.
//
// The relay server is a synchronization hub, not a game engine. Clients
// simulate their own physics and tell their peers what happened; the server
// keeps canonical values only for the things a late joiner must be able to
// bootstrap from a snapshot: identity, position, display name, and score.
//
// Core Types:
//
// World is the store of player records and the score ledger, keyed by
// session id. Frame and ServerFrame are the inbound and outbound halves of
// the wire envelope {t, p, id, id2}.
//
// Concurrency:
//
// Nothing in this package locks. World has a single owner, the websocket
// hub's run loop, which serializes every mutation. Constructing a second
// World gives a fully isolated instance, which is how the tests run many
// worlds side by side.
package relay
