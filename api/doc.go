// Package api provides the HTTP server for the arena relay.
//
// The api package implements:
//   - WebSocket endpoint at /ws (upgrade handled by the transport hub)
//   - Health probe at /healthz answering GET and HEAD with 200
//   - Status endpoint at /api/status with connection and player counts
//   - Static file serving for the browser client at /
//
// The health probe exists for external process supervisors and keepalive
// pingers; it performs no work and mutates nothing. Everything shares the
// relay's single listening port.
package api
