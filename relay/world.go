package relay

const (
	// DefaultName stands in when a client supplies no display name.
	DefaultName = "Player"

	// MaxNameLength bounds display names in the store and on the wire.
	MaxNameLength = 20
)

// Player is the canonical record for a session that has joined the world.
type Player struct {
	X    float64 `json:"x"`
	Z    float64 `json:"z"`
	Name string  `json:"name"`
}

// ScoreView is a score ledger row as exposed to clients, annotated with the
// player's current display name.
type ScoreView struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// SnapshotPayload is the full world state sent once to every new connection.
type SnapshotPayload struct {
	Players map[string]Player    `json:"players"`
	Scores  map[string]ScoreView `json:"scores"`
}

// World stores everything the relay holds canonically: player positions,
// display names, and the score ledger, all keyed by session id. It is not
// safe for concurrent use; the hub run loop is its single owner.
type World struct {
	players map[string]*Player
	scores  map[string]int
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{
		players: make(map[string]*Player),
		scores:  make(map[string]int),
	}
}

// ClampName normalizes a display name: empty names become DefaultName and
// anything longer than MaxNameLength runes is truncated.
func ClampName(name string) string {
	if name == "" {
		return DefaultName
	}
	if r := []rune(name); len(r) > MaxNameLength {
		return string(r[:MaxNameLength])
	}
	return name
}

// Join upserts the player record for id and makes sure a score entry exists.
// The stored record is returned for relaying.
func (w *World) Join(id string, x, z float64, name string) Player {
	p := &Player{X: x, Z: z, Name: ClampName(name)}
	w.players[id] = p
	if _, ok := w.scores[id]; !ok {
		w.scores[id] = 0
	}
	return *p
}

// UpdateState applies a position report. An unset field keeps the prior
// coordinate. Reports from sessions that never joined are dropped; the
// second return is false in that case.
func (w *World) UpdateState(id string, x, z Coord) (Player, bool) {
	p, ok := w.players[id]
	if !ok {
		return Player{}, false
	}
	if x.Set {
		p.X = x.Value
	}
	if z.Set {
		p.Z = z.Value
	}
	return *p, true
}

// Rename clamps and stores the new display name. The clamped name is
// returned even when the session has no player record yet, so the caller
// can still relay it.
func (w *World) Rename(id, name string) string {
	clamped := ClampName(name)
	if p, ok := w.players[id]; ok {
		p.Name = clamped
	}
	return clamped
}

// ResolveScoreTarget picks the session a score event credits: the requested
// id when it names a joined player, otherwise the sender itself.
func (w *World) ResolveScoreTarget(requested, sender string) string {
	if requested != "" {
		if _, ok := w.players[requested]; ok {
			return requested
		}
	}
	return sender
}

// BumpScore increments the target's counter by delta (1 when delta is zero),
// creating the entry at delta if absent. The new total is returned.
func (w *World) BumpScore(id string, delta int) int {
	if delta == 0 {
		delta = 1
	}
	w.scores[id] += delta
	return w.scores[id]
}

// ResetAll rebuilds the ledger with a zero entry for every joined player.
// Score rows not backed by a live player are dropped, not zeroed; joined
// players always come out at exactly 0.
func (w *World) ResetAll() {
	w.scores = make(map[string]int, len(w.players))
	for id := range w.players {
		w.scores[id] = 0
	}
}

// Remove deletes the player record and score entry for a disconnecting
// session. Unknown ids are a no-op.
func (w *World) Remove(id string) {
	delete(w.players, id)
	delete(w.scores, id)
}

// PlayerName returns the display name for id, or DefaultName when the
// session has no player record.
func (w *World) PlayerName(id string) string {
	if p, ok := w.players[id]; ok {
		return p.Name
	}
	return DefaultName
}

// HasPlayer reports whether the session has joined the world.
func (w *World) HasPlayer(id string) bool {
	_, ok := w.players[id]
	return ok
}

// PlayerCount returns the number of joined players.
func (w *World) PlayerCount() int {
	return len(w.players)
}

// Snapshot copies the full world state for bootstrapping a new connection.
// Maps are always non-nil so empty worlds serialize as {} rather than null.
func (w *World) Snapshot() SnapshotPayload {
	snap := SnapshotPayload{
		Players: make(map[string]Player, len(w.players)),
		Scores:  make(map[string]ScoreView, len(w.scores)),
	}
	for id, p := range w.players {
		snap.Players[id] = *p
	}
	for id, score := range w.scores {
		snap.Scores[id] = ScoreView{Name: w.PlayerName(id), Score: score}
	}
	return snap
}
