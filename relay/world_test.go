package relay

import (
	"strings"
	"testing"
)

func TestJoinCreatesPlayerAndScore(t *testing.T) {
	w := NewWorld()

	p := w.Join("a", 1, 2, "Ann")

	if p.X != 1 || p.Z != 2 || p.Name != "Ann" {
		t.Errorf("unexpected player record: %+v", p)
	}
	if !w.HasPlayer("a") {
		t.Error("player not stored")
	}
	snap := w.Snapshot()
	if got := snap.Scores["a"]; got.Score != 0 {
		t.Errorf("expected score 0 after join, got %d", got.Score)
	}
}

func TestJoinDoesNotResetExistingScore(t *testing.T) {
	w := NewWorld()
	w.Join("a", 0, 0, "Ann")
	w.BumpScore("a", 3)

	// Rejoining (e.g. respawn) must not wipe the ledger entry.
	w.Join("a", 5, 5, "Ann")

	if got := w.Snapshot().Scores["a"].Score; got != 3 {
		t.Errorf("expected score 3 preserved across rejoin, got %d", got)
	}
}

func TestClampName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty defaults", "", DefaultName},
		{"short kept", "Ann", "Ann"},
		{"exactly twenty kept", strings.Repeat("x", 20), strings.Repeat("x", 20)},
		{"long truncated", strings.Repeat("x", 25), strings.Repeat("x", 20)},
		{"multibyte counted as runes", strings.Repeat("ä", 25), strings.Repeat("ä", 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampName(tt.in); got != tt.want {
				t.Errorf("ClampName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUpdateStateRequiresJoin(t *testing.T) {
	w := NewWorld()

	if _, ok := w.UpdateState("ghost", Coord{Value: 1, Set: true}, Coord{Value: 2, Set: true}); ok {
		t.Error("state update before join should be dropped")
	}
	if w.HasPlayer("ghost") {
		t.Error("dropped update must not create a player")
	}
}

func TestUpdateStateKeepsPriorCoordinateWhenUnset(t *testing.T) {
	w := NewWorld()
	w.Join("a", 10, 20, "Ann")

	p, ok := w.UpdateState("a", Coord{Value: 11, Set: true}, Coord{})
	if !ok {
		t.Fatal("update dropped unexpectedly")
	}
	if p.X != 11 {
		t.Errorf("x not updated: %v", p.X)
	}
	if p.Z != 20 {
		t.Errorf("unset z must keep prior value, got %v", p.Z)
	}

	// Both unset: position unchanged, never snapped to zero.
	p, _ = w.UpdateState("a", Coord{}, Coord{})
	if p.X != 11 || p.Z != 20 {
		t.Errorf("position drifted on empty update: %+v", p)
	}
}

func TestRenameWithoutPlayerStillReturnsClampedName(t *testing.T) {
	w := NewWorld()

	got := w.Rename("nobody", strings.Repeat("z", 30))
	if got != strings.Repeat("z", 20) {
		t.Errorf("expected clamped name back, got %q", got)
	}
	if w.HasPlayer("nobody") {
		t.Error("rename must not create a player")
	}
}

func TestRenameUpdatesPlayer(t *testing.T) {
	w := NewWorld()
	w.Join("a", 0, 0, "Ann")

	if got := w.Rename("a", ""); got != DefaultName {
		t.Errorf("empty rename should default, got %q", got)
	}
	if w.PlayerName("a") != DefaultName {
		t.Errorf("stored name not updated: %q", w.PlayerName("a"))
	}
}

func TestBumpScoreAccumulates(t *testing.T) {
	w := NewWorld()
	w.Join("a", 0, 0, "Ann")

	for i := 1; i <= 5; i++ {
		if got := w.BumpScore("a", 1); got != i {
			t.Fatalf("after %d bumps expected %d, got %d", i, i, got)
		}
	}
}

func TestBumpScoreCreatesEntryAtDelta(t *testing.T) {
	w := NewWorld()

	if got := w.BumpScore("fresh", 0); got != 1 {
		t.Errorf("zero delta should default to 1, got %d", got)
	}
	if got := w.BumpScore("other", 4); got != 4 {
		t.Errorf("absent entry should be created at delta, got %d", got)
	}
}

func TestResetAllZeroesPlayersAndDropsStaleRows(t *testing.T) {
	w := NewWorld()
	w.Join("a", 0, 0, "Ann")
	w.Join("b", 0, 0, "Bob")
	w.BumpScore("a", 7)
	w.BumpScore("b", 2)
	// A score row with no live player behind it, e.g. left over from a
	// session that never joined but got credited.
	w.BumpScore("stale", 9)

	w.ResetAll()

	snap := w.Snapshot()
	if got := snap.Scores["a"].Score; got != 0 {
		t.Errorf("a: expected 0 after reset, got %d", got)
	}
	if got := snap.Scores["b"].Score; got != 0 {
		t.Errorf("b: expected 0 after reset, got %d", got)
	}
	if _, ok := snap.Scores["stale"]; ok {
		t.Error("stale score row should be dropped, not zeroed")
	}
}

func TestResolveScoreTarget(t *testing.T) {
	w := NewWorld()
	w.Join("b", 0, 0, "Bob")

	if got := w.ResolveScoreTarget("", "a"); got != "a" {
		t.Errorf("absent target should self-score, got %q", got)
	}
	if got := w.ResolveScoreTarget("unknown", "a"); got != "a" {
		t.Errorf("unknown target should self-score, got %q", got)
	}
	if got := w.ResolveScoreTarget("b", "a"); got != "b" {
		t.Errorf("known target should be credited, got %q", got)
	}
}

func TestRemoveDeletesPlayerAndScore(t *testing.T) {
	w := NewWorld()
	w.Join("a", 0, 0, "Ann")
	w.BumpScore("a", 2)

	w.Remove("a")

	snap := w.Snapshot()
	if _, ok := snap.Players["a"]; ok {
		t.Error("player still present after remove")
	}
	if _, ok := snap.Scores["a"]; ok {
		t.Error("score still present after remove")
	}

	// Removing twice is harmless.
	w.Remove("a")
}

func TestSnapshotAnnotatesScoresWithNames(t *testing.T) {
	w := NewWorld()
	w.Join("a", 1, 2, "Ann")
	w.BumpScore("a", 1)
	w.BumpScore("orphan", 5)

	snap := w.Snapshot()

	if got := snap.Scores["a"]; got.Name != "Ann" || got.Score != 1 {
		t.Errorf("unexpected score row for a: %+v", got)
	}
	if got := snap.Scores["orphan"]; got.Name != DefaultName {
		t.Errorf("orphan row should carry the default name, got %q", got.Name)
	}
	if p := snap.Players["a"]; p.X != 1 || p.Z != 2 {
		t.Errorf("unexpected player in snapshot: %+v", p)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	w := NewWorld()
	w.Join("a", 1, 1, "Ann")

	snap := w.Snapshot()
	w.UpdateState("a", Coord{Value: 99, Set: true}, Coord{})

	if snap.Players["a"].X != 1 {
		t.Error("snapshot mutated by later world update")
	}
}

func TestSnapshotTracksJoinedSessions(t *testing.T) {
	w := NewWorld()
	ids := []string{"a", "b", "c"}
	for _, id := range ids {
		w.Join(id, 0, 0, "")
	}
	w.Remove("b")

	snap := w.Snapshot()
	if len(snap.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(snap.Players))
	}
	for _, id := range []string{"a", "c"} {
		if _, ok := snap.Players[id]; !ok {
			t.Errorf("missing player %q", id)
		}
	}
}
