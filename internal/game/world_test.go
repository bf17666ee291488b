package game

import (
	"sync"
	"testing"
	"time"
)

func newTestWorld() *World {
	return NewWorld(NewGenerator(5).WithIDFunc(counterIDs()))
}

// TestNewWorldHasCollectible verifies that a world starts with one live item.
func TestNewWorldHasCollectible(t *testing.T) {
	w := newTestWorld()
	c := w.CurrentCollectible()
	if c.ID == "" {
		t.Fatal("Expected initial collectible to have an id")
	}
	if len(w.Roster()) != 0 {
		t.Errorf("Expected empty roster, got %d players", len(w.Roster()))
	}
}

// TestReplaceCollectibleChangesID verifies that replacement always yields a
// different id.
func TestReplaceCollectibleChangesID(t *testing.T) {
	w := newTestWorld()
	before := w.CurrentCollectible()
	after := w.ReplaceCollectible()

	if after.ID == before.ID {
		t.Errorf("Expected new id, got %q again", after.ID)
	}
	if w.CurrentCollectible() != after {
		t.Error("Expected current collectible to be the replacement")
	}
}

// TestReplaceCollectibleRerollsRepeatedID verifies that an id source that
// repeats itself cannot produce the same id twice in a row.
func TestReplaceCollectibleRerollsRepeatedID(t *testing.T) {
	ids := []string{"x", "x", "x", "y"}
	i := 0
	gen := NewGenerator(1).WithIDFunc(func() string {
		id := ids[i%len(ids)]
		i++
		return id
	})
	w := NewWorld(gen)

	if got := w.ReplaceCollectible().ID; got != "y" {
		t.Errorf("Expected reroll to reach %q, got %q", "y", got)
	}
}

// TestReplaceCollectibleConstantIDSource verifies that replacement still
// terminates with a fresh id when the id source never changes.
func TestReplaceCollectibleConstantIDSource(t *testing.T) {
	gen := NewGenerator(1).WithIDFunc(func() string { return "same" })
	w := NewWorld(gen)

	done := make(chan Collectible, 1)
	go func() { done <- w.ReplaceCollectible() }()

	select {
	case got := <-done:
		if got.ID == "same" || got.ID == "" {
			t.Errorf("Expected a fresh id, got %q", got.ID)
		}
		if w.CurrentCollectible() != got {
			t.Error("Expected current collectible to be the replacement")
		}
	case <-time.After(time.Second):
		t.Fatal("Expected ReplaceCollectible to return with a constant id source")
	}
}

// TestCollectMatchingID verifies that a valid pickup credits exactly the
// collectible's value and spawns a new collectible.
func TestCollectMatchingID(t *testing.T) {
	w := newTestWorld()
	w.Join("b")
	c0 := w.CurrentCollectible()

	roster, next, ok := w.Collect("b", c0.ID)
	if !ok {
		t.Fatal("Expected pickup to succeed")
	}
	if roster["b"].Score != c0.Value {
		t.Errorf("Expected score %d, got %d", c0.Value, roster["b"].Score)
	}
	if next.ID == c0.ID {
		t.Error("Expected a different collectible after pickup")
	}
	if w.CurrentCollectible() != next {
		t.Error("Expected world to hold the new collectible")
	}
}

// TestCollectStaleID verifies that a wrong id changes nothing.
func TestCollectStaleID(t *testing.T) {
	w := newTestWorld()
	w.Join("a")
	c0 := w.CurrentCollectible()

	for _, id := range []string{"", "bogus", c0.ID + "x"} {
		if _, _, ok := w.Collect("a", id); ok {
			t.Errorf("Expected pickup with id %q to fail", id)
		}
	}
	p, _ := w.Player("a")
	if p.Score != 0 {
		t.Errorf("Expected score 0, got %d", p.Score)
	}
	if w.CurrentCollectible() != c0 {
		t.Error("Expected collectible unchanged")
	}
}

// TestCollectUnregisteredPlayer verifies that a pickup from a departed
// connection has no effect.
func TestCollectUnregisteredPlayer(t *testing.T) {
	w := newTestWorld()
	w.Join("a")
	w.Leave("a")
	c0 := w.CurrentCollectible()

	if _, _, ok := w.Collect("a", c0.ID); ok {
		t.Fatal("Expected pickup from unregistered player to fail")
	}
	if w.CurrentCollectible() != c0 {
		t.Error("Expected collectible unchanged")
	}
}

// TestConcurrentCollectAtMostOneWins races many pickups of the same id.
func TestConcurrentCollectAtMostOneWins(t *testing.T) {
	w := NewWorld(NewRandomGenerator())
	const n = 32
	for i := 0; i < n; i++ {
		w.Join(string(rune('a' + i)))
	}
	target := w.CurrentCollectible()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			<-start
			if _, _, ok := w.Collect(id, target.ID); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(string(rune('a' + i)))
	}
	close(start)
	wg.Wait()

	if wins != 1 {
		t.Errorf("Expected exactly one winning pickup, got %d", wins)
	}

	total := 0
	for _, p := range w.Roster() {
		total += p.Score
	}
	if total != target.Value {
		t.Errorf("Expected total score %d, got %d", target.Value, total)
	}
}

// TestLeaveRunsOnce verifies that Leave reports removal only the first time.
func TestLeaveRunsOnce(t *testing.T) {
	w := newTestWorld()
	w.Join("a")
	w.Join("b")

	roster, ok := w.Leave("a")
	if !ok {
		t.Fatal("Expected first leave to succeed")
	}
	if _, present := roster["a"]; present || len(roster) != 1 {
		t.Errorf("Expected roster {b}, got %v", roster.IDs())
	}
	if _, ok := w.Leave("a"); ok {
		t.Error("Expected second leave to be a no-op")
	}
}

// TestJoinSnapshotIncludesNewPlayer verifies that the snapshot returned by
// Join already contains the joining player.
func TestJoinSnapshotIncludesNewPlayer(t *testing.T) {
	w := newTestWorld()
	w.Join("a")
	p, snap := w.Join("b")

	if _, ok := snap.Players["b"]; !ok {
		t.Error("Expected snapshot to include joining player")
	}
	if snap.Players["b"] != p {
		t.Error("Expected snapshot entry to match returned player")
	}
	if len(snap.Players) != 2 {
		t.Errorf("Expected 2 players, got %d", len(snap.Players))
	}
	if snap.Collectible != w.CurrentCollectible() {
		t.Error("Expected snapshot collectible to be current")
	}
}
