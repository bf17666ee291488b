package game

import (
	"fmt"
	"testing"
)

func counterIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("c%d", n)
	}
}

// TestGenerateStaysInsideArena verifies that generated collectibles always
// fit fully inside the arena and carry a value in range.
func TestGenerateStaysInsideArena(t *testing.T) {
	gen := NewGenerator(42)

	for i := 0; i < 10000; i++ {
		c := gen.Generate()
		if c.X < 0 || c.X > ArenaWidth-CollectibleSize {
			t.Fatalf("Expected x in [0, %d], got %d", ArenaWidth-CollectibleSize, c.X)
		}
		if c.Y < 0 || c.Y > ArenaHeight-CollectibleSize {
			t.Fatalf("Expected y in [0, %d], got %d", ArenaHeight-CollectibleSize, c.Y)
		}
		if c.Value < MinValue || c.Value > MaxValue {
			t.Fatalf("Expected value in [%d, %d], got %d", MinValue, MaxValue, c.Value)
		}
		if c.Width != CollectibleSize || c.Height != CollectibleSize {
			t.Fatalf("Expected %dx%d collectible, got %dx%d", CollectibleSize, CollectibleSize, c.Width, c.Height)
		}
	}
}

// TestGenerateCoversValueRange checks that every value from MinValue to
// MaxValue shows up over enough draws.
func TestGenerateCoversValueRange(t *testing.T) {
	gen := NewGenerator(7)
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		seen[gen.Generate().Value] = true
	}
	for v := MinValue; v <= MaxValue; v++ {
		if !seen[v] {
			t.Errorf("Value %d never generated", v)
		}
	}
}

// TestGenerateDeterministicWithSeed verifies that two generators with the
// same seed and id source produce the same sequence.
func TestGenerateDeterministicWithSeed(t *testing.T) {
	a := NewGenerator(99).WithIDFunc(counterIDs())
	b := NewGenerator(99).WithIDFunc(counterIDs())

	for i := 0; i < 50; i++ {
		ca, cb := a.Generate(), b.Generate()
		if ca != cb {
			t.Fatalf("Draw %d differs: %+v vs %+v", i, ca, cb)
		}
	}
}

// TestGenerateUniqueIDs verifies that default ids do not repeat.
func TestGenerateUniqueIDs(t *testing.T) {
	gen := NewRandomGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 5000; i++ {
		id := gen.Generate().ID
		if len(id) < 11 {
			t.Fatalf("Expected id of at least 11 characters, got %q", id)
		}
		if seen[id] {
			t.Fatalf("Duplicate collectible id %q", id)
		}
		seen[id] = true
	}
}

// TestSpawnPointForPlayers checks placement bounds for player-sized entities.
func TestSpawnPointForPlayers(t *testing.T) {
	gen := NewGenerator(1)
	for i := 0; i < 5000; i++ {
		x, y := gen.SpawnPoint(PlayerSize, PlayerSize)
		if x < 0 || x >= ArenaWidth-PlayerSize || y < 0 || y >= ArenaHeight-PlayerSize {
			t.Fatalf("Spawn point (%d, %d) outside player bounds", x, y)
		}
	}
}
