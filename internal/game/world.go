package game

import (
	"sync"

	"github.com/google/uuid"
)

// maxRerolls bounds how often a repeated collectible id is regenerated
// before a random UUID is substituted.
const maxRerolls = 3

// Snapshot is a consistent view of the whole world at one instant.
type Snapshot struct {
	Players     Roster
	Collectible Collectible
}

// World holds the player roster and the single live collectible. One mutex
// guards both so that check-then-act sequences such as a pickup are atomic.
type World struct {
	mu          sync.Mutex
	gen         *Generator
	registry    *Registry
	collectible Collectible
}

// NewWorld creates a World with an empty roster and a first collectible.
func NewWorld(gen *Generator) *World {
	if gen == nil {
		gen = NewRandomGenerator()
	}
	return &World{
		gen:         gen,
		registry:    NewRegistry(gen),
		collectible: gen.Generate(),
	}
}

// CurrentCollectible returns the live collectible.
func (w *World) CurrentCollectible() Collectible {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.collectible
}

// ReplaceCollectible swaps in a newly generated collectible and returns it.
func (w *World) ReplaceCollectible() Collectible {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.replaceLocked()
}

func (w *World) replaceLocked() Collectible {
	prev := w.collectible.ID
	next := w.gen.Generate()
	for tries := 0; next.ID == prev; tries++ {
		if tries == maxRerolls {
			next.ID = uuid.NewString()
			break
		}
		next = w.gen.Generate()
	}
	w.collectible = next
	return next
}

// Join registers a Player for id and returns it with a snapshot taken in the
// same critical section.
func (w *World) Join(id string) (Player, Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p := w.registry.Register(id)
	return p, w.snapshotLocked()
}

// Leave unregisters id. It reports false when id was not registered, which
// lets callers run departure handling exactly once.
func (w *World) Leave(id string) (Roster, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.registry.Unregister(id) {
		return nil, false
	}
	return w.registry.All(), true
}

// Move overwrites the position of id and returns the resulting roster.
func (w *World) Move(id string, x, y int) (Roster, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.registry.Move(id, x, y) {
		return nil, false
	}
	return w.registry.All(), true
}

// Collect attempts a pickup of collectibleID by playerID. It succeeds only if
// collectibleID is the live collectible and playerID is registered; on
// success the value is credited and a new collectible replaces the old one.
// Of several concurrent attempts on the same id at most one succeeds.
func (w *World) Collect(playerID, collectibleID string) (Roster, Collectible, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if collectibleID == "" || w.collectible.ID != collectibleID {
		return nil, Collectible{}, false
	}
	if _, ok := w.registry.AddScore(playerID, w.collectible.Value); !ok {
		return nil, Collectible{}, false
	}
	next := w.replaceLocked()
	return w.registry.All(), next, true
}

// Player returns a copy of the Player registered under id.
func (w *World) Player(id string) (Player, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.registry.Get(id)
}

// Roster returns a copy of every registered Player.
func (w *World) Roster() Roster {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.registry.All()
}

// Snapshot returns the roster and collectible as one consistent view.
func (w *World) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *World) snapshotLocked() Snapshot {
	return Snapshot{
		Players:     w.registry.All(),
		Collectible: w.collectible,
	}
}
