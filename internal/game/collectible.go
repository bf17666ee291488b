package game

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// Collectible is the item players race to pick up. A live collectible is
// never mutated; a pickup replaces it with a freshly generated one.
type Collectible struct {
	ID     string `json:"id" msgpack:"id"`
	X      int    `json:"x" msgpack:"x"`
	Y      int    `json:"y" msgpack:"y"`
	Value  int    `json:"value" msgpack:"value"`
	Width  int    `json:"width" msgpack:"width"`
	Height int    `json:"height" msgpack:"height"`
}

// IDFunc returns a fresh identifier for a collectible.
type IDFunc func() string

// Generator produces spawn positions and collectibles from a single random
// source. It is not safe for concurrent use; World serializes access to it.
type Generator struct {
	rng   *rand.Rand
	newID IDFunc
}

// NewGenerator returns a deterministic Generator seeded with seed. Ids are
// still random UUIDs unless overridden with WithIDFunc.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		newID: uuid.NewString,
	}
}

// NewRandomGenerator returns a Generator seeded from the runtime's entropy.
func NewRandomGenerator() *Generator {
	return &Generator{
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		newID: uuid.NewString,
	}
}

// WithIDFunc replaces the id source and returns g. World regenerates a
// collectible whose id repeats the one it replaces, and gives up on fn
// after a few repeats.
func (g *Generator) WithIDFunc(fn IDFunc) *Generator {
	if fn != nil {
		g.newID = fn
	}
	return g
}

// SpawnPoint returns a uniformly random top-left corner such that an entity
// of the given size lies fully inside the arena.
func (g *Generator) SpawnPoint(width, height int) (int, int) {
	return g.rng.IntN(ArenaWidth - width), g.rng.IntN(ArenaHeight - height)
}

// Generate returns a new collectible at a random position with a random value.
func (g *Generator) Generate() Collectible {
	x, y := g.SpawnPoint(CollectibleSize, CollectibleSize)
	return Collectible{
		ID:     g.newID(),
		X:      x,
		Y:      y,
		Value:  MinValue + g.rng.IntN(MaxValue-MinValue+1),
		Width:  CollectibleSize,
		Height: CollectibleSize,
	}
}
