// Package game holds the authoritative state of a collect-the-item match:
// the arena geometry, the connected players and the single live collectible.
//
// Nothing in this package knows about connections or wire formats. The router
// package drives it and decides what to publish after each mutation.
package game

// Arena dimensions in pixels. Every entity must fit fully inside.
const (
	ArenaWidth  = 640
	ArenaHeight = 480
)

// Fixed entity sizes.
const (
	PlayerSize      = 32
	CollectibleSize = 16
)

// Collectible values are drawn uniformly from [MinValue, MaxValue].
const (
	MinValue = 1
	MaxValue = 10
)
