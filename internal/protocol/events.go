// Package protocol defines the message catalog exchanged between game clients
// and the server, the envelope every frame is wrapped in, and the codecs that
// put envelopes on the wire.
package protocol

import "github.com/Tyrowin/gocollect/internal/game"

// Server to client events.
const (
	EventInit              = "init"
	EventUpdatePlayers     = "updatePlayers"
	EventUpdateCollectible = "updateCollectible"
	EventPlayerDisconnect  = "playerDisconnect"
)

// Client to server events.
const (
	EventPlayerMovement = "playerMovement"
	EventCollectItem    = "collectItem"
)

// Direction tells which side sends an event.
type Direction string

const (
	ServerToClient Direction = "server->client"
	ClientToServer Direction = "client->server"
)

// EventSpec describes one entry of the message catalog.
type EventSpec struct {
	Name        string
	Direction   Direction
	Payload     any
	Description string
}

// Catalog lists every event the server understands or emits.
var Catalog = []EventSpec{
	{EventInit, ServerToClient, Init{}, "Initial snapshot sent only to a newly connected client."},
	{EventUpdatePlayers, ServerToClient, game.Roster{}, "Full roster keyed by connection id."},
	{EventUpdateCollectible, ServerToClient, game.Collectible{}, "A new collectible has spawned."},
	{EventPlayerDisconnect, ServerToClient, "", "Connection id of a player that left."},
	{EventPlayerMovement, ClientToServer, Movement{}, "Sender reports its new position."},
	{EventCollectItem, ClientToServer, "", "Sender attempts to pick up the collectible with this id."},
}
