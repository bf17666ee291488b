// Package router turns connection lifecycle events and inbound client
// messages into World mutations, and publishes the resulting state.
//
// A Router is not safe for concurrent use. The server hub calls it from a
// single goroutine, which also keeps every broadcast consistent with the
// mutation that caused it.
package router

import (
	"log"

	"github.com/Tyrowin/gocollect/internal/game"
	"github.com/Tyrowin/gocollect/internal/protocol"
)

// Publisher delivers outbound events. Implementations encode per recipient.
type Publisher interface {
	// Send delivers to one connection.
	Send(connID, event string, payload any)
	// Broadcast delivers to every connection except the one named by except.
	// An empty except reaches everyone.
	Broadcast(event string, payload any, except string)
}

// SessionState is the lifecycle state of one connection.
type SessionState int

const (
	StateConnecting SessionState = iota
	StateActive
	StateDisconnected
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Router dispatches inbound events for every connection of one World.
type Router struct {
	world    *game.World
	pub      Publisher
	sessions map[string]SessionState
	debug    bool
}

// Option configures a Router.
type Option func(*Router)

// WithDebug makes the router log events it ignores.
func WithDebug(debug bool) Option {
	return func(r *Router) {
		r.debug = debug
	}
}

// New returns a Router over world that publishes through pub.
func New(world *game.World, pub Publisher, opts ...Option) *Router {
	r := &Router{
		world:    world,
		pub:      pub,
		sessions: make(map[string]SessionState),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// World returns the world the router mutates.
func (r *Router) World() *game.World {
	return r.world
}

// State returns the lifecycle state of connID. Unknown ids report
// StateDisconnected.
func (r *Router) State(connID string) SessionState {
	if s, ok := r.sessions[connID]; ok {
		return s
	}
	return StateDisconnected
}

// Connect registers a player for connID, sends it the initial snapshot and
// tells every other connection about the new roster.
func (r *Router) Connect(connID string) game.Player {
	if r.State(connID) == StateActive {
		p, _ := r.world.Player(connID)
		return p
	}
	r.sessions[connID] = StateConnecting

	player, snap := r.world.Join(connID)
	r.sessions[connID] = StateActive

	r.pub.Send(connID, protocol.EventInit, protocol.Init{
		Player:      player,
		Players:     snap.Players,
		Collectible: snap.Collectible,
	})
	r.pub.Broadcast(protocol.EventUpdatePlayers, snap.Players, connID)
	return player
}

// Dispatch handles one inbound message from connID. Messages from
// connections that are not active, unknown events and payloads that fail to
// decode are ignored.
func (r *Router) Dispatch(connID string, msg protocol.Message) {
	if r.State(connID) != StateActive {
		r.ignore(connID, msg.Event, "connection not active")
		return
	}

	switch msg.Event {
	case protocol.EventPlayerMovement:
		r.handleMovement(connID, msg)
	case protocol.EventCollectItem:
		r.handleCollect(connID, msg)
	default:
		r.ignore(connID, msg.Event, "unknown event")
	}
}

func (r *Router) handleMovement(connID string, msg protocol.Message) {
	mv, err := protocol.DecodePayload[protocol.Movement](msg)
	if err != nil {
		r.ignore(connID, msg.Event, err.Error())
		return
	}
	x, y, ok := mv.Position()
	if !ok {
		r.ignore(connID, msg.Event, "incomplete position")
		return
	}
	roster, ok := r.world.Move(connID, x, y)
	if !ok {
		r.ignore(connID, msg.Event, "player not registered")
		return
	}
	r.pub.Broadcast(protocol.EventUpdatePlayers, roster, "")
}

func (r *Router) handleCollect(connID string, msg protocol.Message) {
	collectibleID, err := protocol.DecodePayload[string](msg)
	if err != nil {
		r.ignore(connID, msg.Event, err.Error())
		return
	}
	roster, next, ok := r.world.Collect(connID, collectibleID)
	if !ok {
		r.ignore(connID, msg.Event, "stale collectible or unregistered player")
		return
	}
	log.Printf("Player %s collected %s, new collectible %s (value %d)", connID, collectibleID, next.ID, next.Value)
	r.pub.Broadcast(protocol.EventUpdatePlayers, roster, "")
	r.pub.Broadcast(protocol.EventUpdateCollectible, next, "")
}

// Disconnect removes the player for connID and notifies the remaining
// connections. Only the first call for a connection has any effect.
func (r *Router) Disconnect(connID string) {
	delete(r.sessions, connID)

	roster, ok := r.world.Leave(connID)
	if !ok {
		return
	}
	r.pub.Broadcast(protocol.EventUpdatePlayers, roster, connID)
	r.pub.Broadcast(protocol.EventPlayerDisconnect, connID, connID)
}

func (r *Router) ignore(connID, event, reason string) {
	if r.debug {
		log.Printf("Ignoring %q from %s: %s", event, connID, reason)
	}
}
