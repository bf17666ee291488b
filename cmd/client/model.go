package main

import (
	"fmt"

	"github.com/Tyrowin/gocollect/internal/game"
	"github.com/Tyrowin/gocollect/internal/protocol"
)

// model mirrors the server state as seen by this client.
type model struct {
	me          string
	players     game.Roster
	collectible game.Collectible
	pending     string
	left        []string
}

func newModel() *model {
	return &model{players: make(game.Roster)}
}

// apply folds one server event into the model.
func (m *model) apply(msg protocol.Message) error {
	switch msg.Event {
	case protocol.EventInit:
		snap, err := protocol.DecodePayload[protocol.Init](msg)
		if err != nil {
			return err
		}
		m.me = snap.Player.ID
		m.players = snap.Players
		m.collectible = snap.Collectible
	case protocol.EventUpdatePlayers:
		roster, err := protocol.DecodePayload[game.Roster](msg)
		if err != nil {
			return err
		}
		if local, ok := m.players[m.me]; ok {
			if remote, ok := roster[m.me]; ok {
				// Keep our own position; the server echo may lag behind input.
				remote.X, remote.Y = local.X, local.Y
				roster[m.me] = remote
			}
		}
		m.players = roster
	case protocol.EventUpdateCollectible:
		c, err := protocol.DecodePayload[game.Collectible](msg)
		if err != nil {
			return err
		}
		m.collectible = c
		m.pending = ""
	case protocol.EventPlayerDisconnect:
		id, err := protocol.DecodePayload[string](msg)
		if err != nil {
			return err
		}
		delete(m.players, id)
		m.left = append(m.left, id)
	default:
		return fmt.Errorf("unknown event %q", msg.Event)
	}
	return nil
}

// move shifts our player by dx, dy clamped to the arena and returns the
// movement to report.
func (m *model) move(dx, dy int) (protocol.Movement, bool) {
	p, ok := m.players[m.me]
	if !ok {
		return protocol.Movement{}, false
	}
	p.X = clamp(p.X+dx, 0, game.ArenaWidth-p.Width)
	p.Y = clamp(p.Y+dy, 0, game.ArenaHeight-p.Height)
	m.players[m.me] = p
	return protocol.NewMovement(p.X, p.Y), true
}

// pickup returns the collectible id to claim when our player overlaps it.
// Each collectible is claimed at most once.
func (m *model) pickup() (string, bool) {
	p, ok := m.players[m.me]
	c := m.collectible
	if !ok || c.ID == "" || c.ID == m.pending {
		return "", false
	}
	if p.X < c.X+c.Width && p.X+p.Width > c.X && p.Y < c.Y+c.Height && p.Y+p.Height > c.Y {
		m.pending = c.ID
		return c.ID, true
	}
	return "", false
}

func (m *model) score() int {
	return m.players[m.me].Score
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
