// Package testhelpers provides common utilities shared by the gocollect
// package tests: a publisher that records deliveries in memory, and
// WebSocket peers that speak the game protocol against a test server.
package testhelpers

import "sync"

// Delivery is one event as received by one connection.
type Delivery struct {
	To      string
	Event   string
	Payload any
}

// RecordingPublisher captures everything a router publishes. Broadcasts are
// expanded into one Delivery per member at publish time.
type RecordingPublisher struct {
	mu         sync.Mutex
	members    func() []string
	deliveries []Delivery
}

// NewRecordingPublisher returns a publisher that resolves broadcast
// recipients through members.
func NewRecordingPublisher(members func() []string) *RecordingPublisher {
	return &RecordingPublisher{members: members}
}

// Send records a delivery to connID.
func (p *RecordingPublisher) Send(connID, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deliveries = append(p.deliveries, Delivery{To: connID, Event: event, Payload: payload})
}

// Broadcast records a delivery to every member except the excluded one.
func (p *RecordingPublisher) Broadcast(event string, payload any, except string) {
	members := p.members()
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range members {
		if except != "" && id == except {
			continue
		}
		p.deliveries = append(p.deliveries, Delivery{To: id, Event: event, Payload: payload})
	}
}

// Deliveries returns everything recorded so far.
func (p *RecordingPublisher) Deliveries() []Delivery {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Delivery(nil), p.deliveries...)
}

// For returns the deliveries received by connID in order.
func (p *RecordingPublisher) For(connID string) []Delivery {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Delivery
	for _, d := range p.deliveries {
		if d.To == connID {
			out = append(out, d)
		}
	}
	return out
}

// Events returns the event names received by connID in order.
func (p *RecordingPublisher) Events(connID string) []string {
	var out []string
	for _, d := range p.For(connID) {
		out = append(out, d.Event)
	}
	return out
}

// Reset forgets all recorded deliveries.
func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deliveries = nil
}
