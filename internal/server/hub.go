// Package server coordinates client registration, event dispatch, and
// connection cleanup for the game via the Hub type.
package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Tyrowin/gocollect/internal/game"
	"github.com/Tyrowin/gocollect/internal/router"
)

// Hub owns every client connection of one game world. Its Run loop is the
// only goroutine that touches the router, so connects, client events and
// disconnects are applied and published one at a time.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundEvent
	router     *router.Router
	debug      bool
	dropped    []*Client
	mutex      sync.RWMutex
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewHub creates a Hub serving world. A nil world gets a fresh randomly
// seeded one.
func NewHub(world *game.World) *Hub {
	if world == nil {
		world = game.NewWorld(nil)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cfg := CurrentConfig()
	h := &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundEvent),
		debug:      cfg.Debug,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	h.router = router.New(world, h, router.WithDebug(cfg.Debug))
	return h
}

// World returns the game world served by the hub.
func (h *Hub) World() *game.World {
	return h.router.World()
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// join hands a new client to the Run loop. It returns false if the hub is
// shutting down.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// leave hands a departing client to the Run loop.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// Run starts the hub's main event loop. This method should be called in a
// separate goroutine as it runs until Shutdown.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			if client == nil {
				log.Printf("Received nil client registration; skipping")
				continue
			}
			clientCount := h.addClient(client)
			log.Printf("Player %s connected from %s (%s). Total players: %d", client.id, client.addr, client.codec.Name(), clientCount)

			h.wg.Add(2)
			go func() {
				defer h.wg.Done()
				client.writePump()
			}()
			go func() {
				defer h.wg.Done()
				client.readPump()
			}()

			h.router.Connect(client.id)

		case client := <-h.unregister:
			if h.removeClient(client) {
				log.Printf("Player %s disconnected from %s. Total players: %d", client.id, client.addr, h.ClientCount())
				h.router.Disconnect(client.id)
			}

		case ev := <-h.inbound:
			if h.isRegistered(ev.client) {
				h.router.Dispatch(ev.client.id, ev.message)
			}
		}

		h.dropFailedClients()
	}
}

func (h *Hub) addClient(client *Client) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	client.closed = false
	h.clients[client.id] = client
	return len(h.clients)
}

// removeClient unregisters client and closes its send channel. It reports
// false if the client was not registered.
func (h *Hub) removeClient(client *Client) bool {
	h.mutex.Lock()
	if existing, ok := h.clients[client.id]; !ok || existing != client {
		h.mutex.Unlock()
		return false
	}
	delete(h.clients, client.id)
	client.closed = true
	h.mutex.Unlock()

	// Close the channel after releasing the lock
	close(client.send)
	return true
}

func (h *Hub) isRegistered(client *Client) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	existing, ok := h.clients[client.id]
	return ok && existing == client
}

func (h *Hub) safeSend(client *Client, message []byte) bool {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in safeSend: %v", r)
		}
	}()

	// Hold the lock during the entire send operation to prevent race conditions
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if _, exists := h.clients[client.id]; !exists || client.closed {
		return false
	}

	select {
	case client.send <- message:
		return true
	default:
		return false
	}
}

// Send encodes event for one client and queues it. Clients whose buffer is
// full are dropped once the current event has been handled.
func (h *Hub) Send(connID, event string, payload any) {
	h.mutex.RLock()
	client, ok := h.clients[connID]
	h.mutex.RUnlock()
	if !ok {
		return
	}

	frame, err := client.codec.Encode(event, payload)
	if err != nil {
		log.Printf("Error encoding %q for %s: %v", event, connID, err)
		return
	}
	if !h.safeSend(client, frame) {
		h.dropped = append(h.dropped, client)
	}
}

// Broadcast encodes event once per codec in use and queues it for every
// client except the one named by except.
func (h *Hub) Broadcast(event string, payload any, except string) {
	clients := h.getClientSnapshot()
	frames := make(map[string][]byte, 2)
	targets := 0

	for _, client := range clients {
		if except != "" && client.id == except {
			continue
		}
		name := client.codec.Name()
		frame, ok := frames[name]
		if !ok {
			var err error
			frame, err = client.codec.Encode(event, payload)
			if err != nil {
				log.Printf("Error encoding %q with %s codec: %v", event, name, err)
				continue
			}
			frames[name] = frame
		}
		targets++
		if !h.safeSend(client, frame) {
			h.dropped = append(h.dropped, client)
		}
	}

	if h.debug {
		log.Printf("Broadcast %q to %d clients", event, targets)
	}
}

func (h *Hub) getClientSnapshot() []*Client {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}

// dropFailedClients removes clients that could not accept a message and
// runs the usual departure handling for each. Departure broadcasts may fail
// further clients, so it loops until nothing is left.
func (h *Hub) dropFailedClients() {
	for len(h.dropped) > 0 {
		client := h.dropped[0]
		h.dropped = h.dropped[1:]
		if h.removeClient(client) {
			log.Printf("Player %s from %s removed due to full send buffer", client.id, client.addr)
			h.router.Disconnect(client.id)
		}
	}
}

// shutdownClients closes every client connection and send channel.
func (h *Hub) shutdownClients() {
	log.Println("Shutting down all client connections...")

	h.mutex.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for id, client := range h.clients {
		clients = append(clients, client)
		client.closed = true
		delete(h.clients, id)
	}
	h.mutex.Unlock()

	for _, client := range clients {
		close(client.send)
		if client.conn != nil {
			if err := client.conn.Close(); err != nil {
				if !isExpectedCloseError(err) {
					log.Printf("Error closing client connection from %s: %v", client.addr, err)
				}
			}
		}
	}

	log.Printf("Closed %d client connections", len(clients))
}

// Shutdown stops the Run loop, closes every client connection and waits for
// the pump goroutines to finish. It returns context.DeadlineExceeded if that
// takes longer than timeout, including when Run was never started.
func (h *Hub) Shutdown(timeout time.Duration) error {
	log.Println("Initiating hub shutdown...")

	h.cancel()

	finished := make(chan struct{})
	go func() {
		<-h.done
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		log.Println("Hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		log.Println("Hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
