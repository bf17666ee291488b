// Package server implements the HTTP and WebSocket front of the game.
//
// A Hub owns one game world and every connection playing in it. Each Client
// runs a read pump that decodes frames with its negotiated codec and a
// write pump that drains its send buffer; the Hub's Run loop is the single
// goroutine that applies connects, events and disconnects through the
// router and fans the resulting state out to the clients.
package server
