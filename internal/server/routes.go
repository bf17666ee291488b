// Package server wires HTTP handlers into a router for the game server.
package server

import "github.com/julienschmidt/httprouter"

// SetupRoutes configures and returns a router with all application routes
// bound to hub.
func SetupRoutes(hub *Hub) *httprouter.Router {
	mux := httprouter.New()
	mux.GET("/", IndexHandler)
	mux.GET("/health", HealthHandler(hub))
	mux.GET("/ws", WebSocketHandler(hub))
	mux.GET("/qr", QRHandler)
	mux.GET("/protocol/schema.json", SchemaHandler)
	mux.GET("/_api/build.json", BuildInfoHandler)
	return mux
}
