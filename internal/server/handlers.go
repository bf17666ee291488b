// Package server exposes HTTP handlers, including WebSocket upgrades, health
// checks, the landing page client and its join QR code.
package server

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Tyrowin/gocollect/internal/protocol"
)

//go:embed static/index.html
var indexHTML []byte

const qrSize = 320

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	Subprotocols:    protocol.Subprotocols,
	CheckOrigin:     checkOrigin,
}

// WebSocketHandler upgrades the request, picks the wire codec from the
// negotiated subprotocol and hands the new client to hub.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		codec, err := protocol.Lookup(conn.Subprotocol())
		if err != nil {
			log.Printf("Closing %s: %v", r.RemoteAddr, err)
			_ = conn.Close()
			return
		}

		client := NewClient(conn, hub, r.RemoteAddr, codec)

		// The hub launches the pump goroutines once the client is registered.
		if !hub.join(client) {
			_ = conn.Close()
		}
	}
}

// HealthHandler provides a simple health check endpoint that returns server status.
func HealthHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprintf(w, "gocollect server is running! players=%d", hub.ClientCount())
	}
}

// IndexHandler serves the browser client.
func IndexHandler(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexHTML); err != nil {
		log.Printf("Error writing HTML response: %v", err)
	}
}

// QRHandler renders a PNG QR code pointing at the landing page so players on
// phones can join by scanning it.
func QRHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	png, err := qrcode.Encode(landingURL(r), qrcode.Medium, qrSize)
	if err != nil {
		log.Printf("QR generation failed: %v", err)
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func landingURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + "/"
}

var protocolSchema = sync.OnceValues(func() ([]byte, error) {
	return json.MarshalIndent(protocol.Schema(), "", "  ")
})

// SchemaHandler serves the JSON schema of the message catalog.
func SchemaHandler(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	data, err := protocolSchema()
	if err != nil {
		log.Printf("Error building protocol schema: %v", err)
		http.Error(w, "schema unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(data)
}

// BuildInfo is the payload of the build metadata route.
type BuildInfo struct {
	Module    string `json:"module"`
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
}

func readBuildInfo() BuildInfo {
	info := BuildInfo{Module: "github.com/Tyrowin/gocollect", Version: "(devel)"}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	if bi.Main.Path != "" {
		info.Module = bi.Main.Path
	}
	if bi.Main.Version != "" {
		info.Version = bi.Main.Version
	}
	return info
}

// BuildInfoHandler reports the module path and version of the running binary.
func BuildInfoHandler(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(readBuildInfo()); err != nil {
		log.Printf("Error writing build info: %v", err)
	}
}
