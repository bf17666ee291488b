package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tyrowin/gocollect/internal/game"
	"github.com/Tyrowin/gocollect/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.Println("Starting gocollect server...")

	if err := server.LoadEnvFile(); err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config := server.NewConfigFromEnv()
	server.SetConfig(config)

	hub := server.NewHub(game.NewWorld(game.NewRandomGenerator()))
	server.StartHub(hub)

	httpServer := server.CreateServer(config.Port, server.SetupRoutes(hub))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.StartServer(httpServer)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
		return
	case sig := <-sigs:
		log.Printf("%v received", sig)
	}

	if err := server.ShutdownServer(httpServer, shutdownTimeout); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	if err := hub.Shutdown(shutdownTimeout); err != nil {
		log.Printf("Hub shutdown: %v", err)
	}
}
