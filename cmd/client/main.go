// Command client plays gocollect from a terminal. Arrow keys or WASD move,
// q or Esc quits. Touching the item claims it.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"

	"github.com/Tyrowin/gocollect/internal/protocol"
)

func main() {
	var (
		serverURL = flag.String("url", "ws://localhost:3000/ws", "game WebSocket endpoint")
		codecName = flag.String("codec", protocol.CodecJSON, "wire codec: json or msgpack")
		step      = flag.Int("step", 8, "pixels moved per key press")
	)
	flag.Parse()

	codec, err := protocol.Lookup(*codecName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	conn, err := dial(*serverURL, codec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", *serverURL, err)
		os.Exit(1)
	}
	defer conn.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("terminal: %v", err)
	}
	defer screen.Fini()

	if err := run(screen, conn, codec, *step); err != nil {
		screen.Fini()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dial(rawURL string, codec protocol.Codec) (*websocket.Conn, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	origin := "http://" + u.Host
	if u.Scheme == "wss" {
		origin = "https://" + u.Host
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
		Subprotocols:     []string{codec.Name()},
	}
	headers := http.Header{}
	headers.Set("Origin", origin)

	conn, resp, err := dialer.Dial(rawURL, headers)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// readLoop forwards decoded server events until the connection fails.
func readLoop(conn *websocket.Conn, codec protocol.Codec, out chan<- protocol.Message, errs chan<- error) {
	for {
		messageType, frame, err := conn.ReadMessage()
		if err != nil {
			errs <- err
			return
		}
		parts := [][]byte{frame}
		if messageType == websocket.TextMessage {
			parts = bytes.Split(frame, []byte{'\n'})
		}
		for _, part := range parts {
			msg, err := codec.Decode(part)
			if err != nil {
				continue
			}
			out <- msg
		}
	}
}

func run(screen tcell.Screen, conn *websocket.Conn, codec protocol.Codec, step int) error {
	messages := make(chan protocol.Message, 64)
	readErrs := make(chan error, 1)
	go readLoop(conn, codec, messages, readErrs)

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	messageType := websocket.TextMessage
	if codec.Binary() {
		messageType = websocket.BinaryMessage
	}
	send := func(event string, payload any) error {
		frame, err := codec.Encode(event, payload)
		if err != nil {
			return err
		}
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteMessage(messageType, frame)
	}

	m := newModel()
	status := "connecting"
	for {
		draw(screen, m, status)

		select {
		case err := <-readErrs:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)

		case msg := <-messages:
			if err := m.apply(msg); err != nil {
				status = err.Error()
				continue
			}
			status = "connected"

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				dx, dy, stop := keyDelta(ev, step)
				if stop {
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return nil
				}
				if dx == 0 && dy == 0 {
					continue
				}
				if mv, ok := m.move(dx, dy); ok {
					if err := send(protocol.EventPlayerMovement, mv); err != nil {
						return err
					}
				}
				if id, ok := m.pickup(); ok {
					if err := send(protocol.EventCollectItem, id); err != nil {
						return err
					}
				}
			}
		}
	}
}

func keyDelta(ev *tcell.EventKey, step int) (dx, dy int, quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return 0, 0, true
	case tcell.KeyLeft:
		return -step, 0, false
	case tcell.KeyRight:
		return step, 0, false
	case tcell.KeyUp:
		return 0, -step, false
	case tcell.KeyDown:
		return 0, step, false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return 0, 0, true
		case 'a':
			return -step, 0, false
		case 'd':
			return step, 0, false
		case 'w':
			return 0, -step, false
		case 's':
			return 0, step, false
		}
	}
	return 0, 0, false
}
