package main

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/arkazon/qtpfs/qtpfs"
)

// pathInstalledEvent is the JSON payload broadcast over /ws/paths each time
// /path returns a path: one a fresh search just installed in the layer's
// live cache, or the live path an exact-hash cache hit handed back.
type pathInstalledEvent struct {
	Type    string       `json:"type"`
	MoveDef qtpfs.MoveDefID `json:"moveDef"`
	PathID  int          `json:"pathId"`
	Points  []qtpfs.Vec3 `json:"points"`
}

// broadcastHub fans path-installed events out to every connected websocket
// client, grounded in mine-and-die's hub/run/broadcast pattern for its
// live-state websocket handler.
type broadcastHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	events  chan pathInstalledEvent
}

func newBroadcastHub() *broadcastHub {
	return &broadcastHub{
		clients: make(map[*websocket.Conn]struct{}),
		events:  make(chan pathInstalledEvent, 64),
	}
}

func (h *broadcastHub) subscribe(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// Drain reads until the client disconnects; this endpoint is
	// publish-only so any received frame is just a liveness signal.
	go func() {
		defer h.unsubscribe(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *broadcastHub) unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *broadcastHub) broadcastPathInstalled(moveDef qtpfs.MoveDefID, path *qtpfs.Path) {
	h.events <- pathInstalledEvent{
		Type:    "path_installed",
		MoveDef: moveDef,
		PathID:  path.ID(),
		Points:  path.Points(),
	}
}

// run drains the event channel and fans each event out to every subscriber,
// dropping any client whose write fails.
func (h *broadcastHub) run() {
	for ev := range h.events {
		data, err := json.Marshal(ev)
		if err != nil {
			log.Printf("⚠️  failed to marshal path event: %v\n", err)
			continue
		}

		h.mu.Lock()
		for conn := range h.clients {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				delete(h.clients, conn)
				conn.Close()
			}
		}
		h.mu.Unlock()
	}
}
