package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/arkazon/qtpfs/qtpfs"
)

// demoWorld bundles one NodeLayer/PathCache/SearchExecutor per movement
// class, the way the real engine keeps a layer per movement definition.
// world is the single process-wide instance, guarded the way the
// teacher guards its globalPRMGraph.
type demoWorld struct {
	mu        sync.RWMutex
	executors map[qtpfs.MoveDefID]*qtpfs.SearchExecutor
	caches    map[qtpfs.MoveDefID]*qtpfs.PathCache
}

var (
	world   = &demoWorld{executors: map[qtpfs.MoveDefID]*qtpfs.SearchExecutor{}, caches: map[qtpfs.MoveDefID]*qtpfs.PathCache{}}
	hub     = newBroadcastHub()
	upgrade = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

const defaultMoveDef qtpfs.MoveDefID = 0

func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

type pathRequest struct {
	MoveDef qtpfs.MoveDefID `json:"moveDef"`
	Src     qtpfs.Vec3      `json:"src"`
	Tgt     qtpfs.Vec3      `json:"tgt"`
}

type pathResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Points  []qtpfs.Vec3 `json:"points,omitempty"`
	PathID  int          `json:"pathId,omitempty"`
}

// pathHandler wraps SearchExecutor.FindPath, mirroring the teacher's
// routeHandler request/response shape exactly.
func pathHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📍 Path request received")

	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req pathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	world.mu.RLock()
	executor, ok := world.executors[req.MoveDef]
	world.mu.RUnlock()
	if !ok {
		log.Printf("❌ Unknown movement class: %d\n", req.MoveDef)
		http.Error(w, "Unknown movement class", http.StatusBadRequest)
		return
	}

	path, err := executor.FindPath(req.MoveDef, req.Src, req.Tgt, nil)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		log.Printf("❌ No path: %v\n", err)
		json.NewEncoder(w).Encode(pathResponse{Success: false, Message: err.Error()})
		log.Println("========================================")
		return
	}

	log.Printf("✅ Path found with %d waypoints (id=%d)\n", path.NumPoints(), path.ID())
	log.Println("========================================")

	hub.broadcastPathInstalled(req.MoveDef, path)

	json.NewEncoder(w).Encode(pathResponse{
		Success: true,
		Points:  path.Points(),
		PathID:  path.ID(),
	})
}

type layerRequest struct {
	MoveDef         qtpfs.MoveDefID `json:"moveDef"`
	Width           int             `json:"width"`
	Height          int             `json:"height"`
	BlockedFraction float64         `json:"blockedFraction"`
	SaveToFile      bool            `json:"saveToFile"`
}

// layerHandler (re)builds a demo NodeLayer fixture, mirroring the teacher's
// buildPRMGraphHandler.
func layerHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("🗺️  Build layer request received")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req layerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Width == 0 {
		req.Width = 32
	}
	if req.Height == 0 {
		req.Height = 32
	}

	grid := randomTerrainGrid(req.Width, req.Height, req.BlockedFraction)
	layer, err := buildNodeLayer(req.MoveDef, grid, false)
	if err != nil {
		log.Printf("❌ Failed to build layer: %v\n", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		log.Println("========================================")
		return
	}

	cache := qtpfs.NewPathCache()
	executor := qtpfs.NewSearchExecutor(layer, cache, qtpfs.ASTAR, qtpfs.DefaultSearchConfig())

	world.mu.Lock()
	world.executors[req.MoveDef] = executor
	world.caches[req.MoveDef] = cache
	world.mu.Unlock()

	if req.SaveToFile {
		if err := saveTerrainGrid(grid, "terrain_grid.json"); err != nil {
			log.Printf("⚠️  Failed to save fixture: %v\n", err)
		}
	}

	log.Printf("✅ Layer %d ready: %d nodes\n", req.MoveDef, layer.NumNodes())
	log.Println("========================================")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"numNodes": layer.NumNodes(),
	})
}

// cacheHandler lists the live cache for a movement class, mirroring the
// teacher's getPRMGraphLinesHandler introspection role.
func cacheHandler(w http.ResponseWriter, r *http.Request) {
	moveDef := qtpfs.MoveDefID(0)
	if v := r.URL.Query().Get("moveDef"); v != "" {
		var md int
		if _, err := fmt.Sscanf(v, "%d", &md); err == nil {
			moveDef = qtpfs.MoveDefID(md)
		}
	}

	world.mu.RLock()
	cache, ok := world.caches[moveDef]
	world.mu.RUnlock()
	if !ok {
		http.Error(w, "Unknown movement class", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"numPaths":  cache.Len(),
		"moveDef":   moveDef,
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	world.mu.RLock()
	numLayers := len(world.executors)
	world.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ready",
		"numLayers": numLayers,
	})
}

// wsHandler upgrades to a websocket stream of "path installed" events,
// grounded in mine-and-die's gorilla/websocket state-broadcast handler.
func wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrade.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ websocket upgrade failed: %v\n", err)
		return
	}
	hub.subscribe(conn)
}

func main() {
	log.Println("========================================")
	log.Println("🚀 qtpfs demo path server")
	log.Println("========================================")

	grid, err := loadTerrainGrid("terrain_grid.json")
	if err != nil {
		log.Println("ℹ️  No existing terrain grid found, generating a default one")
		grid = randomTerrainGrid(32, 32, 0.1)
	}
	layer, err := buildNodeLayer(defaultMoveDef, grid, false)
	if err != nil {
		log.Fatalf("failed to build default layer: %v", err)
	}
	cache := qtpfs.NewPathCache()
	world.executors[defaultMoveDef] = qtpfs.NewSearchExecutor(layer, cache, qtpfs.ASTAR, qtpfs.DefaultSearchConfig())
	world.caches[defaultMoveDef] = cache

	go hub.run()

	http.HandleFunc("/path", corsMiddleware(pathHandler))
	http.HandleFunc("/layer", corsMiddleware(layerHandler))
	http.HandleFunc("/cache", corsMiddleware(cacheHandler))
	http.HandleFunc("/health", corsMiddleware(healthHandler))
	http.HandleFunc("/ws/paths", wsHandler)

	log.Println("Endpoints:")
	log.Println("  POST /layer    - (re)build a demo terrain layer")
	log.Println("  POST /path     - find a path")
	log.Println("  GET  /cache    - inspect the live cache")
	log.Println("  GET  /health   - check server status")
	log.Println("  GET  /ws/paths - subscribe to path-installed events")
	log.Println("")
	log.Println("Server starting on :8080")
	log.Println("========================================")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatal(err)
	}
}
