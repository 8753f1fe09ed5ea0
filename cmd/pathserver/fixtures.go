package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/arkazon/qtpfs/qtpfs"
)

// TerrainGrid is the JSON fixture format for a demo NodeLayer: a uniform
// grid of unit terrain squares, one move cost per cell. This stands in for
// the externally-built quadtree partition spec.md treats as an input
// (terrain cost computation and quadtree construction are out of the
// core's scope); it exists only so cmd/pathserver has something to search
// over, the way the teacher's nfz_loader.go reads GeoJSON fixtures to feed
// its PRM graph builder.
type TerrainGrid struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Costs  [][]float64 `json:"costs"` // row-major, Costs[z][x]; <= 0 means blocked
}

// loadTerrainGrid reads a terrain grid fixture from disk.
func loadTerrainGrid(path string) (TerrainGrid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TerrainGrid{}, fmt.Errorf("failed to read terrain grid: %w", err)
	}
	var grid TerrainGrid
	if err := json.Unmarshal(data, &grid); err != nil {
		return TerrainGrid{}, fmt.Errorf("failed to unmarshal terrain grid: %w", err)
	}
	return grid, nil
}

// saveTerrainGrid persists a terrain grid fixture, mirroring the teacher's
// SavePRMGraph/LoadPRMGraph round trip.
func saveTerrainGrid(grid TerrainGrid, path string) error {
	data, err := json.MarshalIndent(grid, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal terrain grid: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write terrain grid: %w", err)
	}
	return nil
}

// randomTerrainGrid generates a w x h grid with a sprinkling of blocked
// cells, for first-run demo use when no fixture file exists on disk yet.
func randomTerrainGrid(w, h int, blockedFraction float64) TerrainGrid {
	grid := TerrainGrid{Width: w, Height: h, Costs: make([][]float64, h)}
	for z := 0; z < h; z++ {
		row := make([]float64, w)
		for x := 0; x < w; x++ {
			if rand.Float64() < blockedFraction {
				row[x] = 0
			} else {
				row[x] = 1.0 + rand.Float64()*2.0
			}
		}
		grid.Costs[z] = row
	}
	return grid
}

// buildNodeLayer turns a terrain grid into a qtpfs.NodeLayer: one Node per
// cell, 8-connected neighbours, wired the way an external quadtree builder
// would hand nodes to the search core.
func buildNodeLayer(moveDef qtpfs.MoveDefID, grid TerrainGrid, cacheEdgePoints bool) (*qtpfs.NodeLayer, error) {
	if grid.Width <= 0 || grid.Height <= 0 {
		return nil, fmt.Errorf("qtpfs: terrain grid has no cells")
	}
	idx := func(x, z int) int { return z*grid.Width + x }

	nodes := make([]*qtpfs.Node, grid.Width*grid.Height)
	for z := 0; z < grid.Height; z++ {
		for x := 0; x < grid.Width; x++ {
			cost := grid.Costs[z][x]
			if cost <= 0 {
				cost = qtpfs.PositiveInfinity
			}
			nodes[idx(x, z)] = qtpfs.NewNode(idx(x, z), float64(x), float64(z), float64(x+1), float64(z+1), cost)
		}
	}

	for z := 0; z < grid.Height; z++ {
		for x := 0; x < grid.Width; x++ {
			n := nodes[idx(x, z)]
			var neighbours []*qtpfs.Node
			for dz := -1; dz <= 1; dz++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dz == 0 {
						continue
					}
					nx, nz := x+dx, z+dz
					if nx < 0 || nz < 0 || nx >= grid.Width || nz >= grid.Height {
						continue
					}
					neighbours = append(neighbours, nodes[idx(nx, nz)])
				}
			}
			n.SetNeighbours(neighbours, cacheEdgePoints)
		}
	}

	layer, err := qtpfs.NewNodeLayer(moveDef, nodes)
	if err != nil {
		return nil, err
	}
	log.Printf("   layer %d built: %d x %d cells (%d nodes)\n", moveDef, grid.Width, grid.Height, len(nodes))
	return layer, nil
}
