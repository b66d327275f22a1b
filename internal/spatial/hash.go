// Package spatial implements a uniform-grid spatial hash used as the
// broad phase of collision detection.
//
// The grid covers a fixed rectangle starting at (X, Y). Bounds that extend
// past the grid are clipped to the in-range cells; bounds that touch no
// cell at all cannot be inserted.
package spatial

import (
	"math"

	"github.com/vovakirdan/hyperwave/internal/xmath"
)

// Config describes the grid geometry.
type Config struct {
	CellSize float64 `json:"cellSize"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	X        float64 `json:"x"` // origin
	Y        float64 `json:"y"`
}

// GridConfig is a read-only snapshot of the geometry including the derived
// column and row counts.
type GridConfig struct {
	Config
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// Hit is one query result.
type Hit[K comparable, G comparable] struct {
	Key  K
	Cell int // first cell in which the key was found
	Tag  G
}

type entry[K comparable, G comparable] struct {
	key K
	tag G
}

// Hash maps keys of type K to the cells their bounds overlap. Each key is
// stored with a tag of type G, typically its collision group.
// Buckets keep insertion order so query results are deterministic.
type Hash[K comparable, G comparable] struct {
	cfg   GridConfig
	cells [][]entry[K, G]
}

// New creates an empty grid. A non-positive cell size or extent yields a
// grid with zero cells, into which nothing can be inserted.
func New[K comparable, G comparable](cfg Config) *Hash[K, G] {
	cols, rows := 0, 0
	if cfg.CellSize > 0 && cfg.Width > 0 && cfg.Height > 0 {
		cols = int(math.Ceil(cfg.Width / cfg.CellSize))
		rows = int(math.Ceil(cfg.Height / cfg.CellSize))
	}
	return &Hash[K, G]{
		cfg:   GridConfig{Config: cfg, Cols: cols, Rows: rows},
		cells: make([][]entry[K, G], cols*rows),
	}
}

// Config returns the grid geometry.
func (h *Hash[K, G]) Config() GridConfig {
	return h.cfg
}

// Clear empties every bucket, keeping allocated capacity.
func (h *Hash[K, G]) Clear() {
	for i := range h.cells {
		clear(h.cells[i])
		h.cells[i] = h.cells[i][:0]
	}
}

// CellIndex converts (col, row) into a flat bucket index.
func (h *Hash[K, G]) CellIndex(col, row int) int {
	return row*h.cfg.Cols + col
}

// CellCoords converts a flat index back into (col, row).
func (h *Hash[K, G]) CellCoords(index int) (col, row int) {
	if h.cfg.Cols == 0 {
		return 0, 0
	}
	return index % h.cfg.Cols, index / h.cfg.Cols
}

// MapCellCoords maps a world coordinate to (col, row) by floor division.
// The result may lie outside the grid.
func (h *Hash[K, G]) MapCellCoords(x, y float64) (col, row int) {
	col = int(math.Floor((x - h.cfg.X) / h.cfg.CellSize))
	row = int(math.Floor((y - h.cfg.Y) / h.cfg.CellSize))
	return col, row
}

// CellsForBounds returns the indices of every in-range cell overlapped by
// the world-space bounds, column-major.
func (h *Hash[K, G]) CellsForBounds(b xmath.Rect) []int {
	if len(h.cells) == 0 {
		return nil
	}
	minCol, minRow := h.MapCellCoords(b.X, b.Y)
	maxCol, maxRow := h.MapCellCoords(b.Right(), b.Bottom())

	minCol = max(minCol, 0)
	minRow = max(minRow, 0)
	maxCol = min(maxCol, h.cfg.Cols-1)
	maxRow = min(maxRow, h.cfg.Rows-1)
	if minCol > maxCol || minRow > maxRow {
		return nil
	}

	indices := make([]int, 0, (maxCol-minCol+1)*(maxRow-minRow+1))
	for col := minCol; col <= maxCol; col++ {
		for row := minRow; row <= maxRow; row++ {
			indices = append(indices, h.CellIndex(col, row))
		}
	}
	return indices
}

// Insert adds key to every cell overlapped by b. Re-inserting a key into a
// cell it already occupies replaces its tag. It returns false, inserting
// nothing, when b covers no cell of the grid.
func (h *Hash[K, G]) Insert(key K, tag G, b xmath.Rect) bool {
	indices := h.CellsForBounds(b)
	for _, idx := range indices {
		h.put(idx, key, tag)
	}
	return len(indices) > 0
}

func (h *Hash[K, G]) put(idx int, key K, tag G) {
	bucket := h.cells[idx]
	for i := range bucket {
		if bucket[i].key == key {
			bucket[i].tag = tag
			return
		}
	}
	h.cells[idx] = append(bucket, entry[K, G]{key: key, tag: tag})
}

// Query returns every key sharing a cell with b. Each key appears once,
// reported with the first overlapping cell it was found in.
func (h *Hash[K, G]) Query(b xmath.Rect) []Hit[K, G] {
	indices := h.CellsForBounds(b)
	if len(indices) == 0 {
		return nil
	}

	var hits []Hit[K, G]
	seen := make(map[K]struct{})
	for _, idx := range indices {
		for _, e := range h.cells[idx] {
			if _, dup := seen[e.key]; dup {
				continue
			}
			seen[e.key] = struct{}{}
			hits = append(hits, Hit[K, G]{Key: e.key, Cell: idx, Tag: e.tag})
		}
	}
	return hits
}

// Remove deletes key from every cell overlapped by b.
func (h *Hash[K, G]) Remove(key K, b xmath.Rect) {
	for _, idx := range h.CellsForBounds(b) {
		bucket := h.cells[idx]
		for i := range bucket {
			if bucket[i].key == key {
				h.cells[idx] = append(bucket[:i], bucket[i+1:]...)
				break
			}
		}
	}
}

// Len returns the number of occupied (cell, key) slots.
func (h *Hash[K, G]) Len() int {
	n := 0
	for _, bucket := range h.cells {
		n += len(bucket)
	}
	return n
}
