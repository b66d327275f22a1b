// Package wfc implements a Wave Function Collapse solver over a 2D grid.
//
// Every cell starts as a superposition of all tiles. The solver repeatedly
// collapses the cell with the fewest remaining options to one tile chosen by
// weight, then propagates the adjacency constraints to the neighbors. There
// is no backtracking: a contradiction fails the run and the caller retries.
package wfc

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/vovakirdan/hyperwave/internal/rng"
)

var (
	// ErrContradiction is returned when propagation empties a cell.
	ErrContradiction = errors.New("wfc: contradiction")
	// ErrIterationLimit is returned when the solver exceeds width*height*10 iterations.
	ErrIterationLimit = errors.New("wfc: iteration limit reached")
	// ErrOutOfRange is returned by SetCell for coordinates outside the grid.
	ErrOutOfRange = errors.New("wfc: cell out of range")
	// ErrUnknownTile is returned when a tile id was not declared.
	ErrUnknownTile = errors.New("wfc: unknown tile")
)

// maxTiles is the number of tiles an option set can hold.
const maxTiles = 64

// Tile is a label together with its selection weight.
type Tile[T comparable] struct {
	ID     T
	Weight float64
}

// Constraint lists the tiles allowed next to Tile in each direction.
// A nil slice leaves that direction unconstrained; an empty non-nil slice
// allows nothing.
type Constraint[T comparable] struct {
	Tile  T
	Up    []T
	Down  []T
	Left  []T
	Right []T
}

// Config configures a solver run.
type Config[T comparable] struct {
	Tiles       []Tile[T]
	Constraints []Constraint[T]
	Width       int
	Height      int
	Seed        *uint32 // nil uses the ambient random source
}

// CellState describes a cell for debugging.
type CellState[T comparable] struct {
	Options   []T
	Collapsed bool
}

type direction int

const (
	up direction = iota
	down
	left
	right
)

var offsets = [4]struct{ dx, dy int }{
	up:    {0, -1},
	down:  {0, 1},
	left:  {-1, 0},
	right: {1, 0},
}

// optionSet is a bitset over tile indices in declaration order.
type optionSet uint64

func (s optionSet) count() int           { return bits.OnesCount64(uint64(s)) }
func (s optionSet) has(i int) bool       { return s&(1<<uint(i)) != 0 }
func (s optionSet) first() int           { return bits.TrailingZeros64(uint64(s)) }
func singleton(i int) optionSet          { return optionSet(1) << uint(i) }
func fullSet(n int) optionSet            { return optionSet((uint64(1) << uint(n)) - 1) }
func (s optionSet) with(i int) optionSet { return s | singleton(i) }

type cell struct {
	options   optionSet
	collapsed bool
}

// Solver holds the grid state for one generation run.
type Solver[T comparable] struct {
	tiles   []Tile[T]
	index   map[T]int
	allowed [][4]optionSet // per tile, per direction
	width   int
	height  int
	grid    []cell
	rand    rng.Source
}

// New validates cfg and builds a solver with every cell holding all tiles.
func New[T comparable](cfg Config[T]) (*Solver[T], error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("wfc: invalid size %dx%d", cfg.Width, cfg.Height)
	}
	if len(cfg.Tiles) == 0 {
		return nil, errors.New("wfc: no tiles")
	}
	if len(cfg.Tiles) > maxTiles {
		return nil, fmt.Errorf("wfc: %d tiles exceeds limit of %d", len(cfg.Tiles), maxTiles)
	}

	s := &Solver[T]{
		tiles:  cfg.Tiles,
		index:  make(map[T]int, len(cfg.Tiles)),
		width:  cfg.Width,
		height: cfg.Height,
		rand:   rng.New(cfg.Seed),
	}
	for i, t := range cfg.Tiles {
		if _, dup := s.index[t.ID]; dup {
			return nil, fmt.Errorf("wfc: duplicate tile %v", t.ID)
		}
		s.index[t.ID] = i
	}

	all := fullSet(len(cfg.Tiles))
	s.allowed = make([][4]optionSet, len(cfg.Tiles))
	for i := range s.allowed {
		s.allowed[i] = [4]optionSet{all, all, all, all}
	}
	for _, c := range cfg.Constraints {
		ti, ok := s.index[c.Tile]
		if !ok {
			return nil, fmt.Errorf("%w: constraint for %v", ErrUnknownTile, c.Tile)
		}
		for d, list := range [4][]T{up: c.Up, down: c.Down, left: c.Left, right: c.Right} {
			if list == nil {
				continue
			}
			set, err := s.setOf(list)
			if err != nil {
				return nil, err
			}
			s.allowed[ti][d] = set
		}
	}

	s.grid = make([]cell, cfg.Width*cfg.Height)
	for i := range s.grid {
		s.grid[i].options = all
	}
	return s, nil
}

func (s *Solver[T]) setOf(ids []T) (optionSet, error) {
	var set optionSet
	for _, id := range ids {
		i, ok := s.index[id]
		if !ok {
			return 0, fmt.Errorf("%w: %v", ErrUnknownTile, id)
		}
		set = set.with(i)
	}
	return set, nil
}

func (s *Solver[T]) at(x, y int) *cell {
	return &s.grid[y*s.width+x]
}

// Generate runs the solver to completion and returns the grid indexed [y][x].
func (s *Solver[T]) Generate() ([][]T, error) {
	maxIterations := s.width * s.height * 10
	for iter := 0; iter < maxIterations; iter++ {
		x, y, ok := s.lowestEntropy()
		if !ok {
			return s.result(), nil
		}
		s.collapse(x, y)
		if !s.propagate(x, y) {
			return nil, ErrContradiction
		}
	}
	return nil, ErrIterationLimit
}

func (s *Solver[T]) result() [][]T {
	out := make([][]T, s.height)
	for y := range out {
		out[y] = make([]T, s.width)
		for x := range out[y] {
			out[y][x] = s.tiles[s.at(x, y).options.first()].ID
		}
	}
	return out
}

// lowestEntropy picks uniformly among the uncollapsed cells with the fewest options.
func (s *Solver[T]) lowestEntropy() (int, int, bool) {
	minCount := maxTiles + 1
	var candidates []int
	for i, c := range s.grid {
		if c.collapsed {
			continue
		}
		n := c.options.count()
		if n == 0 {
			continue
		}
		switch {
		case n < minCount:
			minCount = n
			candidates = append(candidates[:0], i)
		case n == minCount:
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return 0, 0, false
	}
	pick := candidates[rng.Intn(s.rand, len(candidates))]
	return pick % s.width, pick / s.width, true
}

// collapse fixes the cell to one tile drawn by weight. Zero-weight tiles are
// drawn only when every remaining option has zero weight, in which case the
// first option wins.
func (s *Solver[T]) collapse(x, y int) {
	c := s.at(x, y)
	if c.collapsed {
		return
	}

	total := 0.0
	for i := range s.tiles {
		if c.options.has(i) {
			total += s.tiles[i].Weight
		}
	}

	chosen := c.options.first()
	if total > 0 {
		r := s.rand.Float64() * total
		for i := range s.tiles {
			w := s.tiles[i].Weight
			if !c.options.has(i) || w <= 0 {
				continue
			}
			chosen = i
			r -= w
			if r <= 0 {
				break
			}
		}
	}

	c.options = singleton(chosen)
	c.collapsed = true
}

// allowedFrom returns the union of what the options of a cell permit in dir.
func (s *Solver[T]) allowedFrom(options optionSet, dir direction) optionSet {
	var set optionSet
	for i := range s.tiles {
		if options.has(i) {
			set |= s.allowed[i][dir]
		}
	}
	return set
}

// propagate spreads constraints depth-first from (x, y). Any cell whose
// options shrink is pushed so the restriction cascades. It returns false on
// contradiction.
func (s *Solver[T]) propagate(x, y int) bool {
	stack := []int{y*s.width + x}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cx, cy := idx%s.width, idx/s.width
		options := s.grid[idx].options

		for d, off := range offsets {
			nx, ny := cx+off.dx, cy+off.dy
			if nx < 0 || nx >= s.width || ny < 0 || ny >= s.height {
				continue
			}
			n := s.at(nx, ny)
			if n.collapsed {
				continue
			}
			narrowed := n.options & s.allowedFrom(options, direction(d))
			if narrowed == 0 {
				n.options = 0
				return false
			}
			if narrowed != n.options {
				n.options = narrowed
				stack = append(stack, ny*s.width+nx)
			}
		}
	}
	return true
}

// SetCell forces a cell to a tile and propagates from it.
func (s *Solver[T]) SetCell(x, y int, tile T) error {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, x, y)
	}
	i, ok := s.index[tile]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownTile, tile)
	}
	c := s.at(x, y)
	c.options = singleton(i)
	c.collapsed = true
	if !s.propagate(x, y) {
		return ErrContradiction
	}
	return nil
}

// Cell returns the current state of a cell. Out of range coordinates
// return the zero state.
func (s *Solver[T]) Cell(x, y int) CellState[T] {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return CellState[T]{}
	}
	c := s.at(x, y)
	state := CellState[T]{Collapsed: c.collapsed}
	for i := range s.tiles {
		if c.options.has(i) {
			state.Options = append(state.Options, s.tiles[i].ID)
		}
	}
	return state
}

// Size returns the grid dimensions.
func (s *Solver[T]) Size() (width, height int) {
	return s.width, s.height
}
