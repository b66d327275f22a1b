package wave

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hyperwave/internal/rng"
	"github.com/vovakirdan/hyperwave/internal/wfc"
)

// Pattern is one generated wave.
type Pattern struct {
	ID         int
	Columns    [][]Tile // [column][row]
	Path       []int    // safe-path column for each row
	PathWidth  int
	Speed      float64
	Drops      int
	Difficulty int
	Fallback   bool // produced by the hand-authored fallback
}

// Cols returns the number of columns.
func (p Pattern) Cols() int {
	return len(p.Columns)
}

// Rows returns the number of rows.
func (p Pattern) Rows() int {
	if len(p.Columns) == 0 {
		return 0
	}
	return len(p.Columns[0])
}

// EnemyCount counts enemy tiles.
func (p Pattern) EnemyCount() int {
	n := 0
	for _, col := range p.Columns {
		for _, t := range col {
			if t.IsEnemy() {
				n++
			}
		}
	}
	return n
}

// Encode renders the pattern compactly: one string per column with 'X' for
// enemies and ' ' otherwise, columns joined by '|'.
func (p Pattern) Encode() string {
	var b strings.Builder
	for i, col := range p.Columns {
		if i > 0 {
			b.WriteByte('|')
		}
		for _, t := range col {
			if t.IsEnemy() {
				b.WriteByte('X')
			} else {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

// Fingerprint hashes the full tile layout. Identical layouts share a
// fingerprint regardless of id, speed or drops.
func (p Pattern) Fingerprint() uint64 {
	var b strings.Builder
	for i, col := range p.Columns {
		if i > 0 {
			b.WriteByte('|')
		}
		for _, t := range col {
			b.WriteRune(t.Code())
		}
	}
	return xxhash.Sum64String(b.String())
}

// Enemies lists the enemy type of every enemy tile, column by column.
func (p Pattern) Enemies(src rng.Source) []EnemyType {
	var out []EnemyType
	for _, col := range p.Columns {
		for _, t := range col {
			if e, ok := TileToEnemyType(t, src); ok {
				out = append(out, e)
			}
		}
	}
	return out
}

// GenParams configures pattern generation.
type GenParams struct {
	Columns       int // grid width
	Rows          int // grid height
	MaxAttempts   int // solver retries before giving up
	LevelStep     int // waves per difficulty increase in a sequence
	DropRatio     float64
	FallbackDrops int
}

// DefaultGenParams returns the parameters used by the game.
func DefaultGenParams() GenParams {
	return GenParams{
		Columns:       6,
		Rows:          8,
		MaxAttempts:   10,
		LevelStep:     5,
		DropRatio:     0.3,
		FallbackDrops: 3,
	}
}

// Generator produces patterns and sequences. It is safe for concurrent use.
type Generator struct {
	params GenParams
	log    *log.Logger
}

// NewGenerator creates a generator. A nil logger uses the default logger.
func NewGenerator(p GenParams, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.LevelStep <= 0 {
		p.LevelStep = 5
	}
	return &Generator{params: p, log: logger}
}

// Params returns the generator parameters.
func (g *Generator) Params() GenParams {
	return g.params
}

// Pattern generates one pattern. Attempt n (1-based) uses seed+n when a
// seed is given. It returns false when every attempt failed.
func (g *Generator) Pattern(id int, s Settings, seed *uint32) (Pattern, bool) {
	cols, rows := g.params.Columns, g.params.Rows
	tiles := tileWeights(s)
	constraints := tileConstraints()

	for attempt := 1; attempt <= g.params.MaxAttempts; attempt++ {
		var attemptSeed *uint32
		if seed != nil {
			attemptSeed = rng.Seed(*seed + uint32(attempt))
		}

		solver, err := wfc.New(wfc.Config[Tile]{
			Tiles:       tiles,
			Constraints: constraints,
			Width:       cols,
			Height:      rows,
			Seed:        attemptSeed,
		})
		if err != nil {
			g.log.Debug("wave solver rejected config", "id", id, "err", err)
			return Pattern{}, false
		}

		grid, err := solver.Generate()
		if err != nil {
			g.log.Debug("wave attempt failed", "id", id, "attempt", attempt, "err", err)
			continue
		}

		columns := transpose(grid, cols, rows)
		path := ensureSafePath(columns, s.PathWidth, pathSource(attemptSeed))

		p := Pattern{
			ID:         id,
			Columns:    columns,
			Path:       path,
			PathWidth:  s.PathWidth,
			Speed:      s.Speed,
			Difficulty: s.Level,
		}
		p.Drops = int(float64(p.EnemyCount()) * g.params.DropRatio)
		return p, true
	}
	return Pattern{}, false
}

// Sequence generates count patterns starting at level start. The level rises
// by one every LevelStep waves and pattern i uses seed+i. Failed patterns are
// replaced by the fallback, so the result always has count entries.
func (g *Generator) Sequence(start, count int, seed *uint32) []Pattern {
	patterns := make([]Pattern, 0, max(count, 0))
	for i := 0; i < count; i++ {
		s := SettingsFor(start + i/g.params.LevelStep)

		var patternSeed *uint32
		if seed != nil {
			patternSeed = rng.Seed(*seed + uint32(i))
		}

		p, ok := g.Pattern(i, s, patternSeed)
		if !ok {
			g.log.Warn("failed to generate wave pattern, using fallback", "id", i, "level", s.Level)
			p = g.Fallback(i, s, rng.New(patternSeed))
		}
		patterns = append(patterns, p)
	}
	return patterns
}

// Fallback builds the hand-authored pattern: the two middle columns are
// empty and the others hold weak enemies on even rows with probability
// equal to the enemy density.
func (g *Generator) Fallback(id int, s Settings, src rng.Source) Pattern {
	cols, rows := max(g.params.Columns, 2), max(g.params.Rows, 1)
	mid := cols / 2

	columns := make([][]Tile, cols)
	for c := range columns {
		columns[c] = make([]Tile, rows)
		if c == mid-1 || c == mid {
			continue
		}
		for r := 0; r < rows; r += 2 {
			if rng.Chance(src, s.EnemyDensity) {
				columns[c][r] = EnemyWeak
			}
		}
	}

	path := make([]int, rows)
	for r := range path {
		path[r] = mid
	}

	return Pattern{
		ID:         id,
		Columns:    columns,
		Path:       path,
		PathWidth:  1,
		Speed:      s.Speed,
		Drops:      g.params.FallbackDrops,
		Difficulty: s.Level,
		Fallback:   true,
	}
}

func transpose(grid [][]Tile, cols, rows int) [][]Tile {
	columns := make([][]Tile, cols)
	for x := range columns {
		columns[x] = make([]Tile, rows)
		for y := 0; y < rows; y++ {
			columns[x][y] = grid[y][x]
		}
	}
	return columns
}

// pathSource derives the path walker's generator from the attempt seed so
// that it does not replay the solver's stream.
func pathSource(seed *uint32) rng.Source {
	if seed == nil {
		return rng.Ambient()
	}
	return rng.NewMulberry32(*seed ^ 0x9e3779b9)
}

var defaultGenerator = NewGenerator(DefaultGenParams(), nil)

// GeneratePattern generates a single cols x rows pattern with the default
// parameters.
func GeneratePattern(id int, s Settings, cols, rows int, seed *uint32) (Pattern, bool) {
	p := DefaultGenParams()
	p.Columns, p.Rows = cols, rows
	return NewGenerator(p, defaultGenerator.log).Pattern(id, s, seed)
}

// GenerateSequence generates a sequence with the default parameters.
func GenerateSequence(start, count int, seed *uint32) []Pattern {
	return defaultGenerator.Sequence(start, count, seed)
}

// String implements fmt.Stringer for debugging.
func (p Pattern) String() string {
	return fmt.Sprintf("wave#%d L%d speed=%.2f drops=%d [%s]", p.ID, p.Difficulty, p.Speed, p.Drops, p.Encode())
}
