package wave

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/hyperwave/internal/rng"
)

// File is the on-disk form of a wave sequence.
type File struct {
	Seed  *uint32  `yaml:"seed,omitempty"`
	Start int      `yaml:"start"`
	Waves []Record `yaml:"waves"`
}

// Record is the exported form of a pattern.
type Record struct {
	ID          int         `yaml:"id"`
	Fingerprint string      `yaml:"fingerprint"`
	Pattern     string      `yaml:"pattern"`
	Tiles       []string    `yaml:"tiles"` // one string of tile codes per column
	Path        []int       `yaml:"path,omitempty,flow"`
	PathWidth   int         `yaml:"path_width"`
	Speed       string      `yaml:"speed"`
	Drops       int         `yaml:"drops"`
	Enemies     []EnemyType `yaml:"enemies,flow"`
	Difficulty  int         `yaml:"difficulty"`
	Fallback    bool        `yaml:"fallback,omitempty"`
}

// NewRecord converts a pattern. src resolves the enemy types of weak and
// strong tiles.
func NewRecord(p Pattern, src rng.Source) Record {
	tiles := make([]string, len(p.Columns))
	for i, col := range p.Columns {
		codes := make([]rune, len(col))
		for j, t := range col {
			codes[j] = t.Code()
		}
		tiles[i] = string(codes)
	}
	return Record{
		ID:          p.ID,
		Fingerprint: fmt.Sprintf("%016x", p.Fingerprint()),
		Pattern:     p.Encode(),
		Tiles:       tiles,
		Path:        p.Path,
		PathWidth:   p.PathWidth,
		Speed:       strconv.FormatFloat(p.Speed, 'f', 2, 64),
		Drops:       p.Drops,
		Enemies:     p.Enemies(src),
		Difficulty:  p.Difficulty,
		Fallback:    p.Fallback,
	}
}

// ToPattern converts a record back into a pattern.
func (r Record) ToPattern() (Pattern, error) {
	columns := make([][]Tile, len(r.Tiles))
	for i, codes := range r.Tiles {
		for _, c := range codes {
			t, ok := TileFromCode(c)
			if !ok {
				return Pattern{}, fmt.Errorf("wave: record %d: unknown tile code %q", r.ID, c)
			}
			columns[i] = append(columns[i], t)
		}
		if i > 0 && len(columns[i]) != len(columns[0]) {
			return Pattern{}, fmt.Errorf("wave: record %d: column %d has %d rows, want %d", r.ID, i, len(columns[i]), len(columns[0]))
		}
	}

	speed, err := strconv.ParseFloat(r.Speed, 64)
	if err != nil {
		return Pattern{}, fmt.Errorf("wave: record %d: speed: %w", r.ID, err)
	}

	return Pattern{
		ID:         r.ID,
		Columns:    columns,
		Path:       r.Path,
		PathWidth:  r.PathWidth,
		Speed:      speed,
		Drops:      r.Drops,
		Difficulty: r.Difficulty,
		Fallback:   r.Fallback,
	}, nil
}

// Export writes patterns as YAML.
func Export(w io.Writer, f File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("wave: encode: %w", err)
	}
	return enc.Close()
}

// NewFile builds an exportable file from patterns.
func NewFile(start int, seed *uint32, patterns []Pattern, src rng.Source) File {
	f := File{Seed: seed, Start: start, Waves: make([]Record, len(patterns))}
	for i, p := range patterns {
		f.Waves[i] = NewRecord(p, src)
	}
	return f
}

// Load reads a YAML wave file.
func Load(r io.Reader) ([]Pattern, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("wave: decode: %w", err)
	}
	patterns := make([]Pattern, 0, len(f.Waves))
	for _, rec := range f.Waves {
		p, err := rec.ToPattern()
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}
