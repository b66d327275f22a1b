package play

import (
	"github.com/vovakirdan/hyperwave/internal/core"
	"github.com/vovakirdan/hyperwave/internal/wave"
	"github.com/vovakirdan/hyperwave/internal/xmath"
)

// Kind is what a sprite draws.
type Kind uint8

const (
	KindEnemy Kind = iota
	KindLoot
	KindPlayer
)

// Sprite is the terminal renderable bound to an entity. The simulation
// moves it through SetPosition.
type Sprite struct {
	X, Y  float64
	Glyph rune
	Color core.Color
	Kind  Kind
	Moves int
}

// SetPosition implements sim.Renderable.
func (s *Sprite) SetPosition(x, y float64) {
	s.X, s.Y = x, y
	s.Moves++
}

var enemyLook = map[wave.EnemyType]struct {
	glyph rune
	color core.Color
}{
	wave.Enemy1: {'v', core.ColorRed},
	wave.Enemy2: {'w', core.ColorOrange},
	wave.Enemy3: {'W', core.ColorMagenta},
	wave.Enemy4: {'M', core.ColorBrightRed},
	wave.Enemy5: {'#', core.ColorBrightMagenta},
}

func playerSprite() *Sprite {
	return &Sprite{Glyph: 'A', Color: core.ColorBrightCyan, Kind: KindPlayer}
}

func lootSprite() *Sprite {
	return &Sprite{Glyph: '*', Color: core.ColorBrightYellow, Kind: KindLoot}
}

func enemySprite(t wave.EnemyType) *Sprite {
	look, ok := enemyLook[t]
	if !ok {
		look = enemyLook[wave.Enemy1]
	}
	return &Sprite{Glyph: look.glyph, Color: look.color, Kind: KindEnemy}
}

// Pointer is a keyboard or mouse driven pointer. It implements sim.Input.
type Pointer struct {
	x, y          float64
	width, height float64
	step          float64
}

// NewPointer creates a pointer at (x, y) kept inside width x height. Nudge
// moves it by step units.
func NewPointer(x, y, width, height, step float64) *Pointer {
	p := &Pointer{width: width, height: height, step: step}
	p.Set(x, y)
	return p
}

// Pointer implements sim.Input.
func (p *Pointer) Pointer() (x, y float64) {
	return p.x, p.y
}

// Set moves the pointer to (x, y).
func (p *Pointer) Set(x, y float64) {
	p.x = xmath.Clamp(x, 0, p.width)
	p.y = xmath.Clamp(y, 0, p.height)
}

// Nudge moves the pointer dx, dy steps.
func (p *Pointer) Nudge(dx, dy int) {
	p.Set(p.x+float64(dx)*p.step, p.y+float64(dy)*p.step)
}
