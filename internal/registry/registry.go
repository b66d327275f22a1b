// Package registry provides a global registry for run modes.
// Modes register themselves in init() functions, allowing hosts to
// discover and start them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/hyperwave/internal/wave"
)

// Plan describes the wave list a mode should build.
type Plan struct {
	Gen        *wave.Generator
	StartLevel int     // wave level of the first pattern
	Count      int     // patterns per batch
	LevelStep  int     // waves per level increase, informational
	Seed       *uint32 // nil generates non-deterministically
}

// Mode decides which waves a run plays.
type Mode interface {
	// ID returns a unique identifier used on the command line and in menus.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Start returns the waves loaded when the run begins.
	Start(p Plan) []wave.Pattern

	// Refill is called once every loaded wave has spawned. spawned is the
	// number of waves spawned so far. A nil result ends the wave supply.
	Refill(p Plan, spawned int) []wave.Pattern
}

// ModeInfo contains metadata about a registered mode.
type ModeInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a mode.
type Factory func() Mode

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a mode factory to the registry.
// Panics if a mode with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: mode %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered modes, sorted by ID.
func List() []ModeInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ModeInfo, 0, len(factories))
	for id := range factories {
		result = append(result, ModeInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a mode by its ID.
func Create(id string) (Mode, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown mode %q", id)
	}

	return f(), nil
}

// Exists checks if a mode with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
