// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/nootfarm/noot-arcade/internal/core"
)

// Game is the core interface that all arcade games must implement.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "farm", "slots").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display (e.g., "Farm Defense").
	Title() string

	// Reset initializes or resets the game state.
	// Called once at start and again when restarting after game over.
	// The RuntimeConfig provides screen dimensions and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	// Input is abstracted to platform-level actions (Jump, Confirm, etc.).
	// Returns the result of this tick including current game state.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current game state (score, game over, paused).
	State() core.GameState
}

// StateStore is a key/value store for game state blobs that outlive a
// session. LoadState reports found=false for a missing key.
type StateStore interface {
	LoadState(key string) (value []byte, found bool, err error)
	SaveState(key string, value []byte) error
}

// StateBinder is implemented by games that persist progress between runs.
// The platform binds a store after creating the game and before Reset.
type StateBinder interface {
	BindState(store StateStore)
}

// ProgressReporter is implemented by saving games that can summarize their
// stored progress without being played.
type ProgressReporter interface {
	// StateKey is the store key the game saves its progress under.
	StateKey() string
	// DescribeProgress turns a saved blob into display lines.
	DescribeProgress(data []byte) ([]Stat, error)
}

// Stat is one labeled line of a progress summary.
type Stat struct {
	Label string
	Value string
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
	Saves bool // Implements StateBinder
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f

	// Metadata comes from a throwaway instance
	g := f()
	_, saves := g.(StateBinder)
	infos[id] = GameInfo{ID: id, Title: g.Title(), Saves: saves}
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	slices.SortFunc(result, func(a, b GameInfo) int {
		return strings.Compare(a.ID, b.ID)
	})

	return result
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Progress loads and summarizes the saved progress of game id from store.
// ok is false when the game keeps no progress or nothing was saved yet.
func Progress(id string, store StateStore) (stats []Stat, ok bool, err error) {
	g, err := Create(id)
	if err != nil {
		return nil, false, err
	}
	r, isReporter := g.(ProgressReporter)
	if !isReporter || store == nil {
		return nil, false, nil
	}

	data, found, err := store.LoadState(r.StateKey())
	if err != nil || !found {
		return nil, false, err
	}
	stats, err = r.DescribeProgress(data)
	if err != nil {
		return nil, false, fmt.Errorf("registry: %s progress: %w", id, err)
	}
	return stats, true, nil
}
