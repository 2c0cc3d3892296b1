package engine

import (
	"fmt"
	"sync"
)

// Registry holds one Game per game identifier.
type Registry struct {
	mu    sync.RWMutex
	games map[string]Game
	order []string
}

// NewRegistry returns a registry holding games. It panics if two games share
// an identifier.
func NewRegistry(games ...Game) *Registry {
	r := &Registry{games: make(map[string]Game, len(games))}
	for _, g := range games {
		if err := r.Register(g); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds g under g.ID().
func (r *Registry) Register(g Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := g.ID()
	if _, ok := r.games[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateGame, id)
	}
	r.games[id] = g
	r.order = append(r.order, id)
	return nil
}

// Lookup returns the game registered under id.
func (r *Registry) Lookup(id string) (Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	return g, ok
}

// Get is Lookup with an error wrapping ErrUnknownGame for a missing id.
func (r *Registry) Get(id string) (Game, error) {
	g, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, id)
	}
	return g, nil
}

// List returns the registered games in registration order.
func (r *Registry) List() []Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Game, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.games[id])
	}
	return out
}

// IDs returns the registered identifiers in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// MustLookup is Lookup that panics for a missing id.
func (r *Registry) MustLookup(id string) Game {
	g, err := r.Get(id)
	if err != nil {
		panic(err)
	}
	return g
}
