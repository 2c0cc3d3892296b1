// Package games wires the built-in game types into a registry.
package games

import (
	"github.com/jason-s-yu/solitaire/engine"
	"github.com/jason-s-yu/solitaire/engine/freecell"
	"github.com/jason-s-yu/solitaire/engine/klondike"
)

// Default returns a registry holding every built-in game: FreeCell, then
// Klondike draw-one and draw-three.
func Default() *engine.Registry {
	return engine.NewRegistry(
		freecell.New(),
		klondike.New(1),
		klondike.New(3),
	)
}
