package ebitenview

import "github.com/hajimehoshi/ebiten/v2"

// SinkBuilderOption is a functional option for configuring a Sink.
type SinkBuilderOption func(*Sink)

// WithSpritesPerDraw caps the sprites sent in one DrawTriangles call. Values outside
// (0, MaxSpritesPerDraw] are ignored.
//
// Parameters:
//   - n: sprites per draw call
//
// Returns:
//   - SinkBuilderOption: option function to apply
func WithSpritesPerDraw(n int) SinkBuilderOption {
	return func(s *Sink) {
		if n > 0 && n <= MaxSpritesPerDraw {
			s.spritesPerDraw = n
		}
	}
}

// WithFilter sets the atlas sampling filter.
//
// Parameters:
//   - filter: the ebiten filter
//
// Returns:
//   - SinkBuilderOption: option function to apply
func WithFilter(filter ebiten.Filter) SinkBuilderOption {
	return func(s *Sink) {
		s.options.Filter = filter
	}
}

// GameBuilderOption is a functional option for configuring a Game.
type GameBuilderOption func(*Game)

// WithUpdateHook runs fn before every simulation step. Returning ebiten.Termination ends RunGame.
//
// Parameters:
//   - fn: the hook, typically input polling
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithUpdateHook(fn func() error) GameBuilderOption {
	return func(g *Game) {
		g.onUpdate = fn
	}
}

// WithResizeHook is called whenever the outside size changes, after the camera aspect is updated.
//
// Parameters:
//   - fn: the hook
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithResizeHook(fn func(width, height int)) GameBuilderOption {
	return func(g *Game) {
		g.onResize = fn
	}
}
