package termview

import "github.com/gdamore/tcell/v2"

// SinkBuilderOption is a functional option for configuring a Sink.
type SinkBuilderOption func(*Sink)

// WithStyle sets the style of sprite glyphs.
//
// Parameters:
//   - style: the tcell style
//
// Returns:
//   - SinkBuilderOption: option function to apply
func WithStyle(style tcell.Style) SinkBuilderOption {
	return func(s *Sink) {
		s.style = style
	}
}

// WithStatusLine draws the returned text on the top row every frame.
//
// Parameters:
//   - fn: the status producer
//
// Returns:
//   - SinkBuilderOption: option function to apply
func WithStatusLine(fn func() string) SinkBuilderOption {
	return func(s *Sink) {
		s.status = fn
	}
}
