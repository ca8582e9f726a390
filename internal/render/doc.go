// Package render defines the rendering capability the frame loop draws
// through, plus the viewport and projection state shared by every surface.
//
// A [Surface] may be unavailable (no terminal, no display); the frame loop
// checks [Surface.Available] once and skips visual work entirely when it is
// false. Surfaces receive immutable [Frame] snapshots.
package render
