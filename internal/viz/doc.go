// Package viz flies the paper plane in a terminal.
//
// The sky is evaluated once per cell and drawn as cell backgrounds; the
// plane is rasterized onto a braille [Canvas] and tinted per cell. The
// frame loop runs in [flight.Controller]; [Model] only forwards input and
// draws the latest frame delivered through [Surface].
//
// # Key Bindings
//
//	Mouse      - Steer
//	Wheel j/k  - Scroll (speeds the flight up)
//	Space PgDn - Scroll a page
//	H          - Toggle HUD
//	C          - Toggle clouds
//	T          - Cycle color themes
//	?          - Show help overlay
//	Q          - Quit
package viz
