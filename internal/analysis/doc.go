// Package analysis characterizes recorded flight traces.
//
//   - [PowerSpectrum]: magnitude spectrum of a sampled series
//   - [DominantPeriod]: period of the strongest oscillation in a series
//
// # Sway
//
// The idle flight path is a slow figure eight, so the x series of an
// idle trace should show one dominant period:
//
//	period, ok := analysis.DominantPeriod(xs, dt)
package analysis
