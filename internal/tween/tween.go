// Package tween schedules eased value interpolations advanced by an explicit
// clock. The frame loop only depends on the Scheduler interface.
package tween

import (
	"fmt"
	"math"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

var (
	Linear    Easing = func(t float64) float64 { return t }
	Power2In  Easing = func(t float64) float64 { return t * t * t }
	Power2Out Easing = func(t float64) float64 { return 1 - math.Pow(1-t, 3) }
	Power4Out Easing = func(t float64) float64 { return 1 - math.Pow(1-t, 5) }

	Power4InOut Easing = func(t float64) float64 {
		if t < 0.5 {
			return 16 * math.Pow(t, 5)
		}
		return 1 - math.Pow(-2*t+2, 5)/2
	}
)

var easings = map[string]Easing{
	"none":         Linear,
	"linear":       Linear,
	"power2.in":    Power2In,
	"power2.out":   Power2Out,
	"power4.out":   Power4Out,
	"power4.inOut": Power4InOut,
}

// ByName resolves an easing by its conventional name, e.g. "power2.out".
func ByName(name string) (Easing, error) {
	e, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing: %s", name)
	}
	return e, nil
}

// Spec describes one interpolation. OnUpdate receives eased progress.
type Spec struct {
	Duration   float64
	Ease       Easing
	OnUpdate   func(progress float64)
	OnComplete func()
}

// Handle controls a scheduled interpolation.
type Handle interface {
	Cancel()
	Done() bool
}

// Scheduler is the capability the frame loop needs for scripted motion.
type Scheduler interface {
	Schedule(s Spec) Handle
}
