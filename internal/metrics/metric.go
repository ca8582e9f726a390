package metrics

import (
	"sort"

	"github.com/san-kum/skyplane/internal/render"
	"github.com/san-kum/skyplane/internal/steering"
)

type Metric interface {
	Name() string
	Observe(f render.Frame)
	Value() float64
	Reset()
}

// Set fans frames out to several metrics.
type Set []Metric

func (s Set) Observe(f render.Frame) {
	for _, m := range s {
		m.Observe(f)
	}
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

// Values returns name -> value.
func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns the metric names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, m := range s {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}

// Standard is the set reported by the trace command.
func Standard(b steering.Bounds) Set {
	return Set{
		NewSpeedBound(),
		NewContainment(b),
		NewExcitement(),
		NewTargetError(),
		NewControlEffort(),
	}
}
