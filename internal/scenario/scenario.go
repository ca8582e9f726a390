// Package scenario scripts pointer and scroll input against a headless
// simulation and records what the plane did.
package scenario

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/skyplane/internal/dynamo"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted input timeline
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Duration    float64 `yaml:"duration"`
	Dt          float64 `yaml:"dt"`
	Events      []Event `yaml:"events"`
}

// Event changes the input state at time At. Unset fields leave the state
// alone.
type Event struct {
	At       float64       `yaml:"at"`
	Pointer  *PointerEvent `yaml:"pointer,omitempty"`
	Release  bool          `yaml:"release,omitempty"`
	ScrollTo *float64      `yaml:"scroll_to,omitempty"`
	ScrollBy *float64      `yaml:"scroll_by,omitempty"`
}

type PointerEvent struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if s.Duration <= 0 {
		return fmt.Errorf("%w: duration %g", dynamo.ErrParameterBounds, s.Duration)
	}
	if s.Dt <= 0 {
		return fmt.Errorf("%w: dt %g", dynamo.ErrParameterBounds, s.Dt)
	}
	for i, e := range s.Events {
		if e.At < 0 {
			return fmt.Errorf("%w: event %d at %g", dynamo.ErrParameterBounds, i, e.At)
		}
	}
	return nil
}

// Frames is the number of steps the scenario runs.
func (s *Scenario) Frames() int {
	return int(s.Duration/s.Dt + 0.5)
}

// sorted returns the events ordered by time, stable for equal times.
func (s *Scenario) sorted() []Event {
	ev := append([]Event(nil), s.Events...)
	sort.SliceStable(ev, func(i, j int) bool { return ev[i].At < ev[j].At })
	return ev
}

func ptr(v float64) *float64 { return &v }

// Builtins are the scenarios shipped with the binary.
var Builtins = map[string]func() *Scenario{
	"idle": func() *Scenario {
		return &Scenario{
			Name:        "idle",
			Description: "no input: intro approach then the lissajous loop",
			Duration:    20,
			Dt:          1.0 / 60,
		}
	},
	"scroll-burst": func() *Scenario {
		s := &Scenario{
			Name:        "scroll-burst",
			Description: "steady reading, a fast fling, then rest",
			Duration:    16,
			Dt:          1.0 / 60,
		}
		for t := 5.0; t < 7.0; t += 0.05 {
			s.Events = append(s.Events, Event{At: t, ScrollBy: ptr(60)})
		}
		for t := 9.0; t < 9.5; t += 1.0 / 60 {
			s.Events = append(s.Events, Event{At: t, ScrollBy: ptr(120)})
		}
		return s
	},
	"pointer-sweep": func() *Scenario {
		s := &Scenario{
			Name:        "pointer-sweep",
			Description: "pointer drags corner to corner after the intro",
			Duration:    14,
			Dt:          1.0 / 60,
		}
		corners := []PointerEvent{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0.5, 0.5}}
		for i, c := range corners {
			c := c
			s.Events = append(s.Events, Event{At: 5 + float64(i)*1.5, Pointer: &c})
		}
		s.Events = append(s.Events, Event{At: 5 + float64(len(corners))*1.5, Release: true})
		return s
	},
}

func GetBuiltin(name string) (*Scenario, error) {
	fn, ok := Builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	return fn(), nil
}

func ListBuiltins() []string {
	names := make([]string, 0, len(Builtins))
	for n := range Builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
