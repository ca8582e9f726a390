package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/flightpath"
	"github.com/san-kum/skyplane/internal/orient"
	"github.com/san-kum/skyplane/internal/scroll"
	"github.com/san-kum/skyplane/internal/steering"
	"gopkg.in/yaml.v3"
)

const (
	DefaultArrivalRadius      = steering.DefaultArrivalRadius
	DefaultBoundarySpeedScale = 1.2
	DefaultBoundaryMaxForce   = 0.05
	DefaultPointerBlend       = 0.4
	DefaultFrameRate          = 60
	DefaultMaxSubsteps        = 5
	DefaultMaxPixelRatio      = 2.0
	DefaultInitDelay          = time.Second
	DefaultQuietPeriod        = 150 * time.Millisecond
)

type Config struct {
	Physics     PhysicsConfig     `yaml:"physics"`
	Flight      FlightConfig      `yaml:"flight"`
	Scroll      scroll.Params     `yaml:"scroll"`
	Orientation OrientationConfig `yaml:"orientation"`
	Intro       IntroConfig       `yaml:"intro"`
	Pointer     PointerConfig     `yaml:"pointer"`
	Render      RenderConfig      `yaml:"render"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type PhysicsConfig struct {
	Bounds             steering.Bounds `yaml:"bounds"`
	Idle               dynamo.Limits   `yaml:"idle"`
	Active             dynamo.Limits   `yaml:"active"`
	ArrivalRadius      float64         `yaml:"arrival_radius"`
	BoundarySpeedScale float64         `yaml:"boundary_speed_scale"`
	BoundaryMaxForce   float64         `yaml:"boundary_max_force"`
	TieBreak           string          `yaml:"tie_break"`
}

type FlightConfig struct {
	Path         flightpath.Lissajous `yaml:"path"`
	PointerSpanX float64              `yaml:"pointer_span_x"`
	PointerSpanY float64              `yaml:"pointer_span_y"`
	PointerBlend float64              `yaml:"pointer_blend"`
}

type OrientationConfig struct {
	Epsilon    float64 `yaml:"epsilon"`
	BankGain   float64 `yaml:"bank_gain"`
	MaxBankDeg float64 `yaml:"max_bank_deg"`
	Smoothing  float64 `yaml:"smoothing"`
}

type IntroConfig struct {
	Enabled  bool        `yaml:"enabled"`
	Spawn    dynamo.Vec3 `yaml:"spawn"`
	Duration float64     `yaml:"duration"`
	Ease     string      `yaml:"ease"`
	Heading  dynamo.Vec3 `yaml:"heading"`
	Speed    float64     `yaml:"speed"`
}

type PointerConfig struct {
	QuietPeriod time.Duration `yaml:"quiet_period"`
}

type RenderConfig struct {
	FrameRate     float64       `yaml:"frame_rate"`
	MaxSubsteps   int           `yaml:"max_substeps"`
	InitDelay     time.Duration `yaml:"init_delay"`
	MaxPixelRatio float64       `yaml:"max_pixel_ratio"`
	FOV           float64       `yaml:"fov"`
	CameraZ       float64       `yaml:"camera_z"`
	Near          float64       `yaml:"near"`
	Far           float64       `yaml:"far"`
	PlaneScale    float64       `yaml:"plane_scale"`
	Theme         string        `yaml:"theme"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

func DefaultConfig() *Config {
	return &Config{
		Physics: PhysicsConfig{
			Bounds:             steering.Bounds{XLimit: 9, YLimit: 6, ZMin: -15, ZMax: 3},
			Idle:               dynamo.Limits{MaxSpeed: 0.18, MaxForce: 0.008},
			Active:             dynamo.Limits{MaxSpeed: 0.35, MaxForce: 0.03},
			ArrivalRadius:      DefaultArrivalRadius,
			BoundarySpeedScale: DefaultBoundarySpeedScale,
			BoundaryMaxForce:   DefaultBoundaryMaxForce,
			TieBreak:           "last",
		},
		Flight: FlightConfig{
			Path:         flightpath.DefaultLissajous(),
			PointerSpanX: 6,
			PointerSpanY: 3,
			PointerBlend: DefaultPointerBlend,
		},
		Scroll: scroll.DefaultParams(),
		Orientation: OrientationConfig{
			Epsilon:    1e-5,
			BankGain:   0.5,
			MaxBankDeg: 60,
			Smoothing:  0.05,
		},
		Intro: IntroConfig{
			Enabled:  true,
			Spawn:    dynamo.Vec3{X: -15, Y: 10, Z: 0},
			Duration: 4.0,
			Ease:     "power2.out",
			Heading:  dynamo.Vec3{X: 1, Y: -0.2, Z: 0},
			Speed:    0.2,
		},
		Pointer: PointerConfig{QuietPeriod: DefaultQuietPeriod},
		Render: RenderConfig{
			FrameRate:     DefaultFrameRate,
			MaxSubsteps:   DefaultMaxSubsteps,
			InitDelay:     DefaultInitDelay,
			MaxPixelRatio: DefaultMaxPixelRatio,
			FOV:           75,
			CameraZ:       5,
			Near:          0.1,
			Far:           100,
			PlaneScale:    0.25,
			Theme:         "verdigris",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the file at path onto cfg. Keys absent from the file
// keep cfg's values. cfg is left untouched on error.
func LoadInto(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	next := cfg.Clone()
	if err := yaml.Unmarshal(data, next); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	*cfg = *next
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal renders the config as yaml.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Validate() error {
	if err := c.Physics.Idle.Validate(); err != nil {
		return fmt.Errorf("physics.idle: %w", err)
	}
	if err := c.Physics.Active.Validate(); err != nil {
		return fmt.Errorf("physics.active: %w", err)
	}
	b := c.Physics.Bounds
	if b.XLimit <= 0 || b.YLimit <= 0 || b.ZMin >= b.ZMax {
		return fmt.Errorf("%w: bounds %+v", dynamo.ErrParameterBounds, b)
	}
	if c.Physics.ArrivalRadius < 0 {
		return fmt.Errorf("%w: arrival_radius %g", dynamo.ErrParameterBounds, c.Physics.ArrivalRadius)
	}
	if _, err := c.TieBreak(); err != nil {
		return err
	}
	if c.Scroll.Smoothing <= 0 || c.Scroll.Smoothing > 1 {
		return fmt.Errorf("%w: scroll.smoothing %g not in (0,1]", dynamo.ErrParameterBounds, c.Scroll.Smoothing)
	}
	if c.Scroll.Saturation <= 0 {
		return fmt.Errorf("%w: scroll.saturation %g", dynamo.ErrParameterBounds, c.Scroll.Saturation)
	}
	if c.Orientation.Smoothing < 0 || c.Orientation.Smoothing > 1 {
		return fmt.Errorf("%w: orientation.smoothing %g", dynamo.ErrParameterBounds, c.Orientation.Smoothing)
	}
	if c.Intro.Enabled && c.Intro.Duration < 0 {
		return fmt.Errorf("%w: intro.duration %g", dynamo.ErrParameterBounds, c.Intro.Duration)
	}
	if c.Render.FrameRate <= 0 {
		return fmt.Errorf("%w: render.frame_rate %g", dynamo.ErrParameterBounds, c.Render.FrameRate)
	}
	return nil
}

func (c *Config) TieBreak() (steering.TieBreak, error) {
	switch c.Physics.TieBreak {
	case "", "last":
		return steering.TieBreakLastAxis, nil
	case "sum":
		return steering.TieBreakSum, nil
	default:
		return 0, fmt.Errorf("unknown tie_break: %s", c.Physics.TieBreak)
	}
}

// Limits selects the steering profile for the pointer state.
func (c *Config) Limits(pointerActive bool) dynamo.Limits {
	if pointerActive {
		return c.Physics.Active
	}
	return c.Physics.Idle
}

func (c *Config) OrientParams() orient.Params {
	return orient.Params{
		Epsilon:   c.Orientation.Epsilon,
		BankGain:  c.Orientation.BankGain,
		MaxBank:   c.Orientation.MaxBankDeg * math.Pi / 180,
		Smoothing: c.Orientation.Smoothing,
	}
}
