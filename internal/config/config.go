// Package config provides YAML-based game configuration loading and
// difficulty management for the game.
package config

import (
	"errors"
	"fmt"
)

// FlappyConfig contains all configuration for the game.
// Distances are in pixels, durations in seconds, angles in degrees.
type FlappyConfig struct {
	Physics    FlappyPhysics    `yaml:"physics"`
	Tilt       FlappyTilt       `yaml:"tilt"`
	Animation  FlappyAnimation  `yaml:"animation"`
	Obstacles  FlappyObstacles  `yaml:"obstacles"`
	Player     FlappyPlayer     `yaml:"player"`
	World      FlappyWorld      `yaml:"world"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// FlappyPhysics defines the character motion model.
type FlappyPhysics struct {
	Gravity           float64 `yaml:"gravity"`             // Speed gained per second spent in a state
	ThrustImpulse     float64 `yaml:"thrust_impulse"`      // Constant upward component while thrusting
	MinThrustDuration float64 `yaml:"min_thrust_duration"` // A single press keeps thrusting this long
	BaseSpeed         float64 `yaml:"base_speed"`          // Horizontal scroll speed in pixels per second
}

// FlappyTilt defines how the character rotates.
type FlappyTilt struct {
	ThrustAngle float64 `yaml:"thrust_angle"` // Angle set on every thrust frame
	Step        float64 `yaml:"step"`         // Added per falling frame
	Max         float64 `yaml:"max"`          // Upper bound while falling
}

// FlappyAnimation defines the angle bands that pick an animation frame.
type FlappyAnimation struct {
	DownMin float64 `yaml:"down_min"` // Down frame for DownMin <= angle <= DownMax
	DownMax float64 `yaml:"down_max"`
	UpMax   float64 `yaml:"up_max"` // Otherwise up frame for angle <= UpMax
}

// FlappyObstacles defines obstacle generation.
type FlappyObstacles struct {
	Spacing       int     `yaml:"spacing"`        // Scroll distance between pairs
	GapSize       int     `yaml:"gap_size"`       // Vertical opening between the halves
	HeightStep    int     `yaml:"height_step"`    // Pixels per height bucket, 0 = fit the playfield
	HeightBuckets int     `yaml:"height_buckets"` // Number of distinct bottom heights
	EvictX        float64 `yaml:"evict_x"`        // Pairs are removed once x drops below this
}

// FlappyPlayer defines the character placement and sprite scale.
type FlappyPlayer struct {
	X     float64 `yaml:"x"`
	Scale float64 `yaml:"scale"`
}

// FlappyWorld defines the scrolling scenery.
type FlappyWorld struct {
	Parallax float64 `yaml:"parallax"` // Background speed relative to the ground
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string  `yaml:"type"`   // "time" or "none"
	MaxAt float64 `yaml:"max_at"` // Seconds at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ErrUnknownPreset is returned by ParsePreset for unrecognized names.
var ErrUnknownPreset = errors.New("config: unknown difficulty preset")

// ParsePreset converts a flag value to a preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// Validate reports the first setting that would break the simulation.
func (c FlappyConfig) Validate() error {
	switch {
	case c.Physics.Gravity < 0:
		return fmt.Errorf("config: physics.gravity must be >= 0, got %v", c.Physics.Gravity)
	case c.Physics.MinThrustDuration < 0:
		return fmt.Errorf("config: physics.min_thrust_duration must be >= 0, got %v", c.Physics.MinThrustDuration)
	case c.Physics.BaseSpeed < 0:
		return fmt.Errorf("config: physics.base_speed must be >= 0, got %v", c.Physics.BaseSpeed)
	case c.Tilt.Max < c.Tilt.ThrustAngle:
		return fmt.Errorf("config: tilt.max (%v) is below tilt.thrust_angle (%v)", c.Tilt.Max, c.Tilt.ThrustAngle)
	case c.Animation.DownMin > c.Animation.DownMax:
		return fmt.Errorf("config: animation.down_min (%v) is above animation.down_max (%v)", c.Animation.DownMin, c.Animation.DownMax)
	case c.Obstacles.Spacing < 1:
		return fmt.Errorf("config: obstacles.spacing must be >= 1, got %d", c.Obstacles.Spacing)
	case c.Obstacles.GapSize < 1:
		return fmt.Errorf("config: obstacles.gap_size must be >= 1, got %d", c.Obstacles.GapSize)
	case c.Obstacles.HeightStep < 0:
		return fmt.Errorf("config: obstacles.height_step must be >= 0, got %d", c.Obstacles.HeightStep)
	case c.Obstacles.HeightBuckets < 1:
		return fmt.Errorf("config: obstacles.height_buckets must be >= 1, got %d", c.Obstacles.HeightBuckets)
	case c.Player.Scale <= 0:
		return fmt.Errorf("config: player.scale must be > 0, got %v", c.Player.Scale)
	case c.World.Parallax < 0:
		return fmt.Errorf("config: world.parallax must be >= 0, got %v", c.World.Parallax)
	}

	switch c.Difficulty.Progression.Type {
	case "time", "none", "":
	default:
		return fmt.Errorf("config: difficulty.progression.type must be \"time\" or \"none\", got %q", c.Difficulty.Progression.Type)
	}
	return nil
}
