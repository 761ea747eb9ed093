package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the default configuration.
// It mirrors defaults/flappy.yaml and is used when the embedded file
// cannot be parsed.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Physics: FlappyPhysics{
			Gravity:           2.0,
			ThrustImpulse:     0.6,
			MinThrustDuration: 0.15,
			BaseSpeed:         15,
		},
		Tilt: FlappyTilt{
			ThrustAngle: -30,
			Step:        2,
			Max:         50,
		},
		Animation: FlappyAnimation{
			DownMin: -30,
			DownMax: -24,
			UpMax:   12,
		},
		Obstacles: FlappyObstacles{
			Spacing:       24,
			GapSize:       16,
			HeightStep:    0,
			HeightBuckets: 10,
			EvictX:        -12,
		},
		Player: FlappyPlayer{
			X:     6,
			Scale: 1.5,
		},
		World: FlappyWorld{
			Parallax: 0.5,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 120,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
			},
		},
	}
}
