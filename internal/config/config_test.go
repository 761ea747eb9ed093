package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := ParseFlappy(defaultFlappyYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultFlappyConfig()) {
		t.Errorf("defaults/flappy.yaml and DefaultFlappyConfig() disagree:\n yaml: %+v\n code: %+v", cfg, DefaultFlappyConfig())
	}
}

func TestParseFlappyPartialOverride(t *testing.T) {
	cfg, err := ParseFlappy([]byte("physics:\n  gravity: 3.5\n"))
	if err != nil {
		t.Fatalf("ParseFlappy() failed: %v", err)
	}
	if cfg.Physics.Gravity != 3.5 {
		t.Errorf("gravity = %v, expected 3.5", cfg.Physics.Gravity)
	}
	if cfg.Physics.MinThrustDuration != DefaultFlappyConfig().Physics.MinThrustDuration {
		t.Error("keys missing from the file should keep their defaults")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FlappyConfig)
		wantErr string
	}{
		{"defaults", func(*FlappyConfig) {}, ""},
		{"negative gravity", func(c *FlappyConfig) { c.Physics.Gravity = -1 }, "gravity"},
		{"zero spacing", func(c *FlappyConfig) { c.Obstacles.Spacing = 0 }, "spacing"},
		{"zero gap", func(c *FlappyConfig) { c.Obstacles.GapSize = 0 }, "gap_size"},
		{"no buckets", func(c *FlappyConfig) { c.Obstacles.HeightBuckets = 0 }, "height_buckets"},
		{"zero scale", func(c *FlappyConfig) { c.Player.Scale = 0 }, "scale"},
		{"tilt inverted", func(c *FlappyConfig) { c.Tilt.Max = -40 }, "tilt.max"},
		{"band inverted", func(c *FlappyConfig) { c.Animation.DownMin = 0 }, "down_min"},
		{"bad progression", func(c *FlappyConfig) { c.Difficulty.Progression.Type = "score" }, "progression"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultFlappyConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Validate() = %v, expected error mentioning %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadFlappyCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("obstacles:\n  spacing: 40\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFlappy(path)
	if err != nil {
		t.Fatalf("LoadFlappy() failed: %v", err)
	}
	if cfg.Obstacles.Spacing != 40 {
		t.Errorf("spacing = %d, expected 40", cfg.Obstacles.Spacing)
	}

	if _, err := LoadFlappy(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing custom config should wrap os.ErrNotExist, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("obstacles:\n  spacing: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFlappy(bad); err == nil {
		t.Error("invalid custom config should fail to load")
	}
}

func TestMarshalRoundTripKeepsSettings(t *testing.T) {
	cfg := DefaultFlappyConfig()
	cfg.Physics.Gravity = 7
	data, err := MarshalFlappy(cfg)
	if err != nil {
		t.Fatalf("MarshalFlappy() failed: %v", err)
	}
	back, err := ParseFlappy(data)
	if err != nil {
		t.Fatalf("ParseFlappy() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, back) {
		t.Errorf("settings changed through YAML: %+v vs %+v", cfg, back)
	}
}

func TestPresets(t *testing.T) {
	if _, err := ParsePreset("insane"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("ParsePreset(insane) = %v, expected ErrUnknownPreset", err)
	}

	cfg := DefaultFlappyConfig()
	ApplyFlappyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	cfg = DefaultFlappyConfig()
	ApplyFlappyPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset: enabled=%v level=%v", cfg.Difficulty.Enabled, cfg.Difficulty.InitialLevel)
	}
	if cfg.Obstacles.GapSize >= DefaultFlappyConfig().Obstacles.GapSize {
		t.Error("hard preset should narrow the gap")
	}
}

func TestDifficultySpeed(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "time", MaxAt: 100},
		Scaling:     ScalingConfig{SpeedMultiplier: 1.0},
	}
	d := NewDifficultyManager(cfg)

	tests := []struct {
		seconds float64
		want    float64
	}{
		{0, 10},
		{50, 15},
		{100, 20},
		{500, 20}, // clamped at max difficulty
	}
	for _, tc := range tests {
		if got := d.Speed(10, tc.seconds); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Speed(10, %v) = %v, expected %v", tc.seconds, got, tc.want)
		}
	}

	d.SetEnabled(false)
	d.SetInitialLevel(0.5)
	if got := d.Speed(10, 100); got != 15 {
		t.Errorf("disabled progression should hold the initial level, got %v", got)
	}
}
