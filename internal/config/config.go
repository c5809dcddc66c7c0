// Package config provides YAML-based game configuration loading and
// difficulty management for the bubble shooter.
package config

import (
	"errors"
	"fmt"
)

// BobbleConfig contains all configuration for the bubble shooter.
type BobbleConfig struct {
	Geometry   GeometryConfig   `yaml:"geometry"`
	Play       PlayConfig       `yaml:"play"`
	Field      FieldConfig      `yaml:"field"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// GeometryConfig defines the playfield layout in world units (pixels).
type GeometryConfig struct {
	Cols         int     `yaml:"cols"`
	Radius       float64 `yaml:"radius"`
	BoardRows    int     `yaml:"board_rows"`
	LeftMargin   float64 `yaml:"left_margin"`
	RightMargin  float64 `yaml:"right_margin"`
	TopMargin    float64 `yaml:"top_margin"`
	BottomMargin float64 `yaml:"bottom_margin"` // Gap between the danger line and the field bottom
	Inset        float64 `yaml:"inset"`         // Ceiling frame to row 0 centers
	FieldHeight  float64 `yaml:"field_height"`
}

// FieldWidth returns the world width of the playfield including margins.
// Odd rows need one extra radius on the right.
func (g GeometryConfig) FieldWidth() float64 {
	return g.LeftMargin + float64(g.Cols)*2*g.Radius + g.Radius + g.RightMargin
}

// PlayConfig defines shot and matching parameters.
type PlayConfig struct {
	ShotSpeed           float64 `yaml:"shot_speed"` // World units per second
	CeilingDropPerShots int     `yaml:"ceiling_drop_per_shots"`
	ClearMatch          int     `yaml:"clear_match"`
	MinAimAngleDeg      float64 `yaml:"min_aim_angle_deg"`
	AimStepDeg          float64 `yaml:"aim_step_deg"`
	ContactEpsilon      float64 `yaml:"contact_epsilon"`
	MaxSnapRetries      int     `yaml:"max_snap_retries"`
	MaxTravel           float64 `yaml:"max_travel"`    // In field heights
	AimGuideLen         float64 `yaml:"aim_guide_len"` // World units
}

// FieldConfig defines the randomized starting layout.
type FieldConfig struct {
	InitRows  int     `yaml:"init_rows"`
	EmptyRate float64 `yaml:"empty_rate"`
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
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to shot speed at max difficulty
	DropReduction   int     `yaml:"drop_reduction"`   // Shots removed from the drop interval at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. An empty name means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
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

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid bobble config")

// Validate checks the values the simulation divides by or loops over.
func (c BobbleConfig) Validate() error {
	g, p := c.Geometry, c.Play
	switch {
	case g.Cols <= 0:
		return fmt.Errorf("%w: geometry.cols must be positive, got %d", ErrInvalid, g.Cols)
	case g.Radius <= 0:
		return fmt.Errorf("%w: geometry.radius must be positive, got %v", ErrInvalid, g.Radius)
	case g.BoardRows <= 0:
		return fmt.Errorf("%w: geometry.board_rows must be positive, got %d", ErrInvalid, g.BoardRows)
	case g.FieldHeight <= g.TopMargin+g.BottomMargin:
		return fmt.Errorf("%w: geometry.field_height %v leaves no room between margins", ErrInvalid, g.FieldHeight)
	case p.ShotSpeed <= 0:
		return fmt.Errorf("%w: play.shot_speed must be positive, got %v", ErrInvalid, p.ShotSpeed)
	case p.CeilingDropPerShots <= 0:
		return fmt.Errorf("%w: play.ceiling_drop_per_shots must be positive, got %d", ErrInvalid, p.CeilingDropPerShots)
	case p.ClearMatch < 2:
		return fmt.Errorf("%w: play.clear_match must be at least 2, got %d", ErrInvalid, p.ClearMatch)
	case c.Field.EmptyRate < 0 || c.Field.EmptyRate > 1:
		return fmt.Errorf("%w: field.empty_rate must be within [0, 1], got %v", ErrInvalid, c.Field.EmptyRate)
	}
	return nil
}
