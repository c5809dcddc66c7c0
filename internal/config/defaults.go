package config

import (
	_ "embed"
)

//go:embed defaults/bobble.yaml
var defaultBobbleYAML []byte

// DefaultBobbleConfig returns the default bubble shooter configuration.
func DefaultBobbleConfig() BobbleConfig {
	return BobbleConfig{
		Geometry: GeometryConfig{
			Cols:         12,
			Radius:       18,
			BoardRows:    18,
			LeftMargin:   24,
			RightMargin:  24,
			TopMargin:    24,
			BottomMargin: 96,
			Inset:        24,
			FieldHeight:  720,
		},
		Play: PlayConfig{
			ShotSpeed:           640,
			CeilingDropPerShots: 8,
			ClearMatch:          3,
			MinAimAngleDeg:      7,
			AimStepDeg:          2,
			ContactEpsilon:      0.5,
			MaxSnapRetries:      8,
			MaxTravel:           4,
			AimGuideLen:         420,
		},
		Field: FieldConfig{
			InitRows:  6,
			EmptyRate: 0.1,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 3000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.25,
				DropReduction:   3,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "bobble", "bobble_random":
		return defaultBobbleYAML
	default:
		return nil
	}
}
