package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppDir is the per-user directory under $HOME holding configs, levels,
// the settings database and the log file.
const AppDir = ".bobble"

// LoadBobble loads the bubble shooter configuration.
// Search order: customPath -> ~/.bobble/configs/bobble.yaml -> ./configs/bobble.yaml -> embedded default
//
// Files are decoded on top of the defaults, so a file only needs the keys it
// changes. An unreadable or invalid custom path is an error; the other
// locations are skipped when they fail.
func LoadBobble(customPath string) (BobbleConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return BobbleConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decodeBobble(data)
		if err != nil {
			return BobbleConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("bobble.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := decodeBobble(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "bobble.yaml")); err == nil {
		if cfg, err := decodeBobble(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := decodeBobble(defaultBobbleYAML)
	if err != nil {
		return DefaultBobbleConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func decodeBobble(data []byte) (BobbleConfig, error) {
	cfg := DefaultBobbleConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BobbleConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return BobbleConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, AppDir, "configs", filename)
}

// UserPath joins elements under ~/.bobble. Empty if home is unavailable.
func UserPath(elem ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home, AppDir}, elem...)...)
}

// ApplyBobblePreset modifies the config based on a difficulty preset.
func ApplyBobblePreset(cfg *BobbleConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust the starting layout and ceiling cadence
	switch preset {
	case DifficultyEasy:
		cfg.Field.InitRows = 4
		cfg.Field.EmptyRate = 0.2
		cfg.Play.CeilingDropPerShots = 10
	case DifficultyHard:
		cfg.Field.InitRows = 8
		cfg.Field.EmptyRate = 0.05
		cfg.Play.CeilingDropPerShots = 6
	}
}
