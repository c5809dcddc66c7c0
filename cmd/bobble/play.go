package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-bobble/internal/audio"
	"github.com/vovakirdan/tui-bobble/internal/audio/speakerout"
	"github.com/vovakirdan/tui-bobble/internal/config"
	"github.com/vovakirdan/tui-bobble/internal/core"
	"github.com/vovakirdan/tui-bobble/internal/games/bobble"
	"github.com/vovakirdan/tui-bobble/internal/games/bobble/levels"
	"github.com/vovakirdan/tui-bobble/internal/platform/tui"
	"github.com/vovakirdan/tui-bobble/internal/registry"
	"github.com/vovakirdan/tui-bobble/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagLevel      string
	flagRandom     bool
	flagLevelsDir  string
	flagMute       bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play bobble",
	Long: `Start a game. Without --level or --random a level picker is shown
first, and B returns to it from the game.

Controls:
  Left/Right, A/D  - Aim
  Mouse            - Aim, click to fire
  Space/Up         - Fire
  Enter            - Next level (after a clear)
  P/Esc            - Pause
  R                - Restart the level
  B                - Back to the level picker
  +/-              - Volume
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Fewer starting rows, slower ceiling
  normal - Default layout and cadence
  hard   - More starting rows, faster ceiling
  fixed  - No progression, stays at config's initial level

Examples:
  bobble play
  bobble play --level 05
  bobble play --random --difficulty hard
  bobble play --levels-dir ./my-levels
  bobble play --config ./my-bobble.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagLevel, "level", "", "Start the campaign at this level ID")
	playCmd.Flags().BoolVar(&flagRandom, "random", false, "Play random boards instead of the campaign")
	playCmd.Flags().StringVar(&flagLevelsDir, "levels-dir", "", "Extra level directory (default ~/.bobble/levels)")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound output")
}

// applyGameFlags passes the game flags to the bobble package.
func applyGameFlags() error {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	bobble.SetConfigPath(flagConfig)
	bobble.SetDifficultyPreset(preset)
	bobble.SetLevelsDir(flagLevelsDir)
	return nil
}

// runtimeConfig builds the runtime config from the terminal and global flags.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

func runPlay(cmd *cobra.Command, args []string) error {
	if err := applyGameFlags(); err != nil {
		return err
	}
	cfg := runtimeConfig()

	// Missing storage is not fatal; the volume just is not remembered
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open settings database: %v\n", err)
		log.Warn("running without settings database", "path", flagDBPath, "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	manager, stopAudio := startAudio(store)
	defer stopAudio()

	usePicker := flagLevel == "" && !flagRandom
	current := flagLevel
	for {
		gameID := "bobble"
		if flagRandom {
			gameID = "bobble_random"
		}

		if usePicker {
			lvls, err := levels.NewLoader(flagLevelsDir, log.Default()).LoadAll()
			if err != nil {
				return fmt.Errorf("loading levels: %w", err)
			}
			sel, err := tui.RunLevelPicker(lvls, current, cfg)
			if err != nil {
				return err
			}
			if sel == nil {
				return nil
			}
			if sel.Random {
				gameID = "bobble_random"
			} else {
				gameID = "bobble"
				current = sel.LevelID
			}
		}
		bobble.SetStartLevel(current)

		game, err := registry.Create(gameID)
		if err != nil {
			return err
		}

		back, err := tui.Run(game, manager, store, cfg)
		if err != nil {
			return fmt.Errorf("running game: %w", err)
		}
		if !back || !usePicker {
			return nil
		}
	}
}

// startAudio opens the speaker at the saved volume. The manager is nil when
// sound is off or unavailable.
func startAudio(store *storage.Store) (*audio.Manager, func()) {
	if flagMute {
		return nil, func() {}
	}
	volume := storage.DefaultVolume
	if store != nil {
		v, err := store.Volume()
		if err != nil {
			log.Warn("cannot read volume", "err", err)
		}
		volume = v
	}

	manager := audio.NewManager(volume, log.Default())
	stop, err := speakerout.Start(manager)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: audio unavailable: %v\n", err)
		log.Warn("audio unavailable, playing silently", "err", err)
		return nil, func() {}
	}
	return manager, stop
}
