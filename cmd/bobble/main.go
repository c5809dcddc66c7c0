// bobble is a bubble shooter for the terminal.
//
// Usage:
//
//	bobble play              - Pick a level and play
//	bobble levels            - List campaign levels
//	bobble inspect [level]   - Print a level's board and snapshot hash
//	bobble volume [0-100]    - Show or set the saved volume
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.bobble/bobble.db)
//	--log-level <level>  - debug, info, warn or error (default: info)
//	--log-file <path>    - Log destination (default: ~/.bobble/bobble.log)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bobble/internal/games/bobble"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

// logFile is closed after the command finishes.
var logFile io.Closer

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bobble",
	Short: "Bobble - a bubble shooter in your terminal",
	Long: `Bobble is a terminal bubble shooter. Aim with the arrow keys or the
mouse, fire with space or a click, and clear the board by matching
three or more pieces of the same color.

Available commands:
  play     - Pick a level and play
  levels   - List campaign levels
  inspect  - Print a level's board and snapshot hash
  volume   - Show or set the saved volume

Examples:
  bobble play
  bobble play --level 03 --difficulty hard
  bobble play --random
  bobble inspect 01 --shots 20
  bobble volume 40`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.bobble/bobble.db", "Path to settings database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.bobble/bobble.log", "Log file (empty to discard logs)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(volumeCmd)
}

// setupLogging installs the default logger. The game owns the terminal, so
// logs go to a file.
func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	var w io.Writer = io.Discard
	if flagLogFile != "" {
		path := expandHome(flagLogFile)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		w = f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "bobble",
		Level:           level,
	})
	log.SetDefault(logger)
	bobble.SetLogger(logger)
	return nil
}

// expandHome replaces a leading ~ with the home directory.
func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
