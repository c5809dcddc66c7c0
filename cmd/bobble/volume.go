package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bobble/internal/storage"
)

var volumeCmd = &cobra.Command{
	Use:   "volume [0-100]",
	Short: "Show or set the saved volume",
	Long: `Without an argument prints the saved volume. With one, saves it.
Values outside 0-100 are clamped; 0 mutes.

Examples:
  bobble volume
  bobble volume 40`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVolume,
}

func runVolume(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 0 {
		v, err := store.Volume()
		if err != nil {
			return err
		}
		fmt.Printf("Volume: %d\n", v)
		return nil
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid volume %q: want a number from 0 to 100", args[0])
	}
	v, err := store.SetVolume(n)
	if err != nil {
		return err
	}
	fmt.Printf("Volume set to %d\n", v)
	return nil
}
