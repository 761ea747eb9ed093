// flappy is a side-scrolling flying game for the terminal and the desktop.
//
// Usage:
//
//	flappy play              - Play in the terminal
//	flappy window            - Play in a desktop window
//	flappy runs              - List recorded runs
//	flappy replay <id>       - Replay a recorded run
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible obstacle heights
//	--db <path>          - Set database path (default: ~/.flappy/runs.db)
//	--config <path>      - Use a custom game config YAML
//	--difficulty <name>  - Difficulty preset: easy, normal, hard, fixed
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy - keep the bird in the air",
	Long: `Flappy is a side-scrolling flying game. Tap to thrust upward,
let gravity do the rest, and watch the pipes scroll past.

Available commands:
  play     - Play in the terminal
  window   - Play in a desktop window
  runs     - List or delete recorded runs
  replay   - Replay a recorded run

Examples:
  flappy play
  flappy play --record --difficulty hard
  flappy window --scale 6
  flappy runs
  flappy replay 3 --watch`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.flappy/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(replayCmd)
}
