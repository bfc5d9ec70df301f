// zombies is a top-down zombie survival shooter for the terminal.
//
// Usage:
//
//	zombies play [map]       - Play, optionally starting on a map
//	zombies maps             - List available maps
//	zombies scores [map]     - Show the best runs
//	zombies serve            - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: from config)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.zombies/results.db)
//	--config <path>       - Custom game config YAML
//	--assets <dir>        - Directory with PNG sprites and WAV sounds
//	--difficulty <preset> - easy, normal or hard
//	--log-level <level>   - debug, info, warn or error
//	--no-audio            - Disable sound
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-zombies/internal/assets"
	"github.com/vovakirdan/tui-zombies/internal/config"
	"github.com/vovakirdan/tui-zombies/internal/registry"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagAssets     string
	flagDifficulty string
	flagLogLevel   string
	flagNoAudio    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "zombies",
	Short: "Zombies - survive the horde in your terminal",
	Long: `Zombies is a top-down survival shooter drawn with half-block pixels
right in your terminal. Clear every zombie on the map to win.

Available commands:
  play     - Start the game
  maps     - Show all available maps
  scores   - View the best runs
  serve    - Start SSH server for remote play

Examples:
  zombies play
  zombies play level2 --difficulty hard
  zombies maps
  zombies scores level1
  zombies serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.zombies/results.db", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagAssets, "assets", "", "Directory with sprite PNGs and sound WAVs")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagNoAudio, "no-audio", false, "Disable sound")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger creates a logger writing to w at the --log-level level.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// openLogFile opens ~/.zombies/zombies.log for appending. The terminal is
// owned by the game while it runs, so the interactive client logs there.
func openLogFile() (io.WriteCloser, error) {
	dir := config.HomeDir()
	if dir == "" {
		return nopCloser{io.Discard}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return os.OpenFile(filepath.Join(dir, "zombies.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// loadGameConfig loads the config and applies --difficulty and --fps.
func loadGameConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagDifficulty != "" {
		preset := config.ParseDifficulty(flagDifficulty)
		if preset == "" {
			return config.Config{}, fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", flagDifficulty)
		}
		config.ApplyPreset(&cfg, preset)
	}
	if flagFPS > 0 {
		cfg.Display.FPS = flagFPS
	}
	return cfg, nil
}

// loadCatalog returns the built-in maps plus ~/.zombies/maps.
func loadCatalog(logger *log.Logger) (*registry.Catalog, error) {
	userDir := ""
	if dir := config.HomeDir(); dir != "" {
		userDir = filepath.Join(dir, "maps")
	}
	return registry.Default(userDir, logger)
}

// assetProvider returns the sprite and sound source for --assets.
func assetProvider() assets.Provider {
	if flagAssets == "" {
		return assets.Builtin{}
	}
	return assets.NewDir(flagAssets, assets.Builtin{})
}
