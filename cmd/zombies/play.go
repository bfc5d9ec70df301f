package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-zombies/internal/audio"
	"github.com/vovakirdan/tui-zombies/internal/core"
	"github.com/vovakirdan/tui-zombies/internal/entity"
	"github.com/vovakirdan/tui-zombies/internal/platform/tui"
	"github.com/vovakirdan/tui-zombies/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [map]",
	Short: "Play the game",
	Long: `Start the game. Without a map the start screen is shown and a map
is picked from the list; with a map ID the game starts on it right away.

Controls:
  W/Up, S/Down   - Move forward / backward
  A/Left, D/Right - Turn
  Space          - Fire
  P              - Pause
  N              - Toggle night
  H              - Toggle debug overlay
  Esc/Ctrl+C     - Quit

Examples:
  zombies play
  zombies play level1
  zombies play level2 --difficulty easy --seed 42
  zombies play --assets ./my-sprites --no-audio`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, "zombies")
	if err != nil {
		return err
	}

	cfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(logger)
	if err != nil {
		return err
	}

	startMap := ""
	if len(args) == 1 {
		startMap = args[0]
		if !catalog.Exists(startMap) {
			return fmt.Errorf("unknown map %q, run 'zombies maps' to see available maps", startMap)
		}
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("results will not be saved", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	provider := assetProvider()

	var cues entity.Cues = entity.NopCues{}
	if cfg.Audio.Enabled && !flagNoAudio {
		sound := audio.New(cfg.Audio, provider, logger).OpenOrWarn()
		defer sound.Close()
		cues = sound
	}

	player := os.Getenv("USER")
	if player == "" {
		player = "player"
	}

	return tui.Run(tui.Options{
		Config: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:    width,
			ScreenH:    height,
			TickRate:   cfg.Display.FPS,
			Seed:       flagSeed,
			PixelScale: cfg.Display.PixelScale,
		},
		Catalog:  catalog,
		Store:    store,
		Assets:   provider,
		Cues:     cues,
		Logger:   logger,
		Player:   player,
		StartMap: startMap,
	})
}
