package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/marcsingleton/Pydemic/internal/config"
	"github.com/marcsingleton/Pydemic/internal/console"
	"github.com/marcsingleton/Pydemic/internal/game"
	"github.com/marcsingleton/Pydemic/internal/logging"
	"github.com/marcsingleton/Pydemic/internal/maps"
	"github.com/marcsingleton/Pydemic/internal/server"
	"go.uber.org/zap"
)

const (
	exitWon   = 0
	exitLost  = 1
	exitError = 2
)

var (
	configPath = flag.String("config", "config/pydemic.yaml", "path to configuration file")
	players    = flag.String("players", "", "comma-separated player names, overrides game.players")
	epidemics  = flag.Int("epidemics", 0, "number of epidemic cards (4-6), overrides game.epidemics")
	seed       = flag.Uint64("seed", 0, "random seed, overrides game.seed")
	mapName    = flag.String("map", "", "map name, overrides game.map")
	version    = "dev" // set via ldflags during build
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return exitError
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return exitError
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return exitError
	}
	defer logger.Sync()

	logger.Info("starting pydemic",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := loadMap(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to load map", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to load map: %v\n", err)
		return exitError
	}

	settings, err := cfg.Settings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return exitError
	}

	renderer := console.NewRenderer(os.Stdout)
	engine, err := game.NewGame(settings, m, console.NewInput(os.Stdin, os.Stdout), renderer, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up game: %v\n", err)
		return exitError
	}

	if cfg.Spectator.Enabled {
		hub := server.NewHub(logger)
		go hub.Run(ctx)
		detach := hub.Attach(engine)
		defer detach()
		go func() {
			if err := hub.ListenAndServe(ctx, cfg.Spectator.Address); err != nil {
				logger.Error("spectator server error", zap.Error(err))
			}
		}()
		fmt.Printf("Spectators can connect to ws://%s/ws\n", cfg.Spectator.Address)
	}

	fmt.Printf("Game %s on map %s, seed %d\n", engine.State().ID, m.Name, engine.State().Seed)
	renderer.Status(engine.View())

	outcome, err := engine.Run(ctx)
	switch {
	case errors.Is(err, io.EOF):
		logger.Info("input closed, abandoning game")
		return exitLost
	case err != nil:
		logger.Error("game aborted", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Game aborted: %v\n", err)
		return exitError
	}

	if outcome == game.OutcomeWon {
		return exitWon
	}
	return exitLost
}

func applyFlags(cfg *config.Config) {
	if *players != "" {
		cfg.Game.Players = strings.Split(*players, ",")
		for i := range cfg.Game.Players {
			cfg.Game.Players[i] = strings.TrimSpace(cfg.Game.Players[i])
		}
	}
	if *epidemics != 0 {
		cfg.Game.Epidemics = *epidemics
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}
	if *mapName != "" {
		cfg.Game.Map = *mapName
	}
}

// loadMap reads the configured map from Postgres when a database URL is set,
// otherwise from the embedded default plus any YAML maps in maps.dir.
func loadMap(ctx context.Context, cfg *config.Config, logger *zap.Logger) (maps.Map, error) {
	if cfg.Maps.DatabaseURL != "" {
		source, err := maps.NewPostgresSource(ctx, cfg.Maps.DatabaseURL)
		if err != nil {
			return maps.Map{}, err
		}
		defer source.Close()
		return source.Load(ctx, cfg.Game.Map)
	}

	registry := maps.NewRegistry()
	if cfg.Maps.Dir != "" {
		loaded, err := registry.LoadDir(cfg.Maps.Dir)
		if err != nil {
			return maps.Map{}, err
		}
		logger.Info("loaded maps", zap.String("dir", cfg.Maps.Dir), zap.Strings("maps", loaded))
	}
	return registry.Load(ctx, cfg.Game.Map)
}
