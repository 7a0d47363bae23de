package main

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/marcsingleton/Pydemic/internal/config"
	"github.com/marcsingleton/Pydemic/internal/game"
	"github.com/marcsingleton/Pydemic/internal/logging"
	"github.com/marcsingleton/Pydemic/internal/maps"
	"github.com/marcsingleton/Pydemic/internal/server"
	"go.uber.org/zap"
)

//go:embed index.html
var indexHTML []byte

var (
	configPath = flag.String("config", "config/pydemic.yaml", "path to configuration file")
	addr       = flag.String("addr", "", "address to serve spectators on, overrides spectator.address")
	seed       = flag.Uint64("seed", 1, "random seed of the demo game")
	delay      = flag.Duration("delay", -1, "pause before every response, overrides spectator.delay")
	scriptPath = flag.String("script", "", "file of responses, one per line; autopilot when empty")
)

// options is the demo setup after flags are laid over the config file.
type options struct {
	addr     string
	delay    time.Duration
	logging  config.LoggingConfig
	settings game.Settings
}

// resolveOptions lets explicit flags win over the config. A negative delay
// or an empty address means the flag was not given. The demo always logs to
// the console.
func resolveOptions(cfg *config.Config, addrFlag string, delayFlag time.Duration, seedFlag uint64) (options, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return options{}, err
	}
	settings.Seed = seedFlag

	opts := options{
		addr:     cfg.Spectator.Address,
		delay:    cfg.Spectator.Delay,
		logging:  cfg.Logging,
		settings: settings,
	}
	if addrFlag != "" {
		opts.addr = addrFlag
	}
	if delayFlag >= 0 {
		opts.delay = delayFlag
	}
	opts.logging.Console = true
	return opts, nil
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	opts, err := resolveOptions(cfg, *addr, *delay, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(opts.logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pilot := &autopilot{}
	var input game.InputProvider = pilot
	if *scriptPath != "" {
		lines, err := readScript(*scriptPath)
		if err != nil {
			logger.Fatal("failed to read script", zap.Error(err))
		}
		input = game.NewScriptedInput(lines...)
	}

	engine, err := game.NewGame(opts.settings, maps.Default(), &paced{ctx: ctx, delay: opts.delay, next: input}, nil, logger)
	if err != nil {
		logger.Fatal("failed to set up game", zap.Error(err))
	}
	pilot.engine = engine

	hub := server.NewHub(logger)
	go hub.Run(ctx)
	detach := hub.Attach(engine)
	defer detach()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/state", hub.ServeState)
	mux.HandleFunc("/journal", hub.ServeJournal)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexHTML)
	})
	srv := &http.Server{Addr: opts.addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	go func() {
		logger.Info("spectator demo starting", zap.String("address", opts.addr), zap.Uint64("seed", opts.settings.Seed), zap.Duration("delay", opts.delay))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	outcome, err := engine.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("demo game stopped", zap.Error(err))
	} else if err == nil {
		logger.Info("demo game finished", zap.Stringer("outcome", outcome))
	}

	// Keep serving the final view until interrupted.
	<-ctx.Done()
}

func readScript(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
