// Package config loads the game, logging, spectator and map settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/marcsingleton/Pydemic/internal/game"
	"github.com/marcsingleton/Pydemic/internal/maps"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PYDEMIC_GAME_EPIDEMICS=5.
const EnvPrefix = "PYDEMIC"

// Config is the root configuration.
type Config struct {
	Game      GameConfig      `mapstructure:"game"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Spectator SpectatorConfig `mapstructure:"spectator"`
	Maps      MapsConfig      `mapstructure:"maps"`
}

// GameConfig holds the rules of one game.
type GameConfig struct {
	Players        []string          `mapstructure:"players"`
	Roles          map[string]string `mapstructure:"roles"`
	Epidemics      int               `mapstructure:"epidemics"`
	Map            string            `mapstructure:"map"`
	StartCity      string            `mapstructure:"start_city"`
	OutbreakMax    int               `mapstructure:"outbreak_max"`
	InfectionRates []int             `mapstructure:"infection_rates"`
	CubeNum        int               `mapstructure:"cube_num"`
	CubeMax        int               `mapstructure:"cube_max"`
	StationNum     int               `mapstructure:"station_num"`
	HandMax        int               `mapstructure:"hand_max"`
	ActionNum      int               `mapstructure:"action_num"`
	Seed           uint64            `mapstructure:"seed"`
}

// LoggingConfig configures the zap logger and its rotating file sink.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Console    bool   `mapstructure:"console"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// SpectatorConfig configures the read-only websocket feed.
type SpectatorConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Address string        `mapstructure:"address"`
	Delay   time.Duration `mapstructure:"delay"`
}

// MapsConfig selects where maps come from besides the embedded default.
type MapsConfig struct {
	Dir         string `mapstructure:"dir"`
	DatabaseURL string `mapstructure:"database_url"`
}

// Load reads the config file at path, if it exists, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := game.DefaultSettings()
	v.SetDefault("game.players", d.Players)
	v.SetDefault("game.roles", map[string]string{})
	v.SetDefault("game.epidemics", d.Epidemics)
	v.SetDefault("game.map", maps.DefaultName)
	v.SetDefault("game.start_city", "")
	v.SetDefault("game.outbreak_max", d.OutbreakMax)
	v.SetDefault("game.infection_rates", d.InfectionRates)
	v.SetDefault("game.cube_num", d.CubeNum)
	v.SetDefault("game.cube_max", d.CubeMax)
	v.SetDefault("game.station_num", d.StationNum)
	v.SetDefault("game.hand_max", d.HandMax)
	v.SetDefault("game.action_num", d.ActionNum)
	v.SetDefault("game.seed", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.console", false)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", false)

	v.SetDefault("spectator.enabled", false)
	v.SetDefault("spectator.address", "localhost:8080")
	v.SetDefault("spectator.delay", 500*time.Millisecond)

	v.SetDefault("maps.dir", "")
	v.SetDefault("maps.database_url", "")
}

// Validate returns an error naming the first invalid field.
func (c *Config) Validate() error {
	g := c.Game
	if len(g.Players) < 2 || len(g.Players) > 4 {
		return fmt.Errorf("game.players: need 2 to 4 players, got %d", len(g.Players))
	}
	seen := make(map[string]bool, len(g.Players))
	for _, name := range g.Players {
		if strings.TrimSpace(name) == "" {
			return errors.New("game.players: names must be non-empty")
		}
		if seen[name] {
			return fmt.Errorf("game.players: duplicate name %q", name)
		}
		seen[name] = true
	}
	for name, role := range g.Roles {
		if _, ok := playerNamed(g.Players, name); !ok {
			return fmt.Errorf("game.roles: %q is not a player", name)
		}
		if _, err := game.ParseRole(role); err != nil {
			return fmt.Errorf("game.roles: %w", err)
		}
	}
	if g.Epidemics < 4 || g.Epidemics > 6 {
		return fmt.Errorf("game.epidemics: must be between 4 and 6, got %d", g.Epidemics)
	}
	if g.OutbreakMax < 0 {
		return fmt.Errorf("game.outbreak_max: must not be negative, got %d", g.OutbreakMax)
	}
	if len(g.InfectionRates) == 0 {
		return errors.New("game.infection_rates: must not be empty")
	}
	for i, rate := range g.InfectionRates {
		if rate < 1 {
			return fmt.Errorf("game.infection_rates: entry %d must be positive", i)
		}
		if i > 0 && rate < g.InfectionRates[i-1] {
			return fmt.Errorf("game.infection_rates: must be non-decreasing at entry %d", i)
		}
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"game.cube_num", g.CubeNum},
		{"game.cube_max", g.CubeMax},
		{"game.station_num", g.StationNum},
		{"game.hand_max", g.HandMax},
		{"game.action_num", g.ActionNum},
	} {
		if f.value < 1 {
			return fmt.Errorf("%s: must be at least 1, got %d", f.name, f.value)
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: must be console or json, got %q", c.Logging.Format)
	}

	if c.Spectator.Enabled && c.Spectator.Address == "" {
		return errors.New("spectator.address: required when the spectator feed is enabled")
	}
	if c.Spectator.Delay < 0 {
		return errors.New("spectator.delay: must not be negative")
	}
	return nil
}

// Settings converts the game section into engine settings.
func (c *Config) Settings() (game.Settings, error) {
	g := c.Game
	s := game.Settings{
		Players:        append([]string(nil), g.Players...),
		Epidemics:      g.Epidemics,
		StartCity:      g.StartCity,
		OutbreakMax:    g.OutbreakMax,
		InfectionRates: append([]int(nil), g.InfectionRates...),
		CubeNum:        g.CubeNum,
		CubeMax:        g.CubeMax,
		StationNum:     g.StationNum,
		HandMax:        g.HandMax,
		ActionNum:      g.ActionNum,
		Seed:           g.Seed,
	}
	if len(g.Roles) > 0 {
		s.Roles = make(map[string]game.Role, len(g.Roles))
		for key, value := range g.Roles {
			name, ok := playerNamed(g.Players, key)
			if !ok {
				return game.Settings{}, fmt.Errorf("game.roles: %q is not a player", key)
			}
			role, err := game.ParseRole(value)
			if err != nil {
				return game.Settings{}, fmt.Errorf("game.roles: %w", err)
			}
			s.Roles[name] = role
		}
	}
	return s, nil
}

// playerNamed matches a roles key to a player. Viper lowercases map keys, so
// the match ignores case.
func playerNamed(players []string, key string) (string, bool) {
	for _, name := range players {
		if strings.EqualFold(name, key) {
			return name, true
		}
	}
	return "", false
}
