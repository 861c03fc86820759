package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jahlib/czech-fool/internal/repository"
)

// Config is the full server configuration tree.
type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	Database repository.Config `mapstructure:"database"`
	Logging  LoggingConfig     `mapstructure:"logging"`
	Game     GameConfig        `mapstructure:"game"`
}

type ServerConfig struct {
	Address   string `mapstructure:"address"`    // websocket + static HTTP listen address
	StaticDir string `mapstructure:"static_dir"` // client assets; empty disables serving
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type GameConfig struct {
	CountdownSeconds int           `mapstructure:"countdown_seconds"`
	BotDelay         time.Duration `mapstructure:"bot_delay"`
	BotRetryDelay    time.Duration `mapstructure:"bot_retry_delay"`
	CleanupInterval  time.Duration `mapstructure:"cleanup_interval"`
	RoomTTL          time.Duration `mapstructure:"room_ttl"`
}

// Load reads configuration from the given file, falling back to
// defaults for anything unset. Environment variables prefixed with
// FOOL_ (FOOL_DATABASE_PASSWORD, FOOL_SERVER_ADDRESS, ...) override
// file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8765")
	v.SetDefault("server.static_dir", "static")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "czech_fool")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.countdown_seconds", 24)
	v.SetDefault("game.bot_delay", 1500*time.Millisecond)
	v.SetDefault("game.bot_retry_delay", time.Second)
	v.SetDefault("game.cleanup_interval", 6*time.Hour)
	v.SetDefault("game.room_ttl", 24*time.Hour)

	v.SetEnvPrefix("FOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			// A missing file is fine; defaults and env cover everything.
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
