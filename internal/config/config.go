package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: occupancy.app_id is CHANNEL_OCCUPANCY_APP_ID.
const EnvPrefix = "CHANNEL"

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Mode           string          `mapstructure:"mode"`
	Port           int             `mapstructure:"port"`
	Secret         string          `mapstructure:"secret"`
	Channel        string          `mapstructure:"channel"`
	Slots          int             `mapstructure:"slots"`
	Cooldown       time.Duration   `mapstructure:"cooldown"`
	NoticeDuration time.Duration   `mapstructure:"notice_duration"`
	TickInterval   time.Duration   `mapstructure:"tick_interval"`
	Occupancy      OccupancyConfig `mapstructure:"occupancy"`
	Engine         EngineConfig    `mapstructure:"engine"`
}

type OccupancyConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	AppID          string        `mapstructure:"app_id"`
	CustomerID     string        `mapstructure:"customer_id"`
	CustomerSecret string        `mapstructure:"customer_secret"`
	Interval       time.Duration `mapstructure:"interval"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type EngineConfig struct {
	SignalURL    string        `mapstructure:"signal_url"`
	ICEServers   []string      `mapstructure:"ice_servers"`
	UID          uint32        `mapstructure:"uid"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	PingInterval time.Duration `mapstructure:"ping_interval"`
	EventBuffer  int           `mapstructure:"event_buffer"`
}

// Load reads config/config.$CONFIG_ENV.yaml (dev by default) after .env.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile loads dotenv files (".env" when none are given), then the YAML
// file, then CHANNEL_* environment overrides. A missing file of either kind
// is not an error.
func LoadFile(fileName string, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load dotenv: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("config loaded")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("channel", cfg.Channel).
		Int("slots", cfg.Slots).
		Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("secret", "change-me")
	v.SetDefault("channel", "")
	v.SetDefault("slots", 3)
	v.SetDefault("cooldown", "5s")
	v.SetDefault("notice_duration", "2s")
	v.SetDefault("tick_interval", "50ms")

	v.SetDefault("occupancy.base_url", "https://api.agora.io/dev/v1")
	v.SetDefault("occupancy.app_id", "")
	v.SetDefault("occupancy.customer_id", "")
	v.SetDefault("occupancy.customer_secret", "")
	v.SetDefault("occupancy.interval", "1s")
	v.SetDefault("occupancy.max_backoff", "30s")
	v.SetDefault("occupancy.timeout", "5s")

	v.SetDefault("engine.signal_url", "ws://localhost:8081/ws")
	v.SetDefault("engine.ice_servers", []string{"stun:stun.l.google.com:19302"})
	v.SetDefault("engine.uid", 0)
	v.SetDefault("engine.send_buffer", 32)
	v.SetDefault("engine.ping_interval", "15s")
	v.SetDefault("engine.event_buffer", 64)
}

func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	switch c.Mode {
	case "debug", "release", "test":
	default:
		bad("mode %q", c.Mode)
	}
	if c.Port <= 0 || c.Port > 65535 {
		bad("port %d", c.Port)
	}
	if c.Channel == "" {
		bad("channel name is required")
	}
	if c.Slots < 1 {
		bad("slots must be at least 1, got %d", c.Slots)
	}
	if c.Engine.SignalURL == "" {
		bad("engine.signal_url is required")
	}
	for name, d := range map[string]time.Duration{
		"cooldown":              c.Cooldown,
		"notice_duration":       c.NoticeDuration,
		"tick_interval":         c.TickInterval,
		"occupancy.interval":    c.Occupancy.Interval,
		"occupancy.max_backoff": c.Occupancy.MaxBackoff,
		"occupancy.timeout":     c.Occupancy.Timeout,
		"engine.ping_interval":  c.Engine.PingInterval,
	} {
		if d <= 0 {
			bad("%s must be positive, got %s", name, d)
		}
	}
	if c.Occupancy.MaxBackoff < c.Occupancy.Interval {
		bad("occupancy.max_backoff %s below interval %s", c.Occupancy.MaxBackoff, c.Occupancy.Interval)
	}
	return errors.Join(errs...)
}
