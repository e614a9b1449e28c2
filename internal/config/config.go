// Package config loads tictac settings from files, TICTAC_* environment
// variables and command-line overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/tictac/internal/logging"
	"github.com/aretw0/tictac/pkg/domain"
	"github.com/aretw0/tictac/pkg/serial"
)

// History backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the root application configuration.
type Config struct {
	Connection ConnectionConfig `mapstructure:"connection"`
	Timeouts   TimeoutsConfig   `mapstructure:"timeouts"`
	Game       GameConfig       `mapstructure:"game"`
	Log        LogConfig        `mapstructure:"log"`
	History    HistoryConfig    `mapstructure:"history"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// ConnectionConfig identifies the device link.
type ConnectionConfig struct {
	// Port is a serial device ("COM5", "/dev/ttyACM0") or "tcp://host:port".
	Port     string `mapstructure:"port"`
	BaudRate int    `mapstructure:"baudRate"`
	// Settle waits after opening and then flushes input; boards that reset on
	// DTR print boot noise for about two seconds.
	Settle time.Duration `mapstructure:"settle"`
}

// TimeoutsConfig mirrors serial.Timeouts plus the line bound.
type TimeoutsConfig struct {
	ReadConstant    time.Duration `mapstructure:"readConstant"`
	ReadMultiplier  time.Duration `mapstructure:"readMultiplier"`
	WriteConstant   time.Duration `mapstructure:"writeConstant"`
	WriteMultiplier time.Duration `mapstructure:"writeMultiplier"`
	MaxLineLength   int           `mapstructure:"maxLineLength"`
}

// GameConfig holds interaction settings.
type GameConfig struct {
	// Mode preselects 1, 2 or 3. Zero asks the player.
	Mode         int           `mapstructure:"mode"`
	PollInterval time.Duration `mapstructure:"pollInterval"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
	Compress   bool   `mapstructure:"compress"`
}

// HistoryConfig selects where finished games are recorded.
type HistoryConfig struct {
	Backend       string        `mapstructure:"backend"`
	Dir           string        `mapstructure:"dir"`
	RedisAddr     string        `mapstructure:"redisAddr"`
	RedisPassword string        `mapstructure:"redisPassword"`
	RedisDB       int           `mapstructure:"redisDB"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// MetricsConfig enables the HTTP surface when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Default returns a Config populated with defaults. The port is left empty:
// it has no sensible default and must be configured.
func Default() Config {
	t := serial.DefaultTimeouts
	return Config{
		Connection: ConnectionConfig{
			BaudRate: 9600,
			Settle:   2 * time.Second,
		},
		Timeouts: TimeoutsConfig{
			ReadConstant:    t.ReadConstant,
			ReadMultiplier:  t.ReadMultiplier,
			WriteConstant:   t.WriteConstant,
			WriteMultiplier: t.WriteMultiplier,
			MaxLineLength:   serial.DefaultMaxLineLength,
		},
		Game: GameConfig{
			PollInterval: 500 * time.Millisecond,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		History: HistoryConfig{
			Backend: BackendMemory,
			Dir:     ".tictac/history",
		},
	}
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	if err := c.Serial().Validate(); err != nil {
		return err
	}
	if c.Connection.Settle < 0 {
		return fmt.Errorf("%w: connection.settle must not be negative", domain.ErrConfiguration)
	}
	t := c.Timeouts
	if t.ReadConstant < 0 || t.ReadMultiplier < 0 || t.WriteConstant < 0 || t.WriteMultiplier < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", domain.ErrConfiguration)
	}
	if t.ReadConstant+t.ReadMultiplier == 0 {
		return fmt.Errorf("%w: timeouts.readConstant and timeouts.readMultiplier are both zero", domain.ErrConfiguration)
	}
	if t.MaxLineLength <= 0 {
		return fmt.Errorf("%w: timeouts.maxLineLength must be positive", domain.ErrConfiguration)
	}
	if m := domain.Mode(c.Game.Mode); m != domain.ModeUnset && !m.Valid() {
		return fmt.Errorf("%w: game.mode must be 0 (ask), 1, 2 or 3, got %d", domain.ErrConfiguration, c.Game.Mode)
	}
	if c.Game.PollInterval < 0 {
		return fmt.Errorf("%w: game.pollInterval must not be negative", domain.ErrConfiguration)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: invalid log.level %q", domain.ErrConfiguration, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", domain.ErrConfiguration, c.Log.Format)
	}
	switch c.History.Backend {
	case BackendMemory, BackendFile:
	case BackendRedis:
		if c.History.RedisAddr == "" {
			return fmt.Errorf("%w: history.redisAddr is required for the redis backend", domain.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown history.backend %q", domain.ErrConfiguration, c.History.Backend)
	}
	return nil
}

// Serial returns the connection parameters.
func (c Config) Serial() serial.Config {
	return serial.Config{Port: c.Connection.Port, BaudRate: c.Connection.BaudRate}
}

// SerialTimeouts returns the read/write budget policy.
func (c Config) SerialTimeouts() serial.Timeouts {
	return serial.Timeouts{
		ReadConstant:    c.Timeouts.ReadConstant,
		ReadMultiplier:  c.Timeouts.ReadMultiplier,
		WriteConstant:   c.Timeouts.WriteConstant,
		WriteMultiplier: c.Timeouts.WriteMultiplier,
	}
}

// LogOptions returns the logger settings.
func (c Config) LogOptions() logging.Options {
	return logging.Options{
		Level:      logging.ParseLevel(c.Log.Level),
		Format:     c.Log.Format,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
	}
}
