package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/tictac/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides: TICTAC_CONNECTION_PORT, TICTAC_LOG_LEVEL...
const EnvPrefix = "TICTAC"

// EnvConfigPath names the config file when no path is given.
const EnvConfigPath = "TICTAC_CONFIG"

// Options controls where Load looks.
type Options struct {
	// Path is an explicit config file. Empty searches ./tictac.*, ./Config/config.*
	// and ~/.tictac/tictac.*; a missing file is not an error then.
	Path string
	// Overrides are dotted keys ("connection.port") applied above every other source.
	Overrides map[string]any
}

// Load merges defaults, the config file, the environment and overrides,
// then decodes and validates the result.
func Load(opts Options) (Config, string, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, val := range flatten("", Settings(Default())) {
		v.SetDefault(key, val)
	}

	path := opts.Path
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tictac")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".tictac"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("%w: read config: %w", domain.ErrConfiguration, err)
		}
		if opts.Path == "" && path == "" {
			if legacy := legacyPath(); legacy != "" {
				v.SetConfigFile(legacy)
				if err := v.ReadInConfig(); err != nil {
					return Config{}, "", fmt.Errorf("%w: read config: %w", domain.ErrConfiguration, err)
				}
			}
		}
	}

	for key, val := range opts.Overrides {
		v.Set(key, val)
	}

	cfg, err := decode(v.AllSettings())
	if err != nil {
		return Config{}, "", err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, v.ConfigFileUsed(), err
	}
	return cfg, v.ConfigFileUsed(), nil
}

// legacyPath finds a Config/config.json left by the device's reference tool.
func legacyPath() string {
	for _, p := range []string{filepath.Join("Config", "config.json"), filepath.Join("..", "Config", "config.json")} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func decode(settings map[string]any) (Config, error) {
	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			numberToDurationHook,
		),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(settings); err != nil {
		return Config{}, fmt.Errorf("%w: decode config: %w", domain.ErrConfiguration, err)
	}
	return cfg, nil
}

// numberToDurationHook reads bare numbers as milliseconds, the unit the
// device firmware documents its timeouts in.
func numberToDurationHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	switch n := data.(type) {
	case int:
		return time.Duration(n) * time.Millisecond, nil
	case int64:
		return time.Duration(n) * time.Millisecond, nil
	case float64:
		return time.Duration(n * float64(time.Millisecond)), nil
	}
	return data, nil
}

// Settings returns cfg as nested maps keyed like the config file.
// Durations are rendered as strings ("2s").
func Settings(cfg Config) map[string]any {
	return map[string]any{
		"connection": map[string]any{
			"port":     cfg.Connection.Port,
			"baudRate": cfg.Connection.BaudRate,
			"settle":   cfg.Connection.Settle.String(),
		},
		"timeouts": map[string]any{
			"readConstant":    cfg.Timeouts.ReadConstant.String(),
			"readMultiplier":  cfg.Timeouts.ReadMultiplier.String(),
			"writeConstant":   cfg.Timeouts.WriteConstant.String(),
			"writeMultiplier": cfg.Timeouts.WriteMultiplier.String(),
			"maxLineLength":   cfg.Timeouts.MaxLineLength,
		},
		"game": map[string]any{
			"mode":         cfg.Game.Mode,
			"pollInterval": cfg.Game.PollInterval.String(),
		},
		"log": map[string]any{
			"level":      cfg.Log.Level,
			"format":     cfg.Log.Format,
			"file":       cfg.Log.File,
			"maxSizeMB":  cfg.Log.MaxSizeMB,
			"maxBackups": cfg.Log.MaxBackups,
			"maxAgeDays": cfg.Log.MaxAgeDays,
			"compress":   cfg.Log.Compress,
		},
		"history": map[string]any{
			"backend":       cfg.History.Backend,
			"dir":           cfg.History.Dir,
			"redisAddr":     cfg.History.RedisAddr,
			"redisPassword": cfg.History.RedisPassword,
			"redisDB":       cfg.History.RedisDB,
			"ttl":           cfg.History.TTL.String(),
		},
		"metrics": map[string]any{
			"addr": cfg.Metrics.Addr,
		},
	}
}

func flatten(prefix string, m map[string]any) map[string]any {
	out := make(map[string]any)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := m[k].(map[string]any); ok {
			for sk, sv := range flatten(key, sub) {
				out[sk] = sv
			}
			continue
		}
		out[key] = m[k]
	}
	return out
}
