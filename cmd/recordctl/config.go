package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	store "github.com/likearthian/recordstore"
	"github.com/spf13/viper"
)

type config struct {
	DB        store.Config
	LogLevel  string
	LogFormat string
}

// loadConfig reads .env, then the optional config file, then RECORDCTL_*
// environment variables. Flags bound to v win over all of them.
func loadConfig(v *viper.Viper, configFile string) (config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return config{}, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	v.SetEnvPrefix("RECORDCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("driver", "sqlite")
	v.SetDefault("database", "recordctl.db")
	v.SetDefault("log-level", "warn")
	v.SetDefault("log-format", "text")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	return config{
		DB: store.Config{
			Driver:   v.GetString("driver"),
			DSN:      v.GetString("dsn"),
			Host:     v.GetString("host"),
			Port:     v.GetString("port"),
			Database: v.GetString("database"),
			User:     v.GetString("user"),
			Password: v.GetString("password"),
		},
		LogLevel:  v.GetString("log-level"),
		LogFormat: v.GetString("log-format"),
	}, nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
