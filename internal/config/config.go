package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sandeepkv93/chorechart/internal/model"
)

type RuntimeConfig struct {
	Storage             string   `mapstructure:"storage"`
	StatePath           string   `mapstructure:"state_path"`
	Timezone            string   `mapstructure:"timezone"`
	Roster              []string `mapstructure:"roster"`
	DefaultPIN          string   `mapstructure:"default_pin"`
	HashPIN             bool     `mapstructure:"hash_pin"`
	ExportDir           string   `mapstructure:"export_dir"`
	LogLevel            string   `mapstructure:"log_level"`
	LogFile             string   `mapstructure:"log_file"`
	ClockRefreshSeconds int      `mapstructure:"clock_refresh_seconds"`
	SchedulerBuffer     int      `mapstructure:"scheduler_buffer"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Storage:             "sqlite",
		StatePath:           DefaultStatePath(),
		Timezone:            "Local",
		Roster:              slices.Clone(model.DefaultRoster),
		DefaultPIN:          model.DefaultPIN,
		HashPIN:             false,
		ExportDir:           ".",
		LogLevel:            "info",
		ClockRefreshSeconds: 60,
		SchedulerBuffer:     16,
	}
}

// DefaultStatePath returns ~/.chorechart/chores.db, or a file in the working
// directory when there is no home directory.
func DefaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".chorechart.db"
	}
	return filepath.Join(home, ".chorechart", "chores.db")
}

// DefaultConfigPath is where LoadFile looks when no --config flag is given.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".chorechart", "config.yaml")
}

// LoadFile overlays the settings found in path on base. The format follows
// the file extension (yaml, toml, json).
func LoadFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	cfg := base
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	// Decoding into a populated slice overwrites element-wise, so a shorter
	// roster would keep the tail of the old one.
	if v.IsSet("roster") {
		cfg.Roster = nil
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return base, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("CHORECHART_STORAGE"); ok {
		cfg.Storage = strings.ToLower(v)
	}
	if v, ok := getEnvString("CHORECHART_STATE"); ok {
		cfg.StatePath = v
	}
	if v, ok := getEnvString("CHORECHART_TIMEZONE"); ok {
		cfg.Timezone = v
	}
	if v, ok := getEnvList("CHORECHART_ROSTER"); ok {
		cfg.Roster = v
	}
	if v, ok := getEnvString("CHORECHART_DEFAULT_PIN"); ok {
		cfg.DefaultPIN = v
	}
	if v, ok := getEnvBool("CHORECHART_HASH_PIN"); ok {
		cfg.HashPIN = v
	}
	if v, ok := getEnvString("CHORECHART_EXPORT_DIR"); ok {
		cfg.ExportDir = v
	}
	if v, ok := getEnvString("CHORECHART_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString("CHORECHART_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvInt("CHORECHART_CLOCK_REFRESH_SECONDS"); ok && v > 0 {
		cfg.ClockRefreshSeconds = v
	}
	if v, ok := getEnvInt("CHORECHART_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	return cfg
}

// Location resolves Timezone. Empty and "Local" mean the host zone.
func (c RuntimeConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", name, err)
	}
	return loc, nil
}

func (c RuntimeConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c RuntimeConfig) ClockRefresh() time.Duration {
	if c.ClockRefreshSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.ClockRefreshSeconds) * time.Second
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvList(name string) ([]string, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return nil, false
	}
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
