package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandeepkv93/chorechart/internal/config"
	"github.com/sandeepkv93/chorechart/internal/storage"
	"github.com/sandeepkv93/chorechart/internal/store"
)

type globalFlags struct {
	configPath string
	statePath  string
	storage    string
	timezone   string
	logLevel   string
}

type app struct {
	cfg    config.RuntimeConfig
	logger *slog.Logger
	slot   storage.Slot
	store  *store.Store
	closer []func()
}

func (a *app) Close() {
	for i := len(a.closer) - 1; i >= 0; i-- {
		a.closer[i]()
	}
}

// loadConfig layers defaults, the config file, CHORECHART_* variables and
// finally the command line flags.
func loadConfig(flags *globalFlags) (config.RuntimeConfig, error) {
	cfg := config.DefaultRuntimeConfig()
	path := strings.TrimSpace(flags.configPath)
	switch {
	case path != "":
		loaded, err := config.LoadFile(path, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	default:
		if def := config.DefaultConfigPath(); def != "" {
			if _, err := os.Stat(def); err == nil {
				loaded, err := config.LoadFile(def, cfg)
				if err != nil {
					return cfg, err
				}
				cfg = loaded
			}
		}
	}
	cfg = config.RuntimeConfigFromEnv(cfg)
	if flags.statePath != "" {
		cfg.StatePath = flags.statePath
	}
	if flags.storage != "" {
		cfg.Storage = strings.ToLower(flags.storage)
	}
	if flags.timezone != "" {
		cfg.Timezone = flags.timezone
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	return cfg, nil
}

// newLogger writes JSON to the configured log file. Without one, the
// interactive board discards logs so they cannot corrupt the screen and the
// plain commands log to stderr.
func newLogger(cfg config.RuntimeConfig, interactive bool) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if path := strings.TrimSpace(cfg.LogFile); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return slog.New(slog.NewJSONHandler(f, opts)), func() { _ = f.Close() }, nil
	}
	if interactive {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}, nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), func() {}, nil
}

func openApp(ctx context.Context, flags *globalFlags, interactive bool) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := newLogger(cfg, interactive)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	a := &app{cfg: cfg, logger: logger, closer: []func(){closeLog}}

	slot, err := storage.Open(cfg.Storage, cfg.StatePath)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.slot = slot
	a.closer = append(a.closer, func() { _ = slot.Close() })

	a.store = store.New(slot,
		store.WithLocation(loc),
		store.WithRoster(cfg.Roster),
		store.WithDefaultPIN(cfg.DefaultPIN),
		store.WithHashedPIN(cfg.HashPIN),
		store.WithLogger(logger),
	)
	if _, err := a.store.Load(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("load chores: %w", err)
	}
	logger.Debug("cli_event", "event", "store_opened", "backend", cfg.Storage, "path", cfg.StatePath)
	return a, nil
}

var errWrongPIN = errors.New("incorrect PIN")
