// Command atvremote is an interactive client for the Android TV Remote v2
// protocol: mDNS discovery, mutual-TLS pairing, and a persistent
// command-channel connection for sending keys and text.
//
// Usage:
//
//	atvremote [flags]
//
// Flags:
//
//	-config string      Optional YAML configuration file path
//	-state-dir string   Directory for persistent identity/registry/log state
//	-reset              Clear all persisted state before starting
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-device-name string Name advertised as this client's identity CN
//
// Interactive Commands:
//
//	discover, list, pair <ip>, unpair <ip>, connect <ip>, disconnect <ip>,
//	key <ip> <code|name>, text <ip> <words...>, status <ip>, identity, quit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/atvremote/atvremote-go/cmd/atvremote/interactive"
	"github.com/atvremote/atvremote-go/pkg/atvlog"
	"github.com/atvremote/atvremote-go/pkg/discovery"
	"github.com/atvremote/atvremote-go/pkg/identity"
	"github.com/atvremote/atvremote-go/pkg/pairing"
	"github.com/atvremote/atvremote-go/pkg/registry"
	"github.com/chzyer/readline"
	"gopkg.in/yaml.v3"
)

// Config holds the CLI's configuration, built from flags with an optional
// YAML file supplying defaults that explicit flags override.
type Config struct {
	ConfigFile string
	StateDir   string
	Reset      bool
	LogLevel   string
	DeviceName string
}

// fileConfig is the shape of an optional -config YAML file.
type fileConfig struct {
	StateDir   string `yaml:"state_dir"`
	LogLevel   string `yaml:"log_level"`
	DeviceName string `yaml:"device_name"`
}

func main() {
	cfg := parseFlags()

	if cfg.ConfigFile != "" {
		if err := applyFileConfig(&cfg); err != nil {
			fmt.Fprintf(os.Stderr, "atvremote: %v\n", err)
			os.Exit(1)
		}
	}

	if cfg.StateDir == "" {
		cfg.StateDir = defaultStateDir()
	}
	if cfg.Reset {
		if err := os.RemoveAll(cfg.StateDir); err != nil {
			fmt.Fprintf(os.Stderr, "atvremote: reset state dir: %v\n", err)
		}
	}
	if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
		fmt.Fprintf(os.Stderr, "atvremote: create state dir: %v\n", err)
		os.Exit(1)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "atvremote> ",
		HistoryFile:     filepath.Join(cfg.StateDir, "history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "atvremote: readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	logger, closeLogger := buildLogger(cfg, rl.Stdout())
	defer closeLogger()

	idStore := identity.NewFileStore(cfg.StateDir)
	id, err := identity.Get(idStore, cfg.DeviceName, func(err error) {
		fmt.Fprintf(rl.Stdout(), "warning: stored identity unusable, generating a new one: %v\n", err)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "atvremote: identity: %v\n", err)
		os.Exit(1)
	}

	reg, err := registry.NewFileStore(filepath.Join(cfg.StateDir, "paired.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "atvremote: registry: %v\n", err)
		os.Exit(1)
	}

	engine := pairing.NewEngine(id, reg, logger)
	browser := discovery.NewMDNSBrowser(reg)

	ctrl := interactive.New(id, engine, reg, browser, logger, rl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go ctrl.Run(ctx, cancel)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case <-ctx.Done():
	}
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.ConfigFile, "config", "", "Optional YAML configuration file path")
	flag.StringVar(&cfg.StateDir, "state-dir", "", "Directory for persistent identity/registry/log state")
	flag.BoolVar(&cfg.Reset, "reset", false, "Clear all persisted state before starting")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&cfg.DeviceName, "device-name", "atvremote", "Name advertised as this client's identity CN")
	flag.Parse()
	return cfg
}

func applyFileConfig(cfg *Config) error {
	data, err := os.ReadFile(cfg.ConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if cfg.StateDir == "" {
		cfg.StateDir = fc.StateDir
	}
	if cfg.DeviceName == "" || cfg.DeviceName == "atvremote" {
		if fc.DeviceName != "" {
			cfg.DeviceName = fc.DeviceName
		}
	}
	if cfg.LogLevel == "" || cfg.LogLevel == "info" {
		if fc.LogLevel != "" {
			cfg.LogLevel = fc.LogLevel
		}
	}
	return nil
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".atvremote"
	}
	return filepath.Join(dir, "atvremote")
}

func buildLogger(cfg Config, consoleOut io.Writer) (atvlog.Logger, func()) {
	level := parseLogLevel(cfg.LogLevel)
	handler := slog.NewTextHandler(consoleOut, &slog.HandlerOptions{Level: level})
	console := atvlog.NewSlogAdapter(slog.New(handler))

	fileLogger, err := atvlog.NewFileLogger(filepath.Join(cfg.StateDir, "protocol.cbor"))
	if err != nil {
		fmt.Fprintf(consoleOut, "warning: protocol trace disabled: %v\n", err)
		return console, func() {}
	}
	return atvlog.NewMultiLogger(console, fileLogger), func() { _ = fileLogger.Close() }
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
