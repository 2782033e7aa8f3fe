// ABOUTME: Entry point for the UltraDNS push notifier
// ABOUTME: Relays telemetry events to registered Slack and Teams webhooks

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/ultradns/ultradns-push-notifier/internal/authgate"
	"github.com/ultradns/ultradns-push-notifier/internal/config"
	"github.com/ultradns/ultradns-push-notifier/internal/dispatch"
	"github.com/ultradns/ultradns-push-notifier/internal/registry"
	"github.com/ultradns/ultradns-push-notifier/internal/server"
	"github.com/ultradns/ultradns-push-notifier/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                 _                 _   _  __ _
 _ __  _   _ ___| |__        _ __ | |_(_)/ _(_) ___ _ __
| '_ \| | | / __| '_ \ _____| '_ \| __| | |_| |/ _ \ '__|
| |_) | |_| \__ \ | | |_____| | | | |_| |  _| |  __/ |
| .__/ \__,_|___/_| |_|     |_| |_|\__|_|_| |_|\___|_|
|_|
`

// getConfigPath returns the path to the config file.
// Priority: PUSH_NOTIFIER_CONFIG env var > ./notifier.yaml
func getConfigPath() string {
	if envPath := os.Getenv("PUSH_NOTIFIER_CONFIG"); envPath != "" {
		return envPath
	}
	return "notifier.yaml"
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: push-notifier <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve     Start the notification relay")
		fmt.Println("  version   Print the version")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	// Load configuration; a missing file means env-driven defaults.
	configPath := getConfigPath()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", cfg.Database.Path)
	green.Print("    ▶ ")
	fmt.Printf("IP filter: %v\n", cfg.Security.FilterIPs)
	fmt.Println()

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	gate, err := authgate.New(cfg.Security.FilterIPs, cfg.Security.AllowedIPs)
	if err != nil {
		return fmt.Errorf("creating access gate: %w", err)
	}

	sessions, err := authgate.NewSessionManager()
	if err != nil {
		return fmt.Errorf("creating session manager: %w", err)
	}

	// The frontend fetches this token via /init; log it so operators running
	// without the UI can drive the API directly.
	logger.Info("generated frontend API token", "token", gate.APIToken())

	sender := dispatch.NewHTTPSender(cfg.Dispatch.Timeout)
	reg := registry.New(st, sender)

	srv := server.New(cfg, st, reg, sender, gate, sessions)

	logger.Info("starting push-notifier",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"filter_ips", cfg.Security.FilterIPs,
	)

	return srv.Run(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(path)
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
