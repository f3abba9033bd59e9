package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/zlemon/internal/avatar"
	"github.com/zarlcorp/zlemon/internal/cli"
	"github.com/zarlcorp/zlemon/internal/config"
	"github.com/zarlcorp/zlemon/internal/menu"
	"github.com/zarlcorp/zlemon/internal/securestore"
	"github.com/zarlcorp/zlemon/internal/tui"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	app := zapp.New(zapp.WithName("zlemon"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "zlemon: %v\n", err)
		os.Exit(1)
	}

	logFile, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zlemon: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if len(os.Args) > 1 {
		runCLI(ctx, cfg, os.Args[1])
		_ = app.Close()
		return
	}

	if err := runTUI(ctx, cfg); err != nil {
		slog.Error("tui", "err", err)
		_ = app.Close()
		os.Exit(1)
	}

	if err := app.Close(); err != nil {
		slog.Error("shutdown", "err", err)
		os.Exit(1)
	}
}

// setupLogging sends structured logs to a file; the TUI owns the terminal.
func setupLogging(cfg config.Config) (*os.File, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger.With("version", version))
	return f, nil
}

func runCLI(ctx context.Context, cfg config.Config, cmd string) {
	switch cmd {
	case "version":
		fmt.Printf("zlemon %s\n", version)
	case "profile":
		cli.CmdProfile(ctx, cfg, os.Args[2:])
	case "menu":
		cli.CmdMenu(ctx, cfg, os.Args[2:])
	case "logout":
		cli.CmdLogout(ctx, cfg)
	default:
		fmt.Fprintf(os.Stderr, "zlemon: unknown command %q\n", cmd)
		os.Exit(1)
	}
}

func runTUI(ctx context.Context, cfg config.Config) error {
	m := tui.New(ctx, tui.Options{
		Version:  version,
		FirstRun: cli.IsFirstRun(ctx, cfg),
		Open: func(ctx context.Context, password string) (securestore.Store, error) {
			return cli.OpenStore(ctx, cfg, password)
		},
		Menu:         menu.NewClient(cfg.MenuURL),
		ImageBaseURL: cfg.ImageBaseURL,
		Picker:       avatar.FilePicker{},
		Logger:       slog.Default(),
	})

	p := tea.NewProgram(m, tea.WithContext(ctx))
	finalModel, err := p.Run()
	if fm, ok := finalModel.(tui.Model); ok {
		fm.Close()
	}
	return err
}
