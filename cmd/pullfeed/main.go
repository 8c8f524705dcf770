package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/pullfeed/internal/api"
	"github.com/nickpending/pullfeed/internal/config"
	"github.com/nickpending/pullfeed/internal/db"
	"github.com/nickpending/pullfeed/internal/service"
	"github.com/nickpending/pullfeed/internal/ui"
	"github.com/nickpending/pullfeed/internal/watch"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("pullfeed: %v", err)
	}
}

func run(args []string) (err error) {
	fs := flag.NewFlagSet("pullfeed", flag.ContinueOnError)
	remoteURL := fs.String("remote", "", "Remote timeline server URL (e.g., http://server:8989)")
	configPath := fs.String("config", "", "Path to config.toml (default: $XDG_CONFIG_HOME/pullfeed/config.toml)")
	debug := fs.Bool("debug", false, "Log at debug level")
	noWatch := fs.Bool("nowatch", false, "Do not reload when another process writes the timeline")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	var cfg *config.Config
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	logFile, err := setupLogging(cfg, *debug)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	db.SetPath(cfg.Storage.Path)
	if _, err := db.GetDB(); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, db.CloseDB())
	}()

	// --remote flag > [api].url; without a key the timeline stays offline
	if *remoteURL != "" {
		api.SetRemoteURL(*remoteURL)
	}
	var src service.Source
	account := "offline"
	client, clientErr := api.NewClientFromConfig(cfg, "")
	if clientErr != nil {
		slog.Warn("running offline", slog.Any("error", clientErr))
	} else {
		src = client
		account = client.BaseURL()
	}

	timeline := service.NewTimeline(src, cfg.TUI.PageSize, account)
	model, err := ui.NewModel(cfg, timeline)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Press, drag and release drive pull-to-refresh
		tea.WithReportFocus(),     // Focus loss cancels a pull in progress
	)

	if !*noWatch {
		dbPath, err := db.Path()
		if err != nil {
			return err
		}
		w, err := watch.Start(dbPath, watch.DefaultDelay, func() {
			p.Send(ui.StoreChangedMsg{})
		})
		if err != nil {
			slog.Warn("store watcher disabled", slog.Any("error", err))
		} else {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// setupLogging sends slog output to [log].path, or discards it so log
// lines never land on the alternate screen.
func setupLogging(cfg *config.Config, debug bool) (*os.File, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}

	if cfg.Log.Path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil, nil
	}

	f, err := tea.LogToFile(cfg.Log.Path, "pullfeed")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return f, nil
}
