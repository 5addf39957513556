// Command bidbridge is a terminal client for the BidBridge local task
// marketplace: browse tasks, post your own, bid on others', and chat
// with the other party once a bid is accepted.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bidbridge/bidbridge/internal/api"
	"github.com/bidbridge/bidbridge/internal/app"
	"github.com/bidbridge/bidbridge/internal/model"
	"github.com/bidbridge/bidbridge/internal/observability"
	"github.com/bidbridge/bidbridge/internal/platform"
	"github.com/bidbridge/bidbridge/internal/realtime"
	"github.com/bidbridge/bidbridge/internal/session"
	"github.com/bidbridge/bidbridge/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bidbridge:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String(
		"config", model.DefaultConfigPath(), "path to the config file",
	)
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	closeLog, err := observability.Init(model.DefaultLogPath())
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog()

	cache, err := store.NewCache(cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("opening snapshot cache: %w", err)
	}
	defer cache.Close()

	sess := session.New()
	apiClient := api.NewClient(cfg.API.BaseURL, sess)
	platformClient := platform.NewClient(cfg.Platform.URL, cfg.Platform.AnonKey, sess)

	manager := realtime.NewManager(func() (realtime.Conn, error) {
		return realtime.Dial(platformClient.SocketURL())
	})
	defer manager.Close()

	root := app.New(app.Deps{
		Config:   cfg,
		Session:  sess,
		API:      apiClient,
		Platform: platformClient,
		Realtime: manager,
		Cache:    cache,
	})

	program := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
