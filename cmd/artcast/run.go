package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/artcast/artcast/internal/bus"
	"github.com/artcast/artcast/internal/channels"
	"github.com/artcast/artcast/internal/commands"
	"github.com/artcast/artcast/internal/config"
	"github.com/artcast/artcast/internal/content"
	"github.com/artcast/artcast/internal/engine"
	"github.com/artcast/artcast/internal/format"
	"github.com/artcast/artcast/internal/schedule"
)

var runConfigPath string

// runCmd starts the bot: channels, command dispatcher and schedule engine.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the artcast bot",
	Long: `Start the bot with the given configuration. Loads persisted schedules,
connects the configured channels and begins firing schedule timers.`,
	RunE: runHandler,
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "config file path (default ~/.artcast/config.json)")
}

func runHandler(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error
	if runConfigPath != "" {
		cfg, err = config.LoadFromFile(runConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogging(cfg.LogLevel)

	store := schedule.NewStore(cfg.StorePath)
	store.Load()

	provider := content.NewHTTPProvider(
		cfg.Content.BaseURL,
		cfg.Content.APIKey,
		time.Duration(cfg.Content.TimeoutSeconds)*time.Second,
	)
	eng := engine.New(provider, format.Text)

	cmdBus := bus.NewCommandBus(100)
	manager := channels.NewManager(cmdBus)

	if cfg.Channels.Discord.Token != "" {
		if err := addChannel(manager, "discord", cfg.Channels.Discord); err != nil {
			return err
		}
	}
	if cfg.Channels.Telegram.Token != "" {
		if err := addChannel(manager, "telegram", cfg.Channels.Telegram); err != nil {
			return err
		}
	}

	live := manager.Channels()
	if len(live) == 0 {
		return fmt.Errorf("no channels configured: set a discord or telegram token")
	}
	for _, ch := range live {
		eng.RegisterSender(ch.Platform(), ch)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, ch := range live {
		ch := ch
		g.Go(func() error { return ch.Start(gctx) })
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to start channels: %w", err)
	}

	dispatcher := commands.NewDispatcher(store, eng, provider)
	go cmdBus.DispatchReplies(ctx)
	go dispatcher.Run(ctx, cmdBus)

	eng.Reconcile(store.ListEnabled())
	eng.Start()
	slog.Info("artcast started", "channels", len(live), "schedules", len(store.ListEnabled()))

	<-ctx.Done()
	slog.Info("shutting down")
	eng.StopAll()
	if err := manager.StopAll(); err != nil {
		slog.Error("error stopping channels", "error", err)
	}
	return nil
}

func addChannel(manager *channels.Manager, name string, cfg any) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode %s config: %w", name, err)
	}
	if err := manager.AddChannel(name, raw); err != nil {
		return fmt.Errorf("failed to add %s channel: %w", name, err)
	}
	return nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
