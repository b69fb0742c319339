package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/taskdeck/internal/broadcast"
	"github.com/zulandar/taskdeck/internal/config"
	"github.com/zulandar/taskdeck/internal/db"
	"github.com/zulandar/taskdeck/internal/notify"
	"github.com/zulandar/taskdeck/internal/server"
	"github.com/zulandar/taskdeck/internal/sync"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
		noSeed     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the taskdeck server",
		Long:  "Starts the HTTP server with the task API, activity feed, workspace file routes, and the websocket event stream.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port, noSeed)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "taskdeck.yaml", "path to taskdeck config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "skip the legacy database import")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int, noSeed bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Opened %s\n", cfg.DBPath)

	if !noSeed && cfg.LegacyDBPath != "" {
		imported, err := db.SeedFromLegacy(gormDB, cfg.LegacyDBPath)
		if err != nil {
			return err
		}
		if imported > 0 {
			fmt.Fprintf(out, "Imported %d tasks from %s\n", imported, cfg.LegacyDBPath)
		}
	}

	local := sync.NewLocalAdapter(gormDB)
	var cloud *sync.CloudAdapter
	if baseURL := sync.ResolveCloudBaseURL(cfg.Sync.CloudBaseURL, nil); baseURL != "" {
		cloud, err = sync.NewCloudAdapter(sync.CloudOpts{BaseURL: baseURL})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Cloud mirror: %s\n", baseURL)
	}
	facade := sync.NewFacade(sync.FacadeOpts{
		Local:    local,
		Cloud:    cloud,
		Mode:     cfg.Sync.Mode,
		Platform: cfg.Sync.Platform,
	})
	fmt.Fprintf(out, "Sync mode: %s\n", facade.Mode())

	notifiers, err := buildNotifiers(cfg)
	if err != nil {
		return err
	}
	watcher := notify.NewWatcher(notify.WatcherOpts{
		DB:         gormDB,
		Notifiers:  notifiers,
		DigestCron: cfg.Notify.DigestCron,
	})
	defer func() {
		for _, n := range notifiers {
			n.Close()
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go watcher.RunDigest(ctx)

	if port == 0 {
		port = cfg.Server.Port
	}
	return server.Start(ctx, server.Opts{
		DB:        gormDB,
		Facade:    facade,
		Hub:       broadcast.NewHub(),
		Watcher:   watcher,
		Workspace: cfg.Workspace,
		Port:      port,
		Out:       out,
	})
}

func buildNotifiers(cfg *config.Config) ([]notify.Notifier, error) {
	var notifiers []notify.Notifier
	if cfg.Notify.Slack.BotToken != "" {
		n, err := notify.NewSlack(notify.SlackOpts{
			BotToken:  cfg.Notify.Slack.BotToken,
			ChannelID: cfg.Notify.Slack.Channel,
		})
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, n)
	}
	if cfg.Notify.Discord.BotToken != "" {
		n, err := notify.NewDiscord(notify.DiscordOpts{
			BotToken:  cfg.Notify.Discord.BotToken,
			ChannelID: cfg.Notify.Discord.Channel,
		})
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, n)
	}
	return notifiers, nil
}
