package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/palemoky/aoch-leaderboard/internal/apperrors"
	"github.com/palemoky/aoch-leaderboard/internal/bot"
	"github.com/palemoky/aoch-leaderboard/internal/config"
	"github.com/palemoky/aoch-leaderboard/internal/leaderboard"
	"github.com/palemoky/aoch-leaderboard/internal/logger"
	"github.com/palemoky/aoch-leaderboard/internal/render"
	"github.com/palemoky/aoch-leaderboard/internal/server"
	"github.com/palemoky/aoch-leaderboard/internal/service"
	"github.com/palemoky/aoch-leaderboard/internal/sink"
)

type rootOptions struct {
	configPath string
	envFile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "aochbot",
		Short:         "Advent of Code leaderboard bot",
		Long:          "Fetches the AoC leaderboard and renders it as a monospace table that fits in one chat message.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(opts.verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "configs/config.yaml", "config file path")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with secrets")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRenderCmd(opts), newServeCmd(opts))
	return root
}

// loadConfig 配置文件读取失败时使用默认配置
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		logger.LogInfo("config %s not loaded, using defaults: %v", opts.configPath, err)
		cfg = config.Default()
	}
	if err := cfg.ApplyEnv(opts.envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", opts.envFile, err)
	}
	return cfg, nil
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:       "render [daily|total]",
		Short:     "Fetch the leaderboard once and print it",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"daily", "today", "total", "cumulative"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := render.ParseMode(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			fetcher := leaderboard.NewHTTPFetcher(cfg.Source.URL, cfg.Source.TimeoutDuration())
			snapshot, err := fetcher.Fetch(cmd.Context())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), apperrors.UserMessage(err))
				return err
			}

			text, err := render.BuildTable(snapshot, mode)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), apperrors.UserMessage(err))
				return err
			}

			out := &sink.Terminal{W: cmd.OutOrStdout(), Title: snapshot.Assignment, Raw: raw}
			return out.Display(cmd.Context(), text)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the fenced block exactly as it would be sent")
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var withRedis, withTelegram bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP/WebSocket gateway and the chat bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("redis") {
				cfg.Redis.Enabled = withRedis
			}
			if cmd.Flags().Changed("telegram") {
				cfg.Telegram.Enabled = withTelegram
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().BoolVar(&withRedis, "redis", false, "mirror every render to the redis channel")
	cmd.Flags().BoolVar(&withTelegram, "telegram", false, "run the Telegram bot (needs TELEGRAM_TOKEN)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	fetcher := leaderboard.NewHTTPFetcher(cfg.Source.URL, cfg.Source.TimeoutDuration())

	var mirror sink.Sink
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		mirror = sink.NewRedis(rdb, cfg.Redis.Channel)
		logger.LogInfo("Mirroring renders to redis channel %s", cfg.Redis.Channel)
	}

	svc := service.New(fetcher, mirror)

	var tg *bot.Bot
	if cfg.Telegram.Enabled {
		if cfg.Telegram.Token == "" {
			return fmt.Errorf("telegram enabled but %s is not set", config.EnvTelegramToken)
		}
		b, err := bot.New(cfg.Telegram.Token, svc)
		if err != nil {
			return err
		}
		tg = b
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.NewServer(cfg.Server, svc).Start(ctx)
	})
	if tg != nil {
		g.Go(func() error { return tg.Run(ctx) })
	}

	logger.LogInfo("aochbot serving leaderboard from %s", cfg.Source.URL)
	return g.Wait()
}
