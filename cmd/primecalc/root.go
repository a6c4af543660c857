package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sandeepkv93/primecalc/internal/calc"
	"github.com/sandeepkv93/primecalc/internal/insight"
	"github.com/sandeepkv93/primecalc/internal/logging"
	"github.com/sandeepkv93/primecalc/internal/scheduler"
	"github.com/sandeepkv93/primecalc/internal/storage"
	"github.com/sandeepkv93/primecalc/internal/telemetry"
	"github.com/sandeepkv93/primecalc/internal/update"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var Version = "dev"

type rootOptions struct {
	configPath string
	envFile    string
	cfg        update.RuntimeConfig
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "primecalc",
		Short:         "Terminal calculator with history, alarms and AI insights",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts.cfg)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("db", "", "SQLite settings database path")
	flags.String("log-file", "", "write JSON logs to this file")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("theme", "", "initial theme name")
	flags.String("metrics-addr", "", "serve /metrics and /health on this address")
	flags.Bool("desktop-notify", false, "mirror notifications to the desktop")

	cmd.AddCommand(
		newEvalCmd(),
		newWhoamiCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newSettingsCmd(opts),
	)
	return cmd
}

// resolveConfig layers defaults, the YAML file, the environment and finally
// explicitly set flags.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (update.RuntimeConfig, error) {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return update.RuntimeConfig{}, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg := update.DefaultRuntimeConfig()
	if opts.configPath != "" {
		fileCfg, err := update.RuntimeConfigFromFile(opts.configPath, cfg)
		if err != nil {
			return update.RuntimeConfig{}, err
		}
		cfg = fileCfg
	}
	cfg = update.RuntimeConfigFromEnv(cfg)

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath, _ = flags.GetString("db")
	}
	if flags.Changed("log-file") {
		cfg.LogPath, _ = flags.GetString("log-file")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("theme") {
		cfg.ThemeName, _ = flags.GetString("theme")
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("desktop-notify") {
		cfg.DesktopNotifications, _ = flags.GetBool("desktop-notify")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return update.RuntimeConfig{}, errors.New("database path is required")
	}
	return cfg, nil
}

func runTUI(ctx context.Context, cfg update.RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	repo, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open settings store: %w", err)
	}
	defer repo.Close()

	engine := scheduler.NewEngine(cfg.AlarmBuffer)
	engine.Start()
	defer engine.Stop()

	metrics := telemetry.NewMetrics()
	session := calc.NewSession(calc.WithLogger(logger))
	detach := metrics.Attach(session)
	defer detach()

	var gen insight.Generator
	insightModel := "none"
	if cfg.InsightAPIKey != "" {
		g, err := insight.NewGenAIGenerator(ctx, cfg.InsightAPIKey, cfg.InsightModel)
		if err != nil {
			logger.Warn("insight generator unavailable", zap.Error(err))
		} else {
			gen = g
			insightModel = g.Model()
		}
	}
	svc := insight.New(gen, insight.WithTimeout(cfg.InsightTimeout), insight.WithLogger(logger))

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}

	m := update.NewModelWithConfig(update.Deps{
		Session:   session,
		Scheduler: engine,
		Insight:   svc,
		Settings:  repo,
		Metrics:   metrics,
		Notifier:  notifier,
		Logger:    logger,
	}, cfg)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(ctx)
	if cfg.MetricsAddr != "" {
		group.Go(func() error {
			return telemetry.Serve(groupCtx, cfg.MetricsAddr, telemetry.NewRouter(metrics), logger)
		})
	}

	logger.Info("primecalc started", zap.String("db", cfg.DBPath), zap.String("insight_model", insightModel))
	_, runErr := tea.NewProgram(m, tea.WithAltScreen()).Run()
	cancel()
	if err := group.Wait(); err != nil {
		logger.Warn("metrics endpoint stopped", zap.Error(err))
	}
	return runErr
}
