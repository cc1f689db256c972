// canvas-reminders syncs upcoming Canvas assignments into Apple Reminders,
// with LLM-generated summaries and a weekly study plan.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ppratick/canvas-to-reminders/internal/cache"
	"github.com/ppratick/canvas-to-reminders/internal/canvas"
	"github.com/ppratick/canvas-to-reminders/internal/config"
	"github.com/ppratick/canvas-to-reminders/internal/llm"
	"github.com/ppratick/canvas-to-reminders/internal/reminders"
	"github.com/ppratick/canvas-to-reminders/internal/sync"
)

var version = "0.2.0"

var (
	// Global flags
	verbose    bool
	configPath string

	// Per-command flags
	dryRun bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "canvas-reminders",
	Short: "Sync upcoming Canvas assignments into Apple Reminders",
	Long: `canvas-reminders fetches your favorite Canvas courses, picks the upcoming
unsubmitted assignments, summarizes each one with a local LLM, and creates a
reminder per assignment in the mapped Reminders list. Generated summaries and
study plans are cached locally so nothing is sent to the model twice.

Run without arguments to perform a full sync.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context(), sync.Options{DryRun: dryRun})
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch assignments and create reminders (the default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context(), sync.Options{DryRun: dryRun})
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the AI study plan without writing any reminders",
	Long: `Fetches all upcoming assignments (including ones already synced) and prints
the generated 7-day study plan. No reminders are created or modified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(cmd.Context())
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or reset the local summary cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached entry counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		store, err := cache.NewSQLiteStore(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Stats()
		if err != nil {
			return err
		}
		fmt.Printf("cache: %s\n", store.Path())
		fmt.Printf("  cached texts:       %d\n", stats["entries"])
		fmt.Printf("  synced assignments: %d\n", stats["synced"])
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached summaries, plans, and the synced ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		store, err := cache.NewSQLiteStore(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("cache cleared")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("canvas-reminders %s\n", version)
	},
}

func buildSyncer() (*sync.Syncer, *cache.SQLiteStore, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if len(cfg.Reminders.CourseLists) == 0 {
		logger.Warn("no course_lists configured; every course will be skipped")
	}

	store, err := cache.NewSQLiteStore(cfg.Cache.Path)
	if err != nil {
		return nil, nil, err
	}

	client, err := llm.New(llm.Options{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		APIKey:   cfg.LLM.APIKey,
		Timeout:  cfg.LLMTimeout(),
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	syncer := sync.New(
		canvas.NewClient(cfg.Canvas.Domain, cfg.Canvas.Token, cfg.CanvasTimeout()),
		llm.NewSummarizer(client, store, logger),
		reminders.NewAppleScriptWriter(),
		store,
		cfg.Reminders.CourseLists,
		cfg.Sync.LookaheadDays,
		logger,
	)
	return syncer, store, nil
}

func runSync(ctx context.Context, opts sync.Options) error {
	syncer, store, err := buildSyncer()
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := syncer.Run(ctx, opts)
	if err != nil {
		if errors.Is(err, canvas.ErrUnauthorized) {
			return fmt.Errorf("canvas rejected the API token, check CANVAS_API_TOKEN: %w", err)
		}
		return err
	}

	fmt.Println()
	fmt.Print(sync.Render(res))
	if res.Plan != "" {
		fmt.Println()
		fmt.Print(sync.RenderPlan(res.Plan))
	}
	return nil
}

func runPlan(ctx context.Context) error {
	syncer, store, err := buildSyncer()
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := syncer.Run(ctx, sync.Options{DryRun: true, IncludeSynced: true})
	if err != nil {
		return err
	}
	if res.Plan == "" {
		fmt.Println("No upcoming assignments — nothing to plan.")
		return nil
	}
	fmt.Println()
	fmt.Print(sync.RenderPlan(res.Plan))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "canvas-reminders.yaml", "path to the config file")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be synced without writing reminders")
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be synced without writing reminders")

	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(syncCmd, planCmd, cacheCmd, versionCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
