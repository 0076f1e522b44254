// Package main provides the calibration CLI: one-shot cycles, weight table
// inspection, adjustment history, and the long-running scheduled mode.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/agents"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/calibration"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/config"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/database"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/health"
	applogger "github.com/scottolmer/nfl-betting-system-sub001/internal/logger"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/metrics"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/repository"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/scheduler"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/weights"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile   string
	season       int
	week         int
	historyAgent string
	historyLimit int

	logger *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
	store  *weights.Store
	svc    *calibration.Service
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	runCmd.Flags().IntVarP(&season, "season", "s", 0, "NFL season to calibrate")
	runCmd.Flags().IntVarP(&week, "week", "w", 0, "NFL week to calibrate")
	historyCmd.Flags().StringVarP(&historyAgent, "agent", "a", "", "Filter history to one agent")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of adjustments to show")
}

var rootCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Manage agent weight calibration",
	Long:  `Run weekly calibration cycles, inspect the live weight table, and review the adjustment history.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one calibration cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return runCycle(ctx)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the live weight table",
	RunE: func(cmd *cobra.Command, args []string) error {
		printStatus()
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent weight adjustments",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return printHistory(ctx)
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run calibration on a cron schedule",
	Long:  `Start the long-running calibration daemon: an admin server with health and metrics endpoints, plus a cron job that calibrates the newest graded week.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		return runScheduled(ctx)
	},
}

func main() {
	rootCmd.AddCommand(runCmd, statusCmd, historyCmd, scheduleCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if loaded.App.SecretsName != "" {
		if err := config.LoadSecretsFromAWS(context.Background(), loaded, loaded.App.SecretsRegion, loaded.App.SecretsName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	if err := config.Validate(loaded); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func setupDependencies() error {
	logger = applogger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	metrics.InitRegistry()

	ctx := context.Background()

	var err error
	db, err = database.Initialize(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	store = weights.NewStoreFromStatic(agents.Names(), cfg.Agents.StaticWeights)

	params := calibration.Params{
		Gain:          cfg.Calibration.Gain,
		AccuracyBonus: cfg.Calibration.AccuracyBonus,
		MaxDelta:      cfg.Calibration.MaxDelta,
		MinWeight:     cfg.Calibration.MinWeight,
		MaxWeight:     cfg.Calibration.MaxWeight,
		MinSamples:    cfg.Calibration.MinSamples,
	}
	svc = calibration.NewService(params, store, db, repos, newAuditLogger(), logger)

	return svc.LoadCurrent(ctx)
}

func newAuditLogger() *applogger.AuditLogger {
	if cfg.Logging.AuditFile == "" {
		return applogger.NewAuditLogger(logger)
	}
	return applogger.NewRotatingAuditLogger(applogger.AuditConfig{
		FilePath:   cfg.Logging.AuditFile,
		MaxSizeMB:  cfg.Logging.AuditMaxSizeMB,
		MaxBackups: cfg.Logging.AuditMaxBackups,
		MaxAgeDays: cfg.Logging.AuditMaxAgeDays,
		Compress:   cfg.Logging.AuditCompress,
	})
}

func runCycle(ctx context.Context) error {
	if season == 0 || week == 0 {
		return fmt.Errorf("both --season and --week are required")
	}

	report, err := svc.Run(ctx, season, week)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientSamples) {
			fmt.Printf("Nothing to calibrate: no graded samples for season %d week %d\n", season, week)
		}
		return err
	}

	printCalibrationReport(report)
	return nil
}

func printCalibrationReport(report *models.CalibrationReport) {
	fmt.Printf("Calibration: season %d week %d\n", report.Season, report.Week)
	fmt.Printf("Weights version: %d\n", report.NewVersion)
	for _, a := range report.Agents {
		if a.Adjusted {
			fmt.Printf("  %-14s %.3f -> %.3f  accuracy %.3f  overconfidence %+.3f  (%d samples)\n",
				a.Agent, a.OldWeight, a.NewWeight, a.Accuracy, a.Overconfidence, a.SampleCount)
			continue
		}
		note := a.Note
		if note == "" {
			note = "no change"
		}
		fmt.Printf("  %-14s %.3f unchanged: %s\n", a.Agent, a.OldWeight, note)
	}
}

func printStatus() {
	table := svc.Status()

	names := make([]string, 0, len(table.Weights))
	for name := range table.Weights {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("Weight table version %d (updated %s)\n", table.Version, table.UpdatedAt.Format(time.RFC3339))
	for _, name := range names {
		fmt.Printf("  %-14s %.3f\n", name, table.Weights[name])
	}
}

func printHistory(ctx context.Context) error {
	adjustments, err := svc.History(ctx, historyAgent, historyLimit)
	if err != nil {
		return err
	}
	if len(adjustments) == 0 {
		fmt.Println("No adjustments recorded")
		return nil
	}

	for _, adj := range adjustments {
		fmt.Printf("%s  %-14s %.3f -> %.3f (%+.3f)  s%d w%d  %s\n",
			adj.CreatedAt.Format("2006-01-02"), adj.Agent,
			adj.OldWeight, adj.NewWeight, adj.Delta(),
			adj.Season, adj.Week, adj.Reason)
	}
	return nil
}

func runScheduled(ctx context.Context) error {
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = metrics.Handler()
	}

	admin := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Admin.Port,
		MetricsPath: cfg.Metrics.Path,
		Metrics:     metricsHandler,
		Logger:      logger,
		DB:          db,
	})
	if err := admin.Start(ctx); err != nil {
		return fmt.Errorf("failed to start admin server: %w", err)
	}

	sched := scheduler.NewScheduler(logger)
	err := sched.AddJob(cfg.Calibration.Schedule, "weekly-calibration", func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		report, err := svc.RunLatest(jobCtx)
		if err != nil {
			if errors.Is(err, models.ErrInsufficientSamples) {
				logger.WithError(err).Warn("Calibration skipped, nothing graded yet")
				return
			}
			logger.WithError(err).Error("Scheduled calibration failed")
			return
		}
		logger.WithFields(logrus.Fields{
			"season":  report.Season,
			"week":    report.Week,
			"version": report.NewVersion,
		}).Info("Scheduled calibration complete")
	})
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	admin.SetReady(true)
	logger.WithFields(logrus.Fields{
		"schedule": cfg.Calibration.Schedule,
		"next_run": sched.NextRun(),
	}).Info("Calibration scheduler running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutdown signal received")
	admin.SetReady(false)
	if err := sched.Stop(); err != nil {
		logger.WithError(err).Warn("Scheduler stop failed")
	}
	return admin.Shutdown()
}
