// Package main provides the entry point for the weekly prop analysis CLI.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/agents"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/analysis"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/config"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/correlation"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/database"
	applogger "github.com/scottolmer/nfl-betting-system-sub001/internal/logger"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/metrics"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/parlay"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/report"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/repository"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/signal"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/sizing"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/weights"
)

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to config file")
		season      = flag.Int("season", 0, "NFL season, e.g. 2024")
		week        = flag.Int("week", 0, "NFL week (1-22)")
		propsPath   = flag.String("props", "", "Path to the prop slate JSON file")
		contextPath = flag.String("context", "", "Read the week bundle from a JSON file instead of the context feed")
		output      = flag.String("output", "", "Write the full run result as JSON to this path")
		save        = flag.Bool("save", false, "Persist analyses to the database")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	bootstrap := logrus.New()
	bootstrap.SetFormatter(&logrus.JSONFormatter{})
	ctx := context.Background()

	cfg := loadConfigWithSecrets(ctx, *configPath, bootstrap)
	log := buildLogger(cfg, *verbose)

	if *season == 0 || *week == 0 {
		log.Fatalf("Both -season and -week are required")
	}
	if *propsPath == "" {
		log.Fatalf("-props is required")
	}

	metrics.InitRegistry()
	pipe := buildPipeline(cfg, log)

	var (
		db    *database.DB
		repos *repository.Repositories
	)
	if cfg.Agents.DynamicWeights || *save {
		db, repos = connectRepositories(ctx, cfg, log)
		defer db.Close()
	}
	if cfg.Agents.DynamicWeights {
		seedWeights(ctx, repos, pipe.store, log)
	}

	weekCtx := loadWeek(ctx, cfg, log, *contextPath, *season, *week)
	props := loadSlate(log, *propsPath, *season, *week)
	priceSlate(log, props, weekCtx)

	log.WithFields(logrus.Fields{
		"season": *season,
		"week":   *week,
		"props":  len(props),
	}).Info("Starting weekly analysis run")

	batch := pipe.analyzer.AnalyzeBatch(ctx, props, weekCtx)

	parlays, err := pipe.builder.Build(batch.Analyses)
	if err != nil {
		log.Fatalf("Failed to build parlays: %v", err)
	}

	sized, err := pipe.allocator.Size(parlays, cfg.Sizing.Bankroll)
	if err != nil {
		log.Fatalf("Failed to size tickets: %v", err)
	}

	run := &report.WeeklyRun{
		Season:   *season,
		Week:     *week,
		Bankroll: cfg.Sizing.Bankroll,
		Batch:    batch,
		Parlays:  parlays,
		Sized:    sized,
		RanAt:    time.Now().UTC(),
	}

	if *save {
		if err := repos.Analysis.SaveBatch(ctx, batch.Analyses); err != nil {
			log.Fatalf("Failed to persist analyses: %v", err)
		}
		log.WithField("analyses", len(batch.Analyses)).Info("Persisted analysis batch")
	}

	fmt.Print(report.GenerateConsoleReport(run))

	if *output != "" {
		if err := report.ExportToJSON(run, *output); err != nil {
			log.Fatalf("Failed to export run JSON: %v", err)
		}
		log.WithField("path", *output).Info("Exported run JSON")
	}
}

// pipeline bundles the per-run analysis components
type pipeline struct {
	analyzer  *analysis.Analyzer
	builder   *parlay.Builder
	allocator *sizing.Allocator
	store     *weights.Store
}

func loadConfigWithSecrets(ctx context.Context, path string, log *logrus.Logger) *config.Config {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.App.SecretsName != "" {
		if err := config.LoadSecretsFromAWS(ctx, cfg, cfg.App.SecretsRegion, cfg.App.SecretsName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func buildLogger(cfg *config.Config, verbose bool) *logrus.Logger {
	log := applogger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func buildPipeline(cfg *config.Config, log *logrus.Logger) *pipeline {
	registry := agents.BuildRegistry(cfg.InjuryReportTTL())
	store := weights.NewStoreFromStatic(agents.Names(), cfg.Agents.StaticWeights)

	analyzer := analysis.NewAnalyzer(registry, store, analysis.Config{
		Workers:  cfg.Analysis.Workers,
		CacheTTL: cfg.AnalysisCacheTTL(),
	}, log)

	corr := correlation.NewAnalyzer(correlation.Config{
		SharedDriverMin: cfg.Correlation.SharedDriverMin,
		PairPenalty:     cfg.Correlation.PairPenalty,
		PenaltyFloor:    cfg.Correlation.PenaltyFloor,
		LowAbove:        cfg.Correlation.LowAbove,
		MediumAbove:     cfg.Correlation.MediumAbove,
	}, log)

	builder := parlay.NewBuilder(parlay.Config{
		MinLegs:           cfg.Parlay.MinLegs,
		MaxLegs:           cfg.Parlay.MaxLegs,
		MaxPerSize:        cfg.Parlay.MaxPerSize,
		MinLegConfidence:  cfg.Parlay.MinLegConfidence,
		MaxPlayerExposure: cfg.Parlay.MaxPlayerExposure,
		MaxRisk:           models.RiskLevel(cfg.Parlay.MaxRisk),
		Enhanced:          cfg.Parlay.Enhanced,
	}, corr, log)

	allocator := sizing.NewAllocator(sizing.Config{
		FractionalKelly:  cfg.Sizing.FractionalKelly,
		MaxStakeFraction: cfg.Sizing.MaxStakeFraction,
		MinConfidence:    cfg.Sizing.MinConfidence,
		WeeklyAllocation: cfg.Sizing.WeeklyAllocation,
		MinUnit:          cfg.Sizing.MinUnit,
		ExposureAdjusted: cfg.Sizing.ExposureAdjusted,
	}, newAuditLogger(cfg, log), log)

	return &pipeline{analyzer: analyzer, builder: builder, allocator: allocator, store: store}
}

func newAuditLogger(cfg *config.Config, log *logrus.Logger) *applogger.AuditLogger {
	if cfg.Logging.AuditFile == "" {
		return applogger.NewAuditLogger(log)
	}
	return applogger.NewRotatingAuditLogger(applogger.AuditConfig{
		FilePath:   cfg.Logging.AuditFile,
		MaxSizeMB:  cfg.Logging.AuditMaxSizeMB,
		MaxBackups: cfg.Logging.AuditMaxBackups,
		MaxAgeDays: cfg.Logging.AuditMaxAgeDays,
		Compress:   cfg.Logging.AuditCompress,
	})
}

func connectRepositories(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*database.DB, *repository.Repositories) {
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}
	return db, repos
}

// seedWeights replaces the static table with the persisted one. A missing
// table is fine; the store keeps the configured static weights.
func seedWeights(ctx context.Context, repos *repository.Repositories, store *weights.Store, log *logrus.Logger) {
	table, err := repos.Weight.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Info("No persisted weight table, using static weights")
			return
		}
		log.Fatalf("Failed to load weight table: %v", err)
	}
	store.Replace(table)
	metrics.RecordWeightTable(table.Version, table.Weights)
	log.WithFields(logrus.Fields{
		"version": table.Version,
		"agents":  len(table.Weights),
	}).Info("Loaded dynamic weight table")
}

func loadWeek(ctx context.Context, cfg *config.Config, log *logrus.Logger, contextPath string, season, week int) *signal.WeekContext {
	if contextPath != "" {
		bundle, err := signal.LoadFile(contextPath)
		if err != nil {
			log.Fatalf("Failed to load context file: %v", err)
		}
		if bundle.Season != season || bundle.Week != week {
			log.WithFields(logrus.Fields{
				"file_season": bundle.Season,
				"file_week":   bundle.Week,
			}).Warn("Context file week differs from requested week")
		}
		return bundle
	}

	clientCfg := signal.DefaultHTTPClientConfig()
	clientCfg.Timeout = cfg.ContextFeedTimeout()
	if cfg.ContextFeed.MaxRetries > 0 {
		clientCfg.MaxRetries = cfg.ContextFeed.MaxRetries
	}
	if cfg.ContextFeed.RateLimitPerSecond > 0 {
		clientCfg.RateLimit = cfg.ContextFeed.RateLimitPerSecond
	}
	if cfg.ContextFeed.CircuitBreakerMax > 0 {
		clientCfg.CircuitBreakerMax = cfg.ContextFeed.CircuitBreakerMax
	}

	provider := signal.NewHTTPProvider(signal.HTTPProviderConfig{
		BaseURL: cfg.ContextFeed.BaseURL,
		APIKey:  cfg.ContextFeed.APIKey,
		Client:  clientCfg,
	}, log)
	defer provider.Close()

	bundle, err := provider.FetchWeek(ctx, season, week)
	if err != nil {
		log.Fatalf("Failed to fetch week context: %v", err)
	}
	return bundle
}

// loadSlate reads the prop candidates for the week. Candidates without a
// season or week inherit the run's flags.
func loadSlate(log *logrus.Logger, path string, season, week int) []*models.PropCandidate {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read props file: %v", err)
	}

	var props []*models.PropCandidate
	if err := json.Unmarshal(data, &props); err != nil {
		log.Fatalf("Failed to parse props file: %v", err)
	}
	if len(props) == 0 {
		log.Fatalf("Props file %s contains no candidates", path)
	}

	for _, p := range props {
		if p.Season == 0 {
			p.Season = season
		}
		if p.Week == 0 {
			p.Week = week
		}
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
	}
	return props
}

// priceSlate fills market prices the slate left blank from the week bundle's
// book prices. A price quoted at a different line is not attached.
func priceSlate(log *logrus.Logger, props []*models.PropCandidate, week *signal.WeekContext) {
	priced := 0
	for _, p := range props {
		if p.MarketOdds != 0 {
			continue
		}
		m, ok := week.MarketFor(p.LegKey())
		if !ok || m.AmericanOdds == 0 {
			continue
		}
		if m.Line != 0 && m.Line != p.Line {
			continue
		}
		p.MarketOdds = m.AmericanOdds
		priced++
	}
	if priced > 0 {
		log.WithField("props", priced).Info("Filled market prices from the week bundle")
	}
}
