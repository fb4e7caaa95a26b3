package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"telephony-insights-go/internal/actionable"
	"telephony-insights-go/internal/aggregator"
	"telephony-insights-go/internal/config"
	"telephony-insights-go/internal/dataset"
	"telephony-insights-go/internal/logger"
	"telephony-insights-go/internal/pipeline"
	"telephony-insights-go/internal/repository"
	"telephony-insights-go/internal/service"
)

// Labels the sentiment model uses for unhappy callers.
var negativeSentiment = []string{"1 star", "2 stars", "NEGATIVE"}

func main() {
	configPath := flag.String("config", envOr("CONFIG_PATH", "configs/config.yml"), "YAML config file")
	dir := flag.String("dir", "", "transcript directory (defaults to <data_dir>/transcripts)")
	out := flag.String("out", "", "also write outcomes as JSON to this file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New().WithError(err).Fatal("failed to load config")
	}
	log := logger.NewWith(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel})

	if *dir == "" {
		*dir = cfg.TranscriptsDir()
	}
	items, err := loadItems(*dir)
	if err != nil {
		log.WithError(err).WithField("dir", *dir).Fatal("failed to read transcripts")
	}
	if len(items) == 0 {
		log.WithField("dir", *dir).Warn("no transcripts to annotate")
		return
	}

	annotators, err := service.NewAnnotators(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build annotators")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcomes := pipeline.Run(ctx, items, pipeline.Options{
		Workers: cfg.Annotation.Workers,
		Logger:  log,
	}, annotators.All()...)

	repo, err := repository.NewAnnotationRepository(cfg.Database.Path, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open annotation repository")
	}
	defer repo.Close()

	runID, err := repo.SaveRun(outcomes)
	if err != nil {
		log.WithError(err).Error("failed to save annotation run")
	}

	if *out != "" {
		if err := writeJSON(*out, outcomes); err != nil {
			log.WithError(err).Error("failed to write outcomes")
		}
	}

	insight := aggregator.Aggregate(outcomes)
	topic, _ := insight.TopLabel("classify")
	card := actionable.GenerateFromAnnotations(insight, negativeSentiment...)
	log.WithField("run_id", runID).
		WithField("items", insight.Items).
		WithField("failed", insight.Failed).
		WithField("top_topic", topic).
		WithField("insight", card.Insight).
		WithField("action", card.Action).
		Info("annotation run complete")
}

// loadItems reads every .txt transcript in dir, sorted by file name.
func loadItems(dir string) ([]pipeline.Item, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	items := make([]pipeline.Item, 0, len(paths))
	for _, p := range paths {
		lines, err := dataset.ReadTranscript(p)
		if err != nil {
			return nil, err
		}
		items = append(items, pipeline.Item{ID: filepath.Base(p), Text: strings.Join(lines, "\n")})
	}
	return items, nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
