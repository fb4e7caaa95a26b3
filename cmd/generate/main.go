package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"telephony-insights-go/internal/actionable"
	"telephony-insights-go/internal/config"
	"telephony-insights-go/internal/dataset"
	"telephony-insights-go/internal/generator"
	"telephony-insights-go/internal/logger"
	"telephony-insights-go/internal/types"
)

func main() {
	configPath := flag.String("config", envOr("CONFIG_PATH", "configs/config.yml"), "YAML config file")
	topic := flag.String("topic", "", "generate transcripts for this topic only")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New().WithError(err).Fatal("failed to load config")
	}
	log := logger.NewWith(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel}).Component("generate")

	if err := cfg.CheckSalt(); err != nil {
		log.WithError(err).Warn("using placeholder salt; set SALT_PII before sharing the dataset")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := generator.GenerateRecords(ctx, generator.RecordOptions{
		Count:   cfg.Generate.NumCalls,
		Seed:    cfg.Generate.Seed,
		Salt:    cfg.Salt,
		Workers: cfg.Generate.Workers,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to generate call records")
	}

	csvPath := cfg.RecordsCSVPath()
	if err := dataset.WriteRecordsCSV(csvPath, records); err != nil {
		log.WithError(err).Fatal("failed to write records")
	}
	log.WithField("path", csvPath).WithField("records", len(records)).Info("call records written")

	if cfg.Generate.XLSX {
		xlsxPath := cfg.RecordsXLSXPath()
		if err := dataset.WriteRecordsXLSX(xlsxPath, records); err != nil {
			log.WithError(err).Fatal("failed to write records workbook")
		}
		log.WithField("path", xlsxPath).Info("call records workbook written")
	}

	var transcripts []types.DialogueTranscript
	if *topic != "" {
		t, ok := types.ParseTopic(*topic)
		if !ok {
			log.WithField("topic", *topic).Fatal("unknown topic")
		}
		transcripts, err = generator.GenerateTopicTranscripts(t, cfg.Generate.NumTranscripts)
	} else {
		transcripts, err = generator.GenerateTranscripts(cfg.Generate.NumTranscripts, cfg.Generate.Seed)
	}
	if err != nil {
		log.WithError(err).Fatal("failed to generate transcripts")
	}
	paths, err := dataset.WriteTranscripts(cfg.TranscriptsDir(), transcripts)
	if err != nil {
		log.WithError(err).Fatal("failed to write transcripts")
	}
	log.WithField("dir", cfg.TranscriptsDir()).WithField("files", len(paths)).Info("transcripts written")

	summary := dataset.Summarize(records)
	log.WithField("total_calls", summary.TotalCalls).
		WithField("resolution_rate", summary.ResolutionRate).
		WithField("avg_handle_sec", summary.AvgHandleSeconds).
		Info("dataset summary")

	card := actionable.Generate(summary)
	log.WithField("insight", card.Insight).WithField("action", card.Action).WithField("impact", card.Impact).Info("action card")
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
