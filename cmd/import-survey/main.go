package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stemsi/survey-editor/internal/config"
	"github.com/stemsi/survey-editor/internal/database"
	"github.com/stemsi/survey-editor/internal/logger"
	"github.com/stemsi/survey-editor/internal/model"
	"github.com/stemsi/survey-editor/internal/repository"
	"github.com/stemsi/survey-editor/internal/service"
	"gopkg.in/yaml.v3"
)

func main() {
	var dryRun bool
	flag.BoolVar(&dryRun, "dry-run", false, "Validate the files without writing to the database")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: import-survey [-dry-run] <survey.yaml>...")
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat).With().Str("component", "import_survey").Logger()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	surveys := make([]*model.Survey, 0, flag.NArg())
	for _, path := range flag.Args() {
		s, err := loadSurvey(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Failed to read survey")
		}
		surveys = append(surveys, s)
	}

	var store service.SurveyStore = discardStore{}
	if !dryRun {
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		store = repository.NewSurveyRepository(pool)
	}
	surveyService := service.NewSurveyService(store, log)

	imported := 0
	for i, s := range surveys {
		if err := surveyService.Create(ctx, s); err != nil {
			log.Error().Err(err).Str("file", flag.Arg(i)).Msg("Import failed")
			continue
		}
		imported++
		log.Info().
			Str("file", flag.Arg(i)).
			Str("title", s.Title).
			Int("questions", len(s.Questions)).
			Bool("dry_run", dryRun).
			Msg("Survey imported")
	}

	log.Info().Int("imported", imported).Int("total", len(surveys)).Msg("Import completed")
	if imported != len(surveys) {
		os.Exit(1)
	}
}

func loadSurvey(path string) (*model.Survey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var s model.Survey
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if s.Title == "" {
		return nil, fmt.Errorf("%s: title is required", path)
	}
	return &s, nil
}
