package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"opspilot/ai"
	"opspilot/api"
	"opspilot/archive"
	"opspilot/config"
	"opspilot/dedupe"
	"opspilot/kafka"
	"opspilot/pipeline"
	"opspilot/scheduler"
	"opspilot/sheets"
	"opspilot/sources"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	ctx := context.Background()

	store, err := sheets.NewStore(ctx, sheets.Config{
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		SpreadsheetID:   cfg.SpreadsheetID,
		SpreadsheetName: cfg.SpreadsheetName,
	})
	if err != nil {
		log.Fatalf("failed to initialize lead store: %v", err)
	}

	cohere := ai.NewClient(cfg.CohereAPIKey, cfg.CohereModel)

	deps := pipeline.Deps{
		Sources: []sources.Source{
			sources.NewReddit(sources.RedditConfig{
				UserAgent:    cfg.RedditUserAgent,
				Subreddits:   cfg.Subreddits,
				ExtractLinks: true,
			}),
			sources.NewX(cfg.NitterURL),
			sources.NewLinkedIn(cfg.LinkedInUsername, cfg.LinkedInPassword),
		},
		Classifier: cohere,
		Drafter:    cohere,
		Store:      store,
		Keywords:   cfg.Keywords,
		Limits: map[string]int{
			"reddit":   cfg.RedditLimit,
			"x":        cfg.XLimit,
			"linkedin": cfg.LinkedInLimit,
		},
		UrgencyThreshold: cfg.UrgencyThreshold,
	}

	// Optional Redis-backed bloom filter for cross-run duplicate hashes.
	if cfg.RedisAddr != "" {
		bloom, err := dedupe.NewRedisBloom(dedupe.BloomConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			Key:      cfg.BloomKey,
		})
		if err != nil {
			log.Printf("Warning: bloom filter unavailable: %v", err)
		} else {
			defer bloom.Close()
			deps.Bloom = bloom
		}
	}

	// Optional saved-lead event stream.
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Printf("Warning: Kafka producer unavailable: %v", err)
		} else {
			defer producer.Close()
			deps.Listeners = append(deps.Listeners, producer)
		}
	}

	// Optional S3 archive of saved leads.
	if cfg.S3Bucket != "" {
		s3Client, err := archive.NewS3(ctx, archive.S3Config{
			Region:       cfg.S3Region,
			UsePathStyle: cfg.S3UsePathStyle,
		})
		if err != nil {
			log.Printf("Warning: S3 archive unavailable: %v", err)
		} else {
			deps.Listeners = append(deps.Listeners, archive.NewArchiver(s3Client, cfg.S3Bucket, cfg.S3Prefix))
		}
	}

	runner := pipeline.NewRunner(pipeline.New(deps))

	go scheduler.New(runner, cfg.RunInterval).Start(ctx)

	r := api.NewRouter(&cfg, runner)
	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  GET  /api/stats")
	log.Println("  POST /api/run")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
