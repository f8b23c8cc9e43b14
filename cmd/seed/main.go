package main

import (
	"context"
	"flag"
	"log"

	"seqalloc/adapters/postgres"
	"seqalloc/adapters/postgres/migrations"
	"seqalloc/app"
	"seqalloc/domain/sequence"
	"seqalloc/internal/config"
	"seqalloc/internal/logging"
	"seqalloc/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	count := flag.Int("count", 10, "number of demo personas to generate")
	kind := flag.String("kind", "member", "persona kind to generate")
	adjust := flag.Bool("adjust", false, "advance an existing native counter past occupied values")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := migrations.NewMigrator(db.DB).Up(ctx); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	store := postgres.NewSequenceStore(db)
	prober := postgres.NewRowProber(db)
	allocator := app.NewAllocator(store, prober, app.AllocatorConfig{
		EnforceCounterExistence: cfg.Sequence.EnforceCounterExistence,
		MaxProbeDoublings:       cfg.Sequence.MaxProbeDoublings,
		Logger:                  logger,
	})

	sessions := postgres.NewSessionRepository(db)
	registry := app.StaticRegistry{
		*kind: postgres.NewPersonaFactory(db, allocator),
	}
	job := app.NewGenerationJob(sessions, registry, store, logger)

	if *adjust {
		ctx = sequence.WithAdjustment(ctx)
	}

	succeeded := 0
	for i := 0; i < *count; i++ {
		session := models.NewGenerationSession(uuid.New(), *kind, models.Options{})
		if err := sessions.Create(ctx, session); err != nil {
			log.Fatalf("Failed to create generation session: %v", err)
		}
		if err := job.Run(ctx, session.ID); err != nil {
			logger.Warn("persona generation failed",
				zap.String("session_id", session.ID.String()),
				zap.Error(err))
			continue
		}
		succeeded++
	}

	logger.Info("seed run complete",
		zap.Int("requested", *count),
		zap.Int("succeeded", succeeded))
}
