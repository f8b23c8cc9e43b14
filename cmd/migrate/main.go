package main

import (
	"context"
	"log"
	"os"

	"seqalloc/adapters/postgres/migrations"
	"seqalloc/internal/config"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	migrator := migrations.NewMigrator(db.DB)

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		if err := migrator.Up(ctx); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations applied")
	case "status":
		if err := migrator.Status(ctx); err != nil {
			log.Fatalf("Status failed: %v", err)
		}
	default:
		log.Fatalf("Usage: migrate [up|status]")
	}
}
