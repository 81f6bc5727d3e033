package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dimitrije/hackteam-api/internal/config"
	"github.com/dimitrije/hackteam-api/internal/database"
	"github.com/dimitrije/hackteam-api/internal/services"
	"github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) > 1 {
		fmt.Println("Usage: seed-catalog")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	if err := database.Migrate(ctx, cfg.DatabaseURL, logrus.StandardLogger()); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	seeded, err := services.NewCatalogService(db).Seed(ctx, services.DefaultCategories)
	if err != nil {
		logrus.Fatalf("Failed to seed catalog: %v", err)
	}

	fmt.Printf("Seeded %d categories\n", seeded)
}
