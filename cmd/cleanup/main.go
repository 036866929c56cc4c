// Command main runs one retention sweep and exits. Intended for cron.
package main

import (
	"context"
	"log"
	"time"

	"domainreg/internal/config"
	"domainreg/internal/database"
	"domainreg/internal/repository"
	"domainreg/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	svc := service.NewCleanupService(db, repository.NewDomainRepository(db), nil)
	result, err := svc.Run(ctx)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	log.Printf("Sweep finished: %d moved to trash, %d permanently deleted",
		result.Trashed, result.Purged)
}
