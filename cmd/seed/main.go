// Command main runs the database seeder for the portal.
package main

import (
	"flag"
	"log"

	"domainreg/internal/config"
	"domainreg/internal/database"
	"domainreg/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of random requester accounts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	baselineOnly := flag.Bool("baseline-only", false, "Only create the fixed baseline accounts")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Baseline(); err != nil {
		log.Fatalf("Baseline seeding failed: %v", err)
	}

	if !*baselineOnly {
		if err := s.Populate(*numUsers); err != nil {
			log.Fatalf("Random seeding failed: %v", err)
		}
	}

	log.Println("Seeding complete. Admin login: admin/admin123")
}
