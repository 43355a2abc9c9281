// Command main runs the database seeder for FieldOps.
package main

import (
	"flag"
	"log"

	"fieldops/internal/config"
	"fieldops/internal/database"
	"fieldops/internal/seed"
)

func main() {
	numCompanies := flag.Int("companies", 3, "Number of companies to create")
	usersPerCo := flag.Int("users", 5, "Number of users per company")
	numAccess := flag.Int("access-requests", 10, "Number of pending access requests")
	numApprovals := flag.Int("approvals", 8, "Number of pending approval requests")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Skip bcrypt hashing for large seeds")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d companies x %d users, %d access requests, %d approvals, clean=%v",
		*numCompanies, *usersPerCo, *numAccess, *numApprovals, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumCompanies:      *numCompanies,
		NumUsersPerCo:     *usersPerCo,
		NumAccessRequests: *numAccess,
		NumApprovals:      *numApprovals,
		SkipBcrypt:        *fast,
	})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}
	if err := s.SeedWorkflow(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Done. All seeded users have the password:", seed.DefaultPassword)
}
