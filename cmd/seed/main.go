// Command main runs the database seeder for the portfolio backend.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/middleware"
	"portfolio/internal/seed"
)

func main() {
	numSkills := flag.Int("skills", 8, "Number of skills to create")
	numProjects := flag.Int("projects", 6, "Number of projects to create")
	numMessages := flag.Int("messages", 25, "Number of contact messages to create")
	owner := flag.String("owner", "owner@example.com", "Email of the owner account to create (empty to skip)")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d skills, %d projects, %d messages, clean=%v\n", *numSkills, *numProjects, *numMessages, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("❌ Refusing to seed a production database")
	}
	middleware.ConfigureLogger(cfg.Env, os.Stdout)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	summary, err := s.Run(context.Background(), seed.Options{
		NumSkills:   *numSkills,
		NumProjects: *numProjects,
		NumMessages: *numMessages,
		OwnerEmail:  *owner,
		ShouldClean: *shouldClean,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with demo content.")
	if summary.Owner {
		log.Printf("📧 Owner %s has the password: %s\n", *owner, seed.DefaultPassword)
	}
}
