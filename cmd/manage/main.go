package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fcornetti/booking-yoga-system/internal/config"
	"github.com/fcornetti/booking-yoga-system/internal/database"
	"github.com/fcornetti/booking-yoga-system/internal/models"
	"github.com/fcornetti/booking-yoga-system/internal/repository"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	switch os.Args[1] {
	case "setup":
		db := mustOpen(cfg)
		defer db.Close()
		if err := db.EnsureSchema(); err != nil {
			log.Fatalf("Failed to create schema: %v", err)
		}
		fmt.Println("Schema created.")

	case "reset":
		if cfg.DatabaseType != "sqlite" {
			log.Fatalf("reset only supports sqlite databases (current: %s)", cfg.DatabaseType)
		}
		if err := os.Remove(cfg.DatabasePath); err != nil && !os.IsNotExist(err) {
			log.Fatalf("Failed to remove database file: %v", err)
		}
		db := mustOpen(cfg)
		defer db.Close()
		if err := db.EnsureSchema(); err != nil {
			log.Fatalf("Failed to recreate schema: %v", err)
		}
		fmt.Println("Database reset.")

	case "sample":
		db := mustOpen(cfg)
		defer db.Close()
		if err := db.EnsureSchema(); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		handleSample(db)

	case "show":
		db := mustOpen(cfg)
		defer db.Close()
		handleShow(db)

	case "check":
		db := mustOpen(cfg)
		defer db.Close()
		handleCheck(db)

	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func mustOpen(cfg *config.Config) *database.DB {
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	return db
}

// handleSample seeds a week of demo classes.
func handleSample(db *database.DB) {
	classRepo := repository.NewClassRepository(db)

	base := time.Now().AddDate(0, 0, 1)
	morning := time.Date(base.Year(), base.Month(), base.Day(), 9, 0, 0, 0, base.Location())
	evening := time.Date(base.Year(), base.Month(), base.Day(), 18, 30, 0, 0, base.Location())

	samples := []models.YogaClass{
		{Name: "Morning Vinyasa Flow", Instructor: "Jantine", DateTime: morning, Duration: 75, Capacity: 15, Location: "Main Studio"},
		{Name: "Evening Yin", Instructor: "Jantine", DateTime: evening, Duration: 60, Capacity: 12, Location: "Main Studio"},
		{Name: "Morning Vinyasa Flow", Instructor: "Marco", DateTime: morning.AddDate(0, 0, 2), Duration: 75, Capacity: 15, Location: "Main Studio"},
		{Name: "Restorative Yoga", Instructor: "Sofia", DateTime: evening.AddDate(0, 0, 3), Duration: 90, Capacity: 10, Location: "Garden Room"},
		{Name: "Power Yoga", Instructor: "Marco", DateTime: morning.AddDate(0, 0, 5), Duration: 75, Capacity: 20, Location: "Main Studio"},
	}

	for i := range samples {
		if _, err := classRepo.CreateClass(&samples[i]); err != nil {
			log.Fatalf("Failed to insert sample class %q: %v", samples[i].Name, err)
		}
	}
	fmt.Printf("Inserted %d sample classes.\n", len(samples))
}

// handleShow prints the upcoming schedule with booking counts.
func handleShow(db *database.DB) {
	classRepo := repository.NewClassRepository(db)

	classes, err := classRepo.ListUpcomingActive(time.Now())
	if err != nil {
		log.Fatalf("Failed to list classes: %v", err)
	}
	if len(classes) == 0 {
		fmt.Println("No upcoming classes.")
		return
	}

	for _, c := range classes {
		fmt.Printf("[%d] %s with %s — %s (%d min) — %d/%d booked",
			c.ID, c.Name, c.Instructor,
			c.DateTime.Format("Mon 2 Jan 15:04"), c.Duration,
			c.BookingCount, c.Capacity)
		if c.Location != "" {
			fmt.Printf(" @ %s", c.Location)
		}
		fmt.Println()
	}
}

// handleCheck verifies connectivity and reports table row counts.
func handleCheck(db *database.DB) {
	if err := db.Ping(); err != nil {
		log.Fatalf("Database unreachable: %v", err)
	}

	for _, table := range []string{"users", "yoga_classes", "bookings"} {
		var count int
		row := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
		if err := row.Scan(&count); err != nil {
			log.Fatalf("Failed to count %s: %v", table, err)
		}
		fmt.Printf("%-14s %d rows\n", table, count)
	}
	fmt.Println("Database OK.")
}

func printUsage() {
	fmt.Println(`Usage: manage <command>

Commands:
  setup   Create the schema if it does not exist
  reset   Delete the sqlite database file and recreate the schema
  sample  Insert a set of demo classes
  show    Print the upcoming schedule with booking counts
  check   Verify connectivity and report row counts`)
}
