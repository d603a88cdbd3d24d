package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"spark-chat/config"
	"spark-chat/internal/repository"
	"spark-chat/pkg/database"

	"gorm.io/gorm"
)

const usage = `
Spark Chat - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Create or update the conversations and messages tables
  status      Show database connection and table status
  reset       Drop all tables and re-run migrations (DANGEROUS)

Flags:
  -yes        Skip the reset countdown

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go status
  go run cmd/migrate/main.go -yes reset
`

func main() {
	skipWait := flag.Bool("yes", false, "Skip the reset countdown")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	switch command {
	case "up":
		runMigrationsUp(db)
	case "status":
		showStatus(db)
	case "reset":
		runReset(db, *skipWait)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(db *gorm.DB) {
	log.Println("🚀 Running migrations UP...")

	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Migrations completed successfully!")
}

func showStatus(db *gorm.DB) {
	log.Println("🔍 Checking database status...")

	ctx, cancel := contextWithTimeout()
	defer cancel()
	if err := database.HealthCheck(ctx, db); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	log.Println("✅ Database connection: OK")

	status := repository.TableStatus(db)
	tables := make([]string, 0, len(status))
	for table := range status {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		if !status[table] {
			log.Printf("❌ Table %-20s does not exist", table)
			continue
		}
		var count int64
		db.Table(table).Count(&count)
		log.Printf("✅ Table %-20s exists (%d rows)", table, count)
	}
}

func runReset(db *gorm.DB, skipWait bool) {
	log.Println("⚠️  WARNING: This will DROP all tables and re-run migrations!")

	if !skipWait {
		log.Println("⚠️  Press Ctrl+C within 5 seconds to cancel...")
		fmt.Print("Proceeding in: ")
		for i := 5; i > 0; i-- {
			fmt.Printf("%d... ", i)
			time.Sleep(time.Second)
		}
		fmt.Println()
	}

	log.Println("🗑️  Dropping all tables...")
	if err := repository.DropSchema(db); err != nil {
		log.Fatalf("❌ Failed to drop tables: %v", err)
	}

	log.Println("🚀 Running migrations...")
	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Database reset completed!")
}

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
