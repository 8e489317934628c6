package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"vpn-subpage/internal/infra/sqlite3"
	"vpn-subpage/internal/storage"
	"vpn-subpage/internal/stories/subs"
	"vpn-subpage/internal/stories/users"
)

func main() {
	dbPath := flag.String("db", "./data/subpage.db", "path to SQLite database")
	csvPath := flag.String("csv", "./subscriptions.csv", "path to CSV file")
	dryRun := flag.Bool("dry-run", false, "show what would be imported without writing to DB")
	flag.Parse()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := sqlite3.New(ctx, sqlite3.WithDSN(*dbPath), sqlite3.WithMaxOpenConns(1))
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.Migrate(db.DB.DB); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("failed to open %s: %v", *csvPath, err)
	}
	defer file.Close()

	storageImpl := storage.New(db.DB)
	im := &importer{
		users:  users.NewService(storageImpl),
		subs:   subs.NewService(storageImpl),
		now:    func() time.Time { return time.Now().UTC() },
		dryRun: *dryRun,
		logger: logger,
	}

	res, err := im.Import(ctx, file)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("\n=== TOTAL ===\n")
	fmt.Printf("Imported: %d\n", res.Imported)
	fmt.Printf("Skipped: %d\n", res.Skipped)
	fmt.Printf("Errors: %d\n", res.Errors)

	if *dryRun {
		fmt.Println("\n(DRY RUN - nothing was written to database)")
	}
}
