// Command import scrapes daily readings for one or all active books and
// stores them as inspirations.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"morning_bot/internal/importer"
	"morning_bot/internal/storage"
)

func main() {
	dbPath := flag.String("db", envOrDefault("DATABASE_PATH", "./data/bot.db"), "path to sqlite database")
	bookID := flag.Int64("book", 0, "import a single book by ID (default: all active books)")
	delay := flag.Duration("delay", time.Second, "delay between page requests")
	maxPages := flag.Int("max-pages", 400, "maximum pages to fetch per book")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := storage.NewSQLite(*dbPath)
	if err != nil {
		log.Error("open database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	im := importer.New(http.DefaultClient, store, log, *delay, *maxPages)

	books, err := store.ListActiveBooks(ctx)
	if err != nil {
		log.Error("list books", "error", err)
		os.Exit(1)
	}

	failed := false
	for _, book := range books {
		if *bookID != 0 && book.ID != *bookID {
			continue
		}
		if book.SourceURL == "" {
			log.Warn("book has no source URL, skipping", "book_id", book.ID, "title", book.Title)
			continue
		}

		log.Info("importing book", "book_id", book.ID, "title", book.Title)
		stats, err := im.ImportBook(ctx, &book)
		if err != nil {
			log.Error("import book", "book_id", book.ID, "error", err)
			failed = true
		}
		log.Info("import finished",
			"book_id", book.ID,
			"pages", stats.Pages,
			"imported", stats.Imported,
			"skipped", stats.Skipped,
			"errors", stats.Errors,
		)
	}

	if failed {
		os.Exit(1)
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
